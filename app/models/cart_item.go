package models

// CartItem is a line in the shopping cart. Its _id is the hex id of the
// catalog entity it represents, which makes the id itself the duplicate
// guard: inserting the same item twice fails on the primary key and is
// reported as "already in your cart" instead of creating a second row.
//
// The item is a snapshot, not a reference. Catalog edits after the add do
// not propagate into existing carts.
type CartItem struct {
	ID         string     `bson:"_id" json:"_id"`
	Code       string     `bson:"code" json:"code"`
	Name       string     `bson:"name" json:"name"`
	Collection Collection `bson:"dbCollection" json:"dbCollection"`
	Rate       float64    `bson:"rate" json:"rate"`
	Image      string     `bson:"image" json:"image"`
	Quantity   int        `bson:"quantity" json:"quantity"`
	UserID     string     `bson:"user_id" json:"user_id"`
}
