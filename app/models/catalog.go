package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection identifies which catalog a cart item came from. The zero set
// is closed: anything else is rejected before a query runs.
type Collection string

const (
	CollectionTravel Collection = "travel"
	CollectionRooms  Collection = "rooms"
	CollectionMeals  Collection = "meals"
)

// ParseCollection validates a collection tag from the wire.
func ParseCollection(s string) (Collection, error) {
	switch Collection(s) {
	case CollectionTravel, CollectionRooms, CollectionMeals:
		return Collection(s), nil
	}
	return "", fmt.Errorf("collection %q is not one of travel, rooms, meals", s)
}

// Priority is the fixed display order of the cart page: trips first, then
// rooms, then meals.
func (c Collection) Priority() int {
	switch c {
	case CollectionTravel:
		return 0
	case CollectionRooms:
		return 1
	default:
		return 2
	}
}

func (c Collection) String() string { return string(c) }

// Trip is a document in the travel collection.
type Trip struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Code        string             `bson:"code" json:"code" validate:"required"`
	Name        string             `bson:"name" json:"name" validate:"required"`
	Length      string             `bson:"length" json:"length"`
	Start       time.Time          `bson:"start" json:"start"`
	Resort      string             `bson:"resort" json:"resort"`
	PerPerson   float64            `bson:"perPerson" json:"perPerson" validate:"required"`
	Image       string             `bson:"image" json:"image"`
	Description string             `bson:"description" json:"description"`
}

// Room is a document in the rooms collection.
type Room struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Code        string             `bson:"code" json:"code"`
	Name        string             `bson:"name" json:"name"`
	Rate        float64            `bson:"rate" json:"rate"`
	Image       string             `bson:"image" json:"image"`
	Description string             `bson:"description" json:"description"`
}

// Meal is a document in the meals collection.
type Meal struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Code        string             `bson:"code" json:"code"`
	Name        string             `bson:"name" json:"name"`
	Rate        float64            `bson:"rate" json:"rate"`
	Image       string             `bson:"image" json:"image"`
	Description string             `bson:"description" json:"description"`
}
