package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/travlrgetaways/travlr/app/apperr"
	"github.com/travlrgetaways/travlr/app/models"
)

// CartRepository persists cart items. The item id doubles as the source
// catalog entity's id, so inserting the same trip twice trips the
// primary key and surfaces as ErrAlreadyInCart.
type CartRepository interface {
	Insert(ctx context.Context, item *models.CartItem) error
	FindByOwner(ctx context.Context, userID string) ([]models.CartItem, error)
	FindByID(ctx context.Context, id, userID string) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, id, userID string, quantity int) (*models.CartItem, error)
	Delete(ctx context.Context, id, userID string) (*models.CartItem, error)
	// ReassignOwner moves every item from one owner to another, returning
	// the number of items moved.
	ReassignOwner(ctx context.Context, fromUserID, toUserID string) (int64, error)
	DeleteByOwner(ctx context.Context, userID string) (int64, error)
}

type mongoCartRepository struct {
	col *mongo.Collection
}

func NewCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepository{col: db.Collection("cartitems")}
}

func (r *mongoCartRepository) Insert(ctx context.Context, item *models.CartItem) error {
	_, err := r.col.InsertOne(ctx, item)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.ErrAlreadyInCart
	}
	return err
}

func (r *mongoCartRepository) FindByOwner(ctx context.Context, userID string) ([]models.CartItem, error) {
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []models.CartItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *mongoCartRepository) FindByID(ctx context.Context, id, userID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.col.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *mongoCartRepository) UpdateQuantity(ctx context.Context, id, userID string, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"quantity": quantity}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *mongoCartRepository) Delete(ctx context.Context, id, userID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *mongoCartRepository) ReassignOwner(ctx context.Context, fromUserID, toUserID string) (int64, error) {
	res, err := r.col.UpdateMany(ctx,
		bson.M{"user_id": fromUserID},
		bson.M{"$set": bson.M{"user_id": toUserID}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *mongoCartRepository) DeleteByOwner(ctx context.Context, userID string) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
