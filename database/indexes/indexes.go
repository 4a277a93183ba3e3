// Package indexes creates the indexes the application relies on. Run via
// the db:index command before first boot and after upgrades.
package indexes

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/travlrgetaways/travlr/pkg/logger"
)

// Ensure builds every index. Safe to run repeatedly; Mongo treats an
// existing identical index as a no-op.
func Ensure(ctx context.Context, db *mongo.Database) error {
	// Email uniqueness applies to registered accounts only. Guests have
	// no email, and a partial index keeps the pile of guest documents out
	// of the unique constraint entirely.
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"isRegistered": true}),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "isRegistered", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("cartitems").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("trips").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	logger.Info("indexes: ensured")
	return nil
}
