// Package seeders loads the catalog fixtures from data/ into Mongo.
package seeders

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/travlrgetaways/travlr/app/models"
	"github.com/travlrgetaways/travlr/pkg/logger"
)

// Run wipes and reloads the trips, rooms and meals collections from the
// JSON fixtures in dir. Destructive; meant for development databases.
func Run(ctx context.Context, db *mongo.Database, dir string) error {
	if err := seed[models.Trip](ctx, db, filepath.Join(dir, "trips.json"), "trips"); err != nil {
		return err
	}
	if err := seed[models.Room](ctx, db, filepath.Join(dir, "rooms.json"), "rooms"); err != nil {
		return err
	}
	if err := seed[models.Meal](ctx, db, filepath.Join(dir, "meals.json"), "meals"); err != nil {
		return err
	}
	return nil
}

func seed[T any](ctx context.Context, db *mongo.Database, path, collection string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("seed %s: %w", collection, err)
	}

	var docs []T
	if err := json.Unmarshal(raw, &docs); err != nil {
		return fmt.Errorf("seed %s: parse: %w", collection, err)
	}

	col := db.Collection(collection)
	if _, err := col.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("seed %s: clear: %w", collection, err)
	}

	rows := make([]any, len(docs))
	for i := range docs {
		rows[i] = docs[i]
	}

	if _, err := col.InsertMany(ctx, rows); err != nil {
		return fmt.Errorf("seed %s: insert: %w", collection, err)
	}

	logger.Info("seed: loaded", "collection", collection, "count", len(docs))
	return nil
}
