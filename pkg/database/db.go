// Package database opens the MongoDB connection used by the repositories.
//
// The handle is constructed once at startup and passed down explicitly;
// there is no package-level DB variable to import.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/travlrgetaways/travlr/config"
)

// Conn bundles the client (needed for sessions/transactions and shutdown)
// with the application database handle.
type Conn struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect dials the configured MongoDB deployment and verifies it with a
// ping. The returned Conn must be closed on shutdown.
func Connect(ctx context.Context) (*Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(config.MongoURI()).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(25)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return &Conn{Client: client, DB: client.Database(config.MongoDB())}, nil
}

// Close disconnects the client, bounded by a short timeout so shutdown
// cannot hang on a dead server.
func (c *Conn) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("database: disconnect: %w", err)
	}
	return nil
}
