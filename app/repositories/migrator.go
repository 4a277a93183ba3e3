package repositories

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/travlrgetaways/travlr/pkg/logger"
)

// GuestMigrator moves a guest's cart onto a freshly registered account
// and removes the guest record.
type GuestMigrator interface {
	Migrate(ctx context.Context, guestID, newID primitive.ObjectID) (int64, error)
}

type mongoGuestMigrator struct {
	client *mongo.Client
	carts  CartRepository
	users  UserRepository
}

func NewGuestMigrator(client *mongo.Client, carts CartRepository, users UserRepository) GuestMigrator {
	return &mongoGuestMigrator{client: client, carts: carts, users: users}
}

// Migrate reassigns cart ownership and deletes the guest in one
// transaction. Standalone Mongo deployments reject transactions; both
// steps are idempotent, so migration falls back to running them
// sequentially there.
func (m *mongoGuestMigrator) Migrate(ctx context.Context, guestID, newID primitive.ObjectID) (int64, error) {
	var moved int64

	session, err := m.client.StartSession()
	if err != nil {
		return m.migratePlain(ctx, guestID, newID)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		n, err := m.carts.ReassignOwner(sc, guestID.Hex(), newID.Hex())
		if err != nil {
			return nil, err
		}
		moved = n
		return nil, m.users.Delete(sc, guestID)
	})
	if err != nil {
		if isTransactionUnsupported(err) {
			logger.Warn("migrator: transactions unavailable, migrating sequentially")
			return m.migratePlain(ctx, guestID, newID)
		}
		return 0, err
	}

	return moved, nil
}

func (m *mongoGuestMigrator) migratePlain(ctx context.Context, guestID, newID primitive.ObjectID) (int64, error) {
	moved, err := m.carts.ReassignOwner(ctx, guestID.Hex(), newID.Hex())
	if err != nil {
		return 0, err
	}
	if err := m.users.Delete(ctx, guestID); err != nil {
		return moved, err
	}
	return moved, nil
}

func isTransactionUnsupported(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Transaction numbers are only allowed") ||
		strings.Contains(msg, "IllegalOperation")
}
