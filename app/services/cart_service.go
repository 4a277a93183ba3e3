// Package services implements the domain operations behind the API.
// Controllers do transport, services do behavior, repositories do storage.
package services

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/travlrgetaways/travlr/app/apperr"
	"github.com/travlrgetaways/travlr/app/models"
	"github.com/travlrgetaways/travlr/app/repositories"
	"github.com/travlrgetaways/travlr/pkg/metrics"
)

// CartService owns all cart behavior. Every operation is scoped to the
// requesting user; one user can never see or mutate another's items.
type CartService struct {
	carts repositories.CartRepository
}

func NewCartService(carts repositories.CartRepository) *CartService {
	return &CartService{carts: carts}
}

// List returns the user's cart ordered for display: trips first, then
// rooms, then meals, and within a collection by insertion-stable order.
func (s *CartService) List(ctx context.Context, userID string) ([]models.CartItem, error) {
	items, err := s.carts.FindByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Collection.Priority() < items[j].Collection.Priority()
	})

	return items, nil
}

// Get fetches one of the user's items, validating the collection tag and
// id shape before touching storage.
func (s *CartService) Get(ctx context.Context, userID, collection, id string) (*models.CartItem, error) {
	tag, err := models.ParseCollection(collection)
	if err != nil {
		return nil, apperr.ErrInvalidCollection
	}

	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, apperr.ErrInvalidID
	}

	item, err := s.carts.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if item.Collection != tag {
		return nil, apperr.ErrNotFound
	}

	return item, nil
}

// Add inserts a snapshot of a catalog entity into the user's cart with
// quantity 1. The id is carried over from the source entity as an opaque
// string. A second add of the same entity returns ErrAlreadyInCart and
// changes nothing.
func (s *CartService) Add(ctx context.Context, userID string, item models.CartItem) (*models.CartItem, error) {
	if _, err := models.ParseCollection(string(item.Collection)); err != nil {
		return nil, apperr.ErrInvalidCollection
	}

	item.UserID = userID
	item.Quantity = 1

	if err := s.carts.Insert(ctx, &item); err != nil {
		return nil, err
	}

	metrics.CartItemsAdded.WithLabelValues(item.Collection.String()).Inc()
	return &item, nil
}

// UpdateQuantity sets the quantity on one of the user's items.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, id string, quantity int) (*models.CartItem, error) {
	return s.carts.UpdateQuantity(ctx, id, userID, quantity)
}

// Remove deletes one of the user's items and returns the removed record.
func (s *CartService) Remove(ctx context.Context, userID, id string) (*models.CartItem, error) {
	return s.carts.Delete(ctx, id, userID)
}
