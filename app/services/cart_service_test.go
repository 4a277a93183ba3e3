package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/travlrgetaways/travlr/app/apperr"
	"github.com/travlrgetaways/travlr/app/models"
	"github.com/travlrgetaways/travlr/app/services"
)

// fakeCartRepo is an in-memory CartRepository keyed the same way Mongo
// would key it: item id is the primary key, owner is a plain field.
type fakeCartRepo struct {
	items map[string]models.CartItem
	order []string
	fail  error
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{items: map[string]models.CartItem{}}
}

func (f *fakeCartRepo) Insert(_ context.Context, item *models.CartItem) error {
	if f.fail != nil {
		return f.fail
	}
	if _, ok := f.items[item.ID]; ok {
		return apperr.ErrAlreadyInCart
	}
	f.items[item.ID] = *item
	f.order = append(f.order, item.ID)
	return nil
}

func (f *fakeCartRepo) FindByOwner(_ context.Context, userID string) ([]models.CartItem, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	var out []models.CartItem
	for _, id := range f.order {
		if item := f.items[id]; item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeCartRepo) FindByID(_ context.Context, id, userID string) (*models.CartItem, error) {
	item, ok := f.items[id]
	if !ok || item.UserID != userID {
		return nil, apperr.ErrNotFound
	}
	return &item, nil
}

func (f *fakeCartRepo) UpdateQuantity(_ context.Context, id, userID string, quantity int) (*models.CartItem, error) {
	item, ok := f.items[id]
	if !ok || item.UserID != userID {
		return nil, apperr.ErrNotFound
	}
	item.Quantity = quantity
	f.items[id] = item
	return &item, nil
}

func (f *fakeCartRepo) Delete(_ context.Context, id, userID string) (*models.CartItem, error) {
	item, ok := f.items[id]
	if !ok || item.UserID != userID {
		return nil, apperr.ErrNotFound
	}
	delete(f.items, id)
	return &item, nil
}

func (f *fakeCartRepo) ReassignOwner(_ context.Context, from, to string) (int64, error) {
	var n int64
	for id, item := range f.items {
		if item.UserID == from {
			item.UserID = to
			f.items[id] = item
			n++
		}
	}
	return n, nil
}

func (f *fakeCartRepo) DeleteByOwner(_ context.Context, userID string) (int64, error) {
	var n int64
	for id, item := range f.items {
		if item.UserID == userID {
			delete(f.items, id)
			n++
		}
	}
	return n, nil
}

func hexID(seed byte) string {
	var raw [12]byte
	for i := range raw {
		raw[i] = seed
	}
	return primitive.ObjectID(raw).Hex()
}

func cartItem(seed byte, collection models.Collection, owner string) models.CartItem {
	return models.CartItem{
		ID:         hexID(seed),
		Code:       "C1",
		Name:       "Item",
		Collection: collection,
		Rate:       100,
		UserID:     owner,
	}
}

func TestCartListOrdersCollections(t *testing.T) {
	repo := newFakeCartRepo()
	svc := services.NewCartService(repo)
	ctx := context.Background()

	// Inserted rooms, travel, meals; listing must come back travel,
	// rooms, meals regardless.
	inserts := []models.Collection{
		models.CollectionRooms,
		models.CollectionTravel,
		models.CollectionMeals,
	}
	for i, col := range inserts {
		_, err := svc.Add(ctx, "u1", cartItem(byte(i+1), col, ""))
		require.NoError(t, err)
	}

	items, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, models.CollectionTravel, items[0].Collection)
	assert.Equal(t, models.CollectionRooms, items[1].Collection)
	assert.Equal(t, models.CollectionMeals, items[2].Collection)
}

func TestCartAddDuplicateLeavesItemUntouched(t *testing.T) {
	repo := newFakeCartRepo()
	svc := services.NewCartService(repo)
	ctx := context.Background()

	first := cartItem(7, models.CollectionRooms, "")
	added, err := svc.Add(ctx, "u1", first)
	require.NoError(t, err)
	assert.Equal(t, 1, added.Quantity)

	_, err = svc.UpdateQuantity(ctx, "u1", first.ID, 5)
	require.NoError(t, err)

	_, err = svc.Add(ctx, "u1", first)
	require.ErrorIs(t, err, apperr.ErrAlreadyInCart)

	stored, err := svc.Get(ctx, "u1", "rooms", first.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Quantity, "duplicate add must not reset quantity")
}

func TestCartIsOwnerScoped(t *testing.T) {
	repo := newFakeCartRepo()
	svc := services.NewCartService(repo)
	ctx := context.Background()

	mine := cartItem(1, models.CollectionTravel, "")
	_, err := svc.Add(ctx, "u1", mine)
	require.NoError(t, err)

	items, err := svc.List(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = svc.Get(ctx, "u2", "travel", mine.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Remove(ctx, "u2", mine.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.UpdateQuantity(ctx, "u2", mine.ID, 3)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCartGetValidatesInput(t *testing.T) {
	repo := newFakeCartRepo()
	svc := services.NewCartService(repo)
	ctx := context.Background()

	_, err := svc.Get(ctx, "u1", "cars", hexID(1))
	assert.ErrorIs(t, err, apperr.ErrInvalidCollection)

	_, err = svc.Get(ctx, "u1", "rooms", "not-a-hex-id")
	assert.ErrorIs(t, err, apperr.ErrInvalidID)
}

func TestCartAddRejectsBadItem(t *testing.T) {
	repo := newFakeCartRepo()
	svc := services.NewCartService(repo)
	ctx := context.Background()

	bad := cartItem(1, "cars", "")
	_, err := svc.Add(ctx, "u1", bad)
	assert.ErrorIs(t, err, apperr.ErrInvalidCollection)
}

func TestCartAddKeepsOpaqueID(t *testing.T) {
	repo := newFakeCartRepo()
	svc := services.NewCartService(repo)
	ctx := context.Background()

	item := cartItem(1, models.CollectionRooms, "")
	item.ID = "abc"
	added, err := svc.Add(ctx, "u1", item)
	require.NoError(t, err)
	assert.Equal(t, "abc", added.ID)

	_, err = svc.Add(ctx, "u1", item)
	assert.ErrorIs(t, err, apperr.ErrAlreadyInCart)
}

func TestCartListPropagatesStorageError(t *testing.T) {
	repo := newFakeCartRepo()
	repo.fail = errors.New("boom")
	svc := services.NewCartService(repo)

	_, err := svc.List(context.Background(), "u1")
	assert.Error(t, err)
}
