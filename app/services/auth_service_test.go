package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/travlrgetaways/travlr/app/apperr"
	"github.com/travlrgetaways/travlr/app/models"
	"github.com/travlrgetaways/travlr/app/services"
)

type fakeUserRepo struct {
	users map[primitive.ObjectID]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]models.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if user.IsRegistered {
		for _, existing := range f.users {
			if existing.IsRegistered && existing.Email == user.Email {
				return apperr.ErrDuplicateEmail
			}
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.IsRegistered && user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeUserRepo) Save(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return apperr.ErrNotFound
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) FindIdleGuests(_ context.Context, before time.Time) ([]models.User, error) {
	var out []models.User
	for _, user := range f.users {
		if !user.IsRegistered && user.CreatedAt.Before(before) {
			out = append(out, user)
		}
	}
	return out, nil
}

// fakeMigrator replays the real migration semantics against the fakes.
type fakeMigrator struct {
	users *fakeUserRepo
	carts *fakeCartRepo
}

func (m *fakeMigrator) Migrate(ctx context.Context, guestID, newID primitive.ObjectID) (int64, error) {
	moved, err := m.carts.ReassignOwner(ctx, guestID.Hex(), newID.Hex())
	if err != nil {
		return 0, err
	}
	return moved, m.users.Delete(ctx, guestID)
}

func newAuthService(t *testing.T) (*services.AuthService, *fakeUserRepo, *fakeCartRepo) {
	t.Helper()
	users := newFakeUserRepo()
	carts := newFakeCartRepo()
	svc := services.NewAuthService(users, carts, &fakeMigrator{users: users, carts: carts})
	return svc, users, carts
}

func TestRegisterMigratesGuestCart(t *testing.T) {
	svc, users, carts := newAuthService(t)
	ctx := context.Background()

	guest, _, err := svc.RegisterGuest(ctx)
	require.NoError(t, err)

	for seed := byte(1); seed <= 3; seed++ {
		item := cartItem(seed, models.CollectionTravel, "")
		item.UserID = guest.ID.Hex()
		require.NoError(t, carts.Insert(ctx, &item))
	}

	user, token, err := svc.Register(ctx, services.RegisterInput{
		FName:    "Ada",
		LName:    "Lovelace",
		Email:    "ada@example.com",
		Password: "correct horse",
		GuestID:  guest.ID.Hex(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Every item now belongs to the new account and none to the guest.
	mine, err := carts.FindByOwner(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	orphaned, err := carts.FindByOwner(ctx, guest.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, orphaned)

	_, err = users.FindByID(ctx, guest.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound, "guest record must be retired")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	in := services.RegisterInput{
		FName: "Ada", LName: "Lovelace",
		Email: "ada@example.com", Password: "correct horse",
	}

	_, _, err := svc.Register(ctx, in)
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, apperr.ErrDuplicateEmail)
}

func TestLoginDoesNotLeakWhichPartWasWrong(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, services.RegisterInput{
		FName: "Ada", LName: "Lovelace",
		Email: "ada@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(ctx, "ada@example.com", "wrong")
	_, _, unknownEmail := svc.Login(ctx, "nobody@example.com", "whatever")

	assert.ErrorIs(t, wrongPassword, apperr.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, apperr.ErrInvalidCredentials)
}

func TestLoginSuccess(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, services.RegisterInput{
		FName: "Ada", LName: "Lovelace",
		Email: "ada@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)
}

func TestRegisterGuestProducesFreshIdentities(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	a, tokenA, err := svc.RegisterGuest(ctx)
	require.NoError(t, err)
	b, tokenB, err := svc.RegisterGuest(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEmpty(t, tokenA)
	assert.NotEmpty(t, tokenB)
	assert.False(t, a.IsRegistered)
	assert.Empty(t, a.FName)
	assert.Empty(t, a.LName)
	assert.Empty(t, a.Email)
}

func TestPurgeIdleGuests(t *testing.T) {
	svc, users, carts := newAuthService(t)
	ctx := context.Background()

	old := &models.User{IsRegistered: false, CreatedAt: time.Now().Add(-40 * 24 * time.Hour)}
	require.NoError(t, users.Create(ctx, old))
	item := cartItem(9, models.CollectionMeals, old.ID.Hex())
	require.NoError(t, carts.Insert(ctx, &item))

	fresh := &models.User{IsRegistered: false, CreatedAt: time.Now()}
	require.NoError(t, users.Create(ctx, fresh))

	purged, err := svc.PurgeIdleGuests(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, err = users.FindByID(ctx, old.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = users.FindByID(ctx, fresh.ID)
	assert.NoError(t, err)

	remaining, err := carts.FindByOwner(ctx, old.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
