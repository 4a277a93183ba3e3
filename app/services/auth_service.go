package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/travlrgetaways/travlr/app/apperr"
	"github.com/travlrgetaways/travlr/app/models"
	"github.com/travlrgetaways/travlr/app/repositories"
	"github.com/travlrgetaways/travlr/pkg/auth"
	"github.com/travlrgetaways/travlr/pkg/event"
	"github.com/travlrgetaways/travlr/pkg/logger"
	"github.com/travlrgetaways/travlr/pkg/metrics"
)

// EventUserRegistered fires after a successful registration. The payload
// is the new *models.User.
const EventUserRegistered = "user.registered"

// AuthService handles registration, login and guest identities.
type AuthService struct {
	users    repositories.UserRepository
	carts    repositories.CartRepository
	migrator repositories.GuestMigrator
}

func NewAuthService(users repositories.UserRepository, carts repositories.CartRepository, migrator repositories.GuestMigrator) *AuthService {
	return &AuthService{users: users, carts: carts, migrator: migrator}
}

// RegisterInput carries the signup form plus the optional guest identity
// taken from the visitor's session cookie.
type RegisterInput struct {
	FName    string
	LName    string
	Email    string
	Password string
	GuestID  string
}

// Register creates a registered account, migrating the caller's guest
// cart onto it when a guest id is supplied. Returns the new user and a
// signed token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		FName:        in.FName,
		LName:        in.LName,
		Email:        in.Email,
		PasswordHash: hash,
		IsRegistered: true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	if in.GuestID != "" {
		s.migrateGuest(ctx, in.GuestID, user.ID)
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	event.FireAsync(ctx, EventUserRegistered, user)
	return user, token, nil
}

// migrateGuest moves the guest's cart onto the new account. A migration
// failure does not fail the registration: the account exists and the
// guest cart is still intact, so the error is logged and the purge job
// eventually retires the guest.
func (s *AuthService) migrateGuest(ctx context.Context, guestID string, newID primitive.ObjectID) {
	gid, err := primitive.ObjectIDFromHex(guestID)
	if err != nil {
		logger.WithCtx(ctx).Warn("register: malformed guest id, skipping migration", "guest_id", guestID)
		return
	}
	if gid == newID {
		return
	}

	moved, err := s.migrator.Migrate(ctx, gid, newID)
	if err != nil {
		logger.WithCtx(ctx).Error("register: guest migration failed",
			"guest_id", guestID, "user_id", newID.Hex(), "error", err)
		return
	}

	metrics.GuestMigrations.Inc()
	metrics.MigratedItems.Add(float64(moved))
	logger.WithCtx(ctx).Info("register: guest migrated",
		"guest_id", guestID, "user_id", newID.Hex(), "items", moved)
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, "", apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", apperr.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// RegisterGuest creates an anonymous identity so a visitor's cart has a
// stable owner. Repeated calls each produce a fresh guest.
func (s *AuthService) RegisterGuest(ctx context.Context) (*models.User, string, error) {
	guest := &models.User{
		IsRegistered: false,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, guest); err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateToken(guest)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return guest, token, nil
}

// PurgeIdleGuests removes guest accounts older than ttl along with any
// cart items they still own. Run from the scheduler.
func (s *AuthService) PurgeIdleGuests(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-ttl)
	guests, err := s.users.FindIdleGuests(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, guest := range guests {
		if _, err := s.carts.DeleteByOwner(ctx, guest.ID.Hex()); err != nil {
			logger.Error("purge: delete cart failed", "guest_id", guest.ID.Hex(), "error", err)
			continue
		}
		if err := s.users.Delete(ctx, guest.ID); err != nil {
			logger.Error("purge: delete guest failed", "guest_id", guest.ID.Hex(), "error", err)
			continue
		}
		purged++
	}

	return purged, nil
}
