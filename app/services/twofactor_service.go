package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/travlrgetaways/travlr/app/apperr"
	"github.com/travlrgetaways/travlr/app/repositories"
	"github.com/travlrgetaways/travlr/pkg/metrics"
	"github.com/travlrgetaways/travlr/pkg/totp"
)

const totpIssuer = "Travlr Getaways"

// TwoFactorService handles TOTP enrollment.
type TwoFactorService struct {
	users repositories.UserRepository
}

func NewTwoFactorService(users repositories.UserRepository) *TwoFactorService {
	return &TwoFactorService{users: users}
}

// Enrollment is what the setup page needs to show the authenticator QR.
type Enrollment struct {
	Secret string
	QRCode string
}

// Setup generates a fresh shared secret, stores it on the user record and
// returns the QR code for the authenticator app. Calling setup again
// replaces any previous secret.
func (s *TwoFactorService) Setup(ctx context.Context, userID string) (*Enrollment, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperr.ErrInvalidID
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	account := user.Email
	if account == "" {
		account = user.ID.Hex()
	}

	key, err := totp.Generate(totpIssuer, account)
	if err != nil {
		return nil, err
	}

	qr, err := key.QRDataURL()
	if err != nil {
		return nil, err
	}

	user.TwoFactorSecret = key.Secret
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("store secret: %w", err)
	}

	return &Enrollment{Secret: key.Secret, QRCode: qr}, nil
}

// Verify checks a submitted code against the user's stored secret. A
// match completes enrollment.
func (s *TwoFactorService) Verify(ctx context.Context, userID, code string) error {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperr.ErrInvalidID
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if user.TwoFactorSecret == "" || !totp.Verify(code, user.TwoFactorSecret) {
		return apperr.ErrInvalidCode
	}

	metrics.TOTPEnrollments.Inc()
	return nil
}
