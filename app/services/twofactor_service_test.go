package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp"
	ptotp "github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travlrgetaways/travlr/app/apperr"
	"github.com/travlrgetaways/travlr/app/models"
	"github.com/travlrgetaways/travlr/app/services"
)

func enrolledUser(t *testing.T, users *fakeUserRepo) *models.User {
	t.Helper()
	user := &models.User{
		FName: "Ada", LName: "Lovelace",
		Email: "ada@example.com", IsRegistered: true,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestTwoFactorSetupStoresSecretAndRendersQR(t *testing.T) {
	users := newFakeUserRepo()
	svc := services.NewTwoFactorService(users)
	user := enrolledUser(t, users)

	enrollment, err := svc.Setup(context.Background(), user.ID.Hex())
	require.NoError(t, err)

	assert.NotEmpty(t, enrollment.Secret)
	assert.True(t, strings.HasPrefix(enrollment.QRCode, "data:image/png;base64,"))

	stored, err := users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.Secret, stored.TwoFactorSecret)
}

func TestTwoFactorSetupReplacesPreviousSecret(t *testing.T) {
	users := newFakeUserRepo()
	svc := services.NewTwoFactorService(users)
	user := enrolledUser(t, users)
	ctx := context.Background()

	first, err := svc.Setup(ctx, user.ID.Hex())
	require.NoError(t, err)
	second, err := svc.Setup(ctx, user.ID.Hex())
	require.NoError(t, err)

	assert.NotEqual(t, first.Secret, second.Secret)

	stored, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, second.Secret, stored.TwoFactorSecret)
}

func TestTwoFactorVerify(t *testing.T) {
	users := newFakeUserRepo()
	svc := services.NewTwoFactorService(users)
	user := enrolledUser(t, users)
	ctx := context.Background()

	enrollment, err := svc.Setup(ctx, user.ID.Hex())
	require.NoError(t, err)

	code, err := ptotp.GenerateCodeCustom(enrollment.Secret, time.Now(), ptotp.ValidateOpts{
		Period: 30,
		Digits: otp.DigitsSix,
	})
	require.NoError(t, err)

	assert.NoError(t, svc.Verify(ctx, user.ID.Hex(), code))
	assert.ErrorIs(t, svc.Verify(ctx, user.ID.Hex(), "000000"), apperr.ErrInvalidCode)
}

func TestTwoFactorVerifyWithoutSetup(t *testing.T) {
	users := newFakeUserRepo()
	svc := services.NewTwoFactorService(users)
	user := enrolledUser(t, users)

	err := svc.Verify(context.Background(), user.ID.Hex(), "123456")
	assert.ErrorIs(t, err, apperr.ErrInvalidCode)
}
