package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travlrgetaways/travlr/pkg/validate"
)

type signupForm struct {
	Email    string `json:"email" validate:"required|email"`
	Password string `json:"password" validate:"required|min:8"`
	Nickname string `json:"nickname" validate:"nullable|min:3"`
	Plan     string `json:"plan" validate:"nullable|in:basic,premium"`
	Quantity int    `json:"quantity" validate:"integer|gte:1"`
}

func TestStructPasses(t *testing.T) {
	err := validate.Struct(&signupForm{
		Email:    "ada@example.com",
		Password: "longenough",
		Plan:     "basic",
		Quantity: 2,
	})
	assert.NoError(t, err)
}

func TestRequiredFields(t *testing.T) {
	err := validate.Struct(&signupForm{Quantity: 1})
	require.Error(t, err)

	errs, ok := err.(validate.Errors)
	require.True(t, ok)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
	assert.NotContains(t, errs, "nickname", "nullable empty fields are skipped")
}

func TestEmailRule(t *testing.T) {
	err := validate.Struct(&signupForm{
		Email:    "not-an-email",
		Password: "longenough",
		Quantity: 1,
	})
	require.Error(t, err)
	assert.Contains(t, err.(validate.Errors), "email")
}

func TestMinRule(t *testing.T) {
	err := validate.Struct(&signupForm{
		Email:    "ada@example.com",
		Password: "short",
		Quantity: 1,
	})
	require.Error(t, err)
	assert.Contains(t, err.(validate.Errors), "password")
}

func TestInRule(t *testing.T) {
	err := validate.Struct(&signupForm{
		Email:    "ada@example.com",
		Password: "longenough",
		Plan:     "deluxe",
		Quantity: 1,
	})
	require.Error(t, err)
	assert.Contains(t, err.(validate.Errors), "plan")
}

func TestGteRule(t *testing.T) {
	err := validate.Struct(&signupForm{
		Email:    "ada@example.com",
		Password: "longenough",
		Quantity: 0,
	})
	require.Error(t, err)
	assert.Contains(t, err.(validate.Errors), "quantity")
}

func TestNonStructInput(t *testing.T) {
	assert.Error(t, validate.Struct("a string"))
	assert.Error(t, validate.Struct((*signupForm)(nil)))
}
