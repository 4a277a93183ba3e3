package bind_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travlrgetaways/travlr/pkg/bind"
)

type payload struct {
	ID       string `json:"_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"integer|gte:1"`
}

func formRequest(t *testing.T, method string, values url.Values) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestFormDecodesDeleteBody(t *testing.T) {
	req := formRequest(t, http.MethodDelete, url.Values{"_id": {"abc"}, "quantity": {"2"}})

	var dst payload
	require.NoError(t, bind.Body(req, &dst))
	assert.Equal(t, "abc", dst.ID)
	assert.Equal(t, 2, dst.Quantity)
}

func TestFormValidates(t *testing.T) {
	req := formRequest(t, http.MethodPut, url.Values{"quantity": {"3"}})

	var dst payload
	err := bind.Body(req, &dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "_id")
}

func TestBodyDecodesJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"_id":"x1","quantity":4}`))
	req.Header.Set("Content-Type", "application/json")

	var dst payload
	require.NoError(t, bind.Body(req, &dst))
	assert.Equal(t, "x1", dst.ID)
	assert.Equal(t, 4, dst.Quantity)
}

func TestBodyRejectsUnknownMediaType(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("x"))
	req.Header.Set("Content-Type", "text/plain")

	var dst payload
	assert.ErrorIs(t, bind.Body(req, &dst), bind.ErrUnsupportedMedia)
}
