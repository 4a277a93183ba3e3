package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travlrgetaways/travlr/pkg/session"
)

func requestWithCookie(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSessionRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()

	data := session.Data{
		Token:        "jwt-goes-here",
		UserID:       "abc123",
		IsRegistered: true,
	}
	require.NoError(t, session.Write(rec, data))

	got, err := session.Read(requestWithCookie(rec))
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestSessionCookieAttributes(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, session.Write(rec, session.Data{UserID: "u1"}))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]

	assert.Equal(t, session.CookieName, c.Name)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Positive(t, c.MaxAge)
}

func TestSessionValueIsOpaque(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, session.Write(rec, session.Data{UserID: "u1", Token: "secret-token"}))

	c := rec.Result().Cookies()[0]
	assert.NotContains(t, c.Value, "u1")
	assert.NotContains(t, c.Value, "secret-token")
}

func TestSessionRejectsTampering(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, session.Write(rec, session.Data{UserID: "u1"}))

	c := rec.Result().Cookies()[0]
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value[:len(c.Value)-2] + "zz"})

	_, err := session.Read(req)
	assert.Error(t, err)
}

func TestSessionReadWithoutCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := session.Read(req)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestClearExpiresCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	session.Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestTwoFactorCookieScopedToSetupPath(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, session.WriteTwoFactor(rec, session.TwoFactorData{
		Token:  "jwt",
		Secret: "base32secret",
	}))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]

	assert.Equal(t, session.TwoFactorCookieName, c.Name)
	assert.Equal(t, "/2fa/setup", c.Path)
	assert.LessOrEqual(t, c.MaxAge, 60)
	assert.NotContains(t, c.Value, "base32secret")
}
