// Package session manages the sessionData cookie that carries the active
// visitor's identity between requests.
//
// The payload is JSON, but it is never stored in the clear: the cookie
// value is AES-GCM encrypted (pkg/crypt), so a client cannot read or forge
// the registration flags it carries. Server-rendered pages and the API both
// read the same cookie; browser scripts go through GET /api/checkSession.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/travlrgetaways/travlr/pkg/crypt"
)

// CookieName is the long-lived session cookie.
const CookieName = "sessionData"

// TwoFactorCookieName is the short-lived cookie used only during 2FA setup.
const TwoFactorCookieName = "session2FA"

// TTL is the session cookie lifetime.
const TTL = 24 * time.Hour

// TwoFactorTTL is the 2FA setup cookie lifetime.
const TwoFactorTTL = time.Minute

// ErrNoSession is returned by Read when the cookie is absent or invalid.
var ErrNoSession = errors.New("session: no valid session cookie")

// Data is the session payload.
type Data struct {
	Token           string `json:"token"`
	UserID          string `json:"user_id"`
	IsRegistered    bool   `json:"isRegistered"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

// Write encrypts data and sets the sessionData cookie: HttpOnly, Secure,
// SameSite=Lax, path /.
func Write(w http.ResponseWriter, data Data) error {
	value, err := crypt.EncryptJSON(data)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(TTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Read decrypts the sessionData cookie from the request. A missing cookie
// and a tampered cookie are indistinguishable to the caller: both are
// ErrNoSession.
func Read(r *http.Request) (Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Data{}, ErrNoSession
	}

	var data Data
	if err := crypt.DecryptJSON(cookie.Value, &data); err != nil {
		return Data{}, ErrNoSession
	}
	return data, nil
}

// Clear expires the sessionData cookie.
func Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// TwoFactorData is the payload of the 2FA setup cookie. It is scoped to the
// setup path and expires after a minute, just long enough for the page
// controller to render the QR code.
type TwoFactorData struct {
	Token   string `json:"token"`
	Message string `json:"message"`
	QRCode  string `json:"qrCode"`
	Secret  string `json:"secret"`
}

// WriteTwoFactor sets the short-lived session2FA cookie.
func WriteTwoFactor(w http.ResponseWriter, data TwoFactorData) error {
	value, err := crypt.EncryptJSON(data)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     TwoFactorCookieName,
		Value:    value,
		Path:     "/2fa/setup",
		MaxAge:   int(TwoFactorTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
