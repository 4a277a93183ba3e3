// Package totp wraps time-based one-time password enrollment. Codes are
// 6 digits over a 30 second period with one step of clock skew allowed.
package totp

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	period = 30
	digits = otp.DigitsSix
	skew   = 1
)

// Key holds a freshly generated enrollment secret.
type Key struct {
	Secret string
	URL    string
	key    *otp.Key
}

// Generate creates a new secret for the given account.
func Generate(issuer, account string) (*Key, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
		Period:      period,
		Digits:      digits,
	})
	if err != nil {
		return nil, fmt.Errorf("totp: generate: %w", err)
	}

	return &Key{Secret: key.Secret(), URL: key.URL(), key: key}, nil
}

// QRDataURL renders the enrollment QR code as a base64 PNG data URL,
// ready for an <img src> in the setup page.
func (k *Key) QRDataURL() (string, error) {
	img, err := k.key.Image(200, 200)
	if err != nil {
		return "", fmt.Errorf("totp: render qr: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("totp: encode qr: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Verify checks a submitted code against the stored secret.
func Verify(code, secret string) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now(), totp.ValidateOpts{
		Period: period,
		Skew:   skew,
		Digits: digits,
	})
	return err == nil && ok
}
