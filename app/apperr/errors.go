// Package apperr defines the sentinel errors shared by services and
// repositories. Controllers translate these into HTTP status codes; anything
// not listed here is treated as a storage failure and logged server-side.
package apperr

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyInCart is returned when a cart insert hits an existing item id.
	ErrAlreadyInCart = errors.New("item already in cart")

	// ErrDuplicateEmail is returned when a registered user with the same
	// email already exists.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidCollection is returned for a collection tag outside
	// travel/rooms/meals.
	ErrInvalidCollection = errors.New("unknown collection")

	// ErrInvalidID is returned when an identifier is not a 24-character hex
	// ObjectID. Distinct from ErrNotFound: the lookup never ran.
	ErrInvalidID = errors.New("malformed identifier")

	// ErrInvalidCode is returned when a submitted TOTP code does not match.
	ErrInvalidCode = errors.New("invalid verification code")

	// ErrDuplicateCode is returned when a catalog entry with the same code
	// already exists.
	ErrDuplicateCode = errors.New("code already in use")

	// ErrNoSession is returned when an operation requires a session cookie
	// and none (or a tampered one) is present.
	ErrNoSession = errors.New("no session")
)
