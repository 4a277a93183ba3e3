package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a visitor account. Guests are created with nothing but an id so
// the cart has a stable owner; registration fills in the rest. Email
// uniqueness is enforced by a partial index that only covers registered
// users, so any number of guests can coexist without one.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	FName           string             `bson:"fName,omitempty" json:"fName,omitempty"`
	LName           string             `bson:"lName,omitempty" json:"lName,omitempty"`
	Email           string             `bson:"email,omitempty" json:"email,omitempty"`
	PasswordHash    string             `bson:"hash,omitempty" json:"-"` // bcrypt, never serialised
	IsRegistered    bool               `bson:"isRegistered" json:"isRegistered"`
	IsAdmin         bool               `bson:"isAdmin" json:"isAdmin"`
	TwoFactorSecret string             `bson:"twoFactorSecret,omitempty" json:"-"` // base32 TOTP secret
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// FullName joins first and last name for display.
func (u *User) FullName() string {
	if u.LName == "" {
		return u.FName
	}
	return u.FName + " " + u.LName
}
