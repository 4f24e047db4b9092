package models

import (
	"strings"
	"time"
)

// User is an identity record owned by the credential store. Email is the
// natural key and is always stored normalized (see NormalizeEmail).
type User struct {
	ID           string    `db:"id" bson:"_id"`
	Email        string    `db:"email" bson:"email"`
	PasswordHash string    `db:"password_hash" bson:"password_hash"`
	CreatedAt    time.Time `db:"created_at" bson:"created_at"`
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
