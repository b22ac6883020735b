// Package models holds the identity server's persistent types.
package models

import "time"

// Account is a registered identity. Email is stored lower-cased and is
// unique across accounts.
type Account struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash []byte    `db:"password_hash"`
	Disabled     bool      `db:"disabled"`
	CreatedAt    time.Time `db:"created_at"`
}
