// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered identity. PasswordHash and PasswordSalt hold the
// argon2id-derived credential; the plaintext password is never stored.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	PasswordSalt []byte
	IsElevated   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
