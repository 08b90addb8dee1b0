package models

import "time"

// Session is the server-side record of an issued token. ID is the token's
// jti claim; deleting the row revokes the token.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
