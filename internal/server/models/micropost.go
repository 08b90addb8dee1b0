package models

import "time"

// Micropost is a short text post owned by exactly one user.
type Micropost struct {
	ID        int64
	UserID    string
	Content   string
	CreatedAt time.Time
}
