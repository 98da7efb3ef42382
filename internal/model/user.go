package model

import "time"

// User is a person whose purchases are tracked.
type User struct {
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
	Username   string    `json:"username"`
	ID         int64     `json:"id"`
}
