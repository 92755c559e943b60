package entity

import (
	"time"
)

// Task belongs to exactly one user. OwnerID is set from the authenticated
// context at creation and never changes afterwards.
type Task struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	OwnerID     string    `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
