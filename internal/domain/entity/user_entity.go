package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Password holds the bcrypt hash, never a plain password. The session
// token set and the avatar bytes live in their own tables/columns and are
// loaded on demand, not as part of the aggregate.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	Age       int
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublicProfile is the external representation of a User: the full record
// minus password hash, token set and avatar bytes.
type PublicProfile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
