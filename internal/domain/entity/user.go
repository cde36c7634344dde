package entity

import "time"

// User is the aggregate root for the user domain.
// Password always holds a bcrypt hash, never the original credential,
// and is excluded from every JSON response.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
