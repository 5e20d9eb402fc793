package domain

import "time"

// User is a manager or client referenced by accounts. Registration creates a
// user together with their own account (manager = client = the new user).
type User struct {
	ID        int64     `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type UserRepository interface {
	CreateUser(user *User) error
	GetUser(id int64) (*User, error)
	GetUserByUsername(username string) (*User, error)
}
