package models

import "time"

// User is an account that tokens can be issued for. Only the bcrypt hash of
// the password is ever persisted; the clear-text Password field exists for
// decoding registration and login request bodies and is excluded from every
// response.
type User struct {
	UserID       int64     `json:"-"`
	Login        string    `json:"login"`
	Password     string    `json:"password,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// Identity returns the identity record for the user.
func (u User) Identity() Identity {
	return Identity{UserID: u.UserID, Login: u.Login}
}
