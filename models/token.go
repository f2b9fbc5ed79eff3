package models

import "time"

// Token is a persisted bearer credential. The signed JWT string is both the
// wire value handed to clients and the lookup key for revocation checks:
// a token is valid only while its row exists in the store and ExpiresAt is
// in the future.
type Token struct {
	TokenID   int64     `json:"-"`
	Value     string    `json:"token"`
	OwnerID   string    `json:"-"`
	IssuedAt  time.Time `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// Expired reports whether the token's persisted expiry has passed at now.
func (t Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Identity is the resolved owner of a verified token. It is attached to the
// request context by the auth middleware so that downstream handlers never
// re-parse the credential.
type Identity struct {
	UserID int64  `json:"-"`
	Login  string `json:"login"`
}
