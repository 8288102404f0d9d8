package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the user shape exposed on the wire.
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Identity is the resolved caller attached to a request context by the
// auth middleware. Legacy marks identities resolved from a raw username
// instead of a bearer token.
type Identity struct {
	UserID   int64
	Username string
	Legacy   bool
}

// TokenGrant is the payload returned by login and refresh.
type TokenGrant struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	ExpiresIn int64      `json:"expires_in"`
	User      PublicUser `json:"user"`
}

// TokenStatus is the payload returned by the validate endpoint. Failure
// responses carry Valid=false plus Error; the remaining fields are omitted.
type TokenStatus struct {
	Valid     bool       `json:"valid"`
	UserID    int64      `json:"user_id,omitempty"`
	Username  string     `json:"username,omitempty"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Error     string     `json:"error,omitempty"`
}
