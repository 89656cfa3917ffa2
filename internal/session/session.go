// Package session keeps server-side visitor sessions, their retail carts and
// one-time password reset tokens.
package session

import (
	"context"
	"errors"
	"time"

	"autopartes/internal/model"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a session or token does not exist or expired.
var ErrNotFound = errors.New("session not found")

// Session is the server-side state bound to the session cookie.
// Anonymous visitors have an empty UserID.
type Session struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId,omitempty"`
	Email     string           `json:"email,omitempty"`
	Role      model.Role       `json:"role,omitempty"`
	Cart      []model.CartItem `json:"cart"`
	CreatedAt time.Time        `json:"createdAt"`
}

// Authenticated reports whether a user is signed in on this session.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}

// SignIn binds the session to a user.
func (s *Session) SignIn(uid, email string, role model.Role) {
	s.UserID = uid
	s.Email = email
	s.Role = role
}

// SignOut drops the user binding but keeps the cart.
func (s *Session) SignOut() {
	s.UserID = ""
	s.Email = ""
	s.Role = ""
}

// Store persists sessions and reset tokens.
type Store interface {
	// New creates and stores an empty anonymous session.
	New(ctx context.Context) (*Session, error)

	// Get returns the session or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Save overwrites the session and refreshes its expiry.
	Save(ctx context.Context, s *Session) error

	// Delete removes the session. Missing sessions are not an error.
	Delete(ctx context.Context, id string) error

	// PutResetToken stores a one-time reset token for uid.
	PutResetToken(ctx context.Context, token, uid string, ttl time.Duration) error

	// ConsumeResetToken returns the uid bound to token and deletes it,
	// or ErrNotFound.
	ConsumeResetToken(ctx context.Context, token string) (string, error)

	// Close releases backend resources.
	Close() error
}

func newSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		Cart:      []model.CartItem{},
		CreatedAt: time.Now(),
	}
}
