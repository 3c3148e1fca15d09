// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitchamp/internal/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
)

// SessionStore persists split sessions. Balances and transfers are derived
// and never stored.
type SessionStore interface {
	// CreateSession persists a new session.
	// Missing ID, title and timestamps are filled in by the store.
	CreateSession(ctx context.Context, session *models.Session) error

	// GetSession retrieves a session with its participants and expenses.
	// Returns ErrSessionNotFound if it does not exist.
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)

	// UpdateSession replaces the stored state of an existing session.
	UpdateSession(ctx context.Context, session *models.Session) error

	// DeleteSession removes a session and everything in it.
	DeleteSession(ctx context.Context, sessionID string) error

	// ListSessions returns the sessions owned by a user, most recently updated first.
	ListSessions(ctx context.Context, ownerID string) ([]*models.Session, error)
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser returns ErrEmailTaken if the email is already registered.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Store defines the interface for all storage operations.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	SessionStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}
