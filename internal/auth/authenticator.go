package auth

import (
	"context"

	"github.com/mmynk/splitchamp/internal/models"
)

// Authenticator verifies who owns a set of sessions.
// Only passwords are supported today; the service layer depends on this
// interface so other credential types can be added without touching it.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user if the credential matches.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks the credential before anything is stored.
	ValidateCredential(credential string) error
}
