package auth

import (
	"context"

	"github.com/mmynk/exsplitter/internal/models"
)

// Authenticator defines how a newcomer proves they may join a trip.
// This abstraction allows swapping the passcode check for invite links or
// OAuth later without changing the service layer code.
type Authenticator interface {
	// HashCredential prepares a trip's join credential for storage.
	// An empty credential yields an empty hash (an open trip).
	HashCredential(credential string) (string, error)

	// Authenticate checks the credential against the trip and returns the
	// trip if it matches.
	Authenticate(ctx context.Context, tripID, credential string) (*models.Trip, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
