package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/exsplitter/internal/models"
)

var (
	ErrInvalidPasscode = errors.New("invalid trip passcode")
	ErrWeakPasscode    = errors.New("passcode must be at least 4 characters")
)

// TripStorage defines the trip lookup the authenticator needs.
type TripStorage interface {
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)
}

// PasscodeAuthenticator guards trips with an optional bcrypt-hashed passcode.
type PasscodeAuthenticator struct {
	storage TripStorage
}

// NewPasscodeAuthenticator creates a new passcode-based authenticator.
func NewPasscodeAuthenticator(storage TripStorage) *PasscodeAuthenticator {
	return &PasscodeAuthenticator{
		storage: storage,
	}
}

// ValidateCredential checks if the passcode meets minimum requirements.
// An empty passcode is allowed and means the trip is open.
func (a *PasscodeAuthenticator) ValidateCredential(credential string) error {
	if credential != "" && len(credential) < 4 {
		return ErrWeakPasscode
	}
	return nil
}

// HashCredential hashes a passcode for storage.
func (a *PasscodeAuthenticator) HashCredential(credential string) (string, error) {
	if err := a.ValidateCredential(credential); err != nil {
		return "", err
	}
	if credential == "" {
		return "", nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash passcode: %w", err)
	}
	return string(hashed), nil
}

// Authenticate loads the trip and compares the passcode. Open trips accept
// any passcode. Storage errors are returned as-is so callers can tell a
// missing trip from a wrong passcode.
func (a *PasscodeAuthenticator) Authenticate(ctx context.Context, tripID, credential string) (*models.Trip, error) {
	trip, err := a.storage.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if !trip.HasPasscode() {
		return trip, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(trip.PasscodeHash), []byte(credential)); err != nil {
		return nil, ErrInvalidPasscode
	}

	return trip, nil
}
