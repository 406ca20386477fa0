package models

import "strings"

// UnknownMemberName is shown for member IDs that no longer resolve.
const UnknownMemberName = "Unknown member"

// Trip groups members and the expenses they share.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// Name is the display name (e.g., "Kyoto 2026").
	Name string

	// Currency is the ISO 4217 code new expenses default to.
	Currency string

	// PasscodeHash is the bcrypt hash of the join passcode.
	// Empty means anyone with the trip ID may join.
	PasscodeHash string

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64
}

// HasPasscode reports whether joining the trip requires a passcode.
func (t *Trip) HasPasscode() bool {
	return t.PasscodeHash != ""
}

// Member is a person on a trip.
type Member struct {
	ID     string
	TripID string
	Name   string

	// CreatedAt is the Unix timestamp when the member joined.
	CreatedAt int64
}

// NormalizeName trims a member name for storage and comparison.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
