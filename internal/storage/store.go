// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/exsplitter/internal/models"
)

var (
	// ErrNotFound is returned (wrapped) when a trip, member or expense does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateMember is returned when a member name is already taken on a trip.
	ErrDuplicateMember = errors.New("member name already taken on this trip")
)

// Store defines the interface for trip storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	TripStore
	MemberDirectory
	ExpenseStore

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// TripStore persists trips.
type TripStore interface {
	// CreateTrip persists a new trip. ID and CreatedAt are filled in when empty.
	CreateTrip(ctx context.Context, trip *models.Trip) error

	// CreateTripWithCreator persists a trip and its first member atomically.
	// The creator's TripID is set to the new trip's ID.
	CreateTripWithCreator(ctx context.Context, trip *models.Trip, creator *models.Member) error

	// GetTrip retrieves a trip by its ID.
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)

	// ListTrips returns all trips, newest first.
	ListTrips(ctx context.Context) ([]*models.Trip, error)
}

// MemberDirectory resolves the members of a trip.
type MemberDirectory interface {
	// AddMember adds a member to a trip. Names are unique per trip,
	// ignoring case; a clash returns ErrDuplicateMember.
	AddMember(ctx context.Context, member *models.Member) error

	// ListMembers returns a trip's members in join order, without duplicates.
	ListMembers(ctx context.Context, tripID string) ([]*models.Member, error)

	// LookupMemberName returns the member's name, or models.UnknownMemberName
	// if the ID does not resolve. A miss is not an error.
	LookupMemberName(ctx context.Context, memberID string) (string, error)
}

// ExpenseStore persists expenses together with their splits.
type ExpenseStore interface {
	// CreateExpense persists a new expense. ID and timestamps are filled in when empty.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its split members and amounts.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpenses returns a trip's expenses, newest first.
	ListExpenses(ctx context.Context, tripID string) ([]*models.Expense, error)

	// UpdateExpense replaces an expense's fields and splits.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense and its splits.
	DeleteExpense(ctx context.Context, expenseID string) error
}
