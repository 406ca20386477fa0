// Package service implements the Connect handlers for trips and expenses.
package service

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/exsplitter/internal/calculator"
	"github.com/mmynk/exsplitter/internal/middleware"
	"github.com/mmynk/exsplitter/internal/models"
	"github.com/mmynk/exsplitter/internal/storage"
	"github.com/mmynk/exsplitter/pkg/api"
)

// authorizeTrip checks that the caller's token was issued for tripID.
func authorizeTrip(ctx context.Context, tripID string) error {
	tokenTrip := middleware.GetTripID(ctx)
	if tokenTrip == "" {
		return connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("trip token required"))
	}
	if tripID == "" {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("trip_id is required"))
	}
	if tokenTrip != tripID {
		return connect.NewError(connect.CodePermissionDenied, fmt.Errorf("token is not valid for trip %s", tripID))
	}
	return nil
}

// storageError maps storage errors to Connect codes.
func storageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrDuplicateMember):
		return connect.NewError(connect.CodeAlreadyExists, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// splitError maps splitter validation errors to Connect codes.
func splitError(err error) error {
	switch {
	case errors.Is(err, calculator.ErrNoParticipants),
		errors.Is(err, calculator.ErrDuplicateMember),
		errors.Is(err, calculator.ErrNegativeAmount),
		errors.Is(err, calculator.ErrUnknownSplitMember),
		errors.Is(err, calculator.ErrSplitMismatch):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func toAPITrip(trip *models.Trip) *api.Trip {
	return &api.Trip{
		ID:          trip.ID,
		Name:        trip.Name,
		Currency:    trip.Currency,
		HasPasscode: trip.HasPasscode(),
		CreatedAt:   trip.CreatedAt,
	}
}

func toAPIMember(member *models.Member) *api.Member {
	return &api.Member{
		ID:        member.ID,
		TripID:    member.TripID,
		Name:      member.Name,
		CreatedAt: member.CreatedAt,
	}
}

func toAPIExpense(e *models.Expense) *api.Expense {
	splits := make(map[string]decimal.Decimal, len(e.Splits))
	for id, amt := range e.Splits {
		splits[id] = amt
	}
	return &api.Expense{
		ID:             e.ID,
		TripID:         e.TripID,
		Title:          e.Title,
		Amount:         e.Amount,
		Currency:       e.Currency,
		PaidBy:         e.PaidBy,
		SplitMemberIDs: append([]string(nil), e.SplitMemberIDs...),
		Splits:         splits,
		PayerEarned:    e.PayerEarned,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

// nameResolver caches member names for the duration of one request.
type nameResolver struct {
	dir   storage.MemberDirectory
	names map[string]string
}

func newNameResolver(dir storage.MemberDirectory, roster ...*models.Member) *nameResolver {
	r := &nameResolver{dir: dir, names: make(map[string]string, len(roster))}
	for _, m := range roster {
		r.names[m.ID] = m.Name
	}
	return r
}

func (r *nameResolver) name(ctx context.Context, memberID string) (string, error) {
	if name, ok := r.names[memberID]; ok {
		return name, nil
	}
	name, err := r.dir.LookupMemberName(ctx, memberID)
	if err != nil {
		return "", err
	}
	r.names[memberID] = name
	return name, nil
}
