package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/exsplitter/internal/auth"
	"github.com/mmynk/exsplitter/internal/currency"
	"github.com/mmynk/exsplitter/internal/models"
	"github.com/mmynk/exsplitter/internal/storage"
	"github.com/mmynk/exsplitter/pkg/api"
)

var _ api.TripServiceHandler = (*TripService)(nil)

// TripService implements the Connect TripService
type TripService struct {
	store         storage.Store
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewTripService creates a new TripService with the given storage backend
// and credential handling.
func NewTripService(store storage.Store, authenticator auth.Authenticator, jwtManager *auth.JWTManager) *TripService {
	return &TripService{
		store:         store,
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

// CreateTrip creates a trip, adds its creator as the first member and
// returns a token for the creator.
func (s *TripService) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	slog.Info("CreateTrip request received",
		"name", req.Msg.Name,
		"currency", req.Msg.Currency,
		"has_passcode", req.Msg.Passcode != "",
	)

	creatorName := models.NormalizeName(req.Msg.CreatorName)
	if creatorName == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("creator_name is required"))
	}

	cur, err := currency.Lookup(req.Msg.Currency)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	hash, err := s.authenticator.HashCredential(req.Msg.Passcode)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPasscode) {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	trip := &models.Trip{
		Name:         req.Msg.Name,
		Currency:     cur.Code,
		PasscodeHash: hash,
	}
	member := &models.Member{Name: creatorName}
	if err := s.store.CreateTripWithCreator(ctx, trip, member); err != nil {
		slog.Error("CreateTrip failed", "error", err)
		return nil, storageError(err)
	}

	token, err := s.jwtManager.Generate(member)
	if err != nil {
		slog.Error("Failed to generate token", "member_id", member.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Trip created", "trip_id", trip.ID, "member_id", member.ID)

	return connect.NewResponse(&api.CreateTripResponse{
		Trip:   toAPITrip(trip),
		Member: toAPIMember(member),
		Token:  token,
	}), nil
}

// JoinTrip adds a member to an existing trip after checking the passcode.
func (s *TripService) JoinTrip(ctx context.Context, req *connect.Request[api.JoinTripRequest]) (*connect.Response[api.JoinTripResponse], error) {
	slog.Info("JoinTrip request received", "trip_id", req.Msg.TripID, "name", req.Msg.Name)

	name := models.NormalizeName(req.Msg.Name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("name is required"))
	}

	trip, err := s.authenticator.Authenticate(ctx, req.Msg.TripID, req.Msg.Passcode)
	if err != nil {
		slog.Warn("JoinTrip authentication failed", "trip_id", req.Msg.TripID, "error", err)
		if errors.Is(err, auth.ErrInvalidPasscode) {
			return nil, connect.NewError(connect.CodeUnauthenticated, err)
		}
		return nil, storageError(err)
	}

	member := &models.Member{TripID: trip.ID, Name: name}
	if err := s.store.AddMember(ctx, member); err != nil {
		slog.Error("JoinTrip: failed to add member", "trip_id", trip.ID, "error", err)
		return nil, storageError(err)
	}

	token, err := s.jwtManager.Generate(member)
	if err != nil {
		slog.Error("Failed to generate token", "member_id", member.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Member joined trip", "trip_id", trip.ID, "member_id", member.ID)

	return connect.NewResponse(&api.JoinTripResponse{
		Trip:   toAPITrip(trip),
		Member: toAPIMember(member),
		Token:  token,
	}), nil
}

// GetTrip retrieves a trip and its members. Requires a token for the trip.
func (s *TripService) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	if err := authorizeTrip(ctx, req.Msg.TripID); err != nil {
		return nil, err
	}

	trip, err := s.store.GetTrip(ctx, req.Msg.TripID)
	if err != nil {
		slog.Error("GetTrip failed", "trip_id", req.Msg.TripID, "error", err)
		return nil, storageError(err)
	}

	members, err := s.store.ListMembers(ctx, trip.ID)
	if err != nil {
		slog.Error("GetTrip: failed to list members", "trip_id", trip.ID, "error", err)
		return nil, storageError(err)
	}

	resp := &api.GetTripResponse{
		Trip:    toAPITrip(trip),
		Members: make([]*api.Member, len(members)),
	}
	for i, m := range members {
		resp.Members[i] = toAPIMember(m)
	}
	return connect.NewResponse(resp), nil
}

// ListTrips retrieves all trips, newest first.
func (s *TripService) ListTrips(ctx context.Context, req *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	trips, err := s.store.ListTrips(ctx)
	if err != nil {
		slog.Error("ListTrips failed", "error", err)
		return nil, storageError(err)
	}

	resp := &api.ListTripsResponse{Trips: make([]*api.Trip, len(trips))}
	for i, trip := range trips {
		resp.Trips[i] = toAPITrip(trip)
	}

	slog.Info("ListTrips successful", "count", len(trips))
	return connect.NewResponse(resp), nil
}

// ListCurrencies returns the currencies offered when creating a trip.
func (s *TripService) ListCurrencies(ctx context.Context, req *connect.Request[api.ListCurrenciesRequest]) (*connect.Response[api.ListCurrenciesResponse], error) {
	supported := currency.Supported()
	resp := &api.ListCurrenciesResponse{Currencies: make([]*api.Currency, len(supported))}
	for i, c := range supported {
		resp.Currencies[i] = &api.Currency{
			Code:          c.Code,
			DecimalPlaces: c.DecimalPlaces,
			Symbol:        c.Symbol,
		}
	}
	return connect.NewResponse(resp), nil
}
