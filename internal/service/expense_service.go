package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/exsplitter/internal/calculator"
	"github.com/mmynk/exsplitter/internal/currency"
	"github.com/mmynk/exsplitter/internal/metrics"
	"github.com/mmynk/exsplitter/internal/middleware"
	"github.com/mmynk/exsplitter/internal/models"
	"github.com/mmynk/exsplitter/internal/notify"
	"github.com/mmynk/exsplitter/internal/storage"
	"github.com/mmynk/exsplitter/pkg/api"
)

var _ api.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the Connect ExpenseService
type ExpenseService struct {
	store   storage.Store
	broker  *notify.Broker
	metrics *metrics.Metrics
}

// NewExpenseService creates a new ExpenseService. m may be nil.
func NewExpenseService(store storage.Store, broker *notify.Broker, m *metrics.Metrics) *ExpenseService {
	return &ExpenseService{store: store, broker: broker, metrics: m}
}

// expenseInput is the editable part of an expense, shared by create and update.
type expenseInput struct {
	Title          string
	Amount         decimal.Decimal
	Currency       string
	PaidBy         string
	SplitMemberIDs []string
	Splits         map[string]decimal.Decimal
}

// validatePayerID checks if the payer is a member of the trip.
// The payer does not have to be in the split.
func validatePayerID(payerID string, roster map[string]bool) error {
	if payerID == "" {
		return nil // Optional field
	}
	if !roster[payerID] {
		return fmt.Errorf("paid_by '%s' is not a member of this trip", payerID)
	}
	return nil
}

// validateSplitMembers checks that everyone sharing the expense is on the
// trip and listed once.
func validateSplitMembers(memberIDs []string, roster map[string]bool) error {
	seen := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		if !roster[id] {
			return fmt.Errorf("split member '%s' is not a member of this trip", id)
		}
		if seen[id] {
			return fmt.Errorf("%w: %s", calculator.ErrDuplicateMember, id)
		}
		seen[id] = true
	}
	return nil
}

func rosterSet(members []*models.Member) map[string]bool {
	set := make(map[string]bool, len(members))
	for _, m := range members {
		set[m.ID] = true
	}
	return set
}

// applyInput validates in against the trip and fills e's editable fields,
// computing the per-member splits. An empty title keeps the current one.
// e.ID must already be set; it seeds the remainder distribution of equal
// splits.
func applyInput(trip *models.Trip, roster []*models.Member, e *models.Expense, in expenseInput) error {
	code := in.Currency
	if code == "" {
		code = trip.Currency
	}
	cur, err := currency.Lookup(code)
	if err != nil {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}

	members := rosterSet(roster)
	if err := validatePayerID(in.PaidBy, members); err != nil {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	if err := validateSplitMembers(in.SplitMemberIDs, members); err != nil {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}

	var splits map[string]decimal.Decimal
	if len(in.Splits) == 0 {
		splits, err = calculator.SplitEqually(in.Amount, cur, in.SplitMemberIDs, e.ID)
	} else {
		splits, err = calculator.ValidateCustomSplit(in.Amount, cur, in.SplitMemberIDs, in.Splits)
	}
	if err != nil {
		slog.Warn("Split rejected", "expense_id", e.ID, "error", err)
		return splitError(err)
	}

	amount := cur.Round(in.Amount)
	if in.Title != "" {
		e.Title = in.Title
	}
	e.Amount = amount
	e.Currency = cur.Code
	e.PaidBy = in.PaidBy
	e.SplitMemberIDs = slices.Clone(in.SplitMemberIDs)
	e.Splits = splits
	e.PayerEarned = calculator.PayerEarned(amount, in.PaidBy, splits)

	slog.Debug("Expense split computed",
		"expense_id", e.ID,
		"amount", cur.Format(amount),
		"members", len(e.SplitMemberIDs),
		"custom", len(in.Splits) > 0,
	)
	return nil
}

// loadTrip fetches the trip and its roster.
func (s *ExpenseService) loadTrip(ctx context.Context, tripID string) (*models.Trip, []*models.Member, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, nil, storageError(err)
	}
	roster, err := s.store.ListMembers(ctx, tripID)
	if err != nil {
		return nil, nil, storageError(err)
	}
	return trip, roster, nil
}

// loadExpense fetches an expense and checks the caller may see it.
func (s *ExpenseService) loadExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	if middleware.GetTripID(ctx) == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("trip token required"))
	}
	e, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		slog.Error("GetExpense failed", "expense_id", expenseID, "error", err)
		return nil, storageError(err)
	}
	if err := authorizeTrip(ctx, e.TripID); err != nil {
		return nil, err
	}
	return e, nil
}

// view builds the API view of a stored expense.
func (s *ExpenseService) view(ctx context.Context, names *nameResolver, e *models.Expense) (*api.ExpenseView, error) {
	cur, err := currency.Lookup(e.Currency)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	b, err := buildBreakdown(ctx, names, s.metrics, e, cur)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return &api.ExpenseView{Expense: toAPIExpense(e), Breakdown: b}, nil
}

// CreateExpense records an expense and returns it with its breakdown.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	slog.Info("CreateExpense request received",
		"trip_id", req.Msg.TripID,
		"members_count", len(req.Msg.SplitMemberIDs),
		"custom", len(req.Msg.Splits) > 0,
	)
	if err := authorizeTrip(ctx, req.Msg.TripID); err != nil {
		return nil, err
	}

	trip, roster, err := s.loadTrip(ctx, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	e := &models.Expense{ID: uuid.New().String(), TripID: trip.ID}
	if err := applyInput(trip, roster, e, expenseInput{
		Title:          req.Msg.Title,
		Amount:         req.Msg.Amount,
		Currency:       req.Msg.Currency,
		PaidBy:         req.Msg.PaidBy,
		SplitMemberIDs: req.Msg.SplitMemberIDs,
		Splits:         req.Msg.Splits,
	}); err != nil {
		return nil, err
	}

	// Save to storage (fills title and timestamps)
	if err := s.store.CreateExpense(ctx, e); err != nil {
		slog.Error("CreateExpense failed", "error", err)
		return nil, storageError(err)
	}
	s.broker.Publish(trip.ID)

	v, err := s.view(ctx, newNameResolver(s.store, roster...), e)
	if err != nil {
		return nil, err
	}

	slog.Info("Expense created", "expense_id", e.ID, "shape", v.Breakdown.Shape)
	return connect.NewResponse(&api.CreateExpenseResponse{Expense: v.Expense, Breakdown: v.Breakdown}), nil
}

// GetExpense retrieves an expense with its breakdown.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	e, err := s.loadExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}

	v, err := s.view(ctx, newNameResolver(s.store), e)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetExpenseResponse{Expense: v.Expense, Breakdown: v.Breakdown}), nil
}

// ListExpenses retrieves a trip's expenses, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	if err := authorizeTrip(ctx, req.Msg.TripID); err != nil {
		return nil, err
	}

	views, err := s.listViews(ctx, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	slog.Info("ListExpenses successful", "trip_id", req.Msg.TripID, "count", len(views))
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: views}), nil
}

func (s *ExpenseService) listViews(ctx context.Context, tripID string) ([]*api.ExpenseView, error) {
	expenses, err := s.store.ListExpenses(ctx, tripID)
	if err != nil {
		slog.Error("ListExpenses failed", "trip_id", tripID, "error", err)
		return nil, storageError(err)
	}

	names := newNameResolver(s.store)
	views := make([]*api.ExpenseView, len(expenses))
	for i, e := range expenses {
		if views[i], err = s.view(ctx, names, e); err != nil {
			return nil, err
		}
	}
	return views, nil
}

// UpdateExpense replaces an expense's fields and recomputes its splits.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	slog.Info("UpdateExpense request received", "expense_id", req.Msg.ExpenseID)

	e, err := s.loadExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}

	trip, roster, err := s.loadTrip(ctx, e.TripID)
	if err != nil {
		return nil, err
	}

	if err := applyInput(trip, roster, e, expenseInput{
		Title:          req.Msg.Title,
		Amount:         req.Msg.Amount,
		Currency:       req.Msg.Currency,
		PaidBy:         req.Msg.PaidBy,
		SplitMemberIDs: req.Msg.SplitMemberIDs,
		Splits:         req.Msg.Splits,
	}); err != nil {
		return nil, err
	}

	if err := s.store.UpdateExpense(ctx, e); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", e.ID, "error", err)
		return nil, storageError(err)
	}
	s.broker.Publish(trip.ID)

	v, err := s.view(ctx, newNameResolver(s.store, roster...), e)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: v.Expense, Breakdown: v.Breakdown}), nil
}

// DeleteExpense removes an expense.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	e, err := s.loadExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteExpense(ctx, e.ID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", e.ID, "error", err)
		return nil, storageError(err)
	}
	s.broker.Publish(e.TripID)

	slog.Info("Expense deleted", "expense_id", e.ID)
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// ClassifySplit classifies a split for preview. Nothing is stored.
func (s *ExpenseService) ClassifySplit(ctx context.Context, req *connect.Request[api.ClassifySplitRequest]) (*connect.Response[api.ClassifySplitResponse], error) {
	tripID := middleware.GetTripID(ctx)
	if err := authorizeTrip(ctx, tripID); err != nil {
		return nil, err
	}

	trip, roster, err := s.loadTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	code := req.Msg.Currency
	if code == "" {
		code = trip.Currency
	}
	cur, err := currency.Lookup(code)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	members := rosterSet(roster)
	if err := validatePayerID(req.Msg.PaidBy, members); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if err := validateSplitMembers(req.Msg.SplitMemberIDs, members); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	e := &models.Expense{
		TripID:         tripID,
		Currency:       cur.Code,
		PaidBy:         req.Msg.PaidBy,
		SplitMemberIDs: req.Msg.SplitMemberIDs,
		Splits:         req.Msg.Splits,
		PayerEarned:    req.Msg.PayerEarned,
	}
	if e.PayerEarned == nil {
		total := decimal.Zero
		for _, id := range e.SplitMemberIDs {
			total = total.Add(e.ShareOf(id))
		}
		e.PayerEarned = calculator.PayerEarned(total, e.PaidBy, e.Splits)
	}

	b, err := buildBreakdown(ctx, newNameResolver(s.store, roster...), s.metrics, e, cur)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&api.ClassifySplitResponse{Breakdown: b}), nil
}

// WatchTrip streams the trip's classified expenses: once immediately, then
// again after every change until the client goes away.
func (s *ExpenseService) WatchTrip(ctx context.Context, req *connect.Request[api.WatchTripRequest], stream *connect.ServerStream[api.WatchTripResponse]) error {
	tripID := req.Msg.TripID
	if err := authorizeTrip(ctx, tripID); err != nil {
		return err
	}
	if _, err := s.store.GetTrip(ctx, tripID); err != nil {
		return storageError(err)
	}

	// Subscribe before the first snapshot so no change is missed.
	changes, cancel := s.broker.Subscribe(tripID)
	defer cancel()
	defer s.metrics.StreamOpened()()

	slog.Info("WatchTrip stream opened", "trip_id", tripID, "member_id", middleware.GetMemberID(ctx))

	for {
		views, err := s.listViews(ctx, tripID)
		if err != nil {
			return err
		}
		if err := stream.Send(&api.WatchTripResponse{TripID: tripID, Expenses: views}); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			slog.Info("WatchTrip stream closed", "trip_id", tripID)
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
		}
	}
}
