// Package api defines the wire messages of the exsplitter.v1 services and
// the Connect handler and client constructors that serve them.
package api

import "github.com/shopspring/decimal"

// Trip is the public view of a trip. The passcode hash never leaves the server.
type Trip struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Currency    string `json:"currency"`
	HasPasscode bool   `json:"has_passcode"`
	CreatedAt   int64  `json:"created_at"`
}

type Member struct {
	ID        string `json:"id"`
	TripID    string `json:"trip_id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
}

type Currency struct {
	Code          string `json:"code"`
	DecimalPlaces int32  `json:"decimal_places"`
	Symbol        string `json:"symbol"`
}

type Expense struct {
	ID             string                     `json:"id"`
	TripID         string                     `json:"trip_id"`
	Title          string                     `json:"title"`
	Amount         decimal.Decimal            `json:"amount"`
	Currency       string                     `json:"currency"`
	PaidBy         string                     `json:"paid_by,omitempty"`
	SplitMemberIDs []string                   `json:"split_member_ids"`
	Splits         map[string]decimal.Decimal `json:"splits"`
	PayerEarned    *decimal.Decimal           `json:"payer_earned,omitempty"`
	CreatedAt      int64                      `json:"created_at"`
	UpdatedAt      int64                      `json:"updated_at"`
}

// Split shapes as sent on the wire.
const (
	ShapeEqual       = "equal"
	ShapeRandomExtra = "random_extra"
	ShapeCustom      = "custom"
)

// Breakdown is the presentation-ready classification of an expense split.
type Breakdown struct {
	// Shape is one of ShapeEqual, ShapeRandomExtra, ShapeCustom.
	Shape string `json:"shape"`

	// AmountPerPerson is set for equal splits with at least one member.
	AmountPerPerson *decimal.Decimal `json:"amount_per_person,omitempty"`

	// Base and ExtraMembers are set for random-extra splits.
	Base         *decimal.Decimal `json:"base,omitempty"`
	ExtraMembers []*MemberRef     `json:"extra_members,omitempty"`

	// Shares lists every split member's amount in split order.
	Shares []*Share `json:"shares"`

	// PayerExcluded is true iff a payer is recorded and not in the split.
	PayerExcluded bool             `json:"payer_excluded"`
	PayerID       string           `json:"payer_id,omitempty"`
	PayerName     string           `json:"payer_name,omitempty"`
	PayerEarned   *decimal.Decimal `json:"payer_earned,omitempty"`
}

type MemberRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Share struct {
	MemberID string          `json:"member_id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
}

// ExpenseView pairs an expense with its breakdown.
type ExpenseView struct {
	Expense   *Expense   `json:"expense"`
	Breakdown *Breakdown `json:"breakdown"`
}

// TripService messages.

type CreateTripRequest struct {
	Name        string `json:"name"`
	Currency    string `json:"currency"`
	Passcode    string `json:"passcode,omitempty"`
	CreatorName string `json:"creator_name"`
}

type CreateTripResponse struct {
	Trip   *Trip   `json:"trip"`
	Member *Member `json:"member"`
	Token  string  `json:"token"`
}

type JoinTripRequest struct {
	TripID   string `json:"trip_id"`
	Name     string `json:"name"`
	Passcode string `json:"passcode,omitempty"`
}

type JoinTripResponse struct {
	Trip   *Trip   `json:"trip"`
	Member *Member `json:"member"`
	Token  string  `json:"token"`
}

type GetTripRequest struct {
	TripID string `json:"trip_id"`
}

type GetTripResponse struct {
	Trip    *Trip     `json:"trip"`
	Members []*Member `json:"members"`
}

type ListTripsRequest struct{}

type ListTripsResponse struct {
	Trips []*Trip `json:"trips"`
}

type ListCurrenciesRequest struct{}

type ListCurrenciesResponse struct {
	Currencies []*Currency `json:"currencies"`
}

// ExpenseService messages.

// CreateExpenseRequest records a new expense. When Splits is empty the
// amount is split equally among SplitMemberIDs; otherwise Splits holds the
// custom per-member amounts. Currency defaults to the trip's.
type CreateExpenseRequest struct {
	TripID         string                     `json:"trip_id"`
	Title          string                     `json:"title"`
	Amount         decimal.Decimal            `json:"amount"`
	Currency       string                     `json:"currency,omitempty"`
	PaidBy         string                     `json:"paid_by,omitempty"`
	SplitMemberIDs []string                   `json:"split_member_ids"`
	Splits         map[string]decimal.Decimal `json:"splits,omitempty"`
}

type CreateExpenseResponse struct {
	Expense   *Expense   `json:"expense"`
	Breakdown *Breakdown `json:"breakdown"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type GetExpenseResponse struct {
	Expense   *Expense   `json:"expense"`
	Breakdown *Breakdown `json:"breakdown"`
}

type ListExpensesRequest struct {
	TripID string `json:"trip_id"`
}

type ListExpensesResponse struct {
	Expenses []*ExpenseView `json:"expenses"`
}

// UpdateExpenseRequest replaces an expense. Fields follow CreateExpenseRequest.
type UpdateExpenseRequest struct {
	ExpenseID      string                     `json:"expense_id"`
	Title          string                     `json:"title"`
	Amount         decimal.Decimal            `json:"amount"`
	Currency       string                     `json:"currency,omitempty"`
	PaidBy         string                     `json:"paid_by,omitempty"`
	SplitMemberIDs []string                   `json:"split_member_ids"`
	Splits         map[string]decimal.Decimal `json:"splits,omitempty"`
}

type UpdateExpenseResponse struct {
	Expense   *Expense   `json:"expense"`
	Breakdown *Breakdown `json:"breakdown"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

// ClassifySplitRequest classifies a split without storing anything, for
// previewing a split while it is being edited. Members must belong to the
// caller's trip; Currency defaults to the trip's. PayerEarned is derived
// from the splits when omitted.
type ClassifySplitRequest struct {
	Currency       string                     `json:"currency"`
	PaidBy         string                     `json:"paid_by,omitempty"`
	SplitMemberIDs []string                   `json:"split_member_ids"`
	Splits         map[string]decimal.Decimal `json:"splits"`
	PayerEarned    *decimal.Decimal           `json:"payer_earned,omitempty"`
}

type ClassifySplitResponse struct {
	Breakdown *Breakdown `json:"breakdown"`
}

type WatchTripRequest struct {
	TripID string `json:"trip_id"`
}

// WatchTripResponse is one snapshot of a trip's classified expenses.
type WatchTripResponse struct {
	TripID   string         `json:"trip_id"`
	Expenses []*ExpenseView `json:"expenses"`
}
