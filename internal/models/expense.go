package models

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Expense is a single payment recorded on a trip.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	TripID string

	// Title is a short description (e.g., "Ramen", "Taxi to airport").
	Title string

	// Amount is the total charged, in Currency.
	Amount decimal.Decimal

	// Currency is the ISO 4217 code of Amount and Splits.
	Currency string

	// PaidBy is the member ID of the payer. Empty means no payer recorded.
	PaidBy string

	// SplitMemberIDs are the members sharing the expense, in display order.
	SplitMemberIDs []string

	// Splits is the amount assigned to each split member.
	// Missing entries read as zero.
	Splits map[string]decimal.Decimal

	// PayerEarned is what the payer nets from the expense: the total minus
	// the payer's own share. Nil when there is no payer.
	PayerEarned *decimal.Decimal

	CreatedAt int64
	UpdatedAt int64
}

// ShareOf returns the split amount for memberID, or zero.
func (e *Expense) ShareOf(memberID string) decimal.Decimal {
	if amt, ok := e.Splits[memberID]; ok {
		return amt
	}
	return decimal.Zero
}

// PayerExcluded reports whether a payer is recorded but does not share
// in the expense.
func (e *Expense) PayerExcluded() bool {
	return e.PaidBy != "" && !slices.Contains(e.SplitMemberIDs, e.PaidBy)
}
