package calculator

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
	"github.com/shopspring/decimal"

	"github.com/mmynk/exsplitter/internal/currency"
)

var (
	ErrNoParticipants     = errors.New("must have at least one split member")
	ErrDuplicateMember    = errors.New("split members must be unique")
	ErrNegativeAmount     = errors.New("amounts cannot be negative")
	ErrUnknownSplitMember = errors.New("split amount given for a member outside the split")
	ErrSplitMismatch      = errors.New("split amounts do not add up to the expense amount")
)

// SplitEqually divides amount among memberIDs as evenly as the currency
// allows. Everyone gets floor(amount / n) at the currency's precision, and the
// leftover rounding units go one each to members picked by a shuffle seeded
// from seed. The same seed always picks the same members.
func SplitEqually(amount decimal.Decimal, cur currency.Currency, memberIDs []string, seed string) (map[string]decimal.Decimal, error) {
	if err := checkMembers(memberIDs); err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, ErrNegativeAmount
	}

	amount = cur.Round(amount)
	base, rem := amount.QuoRem(decimal.NewFromInt(int64(len(memberIDs))), cur.DecimalPlaces)
	extraUnits := int(rem.Div(cur.Tolerance()).IntPart())

	splits := make(map[string]decimal.Decimal, len(memberIDs))
	for _, id := range memberIDs {
		splits[id] = base
	}

	if extraUnits > 0 {
		h := xxhash.Sum64String(seed)
		rng := rand.New(rand.NewPCG(h, h>>1|1))
		order := rng.Perm(len(memberIDs))
		for _, idx := range order[:extraUnits] {
			id := memberIDs[idx]
			splits[id] = splits[id].Add(cur.Tolerance())
		}
	}

	return splits, nil
}

// ValidateCustomSplit checks user-entered per-member amounts and returns them
// rounded to the currency. Members without an entry pay nothing. The rounded
// amounts must add up to the rounded total.
func ValidateCustomSplit(amount decimal.Decimal, cur currency.Currency, memberIDs []string, splits map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
	if err := checkMembers(memberIDs); err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, ErrNegativeAmount
	}

	inSplit := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		inSplit[id] = true
	}

	out := make(map[string]decimal.Decimal, len(memberIDs))
	sum := decimal.Zero
	for id, amt := range splits {
		if !inSplit[id] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSplitMember, id)
		}
		if amt.IsNegative() {
			return nil, ErrNegativeAmount
		}
		amt = cur.Round(amt)
		out[id] = amt
		sum = sum.Add(amt)
	}
	for _, id := range memberIDs {
		if _, ok := out[id]; !ok {
			out[id] = decimal.Zero
		}
	}

	total := cur.Round(amount)
	if !sum.Equal(total) {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrSplitMismatch, sum.StringFixed(cur.DecimalPlaces), total.StringFixed(cur.DecimalPlaces))
	}

	return out, nil
}

// PayerEarned returns what the payer nets from an expense: the amount paid
// minus the payer's own share. A payer outside the split earns the whole
// amount. Returns nil when there is no payer.
func PayerEarned(amount decimal.Decimal, payerID string, splits map[string]decimal.Decimal) *decimal.Decimal {
	if payerID == "" {
		return nil
	}
	earned := amount.Sub(splits[payerID])
	return &earned
}

func checkMembers(memberIDs []string) error {
	if len(memberIDs) == 0 {
		return ErrNoParticipants
	}
	seen := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		if seen[id] {
			return fmt.Errorf("%w: %s", ErrDuplicateMember, id)
		}
		seen[id] = true
	}
	return nil
}
