package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/exsplitter/internal/currency"
	"github.com/mmynk/exsplitter/internal/models"
)

// ShapeKind is the kind of split an expense has.
type ShapeKind int

const (
	// ShapeEqual means every participant pays the same amount.
	ShapeEqual ShapeKind = iota
	// ShapeRandomExtra means an equal split where one rounding unit of
	// remainder was given to some participants.
	ShapeRandomExtra
	// ShapeCustom means arbitrary per-member amounts.
	ShapeCustom
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeEqual:
		return "equal"
	case ShapeRandomExtra:
		return "random_extra"
	case ShapeCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// SplitShape is the classified shape of an expense split.
// Which fields are set depends on Kind.
type SplitShape struct {
	Kind ShapeKind

	// AmountPerPerson is set for ShapeEqual when there is at least one
	// participant. It is the first participant's amount.
	AmountPerPerson *decimal.Decimal

	// Base and ExtraMemberIDs are set for ShapeRandomExtra. Members in
	// ExtraMemberIDs pay more than Base; order follows the split order.
	Base           decimal.Decimal
	ExtraMemberIDs []string
}

// PayerNote describes a payer who paid but is not part of the split.
type PayerNote struct {
	// Excluded is true iff a payer is recorded and is not a split member.
	Excluded bool

	// Earned is the payer's precomputed net, set only when Excluded and
	// the value is present and positive.
	Earned *decimal.Decimal
}

// Classification is the result of classifying an expense.
type Classification struct {
	Shape SplitShape
	Payer PayerNote
}

// Classify determines the split shape of an expense and the payer note.
//
// Rules, first match wins:
//  1. random extra: the payer is set and not a split member, and the amounts
//     spread by more than zero but at most one rounding unit;
//  2. equal: every amount is within one rounding unit of the first;
//  3. custom.
//
// Classify is a pure function of its input and never fails. It does not
// check that the splits add up to the expense amount.
func Classify(e *models.Expense, cur currency.Currency) Classification {
	tolerance := cur.Tolerance()
	amounts := make([]decimal.Decimal, len(e.SplitMemberIDs))
	for i, id := range e.SplitMemberIDs {
		amounts[i] = e.ShareOf(id)
	}

	excluded := e.PayerExcluded()

	return Classification{
		Shape: classifyShape(e.SplitMemberIDs, amounts, excluded, tolerance),
		Payer: payerNote(excluded, e.PayerEarned),
	}
}

func classifyShape(ids []string, amounts []decimal.Decimal, payerExcluded bool, tolerance decimal.Decimal) SplitShape {
	if payerExcluded {
		if shape, ok := randomExtra(ids, amounts, tolerance); ok {
			return shape
		}
	}

	if len(amounts) == 0 {
		return SplitShape{Kind: ShapeEqual}
	}

	first := amounts[0]
	for _, amt := range amounts[1:] {
		if amt.Sub(first).Abs().GreaterThan(tolerance) {
			return SplitShape{Kind: ShapeCustom}
		}
	}
	return SplitShape{Kind: ShapeEqual, AmountPerPerson: &first}
}

// randomExtra matches a split whose amounts differ by exactly the kind of
// remainder an equal split leaves behind: more than zero, at most one unit.
func randomExtra(ids []string, amounts []decimal.Decimal, tolerance decimal.Decimal) (SplitShape, bool) {
	if len(amounts) == 0 {
		return SplitShape{}, false
	}

	minAmt := decimal.Min(amounts[0], amounts[1:]...)
	maxAmt := decimal.Max(amounts[0], amounts[1:]...)
	if !maxAmt.GreaterThan(minAmt) || maxAmt.Sub(minAmt).GreaterThan(tolerance) {
		return SplitShape{}, false
	}

	var extra []string
	for i, id := range ids {
		if amounts[i].GreaterThan(minAmt) {
			extra = append(extra, id)
		}
	}
	if len(extra) == 0 {
		return SplitShape{}, false
	}

	return SplitShape{
		Kind:           ShapeRandomExtra,
		Base:           minAmt,
		ExtraMemberIDs: extra,
	}, true
}

func payerNote(excluded bool, earned *decimal.Decimal) PayerNote {
	note := PayerNote{Excluded: excluded}
	if excluded && earned != nil && earned.IsPositive() {
		v := *earned
		note.Earned = &v
	}
	return note
}
