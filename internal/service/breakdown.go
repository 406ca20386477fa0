package service

import (
	"context"
	"fmt"

	"github.com/mmynk/exsplitter/internal/calculator"
	"github.com/mmynk/exsplitter/internal/currency"
	"github.com/mmynk/exsplitter/internal/metrics"
	"github.com/mmynk/exsplitter/internal/models"
	"github.com/mmynk/exsplitter/pkg/api"
)

// buildBreakdown classifies e and resolves the member names the client
// shows next to each amount.
func buildBreakdown(ctx context.Context, names *nameResolver, m *metrics.Metrics, e *models.Expense, cur currency.Currency) (*api.Breakdown, error) {
	c := calculator.Classify(e, cur)
	m.ObserveClassification(c.Shape.Kind.String())

	b := &api.Breakdown{
		Shape:         c.Shape.Kind.String(),
		Shares:        make([]*api.Share, 0, len(e.SplitMemberIDs)),
		PayerExcluded: c.Payer.Excluded,
		PayerID:       e.PaidBy,
		PayerEarned:   c.Payer.Earned,
	}

	switch c.Shape.Kind {
	case calculator.ShapeEqual:
		b.AmountPerPerson = c.Shape.AmountPerPerson
	case calculator.ShapeRandomExtra:
		base := c.Shape.Base
		b.Base = &base
		for _, id := range c.Shape.ExtraMemberIDs {
			name, err := names.name(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve member %s: %w", id, err)
			}
			b.ExtraMembers = append(b.ExtraMembers, &api.MemberRef{ID: id, Name: name})
		}
	}

	for _, id := range e.SplitMemberIDs {
		name, err := names.name(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve member %s: %w", id, err)
		}
		b.Shares = append(b.Shares, &api.Share{MemberID: id, Name: name, Amount: e.ShareOf(id)})
	}

	if e.PaidBy != "" {
		name, err := names.name(ctx, e.PaidBy)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve payer %s: %w", e.PaidBy, err)
		}
		b.PayerName = name
	}

	return b, nil
}
