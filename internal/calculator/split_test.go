package calculator

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/exsplitter/internal/currency"
	"github.com/mmynk/exsplitter/internal/models"
)

func sumSplits(splits map[string]decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, amt := range splits {
		sum = sum.Add(amt)
	}
	return sum
}

func TestSplitEqually(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		currency     string
		members      []string
		wantErr      error
		validateFunc func(t *testing.T, splits map[string]decimal.Decimal)
	}{
		{
			name:     "even split has no remainder",
			amount:   "100",
			currency: "USD",
			members:  []string{"Alice", "Bob"},
			validateFunc: func(t *testing.T, splits map[string]decimal.Decimal) {
				for _, name := range []string{"Alice", "Bob"} {
					if !splits[name].Equal(d("50")) {
						t.Errorf("%s = %s, want 50", name, splits[name])
					}
				}
			},
		},
		{
			name:     "yen remainder goes to one member",
			amount:   "1000",
			currency: "JPY",
			members:  []string{"a", "b", "c"},
			validateFunc: func(t *testing.T, splits map[string]decimal.Decimal) {
				extra := 0
				for id, amt := range splits {
					switch {
					case amt.Equal(d("334")):
						extra++
					case !amt.Equal(d("333")):
						t.Errorf("%s = %s, want 333 or 334", id, amt)
					}
				}
				if extra != 1 {
					t.Errorf("got %d members with 334, want 1", extra)
				}
			},
		},
		{
			name:     "cent remainder spread over four members",
			amount:   "10.00",
			currency: "USD",
			members:  []string{"a", "b", "c", "d", "e", "f"},
			validateFunc: func(t *testing.T, splits map[string]decimal.Decimal) {
				// 10.00 / 6 = 1.66 each with 0.04 left over
				extra := 0
				for _, amt := range splits {
					if amt.Equal(d("1.67")) {
						extra++
					}
				}
				if extra != 4 {
					t.Errorf("got %d members with 1.67, want 4", extra)
				}
			},
		},
		{
			name:     "amount is rounded to the currency first",
			amount:   "999.6",
			currency: "JPY",
			members:  []string{"a", "b"},
			validateFunc: func(t *testing.T, splits map[string]decimal.Decimal) {
				if !sumSplits(splits).Equal(d("1000")) {
					t.Errorf("sum = %s, want 1000", sumSplits(splits))
				}
			},
		},
		{
			name:     "zero amount",
			amount:   "0",
			currency: "EUR",
			members:  []string{"a", "b"},
			validateFunc: func(t *testing.T, splits map[string]decimal.Decimal) {
				if !splits["a"].IsZero() || !splits["b"].IsZero() {
					t.Errorf("splits = %v, want zeros", splits)
				}
			},
		},
		{
			name:     "no members",
			amount:   "10",
			currency: "USD",
			wantErr:  ErrNoParticipants,
		},
		{
			name:     "duplicate members",
			amount:   "10",
			currency: "USD",
			members:  []string{"a", "a"},
			wantErr:  ErrDuplicateMember,
		},
		{
			name:     "negative amount",
			amount:   "-10",
			currency: "USD",
			members:  []string{"a"},
			wantErr:  ErrNegativeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur := currency.MustLookup(tt.currency)
			splits, err := SplitEqually(d(tt.amount), cur, tt.members, "seed")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("SplitEqually() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitEqually() error = %v", err)
			}
			if len(splits) != len(tt.members) {
				t.Errorf("got %d splits, want %d", len(splits), len(tt.members))
			}
			if want := cur.Round(d(tt.amount)); !sumSplits(splits).Equal(want) {
				t.Errorf("sum = %s, want %s", sumSplits(splits), want)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, splits)
			}
		})
	}
}

func TestSplitEquallyIsDeterministic(t *testing.T) {
	jpy := currency.MustLookup("JPY")
	members := []string{"a", "b", "c", "d", "e", "f", "g"}

	first, err := SplitEqually(d("1000"), jpy, members, "expense-1")
	if err != nil {
		t.Fatalf("SplitEqually() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := SplitEqually(d("1000"), jpy, members, "expense-1")
		if err != nil {
			t.Fatalf("SplitEqually() error = %v", err)
		}
		if !reflect.DeepEqual(splitStrings(first), splitStrings(again)) {
			t.Fatalf("same seed gave different splits: %v vs %v", first, again)
		}
	}
}

func splitStrings(splits map[string]decimal.Decimal) map[string]string {
	out := make(map[string]string, len(splits))
	for id, amt := range splits {
		out[id] = amt.String()
	}
	return out
}

// An equal split with the payer left out must classify as random extra
// whenever there is a remainder, and as equal otherwise.
func TestSplitEquallyClassifies(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		members  []string
		wantKind ShapeKind
	}{
		{"1000", "JPY", []string{"a", "b", "c"}, ShapeRandomExtra},
		{"900", "JPY", []string{"a", "b", "c"}, ShapeEqual},
		{"10.00", "USD", []string{"a", "b", "c"}, ShapeRandomExtra},
		{"0.05", "USD", []string{"a", "b", "c", "d", "e", "f", "g"}, ShapeRandomExtra},
	}

	for _, tt := range tests {
		t.Run(tt.amount+tt.currency, func(t *testing.T) {
			cur := currency.MustLookup(tt.currency)
			splits, err := SplitEqually(d(tt.amount), cur, tt.members, "seed")
			if err != nil {
				t.Fatalf("SplitEqually() error = %v", err)
			}
			e := models.Expense{
				Amount:         d(tt.amount),
				PaidBy:         "payer",
				SplitMemberIDs: tt.members,
				Splits:         splits,
				PayerEarned:    PayerEarned(d(tt.amount), "payer", splits),
			}
			c := Classify(&e, cur)
			if c.Shape.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", c.Shape.Kind, tt.wantKind)
			}
			if !c.Payer.Excluded || c.Payer.Earned == nil || !c.Payer.Earned.Equal(d(tt.amount)) {
				t.Errorf("Payer = %+v, want excluded earning %s", c.Payer, tt.amount)
			}
		})
	}
}

func TestValidateCustomSplit(t *testing.T) {
	usd := currency.MustLookup("USD")
	members := []string{"a", "b", "c"}

	tests := []struct {
		name    string
		amount  string
		splits  map[string]decimal.Decimal
		wantErr error
		want    map[string]string
	}{
		{
			name:   "exact sum",
			amount: "30",
			splits: map[string]decimal.Decimal{"a": d("10"), "b": d("15"), "c": d("5")},
			want:   map[string]string{"a": "10", "b": "15", "c": "5"},
		},
		{
			name:   "missing members pay nothing",
			amount: "30",
			splits: map[string]decimal.Decimal{"a": d("30")},
			want:   map[string]string{"a": "30", "b": "0", "c": "0"},
		},
		{
			name:   "amounts are rounded to cents",
			amount: "10",
			splits: map[string]decimal.Decimal{"a": d("3.333"), "b": d("3.333"), "c": d("3.336")},
			want:   map[string]string{"a": "3.33", "b": "3.33", "c": "3.34"},
		},
		{
			name:    "sum off by a cent",
			amount:  "30",
			splits:  map[string]decimal.Decimal{"a": d("10"), "b": d("10"), "c": d("9.99")},
			wantErr: ErrSplitMismatch,
		},
		{
			name:    "member outside split",
			amount:  "30",
			splits:  map[string]decimal.Decimal{"a": d("10"), "z": d("20")},
			wantErr: ErrUnknownSplitMember,
		},
		{
			name:    "negative share",
			amount:  "10",
			splits:  map[string]decimal.Decimal{"a": d("20"), "b": d("-10")},
			wantErr: ErrNegativeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateCustomSplit(d(tt.amount), usd, members, tt.splits)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ValidateCustomSplit() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateCustomSplit() error = %v", err)
			}
			for id, want := range tt.want {
				if !got[id].Equal(d(want)) {
					t.Errorf("%s = %s, want %s", id, got[id], want)
				}
			}
		})
	}
}

func TestPayerEarned(t *testing.T) {
	splits := map[string]decimal.Decimal{"a": d("40"), "b": d("60")}

	if got := PayerEarned(d("100"), "", splits); got != nil {
		t.Errorf("no payer: got %s, want nil", got)
	}
	if got := PayerEarned(d("100"), "a", splits); got == nil || !got.Equal(d("60")) {
		t.Errorf("payer in split: got %v, want 60", got)
	}
	if got := PayerEarned(d("100"), "z", splits); got == nil || !got.Equal(d("100")) {
		t.Errorf("payer outside split: got %v, want 100", got)
	}
}
