// Package currency provides the currency metadata used to size split
// remainders and comparison tolerances.
package currency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// ErrUnknownCurrency is returned when a code is not a valid ISO 4217 code.
var ErrUnknownCurrency = errors.New("unknown currency")

// Currency describes one ISO 4217 currency.
type Currency struct {
	Code          string
	DecimalPlaces int32
	Symbol        string
}

// Symbols for the currencies offered when creating a trip. Any other valid
// ISO code is still accepted and uses its code as symbol.
var symbols = []struct {
	code   string
	symbol string
}{
	{"JPY", "¥"},
	{"USD", "$"},
	{"EUR", "€"},
	{"GBP", "£"},
	{"TWD", "NT$"},
	{"KRW", "₩"},
	{"CNY", "CN¥"},
	{"HKD", "HK$"},
	{"SGD", "S$"},
	{"THB", "฿"},
	{"AUD", "A$"},
	{"CAD", "CA$"},
}

// Lookup returns metadata for the given ISO code. The code is
// case-insensitive.
func Lookup(code string) (Currency, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return Currency{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}

	scale, _ := currency.Standard.Rounding(unit)
	c := Currency{
		Code:          unit.String(),
		DecimalPlaces: int32(scale),
		Symbol:        unit.String(),
	}
	for _, s := range symbols {
		if s.code == c.Code {
			c.Symbol = s.symbol
			break
		}
	}
	return c, nil
}

// MustLookup is like Lookup but panics on an invalid code.
// Intended for tests and package-level defaults.
func MustLookup(code string) Currency {
	c, err := Lookup(code)
	if err != nil {
		panic(err)
	}
	return c
}

// Supported returns the currencies offered in the trip picker, in display order.
func Supported() []Currency {
	out := make([]Currency, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, MustLookup(s.code))
	}
	return out
}

// Tolerance is the smallest indivisible unit of the currency: 1 for JPY,
// 0.01 for USD. Split amounts closer than this are considered equal.
func (c Currency) Tolerance() decimal.Decimal {
	return decimal.New(1, -c.DecimalPlaces)
}

// Round rounds d half away from zero to the currency's decimal places.
func (c Currency) Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(c.DecimalPlaces)
}

// Format renders d with the currency's symbol and fixed decimal places.
// Used for log lines; display formatting belongs to the client.
func (c Currency) Format(d decimal.Decimal) string {
	return c.Symbol + d.StringFixed(c.DecimalPlaces)
}
