// Package money holds the currency model and the base-currency conversion used
// for every transaction amount. All arithmetic is done on fixed-point decimals.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code accepted by the ledger.
type Currency string

const (
	// INR is the base (reporting) currency.
	INR Currency = "INR"
	// USD is the only foreign currency; it needs a manual conversion rate.
	USD Currency = "USD"
)

// Base is the currency every converted amount and report total is expressed in.
const Base = INR

// AmountPlaces and RatePlaces mirror the decimal(15,2) and decimal(10,4) columns.
const (
	AmountPlaces = 2
	RatePlaces   = 4
)

var (
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrInvalidRate         = errors.New("conversion rate must be present and greater than zero")
	ErrInvalidAmount       = errors.New("invalid amount")
)

// IsBase reports whether c is the base currency.
func (c Currency) IsBase() bool { return c == Base }

// Valid reports whether c is one of the supported currencies.
func (c Currency) Valid() bool {
	switch c {
	case INR, USD:
		return true
	}
	return false
}

// Convert returns the base-currency value of amount entered in currency.
// For the base currency the amount is returned unchanged and rate is ignored.
// For a foreign currency rate must be non-nil and positive; the product is
// rounded half away from zero to two places.
func Convert(amount decimal.Decimal, currency Currency, rate *decimal.Decimal) (decimal.Decimal, error) {
	if !currency.Valid() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, currency)
	}
	if currency.IsBase() {
		return amount, nil
	}
	if rate == nil || !rate.IsPositive() {
		return decimal.Zero, ErrInvalidRate
	}
	return amount.Mul(*rate).Round(AmountPlaces), nil
}

// Format renders d with exactly two decimal places.
func Format(d decimal.Decimal) string {
	return d.StringFixed(AmountPlaces)
}

// ParseAmount parses a user supplied decimal string. It rejects values with
// more than places fractional digits instead of silently rounding them.
func ParseAmount(s string, places int32) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if HasExcessPlaces(d, places) {
		return decimal.Zero, fmt.Errorf("%w: at most %d decimal places allowed", ErrInvalidAmount, places)
	}
	return d, nil
}

// HasExcessPlaces reports whether d carries more than places fractional digits.
func HasExcessPlaces(d decimal.Decimal, places int32) bool {
	return !d.Equal(d.Truncate(places))
}

// Sum adds a list of decimals.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
