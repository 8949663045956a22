// Package amount converts between decimal asset amounts and the integer
// stroop units carried on the wire.
package amount

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// One is the number of stroops in one unit of an asset
const One = 10000000

// Decimals is the number of fractional digits an amount may carry
const Decimals = 7

// amount errors
var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrAmountRange   = errors.New("amount out of range")
)

var (
	stroopsPerUnit = decimal.NewFromInt(One)
	maxStroops     = decimal.NewFromInt(math.MaxInt64)
)

// Parse converts a decimal string such as "12.5" into stroops. Amounts with
// more than seven fractional digits are rejected rather than rounded.
func Parse(v string) (int64, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, v)
	}
	if d.Exponent() < -Decimals && !d.Equal(d.Truncate(Decimals)) {
		return 0, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, v, Decimals)
	}
	stroops := d.Mul(stroopsPerUnit)
	if stroops.IsNegative() || stroops.GreaterThan(maxStroops) {
		return 0, fmt.Errorf("%w: %q", ErrAmountRange, v)
	}
	return stroops.IntPart(), nil
}

// MustParse is Parse for constants
func MustParse(v string) int64 {
	n, err := Parse(v)
	if err != nil {
		panic(err)
	}
	return n
}

// ParsePositive is Parse that also rejects zero
func ParsePositive(v string) (int64, error) {
	n, err := Parse(v)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrAmountRange, v)
	}
	return n, nil
}

// String formats stroops with exactly seven decimals
func String(stroops int64) string {
	return decimal.New(stroops, -Decimals).StringFixed(Decimals)
}

// ToDecimal converts stroops into a decimal value
func ToDecimal(stroops int64) decimal.Decimal {
	return decimal.New(stroops, -Decimals)
}
