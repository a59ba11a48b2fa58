package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Epsilon is the tolerance below which a balance or transfer is treated as zero.
var Epsilon = decimal.New(1, -2)

var hundred = decimal.NewFromInt(100)

// ErrMalformedAmount is returned for amounts the accounting cannot reason about.
var ErrMalformedAmount = errors.New("malformed amount")

// IsNegligible reports whether d is within Epsilon of zero.
func IsNegligible(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(Epsilon)
}

// ValidateAmount checks that d is a non-negative amount with at most two
// decimal places.
func ValidateAmount(d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%w: %s is negative", ErrMalformedAmount, d)
	}
	if !d.Equal(d.Round(2)) {
		return fmt.Errorf("%w: %s has more than two decimal places", ErrMalformedAmount, d)
	}
	return nil
}

// Residual returns the sum of all balances. For the output of ComputeBalances
// over well-formed expenses it is zero.
func Residual(balances []Balance) decimal.Decimal {
	sum := decimal.Zero
	for _, b := range balances {
		sum = sum.Add(b.Amount)
	}
	return sum
}

func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).IntPart()
}

func fromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}
