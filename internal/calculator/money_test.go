package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAmount(t *testing.T) {
	for _, ok := range []string{"0", "0.01", "12.5", "1000000.99"} {
		assert.NoError(t, ValidateAmount(d(ok)), ok)
	}
	for _, bad := range []string{"-0.01", "-100", "1.005", "0.001"} {
		assert.ErrorIs(t, ValidateAmount(d(bad)), ErrMalformedAmount, bad)
	}
}

func TestIsNegligible(t *testing.T) {
	assert.True(t, IsNegligible(d("0")))
	assert.True(t, IsNegligible(d("0.01")))
	assert.True(t, IsNegligible(d("-0.001")))
	assert.False(t, IsNegligible(d("0.011")))
	assert.False(t, IsNegligible(d("-5")))
}

func TestCents(t *testing.T) {
	assert.Equal(t, int64(1234), toCents(d("12.34")))
	assertDecimal(t, "12.34", fromCents(1234))
	assertDecimal(t, "-0.05", fromCents(-5))
}
