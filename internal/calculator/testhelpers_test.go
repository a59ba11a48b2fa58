package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mmynk/splitledger/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func split(memberID, amount string) models.Split {
	return models.Split{MemberID: memberID, Amount: d(amount)}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}

func balanceOf(t *testing.T, balances []Balance, memberID string) Balance {
	t.Helper()
	for _, b := range balances {
		if b.MemberID == memberID {
			return b
		}
	}
	t.Fatalf("no balance for %s", memberID)
	return Balance{}
}
