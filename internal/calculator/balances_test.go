package calculator

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
)

func TestComputeBalances(t *testing.T) {
	tests := []struct {
		name     string
		members  []string
		expenses []ExpenseForBalance
		want     map[string]string
		dropped  int
	}{
		{
			name:    "one payer equal three-way split",
			members: []string{"A", "B", "C"},
			expenses: []ExpenseForBalance{
				{ID: "e1", PaidBy: "A", Amount: d("300"), Splits: []models.Split{split("A", "100"), split("B", "100"), split("C", "100")}},
			},
			want: map[string]string{"A": "200", "B": "-100", "C": "-100"},
		},
		{
			name:    "two expenses paid by different members",
			members: []string{"A", "B"},
			expenses: []ExpenseForBalance{
				{ID: "e1", PaidBy: "A", Amount: d("200"), Splits: []models.Split{split("A", "100"), split("B", "100")}},
				{ID: "e2", PaidBy: "B", Amount: d("100"), Splits: []models.Split{split("A", "50"), split("B", "50")}},
			},
			want: map[string]string{"A": "50", "B": "-50"},
		},
		{
			name:    "idle member stays at zero",
			members: []string{"A", "B", "Z"},
			expenses: []ExpenseForBalance{
				{ID: "e1", PaidBy: "A", Amount: d("40"), Splits: []models.Split{split("A", "20"), split("B", "20")}},
			},
			want: map[string]string{"A": "20", "B": "-20", "Z": "0"},
		},
		{
			name:    "payer outside the split gets full credit",
			members: []string{"A", "B", "C"},
			expenses: []ExpenseForBalance{
				{ID: "e1", PaidBy: "C", Amount: d("60"), Splits: []models.Split{split("A", "30"), split("B", "30")}},
			},
			want: map[string]string{"A": "-30", "B": "-30", "C": "60"},
		},
		{
			name:    "split for removed member is dropped",
			members: []string{"A", "B"},
			expenses: []ExpenseForBalance{
				{ID: "e1", PaidBy: "A", Amount: d("90"), Splits: []models.Split{split("A", "30"), split("B", "30"), split("gone", "30")}},
			},
			want:    map[string]string{"A": "60", "B": "-30"},
			dropped: 1,
		},
		{
			name:    "removed payer is dropped",
			members: []string{"A", "B"},
			expenses: []ExpenseForBalance{
				{ID: "e1", PaidBy: "gone", Amount: d("10"), Splits: []models.Split{split("A", "5"), split("B", "5")}},
			},
			want:    map[string]string{"A": "-5", "B": "-5"},
			dropped: 1,
		},
		{
			name:    "uneven splits accepted as given",
			members: []string{"A", "B", "C"},
			expenses: []ExpenseForBalance{
				{ID: "e1", PaidBy: "A", Amount: d("100"), Splits: []models.Split{split("A", "33.33"), split("B", "33.33"), split("C", "33.33")}},
			},
			want: map[string]string{"A": "66.67", "B": "-33.33", "C": "-33.33"},
		},
		{
			name:    "no expenses",
			members: []string{"A", "B"},
			want:    map[string]string{"A": "0", "B": "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet, err := ComputeBalances(tt.members, tt.expenses)
			require.NoError(t, err)
			require.Len(t, sheet.Balances, len(tt.want))
			for member, want := range tt.want {
				assertDecimal(t, want, balanceOf(t, sheet.Balances, member).Amount, member)
			}
			assert.Len(t, sheet.Dropped, tt.dropped)
		})
	}
}

func TestComputeBalances_KeepsMemberOrder(t *testing.T) {
	sheet, err := ComputeBalances([]string{"C", "A", "B", "A"}, nil)
	require.NoError(t, err)

	var ids []string
	for _, b := range sheet.Balances {
		ids = append(ids, b.MemberID)
	}
	assert.Equal(t, []string{"C", "A", "B"}, ids)
}

func TestComputeBalances_Totals(t *testing.T) {
	sheet, err := ComputeBalances([]string{"A", "B"}, []ExpenseForBalance{
		{ID: "e1", PaidBy: "A", Amount: d("200"), Splits: []models.Split{split("A", "100"), split("B", "100")}},
		{ID: "e2", PaidBy: "B", Amount: d("100"), Splits: []models.Split{split("A", "50"), split("B", "50")}},
	})
	require.NoError(t, err)

	a := balanceOf(t, sheet.Balances, "A")
	assertDecimal(t, "200", a.TotalPaid)
	assertDecimal(t, "150", a.TotalOwed)
	b := balanceOf(t, sheet.Balances, "B")
	assertDecimal(t, "100", b.TotalPaid)
	assertDecimal(t, "150", b.TotalOwed)
}

func TestComputeBalances_DroppedEntryDetails(t *testing.T) {
	sheet, err := ComputeBalances([]string{"A"}, []ExpenseForBalance{
		{ID: "e1", PaidBy: "A", Amount: d("20"), Splits: []models.Split{split("A", "10"), split("ghost", "10")}},
	})
	require.NoError(t, err)
	require.Len(t, sheet.Dropped, 1)

	got := sheet.Dropped[0]
	assert.Equal(t, "e1", got.ExpenseID)
	assert.Equal(t, "ghost", got.MemberID)
	assert.Equal(t, DropSplit, got.Kind)
	assertDecimal(t, "10", got.Amount)
}

func TestComputeBalances_RejectsNegativeAmounts(t *testing.T) {
	_, err := ComputeBalances([]string{"A"}, []ExpenseForBalance{
		{ID: "e1", PaidBy: "A", Amount: d("-5")},
	})
	assert.ErrorIs(t, err, ErrMalformedAmount)

	_, err = ComputeBalances([]string{"A", "B"}, []ExpenseForBalance{
		{ID: "e1", PaidBy: "A", Amount: d("5"), Splits: []models.Split{split("A", "10"), split("B", "-5")}},
	})
	assert.ErrorIs(t, err, ErrMalformedAmount)
}

// randomExpenses builds well-formed expenses whose splits come from ResolveSplits.
func randomExpenses(t *testing.T, r *rand.Rand, members []string, n int) []ExpenseForBalance {
	t.Helper()
	expenses := make([]ExpenseForBalance, n)
	for i := range expenses {
		amount := decimal.New(r.Int63n(100000), -2)
		splits, err := ResolveSplits(SplitRequest{
			Method:  models.SplitEqual,
			Amount:  amount,
			Members: members[:1+r.Intn(len(members))],
		})
		require.NoError(t, err)
		expenses[i] = ExpenseForBalance{
			ID:     string(rune('a' + i%26)),
			PaidBy: members[r.Intn(len(members))],
			Amount: amount,
			Splits: splits,
		}
	}
	return expenses
}

func TestComputeBalances_SumsToZero(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	members := []string{"A", "B", "C", "D", "E"}

	for round := 0; round < 50; round++ {
		sheet, err := ComputeBalances(members, randomExpenses(t, r, members, 1+r.Intn(20)))
		require.NoError(t, err)
		assert.True(t, sheet.Residual().Abs().LessThan(d("0.000001")), "residual %s", sheet.Residual())
	}
}

func TestComputeBalances_PermutationInvariant(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	members := []string{"A", "B", "C", "D"}
	expenses := randomExpenses(t, r, members, 15)

	want, err := ComputeBalances(members, expenses)
	require.NoError(t, err)

	for round := 0; round < 10; round++ {
		shuffled := append([]ExpenseForBalance(nil), expenses...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got, err := ComputeBalances(members, shuffled)
		require.NoError(t, err)
		for i := range want.Balances {
			assert.True(t, want.Balances[i].Amount.Equal(got.Balances[i].Amount),
				"member %s: %s != %s", want.Balances[i].MemberID, want.Balances[i].Amount, got.Balances[i].Amount)
		}
	}
}
