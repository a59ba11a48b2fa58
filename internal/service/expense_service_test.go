package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/api"
	"github.com/mmynk/splitledger/internal/events"
)

func TestCreateExpense(t *testing.T) {
	env := setupTestServer(t)
	groupID, ids := createGroup(t, env, named("Alice", "Bob", "Charlie")...)

	exp := addExpense(t, env, &api.CreateExpenseRequest{
		GroupID:     groupID,
		Description: "  Groceries ",
		Amount:      dec("90"),
		Category:    "food",
		PaidBy:      ids[1],
		SplitMethod: "percentage",
		Shares: []api.Share{
			{MemberID: ids[0], Value: dec("50")},
			{MemberID: ids[1], Value: dec("25")},
			{MemberID: ids[2], Value: dec("25")},
		},
		Date: 1700000000,
	})

	assert.NotEmpty(t, exp.ID)
	assert.Equal(t, "Groceries", exp.Description)
	assert.Equal(t, "Bob", exp.PaidByName)
	assert.Equal(t, "percentage", exp.SplitMethod)
	assert.Equal(t, int64(1700000000), exp.Date)
	require.Len(t, exp.Splits, 3)
	assertAmount(t, "45", exp.Splits[0].Amount)
	assertAmount(t, "22.5", exp.Splits[1].Amount)
	assert.Equal(t, "Charlie", exp.Splits[2].MemberName)

	got, err := env.expenses.GetExpense(context.Background(), connect.NewRequest(&api.GetExpenseRequest{ExpenseID: exp.ID}))
	require.NoError(t, err)
	assertAmount(t, "90", got.Msg.Expense.Amount)
	assert.Equal(t, "food", got.Msg.Expense.Category)

	assert.Equal(t, []events.Type{events.ExpenseCreated}, env.pub.types())
}

func TestCreateExpenseValidation(t *testing.T) {
	env := setupTestServer(t)
	groupID, ids := createGroup(t, env, named("Alice", "Bob")...)
	_, outsider := createGroup(t, env, named("Zed")...)

	tests := []struct {
		name string
		req  *api.CreateExpenseRequest
		code connect.Code
	}{
		{
			name: "missing description",
			req:  &api.CreateExpenseRequest{GroupID: groupID, Description: " ", Amount: dec("10"), PaidBy: ids[0]},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "zero amount",
			req:  &api.CreateExpenseRequest{GroupID: groupID, Description: "x", Amount: dec("0"), PaidBy: ids[0]},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "negative amount",
			req:  &api.CreateExpenseRequest{GroupID: groupID, Description: "x", Amount: dec("-5"), PaidBy: ids[0]},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "sub-cent amount",
			req:  &api.CreateExpenseRequest{GroupID: groupID, Description: "x", Amount: dec("1.005"), PaidBy: ids[0]},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "unknown category",
			req:  &api.CreateExpenseRequest{GroupID: groupID, Description: "x", Amount: dec("10"), PaidBy: ids[0], Category: "yachts"},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "unknown split method",
			req:  &api.CreateExpenseRequest{GroupID: groupID, Description: "x", Amount: dec("10"), PaidBy: ids[0], SplitMethod: "shares"},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "payer outside group",
			req:  &api.CreateExpenseRequest{GroupID: groupID, Description: "x", Amount: dec("10"), PaidBy: outsider[0]},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "custom shares do not add up",
			req: &api.CreateExpenseRequest{GroupID: groupID, Description: "x", Amount: dec("10"), PaidBy: ids[0], SplitMethod: "custom",
				Shares: []api.Share{{MemberID: ids[0], Value: dec("4")}, {MemberID: ids[1], Value: dec("4")}}},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "percentages do not add up",
			req: &api.CreateExpenseRequest{GroupID: groupID, Description: "x", Amount: dec("10"), PaidBy: ids[0], SplitMethod: "percentage",
				Shares: []api.Share{{MemberID: ids[0], Value: dec("60")}, {MemberID: ids[1], Value: dec("60")}}},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "participant outside group",
			req: &api.CreateExpenseRequest{GroupID: groupID, Description: "x", Amount: dec("10"), PaidBy: ids[0],
				ParticipantIDs: []string{ids[0], outsider[0]}},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "unknown group",
			req:  &api.CreateExpenseRequest{GroupID: "nonexistent-id", Description: "x", Amount: dec("10"), PaidBy: ids[0]},
			code: connect.CodeNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.expenses.CreateExpense(context.Background(), connect.NewRequest(tt.req))
			require.Error(t, err)
			assert.Equal(t, tt.code, connect.CodeOf(err), "error: %v", err)
		})
	}

	assert.Empty(t, env.pub.types())
}

func TestCreateExpenseRejectsNonFiniteAmounts(t *testing.T) {
	env := setupTestServer(t)
	groupID, ids := createGroup(t, env, named("Alice", "Bob")...)

	for _, amount := range []string{`"NaN"`, `"Infinity"`, `"-Inf"`} {
		t.Run(amount, func(t *testing.T) {
			body := `{"groupId":"` + groupID + `","description":"x","paidBy":"` + ids[0] + `","amount":` + amount + `}`
			resp, err := http.Post(env.url+api.ExpenseServiceCreateExpenseProcedure, "application/json", strings.NewReader(body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}

	list, err := env.expenses.ListExpenses(context.Background(), connect.NewRequest(&api.ListExpensesRequest{GroupID: groupID}))
	require.NoError(t, err)
	assert.Empty(t, list.Msg.Expenses)
}

func TestUpdateExpense(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	groupID, ids := createGroup(t, env, named("A", "B")...)
	exp := addExpense(t, env, &api.CreateExpenseRequest{GroupID: groupID, Amount: dec("100"), PaidBy: ids[0], Date: 1000})

	resp, err := env.expenses.UpdateExpense(ctx, connect.NewRequest(&api.UpdateExpenseRequest{
		ExpenseID:   exp.ID,
		Description: "Dinner and drinks",
		Amount:      dec("150"),
		PaidBy:      ids[1],
		SplitMethod: "custom",
		Shares:      []api.Share{{MemberID: ids[0], Value: dec("150")}},
	}))
	require.NoError(t, err)
	updated := resp.Msg.Expense
	assert.Equal(t, exp.ID, updated.ID)
	assert.Equal(t, groupID, updated.GroupID)
	assert.Equal(t, int64(1000), updated.Date)
	require.Len(t, updated.Splits, 1)

	b := balances(t, env, groupID)
	assertAmount(t, "-150", b.Balances[0].Amount)
	assertAmount(t, "150", b.Balances[1].Amount)

	_, err = env.expenses.UpdateExpense(ctx, connect.NewRequest(&api.UpdateExpenseRequest{
		ExpenseID: "nonexistent-id", Description: "x", Amount: dec("1"), PaidBy: ids[0],
	}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	assert.Equal(t, []events.Type{events.ExpenseCreated, events.ExpenseUpdated}, env.pub.types())
}

func TestListAndDeleteExpenses(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	groupID, ids := createGroup(t, env, named("A", "B")...)
	older := addExpense(t, env, &api.CreateExpenseRequest{GroupID: groupID, Description: "Older", Amount: dec("10"), PaidBy: ids[0], Date: 100})
	addExpense(t, env, &api.CreateExpenseRequest{GroupID: groupID, Description: "Newer", Amount: dec("20"), PaidBy: ids[1], Date: 200})

	list, err := env.expenses.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{GroupID: groupID}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Expenses, 2)
	assert.Equal(t, "Newer", list.Msg.Expenses[0].Description)
	assert.Equal(t, "B", list.Msg.Expenses[0].PaidByName)

	_, err = env.expenses.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ExpenseID: older.ID}))
	require.NoError(t, err)

	_, err = env.expenses.GetExpense(ctx, connect.NewRequest(&api.GetExpenseRequest{ExpenseID: older.ID}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	_, err = env.expenses.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ExpenseID: older.ID}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	b := balances(t, env, groupID)
	assertAmount(t, "-10", b.Balances[0].Amount)
	assertAmount(t, "10", b.Balances[1].Amount)

	assert.Equal(t, []events.Type{events.ExpenseCreated, events.ExpenseCreated, events.ExpenseDeleted}, env.pub.types())
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	env := setupTestServer(t)
	env.pub.err = errors.New("broker unavailable")
	groupID, ids := createGroup(t, env, named("A", "B")...)

	exp := addExpense(t, env, &api.CreateExpenseRequest{GroupID: groupID, Amount: dec("10"), PaidBy: ids[0]})
	assert.NotEmpty(t, exp.ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.EventFailures))
}
