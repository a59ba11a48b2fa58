package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/api"
	"github.com/mmynk/splitledger/internal/events"
)

func recordSettlement(t *testing.T, env *testEnv, groupID, from, to, amount string) api.Settlement {
	t.Helper()
	resp, err := env.settlements.RecordSettlement(context.Background(), connect.NewRequest(&api.RecordSettlementRequest{
		GroupID:      groupID,
		FromMemberID: from,
		ToMemberID:   to,
		Amount:       dec(amount),
	}))
	require.NoError(t, err, "RecordSettlement failed")
	return resp.Msg.Settlement
}

func markPaid(t *testing.T, env *testEnv, settlementID string) api.Settlement {
	t.Helper()
	resp, err := env.settlements.MarkSettlementPaid(context.Background(), connect.NewRequest(&api.MarkSettlementPaidRequest{
		SettlementID: settlementID,
	}))
	require.NoError(t, err, "MarkSettlementPaid failed")
	return resp.Msg.Settlement
}

func TestSettledTransfersOffsetBalances(t *testing.T) {
	env := setupTestServer(t)
	groupID, ids := createGroup(t, env, named("A", "B", "C")...)
	addExpense(t, env, &api.CreateExpenseRequest{GroupID: groupID, Amount: dec("300"), PaidBy: ids[0]})

	s := recordSettlement(t, env, groupID, ids[1], ids[0], "100")
	assert.False(t, s.IsSettled)

	// Unpaid suggestions do not move balances.
	b := balances(t, env, groupID)
	assertAmount(t, "200", b.Balances[0].Amount)
	assertAmount(t, "-100", b.Balances[1].Amount)
	assert.Len(t, b.Transfers, 2)

	paid := markPaid(t, env, s.ID)
	assert.True(t, paid.IsSettled)
	assert.NotZero(t, paid.SettledAt)

	b = balances(t, env, groupID)
	assertAmount(t, "100", b.Balances[0].Amount)
	assert.True(t, b.Balances[1].Amount.IsZero())
	assertAmount(t, "-100", b.Balances[2].Amount)
	assert.True(t, b.Residual.IsZero())
	require.Len(t, b.Transfers, 1)
	assert.Equal(t, ids[2], b.Transfers[0].FromMemberID)
	assert.Equal(t, ids[0], b.Transfers[0].ToMemberID)
	assertAmount(t, "100", b.Transfers[0].Amount)

	// Marking twice keeps the first settlement time and emits no new event.
	again := markPaid(t, env, s.ID)
	assert.Equal(t, paid.SettledAt, again.SettledAt)

	assert.Equal(t, []events.Type{
		events.ExpenseCreated,
		events.SettlementRecorded,
		events.SettlementSettled,
	}, env.pub.types())
}

func TestSettledTransfersIgnoredWhenDisabled(t *testing.T) {
	env := setupTestServer(t, withoutSettledFeedback())
	groupID, ids := createGroup(t, env, named("A", "B")...)
	addExpense(t, env, &api.CreateExpenseRequest{GroupID: groupID, Amount: dec("50"), PaidBy: ids[0]})

	s := recordSettlement(t, env, groupID, ids[1], ids[0], "25")
	markPaid(t, env, s.ID)

	b := balances(t, env, groupID)
	assertAmount(t, "25", b.Balances[0].Amount)
	assertAmount(t, "-25", b.Balances[1].Amount)
	assert.Len(t, b.Transfers, 1)
}

func TestRecordSettlementValidation(t *testing.T) {
	env := setupTestServer(t)
	groupID, ids := createGroup(t, env, named("A", "B")...)
	_, outsider := createGroup(t, env, named("Z")...)

	tests := []struct {
		name string
		req  *api.RecordSettlementRequest
		code connect.Code
	}{
		{"self settlement", &api.RecordSettlementRequest{GroupID: groupID, FromMemberID: ids[0], ToMemberID: ids[0], Amount: dec("5")}, connect.CodeInvalidArgument},
		{"zero amount", &api.RecordSettlementRequest{GroupID: groupID, FromMemberID: ids[0], ToMemberID: ids[1], Amount: dec("0")}, connect.CodeInvalidArgument},
		{"negative amount", &api.RecordSettlementRequest{GroupID: groupID, FromMemberID: ids[0], ToMemberID: ids[1], Amount: dec("-5")}, connect.CodeInvalidArgument},
		{"member outside group", &api.RecordSettlementRequest{GroupID: groupID, FromMemberID: outsider[0], ToMemberID: ids[1], Amount: dec("5")}, connect.CodeInvalidArgument},
		{"unknown group", &api.RecordSettlementRequest{GroupID: "nonexistent-id", FromMemberID: ids[0], ToMemberID: ids[1], Amount: dec("5")}, connect.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.settlements.RecordSettlement(context.Background(), connect.NewRequest(tt.req))
			require.Error(t, err)
			assert.Equal(t, tt.code, connect.CodeOf(err), "error: %v", err)
		})
	}

	_, err := env.settlements.MarkSettlementPaid(context.Background(), connect.NewRequest(&api.MarkSettlementPaidRequest{
		SettlementID: "nonexistent-id",
	}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestListSettlements(t *testing.T) {
	env := setupTestServer(t)
	groupID, ids := createGroup(t, env, named("A", "B")...)
	first := recordSettlement(t, env, groupID, ids[1], ids[0], "10")
	recordSettlement(t, env, groupID, ids[0], ids[1], "2.50")
	markPaid(t, env, first.ID)

	resp, err := env.settlements.ListSettlements(context.Background(), connect.NewRequest(&api.ListSettlementsRequest{GroupID: groupID}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Settlements, 2)

	var settled int
	for _, s := range resp.Msg.Settlements {
		if s.IsSettled {
			settled++
			assert.Equal(t, first.ID, s.ID)
		}
	}
	assert.Equal(t, 1, settled)

	_, err = env.settlements.ListSettlements(context.Background(), connect.NewRequest(&api.ListSettlementsRequest{GroupID: "nonexistent-id"}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}
