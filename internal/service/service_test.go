package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/api"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
)

// recordingPublisher keeps every published event in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type testEnv struct {
	url         string
	groups      *api.GroupServiceClient
	expenses    *api.ExpenseServiceClient
	settlements *api.SettlementServiceClient
	pub         *recordingPublisher
	metrics     *metrics.Metrics
}

type envOption func(*envConfig)

type envConfig struct {
	applySettled bool
}

func withoutSettledFeedback() envOption {
	return func(c *envConfig) { c.applySettled = false }
}

// setupTestServer wires all three services over a temp database behind a
// real HTTP server, the same way cmd/server does.
func setupTestServer(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	cfg := envConfig{applySettled: true}
	for _, o := range opts {
		o(&cfg)
	}

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")

	m := metrics.New(prometheus.NewRegistry())
	pub := &recordingPublisher{}
	ledger := NewLedger(store, m, cfg.applySettled)

	interceptors := connect.WithInterceptors(
		middleware.IdentityInterceptor(),
		middleware.LoggingInterceptor(m),
	)

	mux := http.NewServeMux()
	mux.Handle(api.NewGroupServiceHandler(NewGroupService(store, ledger), interceptors))
	mux.Handle(api.NewExpenseServiceHandler(NewExpenseService(store, pub, m), interceptors))
	mux.Handle(api.NewSettlementServiceHandler(NewSettlementService(store, pub, m), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		url:         server.URL,
		groups:      api.NewGroupServiceClient(http.DefaultClient, server.URL),
		expenses:    api.NewExpenseServiceClient(http.DefaultClient, server.URL),
		settlements: api.NewSettlementServiceClient(http.DefaultClient, server.URL),
		pub:         pub,
		metrics:     m,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func asCaller[T any](msg *T, email string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set(middleware.EmailHeader, email)
	return req
}

// createGroup creates a group and returns its ID and the member IDs in order.
func createGroup(t *testing.T, env *testEnv, members ...api.NewMember) (string, []string) {
	t.Helper()
	resp, err := env.groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Name:    "Roommates",
		Members: members,
	}))
	require.NoError(t, err, "CreateGroup failed")

	ids := make([]string, len(resp.Msg.Group.Members))
	for i, m := range resp.Msg.Group.Members {
		ids[i] = m.ID
	}
	return resp.Msg.Group.ID, ids
}

func named(names ...string) []api.NewMember {
	out := make([]api.NewMember, len(names))
	for i, n := range names {
		out[i] = api.NewMember{Name: n}
	}
	return out
}

func addExpense(t *testing.T, env *testEnv, req *api.CreateExpenseRequest) api.Expense {
	t.Helper()
	if req.Description == "" {
		req.Description = "Dinner"
	}
	resp, err := env.expenses.CreateExpense(context.Background(), connect.NewRequest(req))
	require.NoError(t, err, "CreateExpense failed")
	return resp.Msg.Expense
}

func balances(t *testing.T, env *testEnv, groupID string) *api.GetGroupBalancesResponse {
	t.Helper()
	resp, err := env.groups.GetGroupBalances(context.Background(), connect.NewRequest(&api.GetGroupBalancesRequest{
		GroupID: groupID,
	}))
	require.NoError(t, err, "GetGroupBalances failed")
	return resp.Msg
}
