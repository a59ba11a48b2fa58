package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/api"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// ExpenseService implements the Connect ExpenseService
type ExpenseService struct {
	store    storage.Store
	notifier notifier
}

var _ api.ExpenseServiceHandler = (*ExpenseService)(nil)

// NewExpenseService creates a new ExpenseService. pub and m may be nil.
func NewExpenseService(store storage.Store, pub events.Publisher, m *metrics.Metrics) *ExpenseService {
	return &ExpenseService{store: store, notifier: newNotifier(pub, m)}
}

// expenseInput is the part of create and update requests that defines an expense.
type expenseInput struct {
	Description    string
	Amount         decimal.Decimal
	Category       string
	PaidBy         string
	SplitMethod    string
	ParticipantIDs []string
	Shares         []api.Share
	Date           int64
}

// buildExpense validates the input against the group's current members and
// resolves the splits. Errors are connect errors.
func (s *ExpenseService) buildExpense(ctx context.Context, groupID string, in expenseInput) (*models.Expense, map[string]string, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, nil, invalidArgument("description is required")
	}
	if err := calculator.ValidateAmount(in.Amount); err != nil {
		return nil, nil, invalidArgument("amount: %v", err)
	}
	if !in.Amount.IsPositive() {
		return nil, nil, invalidArgument("amount must be positive")
	}

	category := in.Category
	if category == "" {
		category = models.CategoryOther
	}
	if _, ok := models.LookupCategory(category); !ok {
		return nil, nil, invalidArgument("unknown category %q", in.Category)
	}

	method, err := models.ParseSplitMethod(in.SplitMethod)
	if err != nil {
		return nil, nil, invalidArgument("%v", err)
	}

	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, nil, storageError("list members", err)
	}
	memberIDs := make([]string, len(members))
	names := memberNames(members)
	for i, m := range members {
		memberIDs[i] = m.ID
	}
	if _, ok := names[in.PaidBy]; !ok {
		return nil, nil, invalidArgument("payer %q is not a member of the group", in.PaidBy)
	}

	shares := make([]calculator.ShareInput, len(in.Shares))
	for i, sh := range in.Shares {
		shares[i] = calculator.ShareInput{MemberID: sh.MemberID, Value: sh.Value}
	}
	splits, err := calculator.ResolveSplits(calculator.SplitRequest{
		Method:       method,
		Amount:       in.Amount,
		Members:      memberIDs,
		Participants: in.ParticipantIDs,
		Shares:       shares,
	})
	if err != nil {
		if errors.Is(err, calculator.ErrInvalidSplit) || errors.Is(err, calculator.ErrMalformedAmount) || errors.Is(err, calculator.ErrUnknownSplitMethod) {
			return nil, nil, invalidArgument("%v", err)
		}
		return nil, nil, connect.NewError(connect.CodeInternal, err)
	}

	return &models.Expense{
		GroupID:     groupID,
		Description: description,
		Amount:      in.Amount,
		Category:    category,
		PaidBy:      in.PaidBy,
		SplitMethod: method,
		Splits:      splits,
		Date:        in.Date,
	}, names, nil
}

// CreateExpense validates an expense, resolves its splits and saves it.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	slog.Info("CreateExpense request received",
		"group_id", req.Msg.GroupID,
		"amount", req.Msg.Amount.String(),
		"split_method", req.Msg.SplitMethod,
	)

	if _, err := s.store.GetGroup(ctx, req.Msg.GroupID); err != nil {
		slog.Error("CreateExpense failed - group not found", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError("get group", err)
	}

	expense, names, err := s.buildExpense(ctx, req.Msg.GroupID, expenseInput{
		Description:    req.Msg.Description,
		Amount:         req.Msg.Amount,
		Category:       req.Msg.Category,
		PaidBy:         req.Msg.PaidBy,
		SplitMethod:    req.Msg.SplitMethod,
		ParticipantIDs: req.Msg.ParticipantIDs,
		Shares:         req.Msg.Shares,
		Date:           req.Msg.Date,
	})
	if err != nil {
		slog.Warn("CreateExpense rejected", "group_id", req.Msg.GroupID, "error", err)
		return nil, err
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "error", err)
		return nil, storageError("create expense", err)
	}

	slog.Info("Expense created", "expense_id", expense.ID, "group_id", expense.GroupID, "splits", len(expense.Splits))
	s.notifier.notify(ctx, events.New(events.ExpenseCreated, expense.GroupID, expense.ID, expense.Amount))

	return connect.NewResponse(&api.CreateExpenseResponse{
		Expense: toAPIExpense(expense, names),
	}), nil
}

// GetExpense retrieves an expense by ID.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	slog.Info("GetExpense request received", "expense_id", req.Msg.ExpenseID)

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		slog.Error("GetExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, storageError("get expense", err)
	}
	members, err := s.store.ListMembers(ctx, expense.GroupID)
	if err != nil {
		return nil, storageError("list members", err)
	}

	return connect.NewResponse(&api.GetExpenseResponse{
		Expense: toAPIExpense(expense, memberNames(members)),
	}), nil
}

// ListExpenses lists a group's expenses, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "group_id", req.Msg.GroupID)

	snap, err := s.store.Snapshot(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError("list expenses", err)
	}

	names := snapshotNames(snap)
	out := make([]api.Expense, len(snap.Expenses))
	for i := range snap.Expenses {
		out[i] = toAPIExpense(&snap.Expenses[i], names)
	}

	slog.Info("ListExpenses successful", "group_id", req.Msg.GroupID, "count", len(out))

	return connect.NewResponse(&api.ListExpensesResponse{
		Expenses: out,
	}), nil
}

// UpdateExpense replaces an expense. Splits are resolved again against the
// group's current members.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	slog.Info("UpdateExpense request received", "expense_id", req.Msg.ExpenseID)

	existing, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		slog.Error("UpdateExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, storageError("get expense", err)
	}

	date := req.Msg.Date
	if date == 0 {
		date = existing.Date
	}
	expense, names, err := s.buildExpense(ctx, existing.GroupID, expenseInput{
		Description:    req.Msg.Description,
		Amount:         req.Msg.Amount,
		Category:       req.Msg.Category,
		PaidBy:         req.Msg.PaidBy,
		SplitMethod:    req.Msg.SplitMethod,
		ParticipantIDs: req.Msg.ParticipantIDs,
		Shares:         req.Msg.Shares,
		Date:           date,
	})
	if err != nil {
		slog.Warn("UpdateExpense rejected", "expense_id", existing.ID, "error", err)
		return nil, err
	}
	expense.ID = existing.ID

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "error", err)
		return nil, storageError("update expense", err)
	}

	slog.Info("Expense updated", "expense_id", expense.ID)
	s.notifier.notify(ctx, events.New(events.ExpenseUpdated, expense.GroupID, expense.ID, expense.Amount))

	return connect.NewResponse(&api.UpdateExpenseResponse{
		Expense: toAPIExpense(expense, names),
	}), nil
}

// DeleteExpense removes an expense and its splits.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		slog.Error("DeleteExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, storageError("get expense", err)
	}
	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expense.ID, "error", err)
		return nil, storageError("delete expense", err)
	}

	slog.Info("Expense deleted", "expense_id", expense.ID)
	s.notifier.notify(ctx, events.New(events.ExpenseDeleted, expense.GroupID, expense.ID, expense.Amount))

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}
