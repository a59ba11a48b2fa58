package api

import "github.com/shopspring/decimal"

// Money fields are decimal strings on the wire ("12.50"). Plain JSON numbers
// are accepted on input; NaN and infinities are rejected while decoding.

type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Icon      string   `json:"icon"`
	CreatedBy string   `json:"createdBy,omitempty"`
	CreatedAt int64    `json:"createdAt"`
	Members   []Member `json:"members,omitempty"`
}

type Member struct {
	ID       string `json:"id"`
	GroupID  string `json:"groupId"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	JoinedAt int64  `json:"joinedAt"`
}

// NewMember is a member to add; the server assigns ID and JoinedAt.
type NewMember struct {
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

type GroupSummary struct {
	Group         Group           `json:"group"`
	MemberCount   int             `json:"memberCount"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
}

type Split struct {
	MemberID   string          `json:"memberId"`
	MemberName string          `json:"memberName,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
}

// Share is a per-member input to custom (amount) and percentage splits.
type Share struct {
	MemberID string          `json:"memberId"`
	Value    decimal.Decimal `json:"value"`
}

type Expense struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"groupId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	PaidBy      string          `json:"paidBy"`
	PaidByName  string          `json:"paidByName,omitempty"`
	SplitMethod string          `json:"splitMethod"`
	Splits      []Split         `json:"splits"`
	Date        int64           `json:"date"`
	CreatedAt   int64           `json:"createdAt"`
}

type Settlement struct {
	ID           string          `json:"id"`
	GroupID      string          `json:"groupId"`
	FromMemberID string          `json:"fromMemberId"`
	ToMemberID   string          `json:"toMemberId"`
	Amount       decimal.Decimal `json:"amount"`
	IsSettled    bool            `json:"isSettled"`
	SettledAt    int64           `json:"settledAt,omitempty"`
	CreatedAt    int64           `json:"createdAt"`
}

type Balance struct {
	MemberID  string          `json:"memberId"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	TotalPaid decimal.Decimal `json:"totalPaid"`
	TotalOwed decimal.Decimal `json:"totalOwed"`
}

type Transfer struct {
	FromMemberID string          `json:"fromMemberId"`
	FromName     string          `json:"fromName"`
	ToMemberID   string          `json:"toMemberId"`
	ToName       string          `json:"toName"`
	Amount       decimal.Decimal `json:"amount"`
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Label    string          `json:"label"`
	Icon     string          `json:"icon"`
	Color    string          `json:"color"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// GroupService

type CreateGroupRequest struct {
	Name    string      `json:"name"`
	Icon    string      `json:"icon,omitempty"`
	Members []NewMember `json:"members"`
}

type CreateGroupResponse struct {
	Group Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []GroupSummary `json:"groups"`
}

type UpdateGroupRequest struct {
	GroupID string `json:"groupId"`
	Name    string `json:"name"`
	Icon    string `json:"icon,omitempty"`
}

type UpdateGroupResponse struct {
	Group Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"groupId"`
}

type DeleteGroupResponse struct{}

type AddMemberRequest struct {
	GroupID string `json:"groupId"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Avatar  string `json:"avatar,omitempty"`
}

type AddMemberResponse struct {
	Member Member `json:"member"`
}

type ListMembersRequest struct {
	GroupID string `json:"groupId"`
}

type ListMembersResponse struct {
	Members []Member `json:"members"`
}

type RemoveMemberRequest struct {
	MemberID string `json:"memberId"`
}

type RemoveMemberResponse struct{}

type GetGroupBalancesRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupBalancesResponse struct {
	Balances  []Balance  `json:"balances"`
	Transfers []Transfer `json:"transfers"`
	// DroppedSplits counts splits and payers that referenced a removed member.
	DroppedSplits int             `json:"droppedSplits"`
	Residual      decimal.Decimal `json:"residual"`
	// Complete is false when the residual exceeded epsilon and the
	// transfers cannot settle every balance.
	Complete bool `json:"complete"`
}

type GetCategoryBreakdownRequest struct {
	GroupID string `json:"groupId"`
}

type GetCategoryBreakdownResponse struct {
	Categories []CategoryTotal `json:"categories"`
	Total      decimal.Decimal `json:"total"`
}

type GetUserStatsRequest struct{}

type GetUserStatsResponse struct {
	TotalGroups   int             `json:"totalGroups"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	YouOwe        decimal.Decimal `json:"youOwe"`
	YouAreOwed    decimal.Decimal `json:"youAreOwed"`
}

// ExpenseService

type CreateExpenseRequest struct {
	GroupID     string          `json:"groupId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category,omitempty"`
	PaidBy      string          `json:"paidBy"`
	SplitMethod string          `json:"splitMethod,omitempty"`
	// ParticipantIDs restricts an equal split; empty means all members.
	ParticipantIDs []string `json:"participantIds,omitempty"`
	Shares         []Share  `json:"shares,omitempty"`
	Date           int64    `json:"date,omitempty"`
}

type CreateExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type GetExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"groupId"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

type UpdateExpenseRequest struct {
	ExpenseID      string          `json:"expenseId"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Category       string          `json:"category,omitempty"`
	PaidBy         string          `json:"paidBy"`
	SplitMethod    string          `json:"splitMethod,omitempty"`
	ParticipantIDs []string        `json:"participantIds,omitempty"`
	Shares         []Share         `json:"shares,omitempty"`
	Date           int64           `json:"date,omitempty"`
}

type UpdateExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type DeleteExpenseResponse struct{}

// SettlementService

type RecordSettlementRequest struct {
	GroupID      string          `json:"groupId"`
	FromMemberID string          `json:"fromMemberId"`
	ToMemberID   string          `json:"toMemberId"`
	Amount       decimal.Decimal `json:"amount"`
}

type RecordSettlementResponse struct {
	Settlement Settlement `json:"settlement"`
}

type MarkSettlementPaidRequest struct {
	SettlementID string `json:"settlementId"`
}

type MarkSettlementPaidResponse struct {
	Settlement Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	GroupID string `json:"groupId"`
}

type ListSettlementsResponse struct {
	Settlements []Settlement `json:"settlements"`
}
