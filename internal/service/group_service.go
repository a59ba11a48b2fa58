package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/splitledger/internal/api"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// statsConcurrency bounds the per-group ledger computations in GetUserStats.
const statsConcurrency = 4

// GroupService implements the Connect GroupService
type GroupService struct {
	store  storage.Store
	ledger *Ledger
}

var _ api.GroupServiceHandler = (*GroupService)(nil)

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, ledger *Ledger) *GroupService {
	return &GroupService{store: store, ledger: ledger}
}

func callerFrom(ctx context.Context) caller {
	return caller{userID: middleware.GetUserID(ctx), email: middleware.GetEmail(ctx)}
}

// CreateGroup creates a new group with its initial members.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("group name is required")
	}

	members := make([]*models.Member, len(req.Msg.Members))
	for i, m := range req.Msg.Members {
		memberName := strings.TrimSpace(m.Name)
		if memberName == "" {
			return nil, invalidArgument("member %d: name is required", i)
		}
		members[i] = &models.Member{
			Name:   memberName,
			Email:  strings.ToLower(strings.TrimSpace(m.Email)),
			Avatar: m.Avatar,
		}
	}

	c := callerFrom(ctx)
	createdBy := c.email
	if createdBy == "" {
		createdBy = c.userID
	}
	group := &models.Group{
		Name:      name,
		Icon:      req.Msg.Icon,
		CreatedBy: createdBy,
	}

	// Save to storage (generates IDs and CreatedAt)
	if err := s.store.CreateGroup(ctx, group, members); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, storageError("create group", err)
	}

	slog.Info("Group created", "group_id", group.ID, "members_count", len(members))

	return connect.NewResponse(&api.CreateGroupResponse{
		Group: toAPIGroup(group, members),
	}), nil
}

// GetGroup retrieves a group and its members by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError("get group", err)
	}
	members, err := s.store.ListMembers(ctx, group.ID)
	if err != nil {
		slog.Error("GetGroup failed - could not list members", "group_id", group.ID, "error", err)
		return nil, storageError("list members", err)
	}

	slog.Info("GetGroup successful", "group_id", group.ID, "name", group.Name)

	return connect.NewResponse(&api.GetGroupResponse{
		Group: toAPIGroup(group, members),
	}), nil
}

// ListGroups returns the groups visible to the caller with their stats.
// Anonymous callers see every group.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	slog.Info("ListGroups request received", "user_id", middleware.GetUserID(ctx))

	snaps, err := s.visibleSnapshots(ctx, callerFrom(ctx))
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, storageError("list groups", err)
	}

	summaries := make([]api.GroupSummary, len(snaps))
	for i, snap := range snaps {
		total := decimal.Zero
		for _, e := range snap.Expenses {
			total = total.Add(e.Amount)
		}
		summaries[i] = api.GroupSummary{
			Group:         toAPIGroup(snap.Group, nil),
			MemberCount:   len(snap.Members),
			TotalExpenses: total,
		}
	}

	slog.Info("ListGroups successful", "count", len(summaries))

	return connect.NewResponse(&api.ListGroupsResponse{
		Groups: summaries,
	}), nil
}

// visibleSnapshots returns a snapshot of every group the caller created or
// belongs to, in ListGroups order.
func (s *GroupService) visibleSnapshots(ctx context.Context, c caller) ([]*storage.GroupSnapshot, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, err
	}

	var out []*storage.GroupSnapshot
	for _, g := range groups {
		snap, err := s.store.Snapshot(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		if c.anonymous() || c.matches(g.CreatedBy) || memberOf(c, snap) {
			out = append(out, snap)
		}
	}
	return out, nil
}

func memberOf(c caller, snap *storage.GroupSnapshot) bool {
	for _, m := range snap.Members {
		if c.matches(m.Email) {
			return true
		}
	}
	return false
}

// UpdateGroup renames a group or changes its icon.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	slog.Info("UpdateGroup request received",
		"group_id", req.Msg.GroupID,
		"name", req.Msg.Name,
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("group name is required")
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("UpdateGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError("get group", err)
	}
	group.Name = name
	if req.Msg.Icon != "" {
		group.Icon = req.Msg.Icon
	}

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		slog.Error("UpdateGroup failed", "error", err)
		return nil, storageError("update group", err)
	}

	members, err := s.store.ListMembers(ctx, group.ID)
	if err != nil {
		slog.Error("Failed to fetch members of updated group", "error", err)
		return nil, storageError("list members", err)
	}

	slog.Info("Group updated", "group_id", group.ID)

	return connect.NewResponse(&api.UpdateGroupResponse{
		Group: toAPIGroup(group, members),
	}), nil
}

// DeleteGroup removes a group with its members, expenses and settlements.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if err := s.store.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		slog.Error("DeleteGroup failed", "error", err)
		return nil, storageError("delete group", err)
	}

	slog.Info("Group deleted", "group_id", req.Msg.GroupID)

	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// AddMember adds a member to an existing group.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	slog.Info("AddMember request received", "group_id", req.Msg.GroupID, "name", req.Msg.Name)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("member name is required")
	}

	member := &models.Member{
		GroupID: req.Msg.GroupID,
		Name:    name,
		Email:   strings.ToLower(strings.TrimSpace(req.Msg.Email)),
		Avatar:  req.Msg.Avatar,
	}
	if err := s.store.AddMember(ctx, member); err != nil {
		slog.Error("AddMember failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError("add member", err)
	}

	slog.Info("Member added", "group_id", member.GroupID, "member_id", member.ID)

	return connect.NewResponse(&api.AddMemberResponse{
		Member: toAPIMember(member),
	}), nil
}

// ListMembers lists a group's members in join order.
func (s *GroupService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	slog.Info("ListMembers request received", "group_id", req.Msg.GroupID)

	if _, err := s.store.GetGroup(ctx, req.Msg.GroupID); err != nil {
		slog.Error("ListMembers failed - group not found", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError("get group", err)
	}
	members, err := s.store.ListMembers(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListMembers failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError("list members", err)
	}

	out := make([]api.Member, len(members))
	for i, m := range members {
		out[i] = toAPIMember(m)
	}

	return connect.NewResponse(&api.ListMembersResponse{
		Members: out,
	}), nil
}

// RemoveMember removes a member. Their past expenses and splits stay
// recorded and are reported as dropped by GetGroupBalances.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	slog.Info("RemoveMember request received", "member_id", req.Msg.MemberID)

	if err := s.store.RemoveMember(ctx, req.Msg.MemberID); err != nil {
		slog.Error("RemoveMember failed", "member_id", req.Msg.MemberID, "error", err)
		return nil, storageError("remove member", err)
	}

	slog.Info("Member removed", "member_id", req.Msg.MemberID)

	return connect.NewResponse(&api.RemoveMemberResponse{}), nil
}

// GetGroupBalances computes every member's net balance and the transfers
// that settle them.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("GetGroupBalances request received", "group_id", groupID)

	if groupID == "" {
		return nil, invalidArgument("group_id required")
	}

	result, err := s.ledger.Compute(ctx, groupID)
	if err != nil {
		slog.Error("GetGroupBalances failed", "group_id", groupID, "error", err)
		return nil, storageError("compute balances", err)
	}

	names := snapshotNames(result.Snapshot)

	balances := make([]api.Balance, len(result.Sheet.Balances))
	for i, b := range result.Sheet.Balances {
		balances[i] = api.Balance{
			MemberID:  b.MemberID,
			Name:      names[b.MemberID],
			Amount:    b.Amount,
			TotalPaid: b.TotalPaid,
			TotalOwed: b.TotalOwed,
		}
	}

	transfers := make([]api.Transfer, len(result.Transfers))
	for i, t := range result.Transfers {
		transfers[i] = api.Transfer{
			FromMemberID: t.From,
			FromName:     names[t.From],
			ToMemberID:   t.To,
			ToName:       names[t.To],
			Amount:       t.Amount,
		}
	}

	slog.Info("GetGroupBalances successful",
		"group_id", groupID,
		"members", len(balances),
		"transfers", len(transfers),
	)

	return connect.NewResponse(&api.GetGroupBalancesResponse{
		Balances:      balances,
		Transfers:     transfers,
		DroppedSplits: len(result.Sheet.Dropped),
		Residual:      result.Residual,
		Complete:      result.Complete,
	}), nil
}

// GetCategoryBreakdown totals a group's expenses per category, in category
// table order. Categories without expenses are omitted.
func (s *GroupService) GetCategoryBreakdown(ctx context.Context, req *connect.Request[api.GetCategoryBreakdownRequest]) (*connect.Response[api.GetCategoryBreakdownResponse], error) {
	slog.Info("GetCategoryBreakdown request received", "group_id", req.Msg.GroupID)

	if _, err := s.store.GetGroup(ctx, req.Msg.GroupID); err != nil {
		slog.Error("GetCategoryBreakdown failed - group not found", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError("get group", err)
	}
	expenses, err := s.store.ListExpensesByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetCategoryBreakdown failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError("list expenses", err)
	}

	type bucket struct {
		total decimal.Decimal
		count int
	}
	buckets := make(map[string]*bucket)
	grand := decimal.Zero
	for _, e := range expenses {
		key := e.Category
		if _, ok := models.LookupCategory(key); !ok {
			key = models.CategoryOther
		}
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.total = b.total.Add(e.Amount)
		b.count++
		grand = grand.Add(e.Amount)
	}

	var out []api.CategoryTotal
	for _, c := range models.Categories {
		b, ok := buckets[c.Value]
		if !ok {
			continue
		}
		out = append(out, api.CategoryTotal{
			Category: c.Value,
			Label:    c.Label,
			Icon:     c.Icon,
			Color:    c.Color,
			Total:    b.total,
			Count:    b.count,
		})
	}

	return connect.NewResponse(&api.GetCategoryBreakdownResponse{
		Categories: out,
		Total:      grand,
	}), nil
}

// GetUserStats summarizes the caller's position across their groups.
func (s *GroupService) GetUserStats(ctx context.Context, req *connect.Request[api.GetUserStatsRequest]) (*connect.Response[api.GetUserStatsResponse], error) {
	c := callerFrom(ctx)
	slog.Info("GetUserStats request received", "user_id", c.userID)

	snaps, err := s.visibleSnapshots(ctx, c)
	if err != nil {
		slog.Error("GetUserStats failed", "error", err)
		return nil, storageError("list groups", err)
	}

	// Each goroutine owns its own slot, so no locking is needed.
	results := make([]*LedgerResult, len(snaps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statsConcurrency)
	for i, snap := range snaps {
		g.Go(func() error {
			r, err := s.ledger.compute(gctx, snap)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("GetUserStats failed", "error", err)
		return nil, storageError("compute balances", err)
	}

	resp := &api.GetUserStatsResponse{
		TotalGroups:   len(snaps),
		TotalExpenses: decimal.Zero,
		YouOwe:        decimal.Zero,
		YouAreOwed:    decimal.Zero,
	}
	for i, r := range results {
		for _, e := range snaps[i].Expenses {
			resp.TotalExpenses = resp.TotalExpenses.Add(e.Amount)
		}
		if c.anonymous() {
			continue
		}
		for j, m := range snaps[i].Members {
			if !c.owns(m) {
				continue
			}
			amount := r.Sheet.Balances[j].Amount
			if amount.IsNegative() && !calculator.IsNegligible(amount) {
				resp.YouOwe = resp.YouOwe.Add(amount.Neg())
			} else if amount.IsPositive() && !calculator.IsNegligible(amount) {
				resp.YouAreOwed = resp.YouAreOwed.Add(amount)
			}
			break
		}
	}

	slog.Info("GetUserStats successful", "groups", resp.TotalGroups)

	return connect.NewResponse(resp), nil
}
