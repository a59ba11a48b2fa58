package service

import (
	"strings"

	"github.com/mmynk/splitledger/internal/api"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

func toAPIGroup(g *models.Group, members []*models.Member) api.Group {
	out := api.Group{
		ID:        g.ID,
		Name:      g.Name,
		Icon:      g.Icon,
		CreatedBy: g.CreatedBy,
		CreatedAt: g.CreatedAt,
	}
	for _, m := range members {
		out.Members = append(out.Members, toAPIMember(m))
	}
	return out
}

func toAPIMember(m *models.Member) api.Member {
	return api.Member{
		ID:       m.ID,
		GroupID:  m.GroupID,
		Name:     m.Name,
		Email:    m.Email,
		Avatar:   m.Avatar,
		JoinedAt: m.JoinedAt,
	}
}

// toAPIExpense converts an expense; names resolves member IDs and may miss
// removed members.
func toAPIExpense(e *models.Expense, names map[string]string) api.Expense {
	out := api.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      e.Amount,
		Category:    e.Category,
		PaidBy:      e.PaidBy,
		PaidByName:  names[e.PaidBy],
		SplitMethod: string(e.SplitMethod),
		Splits:      make([]api.Split, len(e.Splits)),
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
	}
	for i, s := range e.Splits {
		out.Splits[i] = api.Split{MemberID: s.MemberID, MemberName: names[s.MemberID], Amount: s.Amount}
	}
	return out
}

func toAPISettlement(s *models.Settlement) api.Settlement {
	return api.Settlement{
		ID:           s.ID,
		GroupID:      s.GroupID,
		FromMemberID: s.FromMemberID,
		ToMemberID:   s.ToMemberID,
		Amount:       s.Amount,
		IsSettled:    s.IsSettled,
		SettledAt:    s.SettledAt,
		CreatedAt:    s.CreatedAt,
	}
}

func memberNames(members []*models.Member) map[string]string {
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}
	return names
}

func snapshotNames(snap *storage.GroupSnapshot) map[string]string {
	names := make(map[string]string, len(snap.Members))
	for _, m := range snap.Members {
		names[m.ID] = m.Name
	}
	return names
}

// caller is the identity a request was made with. Both fields may be empty.
type caller struct {
	userID string
	email  string
}

func (c caller) anonymous() bool {
	return c.userID == "" && c.email == ""
}

// matches reports whether value names the caller.
func (c caller) matches(value string) bool {
	if value == "" {
		return false
	}
	return value == c.userID || strings.EqualFold(value, c.email)
}

// owns reports whether the caller is the member m.
func (c caller) owns(m models.Member) bool {
	return c.matches(m.Email) || c.matches(m.Name)
}
