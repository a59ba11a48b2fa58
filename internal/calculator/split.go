package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	// ErrInvalidSplit is returned when split parameters cannot be resolved.
	ErrInvalidSplit = errors.New("invalid split")
	// ErrUnknownSplitMethod is returned for a split method with no resolver.
	ErrUnknownSplitMethod = errors.New("unknown split method")
)

// ShareInput is a caller-supplied share: an amount for custom splits or a
// percentage for percentage splits.
type ShareInput struct {
	MemberID string
	Value    decimal.Decimal
}

// SplitRequest carries everything needed to resolve an expense into splits.
type SplitRequest struct {
	Method models.SplitMethod
	Amount decimal.Decimal

	// Members are the group's member IDs in join order.
	Members []string

	// Participants restricts an equal split to a subset of Members.
	// Empty means every member.
	Participants []string

	// Shares are used by custom and percentage splits.
	Shares []ShareInput
}

// ResolveSplits turns a split method and its parameters into concrete
// per-member amounts. It runs once when an expense is created or replaced.
//
// Amounts are resolved in whole cents. Where a division leaves a remainder,
// the leftover cents go one each to the first participants in order (join
// order for equal splits, request order for percentage splits), so the
// resolved splits always sum to the expense amount.
func ResolveSplits(req SplitRequest) ([]models.Split, error) {
	if err := ValidateAmount(req.Amount); err != nil {
		return nil, err
	}

	switch req.Method {
	case models.SplitEqual:
		return resolveEqual(req)
	case models.SplitCustom:
		return resolveCustom(req)
	case models.SplitPercentage:
		return resolvePercentage(req)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSplitMethod, req.Method)
	}
}

func resolveEqual(req SplitRequest) ([]models.Split, error) {
	participants := req.Members
	if len(req.Participants) > 0 {
		wanted := make(map[string]bool, len(req.Participants))
		for _, id := range req.Participants {
			wanted[id] = true
		}
		members := memberSet(req.Members)
		for id := range wanted {
			if !members[id] {
				return nil, fmt.Errorf("%w: participant %s is not a group member", ErrInvalidSplit, id)
			}
		}
		participants = make([]string, 0, len(wanted))
		for _, id := range req.Members {
			if wanted[id] {
				participants = append(participants, id)
				delete(wanted, id)
			}
		}
	}
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: must have at least one participant", ErrInvalidSplit)
	}

	cents := toCents(req.Amount)
	n := int64(len(participants))
	base, rem := cents/n, cents%n

	splits := make([]models.Split, len(participants))
	for i, id := range participants {
		c := base
		if int64(i) < rem {
			c++
		}
		splits[i] = models.Split{MemberID: id, Amount: fromCents(c)}
	}
	return splits, nil
}

func resolveCustom(req SplitRequest) ([]models.Split, error) {
	if err := checkShares(req.Members, req.Shares); err != nil {
		return nil, err
	}

	total := decimal.Zero
	splits := make([]models.Split, len(req.Shares))
	for i, s := range req.Shares {
		if err := ValidateAmount(s.Value); err != nil {
			return nil, fmt.Errorf("%w: share for %s: %v", ErrInvalidSplit, s.MemberID, err)
		}
		total = total.Add(s.Value)
		splits[i] = models.Split{MemberID: s.MemberID, Amount: s.Value}
	}

	if diff := total.Sub(req.Amount); !IsNegligible(diff) {
		return nil, fmt.Errorf("%w: custom shares sum to %s, expense amount is %s", ErrInvalidSplit, total, req.Amount)
	}
	return splits, nil
}

func resolvePercentage(req SplitRequest) ([]models.Split, error) {
	if err := checkShares(req.Members, req.Shares); err != nil {
		return nil, err
	}

	totalPct := decimal.Zero
	for _, s := range req.Shares {
		if s.Value.IsNegative() {
			return nil, fmt.Errorf("%w: percentage for %s is negative", ErrInvalidSplit, s.MemberID)
		}
		totalPct = totalPct.Add(s.Value)
	}
	if !IsNegligible(totalPct.Sub(hundred)) {
		return nil, fmt.Errorf("%w: percentages sum to %s, want 100", ErrInvalidSplit, totalPct)
	}

	cents := make([]int64, len(req.Shares))
	var assigned int64
	for i, s := range req.Shares {
		cents[i] = toCents(req.Amount.Mul(s.Value).Div(hundred).Truncate(2))
		assigned += cents[i]
	}

	// Hand out what truncation left over; skip zero-percent shares so a
	// member who owes nothing never picks up a stray cent.
	rem := toCents(req.Amount) - assigned
	for i := 0; rem != 0; i = (i + 1) % len(cents) {
		if req.Shares[i].Value.IsZero() || (rem < 0 && cents[i] == 0) {
			continue
		}
		if rem > 0 {
			cents[i]++
			rem--
		} else {
			cents[i]--
			rem++
		}
	}

	splits := make([]models.Split, len(req.Shares))
	for i, s := range req.Shares {
		splits[i] = models.Split{MemberID: s.MemberID, Amount: fromCents(cents[i])}
	}
	return splits, nil
}

// checkShares verifies that shares are non-empty, unique and reference group members.
func checkShares(members []string, shares []ShareInput) error {
	if len(shares) == 0 {
		return fmt.Errorf("%w: at least one share is required", ErrInvalidSplit)
	}
	valid := memberSet(members)
	seen := make(map[string]bool, len(shares))
	for _, s := range shares {
		if !valid[s.MemberID] {
			return fmt.Errorf("%w: member %s is not a group member", ErrInvalidSplit, s.MemberID)
		}
		if seen[s.MemberID] {
			return fmt.Errorf("%w: duplicate share for member %s", ErrInvalidSplit, s.MemberID)
		}
		seen[s.MemberID] = true
	}
	return nil
}

func memberSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
