package models

// DefaultGroupIcon is used when a group is created without an icon.
const DefaultGroupIcon = "🏠"

// Group represents a set of people who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Goa Trip").
	Name string

	// Icon is a short emoji shown next to the group name.
	Icon string

	// CreatedBy is the caller identity that created the group.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Member is a participant of one group.
// Members are immutable once created apart from removal.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	// GroupID is the group this member belongs to.
	GroupID string

	// Name is the display name of the member.
	Name string

	// Email is an optional contact reference.
	Email string

	// Avatar is an optional avatar URL or initials.
	Avatar string

	// JoinedAt is the Unix timestamp when the member was added.
	// Members are listed in join order, which is also the order used to
	// hand out rounding remainders in equal splits.
	JoinedAt int64
}
