package models

import "fmt"

// SplitMode selects the balance formula for a group.
type SplitMode string

const (
	// SplitModeSplitwise gives every member an equal share of the group's
	// total spend, regardless of which expenses they took part in.
	SplitModeSplitwise SplitMode = "splitwise"

	// SplitModeTricount charges each member the explicit per-expense
	// share amounts recorded at expense creation time.
	SplitModeTricount SplitMode = "tricount"
)

// ParseSplitMode validates a raw split mode string.
func ParseSplitMode(s string) (SplitMode, error) {
	switch SplitMode(s) {
	case SplitModeSplitwise, SplitModeTricount:
		return SplitMode(s), nil
	}
	return "", NewValidationError(fmt.Sprintf("invalid split mode %q", s))
}

// DefaultGroupIcon is used when the client does not choose an icon.
const DefaultGroupIcon = "others"

// Group represents an expense-sharing group.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// Description is an optional free-form description.
	Description string

	// Icon is the icon slug chosen for the group, DefaultGroupIcon if unset.
	Icon string

	// CreatedBy is the user ID of the group creator.
	CreatedBy string

	// SplitMode determines which balance formula applies to this group.
	SplitMode SplitMode

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Member is one roster entry of a group.
type Member struct {
	GroupID string

	// UserID is the opaque identifier of the user; profile data beyond
	// DisplayName lives outside this system.
	UserID string

	DisplayName string

	// JoinedAt is the Unix timestamp when the user joined the group.
	JoinedAt int64
}
