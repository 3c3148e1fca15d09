package models

// UnassignedPolicy decides what an item with an empty owed-group means.
type UnassignedPolicy string

const (
	// ShareWithEveryone divides unassigned items among all participants.
	ShareWithEveryone UnassignedPolicy = "share_with_everyone"

	// LeaveUnassigned excludes unassigned items from every balance until
	// someone is assigned to them.
	LeaveUnassigned UnassignedPolicy = "leave_unassigned"
)

// Valid reports whether p is a known policy.
func (p UnassignedPolicy) Valid() bool {
	return p == ShareWithEveryone || p == LeaveUnassigned
}

// Session is the persisted state of one split: who is involved and what was spent.
// Balances and transfers are recomputed from it and not stored.
type Session struct {
	// ID is the unique identifier for the session (UUID format).
	ID string `json:"id" yaml:"id"`

	// Title is the display name (e.g., "Friday dinner").
	Title string `json:"title" yaml:"title"`

	// OwnerID is the user that created the session. Empty for offline sessions.
	OwnerID string `json:"owner_id,omitempty" yaml:"owner_id,omitempty"`

	// Participants in display order. The order is the tie-break for transfers.
	Participants []Participant `json:"participants" yaml:"participants"`

	// Expenses in insertion order.
	Expenses []Expense `json:"expenses" yaml:"expenses"`

	// Policy applied to items nobody has been assigned to.
	Policy UnassignedPolicy `json:"policy,omitempty" yaml:"policy,omitempty"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt int64 `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}
