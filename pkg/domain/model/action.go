package model

import (
	"time"

	"github.com/litigio/tramita/pkg/domain/types"
)

// Action represents a legal task tracked through the workflow.
// IDs are unique only within a tenant.
type Action struct {
	ID         int64
	ClientID   int64 // Required: every action belongs to a client
	Title      string
	Complexity types.Complexity
	Status     types.ActionStatus
	AssigneeID int64 // 0 means unassigned
	CreatorID  int64 // 0 means created by the system

	// ApprovedAt marks the terminal "approved" sub-state. Its presence,
	// not a boolean, is what hides the action from the active board.
	// Cleared only by an explicit return or unfile.
	ApprovedAt *time.Time

	// Filed is orthogonal to Status and only reachable while ApprovedAt
	// is set.
	Filed bool

	// ReviewComment is the free-text comment left by a reviewer when
	// returning the action.
	ReviewComment string

	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Approved reports whether the action carries an approval timestamp.
func (a *Action) Approved() bool {
	return a.ApprovedAt != nil
}

// Assigned reports whether the action has an assignee.
func (a *Action) Assigned() bool {
	return a.AssigneeID != 0
}

// Clone returns a deep copy of the action.
func (a *Action) Clone() *Action {
	clone := *a
	if a.ApprovedAt != nil {
		t := *a.ApprovedAt
		clone.ApprovedAt = &t
	}
	if a.CompletedAt != nil {
		t := *a.CompletedAt
		clone.CompletedAt = &t
	}
	return &clone
}
