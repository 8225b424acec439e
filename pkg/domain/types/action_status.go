package types

import "fmt"

// ActionStatus represents the workflow status of an action.
// The canonical set is closed; legacy values still present in stored
// rows are accepted on read and normalized to a canonical value.
type ActionStatus string

const (
	ActionStatusUnstarted  ActionStatus = "Não Iniciado"
	ActionStatusInProgress ActionStatus = "Em Andamento"
	ActionStatusFinished   ActionStatus = "Finalizado"
	ActionStatusReturned   ActionStatus = "Devolvido"
)

// Legacy status values written by earlier releases. Approval and filing
// are tracked on dedicated fields now, so these all normalize to
// ActionStatusFinished.
const (
	ActionStatusLegacyConcluded ActionStatus = "Concluído"
	ActionStatusLegacyApproved  ActionStatus = "Aprovado"
	ActionStatusLegacyFiled     ActionStatus = "Protocolado"
)

// AllActionStatuses returns all canonical action statuses
func AllActionStatuses() []ActionStatus {
	return []ActionStatus{
		ActionStatusUnstarted,
		ActionStatusInProgress,
		ActionStatusFinished,
		ActionStatusReturned,
	}
}

// IsValid checks if the action status is a canonical value
func (s ActionStatus) IsValid() bool {
	switch s {
	case ActionStatusUnstarted,
		ActionStatusInProgress,
		ActionStatusFinished,
		ActionStatusReturned:
		return true
	default:
		return false
	}
}

// Normalize maps legacy and empty values onto the canonical set.
// Unknown values are returned unchanged so callers can still detect them.
func (s ActionStatus) Normalize() ActionStatus {
	switch s {
	case "":
		return ActionStatusUnstarted
	case ActionStatusLegacyConcluded,
		ActionStatusLegacyApproved,
		ActionStatusLegacyFiled:
		return ActionStatusFinished
	default:
		return s
	}
}

// StoredValues returns every raw value that stored rows may carry for
// this canonical status. Legacy rows are normalized on read, never
// rewritten, so repository queries must match all of them.
func (s ActionStatus) StoredValues() []ActionStatus {
	switch s.Normalize() {
	case ActionStatusUnstarted:
		return []ActionStatus{ActionStatusUnstarted, ""}
	case ActionStatusFinished:
		return []ActionStatus{
			ActionStatusFinished,
			ActionStatusLegacyConcluded,
			ActionStatusLegacyApproved,
			ActionStatusLegacyFiled,
		}
	default:
		return []ActionStatus{s.Normalize()}
	}
}

// IsCompletedLike reports whether a transition into this status should
// stamp the action's completion timestamp.
func (s ActionStatus) IsCompletedLike() bool {
	return s.Normalize() == ActionStatusFinished
}

// String returns the string representation of the action status
func (s ActionStatus) String() string {
	return string(s)
}

// ParseActionStatus parses a string into a canonical ActionStatus.
// Legacy values are accepted and normalized.
func ParseActionStatus(s string) (ActionStatus, error) {
	status := ActionStatus(s).Normalize()
	if !status.IsValid() {
		return "", fmt.Errorf("invalid action status: %s", s)
	}
	return status, nil
}
