package interfaces

import (
	"context"

	"github.com/litigio/tramita/pkg/domain/model"
	"github.com/litigio/tramita/pkg/domain/types"
)

// ActionRepository defines the interface for Action data access.
// Actions are never physically deleted by the core; terminal states are
// expressed through the approval timestamp and filed flag.
type ActionRepository interface {
	// Create creates a new action with an auto-generated, tenant-scoped ID
	Create(ctx context.Context, tenantID string, action *model.Action) (*model.Action, error)

	// Get retrieves an action by ID
	Get(ctx context.Context, tenantID string, id int64) (*model.Action, error)

	// List retrieves all actions of the tenant
	List(ctx context.Context, tenantID string) ([]*model.Action, error)

	// ListByStatus retrieves actions whose stored status is one of the
	// given raw values, ordered by creation time. Callers pass the
	// StoredValues of a canonical status so legacy rows match too.
	ListByStatus(ctx context.Context, tenantID string, statuses []types.ActionStatus) ([]*model.Action, error)

	// ListByAssignee retrieves the actions assigned to the given user,
	// ordered by creation time. assigneeID must be a real user ID;
	// zero means unassigned and is not a queryable identity.
	ListByAssignee(ctx context.Context, tenantID string, assigneeID int64) ([]*model.Action, error)

	// Update replaces an existing action as a single atomic write
	Update(ctx context.Context, tenantID string, action *model.Action) (*model.Action, error)
}
