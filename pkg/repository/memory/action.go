package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/litigio/tramita/pkg/domain/model"
	"github.com/litigio/tramita/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type actionRepository struct {
	mu      sync.RWMutex
	actions map[string]map[int64]*model.Action
	nextID  map[string]int64
}

func newActionRepository() *actionRepository {
	return &actionRepository{
		actions: make(map[string]map[int64]*model.Action),
		nextID:  make(map[string]int64),
	}
}

func (r *actionRepository) ensureTenant(tenantID string) {
	if _, exists := r.actions[tenantID]; !exists {
		r.actions[tenantID] = make(map[int64]*model.Action)
	}
	if _, exists := r.nextID[tenantID]; !exists {
		r.nextID[tenantID] = 1
	}
}

func (r *actionRepository) Create(ctx context.Context, tenantID string, action *model.Action) (*model.Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureTenant(tenantID)

	now := time.Now().UTC()
	created := action.Clone()
	created.ID = r.nextID[tenantID]
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID[tenantID]++

	r.actions[tenantID][created.ID] = created
	return created.Clone(), nil
}

func (r *actionRepository) Get(ctx context.Context, tenantID string, id int64) (*model.Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tenant, exists := r.actions[tenantID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "action not found", goerr.V("id", id))
	}

	action, exists := tenant[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "action not found", goerr.V("id", id))
	}

	return action.Clone(), nil
}

func (r *actionRepository) List(ctx context.Context, tenantID string) ([]*model.Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tenant, exists := r.actions[tenantID]
	if !exists {
		return []*model.Action{}, nil
	}

	actions := make([]*model.Action, 0, len(tenant))
	for _, action := range tenant {
		actions = append(actions, action.Clone())
	}

	return actions, nil
}

func (r *actionRepository) ListByStatus(ctx context.Context, tenantID string, statuses []types.ActionStatus) ([]*model.Action, error) {
	wanted := make(map[types.ActionStatus]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}
	return r.listFiltered(tenantID, func(a *model.Action) bool {
		return wanted[a.Status]
	}), nil
}

func (r *actionRepository) ListByAssignee(ctx context.Context, tenantID string, assigneeID int64) ([]*model.Action, error) {
	return r.listFiltered(tenantID, func(a *model.Action) bool {
		return a.AssigneeID == assigneeID
	}), nil
}

// listFiltered matches the query backend's ordering: creation time
// ascending, ID as a tiebreaker.
func (r *actionRepository) listFiltered(tenantID string, keep func(*model.Action) bool) []*model.Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	actions := make([]*model.Action, 0)
	for _, action := range r.actions[tenantID] {
		if keep(action) {
			actions = append(actions, action.Clone())
		}
	}
	sort.Slice(actions, func(i, j int) bool {
		if actions[i].CreatedAt.Equal(actions[j].CreatedAt) {
			return actions[i].ID < actions[j].ID
		}
		return actions[i].CreatedAt.Before(actions[j].CreatedAt)
	})
	return actions
}

func (r *actionRepository) Update(ctx context.Context, tenantID string, action *model.Action) (*model.Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tenant, exists := r.actions[tenantID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "action not found", goerr.V("id", action.ID))
	}

	existing, exists := tenant[action.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "action not found", goerr.V("id", action.ID))
	}

	updated := action.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.actions[tenantID][updated.ID] = updated
	return updated.Clone(), nil
}
