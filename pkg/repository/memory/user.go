package memory

import (
	"context"
	"sync"
	"time"

	"github.com/litigio/tramita/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type userRepository struct {
	mu     sync.RWMutex
	users  map[string]map[int64]*model.User
	nextID map[string]int64
}

func newUserRepository() *userRepository {
	return &userRepository{
		users:  make(map[string]map[int64]*model.User),
		nextID: make(map[string]int64),
	}
}

func (r *userRepository) Put(ctx context.Context, tenantID string, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[tenantID]; !exists {
		r.users[tenantID] = make(map[int64]*model.User)
		r.nextID[tenantID] = 1
	}

	now := time.Now().UTC()
	stored := *user
	if stored.ID == 0 {
		stored.ID = r.nextID[tenantID]
		r.nextID[tenantID]++
		stored.CreatedAt = now
	} else if existing, ok := r.users[tenantID][stored.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
		if stored.ID >= r.nextID[tenantID] {
			r.nextID[tenantID] = stored.ID + 1
		}
	}
	stored.UpdatedAt = now

	r.users[tenantID][stored.ID] = &stored
	result := stored
	return &result, nil
}

func (r *userRepository) Get(ctx context.Context, tenantID string, id int64) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tenant, exists := r.users[tenantID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
	}

	user, exists := tenant[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
	}

	result := *user
	return &result, nil
}

func (r *userRepository) FindByName(ctx context.Context, tenantID string, name string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tenant, exists := r.users[tenantID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("name", name))
	}

	for _, user := range tenant {
		if user.Name == name {
			result := *user
			return &result, nil
		}
	}

	return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("name", name))
}
