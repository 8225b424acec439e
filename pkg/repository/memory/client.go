package memory

import (
	"context"
	"sync"
	"time"

	"github.com/litigio/tramita/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type clientRepository struct {
	mu      sync.RWMutex
	clients map[string]map[int64]*model.Client
	nextID  map[string]int64
}

func newClientRepository() *clientRepository {
	return &clientRepository{
		clients: make(map[string]map[int64]*model.Client),
		nextID:  make(map[string]int64),
	}
}

func (r *clientRepository) Put(ctx context.Context, tenantID string, client *model.Client) (*model.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[tenantID]; !exists {
		r.clients[tenantID] = make(map[int64]*model.Client)
		r.nextID[tenantID] = 1
	}

	now := time.Now().UTC()
	stored := *client
	if stored.ID == 0 {
		stored.ID = r.nextID[tenantID]
		r.nextID[tenantID]++
		stored.CreatedAt = now
	} else if existing, ok := r.clients[tenantID][stored.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
		if stored.ID >= r.nextID[tenantID] {
			r.nextID[tenantID] = stored.ID + 1
		}
	}
	stored.UpdatedAt = now

	r.clients[tenantID][stored.ID] = &stored
	result := stored
	return &result, nil
}

func (r *clientRepository) Get(ctx context.Context, tenantID string, id int64) (*model.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tenant, exists := r.clients[tenantID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "client not found", goerr.V("id", id))
	}

	client, exists := tenant[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "client not found", goerr.V("id", id))
	}

	result := *client
	return &result, nil
}
