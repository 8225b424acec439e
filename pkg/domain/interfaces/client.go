package interfaces

import (
	"context"

	"github.com/litigio/tramita/pkg/domain/model"
)

// ClientRepository defines the interface for Client data access.
// Full client CRUD lives outside the core; Put exists for seeding and
// tests.
type ClientRepository interface {
	Put(ctx context.Context, tenantID string, client *model.Client) (*model.Client, error)
	Get(ctx context.Context, tenantID string, id int64) (*model.Client, error)
}

// UserRepository defines the interface for User data access. The
// lifecycle engine resolves assignees by ID or exact name within the
// tenant.
type UserRepository interface {
	Put(ctx context.Context, tenantID string, user *model.User) (*model.User, error)
	Get(ctx context.Context, tenantID string, id int64) (*model.User, error)
	FindByName(ctx context.Context, tenantID string, name string) (*model.User, error)
}
