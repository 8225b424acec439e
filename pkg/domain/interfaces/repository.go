package interfaces

import (
	"context"

	"github.com/litigio/tramita/pkg/domain/model/auth"
)

// Repository defines the interface for data persistence. Every method
// of the sub-repositories is scoped by tenant ID; implementations must
// never let data cross tenant boundaries.
type Repository interface {
	Action() ActionRepository
	Client() ClientRepository
	User() UserRepository

	// Auth methods
	PutToken(ctx context.Context, token *auth.Token) error
	GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error)
	DeleteToken(ctx context.Context, tokenID auth.TokenID) error

	Close() error
}
