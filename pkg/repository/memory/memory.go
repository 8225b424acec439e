package memory

import (
	"github.com/litigio/tramita/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is the base error for lookups that miss
var ErrNotFound = goerr.New("not found")

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is an in-memory repository for development and tests
type Memory struct {
	action *actionRepository
	client *clientRepository
	user   *userRepository
	tokens *tokenStore
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		action: newActionRepository(),
		client: newClientRepository(),
		user:   newUserRepository(),
		tokens: newTokenStore(),
	}
}

func (m *Memory) Action() interfaces.ActionRepository {
	return m.action
}

func (m *Memory) Client() interfaces.ClientRepository {
	return m.client
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) Close() error {
	return nil
}
