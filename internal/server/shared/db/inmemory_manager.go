package db

import (
	"context"

	"github.com/dmitrijs2005/grudgekeeper/internal/server/enemies"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/refreshtokens"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/users"
)

type InMemoryRepositoryManager struct {
	users         users.Repository
	enemies       enemies.Repository
	refreshTokens refreshtokens.Repository
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return &InMemoryRepositoryManager{
		users:         users.NewMemoryRepository(),
		enemies:       enemies.NewMemoryRepository(),
		refreshTokens: refreshtokens.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Enemies() enemies.Repository {
	return m.enemies
}

func (m *InMemoryRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return m.refreshTokens
}

func (m *InMemoryRepositoryManager) EnsureIndexes(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Close(ctx context.Context) error {
	return nil
}
