package refreshtokens

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/grudgekeeper/internal/common"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/models"
)

// MemoryRepository is the in-memory token store used by tests and by the
// "mem" storage mode.
type MemoryRepository struct {
	mu      sync.RWMutex
	byToken map[string]*models.RefreshToken
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byToken: make(map[string]*models.RefreshToken)}
}

func (r *MemoryRepository) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byToken[token] = &models.RefreshToken{
		Token:   token,
		UserID:  userID,
		Expires: time.Now().Add(validity),
	}
	return nil
}

func (r *MemoryRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.byToken[token]
	if !ok {
		return nil, common.ErrNotFound
	}

	copied := *doc
	return &copied, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byToken[token]; !ok {
		return common.ErrNotFound
	}
	delete(r.byToken, token)
	return nil
}
