package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/grudgekeeper/internal/common"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository is an in-memory credential store used by tests and by
// the "mem" storage mode. IDs are real ObjectIDs so the rest of the stack
// behaves identically to the Mongo-backed repository.
type MemoryRepository struct {
	mu         sync.RWMutex
	byUsername map[string]*models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byUsername: make(map[string]*models.User)}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[user.Username]; ok {
		return nil, common.ErrConflict
	}

	stored := *user
	stored.ID = primitive.NewObjectID()
	stored.CreatedAt = time.Now()
	r.byUsername[stored.Username] = &stored

	copied := stored
	return &copied, nil
}

func (r *MemoryRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byUsername[username]
	if !ok {
		return nil, common.ErrNotFound
	}

	copied := *user
	return &copied, nil
}
