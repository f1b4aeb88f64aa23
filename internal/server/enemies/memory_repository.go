package enemies

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/grudgekeeper/internal/common"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository keeps enemy records in a map guarded by a mutex. It is
// used by tests and by the "mem" storage mode, and mirrors the Mongo
// repository's contract including ObjectID ids.
type MemoryRepository struct {
	mu   sync.RWMutex
	byID map[primitive.ObjectID]*models.Enemy
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[primitive.ObjectID]*models.Enemy)}
}

func (r *MemoryRepository) Insert(ctx context.Context, enemy *models.Enemy) (*models.Enemy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *enemy
	stored.ID = primitive.NewObjectID()
	r.byID[stored.ID] = &stored

	copied := stored
	return &copied, nil
}

func (r *MemoryRepository) FindAllByOwner(ctx context.Context, ownerID string) ([]*models.Enemy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*models.Enemy{}
	for _, e := range r.byID {
		if e.OwnerID == ownerID {
			copied := *e
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *MemoryRepository) UpdateOneByIDAndOwner(ctx context.Context, id primitive.ObjectID, ownerID string, patch models.EnemyPatch) (*models.Enemy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok || e.OwnerID != ownerID {
		return nil, common.ErrNotFound
	}

	if patch.Name != nil {
		e.Name = *patch.Name
	}
	if patch.GrudgeLevel != nil {
		e.GrudgeLevel = *patch.GrudgeLevel
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.Avatar != nil {
		e.Avatar = *patch.Avatar
	}

	copied := *e
	return &copied, nil
}

func (r *MemoryRepository) DeleteOneByIDAndOwner(ctx context.Context, id primitive.ObjectID, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok || e.OwnerID != ownerID {
		return common.ErrNotFound
	}

	delete(r.byID, id)
	return nil
}
