// Package enemies implements the enemy resource: per-owner grudge records
// with create, list, partial-update, and delete operations.
//
// Every repository method that reads or writes an existing record takes the
// owner id and scopes the operation to the (id, owner) pair. Ownership is a
// repository invariant, not something handlers check per call site.
package enemies

import (
	"context"

	"github.com/dmitrijs2005/grudgekeeper/internal/server/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Repository interface {
	// Insert stores a new record and returns it with the store-assigned id.
	Insert(ctx context.Context, enemy *models.Enemy) (*models.Enemy, error)

	// FindAllByOwner returns every record owned by ownerID, in no
	// particular order. No matches is an empty slice, not an error.
	FindAllByOwner(ctx context.Context, ownerID string) ([]*models.Enemy, error)

	// UpdateOneByIDAndOwner applies patch to the record matched by
	// (id, ownerID) atomically and returns the post-update record.
	// Zero matches yields common.ErrNotFound.
	UpdateOneByIDAndOwner(ctx context.Context, id primitive.ObjectID, ownerID string, patch models.EnemyPatch) (*models.Enemy, error)

	// DeleteOneByIDAndOwner removes the record matched by (id, ownerID).
	// Zero matches yields common.ErrNotFound.
	DeleteOneByIDAndOwner(ctx context.Context, id primitive.ObjectID, ownerID string) error
}
