package enemies

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/grudgekeeper/internal/common"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Grudge level bounds. Creation only requires the field to be present;
// the range is enforced on the update path.
const (
	GrudgeLevelMin = 1
	GrudgeLevelMax = 10
)

// Service validates enemy operations and delegates persistence to the
// repository. Callers supply the owner id taken from the authenticated
// session; the service never trusts an owner id from a request body.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every enemy owned by ownerID.
func (s *Service) List(ctx context.Context, ownerID string) ([]*models.Enemy, error) {
	return s.repo.FindAllByOwner(ctx, ownerID)
}

// Create validates that name and grudgeLevel are present and stores a new
// record owned by ownerID. grudgeLevel is a pointer so that an absent JSON
// field is distinguishable from a zero.
func (s *Service) Create(ctx context.Context, ownerID, name string, grudgeLevel *int, description, avatar string) (*models.Enemy, error) {
	if name == "" || grudgeLevel == nil {
		return nil, fmt.Errorf("%w: missing required fields: name, grudgeLevel", common.ErrValidation)
	}

	enemy := &models.Enemy{
		OwnerID:     ownerID,
		Name:        name,
		GrudgeLevel: *grudgeLevel,
		Description: description,
		Avatar:      avatar,
	}

	return s.repo.Insert(ctx, enemy)
}

// Update applies a partial update to the record matched by (id, ownerID).
// The patch is an allow-list: only name, grudgeLevel, description, and
// avatar can change, and set fields are validated before the merge.
func (s *Service) Update(ctx context.Context, ownerID, id string, patch models.EnemyPatch) (*models.Enemy, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: no update data provided", common.ErrValidation)
	}
	if patch.Name != nil && *patch.Name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", common.ErrValidation)
	}
	if patch.GrudgeLevel != nil && (*patch.GrudgeLevel < GrudgeLevelMin || *patch.GrudgeLevel > GrudgeLevelMax) {
		return nil, fmt.Errorf("%w: grudgeLevel must be between %d and %d", common.ErrValidation, GrudgeLevelMin, GrudgeLevelMax)
	}

	return s.repo.UpdateOneByIDAndOwner(ctx, oid, ownerID, patch)
}

// Delete removes the record matched by (id, ownerID).
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	return s.repo.DeleteOneByIDAndOwner(ctx, oid, ownerID)
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: missing or invalid id", common.ErrValidation)
	}
	return oid, nil
}
