// Package users implements the credential store: persistence of username +
// hashed password pairs and the authentication flows built on top of them.
package users

import (
	"context"

	"github.com/dmitrijs2005/grudgekeeper/internal/server/models"
)

type Repository interface {
	// Create inserts a new credential record and returns it with the
	// store-assigned id. A username collision yields common.ErrConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// FindByUsername returns the record for username or common.ErrNotFound.
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}
