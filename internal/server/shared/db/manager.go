// Package db wires repositories to their backing store. The Mongo-backed
// manager owns the single shared client created at process start; the
// in-memory manager backs tests and the "mem" storage mode.
package db

import (
	"context"

	"github.com/dmitrijs2005/grudgekeeper/internal/server/enemies"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/refreshtokens"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/users"
)

type RepositoryManager interface {
	Users() users.Repository
	Enemies() enemies.Repository
	RefreshTokens() refreshtokens.Repository

	// EnsureIndexes creates storage-level constraints (e.g. the unique
	// username index). Idempotent.
	EnsureIndexes(ctx context.Context) error

	// Close releases the underlying client.
	Close(ctx context.Context) error
}
