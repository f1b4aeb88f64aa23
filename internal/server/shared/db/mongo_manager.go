package db

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/grudgekeeper/internal/server/enemies"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/refreshtokens"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

type MongoRepositoryManager struct {
	client        *mongo.Client
	users         *users.MongoRepository
	enemies       *enemies.MongoRepository
	refreshTokens *refreshtokens.MongoRepository
}

// NewMongoRepositoryManager connects to the document store once, verifies
// the connection with a ping, and builds the repositories on top of the
// shared client. The client is a connection pool; it is created here and
// injected everywhere else, never re-established per request.
func NewMongoRepositoryManager(ctx context.Context, uri, database string) (RepositoryManager, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("db connect error: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	d := client.Database(database)

	return &MongoRepositoryManager{
		client:        client,
		users:         users.NewMongoRepository(d),
		enemies:       enemies.NewMongoRepository(d),
		refreshTokens: refreshtokens.NewMongoRepository(d),
	}, nil
}

func (m *MongoRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MongoRepositoryManager) Enemies() enemies.Repository {
	return m.enemies
}

func (m *MongoRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return m.refreshTokens
}

func (m *MongoRepositoryManager) EnsureIndexes(ctx context.Context) error {
	return m.users.EnsureIndexes(ctx)
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
