// Package server initializes and runs the Grudgekeeper server: it wires the
// repository manager, the domain services and the HTTP endpoint, and handles
// graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/grudgekeeper/internal/logging"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/avatars"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/config"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/enemies"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/shared/db"
	"github.com/dmitrijs2005/grudgekeeper/internal/server/users"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	manager       db.RepositoryManager
	userService   *users.Service
	enemyService  *enemies.Service
	avatarService *avatars.Service
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	manager, err := newRepositoryManager(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := manager.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("index init error: %w", err)
	}

	return &App{
		config:        cfg,
		logger:        logger,
		manager:       manager,
		userService:   users.NewService(manager.Users(), manager.RefreshTokens(), cfg),
		enemyService:  enemies.NewService(manager.Enemies()),
		avatarService: avatars.NewService(cfg),
	}, nil
}

func newRepositoryManager(ctx context.Context, cfg *config.Config) (db.RepositoryManager, error) {
	switch cfg.StorageMode {
	case config.StorageModeMemory:
		return db.NewInMemoryRepositoryManager(), nil
	case config.StorageModeMongo:
		return db.NewMongoRepositoryManager(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown storage mode: %s", cfg.StorageMode)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger,
		app.userService, app.enemyService, app.avatarService, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.manager.Close(context.Background()); err != nil {
		app.logger.Error(ctx, "error closing storage", "error", err)
	}
}
