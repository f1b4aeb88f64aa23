package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/grudgekeeper/internal/client/api"
	"github.com/dmitrijs2005/grudgekeeper/internal/client/config"
)

// apiClient is the backend surface the CLI needs. The real api.Client
// satisfies it; tests supply a stub.
type apiClient interface {
	IsLoggedIn() bool
	Register(ctx context.Context, username, password string) (string, error)
	CheckCredentials(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	ListEnemies(ctx context.Context) ([]api.Enemy, error)
	AddEnemy(ctx context.Context, name string, grudgeLevel int, description, avatar string) (*api.Enemy, error)
	UpdateEnemy(ctx context.Context, id string, patch api.EnemyPatch) (*api.Enemy, error)
	DeleteEnemy(ctx context.Context, id string) error
	AvatarUploadURL(ctx context.Context) (string, string, error)
	AvatarDownloadURL(ctx context.Context, key string) (string, error)
}

type App struct {
	config   *config.Config
	api      apiClient
	userName string
	reader   *bufio.Reader
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		api:    api.NewClient(c.ServerEndpointAddr, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
	}
}

func (a *App) isLoggedIn() bool {
	return a.api.IsLoggedIn()
}

func (a *App) getStatus() string {
	if a.userName != "" {
		return fmt.Sprintf("(%s)", a.userName)
	}
	return ""
}
