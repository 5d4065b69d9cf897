// Package cli provides the pep command line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/bnema/pep/internal/build"
	"github.com/bnema/pep/internal/cli/styles"
	"github.com/bnema/pep/internal/config"
	"github.com/bnema/pep/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info

	// Context with logger
	ctx context.Context
}

// NewApp creates a new CLI application with all dependencies.
func NewApp() (*App, error) {
	logger := logging.NewFromEnv()
	ctx := logging.WithContext(context.Background(), logger)

	mgr, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("initialize config: %w", err)
	}
	if err := mgr.Load(ctx); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &App{
		Config: mgr,
		Theme:  styles.NewTheme(),
		ctx:    ctx,
	}, nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}
