package cli

import (
	"context"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/application"
	"github.com/felixgeelhaar/taskmatch/internal/allocation/infrastructure/persistence"
	"github.com/felixgeelhaar/taskmatch/pkg/observability"
)

// Seeder loads a team fixture into storage.
type Seeder interface {
	Seed(ctx context.Context, path string) (*persistence.SeedResult, error)
}

// App holds the CLI application dependencies.
type App struct {
	Service *application.Service
	Seeder  Seeder
	Health  *observability.HealthRegistry
}

// NewApp creates a new CLI application.
func NewApp(service *application.Service, seeder Seeder, health *observability.HealthRegistry) *App {
	return &App{
		Service: service,
		Seeder:  seeder,
		Health:  health,
	}
}

var currentApp *App

// SetApp sets the current CLI application.
func SetApp(a *App) {
	currentApp = a
}

// GetApp returns the current CLI application.
func GetApp() *App {
	return currentApp
}

// RequireService returns the allocation service or an error when the
// container could not be built.
func RequireService() (*application.Service, error) {
	if currentApp == nil || currentApp.Service == nil {
		return nil, errNotInitialized
	}
	return currentApp.Service, nil
}
