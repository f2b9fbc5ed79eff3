// Package lightapi turns declarative entity descriptors into a running
// REST API. An application describes its entities, registers them on an
// App, and calls Run: the framework compiles the routes, creates the
// backing tables, and serves generated CRUD handlers with an optional
// bearer token gate in front of them.
//
// Minimal usage:
//
//	app, err := lightapi.New()
//	if err != nil { ... }
//
//	person := models.NewEntity("person",
//		models.Field{Name: "name", Type: models.Text},
//		models.Field{Name: "email", Type: models.Text},
//		models.Field{Name: "email_verified", Type: models.Boolean},
//	)
//
//	if err := app.Register(models.Endpoint{Entity: person}); err != nil { ... }
//	if err := app.Run(); err != nil { ... }
package lightapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/iklobato/LightAPI/internal/config"
	"github.com/iklobato/LightAPI/internal/handler/http"
	"github.com/iklobato/LightAPI/internal/logger"
	"github.com/iklobato/LightAPI/internal/server"
	"github.com/iklobato/LightAPI/internal/service"
	"github.com/iklobato/LightAPI/internal/store"
	"github.com/iklobato/LightAPI/internal/workers"
	"github.com/iklobato/LightAPI/models"
)

// ErrReservedEntityName is returned by Register when an entity's table name
// collides with one of the framework's own tables.
var ErrReservedEntityName = errors.New("reserved entity name")

// ErrRegistrationClosed is returned by Register once Run has started:
// the route table is immutable while traffic is being served.
var ErrRegistrationClosed = errors.New("registration closed: server already running")

// reservedEntityNames are table names owned by the framework itself.
var reservedEntityNames = map[string]bool{
	"users":            true,
	"tokens":           true,
	"goose_db_version": true,
}

// App is one LightAPI application: a configuration, a logger and the set
// of registered endpoints. Construct with New, populate with Register,
// start with Run. Registration must complete before Run is called; an App
// serves traffic for the rest of the process lifetime.
type App struct {
	cfg *config.StructuredConfig
	log *logger.Logger

	endpoints []models.Endpoint
	running   bool
}

// New builds an App from the process environment: flags, environment
// variables and the optional JSON config file, in the framework's usual
// precedence order.
func New() (*App, error) {
	log := logger.NewLogger("lightapi")

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error getting configs: %w", err)
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	return &App{cfg: cfg, log: log}, nil
}

// Register adds one entity endpoint to the application. The endpoint is
// validated immediately: an invalid entity descriptor, an unknown verb, an
// empty effective verb set or a reserved entity name all fail here, before
// any server exists. Registration is not safe to call concurrently with
// Run.
func (a *App) Register(endpoint models.Endpoint) error {
	if a.running {
		return ErrRegistrationClosed
	}

	if err := endpoint.Validate(); err != nil {
		return err
	}

	if reservedEntityNames[endpoint.Entity.Name] {
		return fmt.Errorf("%w: %q", ErrReservedEntityName, endpoint.Entity.Name)
	}

	for _, registered := range a.endpoints {
		if registered.Entity.Name == endpoint.Entity.Name {
			return fmt.Errorf("entity %q is already registered", endpoint.Entity.Name)
		}
	}

	a.endpoints = append(a.endpoints, endpoint)
	a.log.Info().Str("entity", endpoint.Entity.Name).Bool("auth", endpoint.RequiresAuth).Msg("endpoint registered")

	return nil
}

// Run wires storage, services, workers and the HTTP transport, then blocks
// serving traffic until the process receives a stop signal. Any error on
// this path is a startup failure: nothing has started listening yet, so
// the caller can treat it as fatal.
func (a *App) Run() error {
	if a.running {
		return errors.New("app is already running")
	}
	a.running = true

	ctx := a.log.WithContext(context.Background())

	storages, err := store.NewStorages(ctx, a.cfg.Storage, a.log)
	if err != nil {
		return fmt.Errorf("error creating storages: %w", err)
	}
	defer storages.DB.Close()

	entities := make([]models.Entity, 0, len(a.endpoints))
	for _, endpoint := range a.endpoints {
		entities = append(entities, endpoint.Entity)
	}
	if err = storages.DB.EnsureEntityTables(ctx, entities...); err != nil {
		return fmt.Errorf("error creating entity tables: %w", err)
	}

	services, err := service.NewServices(storages, a.cfg.Auth, a.log)
	if err != nil {
		return fmt.Errorf("error creating services: %w", err)
	}

	handler := http.NewHandler(services, storages.DB, a.endpoints, a.log)

	// Route compilation happens here. A structurally broken registration
	// aborts before the listener opens.
	router, err := handler.Init()
	if err != nil {
		return fmt.Errorf("error compiling routes: %w", err)
	}

	workers.NewWorkers(services, a.cfg.Workers, a.log).Run()

	srv, err := server.NewServer(router, a.cfg.Server, a.log)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	srv.RunServer()

	return nil
}
