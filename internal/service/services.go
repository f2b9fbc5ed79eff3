package service

import (
	"github.com/iklobato/LightAPI/internal/config"
	"github.com/iklobato/LightAPI/internal/logger"
	"github.com/iklobato/LightAPI/internal/store"
)

// Services aggregates the business-logic layer. Constructed once at startup
// and shared read-only by every handler.
type Services struct {
	EntityService EntityService
	AuthService   AuthService
}

// NewServices wires the service layer on top of the repositories.
func NewServices(storages *store.Storages, cfg config.Auth, logger *logger.Logger) (*Services, error) {
	authService, err := NewAuthService(storages.UserRepository, storages.TokenRepository, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		EntityService: NewEntityService(storages.EntityRepository, logger),
		AuthService:   authService,
	}, nil
}
