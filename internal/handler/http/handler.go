package http

import (
	"github.com/iklobato/LightAPI/internal/logger"
	"github.com/iklobato/LightAPI/internal/service"
	"github.com/iklobato/LightAPI/internal/store"
	"github.com/iklobato/LightAPI/models"
)

type Handler struct {
	services  *service.Services
	db        *store.DB
	endpoints []models.Endpoint

	logger *logger.Logger
}

func NewHandler(services *service.Services, db *store.DB, endpoints []models.Endpoint, logger *logger.Logger) *Handler {
	logger.Info().Int("endpoints", len(endpoints)).Msg("http handler created")
	return &Handler{
		services:  services,
		db:        db,
		endpoints: endpoints,
		logger:    logger,
	}
}
