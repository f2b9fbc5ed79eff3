package workers

import (
	"github.com/iklobato/LightAPI/internal/config"
	"github.com/iklobato/LightAPI/internal/logger"
	"github.com/iklobato/LightAPI/internal/service"
)

type Workers struct {
	workers []Worker
}

// NewWorkers assembles the background workers the framework runs alongside
// the HTTP server. A zero sweep interval disables the token sweeper.
func NewWorkers(services *service.Services, cfg config.Workers, logger *logger.Logger) *Workers {
	var ws []Worker

	if cfg.TokenSweepInterval > 0 {
		ws = append(ws, NewTokenSweeper(services.AuthService, cfg.TokenSweepInterval, logger))
	}

	return &Workers{workers: ws}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
