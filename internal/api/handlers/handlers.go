package handlers

import (
	"github.com/uniride/carpool-service/internal/store"
	"github.com/uniride/carpool-service/pkg/logger"
	"github.com/uniride/carpool-service/pkg/monitoring"
)

// Handlers holds all handler dependencies
type Handlers struct {
	Store   *store.Store
	Logger  *logger.Logger
	Monitor *monitoring.NewRelicApp
}

// NewHandlers creates a new Handlers instance
func NewHandlers(st *store.Store, log *logger.Logger, monitor *monitoring.NewRelicApp) *Handlers {
	return &Handlers{
		Store:   st,
		Logger:  log,
		Monitor: monitor,
	}
}
