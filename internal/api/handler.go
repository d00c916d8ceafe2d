package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"squarepg-backend/config"
	"squarepg-backend/internal/events"
	"squarepg-backend/internal/lifecycle"
	"squarepg-backend/internal/notification"
	"squarepg-backend/internal/occupancy"
	"squarepg-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	cfg         *config.Config
	store       store.Store
	coordinator *lifecycle.Coordinator
	hub         *events.Hub
	pool        *notification.WorkerPool
	webpush     *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(cfg *config.Config, s store.Store, hub *events.Hub, pool *notification.WorkerPool, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		cfg:         cfg,
		store:       s,
		coordinator: lifecycle.NewCoordinator(s, occupancy.NewLedger(s)),
		hub:         hub,
		pool:        pool,
		webpush:     webpushOptions,
	}
}
