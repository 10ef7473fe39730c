package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vekariaayush04/matiq/internal/hub"
	"github.com/vekariaayush04/matiq/internal/registry"
	"github.com/vekariaayush04/matiq/internal/ws"
)

func SetupRoutes(h *hub.Hub, reg *registry.Registry, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Get("/health", Health)
	r.Get("/ws", ws.Handler(h, reg, log))
	return r
}
