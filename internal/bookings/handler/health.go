package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"upperroom/pkg/client"
	httputil "upperroom/pkg/http"
)

type HealthHandler struct {
	client *client.Client
}

func NewHealthHandler(c *client.Client) *HealthHandler {
	return &HealthHandler{client: c}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}

// Health reports process liveness only.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	_ = httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready verifies the store is reachable.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.client.Mongo == nil {
		_ = httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	if err := h.client.Mongo.Ping(ctx, nil); err != nil {
		_ = httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  "store unreachable",
		})
		return
	}
	_ = httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
