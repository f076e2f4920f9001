package health

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/hilthontt/codeboard/internal/infrastructure/json"
)

var startTime = time.Now()

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// RoomCounter reports the number of live rooms.
type RoomCounter interface {
	Len() int
}

type Handler struct {
	rooms   RoomCounter
	checks  map[string]Check
	healthy atomic.Bool
}

func NewHandler(rooms RoomCounter, checks map[string]Check) *Handler {
	h := &Handler{
		rooms:  rooms,
		checks: checks,
	}
	h.healthy.Store(true)
	return h
}

// SetUnhealthy makes every probe fail, used while draining on shutdown.
func (h *Handler) SetUnhealthy() {
	h.healthy.Store(false)
}

// GetHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API, including uptime, live room count and current timestamp
// @Tags         health
// @Produce      json
// @Success      200 {object} healthResponse "Service is healthy"
// @Failure      503 {object} healthResponse "Service is unhealthy"
// @Router       /api/health [get]
// @Router       /api/healthz [get]
// @Router       /api/live [get]
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	resp := h.response("ok")
	if !h.healthy.Load() {
		status = http.StatusServiceUnavailable
		resp.Status = "unhealthy"
	}

	json.Write(w, status, resp)
}

// GetReady godoc
// @Summary      Readiness check
// @Description  Like health, but also probes optional dependencies such as the rate limiter store
// @Tags         health
// @Produce      json
// @Success      200 {object} healthResponse "Service is ready"
// @Failure      503 {object} healthResponse "A dependency is unavailable"
// @Router       /api/ready [get]
func (h *Handler) GetReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	resp := h.response("ok")
	if !h.healthy.Load() {
		status = http.StatusServiceUnavailable
		resp.Status = "unhealthy"
	}

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			if resp.Failures == nil {
				resp.Failures = make(map[string]string)
			}
			resp.Failures[name] = err.Error()
			status = http.StatusServiceUnavailable
			resp.Status = "unhealthy"
		}
	}

	json.Write(w, status, resp)
}

func (h *Handler) response(status string) healthResponse {
	resp := healthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(startTime).Round(time.Second).String(),
	}
	if h.rooms != nil {
		resp.Rooms = h.rooms.Len()
	}
	return resp
}
