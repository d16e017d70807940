package handlers

import (
	"net/http"

	"github.com/hugh/buddy-tracker/internal/api/dto"
	"github.com/hugh/buddy-tracker/internal/repository"
	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	store *repository.Store
	redis *redis.Client
}

func NewHealthHandler(store *repository.Store, redis *redis.Client) *HealthHandler {
	return &HealthHandler{store: store, redis: redis}
}

// Health reports the state of the store and Redis. A missing store is only
// fatal when reads are not allowed to degrade; Redis is optional.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	status := "healthy"
	degraded := false

	// Check database
	switch {
	case !h.store.Available():
		checks["database"] = "not configured"
		degraded = true
	case h.store.Ping(r.Context()) != nil:
		checks["database"] = "unhealthy"
		degraded = true
	default:
		checks["database"] = "healthy"
	}
	if degraded && !h.store.DegradedReads() {
		status = "unhealthy"
	}

	// Check Redis
	if h.redis != nil {
		if err := h.redis.Ping(r.Context()).Err(); err != nil {
			checks["redis"] = "unhealthy"
			degraded = true
		} else {
			checks["redis"] = "healthy"
		}
	}

	if degraded && status == "healthy" {
		status = "degraded"
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, dto.HealthResponse{Status: status, Checks: checks, Degraded: degraded})
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
