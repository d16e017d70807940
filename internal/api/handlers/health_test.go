package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hugh/buddy-tracker/internal/api/dto"
	"github.com/hugh/buddy-tracker/internal/api/handlers"
	"github.com/hugh/buddy-tracker/internal/repository"
	"github.com/hugh/buddy-tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHealthHandler_Health(t *testing.T) {
	tests := []struct {
		name     string
		store    func(t *testing.T) *repository.Store
		status   int
		body     string
		degraded bool
	}{
		{
			name: "healthy store",
			store: func(t *testing.T) *repository.Store {
				return repository.NewStore(testutil.SetupTestDB(t), repository.Options{})
			},
			status: http.StatusOK,
			body:   "healthy",
		},
		{
			name: "no store with degraded reads",
			store: func(t *testing.T) *repository.Store {
				return repository.NewStore(nil, repository.Options{AllowDegradedReads: true})
			},
			status:   http.StatusOK,
			body:     "degraded",
			degraded: true,
		},
		{
			name: "no store without degraded reads",
			store: func(t *testing.T) *repository.Store {
				return repository.NewStore(nil, repository.Options{})
			},
			status:   http.StatusServiceUnavailable,
			body:     "unhealthy",
			degraded: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewHealthHandler(tt.store(t), nil)
			rr := httptest.NewRecorder()
			h.Health(rr, httptest.NewRequest("GET", "/health", nil))

			testutil.AssertStatus(t, rr, tt.status)
			var resp dto.HealthResponse
			testutil.ParseJSONResponse(t, rr, &resp)
			assert.Equal(t, tt.body, resp.Status)
			assert.Equal(t, tt.degraded, resp.Degraded)
			assert.Contains(t, resp.Checks, "database")
		})
	}
}

func TestHealthHandler_Ready(t *testing.T) {
	h := handlers.NewHealthHandler(nil, nil)
	rr := httptest.NewRecorder()
	h.Ready(rr, httptest.NewRequest("GET", "/ready", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}
