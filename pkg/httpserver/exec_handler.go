package httpserver

import (
	"net/http"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/mselser95/intraday-exec/internal/circuitbreaker"
	"github.com/mselser95/intraday-exec/internal/execution"
)

// ScheduleSource exposes the scheduler's active schedules.
type ScheduleSource interface {
	ActiveSnapshots() []execution.Snapshot
}

// BreakerSource exposes the circuit breaker state.
type BreakerSource interface {
	GetStatus() circuitbreaker.Status
}

// ErrorResponse represents an HTTP error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SchedulesHandler handles HTTP requests for execution schedule state.
type SchedulesHandler struct {
	schedules ScheduleSource
	logger    *zap.Logger
}

// NewSchedulesHandler creates a new schedules handler.
func NewSchedulesHandler(schedules ScheduleSource, logger *zap.Logger) *SchedulesHandler {
	return &SchedulesHandler{
		schedules: schedules,
		logger:    logger,
	}
}

// SchedulesResponse represents the HTTP response for active schedules.
type SchedulesResponse struct {
	Count     int                  `json:"count"`
	Schedules []execution.Snapshot `json:"schedules"`
}

// HandleSchedules handles GET /api/schedules requests.
func (h *SchedulesHandler) HandleSchedules(w http.ResponseWriter, r *http.Request) {
	snapshots := h.schedules.ActiveSnapshots()

	response := SchedulesResponse{
		Count:     len(snapshots),
		Schedules: snapshots,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		h.logger.Error("failed-to-encode-response", zap.Error(err))
	}
}

// BreakerHandler handles HTTP requests for circuit breaker state.
type BreakerHandler struct {
	breaker BreakerSource
	logger  *zap.Logger
}

// NewBreakerHandler creates a new breaker handler.
func NewBreakerHandler(breaker BreakerSource, logger *zap.Logger) *BreakerHandler {
	return &BreakerHandler{
		breaker: breaker,
		logger:  logger,
	}
}

// HandleBreaker handles GET /api/breaker requests.
func (h *BreakerHandler) HandleBreaker(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	err := json.NewEncoder(w).Encode(h.breaker.GetStatus())
	if err != nil {
		h.logger.Error("failed-to-encode-response", zap.Error(err))
	}
}
