package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"botbi/internal/workers"
	"botbi/pkg/logger"
)

// Checker pings one dependency
type Checker func(ctx context.Context) error

// WorkerSource reports background worker statistics
type WorkerSource interface {
	Health() []workers.WorkerHealth
}

type check struct {
	name     string
	required bool
	fn       Checker
}

// Handler provides health check endpoints
type Handler struct {
	log         *logger.Logger
	checks      []check
	workers     WorkerSource
	startTime   time.Time
	serviceName string
	version     string
}

// New creates a health handler with no checks
func New(log *logger.Logger, serviceName, version string) *Handler {
	return &Handler{
		log:         log.Component("health"),
		startTime:   time.Now(),
		serviceName: serviceName,
		version:     version,
	}
}

// AddCheck registers a dependency check. A failing required check fails readiness;
// a failing optional one only degrades it.
func (h *Handler) AddCheck(name string, required bool, fn Checker) *Handler {
	h.checks = append(h.checks, check{name: name, required: required, fn: fn})
	return h
}

// WithWorkers exposes worker statistics in the detailed health report
func (h *Handler) WithWorkers(src WorkerSource) *Handler {
	h.workers = src
	return h
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string                     `json:"status"` // "healthy", "degraded", "unhealthy"
	Service   string                     `json:"service"`
	Version   string                     `json:"version"`
	Uptime    string                     `json:"uptime"`
	Timestamp string                     `json:"timestamp"`
	Checks    map[string]ComponentHealth `json:"checks"`
	Workers   []workers.WorkerHealth     `json:"workers,omitempty"`
}

// ComponentHealth represents health of a single component
type ComponentHealth struct {
	Status       string `json:"status"`
	Required     bool   `json:"required"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

// HandleLiveness returns 200 OK while the process is up
func (h *Handler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HandleReadiness returns 503 when a required dependency is down
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := h.evaluate(ctx)

	code := http.StatusOK
	if status.Status == "unhealthy" {
		code = http.StatusServiceUnavailable
		h.log.Warnw("Readiness check failed", "checks", status.Checks)
	}
	writeJSON(w, code, status)
}

// HandleHealth returns the detailed report including worker statistics
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status := h.evaluate(ctx)
	if h.workers != nil {
		status.Workers = h.workers.Health()
	}

	code := http.StatusOK
	if status.Status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func (h *Handler) evaluate(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "healthy",
		Service:   h.serviceName,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().Format(time.RFC3339),
		Checks:    make(map[string]ComponentHealth, len(h.checks)),
	}

	for _, c := range h.checks {
		res := h.run(ctx, c)
		status.Checks[c.name] = res
		if res.Status == "healthy" {
			continue
		}
		if c.required {
			status.Status = "unhealthy"
		} else if status.Status == "healthy" {
			status.Status = "degraded"
		}
	}
	return status
}

func (h *Handler) run(ctx context.Context, c check) ComponentHealth {
	start := time.Now()
	err := c.fn(ctx)
	elapsed := time.Since(start)

	if err != nil {
		h.log.Warnw("Health check failed", "component", c.name, "error", err, "elapsed", elapsed)
		return ComponentHealth{
			Status:       "unhealthy",
			Required:     c.required,
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
		}
	}

	return ComponentHealth{
		Status:       "healthy",
		Required:     c.required,
		ResponseTime: elapsed.String(),
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
