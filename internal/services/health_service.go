package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"agriconsole/pkg/contracts"
)

// ClientCounter reports connected websocket clients. *websocket.Hub implements it.
type ClientCounter interface {
	ClientCount() int
}

// HealthService provides health check functionality
type HealthService struct {
	dashboard *DashboardService
	clients   ClientCounter
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Runtime   map[string]any `json:"runtime,omitempty"`
	Services  map[string]any `json:"services,omitempty"`
}

// NewHealthService creates a health service. Both dependencies may be nil.
func NewHealthService(dashboard *DashboardService, clients ClientCounter, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		dashboard: dashboard,
		clients:   clients,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// Check returns the current health status
func (h *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   contracts.Version,
		Runtime: map[string]any{
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(h.startTime).Seconds(),
		},
		Services: map[string]any{},
	}

	if h.clients != nil {
		status.Services["websocket_clients"] = h.clients.ClientCount()
	}
	if h.dashboard != nil {
		if p := h.dashboard.Current(); p != nil {
			status.Services["dashboard"] = map[string]any{
				"generation": p.State.Generation(),
				"filter":     p.State.Filter().Key(),
				"defaulted":  len(p.State.Defaulted()),
				"settled_ms": p.State.Duration().Milliseconds(),
			}
		} else {
			status.Services["dashboard"] = map[string]any{"generation": 0}
		}
	}

	h.logger.DebugContext(ctx, "Health check", slog.String("status", status.Status))
	return status
}
