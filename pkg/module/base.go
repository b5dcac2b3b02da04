package module

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"go-chainmap/pkg/database"

	"github.com/go-chi/chi/v5"
)

// Status represents health status values
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// HealthStatus represents module health status
type HealthStatus struct {
	Status  Status `json:"status"`
	Module  string `json:"module"`
	Message string `json:"message,omitempty"`
}

// Module defines the interface that all application modules must implement
type Module interface {
	Routes(r chi.Router)
	StartBackgroundTasks(ctx context.Context)
	Stop()
	Name() string
}

// BaseModule provides common functionality for all modules
type BaseModule struct {
	name     string
	mongodb  *database.MongoDB
	redis    *database.Redis
	stopCh   chan struct{}
	stopOnce chan struct{}
}

// NewBaseModule creates a new base module with common dependencies
func NewBaseModule(name string, mongodb *database.MongoDB, redis *database.Redis) *BaseModule {
	return &BaseModule{
		name:     name,
		mongodb:  mongodb,
		redis:    redis,
		stopCh:   make(chan struct{}),
		stopOnce: make(chan struct{}),
	}
}

func (b *BaseModule) Name() string { return b.name }

func (b *BaseModule) MongoDB() *database.MongoDB { return b.mongodb }

func (b *BaseModule) Redis() *database.Redis { return b.redis }

// StopChannel returns the stop channel for background tasks
func (b *BaseModule) StopChannel() <-chan struct{} {
	return b.stopCh
}

// Stop gracefully stops the module
func (b *BaseModule) Stop() {
	select {
	case <-b.stopOnce:
		return
	default:
		close(b.stopOnce)
		close(b.stopCh)
		slog.Info("module stopped", "module", b.name)
	}
}

// StartBackgroundTasks provides a default no-op implementation; modules that
// need periodic work override it (the source manager's cron job runs outside
// this loop, see internal/mapapi's Module.StartBackgroundTasks).
func (b *BaseModule) StartBackgroundTasks(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-b.stopCh:
			return
		case <-ticker.C:
		}
	}
}

// HealthHandler returns a basic liveness handler reporting module name and status.
func (b *BaseModule) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := HealthStatus{Status: StatusHealthy, Module: b.name}

		if b.mongodb != nil {
			if err := b.mongodb.HealthCheck(r.Context()); err != nil {
				status.Status = StatusDegraded
				status.Message = "mongodb: " + err.Error()
			}
		}
		if b.redis != nil {
			if err := b.redis.HealthCheck(r.Context()); err != nil {
				status.Status = StatusDegraded
				status.Message = "redis: " + err.Error()
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if status.Status != StatusHealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(status)
	}
}

// RegisterHealthRoute registers the health endpoint for this module
func (b *BaseModule) RegisterHealthRoute(r chi.Router) {
	r.Get("/health", b.HealthHandler())
}
