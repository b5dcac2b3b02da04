package mapapi

import (
	"context"
	"log/slog"
	"time"

	"go-chainmap/internal/connectiondb"
	"go-chainmap/internal/sourcemanager"
	"go-chainmap/pkg/database"
	"go-chainmap/pkg/module"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/robfig/cron/v3"
)

// Module wires the routing/source-manager core into the application's
// module lifecycle, grounded on sitemap.Module's BaseModule-plus-
// RegisterUnifiedRoutes shape.
type Module struct {
	*module.BaseModule
	routes       *Routes
	sources      *sourcemanager.Manager
	connDB       *connectiondb.DB
	cron         *cron.Cron
	refreshEvery time.Duration
}

// NewModule constructs the map module. refreshEvery is the auto-refresh
// period; the caller's default is 30s. The value is used as given and is
// not clamped to any range.
func NewModule(mongodb *database.MongoDB, redis *database.Redis, routes *Routes, sources *sourcemanager.Manager, connDB *connectiondb.DB, refreshEvery time.Duration) *Module {
	return &Module{
		BaseModule:   module.NewBaseModule("map", mongodb, redis),
		routes:       routes,
		sources:      sources,
		connDB:       connDB,
		cron:         cron.New(),
		refreshEvery: refreshEvery,
	}
}

// Routes implements module.Module; this module's real surface is
// registered through RegisterUnifiedRoutes against the shared Huma API.
func (m *Module) Routes(r chi.Router) {
	m.RegisterHealthRoute(r)
}

// RegisterUnifiedRoutes registers this module's operations with the Huma API.
func (m *Module) RegisterUnifiedRoutes(api huma.API) {
	m.routes.Register(api, "/map")
}

// StartBackgroundTasks schedules the periodic fetch_all sweep every
// refreshEvery, using robfig/cron for the scheduling loop (spec.md 5's
// auto-refresh timer).
func (m *Module) StartBackgroundTasks(ctx context.Context) {
	spec := "@every " + m.refreshEvery.String()
	_, err := m.cron.AddFunc(spec, func() {
		results, err := m.sources.FetchAll(ctx, m.connDB)
		if err != nil {
			slog.Debug("skipped scheduled fetch", "error", err)
			return
		}
		slog.Info("auto-refresh complete", "results", results)
	})
	if err != nil {
		slog.Error("failed to schedule auto-refresh", "error", err)
		return
	}
	m.cron.Start()
}

// Stop halts the refresh scheduler and the base module's background work.
func (m *Module) Stop() {
	m.cron.Stop()
	m.BaseModule.Stop()
}
