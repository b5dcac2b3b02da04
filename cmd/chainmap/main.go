package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go-chainmap/internal/connectiondb"
	"go-chainmap/internal/graph"
	"go-chainmap/internal/mapapi"
	"go-chainmap/internal/providers"
	"go-chainmap/internal/refdata"
	"go-chainmap/internal/router"
	"go-chainmap/internal/sourcemanager"
	"go-chainmap/pkg/app"
	"go-chainmap/pkg/config"
	"go-chainmap/pkg/module"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "go.uber.org/automaxprocs"
)

// customLoggerMiddleware skips access logging for health checks, matching
// the gateway's noise-reduction convention.
func customLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/health") {
			next.ServeHTTP(w, r)
			return
		}
		middleware.Logger(next).ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"chainmap"}`))
}

func main() {
	ctx := context.Background()

	appCtx, err := app.InitializeApp("chainmap")
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer appCtx.Shutdown(ctx)

	connDB := connectiondb.New()
	connectiondb.SeedGateEdges(connDB, appCtx.RefData)

	maxAgeHours := config.GetDurationEnv("ROUTE_MAX_AGE", 36*time.Hour).Hours()
	builder := graph.NewBuilder(connDB, maxAgeHours)
	rt := router.New(appCtx.RefData, builder)

	var configStore *sourcemanager.ConfigStore
	if appCtx.MongoDB != nil {
		configStore = sourcemanager.NewConfigStore(appCtx.MongoDB)
	}
	sources := sourcemanager.New(appCtx.RefData, configStore)
	sources.RegisterProviderKind(providers.KindTripwire, func(id string, refDB *refdata.DB) providers.Client {
		return providers.NewTripwire(id, refDB)
	})
	sources.RegisterProviderKind(providers.KindPathfinder, func(id string, refDB *refdata.DB) providers.Client {
		return providers.NewPathfinder(id, refDB)
	})
	sources.RegisterProviderKind(providers.KindEveScout, func(id string, refDB *refdata.DB) providers.Client {
		return providers.NewEveScout(id, refDB)
	})
	sources.RegisterProviderKind(providers.KindWanderer, func(id string, refDB *refdata.DB) providers.Client {
		return providers.NewWanderer(id, refDB)
	})

	if err := sources.LoadConfiguration(ctx); err != nil {
		slog.Error("failed to load source configuration", "error", err)
	}

	refreshEvery := config.GetDurationEnv("REFRESH_INTERVAL", 30*time.Second)
	mapRoutes := mapapi.NewRoutes(appCtx.RefData, connDB, rt, sources, appCtx.Redis)
	mapModule := mapapi.NewModule(appCtx.MongoDB, appCtx.Redis, mapRoutes, sources, connDB, refreshEvery)

	modules := []module.Module{mapModule}

	r := chi.NewRouter()
	r.Use(customLoggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)
	r.Get("/health", healthHandler)

	apiPrefix := config.GetAPIPrefix()
	humaConfig := huma.DefaultConfig("Chainmap API", "1.0.0")
	humaConfig.Info.Description = "Shortest-path wormhole and gate routing over aggregated connection data"

	if customServers := config.GetOpenAPIServers(); customServers != nil {
		humaConfig.Servers = make([]*huma.Server, len(customServers))
		for i, s := range customServers {
			url := s.URL
			if apiPrefix != "" && !strings.HasSuffix(url, apiPrefix) {
				url += apiPrefix
			}
			humaConfig.Servers[i] = &huma.Server{URL: url, Description: s.Description}
		}
	}

	var unifiedAPI huma.API
	if apiPrefix == "" {
		unifiedAPI = humachi.New(r, humaConfig)
	} else {
		r.Route(apiPrefix, func(prefixRouter chi.Router) {
			unifiedAPI = humachi.New(prefixRouter, humaConfig)
		})
	}

	mapModule.RegisterUnifiedRoutes(unifiedAPI)
	for _, mod := range modules {
		mod.Routes(r)
	}

	for _, mod := range modules {
		go mod.StartBackgroundTasks(ctx)
	}

	port := app.GetPort("8080")
	host := config.GetHost()
	srv := &http.Server{
		Addr:         host + ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("starting chainmap server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("received shutdown signal, initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	for _, mod := range modules {
		mod.Stop()
	}

	appCtx.Shutdown(shutdownCtx)
	slog.Info("chainmap shutdown complete")
}
