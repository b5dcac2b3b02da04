package app

import (
	"context"
	"log"
	"log/slog"

	"go-chainmap/internal/refdata"
	"go-chainmap/pkg/config"
	"go-chainmap/pkg/database"
	"go-chainmap/pkg/logging"

	"github.com/joho/godotenv"
)

// AppContext holds the shared application context and dependencies.
type AppContext struct {
	MongoDB          *database.MongoDB
	Redis            *database.Redis
	RefData          *refdata.DB
	TelemetryManager *logging.TelemetryManager
	ServiceName      string
	shutdownFuncs    []func(context.Context) error
}

// InitializeApp initializes common application dependencies: telemetry,
// MongoDB (for source manager provider-config persistence), Redis (route
// result caching), and the static reference dataset.
func InitializeApp(serviceName string) (*AppContext, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found or error loading it: %v", err)
	}

	ctx := context.Background()

	telemetryManager := logging.NewTelemetryManager()
	if err := telemetryManager.Initialize(ctx); err != nil {
		log.Printf("warning: failed to initialize telemetry: %v", err)
	}

	mongodb, err := database.NewMongoDB(ctx, "chainmap")
	if err != nil {
		slog.Error("failed to connect to MongoDB", "error", err)
		// Continue without MongoDB: the source manager falls back to an
		// in-memory, non-persisted provider registry.
	} else {
		slog.Info("connected to MongoDB")
	}

	redis, err := database.NewRedis(ctx)
	if err != nil {
		slog.Error("failed to connect to Redis", "error", err)
		// Continue without Redis: route queries simply skip the cache.
	} else {
		slog.Info("connected to Redis")
	}

	dataDir := config.GetEnv("REFDATA_DIR", "data/refdata")
	refDB, err := refdata.Load(dataDir)
	if err != nil {
		return nil, err
	}
	slog.Info("reference data loaded", "data_dir", dataDir, "systems", refDB.SystemCount())

	appCtx := &AppContext{
		MongoDB:          mongodb,
		Redis:            redis,
		RefData:          refDB,
		TelemetryManager: telemetryManager,
		ServiceName:      serviceName,
	}

	if mongodb != nil {
		appCtx.shutdownFuncs = append(appCtx.shutdownFuncs, mongodb.Close)
	}
	if redis != nil {
		appCtx.shutdownFuncs = append(appCtx.shutdownFuncs, func(ctx context.Context) error {
			return redis.Close()
		})
	}
	if telemetryManager != nil {
		appCtx.shutdownFuncs = append(appCtx.shutdownFuncs, telemetryManager.Shutdown)
	}

	return appCtx, nil
}

// Shutdown gracefully shuts down all application dependencies.
func (a *AppContext) Shutdown(ctx context.Context) error {
	slog.Info("shutting down application", "service", a.ServiceName)

	for _, shutdown := range a.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			slog.Error("error during shutdown", "error", err)
		}
	}

	slog.Info("application shutdown complete", "service", a.ServiceName)
	return nil
}

// GetPort returns the port from environment or default.
func GetPort(defaultPort string) string {
	return config.GetEnv("PORT", defaultPort)
}

// IsProduction returns true if running in production environment.
func IsProduction() bool {
	return config.GetEnv("NODE_ENV", "development") == "production"
}

// IsDevelopment returns true if running in development environment.
func IsDevelopment() bool {
	return !IsProduction()
}
