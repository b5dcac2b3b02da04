package sourcemanager

import (
	"log/slog"

	"go-chainmap/internal/providers"
	"go-chainmap/pkg/config"

	"github.com/google/uuid"
)

// migrateLegacyConfiguration runs once, at first boot, for installs
// upgrading from a flat-env-var configuration that predates the Mongo-
// backed source registry (the Go analogue of the desktop client's
// QSettings keys), grounded on source_manager.py's
// _migrate_legacy_configuration. Recognized sources are added and kept;
// there is nothing to "clean up" since env vars aren't writable at
// runtime — the Mongo record that LoadConfiguration saves for each migrated
// source becomes the new source of truth on every later boot.
func (m *Manager) migrateLegacyConfiguration() bool {
	migrated := false

	if url, user, pass := config.GetEnv("TRIPWIRE_URL", ""), config.GetEnv("TRIPWIRE_USER", ""), config.GetEnv("TRIPWIRE_PASS", ""); url != "" && user != "" {
		if factory, ok := m.registry[providers.KindTripwire]; ok {
			slog.Info("migrating legacy Tripwire configuration")
			client := factory(uuid.NewString(), m.refDB)
			if err := client.FromConfig(map[string]any{
				"url": url, "username": user, "password": pass, "name": "Legacy Tripwire", "enabled": true,
			}); err == nil {
				m.sources = append(m.sources, client)
				migrated = true
			}
		}
	}

	if url, mapID, token := config.GetEnv("WANDERER_URL", ""), config.GetEnv("WANDERER_MAP_ID", ""), config.GetEnv("WANDERER_TOKEN", ""); url != "" && mapID != "" && token != "" {
		if factory, ok := m.registry[providers.KindWanderer]; ok {
			slog.Info("migrating legacy Wanderer configuration")
			client := factory(uuid.NewString(), m.refDB)
			if err := client.FromConfig(map[string]any{
				"url": url, "map_id": mapID, "token": token, "name": "Legacy Wanderer", "enabled": true,
			}); err == nil {
				m.sources = append(m.sources, client)
				migrated = true
			}
		}
	}

	if config.GetBoolEnv("EVE_SCOUT_ENABLE", false) {
		if factory, ok := m.registry[providers.KindEveScout]; ok {
			slog.Info("migrating legacy EVE Scout configuration")
			client := factory(uuid.NewString(), m.refDB)
			if err := client.FromConfig(map[string]any{"name": "Eve Scout", "enabled": true}); err == nil {
				m.sources = append(m.sources, client)
				migrated = true
			}
		}
	}

	if url, token := config.GetEnv("PATHFINDER_URL", ""), config.GetEnv("PATHFINDER_TOKEN", ""); url != "" && token != "" {
		if factory, ok := m.registry[providers.KindPathfinder]; ok {
			slog.Info("migrating legacy Pathfinder configuration")
			client := factory(uuid.NewString(), m.refDB)
			if err := client.FromConfig(map[string]any{
				"url": url, "token": token, "name": "Legacy Pathfinder",
				"enabled": config.GetBoolEnv("PATHFINDER_ENABLED", false),
			}); err == nil {
				m.sources = append(m.sources, client)
				migrated = true
			}
		}
	}

	return migrated
}
