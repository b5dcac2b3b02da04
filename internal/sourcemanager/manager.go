// Package sourcemanager is the registry and lifecycle owner for Provider
// Clients: add/remove/list, persisted configuration, and a single-fetch-in-
// flight worker that refreshes the Connection DB, grounded on
// source_manager.py's SourceManager (reworked from a process-wide singleton
// into an injected dependency per the "global singletons -> DI"
// re-architecture note).
package sourcemanager

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go-chainmap/internal/connectiondb"
	"go-chainmap/internal/providers"
	"go-chainmap/internal/refdata"
)

// Factory builds a new, unconfigured Client for a given id; registered once
// per providers.Kind so persisted configuration can be deserialized back
// into the right concrete type (spec.md 9's "small capability set plus a
// registry keyed by the type tag").
type Factory func(id string, refDB *refdata.DB) providers.Client

// Manager owns the live set of configured sources and serializes fetches
// through a single worker slot, mirroring spec.md 5's "single fetch
// worker; request threads never block on it."
type Manager struct {
	mu       sync.RWMutex
	refDB    *refdata.DB
	registry map[providers.Kind]Factory
	sources  []providers.Client
	store    *ConfigStore // nil when Mongo is unavailable; falls back to in-memory only

	fetchSlot chan struct{} // capacity 1: guards against overlapping fetch_all/fetch_one runs
}

// New constructs a Manager. store may be nil, in which case source
// configuration is kept in memory only for the process lifetime.
func New(refDB *refdata.DB, store *ConfigStore) *Manager {
	return &Manager{
		refDB:     refDB,
		registry:  make(map[providers.Kind]Factory),
		fetchSlot: make(chan struct{}, 1),
		store:     store,
	}
}

// RegisterProviderKind associates a provider kind tag with its constructor,
// used both for user-created sources and for deserializing persisted ones.
func (m *Manager) RegisterProviderKind(kind providers.Kind, factory Factory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry[kind] = factory
}

// AddSource constructs, configures and persists a new source of the given
// kind. id is generated by the caller (google/uuid) so config_store.go can
// key on it directly.
func (m *Manager) AddSource(ctx context.Context, id string, kind providers.Kind, cfg map[string]any) (providers.Client, error) {
	m.mu.Lock()
	factory, ok := m.registry[kind]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("sourcemanager: no provider registered for kind %q", kind)
	}

	client := factory(id, m.refDB)
	if err := client.FromConfig(cfg); err != nil {
		return nil, fmt.Errorf("sourcemanager: configure %s: %w", kind, err)
	}

	m.mu.Lock()
	m.sources = append(m.sources, client)
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Save(ctx, client); err != nil {
			slog.Error("failed to persist source", "id", id, "error", err)
		}
	}
	return client, nil
}

// RemoveSource drops a source by id and clears its contributed records from
// db so stale data from a removed provider never lingers (spec.md 4.5).
func (m *Manager) RemoveSource(ctx context.Context, id string, db *connectiondb.DB) {
	m.mu.Lock()
	kept := m.sources[:0]
	for _, s := range m.sources {
		if s.ID() != id {
			kept = append(kept, s)
		}
	}
	m.sources = kept
	m.mu.Unlock()

	db.ClearProvider(id)

	if m.store != nil {
		if err := m.store.Delete(ctx, id); err != nil {
			slog.Error("failed to delete persisted source", "id", id, "error", err)
		}
	}
}

// Sources returns a snapshot of every configured source.
func (m *Manager) Sources() []providers.Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]providers.Client, len(m.sources))
	copy(out, m.sources)
	return out
}

// EnabledSources returns only the sources whose Enabled() is true.
func (m *Manager) EnabledSources() []providers.Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []providers.Client
	for _, s := range m.sources {
		if s.Enabled() {
			out = append(out, s)
		}
	}
	return out
}

// FetchAll clears and refreshes every enabled source, returning per-source
// record counts (or providers.FetchFailed). Only one fetch runs at a time;
// a concurrent caller gets an error rather than blocking, per spec.md 5's
// "single fetch worker" concurrency model.
func (m *Manager) FetchAll(ctx context.Context, db *connectiondb.DB) (map[string]int, error) {
	select {
	case m.fetchSlot <- struct{}{}:
	default:
		return nil, fmt.Errorf("sourcemanager: a fetch is already in progress")
	}
	defer func() { <-m.fetchSlot }()

	results := make(map[string]int)
	for _, source := range m.EnabledSources() {
		db.ClearProvider(source.ID())
		count := source.Fetch(ctx, db)
		results[source.Name()] = count
		if count == providers.FetchFailed {
			slog.Warn("source fetch failed", "source", source.Name())
		}
	}
	return results, nil
}

// FetchOne refreshes a single source by id, under the same fetch-in-flight
// guard as FetchAll.
func (m *Manager) FetchOne(ctx context.Context, id string, db *connectiondb.DB) (int, error) {
	select {
	case m.fetchSlot <- struct{}{}:
	default:
		return 0, fmt.Errorf("sourcemanager: a fetch is already in progress")
	}
	defer func() { <-m.fetchSlot }()

	m.mu.RLock()
	var source providers.Client
	for _, s := range m.sources {
		if s.ID() == id {
			source = s
			break
		}
	}
	m.mu.RUnlock()
	if source == nil {
		return 0, fmt.Errorf("sourcemanager: no source with id %q", id)
	}

	db.ClearProvider(source.ID())
	count := source.Fetch(ctx, db)
	if count == providers.FetchFailed {
		return count, fmt.Errorf("sourcemanager: fetch failed for source %q", source.Name())
	}
	return count, nil
}

// LoadConfiguration replaces the in-memory source list with what's
// persisted in Mongo, falling back to a one-shot legacy-env migration when
// nothing is stored yet (spec.md 4.5's load-time migration pass).
func (m *Manager) LoadConfiguration(ctx context.Context) error {
	if m.store != nil {
		docs, err := m.store.LoadAll(ctx)
		if err != nil {
			return fmt.Errorf("sourcemanager: load configuration: %w", err)
		}
		if len(docs) > 0 {
			m.mu.Lock()
			m.sources = m.sources[:0]
			m.mu.Unlock()
			for _, doc := range docs {
				m.mu.RLock()
				factory, ok := m.registry[providers.Kind(doc.Kind)]
				m.mu.RUnlock()
				if !ok {
					slog.Warn("skipping persisted source of unknown kind", "kind", doc.Kind, "id", doc.ID)
					continue
				}
				client := factory(doc.ID, m.refDB)
				if err := client.FromConfig(doc.Config); err != nil {
					slog.Warn("skipping malformed persisted source", "id", doc.ID, "error", err)
					continue
				}
				m.mu.Lock()
				m.sources = append(m.sources, client)
				m.mu.Unlock()
			}
			return nil
		}
	}

	migrated := m.migrateLegacyConfiguration()
	if migrated && m.store != nil {
		for _, s := range m.Sources() {
			if err := m.store.Save(ctx, s); err != nil {
				slog.Error("failed to persist migrated source", "error", err)
			}
		}
	}
	return nil
}
