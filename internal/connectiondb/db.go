package connectiondb

import (
	"sort"
	"sync"
	"time"
)

// DB is the in-memory, mutex-guarded connection store. A single mutex
// around it suffices per spec.md's concurrency model: the fetch worker is
// the only writer, the router (via the graph builder) is the only reader,
// and neither needs lock-free structures.
type DB struct {
	mu      sync.RWMutex
	records map[pairKey]map[string]Record // pair -> providerID -> record
	version int64                         // bumped on every mutation; graph's dirty-flag sync point
}

// New returns an empty connection database.
func New() *DB {
	return &DB{records: make(map[pairKey]map[string]Record)}
}

// Version returns the current mutation counter. The graph builder compares
// this against the version it last rebuilt from to decide whether it's
// dirty, avoiding a separately-polled boolean.
func (db *DB) Version() int64 {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.version
}

// Add inserts or replaces the record at (unordered_pair, record.ProviderID).
// Idempotent with respect to replay of the same record's content.
func (db *DB) Add(r Record) {
	key := newPairKey(r.EndpointA, r.EndpointB)
	r.IngestedAt = time.Now().Unix()

	db.mu.Lock()
	defer db.mu.Unlock()

	byProvider, ok := db.records[key]
	if !ok {
		byProvider = make(map[string]Record)
		db.records[key] = byProvider
	}
	byProvider[r.ProviderID] = r
	db.version++
}

// ClearProvider removes every record tagged with providerID, across every
// pair. Safe to call for a provider with no records.
func (db *DB) ClearProvider(providerID string) {
	db.mu.Lock()
	defer db.mu.Unlock()

	removed := false
	for key, byProvider := range db.records {
		if _, ok := byProvider[providerID]; ok {
			delete(byProvider, providerID)
			removed = true
			if len(byProvider) == 0 {
				delete(db.records, key)
			}
		}
	}
	if removed {
		db.version++
	}
}

// Resolved returns, for each endpoint pair with at least one non-stale
// record, the single canonical record chosen by the strict conflict
// resolution order: stale filter, gate dominance, freshness, health
// tiebreak, deterministic tiebreak on provider id (see DESIGN.md's Open
// Question note on this last rule).
func (db *DB) Resolved(maxAgeHours float64) []Record {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]Record, 0, len(db.records))
	for _, byProvider := range db.records {
		best, ok := resolvePair(byProvider, maxAgeHours)
		if ok {
			out = append(out, best)
		}
	}
	return out
}

func resolvePair(byProvider map[string]Record, maxAgeHours float64) (Record, bool) {
	// Deterministic provider-id order so that the final tiebreak (rule 5) is
	// stable across calls with unchanged input, per invariant 1.
	ids := make([]string, 0, len(byProvider))
	for id := range byProvider {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var best Record
	found := false

	for _, id := range ids {
		r := byProvider[id]

		if r.Kind == Wormhole && r.Wormhole != nil && r.Wormhole.AgeHours > maxAgeHours {
			continue // rule 1: stale
		}

		if !found {
			best, found = r, true
			continue
		}

		if r.Kind == Gate && best.Kind != Gate {
			best = r // rule 2: gates beat wormholes
			continue
		}
		if best.Kind == Gate {
			continue // best already a gate, gates beat wormholes either way
		}

		// both are wormholes: rule 3 (freshness), rule 4 (health tiebreak)
		if r.Wormhole.AgeHours < best.Wormhole.AgeHours {
			best = r
		} else if r.Wormhole.AgeHours == best.Wormhole.AgeHours {
			if r.Wormhole.Life == Stable && best.Wormhole.Life == Critical {
				best = r
			}
			// else: rule 5, keep `best` — the sort above already fixed which
			// provider id wins when every discriminator above is equal.
		}
	}

	return best, found
}
