package refdata

// DB is the immutable, read-only reference dataset: systems, regions, gate
// edges, and the wormhole size charts. Constructed once by Load and passed
// by reference to everything that needs it (connectiondb, router, providers) —
// no package-level singleton.
type DB struct {
	systems     map[int]*System
	nameToID    map[string]int
	regions     map[int]*Region
	gateEdges   [][2]int
	trigSystems map[int]bool
}

// SystemCount returns the number of systems loaded.
func (db *DB) SystemCount() int { return len(db.systems) }

// System returns the system with the given id, or nil if unknown.
func (db *DB) System(id int) *System {
	return db.systems[id]
}

// SystemByName resolves a canonical (post-rename) system name to its id.
// Returns (0, false) if unknown.
func (db *DB) SystemByName(name string) (int, bool) {
	id, ok := db.nameToID[name]
	return id, ok
}

// Region returns the region with the given id, or nil if unknown.
func (db *DB) Region(id int) *Region {
	return db.regions[id]
}

// GateEdges returns the static gate edges as unordered system-id pairs.
func (db *DB) GateEdges() [][2]int {
	return db.gateEdges
}

// IsWormholeSpace reports whether id falls in the wormhole-space id range.
func (db *DB) IsWormholeSpace(id int) bool {
	return id >= wormholeMin && id <= wormholeMax
}
