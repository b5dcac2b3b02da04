// Package graph materializes a routable adjacency structure from the
// connection DB's resolved view, which holds both the static gate edges
// (seeded once under the synthetic provider id "ref", see
// connectiondb.SeedGateEdges) and every provider's wormhole contributions.
// It is lazily rebuilt: a dirty flag (a version-counter comparison against
// connectiondb.DB.Version) is checked on every read, and the graph is
// immutable once built — no dynamic add-neighbor calls once construction
// finishes, per the "immutable-after-build adjacency" re-architecture note.
package graph

import (
	"sync"

	"go-chainmap/internal/connectiondb"
	"go-chainmap/internal/refdata"
)

// WormholeSide carries the own-side signature/type of a wormhole edge; the
// far side's metadata lives on the reciprocal Edge in the neighbor's node.
type WormholeSide struct {
	Sig  string
	Type string
	Size refdata.WormholeSize
	Life connectiondb.Life
	Mass connectiondb.Mass
	Age  float64
}

// Edge is the tagged variant spec.md's design notes call for: Wormhole is
// nil whenever Kind is Gate.
type Edge struct {
	Kind     connectiondb.Kind
	Wormhole *WormholeSide
}

// Node is one system's outgoing adjacency, built once and never mutated
// after Graph construction completes.
type Node struct {
	SystemID int
	Edges    map[int]Edge // neighbor system id -> edge
}

// Graph is an immutable-after-build adjacency snapshot.
type Graph struct {
	nodes map[int]*Node
}

// Node returns the node for id, or nil if id has no edges (e.g. unknown
// system, or a known system with none loaded).
func (g *Graph) Node(id int) *Node {
	return g.nodes[id]
}

// Has reports whether id is present in the graph at all.
func (g *Graph) Has(id int) bool {
	_, ok := g.nodes[id]
	return ok
}

// Builder owns the lazy-rebuild contract: it borrows the connection DB
// (explicit dependency injection, not a package singleton) and hands out an
// up-to-date *Graph on every call to Graph().
type Builder struct {
	connDB  *connectiondb.DB
	maxAge  float64
	mu      sync.Mutex
	built   *Graph
	version int64 // connDB.Version() this Builder last rebuilt from
}

// NewBuilder constructs a Builder over the given connection DB. maxAgeHours
// is the default staleness cutoff passed to connDB.Resolved on every
// rebuild.
func NewBuilder(connDB *connectiondb.DB, maxAgeHours float64) *Builder {
	return &Builder{connDB: connDB, maxAge: maxAgeHours, version: -1}
}

// Graph returns the current graph, rebuilding first if the connection DB has
// mutated since the last build.
func (b *Builder) Graph() *Graph {
	b.mu.Lock()
	defer b.mu.Unlock()

	if v := b.connDB.Version(); b.built == nil || v != b.version {
		b.built = b.rebuild()
		b.version = v
	}
	return b.built
}

// rebuild is O(|edges|): cheap here because the wormhole edge count is small
// (hundreds) even when the gate edge count is large (thousands).
func (b *Builder) rebuild() *Graph {
	nodes := make(map[int]*Node)

	ensure := func(id int) *Node {
		n, ok := nodes[id]
		if !ok {
			n = &Node{SystemID: id, Edges: make(map[int]Edge)}
			nodes[id] = n
		}
		return n
	}

	for _, r := range b.connDB.Resolved(b.maxAge) {
		a, c := r.EndpointA, r.EndpointB
		if r.Kind == connectiondb.Gate {
			ensure(a).Edges[c] = Edge{Kind: connectiondb.Gate}
			ensure(c).Edges[a] = Edge{Kind: connectiondb.Gate}
			continue
		}

		wh := r.Wormhole
		ensure(a).Edges[c] = Edge{Kind: connectiondb.Wormhole, Wormhole: &WormholeSide{
			Sig: wh.SigA, Type: wh.TypeA, Size: wh.Size, Life: wh.Life, Mass: wh.Mass, Age: wh.AgeHours,
		}}
		ensure(c).Edges[a] = Edge{Kind: connectiondb.Wormhole, Wormhole: &WormholeSide{
			Sig: wh.SigB, Type: wh.TypeB, Size: wh.Size, Life: wh.Life, Mass: wh.Mass, Age: wh.AgeHours,
		}}
	}

	return &Graph{nodes: nodes}
}
