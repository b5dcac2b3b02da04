// Package connectiondb is the keyed store of connection records contributed
// by the reference data loader (under the synthetic provider id "ref") and
// by every enabled Provider Client. It applies conflict resolution at read
// time; reads and writes share one RWMutex, so a write waits for any
// in-progress read to finish.
package connectiondb

import "go-chainmap/internal/refdata"

// Kind tags whether a record describes a permanent gate-like link or a
// transient wormhole. Modeled as a closed variant (spec's "Edge = Gate |
// Wormhole{...}" re-architecture note) rather than an ad-hoc metadata list:
// WormholeMeta is only ever populated when Kind == Wormhole.
type Kind string

const (
	Gate     Kind = "GATE"
	Wormhole Kind = "WORMHOLE"
)

// Life is a wormhole's remaining-lifetime health state.
type Life string

const (
	Stable   Life = "stable"
	Critical Life = "critical"
)

// Mass is a wormhole's remaining-mass health state.
type Mass string

const (
	MassStable       Mass = "stable"
	MassDestabilized Mass = "destabilized"
	MassCritical     Mass = "critical"
)

// WormholeMeta carries the fields meaningful only for Kind == Wormhole.
type WormholeMeta struct {
	SigA, SigB   string
	TypeA, TypeB string
	Size         refdata.WormholeSize
	Life         Life
	Mass         Mass
	AgeHours     float64
}

// RefProviderID is the synthetic provider identity the static gate edges are
// loaded under, so they participate in the same conflict-resolution path as
// every real provider (and so ClearProvider never touches them).
const RefProviderID = "ref"

// Record is one directed-pair contribution from one provider: the
// normalized value spec.md calls a "Connection Record".
type Record struct {
	ProviderID string
	EndpointA  int
	EndpointB  int
	Kind       Kind
	Wormhole   *WormholeMeta // nil unless Kind == Wormhole
	IngestedAt int64         // unix seconds, set by DB.Add
}

// pairKey is the unordered endpoint pair a record is grouped under.
type pairKey [2]int

func newPairKey(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}
