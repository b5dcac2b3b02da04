package router

import (
	"math"

	"go-chainmap/internal/refdata"
)

// Restrictions is the per-request filter and weighting object spec.md
// calls "Restrictions": every field is optional in the sense that
// DefaultRestrictions() produces the pure-hop-count behavior.
type Restrictions struct {
	// SizeAllowed rejects a wormhole edge if its size is unchecked (false
	// or absent). A nil map allows every size. Gate edges are never subject
	// to this filter.
	SizeAllowed map[refdata.WormholeSize]bool

	// IgnoreEOL rejects wormhole edges whose life is critical.
	IgnoreEOL bool

	// IgnoreMassCrit rejects wormhole edges whose mass is critical.
	IgnoreMassCrit bool

	// AgeThresholdHours rejects wormhole edges older than this. Use
	// math.Inf(1) to disable the filter.
	AgeThresholdHours float64

	// SecurityPrio is the per-edge traversal cost when entering a system of
	// that class. Missing entries default to 1 (pure hop count).
	SecurityPrio map[refdata.SecurityClass]int

	// Avoidance is the set of system ids that must never be traversed.
	// Source and destination are always removed from this set even if the
	// caller included them (spec.md 4.3).
	Avoidance map[int]bool
}

// DefaultRestrictions returns the pure-hop-count restrictions object: every
// size allowed, no EOL/mass filtering, unlimited age, uniform cost 1,
// nothing avoided.
func DefaultRestrictions() Restrictions {
	return Restrictions{
		SizeAllowed: map[refdata.WormholeSize]bool{
			refdata.SizeSmall:   true,
			refdata.SizeMedium:  true,
			refdata.SizeLarge:   true,
			refdata.SizeXLarge:  true,
			refdata.SizeUnknown: true,
		},
		AgeThresholdHours: math.Inf(1),
		SecurityPrio:      map[refdata.SecurityClass]int{},
		Avoidance:         map[int]bool{},
	}
}

// securityPrio returns the configured cost for class, defaulting to 1.
func (r Restrictions) securityPrio(class refdata.SecurityClass) int {
	if v, ok := r.SecurityPrio[class]; ok {
		return v
	}
	return 1
}

func (r Restrictions) sizeAllowed(size refdata.WormholeSize) bool {
	if r.SizeAllowed == nil {
		return true
	}
	allowed, ok := r.SizeAllowed[size]
	return ok && allowed
}
