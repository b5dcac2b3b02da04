package providers

import (
	"regexp"
	"strings"
	"time"

	"go-chainmap/internal/connectiondb"
	"go-chainmap/internal/refdata"
)

// Placeholder values used when upstream omits a signature or type code
// (spec.md 4.4).
const (
	placeholderSig  = "-------"
	placeholderType = "----"
)

var sigPattern = regexp.MustCompile(`^([A-Za-z]{3})-?(\d{3})$`)
var sigDigitsFirst = regexp.MustCompile(`^(\d{3})-?([A-Za-z]{3})$`)

// NormalizeSignature formats a signature code as "AAA-NNN" (uppercase
// letters, dash, digits). Empty input yields the placeholder. Input with
// digits and letters swapped (upstream user-entry error) is corrected.
func NormalizeSignature(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return placeholderSig
	}
	if m := sigPattern.FindStringSubmatch(raw); m != nil {
		return strings.ToUpper(m[1]) + "-" + m[2]
	}
	if m := sigDigitsFirst.FindStringSubmatch(raw); m != nil {
		return strings.ToUpper(m[2]) + "-" + m[1]
	}
	return placeholderSig
}

// NormalizeTypeCode uppercases a wormhole type code, or returns the
// placeholder if empty.
func NormalizeTypeCode(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return placeholderType
	}
	return strings.ToUpper(raw)
}

// AgeHours computes wall-clock-now minus modifiedAt, clamped to zero for
// negative deltas (spec.md 4.4).
func AgeHours(modifiedAt time.Time) float64 {
	hours := time.Since(modifiedAt).Hours()
	if hours < 0 {
		return 0
	}
	return hours
}

// InferSize resolves a wormhole's size class: first from its type code via
// the reference data chart, falling back to the (system_a.class,
// system_b.class) pair chart when the type code is unknown (spec.md 4.4).
func InferSize(typeCode string, classA, classB refdata.SecurityClass) refdata.WormholeSize {
	if size := refdata.WormholeTypeSize(typeCode); size != refdata.SizeUnknown {
		return size
	}
	return refdata.ClassPairSize(classA, classB)
}

// NewGateRecord builds a permanent, GATE-kind record for a bridge-like
// connection a provider reports via a special upstream type (spec.md 4.4).
// The record carries no wormhole metadata (no size, life, mass or age) and
// is exempt from wormhole size/age filtering since Kind is Gate.
func NewGateRecord(providerID string, a, b int) connectiondb.Record {
	return connectiondb.Record{ProviderID: providerID, EndpointA: a, EndpointB: b, Kind: connectiondb.Gate}
}

// NewWormholeRecord builds a WORMHOLE-kind record from already-normalized
// fields.
func NewWormholeRecord(providerID string, a, b int, meta connectiondb.WormholeMeta) connectiondb.Record {
	return connectiondb.Record{
		ProviderID: providerID, EndpointA: a, EndpointB: b,
		Kind: connectiondb.Wormhole, Wormhole: &meta,
	}
}
