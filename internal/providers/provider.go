// Package providers implements the four concrete Provider Clients and the
// shared HTTP/normalization helpers they use. Each client fetches an
// upstream chain-mapping service and translates its records into
// connectiondb.Record values; none of them hold Connection DB state of
// their own (spec.md 3's ownership rule).
package providers

import (
	"context"

	"go-chainmap/internal/connectiondb"

	"github.com/go-playground/validator/v10"
)

// Kind is the closed provider-kind enum used only for serialization
// routing (spec.md 4.4/9: "a small capability set ... plus a registry keyed
// by the type tag for deserialization").
type Kind string

const (
	KindTripwire   Kind = "tripwire"
	KindPathfinder Kind = "pathfinder"
	KindEveScout   Kind = "evescout"
	KindWanderer   Kind = "wanderer"
)

// Client is the small capability set every concrete provider implements.
// Concrete providers are values (structs), not subclasses in a deep
// hierarchy, per the "Provider polymorphism" re-architecture note.
type Client interface {
	ID() string
	Name() string
	Enabled() bool
	Type() Kind

	// Test probes credentials/URL synchronously without mutating db.
	Test(ctx context.Context) (ok bool, message string)

	// Fetch fetches upstream, translates each upstream edge into a
	// connectiondb.Record, and calls db.Add for each. Returns the number of
	// records added on success, or a negative sentinel on transport/auth
	// failure (spec.md 4.4's "distinguishing zero-records from failed-fetch
	// is a hard requirement").
	Fetch(ctx context.Context, db *connectiondb.DB) int

	// ToConfig/FromConfig round-trip the user-editable fields (URL,
	// credentials, map id, token, enabled, display name).
	ToConfig() map[string]any
	FromConfig(cfg map[string]any) error
}

// FetchFailed is the negative sentinel every Fetch implementation returns on
// transport/auth failure, distinguishing it from a zero-records success.
const FetchFailed = -1

// configValidator checks each provider's FromConfig input against its
// validate struct tags (required fields, URL shape) before any field is
// assigned, replacing hand-rolled presence checks with the same
// struct-tag-driven validation Huma already uses on request DTOs.
var configValidator = validator.New()

// validateConfig runs cfg (one provider's tagged config struct, passed by
// value) through configValidator, returning a single combined error.
func validateConfig(cfg any) error {
	if err := configValidator.Struct(cfg); err != nil {
		return err
	}
	return nil
}
