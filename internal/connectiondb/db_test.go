package connectiondb

import (
	"testing"

	"go-chainmap/internal/refdata"

	"github.com/stretchr/testify/require"
)

func gateRecord(provider string, a, b int) Record {
	return Record{ProviderID: provider, EndpointA: a, EndpointB: b, Kind: Gate}
}

func whRecord(provider string, a, b int, age float64, life Life) Record {
	return Record{
		ProviderID: provider, EndpointA: a, EndpointB: b, Kind: Wormhole,
		Wormhole: &WormholeMeta{Size: refdata.SizeMedium, Life: life, Mass: MassStable, AgeHours: age},
	}
}

func TestIdempotentIngest(t *testing.T) {
	db := New()
	r := whRecord("alpha", 1, 2, 5, Stable)
	db.Add(r)
	db.Add(r)
	require.Len(t, db.Resolved(48), 1)
}

func TestProviderIsolation(t *testing.T) {
	db := New()
	db.Add(whRecord("alpha", 1, 2, 5, Stable))
	db.Add(whRecord("beta", 1, 2, 10, Stable))
	db.Add(whRecord("alpha", 3, 4, 1, Stable))

	db.ClearProvider("alpha")

	resolved := db.Resolved(48)
	require.Len(t, resolved, 1)
	require.Equal(t, "beta", resolved[0].ProviderID)
}

func TestGateDominance(t *testing.T) {
	db := New()
	db.Add(gateRecord("ref", 1, 2))
	db.Add(whRecord("alpha", 1, 2, 1000, Critical))

	resolved := db.Resolved(48)
	require.Len(t, resolved, 1)
	require.Equal(t, Gate, resolved[0].Kind)
}

func TestFreshnessOrder(t *testing.T) {
	db := New()
	db.Add(whRecord("alpha", 1, 2, 10, Stable))
	db.Add(whRecord("beta", 1, 2, 2, Stable))

	resolved := db.Resolved(48)
	require.Len(t, resolved, 1)
	require.Equal(t, "beta", resolved[0].ProviderID)
}

func TestHealthTiebreak(t *testing.T) {
	db := New()
	db.Add(whRecord("alpha", 1, 2, 5, Critical))
	db.Add(whRecord("beta", 1, 2, 5, Stable))

	resolved := db.Resolved(48)
	require.Len(t, resolved, 1)
	require.Equal(t, "beta", resolved[0].ProviderID)
}

func TestStaleExclusion(t *testing.T) {
	db := New()
	db.Add(whRecord("alpha", 1, 2, 100, Stable))

	require.Empty(t, db.Resolved(48))
}

func TestDeterministicTiebreak(t *testing.T) {
	db := New()
	db.Add(whRecord("zulu", 1, 2, 5, Stable))
	db.Add(whRecord("alpha", 1, 2, 5, Stable))

	resolved := db.Resolved(48)
	require.Len(t, resolved, 1)
	require.Equal(t, "alpha", resolved[0].ProviderID)
}

func TestMultiProviderDedupAndClear(t *testing.T) {
	// S7: two providers contribute the same pair with different ages.
	db := New()
	db.Add(whRecord("tripwire", 1, 2, 20, Stable))
	db.Add(whRecord("wanderer", 1, 2, 3, Stable))

	resolved := db.Resolved(48)
	require.Len(t, resolved, 1)
	require.Equal(t, "wanderer", resolved[0].ProviderID)

	db.ClearProvider("wanderer")
	resolved = db.Resolved(48)
	require.Len(t, resolved, 1)
	require.Equal(t, "tripwire", resolved[0].ProviderID)
}

func TestVersionBumpsOnMutation(t *testing.T) {
	db := New()
	v0 := db.Version()
	db.Add(whRecord("alpha", 1, 2, 5, Stable))
	require.Greater(t, db.Version(), v0)

	v1 := db.Version()
	db.ClearProvider("nonexistent")
	require.Equal(t, v1, db.Version())
}
