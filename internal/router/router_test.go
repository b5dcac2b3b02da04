package router

import (
	"testing"

	"go-chainmap/internal/connectiondb"
	"go-chainmap/internal/graph"
	"go-chainmap/internal/refdata"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	refDB  *refdata.DB
	connDB *connectiondb.DB
	router *Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	refDB, err := refdata.Load("../refdata/testdata")
	require.NoError(t, err)
	connDB := connectiondb.New()
	connectiondb.SeedGateEdges(connDB, refDB)
	builder := graph.NewBuilder(connDB, 48)
	return &fixture{refDB: refDB, connDB: connDB, router: New(refDB, builder)}
}

func (f *fixture) id(name string) int {
	id, ok := f.refDB.SystemByName(name)
	if !ok {
		panic("unknown test system: " + name)
	}
	return id
}

func namesOf(f *fixture, path []int) []string {
	names := make([]string, len(path))
	for i, id := range path {
		names[i] = f.refDB.System(id).Name
	}
	return names
}

func TestS1PureGates(t *testing.T) {
	f := newFixture(t)
	path, _ := f.router.Route(f.id("Dodixie"), f.id("Jita"), DefaultRestrictions())
	require.Equal(t, 13, len(path)) // 12 hops
	require.Equal(t,
		[]string{"Dodixie", "P1", "P2", "P3", "P4", "P5", "Tama", "P6", "P7", "P8", "P9", "P10", "Jita"},
		namesOf(f, path))
}

func TestS2AvoidMidpoint(t *testing.T) {
	f := newFixture(t)
	r := DefaultRestrictions()
	r.Avoidance = map[int]bool{f.id("Tama"): true}

	path, _ := f.router.Route(f.id("Dodixie"), f.id("Jita"), r)
	require.Equal(t, 14, len(path)) // 13 hops, one longer than S1
	for _, id := range path {
		require.NotEqual(t, f.id("Tama"), id)
	}
}

func TestS3WormholeShortcut(t *testing.T) {
	f := newFixture(t)
	f.connDB.Add(connectiondb.Record{
		ProviderID: "tripwire", EndpointA: f.id("Botane"), EndpointB: f.id("Ikuchi"),
		Kind: connectiondb.Wormhole,
		Wormhole: &connectiondb.WormholeMeta{
			SigA: "ABC-123", SigB: "XYZ-789", Size: refdata.SizeSmall,
			Life: connectiondb.Critical, Mass: connectiondb.MassCritical, AgeHours: 42,
		},
	})

	r := DefaultRestrictions()
	r.AgeThresholdHours = 1000

	path, _ := f.router.Route(f.id("Dodixie"), f.id("Jita"), r)
	require.Equal(t, []string{"Dodixie", "Botane", "Ikuchi", "Jita"}, namesOf(f, path))
}

func TestS4RestrictionFiltersWormhole(t *testing.T) {
	f := newFixture(t)
	f.connDB.Add(connectiondb.Record{
		ProviderID: "tripwire", EndpointA: f.id("Botane"), EndpointB: f.id("Ikuchi"),
		Kind: connectiondb.Wormhole,
		Wormhole: &connectiondb.WormholeMeta{
			SigA: "ABC-123", SigB: "XYZ-789", Size: refdata.SizeSmall,
			Life: connectiondb.Critical, Mass: connectiondb.MassCritical, AgeHours: 42,
		},
	})

	r := DefaultRestrictions()
	r.AgeThresholdHours = 1000
	r.SizeAllowed[refdata.SizeSmall] = false

	path, _ := f.router.Route(f.id("Dodixie"), f.id("Jita"), r)
	require.Equal(t, 13, len(path))
	require.NotContains(t, namesOf(f, path), "Botane")
}

func TestS5AgeFilter(t *testing.T) {
	f := newFixture(t)
	f.connDB.Add(connectiondb.Record{
		ProviderID: "tripwire", EndpointA: f.id("Botane"), EndpointB: f.id("Ikuchi"),
		Kind: connectiondb.Wormhole,
		Wormhole: &connectiondb.WormholeMeta{
			SigA: "ABC-123", SigB: "XYZ-789", Size: refdata.SizeSmall,
			Life: connectiondb.Critical, Mass: connectiondb.MassCritical, AgeHours: 42,
		},
	})

	r := DefaultRestrictions()
	r.AgeThresholdHours = 16

	path, _ := f.router.Route(f.id("Dodixie"), f.id("Jita"), r)
	require.Equal(t, 13, len(path))
	require.NotContains(t, namesOf(f, path), "Botane")
}

func TestS6ZarzakhAsDestination(t *testing.T) {
	f := newFixture(t)
	f.connDB.Add(connectiondb.Record{
		ProviderID: "tripwire", EndpointA: f.id("Ikuchi"), EndpointB: f.id("G-0Q86"),
		Kind: connectiondb.Wormhole,
		Wormhole: &connectiondb.WormholeMeta{
			SigA: "DEF-456", SigB: "UVW-321", Size: refdata.SizeMedium,
			Life: connectiondb.Stable, Mass: connectiondb.MassStable, AgeHours: 2,
		},
	})

	path, _ := f.router.Route(f.id("Ikuchi"), f.id("Zarzakh"), DefaultRestrictions())
	require.Equal(t, []string{"Ikuchi", "G-0Q86", "Zarzakh"}, namesOf(f, path))

	// Jita -> Dodixie must not route through Zarzakh even though no chain
	// connects through it here; the hard exclusion still holds.
	path2, _ := f.router.Route(f.id("Jita"), f.id("Dodixie"), DefaultRestrictions())
	require.NotContains(t, path2, f.id("Zarzakh"))
}

func TestZarzakhNeverIntermediate(t *testing.T) {
	// Invariant 10: even if a gate existed making Zarzakh a tempting
	// midpoint, it must never appear mid-path.
	f := newFixture(t)
	f.connDB.Add(connectiondb.Record{ProviderID: "shortcut", EndpointA: f.id("Dodixie"), EndpointB: refdata.ZarzakhID, Kind: connectiondb.Gate})
	f.connDB.Add(connectiondb.Record{ProviderID: "shortcut", EndpointA: refdata.ZarzakhID, EndpointB: f.id("Jita"), Kind: connectiondb.Gate})

	path, _ := f.router.Route(f.id("Dodixie"), f.id("Jita"), DefaultRestrictions())
	require.NotContains(t, path, refdata.ZarzakhID)
}

func TestSameSourceAndDestination(t *testing.T) {
	f := newFixture(t)
	path, _ := f.router.Route(f.id("Jita"), f.id("Jita"), DefaultRestrictions())
	require.Equal(t, []int{f.id("Jita")}, path)
}

func TestUnknownEndpointReturnsEmpty(t *testing.T) {
	f := newFixture(t)
	path, msg := f.router.Route(f.id("Jita"), 999999999, DefaultRestrictions())
	require.Nil(t, path)
	require.Equal(t, "path not found", msg)
}

func TestAvoidanceEndpointStillReachable(t *testing.T) {
	// Invariant 9: source/destination in avoidance is still reachable.
	f := newFixture(t)
	r := DefaultRestrictions()
	r.Avoidance = map[int]bool{f.id("Dodixie"): true, f.id("Jita"): true}

	path, _ := f.router.Route(f.id("Dodixie"), f.id("Jita"), r)
	require.Equal(t, 13, len(path))
}

func TestSecurityPrioWeighting(t *testing.T) {
	// Heavily penalizing LS makes the Tama-avoiding detour cheaper than the
	// shorter path through it, even without explicit avoidance.
	f := newFixture(t)
	r := DefaultRestrictions()
	r.SecurityPrio[refdata.LS] = 100

	path, _ := f.router.Route(f.id("Dodixie"), f.id("Jita"), r)
	require.NotContains(t, namesOf(f, path), "Tama")
}
