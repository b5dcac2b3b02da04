package graph

import (
	"testing"

	"go-chainmap/internal/connectiondb"
	"go-chainmap/internal/refdata"

	"github.com/stretchr/testify/require"
)

func testConnDB(t *testing.T) *connectiondb.DB {
	t.Helper()
	refDB, err := refdata.Load("../refdata/testdata")
	require.NoError(t, err)
	connDB := connectiondb.New()
	connectiondb.SeedGateEdges(connDB, refDB)
	return connDB
}

func TestRebuildOnMutation(t *testing.T) {
	connDB := testConnDB(t)
	b := NewBuilder(connDB, 48)

	g1 := b.Graph()
	require.True(t, g1.Has(30000001)) // Dodixie, from static gates
	_, hasEdge := g1.Node(30000016).Edges[30000017]
	require.False(t, hasEdge)

	connDB.Add(connectiondb.Record{
		ProviderID: "tripwire", EndpointA: 30000016, EndpointB: 30000017,
		Kind: connectiondb.Wormhole,
		Wormhole: &connectiondb.WormholeMeta{
			SigA: "ABC-123", SigB: "XYZ-789", Size: refdata.SizeSmall,
			Life: connectiondb.Critical, Mass: connectiondb.MassCritical, AgeHours: 42,
		},
	})

	g2 := b.Graph()
	edge, ok := g2.Node(30000016).Edges[30000017]
	require.True(t, ok)
	require.Equal(t, connectiondb.Wormhole, edge.Kind)
	require.Equal(t, "ABC-123", edge.Wormhole.Sig)

	reciprocal := g2.Node(30000017).Edges[30000016]
	require.Equal(t, "XYZ-789", reciprocal.Wormhole.Sig)
}

func TestMemoizedWithoutMutation(t *testing.T) {
	connDB := testConnDB(t)
	b := NewBuilder(connDB, 48)

	g1 := b.Graph()
	g2 := b.Graph()
	require.Same(t, g1, g2)
}

func TestGateEdgeHasNoWormholeMetadata(t *testing.T) {
	connDB := testConnDB(t)
	b := NewBuilder(connDB, 48)

	g := b.Graph()
	edge := g.Node(30000001).Edges[30000002]
	require.Equal(t, connectiondb.Gate, edge.Kind)
	require.Nil(t, edge.Wormhole)
}
