package mapapi

import (
	"context"
	"testing"

	"go-chainmap/internal/connectiondb"
	"go-chainmap/internal/graph"
	"go-chainmap/internal/providers"
	"go-chainmap/internal/refdata"
	"go-chainmap/internal/router"
	"go-chainmap/internal/sourcemanager"

	"github.com/stretchr/testify/require"
)

func newTestRoutes(t *testing.T) *Routes {
	t.Helper()
	refDB, err := refdata.Load("../refdata/testdata")
	require.NoError(t, err)

	connDB := connectiondb.New()
	connectiondb.SeedGateEdges(connDB, refDB)

	builder := graph.NewBuilder(connDB, 36)
	rt := router.New(refDB, builder)
	sources := sourcemanager.New(refDB, nil)
	return NewRoutes(refDB, connDB, rt, sources, nil)
}

func TestCalculateRouteReturnsPathOverGateEdges(t *testing.T) {
	rt := newTestRoutes(t)
	out, err := rt.calculateRoute(context.Background(), &RouteInput{FromSystemID: 30000001, ToSystemID: 30000013})
	require.NoError(t, err)
	require.NotEmpty(t, out.Body.Path)
	require.Equal(t, 30000001, out.Body.Path[0])
	require.Equal(t, 30000013, out.Body.Path[len(out.Body.Path)-1])
}

func TestCalculateRouteHonorsAvoidance(t *testing.T) {
	rt := newTestRoutes(t)
	out, err := rt.calculateRoute(context.Background(), &RouteInput{
		FromSystemID:  30000001,
		ToSystemID:    30000013,
		AvoidSystemID: []int{30000002, 30000003, 30000004, 30000005, 30000006, 30000007, 30000008, 30000009, 30000010, 30000011, 30000012, 30000014, 30000015, 30000016, 30000017},
	})
	require.NoError(t, err)
	require.Empty(t, out.Body.Path)
	require.Equal(t, "path not found", out.Body.ShortForm)
}

func TestCreateListAndRemoveSource(t *testing.T) {
	rt := newTestRoutes(t)
	rt.sources.RegisterProviderKind(providers.KindEveScout, func(id string, refDB *refdata.DB) providers.Client {
		return providers.NewEveScout(id, refDB)
	})

	input := &CreateSourceInput{}
	input.Body.Kind = "evescout"
	input.Body.Config = map[string]any{"name": "Eve Scout", "enabled": true}
	created, err := rt.createSource(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, "evescout", created.Body.Kind)

	list, err := rt.listSources(context.Background(), &struct{}{})
	require.NoError(t, err)
	require.Len(t, list.Body.Sources, 1)

	removed, err := rt.removeSource(context.Background(), &RemoveSourceInput{ID: created.Body.ID})
	require.NoError(t, err)
	require.Equal(t, created.Body.ID, removed.Body.Removed)

	list, err = rt.listSources(context.Background(), &struct{}{})
	require.NoError(t, err)
	require.Empty(t, list.Body.Sources)
}

func TestSizeAtLeast(t *testing.T) {
	require.True(t, sizeAtLeast(refdata.SizeLarge, refdata.SizeMedium))
	require.False(t, sizeAtLeast(refdata.SizeSmall, refdata.SizeMedium))
	require.True(t, sizeAtLeast(refdata.SizeUnknown, refdata.SizeLarge))
}
