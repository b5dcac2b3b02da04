package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-chainmap/internal/connectiondb"

	"github.com/stretchr/testify/require"
)

func TestPathfinderFetchTranslatesConnections(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Write([]byte(`{"connections": [
			{"source": "30000016", "target": "30000017", "source_sig": "abc123", "target_sig": "xyz789",
			 "type": "K346", "life": "stable", "mass": "stable"}
		]}`))
	}))
	defer srv.Close()

	refDB := testRefDB(t)
	pf := NewPathfinder("pf1", refDB)
	require.NoError(t, pf.FromConfig(map[string]any{"url": srv.URL, "token": "secret"}))

	db := connectiondb.New()
	require.Equal(t, 1, pf.Fetch(context.Background(), db))

	resolved := db.Resolved(1000)
	require.Len(t, resolved, 1)
	require.Equal(t, "ABC-123", resolved[0].Wormhole.SigA)
}

func TestPathfinderTranslateTypeCodeChartOutranksSizeHint(t *testing.T) {
	refDB := testRefDB(t)
	pf := NewPathfinder("pf1", refDB)
	require.NoError(t, pf.FromConfig(map[string]any{"url": "http://example.invalid"}))

	// D382 is a known C2 static (chart size: large); the "size" hint
	// disagrees and must lose, matching pathfinder.py's
	// type-code-chart-first, hint-second, class-pair-last priority.
	rec, ok := pf.translate(pathfinderConnection{
		Source: "30000016", Target: "30000017",
		SourceSig: "abc", TargetSig: "xyz",
		Type: "D382", Size: "small",
	})
	require.True(t, ok)
	require.Equal(t, "large", string(rec.Wormhole.Size))
}

func TestPathfinderFetchFailsOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	refDB := testRefDB(t)
	pf := NewPathfinder("pf1", refDB)
	require.NoError(t, pf.FromConfig(map[string]any{"url": srv.URL}))

	db := connectiondb.New()
	require.Equal(t, FetchFailed, pf.Fetch(context.Background(), db))
}
