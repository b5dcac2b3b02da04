package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-chainmap/internal/connectiondb"

	"github.com/stretchr/testify/require"
)

func TestEveScoutFetchTranslatesSignatures(t *testing.T) {
	stamp := time.Now().UTC().Add(-3 * time.Hour).Format("2006-01-02T15:04:05.000Z")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fmt.Sprintf(`[{
			"in_system_id": 30000016, "in_signature": "abc123",
			"out_system_id": 30000017, "out_signature": "xyz789",
			"wh_type": "K346", "wh_exits_outward": false,
			"remaining_hours": 10, "updated_at": "%s"
		}]`, stamp)))
	}))
	defer srv.Close()

	refDB := testRefDB(t)
	es := NewEveScout("es1", refDB)
	require.NoError(t, es.FromConfig(map[string]any{"url": srv.URL}))

	db := connectiondb.New()
	require.Equal(t, 1, es.Fetch(context.Background(), db))

	resolved := db.Resolved(1000)
	require.Len(t, resolved, 1)
	require.Equal(t, connectiondb.Stable, resolved[0].Wormhole.Life)
	require.Equal(t, "K346", resolved[0].Wormhole.TypeA)
	require.Equal(t, "K162", resolved[0].Wormhole.TypeB)
}

func TestEveScoutFetchFailsOnTransportError(t *testing.T) {
	refDB := testRefDB(t)
	es := NewEveScout("es1", refDB)
	require.NoError(t, es.FromConfig(map[string]any{"url": "http://127.0.0.1:0"}))

	db := connectiondb.New()
	require.Equal(t, FetchFailed, es.Fetch(context.Background(), db))
}
