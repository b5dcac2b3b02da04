package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-chainmap/internal/connectiondb"
	"go-chainmap/internal/refdata"

	"github.com/stretchr/testify/require"
)

func testRefDB(t *testing.T) *refdata.DB {
	t.Helper()
	refDB, err := refdata.Load("../refdata/testdata")
	require.NoError(t, err)
	return refDB
}

func newTripwireServer(t *testing.T, loggedIn *bool, chain string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login.php", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if r.FormValue("username") == "tester" && r.FormValue("password") == "secret" {
				*loggedIn = true
				w.Write([]byte(`{"result":"success"}`))
				return
			}
			w.Write([]byte(`<html><input name="password"></html>`))
			return
		}
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/refresh.php", func(w http.ResponseWriter, r *http.Request) {
		if !*loggedIn {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chain))
	})
	return httptest.NewServer(mux)
}

const tripwireChainFixture = `{
  "esi": {}, "sync": "", "flares": {"flares": [], "last_modified": ""},
  "proccessTime": "", "discord_integration": false,
  "signatures": {
    "1": {"signatureID": "ABC123", "systemID": "30000016", "modifiedTime": "%s"},
    "2": {"signatureID": "XYZ789", "systemID": "30000017", "modifiedTime": "%s"}
  },
  "wormholes": {
    "10": {"initialID": "1", "secondaryID": "2", "type": "K346", "parent": "initial", "life": "stable", "mass": "stable"}
  }
}`

func TestTripwireFetchRequiresLoginThenSucceeds(t *testing.T) {
	loggedIn := false
	stamp := time.Now().UTC().Add(-2 * time.Hour).Format("2006-01-02 15:04:05")
	chain := fmt.Sprintf(tripwireChainFixture, stamp, stamp)
	srv := newTripwireServer(t, &loggedIn, chain)
	defer srv.Close()

	refDB := testRefDB(t)
	tw := NewTripwire("tw1", refDB)
	require.NoError(t, tw.FromConfig(map[string]any{
		"url": srv.URL, "username": "tester", "password": "secret",
	}))

	db := connectiondb.New()
	added := tw.Fetch(context.Background(), db)
	require.Equal(t, 1, added)

	resolved := db.Resolved(1000)
	require.Len(t, resolved, 1)
	require.Equal(t, connectiondb.Wormhole, resolved[0].Kind)
	require.Equal(t, "ABC-123", resolved[0].Wormhole.SigA)
	require.Equal(t, "XYZ-789", resolved[0].Wormhole.SigB)
	require.Equal(t, connectiondb.Stable, resolved[0].Wormhole.Life)
}

func TestTripwireFetchFailsOnBadCredentials(t *testing.T) {
	loggedIn := false
	srv := newTripwireServer(t, &loggedIn, tripwireChainFixture)
	defer srv.Close()

	refDB := testRefDB(t)
	tw := NewTripwire("tw1", refDB)
	require.NoError(t, tw.FromConfig(map[string]any{
		"url": srv.URL, "username": "tester", "password": "wrong",
	}))

	db := connectiondb.New()
	require.Equal(t, FetchFailed, tw.Fetch(context.Background(), db))
}

func TestTripwireGateTypeTranslatesToGateRecord(t *testing.T) {
	loggedIn := true
	stamp := time.Now().UTC().Format("2006-01-02 15:04:05")
	chain := `{"esi":{},"sync":"","flares":{"flares":[],"last_modified":""},"proccessTime":"","discord_integration":false,` +
		`"signatures":{"1":{"signatureID":"ABC123","systemID":"30000016","modifiedTime":"` + stamp + `"},` +
		`"2":{"signatureID":"XYZ789","systemID":"30000017","modifiedTime":"` + stamp + `"}},` +
		`"wormholes":{"10":{"initialID":"1","secondaryID":"2","type":"GATE","parent":"initial","life":"stable","mass":"stable"}}}`
	srv := newTripwireServer(t, &loggedIn, chain)
	defer srv.Close()

	refDB := testRefDB(t)
	tw := NewTripwire("tw1", refDB)
	require.NoError(t, tw.FromConfig(map[string]any{
		"url": srv.URL, "username": "tester", "password": "secret",
	}))

	db := connectiondb.New()
	require.Equal(t, 1, tw.Fetch(context.Background(), db))

	resolved := db.Resolved(1000)
	require.Len(t, resolved, 1)
	require.Equal(t, connectiondb.Gate, resolved[0].Kind)
	require.Nil(t, resolved[0].Wormhole)
}

