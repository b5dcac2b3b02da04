package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go-chainmap/internal/connectiondb"
	"go-chainmap/internal/refdata"
)

const defaultEveScoutURL = "https://api.eve-scout.com/v2/public/signatures"

// EveScout fetches the public Thera/Turnur connection feed, which needs no
// credentials, grounded on evescout.py's EveScout class.
type EveScout struct {
	id      string
	name    string
	enabled bool
	url     string
	refDB   *refdata.DB
	client  *http.Client
}

// NewEveScout constructs an EveScout client pointed at the public feed by
// default; FromConfig may override the URL for a mirror or test double.
func NewEveScout(id string, refDB *refdata.DB) *EveScout {
	return &EveScout{
		id: id, name: "EVE Scout", url: defaultEveScoutURL, refDB: refDB,
		client: NewHTTPClient("chainmap-evescout/1.0"),
	}
}

func (e *EveScout) ID() string    { return e.id }
func (e *EveScout) Name() string  { return e.name }
func (e *EveScout) Enabled() bool { return e.enabled }
func (e *EveScout) Type() Kind    { return KindEveScout }

func (e *EveScout) ToConfig() map[string]any {
	return map[string]any{"url": e.url, "name": e.name, "enabled": e.enabled}
}

type eveScoutConfig struct {
	URL string `validate:"omitempty,url"`
}

func (e *EveScout) FromConfig(cfg map[string]any) error {
	if rawURL, ok := cfg["url"].(string); ok && rawURL != "" {
		rawURL = strings.TrimSpace(rawURL)
		if err := validateConfig(eveScoutConfig{URL: rawURL}); err != nil {
			return fmt.Errorf("evescout: invalid config: %w", err)
		}
		e.url = rawURL
	}
	if name, ok := cfg["name"].(string); ok && name != "" {
		e.name = name
	}
	if enabled, ok := cfg["enabled"].(bool); ok {
		e.enabled = enabled
	}
	return nil
}

func (e *EveScout) Test(ctx context.Context) (bool, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.url, nil)
	if err != nil {
		return false, err.Error()
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return false, fmt.Sprintf("connection failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Sprintf("HTTP error %d", resp.StatusCode)
	}
	return true, "connection successful"
}

type eveScoutSignature struct {
	InSystemID     int     `json:"in_system_id"`
	InSignature    string  `json:"in_signature"`
	OutSystemID    int     `json:"out_system_id"`
	OutSignature   string  `json:"out_signature"`
	WhType         string  `json:"wh_type"`
	WhExitsOutward bool    `json:"wh_exits_outward"`
	RemainingHours float64 `json:"remaining_hours"`
	UpdatedAt      string  `json:"updated_at"`
}

// Fetch pulls the public signature list. EveScout does not report mass
// status for its connections (they're refreshed by CCP on a short clock),
// so every record is translated with Mass stable rather than an invented
// health state.
func (e *EveScout) Fetch(ctx context.Context, db *connectiondb.DB) int {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.url, nil)
	if err != nil {
		return FetchFailed
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return FetchFailed
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return FetchFailed
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchFailed
	}

	var sigs []eveScoutSignature
	if err := json.Unmarshal(body, &sigs); err != nil {
		return FetchFailed
	}

	added := 0
	for _, sig := range sigs {
		if sig.InSystemID == 0 || sig.OutSystemID == 0 {
			continue
		}
		db.Add(e.translate(sig))
		added++
	}
	return added
}

func (e *EveScout) translate(sig eveScoutSignature) connectiondb.Record {
	codeIn, codeOut := sig.WhType, "K162"
	if sig.WhExitsOutward {
		codeIn, codeOut = "K162", sig.WhType
	}

	life := connectiondb.Critical
	if sig.RemainingHours >= 4 {
		life = connectiondb.Stable
	}

	classA, classB := refdata.NS, refdata.NS
	if sys := e.refDB.System(sig.InSystemID); sys != nil {
		classA = sys.Class
	}
	if sys := e.refDB.System(sig.OutSystemID); sys != nil {
		classB = sys.Class
	}
	size := InferSize(codeIn, classA, classB)
	if size == refdata.SizeUnknown {
		size = InferSize(codeOut, classA, classB)
	}

	age := 0.0
	if ts, err := time.Parse("2006-01-02T15:04:05.000Z", sig.UpdatedAt); err == nil {
		age = AgeHours(ts)
	}

	return NewWormholeRecord(e.id, sig.InSystemID, sig.OutSystemID, connectiondb.WormholeMeta{
		SigA: NormalizeSignature(sig.InSignature), SigB: NormalizeSignature(sig.OutSignature),
		TypeA: NormalizeTypeCode(codeIn), TypeB: NormalizeTypeCode(codeOut),
		Size: size, Life: life, Mass: connectiondb.MassStable, AgeHours: age,
	})
}
