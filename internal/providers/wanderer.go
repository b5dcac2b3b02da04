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

// Wanderer fetches a Wanderer map's signature list over a bearer-token API,
// grounded on wanderer.py's Wanderer class. Unlike Tripwire, a wormhole
// signature's linked system is reported directly (linked_system_id), with no
// signature-id indirection to resolve.
type Wanderer struct {
	id      string
	name    string
	enabled bool
	url     string
	mapID   string
	token   string
	refDB   *refdata.DB
	client  *http.Client
}

// NewWanderer constructs a disabled, unconfigured Wanderer client; callers
// populate it via FromConfig.
func NewWanderer(id string, refDB *refdata.DB) *Wanderer {
	return &Wanderer{id: id, name: "Wanderer", refDB: refDB, client: NewHTTPClient("chainmap-wanderer/1.0")}
}

func (w *Wanderer) ID() string    { return w.id }
func (w *Wanderer) Name() string  { return w.name }
func (w *Wanderer) Enabled() bool { return w.enabled }
func (w *Wanderer) Type() Kind    { return KindWanderer }

func (w *Wanderer) ToConfig() map[string]any {
	return map[string]any{
		"url": w.url, "map_id": w.mapID, "token": w.token,
		"name": w.name, "enabled": w.enabled,
	}
}

type wandererConfig struct {
	URL   string `validate:"required,url"`
	MapID string `validate:"required"`
	Token string `validate:"required"`
}

func (w *Wanderer) FromConfig(cfg map[string]any) error {
	rawURL, _ := cfg["url"].(string)
	mapID, _ := cfg["map_id"].(string)
	token, _ := cfg["token"].(string)

	url := strings.TrimRight(strings.TrimSpace(rawURL), "/")
	if url != "" && !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	if err := validateConfig(wandererConfig{URL: url, MapID: mapID, Token: token}); err != nil {
		return fmt.Errorf("wanderer: invalid config: %w", err)
	}
	w.url, w.mapID, w.token = url, mapID, token
	if name, ok := cfg["name"].(string); ok && name != "" {
		w.name = name
	}
	if enabled, ok := cfg["enabled"].(bool); ok {
		w.enabled = enabled
	}
	return nil
}

func (w *Wanderer) signaturesURL() string {
	return fmt.Sprintf("%s/api/maps/%s/signatures", w.url, w.mapID)
}

func (w *Wanderer) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+w.token)
	req.Header.Set("Accept", "application/json")
}

func (w *Wanderer) Test(ctx context.Context) (bool, string) {
	if w.url == "" || w.mapID == "" || w.token == "" {
		return false, "missing url, map id or token"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.signaturesURL(), nil)
	if err != nil {
		return false, err.Error()
	}
	w.authorize(req)

	resp, err := w.client.Do(req)
	if err != nil {
		return false, fmt.Sprintf("connection error: %v", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, "connection successful"
	case http.StatusUnauthorized:
		return false, "unauthorized: check your token"
	case http.StatusNotFound:
		return false, "map not found or invalid URL"
	default:
		return false, fmt.Sprintf("HTTP error %d", resp.StatusCode)
	}
}

type wandererSignature struct {
	Group          string          `json:"group"`
	SolarSystemID  json.Number     `json:"solar_system_id"`
	LinkedSystemID json.Number     `json:"linked_system_id"`
	CustomInfo     json.RawMessage `json:"custom_info"`
	Type           string          `json:"type"`
	EveID          string          `json:"eve_id"`
	UpdatedAt      string          `json:"updated_at"`
}

type wandererCustomInfo struct {
	TimeStatus int `json:"time_status"`
	MassStatus int `json:"mass_status"`
}

type wandererEnvelope struct {
	Data []wandererSignature `json:"data"`
}

// Fetch pulls the map's signature list and translates every Wormhole-group
// entry with a linked system into a connectiondb.Record.
func (w *Wanderer) Fetch(ctx context.Context, db *connectiondb.DB) int {
	if w.url == "" || w.mapID == "" || w.token == "" {
		return FetchFailed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.signaturesURL(), nil)
	if err != nil {
		return FetchFailed
	}
	w.authorize(req)

	resp, err := w.client.Do(req)
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

	var envelope wandererEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return FetchFailed
	}

	added := 0
	for _, sig := range envelope.Data {
		if sig.Group != "Wormhole" {
			continue
		}
		rec, ok := w.translate(sig)
		if !ok {
			continue
		}
		db.Add(rec)
		added++
	}
	return added
}

func (w *Wanderer) translate(sig wandererSignature) (connectiondb.Record, bool) {
	systemID, errA := sig.SolarSystemID.Int64()
	linkedID, errB := sig.LinkedSystemID.Int64()
	if errA != nil || errB != nil || systemID == 0 || linkedID == 0 {
		return connectiondb.Record{}, false
	}

	timeStatus, massStatus := 1, 1
	var info wandererCustomInfo
	if len(sig.CustomInfo) > 0 {
		var unquoted string
		if json.Unmarshal(sig.CustomInfo, &unquoted) == nil {
			json.Unmarshal([]byte(unquoted), &info)
		} else {
			json.Unmarshal(sig.CustomInfo, &info)
		}
		if info.TimeStatus != 0 {
			timeStatus = info.TimeStatus
		}
		if info.MassStatus != 0 {
			massStatus = info.MassStatus
		}
	}

	life := connectiondb.Stable
	if timeStatus == 2 {
		life = connectiondb.Critical
	}
	mass := connectiondb.MassStable
	switch massStatus {
	case 2:
		mass = connectiondb.MassDestabilized
	case 3:
		mass = connectiondb.MassCritical
	}

	typeIn := sig.Type
	if typeIn == "" {
		typeIn = "????"
	}
	typeOut := "????"
	if typeIn != "????" && typeIn != "K162" {
		typeOut = "K162"
	}

	classA, classB := refdata.NS, refdata.NS
	if sys := w.refDB.System(int(systemID)); sys != nil {
		classA = sys.Class
	}
	if sys := w.refDB.System(int(linkedID)); sys != nil {
		classB = sys.Class
	}
	size := InferSize(typeIn, classA, classB)

	age := 0.0
	if sig.UpdatedAt != "" {
		stamp := sig.UpdatedAt
		if strings.HasSuffix(stamp, "Z") {
			stamp = strings.TrimSuffix(stamp, "Z") + "+00:00"
		}
		if ts, err := time.Parse("2006-01-02T15:04:05-07:00", stamp); err == nil {
			age = AgeHours(ts)
		}
	}

	sigID := sig.EveID
	if sigID == "" {
		sigID = "???"
	}

	return NewWormholeRecord(w.id, int(systemID), int(linkedID), connectiondb.WormholeMeta{
		SigA: NormalizeSignature(sigID), SigB: placeholderSig,
		TypeA: NormalizeTypeCode(typeIn), TypeB: NormalizeTypeCode(typeOut),
		Size: size, Life: life, Mass: mass, AgeHours: age,
	}), true
}
