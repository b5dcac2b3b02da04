package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go-chainmap/internal/connectiondb"
	"go-chainmap/internal/refdata"
)

// defaultTripwireSystem is the anchor system passed to refresh.php; Tripwire
// returns the whole chain reachable from it regardless of which system is
// given, so any known system id works (grounded on tripwire.py's default).
const defaultTripwireSystem = "30000142"

// Tripwire fetches a Tripwire chain-mapping instance and resolves wormhole
// signatures into connectiondb.Record values, grounded on tripwire.py's
// Tripwire class. Tripwire's wormhole entries reference signature ids
// (initialID/secondaryID), not system ids directly — the actual endpoints
// come from the chain's signatures dict.
type Tripwire struct {
	id      string
	name    string
	enabled bool
	url     string
	user    string
	pass    string
	refDB   *refdata.DB
	client  *http.Client
}

// NewTripwire constructs a disabled, unconfigured Tripwire client; callers
// populate it via FromConfig before use.
func NewTripwire(id string, refDB *refdata.DB) *Tripwire {
	jar, _ := cookiejar.New(nil)
	client := NewHTTPClient("chainmap-tripwire/1.0")
	client.Jar = jar
	return &Tripwire{id: id, name: "Tripwire", refDB: refDB, client: client}
}

func (t *Tripwire) ID() string    { return t.id }
func (t *Tripwire) Name() string  { return t.name }
func (t *Tripwire) Enabled() bool { return t.enabled }
func (t *Tripwire) Type() Kind    { return KindTripwire }

func (t *Tripwire) ToConfig() map[string]any {
	return map[string]any{
		"url": t.url, "username": t.user, "password": t.pass,
		"name": t.name, "enabled": t.enabled,
	}
}

type tripwireConfig struct {
	URL      string `validate:"required,url"`
	Username string `validate:"required"`
	Password string `validate:"required"`
}

func (t *Tripwire) FromConfig(cfg map[string]any) error {
	rawURL, _ := cfg["url"].(string)
	user, _ := cfg["username"].(string)
	pass, _ := cfg["password"].(string)
	if err := validateConfig(tripwireConfig{URL: rawURL, Username: user, Password: pass}); err != nil {
		return fmt.Errorf("tripwire: invalid config: %w", err)
	}
	t.url = strings.TrimRight(strings.TrimSpace(rawURL), "/")
	t.user = user
	t.pass = pass
	if name, ok := cfg["name"].(string); ok && name != "" {
		t.name = name
	}
	if enabled, ok := cfg["enabled"].(bool); ok {
		t.enabled = enabled
	}
	return nil
}

// Test attempts a login and reports whether credentials are valid.
func (t *Tripwire) Test(ctx context.Context) (bool, string) {
	if err := t.login(ctx); err != nil {
		return false, err.Error()
	}
	return true, "login succeeded"
}

// Fetch refreshes the chain, logging in first if the session has expired,
// and translates every resolvable wormhole into a connectiondb.Record.
func (t *Tripwire) Fetch(ctx context.Context, db *connectiondb.DB) int {
	chain, err := t.fetchChain(ctx)
	if err != nil {
		if loginErr := t.login(ctx); loginErr != nil {
			return FetchFailed
		}
		chain, err = t.fetchChain(ctx)
		if err != nil {
			return FetchFailed
		}
	}

	added := 0
	for _, wh := range chain.Wormholes {
		rec, ok := t.translateWormhole(wh, chain.Signatures)
		if !ok {
			continue
		}
		db.Add(rec)
		added++
	}
	return added
}

func (t *Tripwire) login(ctx context.Context) error {
	loginURL := t.url + "/login.php"

	getReq, err := http.NewRequestWithContext(ctx, http.MethodGet, loginURL, nil)
	if err != nil {
		return err
	}
	setTripwireHeaders(getReq, loginURL)
	if resp, err := t.client.Do(getReq); err == nil {
		resp.Body.Close()
	}

	form := url.Values{"username": {t.user}, "password": {t.pass}, "mode": {"login"}}
	postReq, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	setTripwireHeaders(postReq, loginURL)
	postReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(postReq)
	if err != nil {
		return fmt.Errorf("tripwire login: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tripwire login: status %d", resp.StatusCode)
	}

	var ack struct {
		Result string `json:"result"`
	}
	if json.Unmarshal(body, &ack) == nil && ack.Result == "success" {
		return nil
	}
	if resp.Request.URL.Path == "/login.php" || strings.Contains(strings.ToLower(string(body)), `name="password"`) {
		return fmt.Errorf("tripwire login: invalid credentials")
	}
	return nil
}

func setTripwireHeaders(req *http.Request, referer string) {
	req.Header.Set("Referer", referer)
}

func (t *Tripwire) fetchChain(ctx context.Context) (*tripwireChain, error) {
	refreshURL := t.url + "/refresh.php?" + url.Values{
		"mode":     {"init"},
		"systemID": {defaultTripwireSystem},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, refreshURL, nil)
	if err != nil {
		return nil, err
	}
	setTripwireHeaders(req, refreshURL)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tripwire refresh: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var raw rawTripwireChain
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("tripwire refresh: not JSON: %w", err)
	}

	signatures, err := decodeSignatures(raw.Signatures)
	if err != nil {
		return nil, fmt.Errorf("tripwire refresh: bad signatures: %w", err)
	}
	wormholes, err := decodeWormholes(raw.Wormholes)
	if err != nil {
		return nil, fmt.Errorf("tripwire refresh: bad wormholes: %w", err)
	}

	return &tripwireChain{Signatures: signatures, Wormholes: wormholes}, nil
}

// rawTripwireChain defers decoding signatures/wormholes because Tripwire
// emits them as a JSON object keyed by id when non-empty, but as an empty
// array ("[]") when there are none.
type rawTripwireChain struct {
	Signatures json.RawMessage `json:"signatures"`
	Wormholes  json.RawMessage `json:"wormholes"`
}

type tripwireSignature struct {
	SignatureID  string `json:"signatureID"`
	SystemID     string `json:"systemID"`
	ModifiedTime string `json:"modifiedTime"`
}

type tripwireWormhole struct {
	InitialID   string `json:"initialID"`
	SecondaryID string `json:"secondaryID"`
	Type        string `json:"type"`
	Parent      string `json:"parent"`
	Life        string `json:"life"`
	Mass        string `json:"mass"`
}

type tripwireChain struct {
	Signatures map[string]tripwireSignature
	Wormholes  map[string]tripwireWormhole
}

func decodeSignatures(raw json.RawMessage) (map[string]tripwireSignature, error) {
	if isEmptyJSONArray(raw) {
		return map[string]tripwireSignature{}, nil
	}
	var m map[string]tripwireSignature
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeWormholes(raw json.RawMessage) (map[string]tripwireWormhole, error) {
	if isEmptyJSONArray(raw) {
		return map[string]tripwireWormhole{}, nil
	}
	var m map[string]tripwireWormhole
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func isEmptyJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || string(trimmed) == "[]"
}

// translateWormhole resolves a Tripwire wormhole's parent/sibling signature
// ids to their systems and builds a connectiondb.Record. The GATE type
// denotes a permanent bridge rather than a decaying wormhole, so it
// translates to a Gate-kind record per spec.md 4.4's bridge-like-connection
// rule.
func (t *Tripwire) translateWormhole(wh tripwireWormhole, signatures map[string]tripwireSignature) (connectiondb.Record, bool) {
	parentKey, siblingKey := wh.InitialID, wh.SecondaryID
	if wh.Parent == "secondary" {
		parentKey, siblingKey = wh.SecondaryID, wh.InitialID
	}

	sigIn, ok := signatures[parentKey]
	if !ok {
		return connectiondb.Record{}, false
	}
	sigOut, ok := signatures[siblingKey]
	if !ok {
		return connectiondb.Record{}, false
	}

	systemFrom, errFrom := strconv.Atoi(sigIn.SystemID)
	systemTo, errTo := strconv.Atoi(sigOut.SystemID)
	if errFrom != nil || errTo != nil || systemFrom < 10000 || systemTo < 10000 {
		return connectiondb.Record{}, false
	}

	if strings.EqualFold(wh.Type, "GATE") {
		return NewGateRecord(t.id, systemFrom, systemTo), true
	}

	sigA := NormalizeSignature(sigIn.SignatureID)
	sigB := NormalizeSignature(sigOut.SignatureID)
	typeA := NormalizeTypeCode(wh.Type)
	typeB := placeholderType
	if typeA != placeholderType {
		typeB = "K162"
	}

	life := connectiondb.Critical
	if wh.Life == "stable" {
		life = connectiondb.Stable
	}
	mass := connectiondb.MassCritical
	switch wh.Mass {
	case "stable":
		mass = connectiondb.MassStable
	case "destab":
		mass = connectiondb.MassDestabilized
	}

	classFrom := refdata.NS
	if sys := t.refDB.System(systemFrom); sys != nil {
		classFrom = sys.Class
	}
	classTo := refdata.NS
	if sys := t.refDB.System(systemTo); sys != nil {
		classTo = sys.Class
	}
	size := InferSize(wh.Type, classFrom, classTo)

	age := 0.0
	if modified, err := time.Parse("2006-01-02 15:04:05", sigIn.ModifiedTime); err == nil {
		age = AgeHours(modified.UTC())
	}

	return NewWormholeRecord(t.id, systemFrom, systemTo, connectiondb.WormholeMeta{
		SigA: sigA, SigB: sigB, TypeA: typeA, TypeB: typeB,
		Size: size, Life: life, Mass: mass, AgeHours: age,
	}), true
}
