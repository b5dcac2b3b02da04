// Package mapapi is the external Huma v2 surface over the router and
// source manager: a route-query endpoint and source management endpoints,
// grounded on mapservice/dto's query-tag style (generalized from the
// original's signature/wormhole CRUD surface to this system's route and
// source-lifecycle operations).
package mapapi

// RouteInput is the query-parameter input for GET /map/route.
type RouteInput struct {
	FromSystemID  int     `query:"from" required:"true" doc:"Origin system ID"`
	ToSystemID    int     `query:"to" required:"true" doc:"Destination system ID"`
	AvoidSystemID []int   `query:"avoid" doc:"System IDs to hard-avoid"`
	MinSize       string  `query:"min_size" enum:"small,medium,large,xlarge" doc:"Smallest wormhole size the traveling ship fits through"`
	IgnoreEOL     bool    `query:"ignore_eol" doc:"Exclude end-of-life (critical-life) wormholes"`
	IgnoreMassCrit bool   `query:"ignore_mass_crit" doc:"Exclude mass-critical wormholes"`
	MaxAgeHours   float64 `query:"max_age_hours" doc:"Drop wormhole records older than this many hours; 0 means no limit"`
}

// RouteOutputBody is the response body for a successful or failed route
// calculation (spec.md 4.3's failure semantics: an empty path plus a
// human-readable reason, never an error for "no path exists").
type RouteOutputBody struct {
	Path      []int  `json:"path" doc:"Ordered system IDs from origin to destination, empty if unreachable"`
	ShortForm string `json:"short_form" doc:"Human-readable short-circuit rendering of the path"`
}

// RouteOutput wraps RouteOutputBody for huma.Register.
type RouteOutput struct {
	Body RouteOutputBody
}

// SourceSummary describes one configured provider for list responses.
type SourceSummary struct {
	ID      string `json:"id" doc:"Source id"`
	Name    string `json:"name" doc:"Display name"`
	Kind    string `json:"kind" doc:"Provider kind: tripwire, pathfinder, evescout, wanderer"`
	Enabled bool   `json:"enabled" doc:"Whether this source participates in fetch_all"`
}

// ListSourcesOutput wraps the source list.
type ListSourcesOutput struct {
	Body struct {
		Sources []SourceSummary `json:"sources"`
	}
}

// CreateSourceInput is the body for POST /map/sources.
type CreateSourceInput struct {
	Body struct {
		Kind   string         `json:"kind" required:"true" enum:"tripwire,pathfinder,evescout,wanderer" doc:"Provider kind"`
		Config map[string]any `json:"config" required:"true" doc:"Provider-specific configuration (url, credentials, etc)"`
	}
}

// CreateSourceOutput wraps the created source's summary.
type CreateSourceOutput struct {
	Body SourceSummary
}

// RemoveSourceInput identifies a source to delete by path parameter.
type RemoveSourceInput struct {
	ID string `path:"id" doc:"Source id"`
}

// RemoveSourceOutput is an acknowledgement body; removal is idempotent and
// never fails on an unknown id.
type RemoveSourceOutput struct {
	Body struct {
		Removed string `json:"removed"`
	}
}

// FetchOneInput identifies a source to refresh by path parameter.
type FetchOneInput struct {
	ID string `path:"id" doc:"Source id"`
}

// FetchResultOutput reports per-source record counts from a fetch.
type FetchResultOutput struct {
	Body struct {
		Results map[string]int `json:"results" doc:"Record count added per source name, or -1 on fetch failure"`
	}
}

// FetchOneOutput reports a single source's fetch result.
type FetchOneOutput struct {
	Body struct {
		Added int `json:"added" doc:"Records added, or -1 on fetch failure"`
	}
}
