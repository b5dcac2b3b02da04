package mapapi

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go-chainmap/internal/connectiondb"
	"go-chainmap/internal/providers"
	"go-chainmap/internal/refdata"
	"go-chainmap/internal/router"
	"go-chainmap/internal/sourcemanager"
	"go-chainmap/pkg/database"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
)

// routeCacheTTL bounds how long a calculated route is served from Redis
// before being recomputed, grounded on RouteService's cacheRoute/
// getRouteFromCache read-heavy-rebuild-on-write idiom.
const routeCacheTTL = 5 * time.Minute

// Routes registers the map-routing and source-management endpoints,
// grounded on sitemap/routes.RegisterUnifiedRoutes's huma.Register-per-
// operation style.
type Routes struct {
	refDB   *refdata.DB
	connDB  *connectiondb.DB
	router  *router.Router
	sources *sourcemanager.Manager
	redis   *database.Redis // nil disables caching; route queries just recompute every time
}

// NewRoutes wires the HTTP surface to the routing and source-management
// core. redis may be nil.
func NewRoutes(refDB *refdata.DB, connDB *connectiondb.DB, r *router.Router, sources *sourcemanager.Manager, redis *database.Redis) *Routes {
	return &Routes{refDB: refDB, connDB: connDB, router: r, sources: sources, redis: redis}
}

// Register adds every operation under basePath to api.
func (rt *Routes) Register(api huma.API, basePath string) {
	huma.Register(api, huma.Operation{
		OperationID: "calculate-route",
		Method:      "GET",
		Path:        basePath + "/route",
		Summary:     "Calculate a shortest path between two systems",
		Tags:        []string{"Map"},
	}, rt.calculateRoute)

	huma.Register(api, huma.Operation{
		OperationID: "list-sources",
		Method:      "GET",
		Path:        basePath + "/sources",
		Summary:     "List configured connection-data sources",
		Tags:        []string{"Map"},
	}, rt.listSources)

	huma.Register(api, huma.Operation{
		OperationID: "create-source",
		Method:      "POST",
		Path:        basePath + "/sources",
		Summary:     "Add a connection-data source",
		Tags:        []string{"Map"},
	}, rt.createSource)

	huma.Register(api, huma.Operation{
		OperationID: "remove-source",
		Method:      "DELETE",
		Path:        basePath + "/sources/{id}",
		Summary:     "Remove a connection-data source",
		Tags:        []string{"Map"},
	}, rt.removeSource)

	huma.Register(api, huma.Operation{
		OperationID: "refresh-source",
		Method:      "POST",
		Path:        basePath + "/sources/{id}/refresh",
		Summary:     "Refresh a single connection-data source",
		Tags:        []string{"Map"},
	}, rt.fetchOne)

	huma.Register(api, huma.Operation{
		OperationID: "refresh-all-sources",
		Method:      "POST",
		Path:        basePath + "/sources/refresh",
		Summary:     "Refresh every enabled connection-data source",
		Tags:        []string{"Map"},
	}, rt.fetchAll)
}

func (rt *Routes) calculateRoute(ctx context.Context, input *RouteInput) (*RouteOutput, error) {
	cacheKey := rt.routeCacheKey(input)
	if rt.redis != nil {
		var cached RouteOutputBody
		if err := rt.redis.GetJSON(ctx, cacheKey, &cached); err == nil {
			return &RouteOutput{Body: cached}, nil
		}
	}

	restrictions := router.DefaultRestrictions()
	if input.MinSize != "" {
		minSize := refdata.WormholeSize(input.MinSize)
		for size := range restrictions.SizeAllowed {
			restrictions.SizeAllowed[size] = sizeAtLeast(size, minSize)
		}
	}
	restrictions.IgnoreEOL = input.IgnoreEOL
	restrictions.IgnoreMassCrit = input.IgnoreMassCrit
	if input.MaxAgeHours > 0 {
		restrictions.AgeThresholdHours = input.MaxAgeHours
	}
	if len(input.AvoidSystemID) > 0 {
		restrictions.Avoidance = make(map[int]bool, len(input.AvoidSystemID))
		for _, id := range input.AvoidSystemID {
			restrictions.Avoidance[id] = true
		}
	}

	path, shortForm := rt.router.Route(input.FromSystemID, input.ToSystemID, restrictions)
	body := RouteOutputBody{Path: path, ShortForm: shortForm}

	if rt.redis != nil {
		if err := rt.redis.SetJSON(ctx, cacheKey, body, routeCacheTTL); err != nil {
			slog.Warn("failed to cache route result", "error", err)
		}
	}
	return &RouteOutput{Body: body}, nil
}

// routeCacheKey folds the connection DB's version into the key so a stale
// cached route (computed before a provider fetch changed the chain) is
// never served: once the version advances, prior keys simply go unused and
// expire via routeCacheTTL rather than requiring explicit invalidation.
func (rt *Routes) routeCacheKey(input *RouteInput) string {
	return fmt.Sprintf("chainmap:route:v%d:%d:%d:%s:%v:%v:%.1f:%v",
		rt.connDB.Version(), input.FromSystemID, input.ToSystemID, input.MinSize,
		input.IgnoreEOL, input.IgnoreMassCrit, input.MaxAgeHours, input.AvoidSystemID)
}

var sizeOrder = map[refdata.WormholeSize]int{
	refdata.SizeSmall: 0, refdata.SizeMedium: 1, refdata.SizeLarge: 2, refdata.SizeXLarge: 3,
}

func sizeAtLeast(size, min refdata.WormholeSize) bool {
	sizeRank, ok := sizeOrder[size]
	if !ok {
		return true // unknown size is never filtered out by a minimum-size restriction
	}
	minRank, ok := sizeOrder[min]
	if !ok {
		return true
	}
	return sizeRank >= minRank
}

func (rt *Routes) listSources(ctx context.Context, input *struct{}) (*ListSourcesOutput, error) {
	out := &ListSourcesOutput{}
	for _, s := range rt.sources.Sources() {
		out.Body.Sources = append(out.Body.Sources, SourceSummary{
			ID: s.ID(), Name: s.Name(), Kind: string(s.Type()), Enabled: s.Enabled(),
		})
	}
	return out, nil
}

func (rt *Routes) createSource(ctx context.Context, input *CreateSourceInput) (*CreateSourceOutput, error) {
	id := uuid.NewString()
	client, err := rt.sources.AddSource(ctx, id, providers.Kind(input.Body.Kind), input.Body.Config)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}
	return &CreateSourceOutput{Body: SourceSummary{
		ID: client.ID(), Name: client.Name(), Kind: string(client.Type()), Enabled: client.Enabled(),
	}}, nil
}

func (rt *Routes) removeSource(ctx context.Context, input *RemoveSourceInput) (*RemoveSourceOutput, error) {
	rt.sources.RemoveSource(ctx, input.ID, rt.connDB)
	out := &RemoveSourceOutput{}
	out.Body.Removed = input.ID
	return out, nil
}

func (rt *Routes) fetchOne(ctx context.Context, input *FetchOneInput) (*FetchOneOutput, error) {
	added, err := rt.sources.FetchOne(ctx, input.ID, rt.connDB)
	out := &FetchOneOutput{}
	out.Body.Added = added
	if err != nil {
		return out, huma.Error409Conflict(err.Error())
	}
	return out, nil
}

func (rt *Routes) fetchAll(ctx context.Context, input *struct{}) (*FetchResultOutput, error) {
	results, err := rt.sources.FetchAll(ctx, rt.connDB)
	if err != nil {
		return nil, huma.Error409Conflict(fmt.Sprintf("fetch already in progress: %v", err))
	}
	out := &FetchResultOutput{}
	out.Body.Results = results
	return out, nil
}
