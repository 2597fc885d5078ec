package airports

import (
	"fmt"
	"sort"
	"strings"

	"github.com/flightwise/airquery/pkg/logger"
)

// DefaultSearchLimit caps text search results when the caller does not
// specify one.
const DefaultSearchLimit = 10

// QueryEngine answers search, proximity and route-corridor queries over
// an airport store. It holds no mutable state and is safe for concurrent
// use as long as the store supports concurrent reads.
type QueryEngine struct {
	store  Store
	logger *logger.Logger
}

// NewQueryEngine creates a new query engine over the given store.
func NewQueryEngine(store Store, logger *logger.Logger) *QueryEngine {
	return &QueryEngine{
		store:  store,
		logger: logger.Named("airport-query"),
	}
}

// LookupByCode returns the airport with the given ICAO code.
func (e *QueryEngine) LookupByCode(icao string) (*Airport, error) {
	return e.store.LookupByCode(strings.ToUpper(strings.TrimSpace(icao)))
}

// SearchByText matches query case-insensitively against ICAO code, name
// and city. Ranking order is exact > prefix > substring; within a rank
// the store order is preserved. Results are truncated to limit
// (DefaultSearchLimit when limit <= 0).
func (e *QueryEngine) SearchByText(query string, limit int) ([]Airport, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	// Over-fetch so that ranking happens over the full candidate set
	// rather than whatever slice the store happened to return first.
	candidates, err := e.store.TextSearch(query, limit*10)
	if err != nil {
		return nil, fmt.Errorf("text search failed: %w", err)
	}

	q := strings.ToLower(strings.TrimSpace(query))

	rank := func(a Airport) int {
		for _, field := range []string{a.ICAO, a.Name, a.City} {
			if strings.ToLower(field) == q {
				return 0
			}
		}
		for _, field := range []string{a.ICAO, a.Name, a.City} {
			if strings.HasPrefix(strings.ToLower(field), q) {
				return 1
			}
		}
		return 2
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return rank(candidates[i]) < rank(candidates[j])
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	e.logger.Debug("Text search completed",
		logger.String("query", query),
		logger.Int("results", len(candidates)))

	return candidates, nil
}

// WithinRadius returns all airports within radiusNM (inclusive) of the
// center, ordered ascending by great-circle distance.
func (e *QueryEngine) WithinRadius(center Coordinate, radiusNM float64) ([]RankedAirport, error) {
	candidates, err := e.store.SpatialQuery(center, radiusNM)
	if err != nil {
		return nil, fmt.Errorf("spatial query failed: %w", err)
	}

	ranked := make([]RankedAirport, 0, len(candidates))
	for _, a := range candidates {
		d := DistanceNM(center, a.Coordinate)
		if d <= radiusNM {
			ranked = append(ranked, RankedAirport{Airport: a, DistanceNM: d})
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].DistanceNM < ranked[j].DistanceNM
	})

	return ranked, nil
}

// NearestN returns the n airports closest to the center, ordered
// ascending by distance. It widens the search radius until enough
// candidates are found or the whole globe is covered.
func (e *QueryEngine) NearestN(center Coordinate, n int) ([]RankedAirport, error) {
	const maxRadiusNM = 10820 // half the Earth's circumference, nothing is farther

	for radius := 50.0; ; radius *= 4 {
		ranked, err := e.WithinRadius(center, radius)
		if err != nil {
			return nil, err
		}
		if len(ranked) >= n || radius >= maxRadiusNM {
			if len(ranked) > n {
				ranked = ranked[:n]
			}
			return ranked, nil
		}
	}
}

// AlongRoute returns airports whose perpendicular distance to the
// great-circle segment between the two endpoint airports is at most
// corridorWidthNM. Results are tagged with SegmentDistanceNM and
// AlongTrackDistanceNM and ordered ascending by along-track distance.
func (e *QueryEngine) AlongRoute(fromICAO, toICAO string, corridorWidthNM float64) ([]RouteAirport, error) {
	from, err := e.LookupByCode(fromICAO)
	if err != nil {
		return nil, err
	}
	to, err := e.LookupByCode(toICAO)
	if err != nil {
		return nil, err
	}

	routeNM := DistanceNM(from.Coordinate, to.Coordinate)

	// A bounding circle around the great-circle midpoint covers the
	// whole corridor; the exact cross-track check below trims the rest.
	mid := Midpoint(from.Coordinate, to.Coordinate)
	candidates, err := e.store.SpatialQuery(mid, routeNM/2+corridorWidthNM+10)
	if err != nil {
		return nil, fmt.Errorf("spatial query failed: %w", err)
	}

	var results []RouteAirport
	for _, a := range candidates {
		if a.ICAO == from.ICAO || a.ICAO == to.ICAO {
			continue
		}
		cross, along := CrossTrackNM(from.Coordinate, to.Coordinate, a.Coordinate)
		if cross <= corridorWidthNM {
			results = append(results, RouteAirport{
				Airport:              a,
				SegmentDistanceNM:    cross,
				AlongTrackDistanceNM: along,
			})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].AlongTrackDistanceNM < results[j].AlongTrackDistanceNM
	})

	e.logger.Debug("Route corridor query completed",
		logger.String("from", from.ICAO),
		logger.String("to", to.ICAO),
		logger.Float64("corridor_nm", corridorWidthNM),
		logger.Int("results", len(results)))

	return results, nil
}

// ByField returns all airports matching the given predicate. Used for
// fuel, AIP and border-crossing attribute queries.
func (e *QueryEngine) ByField(predicate func(Airport) bool) ([]Airport, error) {
	all, err := e.store.AttributeScan()
	if err != nil {
		return nil, fmt.Errorf("attribute scan failed: %w", err)
	}

	var matched []Airport
	for _, a := range all {
		if predicate(a) {
			matched = append(matched, a)
		}
	}
	return matched, nil
}
