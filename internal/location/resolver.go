// Package location resolves free-text place queries to coordinates
// through an ordered fallback cascade: direct ICAO lookup, gazetteer
// name matching, then a fuzzy airport search.
package location

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flightwise/airquery/internal/airports"
	"github.com/flightwise/airquery/pkg/logger"
)

// GeocodeEntry is a single gazetteer record.
type GeocodeEntry struct {
	Name           string
	Coordinate     airports.Coordinate
	CountryCode    string
	Population     int64
	AlternateNames []string
}

// Gazetteer is the read-only place-name store. Each method returns
// matches ordered by population descending.
type Gazetteer interface {
	ExactMatch(name string, limit int) ([]GeocodeEntry, error)
	PrefixMatch(prefix string, limit int) ([]GeocodeEntry, error)
	SubstringMatch(fragment string, limit int) ([]GeocodeEntry, error)
}

// NotFoundError is returned when every resolution strategy failed.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return "location not found: " + e.Query
}

// Result is a successfully resolved location. ICAO is set only when the
// query resolved directly to an airport.
type Result struct {
	Coordinate    airports.Coordinate
	CanonicalName string
	ICAO          string
}

// Resolver maps free-text queries to coordinates. Strategies are tried
// in order; the first success wins.
type Resolver struct {
	engine    *airports.QueryEngine
	gazetteer Gazetteer
	logger    *logger.Logger
}

// NewResolver creates a resolver over the given airport engine and
// gazetteer.
func NewResolver(engine *airports.QueryEngine, gazetteer Gazetteer, logger *logger.Logger) *Resolver {
	return &Resolver{
		engine:    engine,
		gazetteer: gazetteer,
		logger:    logger.Named("location"),
	}
}

// Resolve runs the fallback cascade for the query:
//
//  1. Exactly 4 alphabetic characters: direct ICAO lookup. A hit
//     short-circuits every other strategy.
//  2. Gazetteer: exact name match, then name prefix, then substring
//     against alternate names. Each sub-step runs only when the previous
//     one yielded nothing; the top (highest population) hit wins.
//  3. Fuzzy airport name/city search, limit 1.
//
// countryHint is accepted for interface stability but not yet consulted
// by the gazetteer sub-steps; see the resolver notes in DESIGN.md.
func (r *Resolver) Resolve(query, countryHint string) (*Result, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, &NotFoundError{Query: query}
	}

	if isICAOCandidate(q) {
		code := strings.ToUpper(q)
		airport, err := r.engine.LookupByCode(code)
		if err == nil {
			return &Result{
				Coordinate:    airport.Coordinate,
				CanonicalName: airport.Name,
				ICAO:          airport.ICAO,
			}, nil
		}
		var nf *airports.NotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("icao lookup failed: %w", err)
		}
		// Not a known code; fall through to geocoding
	}

	entry, err := r.geocode(q)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		r.logger.Debug("Resolved via gazetteer",
			logger.String("query", q),
			logger.String("name", entry.Name),
			logger.Int64("population", entry.Population))
		return &Result{
			Coordinate:    entry.Coordinate,
			CanonicalName: entry.Name,
		}, nil
	}

	// Last resort: fuzzy airport name/city search
	matches, err := r.engine.SearchByText(q, 1)
	if err != nil {
		return nil, fmt.Errorf("airport search failed: %w", err)
	}
	if len(matches) > 0 {
		a := matches[0]
		return &Result{
			Coordinate:    a.Coordinate,
			CanonicalName: a.Name,
			ICAO:          a.ICAO,
		}, nil
	}

	return nil, &NotFoundError{Query: query}
}

// geocode runs the three ordered gazetteer sub-steps. Returns nil with
// no error when nothing matched.
func (r *Resolver) geocode(query string) (*GeocodeEntry, error) {
	steps := []func(string, int) ([]GeocodeEntry, error){
		r.gazetteer.ExactMatch,
		r.gazetteer.PrefixMatch,
		r.gazetteer.SubstringMatch,
	}

	for _, step := range steps {
		entries, err := step(query, 1)
		if err != nil {
			return nil, fmt.Errorf("gazetteer query failed: %w", err)
		}
		if len(entries) > 0 {
			return &entries[0], nil
		}
	}

	return nil, nil
}

// AnchorICAO returns an ICAO code anchoring the result to a concrete
// airport. When the resolver produced only a gazetteer coordinate, the
// nearest airport to that coordinate is used.
func (r *Resolver) AnchorICAO(res *Result) (string, error) {
	if res.ICAO != "" {
		return res.ICAO, nil
	}

	nearest, err := r.engine.NearestN(res.Coordinate, 1)
	if err != nil {
		return "", fmt.Errorf("nearest airport lookup failed: %w", err)
	}
	if len(nearest) == 0 {
		return "", &NotFoundError{Query: res.CanonicalName}
	}
	return nearest[0].ICAO, nil
}

// isICAOCandidate reports whether the query is exactly four alphabetic
// characters.
func isICAOCandidate(q string) bool {
	if len(q) != 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		c := q[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}
