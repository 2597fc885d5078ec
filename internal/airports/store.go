package airports

import "errors"

// ErrStoreUnavailable is returned when the backing airport store cannot
// be reached or queried.
var ErrStoreUnavailable = errors.New("airport data source unavailable")

// NotFoundError is returned when a detail lookup names an ICAO code that
// does not exist in the store.
type NotFoundError struct {
	ICAO string
}

func (e *NotFoundError) Error() string {
	return "airport not found: " + e.ICAO
}

// Store is the read-only airport data source. The SQLite implementation
// lives in internal/storage/sqlite; tests substitute in-memory fakes.
type Store interface {
	// LookupByCode returns the airport with the given ICAO code, or a
	// *NotFoundError if no such airport exists.
	LookupByCode(icao string) (*Airport, error)

	// TextSearch returns airports whose code, name or city contains the
	// query (case-insensitive), in no particular order, capped at limit.
	TextSearch(query string, limit int) ([]Airport, error)

	// SpatialQuery returns all airports within radiusNM of the center.
	// Implementations may over-approximate (e.g. bounding box); the
	// engine re-checks exact distances.
	SpatialQuery(center Coordinate, radiusNM float64) ([]Airport, error)

	// AttributeScan returns all airports, for generic attribute filtering.
	AttributeScan() ([]Airport, error)
}
