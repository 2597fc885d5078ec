package airports

import "strings"

// Coordinate is a WGS84 lat/lon pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Airport is an immutable snapshot of a single airport record. Instances
// are loaded from the read-only store at query time and never written back.
type Airport struct {
	ICAO         string      `json:"icao"`
	Name         string      `json:"name"`
	City         string      `json:"city"`
	Country      string      `json:"country"`               // ISO 3166-1 alpha-2
	Coordinate   Coordinate  `json:"coordinate"`
	ElevationFt  int         `json:"elevation_ft"`
	Type         string      `json:"type"`                  // large_airport, medium_airport, small_airport, heliport
	PointOfEntry bool        `json:"point_of_entry"`
	FuelTypes    []string    `json:"fuel_types,omitempty"`  // e.g. "AVGAS", "JET-A"
	LandingFee   *float64    `json:"landing_fee,omitempty"`
	Runways      []Runway    `json:"runways,omitempty"`
	Procedures   []Procedure `json:"procedures,omitempty"`
	AIPEntries   []AIPEntry  `json:"aip_entries,omitempty"`
}

// Runway describes a single runway with its two ends.
type Runway struct {
	LengthFt int    `json:"length_ft"`
	WidthFt  int    `json:"width_ft"`
	Surface  string `json:"surface"`
	Lighted  bool   `json:"lighted"`
	Closed   bool   `json:"closed"`
	LowEnd   string `json:"low_end"`  // e.g. "05"
	HighEnd  string `json:"high_end"` // e.g. "23"
}

// Hard surface prefixes as used by the upstream airport dataset.
var hardSurfaces = []string{"ASP", "CON", "PEM", "BIT", "TAR"}

// IsHard reports whether the runway surface is paved.
func (r Runway) IsHard() bool {
	surface := strings.ToUpper(r.Surface)
	for _, s := range hardSurfaces {
		if strings.HasPrefix(surface, s) {
			return true
		}
	}
	return false
}

// Procedure is a published instrument procedure for an airport.
type Procedure struct {
	Type              string `json:"type"`                         // approach, departure, arrival
	ApproachType      string `json:"approach_type,omitempty"`      // ILS, RNAV, VOR, NDB, ...
	PrecisionCategory string `json:"precision_category,omitempty"` // CAT I/II/III
}

// AIPEntry is a single field/value pair from the airport's AIP listing.
type AIPEntry struct {
	Section string `json:"section"`
	Field   string `json:"field"`
	Value   string `json:"value"`
}

// RouteAirport is an airport matched along a route corridor, tagged with
// its perpendicular offset from the great-circle segment and its progress
// along the route.
type RouteAirport struct {
	Airport
	SegmentDistanceNM    float64 `json:"segment_distance_nm"`
	AlongTrackDistanceNM float64 `json:"along_track_distance_nm"`
}

// RankedAirport is an airport with its great-circle distance from a
// query point.
type RankedAirport struct {
	Airport
	DistanceNM float64 `json:"distance_nm"`
}
