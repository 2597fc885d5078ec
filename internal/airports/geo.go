package airports

import "math"

// Constants for aviation calculations
const (
	METERS_PER_NM = 1852.0  // Meters per nautical mile
	EARTH_RADIUS  = 6371000 // Earth radius in meters
)

// Haversine calculates the distance in meters between two lat/lon points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180.0

	lat1Rad := lat1 * rad
	lon1Rad := lon1 * rad
	lat2Rad := lat2 * rad
	lon2Rad := lon2 * rad

	dlon := lon2Rad - lon1Rad
	dlat := lat2Rad - lat1Rad

	a := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EARTH_RADIUS * c
}

// DistanceNM calculates the great-circle distance in nautical miles
// between two coordinates.
func DistanceNM(a, b Coordinate) float64 {
	return MetersToNM(Haversine(a.Lat, a.Lon, b.Lat, b.Lon))
}

// Bearing calculates the initial bearing in degrees from point 1 to point 2.
// Returns a value between 0 and 360 degrees (0 = North, 90 = East, etc.)
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180.0
	lon1Rad := lon1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0
	lon2Rad := lon2 * math.Pi / 180.0

	y := math.Sin(lon2Rad-lon1Rad) * math.Cos(lat2Rad)
	x := math.Cos(lat1Rad)*math.Sin(lat2Rad) - math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(lon2Rad-lon1Rad)
	bearing := math.Atan2(y, x) * 180.0 / math.Pi

	return math.Mod(bearing+360.0, 360.0)
}

// Midpoint returns the great-circle midpoint between two coordinates.
// Unlike an arithmetic mean of the raw lat/lons it stays on the great
// circle across the antimeridian and at high latitudes.
func Midpoint(a, b Coordinate) Coordinate {
	rad := math.Pi / 180.0

	lat1 := a.Lat * rad
	lat2 := b.Lat * rad
	lon1 := a.Lon * rad
	dLon := (b.Lon - a.Lon) * rad

	bx := math.Cos(lat2) * math.Cos(dLon)
	by := math.Cos(lat2) * math.Sin(dLon)

	latM := math.Atan2(math.Sin(lat1)+math.Sin(lat2),
		math.Sqrt((math.Cos(lat1)+bx)*(math.Cos(lat1)+bx)+by*by))
	lonM := lon1 + math.Atan2(by, math.Cos(lat1)+bx)

	// Normalize longitude to [-180, 180)
	lonDeg := math.Mod(lonM/rad+540.0, 360.0) - 180.0

	return Coordinate{Lat: latM / rad, Lon: lonDeg}
}

// CrossTrackNM calculates the perpendicular (cross-track) distance in
// nautical miles from point p to the great-circle segment from a to b,
// and the along-track distance from a toward b at the closest point.
//
// When the closest point on the great circle falls outside the segment,
// the cross-track distance degrades to the distance from the nearer
// endpoint and the along-track distance is clamped to [0, len(a,b)].
func CrossTrackNM(a, b, p Coordinate) (crossNM, alongNM float64) {
	distAP := Haversine(a.Lat, a.Lon, p.Lat, p.Lon) / EARTH_RADIUS // angular distance a->p
	bearingAP := Bearing(a.Lat, a.Lon, p.Lat, p.Lon) * math.Pi / 180.0
	bearingAB := Bearing(a.Lat, a.Lon, b.Lat, b.Lon) * math.Pi / 180.0

	// Standard cross-track formula on the unit sphere
	xt := math.Asin(math.Sin(distAP) * math.Sin(bearingAP-bearingAB))
	at := math.Acos(clamp(math.Cos(distAP)/math.Cos(xt), -1, 1))

	crossNM = math.Abs(xt) * EARTH_RADIUS / METERS_PER_NM
	alongNM = at * EARTH_RADIUS / METERS_PER_NM

	segNM := DistanceNM(a, b)

	// Behind the start point: the perpendicular foot is off-segment
	if math.Cos(bearingAP-bearingAB) < 0 {
		return DistanceNM(a, p), 0
	}
	// Past the end point
	if alongNM > segNM {
		return DistanceNM(b, p), segNM
	}

	return crossNM, alongNM
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MetersToNM converts meters to nautical miles
func MetersToNM(meters float64) float64 {
	return meters / METERS_PER_NM
}

// NMToMeters converts nautical miles to meters
func NMToMeters(nm float64) float64 {
	return nm * METERS_PER_NM
}
