package sqlite

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/flightwise/airquery/internal/airports"
	"github.com/flightwise/airquery/pkg/logger"
)

// AirportStorage serves read-only airport lookups from SQLite. It
// implements airports.Store.
type AirportStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewAirportStorage creates a new SQLite airport store over an open
// read-only handle.
func NewAirportStorage(db *sql.DB, logger *logger.Logger) *AirportStorage {
	return &AirportStorage{
		db:     db,
		logger: logger.Named("sqlite-airports"),
	}
}

const airportColumns = `icao, name, city, country, lat, lon, elevation_ft, type, point_of_entry, landing_fee`

// LookupByCode returns the airport with the given ICAO code including
// its runways, procedures, fuel types and AIP entries.
func (s *AirportStorage) LookupByCode(icao string) (*airports.Airport, error) {
	row := s.db.QueryRow(
		`SELECT `+airportColumns+` FROM airports WHERE icao = ?`, icao)

	a, err := scanAirport(row)
	if err == sql.ErrNoRows {
		return nil, &airports.NotFoundError{ICAO: icao}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query airport %s: %w", icao, storeErr(err))
	}

	list := []airports.Airport{*a}
	if err := s.attachDetails(list); err != nil {
		return nil, err
	}

	return &list[0], nil
}

// TextSearch returns airports whose code, name or city contains the
// query, case-insensitively, capped at limit.
func (s *AirportStorage) TextSearch(query string, limit int) ([]airports.Airport, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.Query(
		`SELECT `+airportColumns+`
		FROM airports
		WHERE icao LIKE ? OR name LIKE ? OR city LIKE ?
		LIMIT ?`,
		pattern, pattern, pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search airports: %w", storeErr(err))
	}
	defer rows.Close()

	return s.scanAirportRows(rows, true)
}

// SpatialQuery returns airports inside a bounding box covering the
// radius around the center. The box over-approximates; the query engine
// re-checks exact great-circle distances.
func (s *AirportStorage) SpatialQuery(center airports.Coordinate, radiusNM float64) ([]airports.Airport, error) {
	latDelta := radiusNM / 60.0 // one degree of latitude is 60 NM

	cosLat := math.Cos(center.Lat * math.Pi / 180.0)
	lonDelta := 180.0
	if cosLat > 0.01 {
		lonDelta = math.Min(180.0, radiusNM/(60.0*cosLat))
	}

	lonMin := center.Lon - lonDelta
	lonMax := center.Lon + lonDelta
	base := `SELECT ` + airportColumns + `
		FROM airports
		WHERE lat BETWEEN ? AND ?`

	// A box straddling the antimeridian splits into two lon ranges.
	var rows *sql.Rows
	var err error
	switch {
	case lonDelta >= 180:
		rows, err = s.db.Query(base,
			center.Lat-latDelta, center.Lat+latDelta)
	case lonMin < -180:
		rows, err = s.db.Query(base+` AND (lon >= ? OR lon <= ?)`,
			center.Lat-latDelta, center.Lat+latDelta, lonMin+360, lonMax)
	case lonMax > 180:
		rows, err = s.db.Query(base+` AND (lon >= ? OR lon <= ?)`,
			center.Lat-latDelta, center.Lat+latDelta, lonMin, lonMax-360)
	default:
		rows, err = s.db.Query(base+` AND lon BETWEEN ? AND ?`,
			center.Lat-latDelta, center.Lat+latDelta, lonMin, lonMax)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to run spatial query: %w", storeErr(err))
	}
	defer rows.Close()

	return s.scanAirportRows(rows, true)
}

// AttributeScan returns every airport with details attached, for the
// generic attribute queries.
func (s *AirportStorage) AttributeScan() ([]airports.Airport, error) {
	rows, err := s.db.Query(`SELECT ` + airportColumns + ` FROM airports`)
	if err != nil {
		return nil, fmt.Errorf("failed to scan airports: %w", storeErr(err))
	}
	defer rows.Close()

	return s.scanAirportRows(rows, true)
}

// storeErr tags a driver-level failure with the store-unavailable
// sentinel so callers can errors.Is against it instead of matching
// driver internals.
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", airports.ErrStoreUnavailable, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAirport(row rowScanner) (*airports.Airport, error) {
	var a airports.Airport
	var city, country, typ sql.NullString
	var elevation sql.NullInt64
	var pointOfEntry sql.NullBool
	var landingFee sql.NullFloat64

	if err := row.Scan(
		&a.ICAO,
		&a.Name,
		&city,
		&country,
		&a.Coordinate.Lat,
		&a.Coordinate.Lon,
		&elevation,
		&typ,
		&pointOfEntry,
		&landingFee,
	); err != nil {
		return nil, err
	}

	a.City = city.String
	a.Country = country.String
	a.ElevationFt = int(elevation.Int64)
	a.Type = typ.String
	a.PointOfEntry = pointOfEntry.Bool
	if landingFee.Valid {
		fee := landingFee.Float64
		a.LandingFee = &fee
	}

	return &a, nil
}

// scanAirportRows scans base rows and optionally attaches child records.
func (s *AirportStorage) scanAirportRows(rows *sql.Rows, withDetails bool) ([]airports.Airport, error) {
	var list []airports.Airport
	for rows.Next() {
		a, err := scanAirport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan airport: %w", err)
		}
		list = append(list, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("airport row iteration failed: %w", err)
	}

	if withDetails && len(list) > 0 {
		if err := s.attachDetails(list); err != nil {
			return nil, err
		}
	}

	return list, nil
}

// attachDetails loads runways, procedures, fuel types and AIP entries
// for the given airports in batched queries, mutating list in place.
func (s *AirportStorage) attachDetails(list []airports.Airport) error {
	icaos := make([]any, len(list))
	index := make(map[string]int, len(list))
	for i := range list {
		icaos[i] = list[i].ICAO
		index[list[i].ICAO] = i
	}
	in := buildPlaceholders(len(icaos))

	if err := s.attachRunways(list, index, in, icaos); err != nil {
		return err
	}
	if err := s.attachProcedures(list, index, in, icaos); err != nil {
		return err
	}
	if err := s.attachFuelTypes(list, index, in, icaos); err != nil {
		return err
	}
	return s.attachAIPEntries(list, index, in, icaos)
}

func (s *AirportStorage) attachRunways(list []airports.Airport, index map[string]int, in string, icaos []any) error {
	rows, err := s.db.Query(
		`SELECT airport_icao, length_ft, width_ft, surface, lighted, closed, le_ident, he_ident
		FROM runways WHERE airport_icao IN (`+in+`)`, icaos...)
	if err != nil {
		return fmt.Errorf("failed to query runways: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var icao string
		var r airports.Runway
		var surface sql.NullString
		if err := rows.Scan(&icao, &r.LengthFt, &r.WidthFt, &surface, &r.Lighted, &r.Closed, &r.LowEnd, &r.HighEnd); err != nil {
			return fmt.Errorf("failed to scan runway: %w", err)
		}
		r.Surface = surface.String
		if i, ok := index[icao]; ok {
			list[i].Runways = append(list[i].Runways, r)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("runway row iteration failed: %w", err)
	}
	return nil
}

func (s *AirportStorage) attachProcedures(list []airports.Airport, index map[string]int, in string, icaos []any) error {
	rows, err := s.db.Query(
		`SELECT airport_icao, type, approach_type, precision_category
		FROM procedures WHERE airport_icao IN (`+in+`)`, icaos...)
	if err != nil {
		return fmt.Errorf("failed to query procedures: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var icao string
		var p airports.Procedure
		var approachType, precision sql.NullString
		if err := rows.Scan(&icao, &p.Type, &approachType, &precision); err != nil {
			return fmt.Errorf("failed to scan procedure: %w", err)
		}
		p.ApproachType = approachType.String
		p.PrecisionCategory = precision.String
		if i, ok := index[icao]; ok {
			list[i].Procedures = append(list[i].Procedures, p)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("procedure row iteration failed: %w", err)
	}
	return nil
}

func (s *AirportStorage) attachFuelTypes(list []airports.Airport, index map[string]int, in string, icaos []any) error {
	rows, err := s.db.Query(
		`SELECT airport_icao, fuel_type FROM airport_fuel WHERE airport_icao IN (`+in+`)`, icaos...)
	if err != nil {
		return fmt.Errorf("failed to query fuel types: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var icao, fuel string
		if err := rows.Scan(&icao, &fuel); err != nil {
			return fmt.Errorf("failed to scan fuel type: %w", err)
		}
		if i, ok := index[icao]; ok {
			list[i].FuelTypes = append(list[i].FuelTypes, fuel)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("fuel type row iteration failed: %w", err)
	}
	return nil
}

func (s *AirportStorage) attachAIPEntries(list []airports.Airport, index map[string]int, in string, icaos []any) error {
	rows, err := s.db.Query(
		`SELECT airport_icao, section, field, value FROM aip_entries WHERE airport_icao IN (`+in+`)`, icaos...)
	if err != nil {
		return fmt.Errorf("failed to query AIP entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var icao string
		var e airports.AIPEntry
		if err := rows.Scan(&icao, &e.Section, &e.Field, &e.Value); err != nil {
			return fmt.Errorf("failed to scan AIP entry: %w", err)
		}
		if i, ok := index[icao]; ok {
			list[i].AIPEntries = append(list[i].AIPEntries, e)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("AIP entry row iteration failed: %w", err)
	}
	return nil
}
