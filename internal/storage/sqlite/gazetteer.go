package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/flightwise/airquery/internal/airports"
	"github.com/flightwise/airquery/internal/location"
	"github.com/flightwise/airquery/pkg/logger"
)

// GazetteerStorage serves place-name lookups from a geonames-style
// SQLite table. It implements location.Gazetteer. All three match modes
// order results by population descending.
type GazetteerStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewGazetteerStorage creates a new SQLite gazetteer over an open
// read-only handle.
func NewGazetteerStorage(db *sql.DB, logger *logger.Logger) *GazetteerStorage {
	return &GazetteerStorage{
		db:     db,
		logger: logger.Named("sqlite-gazetteer"),
	}
}

const gazetteerColumns = `name, lat, lon, country_code, population, alternate_names`

// ExactMatch returns entries whose name equals the query,
// case-insensitively.
func (s *GazetteerStorage) ExactMatch(name string, limit int) ([]location.GeocodeEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+gazetteerColumns+`
		FROM gazetteer
		WHERE name = ? COLLATE NOCASE
		ORDER BY population DESC
		LIMIT ?`,
		name, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query gazetteer exact match: %w", err)
	}
	defer rows.Close()

	return scanGeocodeRows(rows)
}

// PrefixMatch returns entries whose name starts with the prefix.
func (s *GazetteerStorage) PrefixMatch(prefix string, limit int) ([]location.GeocodeEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+gazetteerColumns+`
		FROM gazetteer
		WHERE name LIKE ? ESCAPE '\'
		ORDER BY population DESC
		LIMIT ?`,
		escapeLike(prefix)+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query gazetteer prefix match: %w", err)
	}
	defer rows.Close()

	return scanGeocodeRows(rows)
}

// SubstringMatch returns entries whose alternate names contain the
// fragment.
func (s *GazetteerStorage) SubstringMatch(fragment string, limit int) ([]location.GeocodeEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+gazetteerColumns+`
		FROM gazetteer
		WHERE alternate_names LIKE ? ESCAPE '\'
		ORDER BY population DESC
		LIMIT ?`,
		"%"+escapeLike(fragment)+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query gazetteer substring match: %w", err)
	}
	defer rows.Close()

	return scanGeocodeRows(rows)
}

func scanGeocodeRows(rows *sql.Rows) ([]location.GeocodeEntry, error) {
	var entries []location.GeocodeEntry
	for rows.Next() {
		var e location.GeocodeEntry
		var coord airports.Coordinate
		var countryCode, alternates sql.NullString
		var population sql.NullInt64

		if err := rows.Scan(&e.Name, &coord.Lat, &coord.Lon, &countryCode, &population, &alternates); err != nil {
			return nil, fmt.Errorf("failed to scan gazetteer entry: %w", err)
		}

		e.Coordinate = coord
		e.CountryCode = countryCode.String
		e.Population = population.Int64
		if alternates.Valid && alternates.String != "" {
			e.AlternateNames = strings.Split(alternates.String, ",")
		}

		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("gazetteer row iteration failed: %w", err)
	}
	return entries, nil
}

// escapeLike escapes the SQL LIKE wildcards in user input.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
