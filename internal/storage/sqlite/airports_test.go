package sqlite

import (
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/flightwise/airquery/internal/airports"
	"github.com/flightwise/airquery/pkg/logger"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// The in-memory database exists per connection; pinning the pool to
	// one keeps every statement on the same database.
	db.SetMaxOpenConns(1)
	return db
}

func seedAirportDB(t *testing.T) *sql.DB {
	t.Helper()
	db := openTestDB(t)

	stmts := []string{
		`CREATE TABLE airports (
			icao TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			city TEXT,
			country TEXT,
			lat REAL NOT NULL,
			lon REAL NOT NULL,
			elevation_ft INTEGER,
			type TEXT,
			point_of_entry INTEGER,
			landing_fee REAL
		)`,
		`CREATE TABLE runways (
			airport_icao TEXT NOT NULL,
			length_ft INTEGER,
			width_ft INTEGER,
			surface TEXT,
			lighted INTEGER,
			closed INTEGER,
			le_ident TEXT,
			he_ident TEXT
		)`,
		`CREATE TABLE procedures (
			airport_icao TEXT NOT NULL,
			type TEXT,
			approach_type TEXT,
			precision_category TEXT
		)`,
		`CREATE TABLE airport_fuel (
			airport_icao TEXT NOT NULL,
			fuel_type TEXT NOT NULL
		)`,
		`CREATE TABLE aip_entries (
			airport_icao TEXT NOT NULL,
			section TEXT,
			field TEXT,
			value TEXT
		)`,
		`INSERT INTO airports VALUES
			('LSZH', 'Zurich', 'Zurich', 'CH', 47.4647, 8.5492, 1416, 'large_airport', 1, 120.0),
			('LSZB', 'Bern-Belp', 'Bern', 'CH', 46.9141, 7.4971, 1673, 'medium_airport', 0, NULL),
			('LFMN', 'Nice', 'Nice', 'FR', 43.6584, 7.2159, 12, 'large_airport', 1, 45.0)`,
		`INSERT INTO runways VALUES
			('LSZH', 12139, 197, 'ASP', 1, 0, '16', '34'),
			('LSZH', 10827, 197, 'ASP', 1, 0, '14', '32'),
			('LSZB', 5676, 98, 'ASP', 1, 0, '14', '32')`,
		`INSERT INTO procedures VALUES
			('LSZH', 'approach', 'ILS', 'CAT III'),
			('LSZB', 'approach', 'RNAV', NULL)`,
		`INSERT INTO airport_fuel VALUES
			('LSZH', 'JET-A'),
			('LSZB', 'AVGAS'),
			('LSZB', 'JET-A')`,
		`INSERT INTO aip_entries VALUES
			('LSZH', 'admin', 'operator', 'Flughafen Zurich AG')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("seed failed: %v\n%s", err, stmt)
		}
	}
	return db
}

func TestAirportLookupByCode(t *testing.T) {
	store := NewAirportStorage(seedAirportDB(t), logger.Nop())

	a, err := store.LookupByCode("LSZH")
	if err != nil {
		t.Fatalf("LookupByCode() error = %v", err)
	}

	if a.Name != "Zurich" || a.Country != "CH" {
		t.Errorf("airport = %+v", a)
	}
	if !a.PointOfEntry {
		t.Error("LSZH should be a point of entry")
	}
	if a.LandingFee == nil || *a.LandingFee != 120 {
		t.Errorf("landing fee = %v, want 120", a.LandingFee)
	}
	if len(a.Runways) != 2 {
		t.Errorf("runways = %d, want 2", len(a.Runways))
	}
	if len(a.Procedures) != 1 || a.Procedures[0].ApproachType != "ILS" {
		t.Errorf("procedures = %+v", a.Procedures)
	}
	if len(a.FuelTypes) != 1 || a.FuelTypes[0] != "JET-A" {
		t.Errorf("fuel types = %v", a.FuelTypes)
	}
	if len(a.AIPEntries) != 1 || a.AIPEntries[0].Field != "operator" {
		t.Errorf("aip entries = %+v", a.AIPEntries)
	}
}

func TestAirportLookupByCodeNullColumns(t *testing.T) {
	store := NewAirportStorage(seedAirportDB(t), logger.Nop())

	a, err := store.LookupByCode("LSZB")
	if err != nil {
		t.Fatalf("LookupByCode() error = %v", err)
	}
	if a.LandingFee != nil {
		t.Errorf("landing fee = %v, want nil for NULL column", *a.LandingFee)
	}
	if a.PointOfEntry {
		t.Error("LSZB should not be a point of entry")
	}
}

func TestAirportLookupByCodeNotFound(t *testing.T) {
	store := NewAirportStorage(seedAirportDB(t), logger.Nop())

	_, err := store.LookupByCode("ZZZZ")
	var nf *airports.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("LookupByCode() error = %v, want *NotFoundError", err)
	}
	if nf.ICAO != "ZZZZ" {
		t.Errorf("NotFoundError.ICAO = %q", nf.ICAO)
	}
}

func TestAirportTextSearch(t *testing.T) {
	store := NewAirportStorage(seedAirportDB(t), logger.Nop())

	tests := []struct {
		query string
		limit int
		want  int
	}{
		{"zurich", 10, 1}, // LIKE is case-insensitive for ASCII
		{"LS", 10, 2},
		{"LS", 1, 1},
		{"atlantis", 10, 0},
	}

	for _, tt := range tests {
		got, err := store.TextSearch(tt.query, tt.limit)
		if err != nil {
			t.Fatalf("TextSearch(%q) error = %v", tt.query, err)
		}
		if len(got) != tt.want {
			t.Errorf("TextSearch(%q, %d) = %d results, want %d", tt.query, tt.limit, len(got), tt.want)
		}
	}
}

func TestAirportTextSearchAttachesDetails(t *testing.T) {
	store := NewAirportStorage(seedAirportDB(t), logger.Nop())

	got, err := store.TextSearch("Bern", 10)
	if err != nil {
		t.Fatalf("TextSearch() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("TextSearch(Bern) = %d results, want 1", len(got))
	}
	if len(got[0].Runways) != 1 || len(got[0].FuelTypes) != 2 {
		t.Errorf("details not attached: %+v", got[0])
	}
}

func TestAirportSpatialQuery(t *testing.T) {
	store := NewAirportStorage(seedAirportDB(t), logger.Nop())

	// 60 NM box around Bern catches LSZB and LSZH but not Nice.
	got, err := store.SpatialQuery(airports.Coordinate{Lat: 46.948, Lon: 7.4474}, 60)
	if err != nil {
		t.Fatalf("SpatialQuery() error = %v", err)
	}

	found := map[string]bool{}
	for _, a := range got {
		found[a.ICAO] = true
	}
	if !found["LSZB"] || !found["LSZH"] {
		t.Errorf("SpatialQuery missing nearby airports: %v", found)
	}
	if found["LFMN"] {
		t.Error("LFMN is ~200 NM away and outside a 60 NM box")
	}
}

func TestAirportSpatialQueryWrapsAntimeridian(t *testing.T) {
	db := seedAirportDB(t)
	if _, err := db.Exec(`INSERT INTO airports VALUES
		('PWAK', 'Wake West', 'Wake', 'UM', 0.0, 179.5, 14, 'small_airport', 0, NULL),
		('PMDY', 'Wake East', 'Wake', 'UM', 0.0, -179.5, 13, 'small_airport', 0, NULL)`); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	store := NewAirportStorage(db, logger.Nop())

	// A 60 NM box around either side of the dateline covers airports on
	// both sides; the lon range splits rather than running past ±180.
	for _, center := range []airports.Coordinate{
		{Lat: 0, Lon: 179.8},
		{Lat: 0, Lon: -179.8},
	} {
		got, err := store.SpatialQuery(center, 60)
		if err != nil {
			t.Fatalf("SpatialQuery(%+v) error = %v", center, err)
		}
		found := map[string]bool{}
		for _, a := range got {
			found[a.ICAO] = true
		}
		if !found["PWAK"] || !found["PMDY"] {
			t.Errorf("box around %+v should straddle the antimeridian: %v", center, found)
		}
	}
}

func TestAirportLookupFailsOnMissingDetailTable(t *testing.T) {
	db := seedAirportDB(t)
	if _, err := db.Exec(`DROP TABLE runways`); err != nil {
		t.Fatalf("drop failed: %v", err)
	}
	store := NewAirportStorage(db, logger.Nop())

	// Detail loading failures must surface, never silently truncate the
	// airport record.
	if _, err := store.LookupByCode("LSZH"); err == nil {
		t.Fatal("LookupByCode() should fail when detail rows cannot be loaded")
	}
}

func TestAirportStoreUnavailable(t *testing.T) {
	// No schema at all: every query fails at the driver level.
	store := NewAirportStorage(openTestDB(t), logger.Nop())

	_, err := store.TextSearch("Bern", 10)
	if !errors.Is(err, airports.ErrStoreUnavailable) {
		t.Fatalf("TextSearch() error = %v, want ErrStoreUnavailable", err)
	}
}

func TestBuildPlaceholders(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{1, "?"},
		{3, "?, ?, ?"},
	}
	for _, tt := range tests {
		if got := buildPlaceholders(tt.n); got != tt.want {
			t.Errorf("buildPlaceholders(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
