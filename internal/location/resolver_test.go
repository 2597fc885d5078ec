package location

import (
	"errors"
	"strings"
	"testing"

	"github.com/flightwise/airquery/internal/airports"
	"github.com/flightwise/airquery/pkg/logger"
)

// fakeAirportStore backs the query engine with a fixed list.
type fakeAirportStore struct {
	airports []airports.Airport
}

func (s *fakeAirportStore) LookupByCode(icao string) (*airports.Airport, error) {
	for i := range s.airports {
		if s.airports[i].ICAO == icao {
			a := s.airports[i]
			return &a, nil
		}
	}
	return nil, &airports.NotFoundError{ICAO: icao}
}

func (s *fakeAirportStore) TextSearch(query string, limit int) ([]airports.Airport, error) {
	q := strings.ToLower(query)
	var out []airports.Airport
	for _, a := range s.airports {
		if strings.Contains(strings.ToLower(a.Name), q) ||
			strings.Contains(strings.ToLower(a.City), q) {
			out = append(out, a)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (s *fakeAirportStore) SpatialQuery(center airports.Coordinate, radiusNM float64) ([]airports.Airport, error) {
	var out []airports.Airport
	for _, a := range s.airports {
		if airports.DistanceNM(center, a.Coordinate) <= radiusNM {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *fakeAirportStore) AttributeScan() ([]airports.Airport, error) {
	return s.airports, nil
}

// fakeGazetteer records which strategies were consulted, in order.
type fakeGazetteer struct {
	exact     []GeocodeEntry
	prefix    []GeocodeEntry
	substring []GeocodeEntry
	calls     []string
	err       error
}

func (g *fakeGazetteer) ExactMatch(name string, limit int) ([]GeocodeEntry, error) {
	g.calls = append(g.calls, "exact")
	return g.exact, g.err
}

func (g *fakeGazetteer) PrefixMatch(prefix string, limit int) ([]GeocodeEntry, error) {
	g.calls = append(g.calls, "prefix")
	return g.prefix, g.err
}

func (g *fakeGazetteer) SubstringMatch(fragment string, limit int) ([]GeocodeEntry, error) {
	g.calls = append(g.calls, "substring")
	return g.substring, g.err
}

var testAirports = []airports.Airport{
	{ICAO: "LSZH", Name: "Zurich", City: "Zurich", Coordinate: airports.Coordinate{Lat: 47.4647, Lon: 8.5492}},
	{ICAO: "LSZB", Name: "Bern-Belp", City: "Bern", Coordinate: airports.Coordinate{Lat: 46.9141, Lon: 7.4971}},
	{ICAO: "EGKB", Name: "Biggin Hill", City: "London", Coordinate: airports.Coordinate{Lat: 51.3308, Lon: 0.0325}},
}

func newTestResolver(gaz Gazetteer) *Resolver {
	engine := airports.NewQueryEngine(&fakeAirportStore{airports: testAirports}, logger.Nop())
	return NewResolver(engine, gaz, logger.Nop())
}

func TestResolveICAOShortCircuit(t *testing.T) {
	gaz := &fakeGazetteer{}
	r := newTestResolver(gaz)

	res, err := r.Resolve("lszh", "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.ICAO != "LSZH" {
		t.Errorf("Resolve() ICAO = %s, want LSZH", res.ICAO)
	}
	if res.CanonicalName != "Zurich" {
		t.Errorf("Resolve() name = %s, want Zurich", res.CanonicalName)
	}
	if len(gaz.calls) != 0 {
		t.Errorf("gazetteer consulted on a direct ICAO hit: %v", gaz.calls)
	}
}

func TestResolveGazetteerExact(t *testing.T) {
	bromley := GeocodeEntry{
		Name:       "Bromley",
		Coordinate: airports.Coordinate{Lat: 51.4039, Lon: 0.0198},
		Population: 317000,
	}
	gaz := &fakeGazetteer{exact: []GeocodeEntry{bromley}}
	r := newTestResolver(gaz)

	res, err := r.Resolve("Bromley", "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.CanonicalName != "Bromley" {
		t.Errorf("Resolve() name = %s, want Bromley", res.CanonicalName)
	}
	if res.ICAO != "" {
		t.Errorf("gazetteer result should carry no ICAO, got %s", res.ICAO)
	}
	if got := gaz.calls; len(got) != 1 || got[0] != "exact" {
		t.Errorf("gazetteer calls = %v, want [exact]", got)
	}
}

// Each gazetteer sub-step runs only when the previous one found nothing.
func TestResolveGazetteerCascadeOrder(t *testing.T) {
	entry := GeocodeEntry{Name: "Bern", Coordinate: airports.Coordinate{Lat: 46.948, Lon: 7.4474}}
	gaz := &fakeGazetteer{substring: []GeocodeEntry{entry}}
	r := newTestResolver(gaz)

	res, err := r.Resolve("ern", "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.CanonicalName != "Bern" {
		t.Errorf("Resolve() name = %s, want Bern", res.CanonicalName)
	}

	want := []string{"exact", "prefix", "substring"}
	if len(gaz.calls) != len(want) {
		t.Fatalf("gazetteer calls = %v, want %v", gaz.calls, want)
	}
	for i := range want {
		if gaz.calls[i] != want[i] {
			t.Fatalf("gazetteer calls = %v, want %v", gaz.calls, want)
		}
	}
}

// A four-letter query that is not a known ICAO code falls through to
// the rest of the cascade instead of failing.
func TestResolveUnknownICAOFallsThrough(t *testing.T) {
	entry := GeocodeEntry{Name: "Bern", Coordinate: airports.Coordinate{Lat: 46.948, Lon: 7.4474}}
	gaz := &fakeGazetteer{exact: []GeocodeEntry{entry}}
	r := newTestResolver(gaz)

	res, err := r.Resolve("Bern", "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.CanonicalName != "Bern" {
		t.Errorf("Resolve() name = %s, want Bern", res.CanonicalName)
	}
}

func TestResolveFuzzyAirportFallback(t *testing.T) {
	gaz := &fakeGazetteer{}
	r := newTestResolver(gaz)

	res, err := r.Resolve("Biggin", "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.ICAO != "EGKB" {
		t.Errorf("Resolve() ICAO = %s, want EGKB", res.ICAO)
	}
}

func TestResolveNotFound(t *testing.T) {
	r := newTestResolver(&fakeGazetteer{})

	_, err := r.Resolve("nowhere at all", "")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Resolve() error = %v, want *NotFoundError", err)
	}
}

func TestResolveEmptyQuery(t *testing.T) {
	r := newTestResolver(&fakeGazetteer{})

	if _, err := r.Resolve("   ", ""); err == nil {
		t.Fatal("Resolve() with blank query should fail")
	}
}

func TestResolveGazetteerErrorPropagates(t *testing.T) {
	gaz := &fakeGazetteer{err: errors.New("gazetteer offline")}
	r := newTestResolver(gaz)

	if _, err := r.Resolve("Bromley", ""); err == nil {
		t.Fatal("Resolve() should propagate gazetteer errors")
	}
}

func TestAnchorICAO(t *testing.T) {
	r := newTestResolver(&fakeGazetteer{})

	t.Run("airport result anchors to itself", func(t *testing.T) {
		res := &Result{ICAO: "LSZH"}
		icao, err := r.AnchorICAO(res)
		if err != nil {
			t.Fatalf("AnchorICAO() error = %v", err)
		}
		if icao != "LSZH" {
			t.Errorf("AnchorICAO() = %s, want LSZH", icao)
		}
	})

	t.Run("coordinate result anchors to nearest airport", func(t *testing.T) {
		// Bromley: closest fixture airport is Biggin Hill.
		res := &Result{
			Coordinate:    airports.Coordinate{Lat: 51.4039, Lon: 0.0198},
			CanonicalName: "Bromley",
		}
		icao, err := r.AnchorICAO(res)
		if err != nil {
			t.Fatalf("AnchorICAO() error = %v", err)
		}
		if icao != "EGKB" {
			t.Errorf("AnchorICAO() = %s, want EGKB", icao)
		}
	})
}

func TestIsICAOCandidate(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"LSZH", true},
		{"lszh", true},
		{"LSZ", false},
		{"LSZHX", false},
		{"LS2H", false},
		{"Bern", true}, // four letters: tried as ICAO first, falls through
		{"", false},
	}

	for _, tt := range tests {
		if got := isICAOCandidate(tt.query); got != tt.want {
			t.Errorf("isICAOCandidate(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}
