package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/flightwise/airquery/internal/airports"
	"github.com/flightwise/airquery/internal/config"
	"github.com/flightwise/airquery/internal/location"
	"github.com/flightwise/airquery/internal/notify"
	"github.com/flightwise/airquery/internal/rules"
	"github.com/flightwise/airquery/internal/tools"
	"github.com/flightwise/airquery/pkg/logger"
)

type stubAirportStore struct{}

func (stubAirportStore) LookupByCode(icao string) (*airports.Airport, error) {
	if icao == "LSZH" {
		return &airports.Airport{
			ICAO: "LSZH", Name: "Zurich",
			Coordinate: airports.Coordinate{Lat: 47.4647, Lon: 8.5492},
		}, nil
	}
	return nil, &airports.NotFoundError{ICAO: icao}
}

func (stubAirportStore) TextSearch(query string, limit int) ([]airports.Airport, error) {
	if strings.EqualFold(query, "Zurich") {
		return []airports.Airport{{
			ICAO: "LSZH", Name: "Zurich",
			Coordinate: airports.Coordinate{Lat: 47.4647, Lon: 8.5492},
		}}, nil
	}
	return nil, nil
}

func (stubAirportStore) SpatialQuery(airports.Coordinate, float64) ([]airports.Airport, error) {
	return nil, nil
}

func (stubAirportStore) AttributeScan() ([]airports.Airport, error) { return nil, nil }

type stubGazetteer struct{}

func (stubGazetteer) ExactMatch(string, int) ([]location.GeocodeEntry, error)     { return nil, nil }
func (stubGazetteer) PrefixMatch(string, int) ([]location.GeocodeEntry, error)    { return nil, nil }
func (stubGazetteer) SubstringMatch(string, int) ([]location.GeocodeEntry, error) { return nil, nil }

type stubNotifStore struct{}

func (stubNotifStore) Candidates() ([]notify.Record, error) { return nil, nil }
func (stubNotifStore) GroupByIcao() (map[string]notify.Record, error) {
	return map[string]notify.Record{}, nil
}

func testRouter(t *testing.T, initialize bool) http.Handler {
	t.Helper()

	log := logger.Nop()
	engine := airports.NewQueryEngine(stubAirportStore{}, log)
	resolver := location.NewResolver(engine, stubGazetteer{}, log)
	lookup := rules.NewLookup(&rules.Document{}, log)

	dispatcher := tools.NewDispatcher(engine, resolver, stubNotifStore{}, lookup, tools.Limits{}, log)
	if initialize {
		if err := dispatcher.Initialize(); err != nil {
			t.Fatalf("Initialize() error = %v", err)
		}
	}

	return NewRouter(dispatcher, nil, config.Default(), log).Routes()
}

func TestGetHealth(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		rec := httptest.NewRecorder()
		testRouter(t, true).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("initializing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		testRouter(t, false).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})
}

func TestGetToolCatalog(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(t, true).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tools", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Tools []tools.Definition `json:"tools"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Tools) != 8 {
		t.Errorf("catalog lists %d tools, want 8", len(body.Tools))
	}
}

func TestExecuteTool(t *testing.T) {
	router := testRouter(t, true)

	post := func(payload string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/execute", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("success", func(t *testing.T) {
		rec := post(`{"name":"search_airports","arguments":{"query":"Zurich"}}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var result tools.Result
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.IsError() {
			t.Fatalf("result error = %q", result.Error)
		}
		if !strings.Contains(result.Text, "LSZH (Zurich) - 47.4647°, 8.5492°") {
			t.Errorf("result missing wire line:\n%s", result.Text)
		}
	})

	t.Run("tool failure is a 200 with a result error", func(t *testing.T) {
		rec := post(`{"name":"no_such_tool","arguments":{}}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var result tools.Result
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !result.IsError() {
			t.Fatal("expected a result error for an unknown tool")
		}
		if !strings.HasPrefix(result.Error, "Error: ") {
			t.Errorf("error %q missing the Error: prefix", result.Error)
		}
	})

	t.Run("undecodable body is a 400", func(t *testing.T) {
		rec := post(`{not json`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}
