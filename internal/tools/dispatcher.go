// Package tools decodes loosely-typed tool invocations, routes them to
// query handlers and renders results in the fixed textual wire protocol.
package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/flightwise/airquery/internal/airports"
	"github.com/flightwise/airquery/internal/location"
	"github.com/flightwise/airquery/internal/notify"
	"github.com/flightwise/airquery/internal/rules"
	"github.com/flightwise/airquery/pkg/logger"
)

// Tool names routed by the dispatcher.
const (
	ToolSearchAirports        = "search_airports"
	ToolGetAirportDetails     = "get_airport_details"
	ToolFindAirportsNearRoute = "find_airports_near_route"
	ToolFindAirportsNearPlace = "find_airports_near_location"
	ToolGetBorderCrossings    = "get_border_crossing_airports"
	ToolListRulesForCountry   = "list_rules_for_country"
	ToolCompareRules          = "compare_rules_between_countries"
	ToolFindByNotification    = "find_airports_by_notification"
)

// Result caps. Every tool enforces an explicit cap to bound memory and
// response size.
const (
	nearLocationCap  = 15
	routeResultCap   = 20
	attributeScanCap = 50
)

// Limits carries the configurable query defaults.
type Limits struct {
	SearchLimit       int
	DefaultRadiusNM   float64
	DefaultCorridorNM float64
}

func (l Limits) withDefaults() Limits {
	if l.SearchLimit <= 0 {
		l.SearchLimit = airports.DefaultSearchLimit
	}
	if l.DefaultRadiusNM <= 0 {
		l.DefaultRadiusNM = 50
	}
	if l.DefaultCorridorNM <= 0 {
		l.DefaultCorridorNM = 25
	}
	return l
}

// Result is the outcome of a tool call: successful text or an error
// message. User-visible error text carries an "Error: " prefix so
// callers without structured-error support can still detect failure.
type Result struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// IsError reports whether the result carries an error.
func (r Result) IsError() bool { return r.Error != "" }

// Success wraps text in a successful result.
func Success(text string) Result { return Result{Text: text} }

// Failure wraps an error in a failed result.
func Failure(err error) Result { return Result{Error: "Error: " + err.Error()} }

type handlerFunc func(ctx context.Context, args Args) (string, error)

// Dispatcher routes tool-call requests to their handlers. It starts
// uninitialized; every call before Initialize fails fast with
// ErrNotInitialized without touching any store.
type Dispatcher struct {
	engine   *airports.QueryEngine
	resolver *location.Resolver
	notifs   notify.Store
	rules    *rules.Lookup
	limits   Limits
	logger   *logger.Logger
	ready    atomic.Bool
	handlers map[string]handlerFunc
}

// NewDispatcher creates a dispatcher over the given components. Call
// Initialize before executing tools.
func NewDispatcher(
	engine *airports.QueryEngine,
	resolver *location.Resolver,
	notifs notify.Store,
	rulesLookup *rules.Lookup,
	limits Limits,
	logger *logger.Logger,
) *Dispatcher {
	d := &Dispatcher{
		engine:   engine,
		resolver: resolver,
		notifs:   notifs,
		rules:    rulesLookup,
		limits:   limits.withDefaults(),
		logger:   logger.Named("dispatcher"),
	}

	d.handlers = map[string]handlerFunc{
		ToolSearchAirports:        d.handleSearchAirports,
		ToolGetAirportDetails:     d.handleGetAirportDetails,
		ToolFindAirportsNearRoute: d.handleFindAirportsNearRoute,
		ToolFindAirportsNearPlace: d.handleFindAirportsNearLocation,
		ToolGetBorderCrossings:    d.handleGetBorderCrossings,
		ToolListRulesForCountry:   d.handleListRulesForCountry,
		ToolCompareRules:          d.handleCompareRules,
		ToolFindByNotification:    d.handleFindByNotification,
	}

	return d
}

// Initialize verifies the wiring and marks the dispatcher ready.
func (d *Dispatcher) Initialize() error {
	if d.engine == nil || d.resolver == nil || d.notifs == nil || d.rules == nil {
		return fmt.Errorf("dispatcher wiring incomplete")
	}
	d.ready.Store(true)
	d.logger.Info("Tool dispatcher ready", logger.Int("tools", len(d.handlers)))
	return nil
}

// Ready reports whether the dispatcher accepts calls.
func (d *Dispatcher) Ready() bool { return d.ready.Load() }

// ToolNames returns the sorted names of all routed tools.
func (d *Dispatcher) ToolNames() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call routes a request to its handler and returns the rendered text or
// a typed error. Internal callers and tests should prefer Call; Execute
// is the string-protocol boundary.
func (d *Dispatcher) Call(ctx context.Context, req ToolCallRequest) (string, error) {
	if !d.ready.Load() {
		return "", ErrNotInitialized
	}

	handler, ok := d.handlers[req.Name]
	if !ok {
		return "", &UnknownToolError{Name: req.Name}
	}

	args := req.Arguments
	if args == nil {
		args = Args{}
	}

	return handler(ctx, args)
}

// Execute runs a tool call and converts every failure, including panics
// from lower layers, into a Result error. Nothing escapes this boundary.
func (d *Dispatcher) Execute(ctx context.Context, req ToolCallRequest) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Tool handler panicked",
				logger.String("tool", req.Name),
				logger.Any("cause", r))
			result = Result{Error: fmt.Sprintf("Tool execution failed: %v", r)}
		}
	}()

	text, err := d.Call(ctx, req)
	if err != nil {
		d.logger.Warn("Tool call failed",
			logger.String("tool", req.Name),
			logger.Error(err))
		return Failure(err)
	}

	return Success(text)
}

// --- Handlers ---

func (d *Dispatcher) handleSearchAirports(_ context.Context, args Args) (string, error) {
	query, ok := args.String("query")
	if !ok {
		return "", &MissingArgumentError{Argument: "query"}
	}

	limit, ok := args.Int("limit")
	if !ok || limit <= 0 {
		limit = d.limits.SearchLimit
	}
	results, err := d.engine.SearchByText(query, limit)
	if err != nil {
		return "", err
	}

	return formatSearchResults(query, results), nil
}

func (d *Dispatcher) handleGetAirportDetails(_ context.Context, args Args) (string, error) {
	icao, ok := args.String("icao")
	if !ok {
		return "", &MissingArgumentError{Argument: "icao"}
	}

	airport, err := d.engine.LookupByCode(icao)
	if err != nil {
		return "", err
	}

	// Notification data is supplemental; degrade without it
	var rec *notify.Record
	if grouped, err := d.notifs.GroupByIcao(); err != nil {
		d.logger.Warn("Notification lookup failed, omitting from details",
			logger.String("icao", airport.ICAO),
			logger.Error(err))
	} else if r, ok := grouped[airport.ICAO]; ok {
		rec = &r
	}

	return formatAirportDetails(airport, rec), nil
}

func (d *Dispatcher) handleFindAirportsNearRoute(_ context.Context, args Args) (string, error) {
	fromQuery, ok := args.String("from")
	if !ok {
		return "", &MissingArgumentError{Argument: "from"}
	}
	toQuery, ok := args.String("to")
	if !ok {
		return "", &MissingArgumentError{Argument: "to"}
	}

	corridorNM, ok := args.Float("corridor_width_nm")
	if !ok || corridorNM <= 0 {
		corridorNM = d.limits.DefaultCorridorNM
	}

	fromICAO, err := d.resolveAnchor(fromQuery)
	if err != nil {
		return "", err
	}
	toICAO, err := d.resolveAnchor(toQuery)
	if err != nil {
		return "", err
	}

	results, err := d.engine.AlongRoute(fromICAO, toICAO, corridorNM)
	if err != nil {
		return "", err
	}

	spec := filterSpecFromArgs(args)
	if !spec.IsZero() {
		sets, err := d.filterSets(spec)
		if err != nil {
			return "", err
		}
		kept := results[:0]
		for _, ra := range results {
			if spec.Matches(ra.Airport, sets) {
				kept = append(kept, ra)
			}
		}
		results = kept
	}

	if len(results) > routeResultCap {
		results = results[:routeResultCap]
	}

	return formatRouteResults(fromICAO, toICAO, corridorNM, results), nil
}

func (d *Dispatcher) handleFindAirportsNearLocation(_ context.Context, args Args) (string, error) {
	place, ok := args.String("location")
	if !ok {
		return "", &MissingArgumentError{Argument: "location"}
	}

	radiusNM, ok := args.Float("radius_nm")
	if !ok || radiusNM <= 0 {
		radiusNM = d.limits.DefaultRadiusNM
	}

	hint, _ := args.String("country")
	res, err := d.resolver.Resolve(place, hint)
	if err != nil {
		return "", err
	}

	ranked, err := d.engine.WithinRadius(res.Coordinate, radiusNM)
	if err != nil {
		return "", err
	}

	spec := filterSpecFromArgs(args)
	if !spec.IsZero() {
		sets, err := d.filterSets(spec)
		if err != nil {
			return "", err
		}
		kept := ranked[:0]
		for _, ra := range ranked {
			if spec.Matches(ra.Airport, sets) {
				kept = append(kept, ra)
			}
		}
		ranked = kept
	}

	if len(ranked) > nearLocationCap {
		ranked = ranked[:nearLocationCap]
	}

	return formatNearResults(res.CanonicalName, ranked), nil
}

func (d *Dispatcher) handleGetBorderCrossings(_ context.Context, args Args) (string, error) {
	country, _ := args.String("country")

	results, err := d.engine.ByField(func(a airports.Airport) bool {
		if !a.PointOfEntry {
			return false
		}
		return country == "" || strings.EqualFold(a.Country, country)
	})
	if err != nil {
		return "", err
	}

	if len(results) > attributeScanCap {
		results = results[:attributeScanCap]
	}

	return formatBorderCrossings(country, results), nil
}

func (d *Dispatcher) handleListRulesForCountry(_ context.Context, args Args) (string, error) {
	country, ok := args.String("country")
	if !ok {
		return "", &MissingArgumentError{Argument: "country"}
	}

	return formatRules(country, d.rules.ByCountry(country)), nil
}

func (d *Dispatcher) handleCompareRules(_ context.Context, args Args) (string, error) {
	codeA, ok := args.String("country_a")
	if !ok {
		return "", &MissingArgumentError{Argument: "country_a"}
	}
	codeB, ok := args.String("country_b")
	if !ok {
		return "", &MissingArgumentError{Argument: "country_b"}
	}

	return formatRulesComparison(codeA, codeB, d.rules.Compare(codeA, codeB)), nil
}

func (d *Dispatcher) handleFindByNotification(_ context.Context, args Args) (string, error) {
	maxHours, ok := args.Int("max_hours")
	if !ok {
		return "", &MissingArgumentError{Argument: "max_hours"}
	}

	records, err := d.notifs.Candidates()
	if err != nil {
		return "", err
	}

	// Keep only records whose classified bucket fits within the caller's
	// notice budget. Airports without any record are excluded; see the
	// open question in DESIGN.md.
	byICAO := make(map[string]notify.Record, len(records))
	var matched []airports.Airport
	for _, rec := range records {
		ceiling, ok := bucketCeilingHours(notify.Classify(rec))
		if !ok || ceiling > maxHours {
			continue
		}
		airport, err := d.engine.LookupByCode(rec.ICAO)
		if err != nil {
			var nf *airports.NotFoundError
			if errors.As(err, &nf) {
				continue // stale record, skip
			}
			return "", err
		}
		byICAO[rec.ICAO] = rec
		matched = append(matched, *airport)
	}

	if len(matched) > attributeScanCap {
		matched = matched[:attributeScanCap]
	}

	return formatNotificationResults(maxHours, matched, byICAO), nil
}

// bucketCeilingHours maps a bucket to the largest notice requirement it
// can represent. Unknown and difficult buckets never qualify for an
// hours-bounded query, and neither does h24: around-the-clock airports
// have no notice requirement to bound, so they are not hours-bounded
// results.
func bucketCeilingHours(b notify.Bucket) (int, bool) {
	switch b {
	case notify.BucketEasy:
		return 12, true
	case notify.BucketModerate:
		return 24, true
	case notify.BucketHassle:
		return 48, true
	default:
		return 0, false
	}
}

// resolveAnchor resolves a free-text route endpoint to an ICAO code.
func (d *Dispatcher) resolveAnchor(query string) (string, error) {
	res, err := d.resolver.Resolve(query, "")
	if err != nil {
		return "", err
	}
	return d.resolver.AnchorICAO(res)
}

// filterSpecFromArgs decodes the optional attribute filters shared by
// the spatial tools.
func filterSpecFromArgs(args Args) airports.FilterSpec {
	var spec airports.FilterSpec

	if v, ok := args.String("filter_country"); ok {
		spec.Country = v
	}
	if v, ok := args.Bool("has_procedures"); ok {
		spec.HasProcedures = &v
	}
	if v, ok := args.Bool("has_hard_runway"); ok {
		spec.HasHardRunway = &v
	}
	if v, ok := args.Bool("point_of_entry"); ok {
		spec.PointOfEntry = &v
	}
	if v, ok := args.StringSlice("fuel_types"); ok {
		spec.FuelTypes = v
	}
	if v, ok := args.Int("min_runway_length_ft"); ok {
		spec.MinRunwayLengthFt = &v
	}
	if v, ok := args.Int("max_runway_length_ft"); ok {
		spec.MaxRunwayLengthFt = &v
	}
	if v, ok := args.Bool("has_ils"); ok {
		spec.HasILS = &v
	}
	if v, ok := args.Bool("has_rnav"); ok {
		spec.HasRNAV = &v
	}
	if v, ok := args.Float("max_landing_fee"); ok {
		spec.MaxLandingFee = &v
	}
	if v, ok := args.Int("max_notice_hours"); ok {
		spec.MaxNoticeHours = &v
	}

	return spec
}

// filterSets gathers the auxiliary ICAO sets the spec's predicates
// consult: designated points of entry and, for a notice-hours bound,
// the airports whose classified bucket fits the bound.
func (d *Dispatcher) filterSets(spec airports.FilterSpec) (airports.FilterSets, error) {
	var sets airports.FilterSets

	if spec.PointOfEntry != nil {
		poe, err := d.engine.ByField(func(a airports.Airport) bool { return a.PointOfEntry })
		if err != nil {
			return sets, err
		}
		sets.BorderCrossing = make(map[string]struct{}, len(poe))
		for _, a := range poe {
			sets.BorderCrossing[a.ICAO] = struct{}{}
		}
	}

	if spec.MaxNoticeHours != nil {
		records, err := d.notifs.Candidates()
		if err != nil {
			return sets, err
		}
		sets.NotificationQualifying = make(map[string]struct{})
		for _, rec := range records {
			ceiling, ok := bucketCeilingHours(notify.Classify(rec))
			if ok && ceiling <= *spec.MaxNoticeHours {
				sets.NotificationQualifying[rec.ICAO] = struct{}{}
			}
		}
	}

	return sets, nil
}

