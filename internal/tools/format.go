package tools

import (
	"fmt"
	"strings"

	"github.com/flightwise/airquery/internal/airports"
	"github.com/flightwise/airquery/internal/notify"
	"github.com/flightwise/airquery/internal/rules"
)

// airportLineFormat is the wire format for a single airport line.
// Downstream map renderers regex-extract coordinates from this exact
// pattern; any change here is a breaking protocol change.
const airportLineFormat = "%s (%s) - %.4f°, %.4f°"

// AirportLine renders the fixed per-airport wire line.
func AirportLine(a airports.Airport) string {
	return fmt.Sprintf(airportLineFormat, a.ICAO, a.Name, a.Coordinate.Lat, a.Coordinate.Lon)
}

// formatSearchResults renders a text search result list.
func formatSearchResults(query string, results []airports.Airport) string {
	if len(results) == 0 {
		return fmt.Sprintf("No airports found matching %q.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d airport(s) matching %q:\n", len(results), query)
	for _, a := range results {
		b.WriteString(AirportLine(a))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatNearResults renders a proximity result list with distances.
func formatNearResults(place string, results []airports.RankedAirport) string {
	if len(results) == 0 {
		return fmt.Sprintf("No airports found near %s.", place)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Airports near %s:\n", place)
	for _, a := range results {
		b.WriteString(AirportLine(a.Airport))
		fmt.Fprintf(&b, " [%.1f NM]\n", a.DistanceNM)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatRouteResults renders a route corridor result list.
func formatRouteResults(from, to string, corridorNM float64, results []airports.RouteAirport) string {
	if len(results) == 0 {
		return fmt.Sprintf("No airports found within %.0f NM of the %s-%s route.", corridorNM, from, to)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Airports within %.0f NM of the %s-%s route:\n", corridorNM, from, to)
	for _, a := range results {
		b.WriteString(AirportLine(a.Airport))
		fmt.Fprintf(&b, " [%.1f NM off track, %.1f NM along route]\n",
			a.SegmentDistanceNM, a.AlongTrackDistanceNM)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatBorderCrossings renders the point-of-entry listing.
func formatBorderCrossings(country string, results []airports.Airport) string {
	scope := ""
	if country != "" {
		scope = " in " + strings.ToUpper(country)
	}

	if len(results) == 0 {
		return fmt.Sprintf("No border crossing airports found%s.", scope)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Border crossing airports%s:\n", scope)
	for _, a := range results {
		b.WriteString(AirportLine(a))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatAirportDetails renders the full detail view of one airport.
func formatAirportDetails(a *airports.Airport, rec *notify.Record) string {
	var b strings.Builder

	b.WriteString(AirportLine(*a))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "City: %s, Country: %s\n", orDash(a.City), orDash(a.Country))
	fmt.Fprintf(&b, "Elevation: %d ft, Type: %s\n", a.ElevationFt, orDash(a.Type))

	if a.PointOfEntry {
		b.WriteString("Point of entry: yes\n")
	}
	if len(a.FuelTypes) > 0 {
		fmt.Fprintf(&b, "Fuel: %s\n", strings.Join(a.FuelTypes, ", "))
	}
	if a.LandingFee != nil {
		fmt.Fprintf(&b, "Landing fee: %.2f\n", *a.LandingFee)
	}

	if len(a.Runways) > 0 {
		b.WriteString("Runways:\n")
		for _, r := range a.Runways {
			flags := ""
			if r.Lighted {
				flags += ", lighted"
			}
			if r.Closed {
				flags += ", CLOSED"
			}
			fmt.Fprintf(&b, "  %s/%s: %d x %d ft, %s%s\n",
				r.LowEnd, r.HighEnd, r.LengthFt, r.WidthFt, orDash(r.Surface), flags)
		}
	}

	if len(a.Procedures) > 0 {
		b.WriteString("Procedures:\n")
		for _, p := range a.Procedures {
			line := "  " + p.Type
			if p.ApproachType != "" {
				line += " " + p.ApproachType
			}
			if p.PrecisionCategory != "" {
				line += " (" + p.PrecisionCategory + ")"
			}
			b.WriteString(line + "\n")
		}
	}

	if rec != nil {
		bucket := notify.Classify(*rec)
		fmt.Fprintf(&b, "Notification: %s (%s)\n", rec.Type, bucket)
		if rec.HoursNotice != nil {
			fmt.Fprintf(&b, "  Notice required: %d hours\n", *rec.HoursNotice)
		}
		if rec.Summary != "" {
			fmt.Fprintf(&b, "  %s\n", rec.Summary)
		}
	}

	if len(a.AIPEntries) > 0 {
		b.WriteString("AIP:\n")
		for _, e := range a.AIPEntries {
			fmt.Fprintf(&b, "  %s: %s\n", e.Field, e.Value)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// formatNotificationResults renders airports grouped under their
// notification buckets.
func formatNotificationResults(maxHours int, results []airports.Airport, records map[string]notify.Record) string {
	if len(results) == 0 {
		return fmt.Sprintf("No airports found with at most %d hours notification required.", maxHours)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Airports requiring at most %d hours notice:\n", maxHours)
	for _, a := range results {
		b.WriteString(AirportLine(a))
		if rec, ok := records[a.ICAO]; ok {
			fmt.Fprintf(&b, " [%s]", notify.Classify(rec))
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatRules renders the rules listing for one country.
func formatRules(country string, entries []rules.Entry) string {
	if len(entries) == 0 {
		return fmt.Sprintf("No rules found for %s.", country)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Rules for %s:\n", country)
	for _, e := range entries {
		fmt.Fprintf(&b, "Q: %s\nA: %s\n", e.Question, e.Answer)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatRulesComparison renders the side-by-side rules diff.
func formatRulesComparison(codeA, codeB string, entries []rules.ComparisonEntry) string {
	if len(entries) == 0 {
		return fmt.Sprintf("No comparable rules found for %s and %s.", codeA, codeB)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Rules comparison %s vs %s:\n", codeA, codeB)
	for _, e := range entries {
		fmt.Fprintf(&b, "Q: %s\n%s: %s\n%s: %s\n", e.Question, codeA, e.AnswerA, codeB, e.AnswerB)
	}
	return strings.TrimRight(b.String(), "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
