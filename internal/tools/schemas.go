package tools

// Definition describes one tool for function-calling clients: its name,
// a short description and a JSON-schema parameter object.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

func prop(typ, desc string) map[string]any {
	return map[string]any{"type": typ, "description": desc}
}

// filterProps is the shared optional-filter block of the spatial tools.
func filterProps() map[string]any {
	return map[string]any{
		"filter_country":       prop("string", "Restrict to a single ISO country code"),
		"has_procedures":       prop("boolean", "Require published instrument procedures"),
		"has_hard_runway":      prop("boolean", "Require at least one open paved runway"),
		"point_of_entry":       prop("boolean", "Require customs / border-crossing status"),
		"fuel_types":           map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Require all listed fuel types, e.g. AVGAS, JET-A"},
		"min_runway_length_ft": prop("integer", "Require a runway at least this long"),
		"max_runway_length_ft": prop("integer", "Require longest runway at most this long"),
		"has_ils":              prop("boolean", "Require an ILS approach"),
		"has_rnav":             prop("boolean", "Require an RNAV approach"),
		"max_landing_fee":      prop("number", "Require a known landing fee at most this amount"),
		"max_notice_hours":     prop("integer", "Require a notification requirement within this many hours of notice"),
	}
}

func schema(required []string, props map[string]any) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func merge(base, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// Definitions returns the function-calling definitions of every routed
// tool, in a stable order.
func Definitions() []Definition {
	return []Definition{
		{
			Name:        ToolSearchAirports,
			Description: "Search airports by ICAO code, name or city.",
			Parameters: schema([]string{"query"}, map[string]any{
				"query": prop("string", "Free text: code, name or city"),
				"limit": prop("integer", "Maximum results (default 10)"),
			}),
		},
		{
			Name:        ToolGetAirportDetails,
			Description: "Full details for one airport: runways, procedures, fuel, fees, AIP and notification requirements.",
			Parameters: schema([]string{"icao"}, map[string]any{
				"icao": prop("string", "4-letter ICAO code"),
			}),
		},
		{
			Name:        ToolFindAirportsNearRoute,
			Description: "Airports inside a corridor around the great-circle route between two locations.",
			Parameters: schema([]string{"from", "to"}, merge(map[string]any{
				"from":              prop("string", "Route start: ICAO code or place name"),
				"to":                prop("string", "Route end: ICAO code or place name"),
				"corridor_width_nm": prop("number", "Corridor half-width in NM (default 25)"),
			}, filterProps())),
		},
		{
			Name:        ToolFindAirportsNearPlace,
			Description: "Airports within a radius of a place, city or airport.",
			Parameters: schema([]string{"location"}, merge(map[string]any{
				"location":  prop("string", "Place name, city or ICAO code"),
				"radius_nm": prop("number", "Search radius in NM (default 50)"),
				"country":   prop("string", "Optional country hint for ambiguous place names"),
			}, filterProps())),
		},
		{
			Name:        ToolGetBorderCrossings,
			Description: "Airports designated as points of entry for border crossing.",
			Parameters: schema(nil, map[string]any{
				"country": prop("string", "Restrict to a single ISO country code"),
			}),
		},
		{
			Name:        ToolListRulesForCountry,
			Description: "Regulation questions and answers for one country.",
			Parameters: schema([]string{"country"}, map[string]any{
				"country": prop("string", "ISO country code"),
			}),
		},
		{
			Name:        ToolCompareRules,
			Description: "Side-by-side regulation comparison between two countries.",
			Parameters: schema([]string{"country_a", "country_b"}, map[string]any{
				"country_a": prop("string", "First ISO country code"),
				"country_b": prop("string", "Second ISO country code"),
			}),
		},
		{
			Name:        ToolFindByNotification,
			Description: "Airports whose notification requirement fits within a maximum hours-notice budget.",
			Parameters: schema([]string{"max_hours"}, map[string]any{
				"max_hours": prop("integer", "Largest acceptable notice in hours"),
			}),
		},
	}
}
