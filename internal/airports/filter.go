package airports

import "strings"

// FilterSpec is a set of independently optional airport predicates.
// A nil/absent field places no constraint; present fields compose with
// logical AND. The zero value matches every airport.
type FilterSpec struct {
	Country           string   // ISO country code
	HasProcedures     *bool    // any published instrument procedure
	HasHardRunway     *bool    // at least one open paved runway
	PointOfEntry      *bool    // customs / border-crossing airport
	FuelTypes         []string // airport must carry every listed fuel type
	MinRunwayLengthFt *int
	MaxRunwayLengthFt *int
	HasILS            *bool
	HasRNAV           *bool
	MaxLandingFee     *float64

	// MaxNoticeHours requires membership in the caller-supplied
	// NotificationQualifying set; the notification data lives outside
	// the airport record.
	MaxNoticeHours *int
}

// FilterSets carries the auxiliary ICAO sets some predicates need.
// They are supplied by the caller alongside the spec so the filter
// itself stays a pure function of its inputs.
type FilterSets struct {
	// BorderCrossing is the set of ICAO codes designated as points of
	// entry, used when the airport record itself carries no flag.
	BorderCrossing map[string]struct{}

	// NotificationQualifying is the set of ICAO codes whose notification
	// requirements qualified under the caller's constraint.
	NotificationQualifying map[string]struct{}
}

// IsZero reports whether the spec places no constraints at all.
func (f FilterSpec) IsZero() bool {
	return f.Country == "" &&
		f.HasProcedures == nil &&
		f.HasHardRunway == nil &&
		f.PointOfEntry == nil &&
		len(f.FuelTypes) == 0 &&
		f.MinRunwayLengthFt == nil &&
		f.MaxRunwayLengthFt == nil &&
		f.HasILS == nil &&
		f.HasRNAV == nil &&
		f.MaxLandingFee == nil &&
		f.MaxNoticeHours == nil
}

// predicate is a single pure airport test.
type predicate func(Airport) bool

// predicates expands the spec into its list of active predicates.
// Cheap, selective tests come first so the conjunction short-circuits
// early; correctness does not depend on the order.
func (f FilterSpec) predicates(sets FilterSets) []predicate {
	var preds []predicate

	if f.Country != "" {
		want := strings.ToUpper(f.Country)
		preds = append(preds, func(a Airport) bool {
			return strings.ToUpper(a.Country) == want
		})
	}

	if f.PointOfEntry != nil {
		want := *f.PointOfEntry
		preds = append(preds, func(a Airport) bool {
			poe := a.PointOfEntry
			if !poe && sets.BorderCrossing != nil {
				_, poe = sets.BorderCrossing[a.ICAO]
			}
			return poe == want
		})
	}

	if f.HasProcedures != nil {
		want := *f.HasProcedures
		preds = append(preds, func(a Airport) bool {
			return (len(a.Procedures) > 0) == want
		})
	}

	if f.HasHardRunway != nil {
		want := *f.HasHardRunway
		preds = append(preds, func(a Airport) bool {
			has := false
			for _, r := range a.Runways {
				if r.IsHard() && !r.Closed {
					has = true
					break
				}
			}
			return has == want
		})
	}

	if f.MinRunwayLengthFt != nil {
		min := *f.MinRunwayLengthFt
		preds = append(preds, func(a Airport) bool {
			for _, r := range a.Runways {
				if !r.Closed && r.LengthFt >= min {
					return true
				}
			}
			return false
		})
	}

	if f.MaxRunwayLengthFt != nil {
		max := *f.MaxRunwayLengthFt
		preds = append(preds, func(a Airport) bool {
			longest := 0
			for _, r := range a.Runways {
				if !r.Closed && r.LengthFt > longest {
					longest = r.LengthFt
				}
			}
			return longest <= max
		})
	}

	if len(f.FuelTypes) > 0 {
		want := make([]string, len(f.FuelTypes))
		for i, ft := range f.FuelTypes {
			want[i] = strings.ToUpper(ft)
		}
		preds = append(preds, func(a Airport) bool {
			for _, w := range want {
				found := false
				for _, have := range a.FuelTypes {
					if strings.ToUpper(have) == w {
						found = true
						break
					}
				}
				if !found {
					return false
				}
			}
			return true
		})
	}

	if f.HasILS != nil {
		want := *f.HasILS
		preds = append(preds, func(a Airport) bool {
			return hasApproachType(a, "ILS") == want
		})
	}

	if f.HasRNAV != nil {
		want := *f.HasRNAV
		preds = append(preds, func(a Airport) bool {
			return hasApproachType(a, "RNAV") == want
		})
	}

	if f.MaxLandingFee != nil {
		max := *f.MaxLandingFee
		preds = append(preds, func(a Airport) bool {
			return a.LandingFee != nil && *a.LandingFee <= max
		})
	}

	if f.MaxNoticeHours != nil {
		preds = append(preds, func(a Airport) bool {
			if sets.NotificationQualifying == nil {
				return false
			}
			_, ok := sets.NotificationQualifying[a.ICAO]
			return ok
		})
	}

	return preds
}

func hasApproachType(a Airport, approachType string) bool {
	for _, p := range a.Procedures {
		if strings.EqualFold(p.Type, "approach") && strings.EqualFold(p.ApproachType, approachType) {
			return true
		}
	}
	return false
}

// Matches reports whether the airport satisfies every present field of
// the spec.
func (f FilterSpec) Matches(a Airport, sets FilterSets) bool {
	for _, pred := range f.predicates(sets) {
		if !pred(a) {
			return false
		}
	}
	return true
}

// ApplyFilter evaluates the spec over the candidate set and returns the
// airports matching every present field. It is a pure function and
// idempotent: applying the same spec twice yields the same result.
func ApplyFilter(candidates []Airport, spec FilterSpec, sets FilterSets) []Airport {
	if spec.IsZero() {
		return candidates
	}

	preds := spec.predicates(sets)
	filtered := make([]Airport, 0, len(candidates))

	for _, a := range candidates {
		ok := true
		for _, pred := range preds {
			if !pred(a) {
				ok = false
				break
			}
		}
		if ok {
			filtered = append(filtered, a)
		}
	}

	return filtered
}
