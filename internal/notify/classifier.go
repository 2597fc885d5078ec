// Package notify classifies airport notification requirements into
// difficulty buckets. The rule order and the bucket/color mapping are a
// cross-platform contract shared with the map renderers; do not reorder
// or renumber.
package notify

// Type is the notification requirement type of a record.
type Type string

const (
	TypeH24          Type = "h24"           // manned around the clock
	TypeNotAvailable Type = "not_available" // notification not possible
	TypeOnRequest    Type = "on_request"    // handling only on request
	TypeBusinessDay  Type = "business_day"  // notice in business days
	TypeAsAdHours    Type = "as_ad_hours"   // per published AD hours
	TypeHours        Type = "hours"         // notice in hours
	TypeUnknown      Type = "unknown"
)

// Record is a single per-airport notification requirement. At most one
// record exists per ICAO within a query context.
type Record struct {
	ICAO        string `json:"icao"`
	Type        Type   `json:"type"`
	HoursNotice *int   `json:"hours_notice,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Hours       string `json:"hours,omitempty"` // operating-hours window, free text
}

// IsH24 reports whether the airport accepts traffic without any notice.
func (r Record) IsH24() bool { return r.Type == TypeH24 }

// IsOnRequest reports whether handling is available on request only.
func (r Record) IsOnRequest() bool { return r.Type == TypeOnRequest }

// Bucket is the classified notification difficulty.
type Bucket string

const (
	BucketH24       Bucket = "h24"
	BucketEasy      Bucket = "easy"
	BucketModerate  Bucket = "moderate"
	BucketHassle    Bucket = "hassle"
	BucketDifficult Bucket = "difficult"
	BucketUnknown   Bucket = "unknown"
)

// Colors is the fixed bucket display mapping consumed by every renderer.
var Colors = map[Bucket]string{
	BucketH24:       "#2E7D32",
	BucketEasy:      "#4CAF50",
	BucketModerate:  "#FFC107",
	BucketHassle:    "#FF9800",
	BucketDifficult: "#F44336",
	BucketUnknown:   "#9E9E9E",
}

// Color returns the display color for the bucket.
func (b Bucket) Color() string { return Colors[b] }

// Classify maps a record to its bucket. Rules are evaluated top to
// bottom; the first match wins and no later rule is consulted. The
// function is total: every valid record maps to exactly one bucket.
func Classify(r Record) Bucket {
	switch {
	case r.IsH24():
		return BucketH24
	case r.Type == TypeNotAvailable:
		return BucketDifficult
	case r.IsOnRequest():
		return BucketModerate
	case r.Type == TypeBusinessDay:
		return BucketHassle
	case r.Type == TypeAsAdHours:
		return BucketEasy
	case r.Type == TypeHours && r.HoursNotice == nil:
		return BucketEasy
	case r.HoursNotice == nil:
		return BucketUnknown
	case *r.HoursNotice <= 12:
		return BucketEasy
	case *r.HoursNotice <= 24:
		return BucketModerate
	case *r.HoursNotice <= 48:
		return BucketHassle
	default:
		return BucketDifficult
	}
}

// Store is the read-only notification record source.
type Store interface {
	// Candidates returns every record that could classify into an
	// hours-bounded bucket. The result is a superset: callers filter by
	// the classified bucket, the store only prunes records no bucket
	// ceiling can ever admit.
	Candidates() ([]Record, error)

	// GroupByIcao returns the latest record per ICAO code.
	GroupByIcao() (map[string]Record, error)
}
