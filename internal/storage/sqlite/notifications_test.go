package sqlite

import (
	"database/sql"
	"testing"

	"github.com/flightwise/airquery/internal/notify"
	"github.com/flightwise/airquery/pkg/logger"
)

func seedNotificationDB(t *testing.T) *sql.DB {
	t.Helper()
	db := openTestDB(t)

	stmts := []string{
		`CREATE TABLE notifications (
			icao TEXT NOT NULL,
			type TEXT NOT NULL,
			hours_notice INTEGER,
			summary TEXT,
			hours TEXT
		)`,
		`INSERT INTO notifications VALUES
			('LSZH', 'h24', NULL, 'Manned H24', NULL),
			('LSZB', 'hours', 4, 'PPR 4 hours', '0600-2200'),
			('LSGS', 'hours', 24, 'PPR 24 hours', NULL),
			('LSGG', 'as_ad_hours', NULL, NULL, '0600-2359'),
			('LFMN', 'on_request', NULL, 'Handling on request', NULL),
			('EDKA', 'hours', NULL, 'PPR required', NULL),
			('LSMM', 'not_available', NULL, 'Military field', NULL)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
	return db
}

func TestNotificationsCandidates(t *testing.T) {
	store := NewNotificationStorage(seedNotificationDB(t), logger.Nop())

	records, err := store.Candidates()
	if err != nil {
		t.Fatalf("Candidates() error = %v", err)
	}

	got := map[string]notify.Record{}
	for _, r := range records {
		got[r.ICAO] = r
	}

	// Every record that can reach an hours-bounded bucket comes back,
	// including an hours record with no figure: it still classifies.
	for _, want := range []string{"LSZH", "LSZB", "LSGS", "LSGG", "LFMN", "EDKA"} {
		if _, ok := got[want]; !ok {
			t.Errorf("Candidates() missing %s", want)
		}
	}
	// not_available is always difficult; no ceiling ever admits it.
	if _, ok := got["LSMM"]; ok {
		t.Error("Candidates() should exclude not_available records")
	}

	if rec := got["LSZB"]; rec.HoursNotice == nil || *rec.HoursNotice != 4 {
		t.Errorf("LSZB hours notice = %v, want 4", rec.HoursNotice)
	}
	if rec := got["EDKA"]; rec.HoursNotice != nil {
		t.Errorf("EDKA hours notice = %v, want nil for NULL column", *rec.HoursNotice)
	}
}

// The store prefilter must stay a superset of what the classifier
// admits: a bucket is decided by record type before any hours figure is
// consulted, so the store cannot drop rows on hours_notice alone.
func TestNotificationsCandidatesCoverClassifier(t *testing.T) {
	store := NewNotificationStorage(seedNotificationDB(t), logger.Nop())

	records, err := store.Candidates()
	if err != nil {
		t.Fatalf("Candidates() error = %v", err)
	}

	buckets := map[string]notify.Bucket{}
	for _, r := range records {
		buckets[r.ICAO] = notify.Classify(r)
	}

	if buckets["EDKA"] != notify.BucketEasy {
		t.Errorf("EDKA bucket = %s, want easy for hours with no figure", buckets["EDKA"])
	}
	if buckets["LFMN"] != notify.BucketModerate {
		t.Errorf("LFMN bucket = %s, want moderate for on_request", buckets["LFMN"])
	}
}

func TestNotificationsGroupByIcao(t *testing.T) {
	store := NewNotificationStorage(seedNotificationDB(t), logger.Nop())

	grouped, err := store.GroupByIcao()
	if err != nil {
		t.Fatalf("GroupByIcao() error = %v", err)
	}
	if len(grouped) != 7 {
		t.Fatalf("GroupByIcao() = %d entries, want 7", len(grouped))
	}

	rec, ok := grouped["LSZB"]
	if !ok {
		t.Fatal("GroupByIcao() missing LSZB")
	}
	if rec.Type != notify.TypeHours || rec.Hours != "0600-2200" {
		t.Errorf("LSZB record = %+v", rec)
	}
}
