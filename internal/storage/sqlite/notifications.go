package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/flightwise/airquery/internal/notify"
	"github.com/flightwise/airquery/pkg/logger"
)

// NotificationStorage serves per-airport notification records from
// SQLite. It implements notify.Store.
type NotificationStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewNotificationStorage creates a new SQLite notification store over an
// open read-only handle.
func NewNotificationStorage(db *sql.DB, logger *logger.Logger) *NotificationStorage {
	return &NotificationStorage{
		db:     db,
		logger: logger.Named("sqlite-notify"),
	}
}

const notificationColumns = `icao, type, hours_notice, summary, hours`

// Candidates returns every record that could classify into an
// hours-bounded bucket. The bucket itself depends on the record type
// before any hours figure is consulted (a NULL hours_notice still
// classifies), so the store only drops the one type no ceiling can ever
// admit and leaves the bucket arithmetic to the classifier.
func (s *NotificationStorage) Candidates() ([]notify.Record, error) {
	rows, err := s.db.Query(
		`SELECT `+notificationColumns+`
		FROM notifications
		WHERE type <> ?`,
		string(notify.TypeNotAvailable),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query notification candidates: %w", err)
	}
	defer rows.Close()

	return scanNotificationRows(rows)
}

// GroupByIcao returns the notification record for each airport that has
// one. With at most one record per ICAO in the dataset, later rows win.
func (s *NotificationStorage) GroupByIcao() (map[string]notify.Record, error) {
	rows, err := s.db.Query(`SELECT ` + notificationColumns + ` FROM notifications`)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	records, err := scanNotificationRows(rows)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string]notify.Record, len(records))
	for _, rec := range records {
		grouped[rec.ICAO] = rec
	}
	return grouped, nil
}

func scanNotificationRows(rows *sql.Rows) ([]notify.Record, error) {
	var records []notify.Record
	for rows.Next() {
		var rec notify.Record
		var typ string
		var hoursNotice sql.NullInt64
		var summary, hours sql.NullString

		if err := rows.Scan(&rec.ICAO, &typ, &hoursNotice, &summary, &hours); err != nil {
			return nil, fmt.Errorf("failed to scan notification record: %w", err)
		}

		rec.Type = notify.Type(typ)
		if hoursNotice.Valid {
			n := int(hoursNotice.Int64)
			rec.HoursNotice = &n
		}
		rec.Summary = summary.String
		rec.Hours = hours.String

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("notification row iteration failed: %w", err)
	}
	return records, nil
}
