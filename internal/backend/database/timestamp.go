package database

import (
	"fmt"
	"time"
)

// sqliteTimestampLayouts are the formats CURRENT_TIMESTAMP and RFC 3339 writers produce.
var sqliteTimestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
}

func parseSQLiteTimestamp(raw string) (time.Time, error) {
	for _, layout := range sqliteTimestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", raw)
}
