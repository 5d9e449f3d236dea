package models

import (
	"fmt"
	"strings"
	"time"
)

// AffiliationStat is one row of the per-affiliation aggregate tables.
type AffiliationStat struct {
	Affiliation  string    `json:"affiliation"`
	Count        int64     `json:"count"`
	LastDownload time.Time `json:"last_download"`

	// NullAffiliation marks the group of rows whose affiliation column is NULL,
	// which is kept apart from the "" group and shown as "(none)".
	NullAffiliation bool `json:"null_affiliation,omitempty"`
}

// Timestamp scans a time column or aggregate. Postgres hands back time.Time,
// SQLite hands back text for MAX(date) because the column type is lost.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *Timestamp) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v.UTC(), true
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("timestamp: unsupported type %T", value)
	}
}

func (t *Timestamp) parse(s string) error {
	s = strings.TrimSpace(s)
	// time.Time.String() output may carry a monotonic clock suffix.
	if i := strings.Index(s, " m="); i > 0 {
		s = s[:i]
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time, t.Valid = parsed.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("timestamp: cannot parse %q", s)
}
