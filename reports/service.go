// Package reports builds the download statistics shown on the stats page and
// records new download requests.
package reports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/maypok86/otter"

	"github.com/basit/download-tracker/models"
	"github.com/basit/download-tracker/store"
)

// Window is the trailing period covered by the "Last 30 Days" table.
const Window = 30 * 24 * time.Hour

const (
	maxFieldLength  = 255
	generalCacheKey = "general"
)

// ErrInvalidInput is returned by RecordDownload when a field cannot be stored.
var ErrInvalidInput = errors.New("invalid download record")

type GeneralReport struct {
	AllTime     []models.AffiliationStat `json:"all_time"`
	Last30Days  []models.AffiliationStat `json:"last_30_days"`
	GeneratedAt time.Time                `json:"generated_at"`
}

type PeopleReport struct {
	Records []models.DownloadRecord `json:"records"`
}

// Report is the outcome of one stats request. Exactly one of General and
// People is set, or neither for ModeUnknown.
type Report struct {
	Mode    Mode
	General *GeneralReport
	People  *PeopleReport
}

type Option func(*Service)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCacheTTL keeps the general report in memory for ttl. Zero disables it.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) { s.cacheTTL = ttl }
}

type Service struct {
	store    store.Acquirer
	now      func() time.Time
	cacheTTL time.Duration

	cache  otter.Cache[string, GeneralReport]
	cached bool
}

func NewService(st store.Acquirer, opts ...Option) (*Service, error) {
	s := &Service{store: st, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.cacheTTL > 0 {
		cache, err := otter.MustBuilder[string, GeneralReport](16).
			WithTTL(s.cacheTTL).
			Build()
		if err != nil {
			return nil, fmt.Errorf("reports: build cache: %w", err)
		}
		s.cache = cache
		s.cached = true
	}
	return s, nil
}

// Close releases the report cache.
func (s *Service) Close() {
	if s.cached {
		s.cache.Close()
	}
}

// Report dispatches on mode. ModeUnknown yields an empty report, not an error.
func (s *Service) Report(ctx context.Context, mode Mode) (Report, error) {
	switch mode {
	case ModeGeneral:
		general, err := s.General(ctx)
		if err != nil {
			return Report{}, err
		}
		return Report{Mode: mode, General: &general}, nil
	case ModePeople:
		people, err := s.People(ctx)
		if err != nil {
			return Report{}, err
		}
		return Report{Mode: mode, People: &people}, nil
	default:
		return Report{Mode: ModeUnknown}, nil
	}
}

type statRow struct {
	Affiliation  sql.NullString
	Count        int64
	LastDownload models.Timestamp
}

// General returns the per-affiliation download counts, all-time and over the
// trailing Window. Both tables are ordered by count descending, then
// affiliation ascending.
func (s *Service) General(ctx context.Context) (GeneralReport, error) {
	if s.cached {
		if report, ok := s.cache.Get(generalCacheKey); ok {
			return report, nil
		}
	}

	now := s.now().UTC()
	var allTime, lastWindow []statRow
	err := s.store.Acquire(ctx, func(q store.Querier) error {
		if err := q.Query(&allTime, allTimeStatsQuery); err != nil {
			return fmt.Errorf("all-time stats: %w", err)
		}
		if err := q.Query(&lastWindow, windowStatsQuery, now.Add(-Window), now); err != nil {
			return fmt.Errorf("last 30 days stats: %w", err)
		}
		return nil
	})
	if err != nil {
		return GeneralReport{}, fmt.Errorf("general report: %w", err)
	}

	report := GeneralReport{
		AllTime:     toStats(allTime),
		Last30Days:  toStats(lastWindow),
		GeneratedAt: now,
	}
	if s.cached {
		s.cache.Set(generalCacheKey, report)
	}
	return report, nil
}

type recordRow struct {
	ID          uint
	Name        sql.NullString
	Email       sql.NullString
	Affiliation sql.NullString
	Date        models.Timestamp
}

// People lists every record, most recent first.
func (s *Service) People(ctx context.Context) (PeopleReport, error) {
	var rows []recordRow
	err := s.store.Acquire(ctx, func(q store.Querier) error {
		return q.Query(&rows, peopleQuery)
	})
	if err != nil {
		return PeopleReport{}, fmt.Errorf("people report: %w", err)
	}

	records := make([]models.DownloadRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.DownloadRecord{
			ID:          row.ID,
			Name:        row.Name.String,
			Email:       row.Email.String,
			Affiliation: row.Affiliation.String,
			Date:        row.Date.Time,
		})
	}
	return PeopleReport{Records: records}, nil
}

// RecordDownload appends one record in a single INSERT. The date comes from
// the service clock, never from the caller.
func (s *Service) RecordDownload(ctx context.Context, name, email, affiliation string) error {
	fields := []struct{ name, value string }{
		{"name", name},
		{"email", email},
		{"affiliation", affiliation},
	}
	for _, f := range fields {
		if err := validateField(f.value); err != nil {
			return fmt.Errorf("%w: %s %v", ErrInvalidInput, f.name, err)
		}
	}

	date := recordTime(s.now())
	err := s.store.Acquire(ctx, func(q store.Querier) error {
		n, err := q.Execute(insertRecordQuery, name, email, affiliation, date)
		if err != nil {
			return err
		}
		if n != 1 {
			return fmt.Errorf("expected 1 inserted row, got %d", n)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record download: %w", err)
	}

	if s.cached {
		s.cache.Clear()
	}
	return nil
}

// recordTime rounds t up to the microsecond precision the stores keep, so a
// stored Date is never earlier than the call.
func recordTime(t time.Time) time.Time {
	t = t.UTC()
	d := t.Truncate(time.Microsecond)
	if d.Before(t) {
		d = d.Add(time.Microsecond)
	}
	return d
}

func validateField(value string) error {
	switch {
	case !utf8.ValidString(value):
		return errors.New("is not valid UTF-8")
	case strings.ContainsRune(value, 0):
		return errors.New("contains a NUL byte")
	case utf8.RuneCountInString(value) > maxFieldLength:
		return fmt.Errorf("is longer than %d characters", maxFieldLength)
	}
	return nil
}

func toStats(rows []statRow) []models.AffiliationStat {
	stats := make([]models.AffiliationStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, models.AffiliationStat{
			Affiliation:     row.Affiliation.String,
			NullAffiliation: !row.Affiliation.Valid,
			Count:           row.Count,
			LastDownload:    row.LastDownload.Time,
		})
	}
	// Collation differs between backends; pin a bytewise order here.
	slices.SortStableFunc(stats, compareStats)
	return stats
}

func compareStats(a, b models.AffiliationStat) int {
	if a.Count != b.Count {
		if a.Count > b.Count {
			return -1
		}
		return 1
	}
	if a.NullAffiliation != b.NullAffiliation {
		if a.NullAffiliation {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Affiliation, b.Affiliation)
}
