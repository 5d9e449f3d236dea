package reports

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/basit/download-tracker/initializers"
	"github.com/basit/download-tracker/models"
	"github.com/basit/download-tracker/store"
)

var testNow = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := initializers.ConnectToDatabase(initializers.Config{
		DBDriver: "sqlite",
		DBURL:    filepath.Join(t.TempDir(), "downloads.db"),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestService(t *testing.T, opts ...Option) (*Service, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	svc, err := NewService(store.New(db), opts...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	t.Cleanup(svc.Close)
	return svc, db
}

func seed(t *testing.T, db *gorm.DB, affiliation string, date time.Time) models.DownloadRecord {
	t.Helper()
	rec := models.DownloadRecord{
		Name:        "user of " + affiliation,
		Email:       "user@example.org",
		Affiliation: affiliation,
		Date:        date.UTC(),
	}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	return rec
}

func seedNullAffiliation(t *testing.T, db *gorm.DB, date time.Time) {
	t.Helper()
	err := db.Exec(`INSERT INTO download_records (name, email, affiliation, date) VALUES (?, ?, NULL, ?)`,
		"legacy", "legacy@example.org", date.UTC()).Error
	if err != nil {
		t.Fatalf("seed null affiliation: %v", err)
	}
}

type failingStore struct{ err error }

func (f failingStore) Acquire(context.Context, func(store.Querier) error) error {
	return f.err
}

// flakyQuerier fails every query after the first one.
type flakyQuerier struct{ calls *int }

func (q flakyQuerier) Query(dest any, query string, args ...any) error {
	*q.calls++
	if *q.calls > 1 {
		return store.ErrUnavailable
	}
	return nil
}

func (q flakyQuerier) Execute(string, ...any) (int64, error) {
	return 0, store.ErrUnavailable
}

type flakyStore struct{ calls int }

func (f *flakyStore) Acquire(_ context.Context, fn func(store.Querier) error) error {
	return fn(flakyQuerier{calls: &f.calls})
}
