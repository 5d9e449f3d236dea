// Package store wraps the gorm handle behind the small query/execute surface
// the report and record paths are allowed to use.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Querier is the per-request view of the record store. Arguments are always
// bound as parameters; SQL text never carries user data.
type Querier interface {
	Query(dest any, query string, args ...any) error
	Execute(query string, args ...any) (int64, error)
}

// Acquirer hands out a Querier bound to one connection for the duration of fn.
type Acquirer interface {
	Acquire(ctx context.Context, fn func(Querier) error) error
}

// ErrUnavailable is returned when no connection to the store could be obtained.
var ErrUnavailable = errors.New("record store unavailable")

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Acquire pins a pooled connection, runs fn on it and releases the connection
// when fn returns.
func (s *Store) Acquire(ctx context.Context, fn func(Querier) error) error {
	if s == nil || s.db == nil {
		return ErrUnavailable
	}
	var fnErr error
	err := s.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		// NewDB gives every call a fresh statement on the pinned connection.
		fnErr = fn(gormQuerier{tx: tx.Session(&gorm.Session{NewDB: true})})
		return fnErr
	})
	if err != nil && fnErr == nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

// Ping checks that a connection can be established.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return ErrUnavailable
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

type gormQuerier struct {
	tx *gorm.DB
}

func (q gormQuerier) Query(dest any, query string, args ...any) error {
	if err := q.tx.Raw(query, args...).Scan(dest).Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	return nil
}

func (q gormQuerier) Execute(query string, args ...any) (int64, error) {
	res := q.tx.Exec(query, args...)
	if res.Error != nil {
		return 0, fmt.Errorf("execute: %w", res.Error)
	}
	return res.RowsAffected, nil
}
