// Package store persists the three session records (profile, meal logs and
// water log) as JSON blobs behind a small key-value interface. Backends:
// in-memory, SQLite via gorm, Postgres via pgx and Redis.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key has never been written or was deleted.
var ErrNotFound = errors.New("record not found")

// Fixed record keys. Kept identical to the keys the web client used in
// browser storage so exported blobs stay interchangeable.
const (
	KeyProfile = "nutrivision_profile"
	KeyMeals   = "nutrivision_meals"
	KeyWater   = "nutrivision_water"
)

// Keys lists every record the session owns.
var Keys = []string{KeyProfile, KeyMeals, KeyWater}

// Store is an opaque get/set of named records. Get returns the last value
// successfully written for key, or ErrNotFound.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
