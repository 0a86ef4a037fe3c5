package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned when a record id is absent from its bucket.
var ErrNotFound = errors.New("store: record not found")

// Bucket is the fixed key a collection is persisted under.
type Bucket string

const (
	BucketStations Bucket = "evcharge_stations"
	BucketChargers Bucket = "evcharge_chargers"
	BucketBookings Bucket = "evcharge_bookings"
	BucketSessions Bucket = "evcharge_sessions"
	BucketPayments Bucket = "evcharge_payments"
	BucketUsers    Bucket = "evcharge_users"
)

// AllBuckets lists every bucket in initialization order.
var AllBuckets = []Bucket{
	BucketStations,
	BucketChargers,
	BucketBookings,
	BucketSessions,
	BucketPayments,
	BucketUsers,
}

// Backend persists opaque bucket payloads.
type Backend interface {
	// Load returns the payload stored under key and whether it exists.
	Load(ctx context.Context, key string) ([]byte, bool, error)
	// Save replaces the payload stored under key.
	Save(ctx context.Context, key string, data []byte) error
}

// Seed holds the initial content of each bucket, written when the bucket is absent.
// Buckets without an entry start as an empty array.
type Seed map[Bucket]interface{}

// Store owns the backend and serializes read-modify-write cycles on it.
type Store struct {
	backend Backend
	seed    Seed
	mu      sync.Mutex
}

// New returns a store over backend. A nil seed starts every bucket empty.
func New(backend Backend, seed Seed) *Store {
	if seed == nil {
		seed = Seed{}
	}
	return &Store{backend: backend, seed: seed}
}

// Init makes sure every bucket exists, writing seed data where missing.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, bucket := range AllBuckets {
		if _, err := s.loadLocked(ctx, bucket); err != nil {
			return err
		}
	}
	return nil
}

// loadLocked reads a bucket, seeding it first when absent. Callers hold s.mu.
func (s *Store) loadLocked(ctx context.Context, bucket Bucket) ([]byte, error) {
	data, ok, err := s.backend.Load(ctx, string(bucket))
	if err != nil {
		return nil, fmt.Errorf("store: load %s: %w", bucket, err)
	}
	if ok {
		return data, nil
	}

	initial, ok := s.seed[bucket]
	if !ok || initial == nil {
		initial = []struct{}{}
	}
	data, err = json.Marshal(initial)
	if err != nil {
		return nil, fmt.Errorf("store: encode seed %s: %w", bucket, err)
	}
	if err := s.saveLocked(ctx, bucket, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Store) saveLocked(ctx context.Context, bucket Bucket, data []byte) error {
	if err := s.backend.Save(ctx, string(bucket), data); err != nil {
		return fmt.Errorf("store: save %s: %w", bucket, err)
	}
	return nil
}
