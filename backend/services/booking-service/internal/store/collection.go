package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Record is anything stored in a collection.
type Record interface {
	RecordID() string
}

// Collection gives typed access to one bucket. Every read decodes the whole bucket and
// every write re-encodes it.
type Collection[T Record] struct {
	store  *Store
	bucket Bucket
}

// NewCollection binds a typed collection to bucket.
func NewCollection[T Record](s *Store, bucket Bucket) *Collection[T] {
	return &Collection[T]{store: s, bucket: bucket}
}

// List returns all records in insertion order.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return c.readLocked(ctx)
}

// Filter returns the records for which keep reports true.
func (c *Collection[T]) Filter(ctx context.Context, keep func(T) bool) ([]T, error) {
	items, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			result = append(result, item)
		}
	}
	return result, nil
}

// Get returns the record with id or ErrNotFound.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	items, err := c.List(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	for _, item := range items {
		if item.RecordID() == id {
			return item, nil
		}
	}
	var zero T
	return zero, ErrNotFound
}

// Insert appends rec without checking for duplicates.
func (c *Collection[T]) Insert(ctx context.Context, rec T) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	items, err := c.readLocked(ctx)
	if err != nil {
		return err
	}
	return c.writeLocked(ctx, append(items, rec))
}

// Upsert replaces the record with the same id in place or appends it.
func (c *Collection[T]) Upsert(ctx context.Context, rec T) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	items, err := c.readLocked(ctx)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].RecordID() == rec.RecordID() {
			items[i] = rec
			return c.writeLocked(ctx, items)
		}
	}
	return c.writeLocked(ctx, append(items, rec))
}

// Update applies fn to the record with id and persists the result. An error from fn
// aborts the write. The record id cannot be changed by fn.
func (c *Collection[T]) Update(ctx context.Context, id string, fn func(*T) error) (T, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	var zero T
	items, err := c.readLocked(ctx)
	if err != nil {
		return zero, err
	}
	for i := range items {
		if items[i].RecordID() != id {
			continue
		}
		updated := items[i]
		if err := fn(&updated); err != nil {
			return zero, err
		}
		if updated.RecordID() != id {
			return zero, fmt.Errorf("store: update of %s changed record id to %s", id, updated.RecordID())
		}
		items[i] = updated
		if err := c.writeLocked(ctx, items); err != nil {
			return zero, err
		}
		return updated, nil
	}
	return zero, ErrNotFound
}

// Delete removes the record with id and reports whether it existed.
func (c *Collection[T]) Delete(ctx context.Context, id string) (bool, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	items, err := c.readLocked(ctx)
	if err != nil {
		return false, err
	}
	kept := items[:0]
	for _, item := range items {
		if item.RecordID() != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return false, nil
	}
	return true, c.writeLocked(ctx, kept)
}

func (c *Collection[T]) readLocked(ctx context.Context) ([]T, error) {
	data, err := c.store.loadLocked(ctx, c.bucket)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0)
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return items, nil
	}
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", c.bucket, err)
	}
	return items, nil
}

func (c *Collection[T]) writeLocked(ctx context.Context, items []T) error {
	if items == nil {
		items = make([]T, 0)
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", c.bucket, err)
	}
	return c.store.saveLocked(ctx, c.bucket, data)
}
