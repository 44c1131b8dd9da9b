// Package storage persists tokens and state snapshots in a small key/value
// store. Implementations are injected; nothing in this package is global.
package storage

import "context"

// Store is a byte-valued key/value store.
//
// Get returns (nil, nil) when the key is absent. Delete of a missing key is
// not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Transactional is implemented by stores that can apply several writes
// atomically. fn receives a Store bound to the transaction.
type Transactional interface {
	Update(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}

// Update runs fn atomically when s supports it and directly otherwise.
func Update(ctx context.Context, s Store, fn func(ctx context.Context, s Store) error) error {
	if t, ok := s.(Transactional); ok {
		return t.Update(ctx, fn)
	}
	return fn(ctx, s)
}
