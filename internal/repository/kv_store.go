package repository

import "context"

// KVStore abstracts durable key-value state.
// Implementations: in-memory (local dev / tests), Redis, Postgres.
//
// Get omits missing keys from the returned map. Set writes every entry or none.
type KVStore interface {
	Get(ctx context.Context, keys ...string) (map[string][]byte, error)
	Set(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
}
