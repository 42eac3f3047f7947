package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"popupkit/jokebox/internal/model"
)

const (
	JokesCacheKey   = "jokesCache"
	JokesCacheTsKey = "jokesCacheTs"
)

// ErrJokeCacheCorrupt means a cache payload exists but is not a non-empty list of valid jokes.
var ErrJokeCacheCorrupt = errors.New("joke cache payload is corrupt")

type JokeCacheRepository interface {
	// Load returns nil when no cache has been written.
	Load(ctx context.Context) (*model.JokeCache, error)
	// Save overwrites jokes and timestamp in one store write.
	Save(ctx context.Context, cache *model.JokeCache) error
	// Clear removes jokes and timestamp.
	Clear(ctx context.Context) error
}

type jokeCacheRepository struct {
	store KVStore
}

func NewJokeCacheRepository(store KVStore) JokeCacheRepository {
	return &jokeCacheRepository{store: store}
}

func (r *jokeCacheRepository) Load(ctx context.Context) (*model.JokeCache, error) {
	vals, err := r.store.Get(ctx, JokesCacheKey, JokesCacheTsKey)
	if err != nil {
		return nil, err
	}

	raw, ok := vals[JokesCacheKey]
	if !ok {
		return nil, nil
	}

	var jokes []model.Joke
	if err := json.Unmarshal(raw, &jokes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJokeCacheCorrupt, err)
	}
	if len(jokes) == 0 {
		return nil, fmt.Errorf("%w: empty list", ErrJokeCacheCorrupt)
	}

	// A missing or unreadable timestamp reads as 0, which is always stale.
	var ts int64
	if rawTs, ok := vals[JokesCacheTsKey]; ok {
		if n, err := strconv.ParseInt(string(rawTs), 10, 64); err == nil && n > 0 {
			ts = n
		}
	}

	return &model.JokeCache{Jokes: jokes, FetchedAt: ts}, nil
}

func (r *jokeCacheRepository) Save(ctx context.Context, cache *model.JokeCache) error {
	if cache == nil || len(cache.Jokes) == 0 {
		return errors.New("refusing to cache an empty joke list")
	}
	if cache.FetchedAt < 0 {
		return errors.New("joke cache timestamp must not be negative")
	}

	payload, err := json.Marshal(cache.Jokes)
	if err != nil {
		return fmt.Errorf("encode jokes: %w", err)
	}
	return r.store.Set(ctx, map[string][]byte{
		JokesCacheKey:   payload,
		JokesCacheTsKey: []byte(strconv.FormatInt(cache.FetchedAt, 10)),
	})
}

func (r *jokeCacheRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, JokesCacheKey, JokesCacheTsKey)
}
