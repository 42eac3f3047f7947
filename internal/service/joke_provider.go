package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"popupkit/jokebox/internal/model"
	"popupkit/jokebox/internal/repository"
)

// DefaultFreshnessWindow is how long a fetched joke list is served from cache.
const DefaultFreshnessWindow = 24 * time.Hour

type JokeProvider interface {
	// GetJoke returns a random joke matching mode, or ErrJokeNotFound when none match.
	GetJoke(ctx context.Context, mode model.Mode) (*model.Joke, error)
}

type jokeProvider struct {
	cache  repository.JokeCacheRepository
	source JokeSource
	window time.Duration
	logger *zap.Logger

	now   func() time.Time
	intn  func(n int) int
	group singleflight.Group
}

func NewJokeProvider(
	cache repository.JokeCacheRepository,
	source JokeSource,
	window time.Duration,
	logger *zap.Logger,
) JokeProvider {
	if window <= 0 {
		window = DefaultFreshnessWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &jokeProvider{
		cache:  cache,
		source: source,
		window: window,
		logger: logger,
		now:    time.Now,
		intn:   rand.Intn,
	}
}

func (p *jokeProvider) GetJoke(ctx context.Context, mode model.Mode) (*model.Joke, error) {
	switch mode {
	case model.ModeSafe, model.ModeUnsafe, model.ModeMixed:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	jokes, err := p.loadPool(ctx)
	if err != nil {
		return nil, err
	}

	joke, ok := PickRandom(FilterByMode(jokes, mode), p.intn)
	if !ok {
		return nil, ErrJokeNotFound
	}
	return joke, nil
}

// loadPool serves the cached list while fresh and refetches otherwise.
func (p *jokeProvider) loadPool(ctx context.Context) ([]model.Joke, error) {
	cached, err := p.cache.Load(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrJokeCacheCorrupt) {
			return nil, fmt.Errorf("load joke cache: %w", err)
		}
		p.logger.Warn("dropping corrupt joke cache", zap.Error(err))
		if err := p.cache.Clear(ctx); err != nil {
			p.logger.Error("clear corrupt joke cache failed", zap.Error(err))
		}
		cached = nil
	}

	if cached != nil && IsFresh(cached.FetchedAt, p.now().UnixMilli(), p.window) {
		p.logger.Debug("joke cache hit", zap.Int("jokes", len(cached.Jokes)))
		return cached.Jokes, nil
	}

	// Concurrent misses share one fetch and one cache write. The fetch runs
	// detached from any single caller; each caller waits on its own ctx.
	ch := p.group.DoChan("jokes", func() (any, error) {
		return p.refresh(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrJokeFetch, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			if errors.Is(res.Err, ErrJokeNotFound) {
				p.logger.Info("joke source returned no jokes")
			} else {
				p.logger.Warn("joke fetch failed", zap.Error(res.Err), zap.Bool("shared", res.Shared))
			}
			return nil, res.Err
		}
		return res.Val.([]model.Joke), nil
	}
}

func (p *jokeProvider) refresh(ctx context.Context) ([]model.Joke, error) {
	p.logger.Debug("fetching jokes from source")

	body, err := p.source.Fetch(ctx)
	if err != nil {
		if errors.Is(err, ErrJokeFetch) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrJokeFetch, err)
	}

	jokes, err := DecodeJokes(body)
	if err != nil {
		return nil, err
	}
	// An empty list is valid but never cached.
	if len(jokes) == 0 {
		return nil, ErrJokeNotFound
	}

	fetchedAt := p.now().UnixMilli()
	if err := p.cache.Save(ctx, &model.JokeCache{Jokes: jokes, FetchedAt: fetchedAt}); err != nil {
		return nil, fmt.Errorf("save joke cache: %w", err)
	}
	p.logger.Info("joke cache refreshed", zap.Int("jokes", len(jokes)), zap.Int64("fetched_at", fetchedAt))
	return jokes, nil
}

// DecodeJokes parses a source body. Anything other than a JSON array of valid
// records is ErrJokeInvalidData; an empty array decodes to an empty list.
func DecodeJokes(body []byte) ([]model.Joke, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: not a JSON array: %v", ErrJokeInvalidData, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: null body", ErrJokeInvalidData)
	}

	jokes := make([]model.Joke, len(raw))
	for i, r := range raw {
		if err := json.Unmarshal(r, &jokes[i]); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrJokeInvalidData, i, err)
		}
	}
	return jokes, nil
}

// IsFresh reports whether a cache written at fetchedAt (epoch millis) is still
// inside window at now. The boundary itself is stale.
func IsFresh(fetchedAt, now int64, window time.Duration) bool {
	return now-fetchedAt < window.Milliseconds()
}

// FilterByMode keeps the jokes matching mode in their original order.
// Mixed returns jokes as given.
func FilterByMode(jokes []model.Joke, mode model.Mode) []model.Joke {
	var want bool
	switch mode {
	case model.ModeSafe:
		want = true
	case model.ModeUnsafe:
		want = false
	default:
		return jokes
	}

	out := make([]model.Joke, 0, len(jokes))
	for _, j := range jokes {
		if j.Safe == want {
			out = append(out, j)
		}
	}
	return out
}

// PickRandom returns a uniformly chosen element of pool; intn must return a
// value in [0, n). It reports false for an empty pool.
func PickRandom(pool []model.Joke, intn func(n int) int) (*model.Joke, bool) {
	if len(pool) == 0 {
		return nil, false
	}
	j := pool[intn(len(pool))]
	return &j, true
}
