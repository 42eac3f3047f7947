package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// JokeSource fetches the raw joke list body. Decoding is left to the provider.
type JokeSource interface {
	Fetch(ctx context.Context) ([]byte, error)
}

type httpJokeSource struct {
	url    string
	client *http.Client
}

// NewHTTPJokeSource returns a source that GETs url. A zero timeout leaves the
// request bounded only by ctx.
func NewHTTPJokeSource(url string, timeout time.Duration) JokeSource {
	return &httpJokeSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *httpJokeSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrJokeFetch, err)
	}
	// Always go to the origin; never revalidate against an intermediate cache.
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJokeFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrJokeFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrJokeFetch, err)
	}
	return body, nil
}
