package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPJokeSource_BypassesCaches(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	body, err := NewHTTPJokeSource(srv.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))

	assert.Contains(t, got.Get("Cache-Control"), "no-store")
	assert.Equal(t, "no-cache", got.Get("Pragma"))
	assert.Empty(t, got.Get("If-None-Match"))
	assert.Empty(t, got.Get("If-Modified-Since"))
}

func TestHTTPJokeSource_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "server error", status: http.StatusInternalServerError},
		{name: "not found", status: http.StatusNotFound},
		{name: "not modified", status: http.StatusNotModified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := NewHTTPJokeSource(srv.URL, time.Second).Fetch(context.Background())
			assert.ErrorIs(t, err, ErrJokeFetch)
		})
	}
}

func TestHTTPJokeSource_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewHTTPJokeSource(url, time.Second).Fetch(context.Background())
	assert.ErrorIs(t, err, ErrJokeFetch)
}

func TestHTTPJokeSource_ContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewHTTPJokeSource(srv.URL, 0).Fetch(ctx)
	assert.ErrorIs(t, err, ErrJokeFetch)
}
