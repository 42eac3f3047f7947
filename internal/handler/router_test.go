package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"popupkit/jokebox/internal/config"
	"popupkit/jokebox/internal/handler/middleware"
	"popupkit/jokebox/internal/model"
	"popupkit/jokebox/internal/repository"
	"popupkit/jokebox/internal/service"
)

type stubProvider struct {
	joke     *model.Joke
	err      error
	lastMode model.Mode
}

func (p *stubProvider) GetJoke(_ context.Context, mode model.Mode) (*model.Joke, error) {
	p.lastMode = mode
	return p.joke, p.err
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testEnv struct {
	router *gin.Engine
	notes  service.NotesService
	store  repository.KVStore
}

func newTestEnv(t *testing.T, provider service.JokeProvider) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "PUT", "POST", "DELETE"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         time.Hour,
		},
	}

	store := repository.NewMemoryKVStore()
	prefs := repository.NewPreferencesRepository(store)
	notes := service.NewNotesService(prefs)
	autosaver := service.NewAutosaver(notes, 10*time.Millisecond, zap.NewNop())

	r := SetupRouter(cfg, zap.NewNop(),
		NewJokeHandler(provider),
		NewNotesHandler(notes, autosaver),
		NewTabHandler(service.NewTabService(prefs)),
	)
	return &testEnv{router: r, notes: notes, store: store}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestRandomJoke(t *testing.T) {
	provider := &stubProvider{joke: &model.Joke{Type: model.JokeTypeTwoPart, Setup: "Q", Delivery: "R", Safe: true}}
	env := newTestEnv(t, provider)

	w, resp := env.do(t, http.MethodGet, "/api/v1/jokes/random?mode=safe", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.ModeSafe, provider.lastMode)

	var data JokeResponse
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, "Q\n\nR", data.Text)
	assert.Equal(t, provider.joke, data.Joke)
}

func TestRandomJoke_DefaultsToMixed(t *testing.T) {
	provider := &stubProvider{joke: &model.Joke{Type: model.JokeTypeSingle, Text: "X"}}
	env := newTestEnv(t, provider)

	w, _ := env.do(t, http.MethodGet, "/api/v1/jokes/random", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.ModeMixed, provider.lastMode)
}

func TestRandomJoke_EmptyTextFallsBack(t *testing.T) {
	provider := &stubProvider{joke: &model.Joke{Type: model.JokeTypeSingle, Text: ""}}
	env := newTestEnv(t, provider)

	_, resp := env.do(t, http.MethodGet, "/api/v1/jokes/random", "")
	var data JokeResponse
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, MsgEmptyJoke, data.Text)
}

func TestRandomJoke_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "not found", err: service.ErrJokeNotFound, wantStatus: http.StatusNotFound, wantMsg: MsgNoJokesForMode},
		{name: "fetch", err: service.ErrJokeFetch, wantStatus: http.StatusServiceUnavailable, wantMsg: MsgJokesUnavailable},
		{name: "invalid data", err: service.ErrJokeInvalidData, wantStatus: http.StatusServiceUnavailable, wantMsg: MsgJokesUnavailable},
		{name: "store failure", err: errors.New("redis down"), wantStatus: http.StatusServiceUnavailable, wantMsg: MsgJokesUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, &stubProvider{err: tt.err})

			w, resp := env.do(t, http.MethodGet, "/api/v1/jokes/random?mode=mixed", "")
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMsg, resp.Message)
		})
	}
}

func TestRandomJoke_BadMode(t *testing.T) {
	env := newTestEnv(t, &stubProvider{})

	w, _ := env.do(t, http.MethodGet, "/api/v1/jokes/random?mode=nsfw", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotesEndpoints(t *testing.T) {
	env := newTestEnv(t, &stubProvider{})

	w, resp := env.do(t, http.MethodGet, "/api/v1/notes", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"text":""}`, string(resp.Data))

	w, _ = env.do(t, http.MethodPut, "/api/v1/notes", `{"text":"remember"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	_, resp = env.do(t, http.MethodGet, "/api/v1/notes", "")
	assert.JSONEq(t, `{"text":"remember"}`, string(resp.Data))

	w, _ = env.do(t, http.MethodDelete, "/api/v1/notes", "")
	assert.Equal(t, http.StatusOK, w.Code)

	_, resp = env.do(t, http.MethodGet, "/api/v1/notes", "")
	assert.JSONEq(t, `{"text":""}`, string(resp.Data))
}

func TestNotesPut_MissingText(t *testing.T) {
	env := newTestEnv(t, &stubProvider{})

	w, _ := env.do(t, http.MethodPut, "/api/v1/notes", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotesDraft_IsDebounced(t *testing.T) {
	env := newTestEnv(t, &stubProvider{})

	w, _ := env.do(t, http.MethodPost, "/api/v1/notes/draft", `{"text":"a"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
	env.do(t, http.MethodPost, "/api/v1/notes/draft", `{"text":"ab"}`)

	require.Eventually(t, func() bool {
		text, err := env.notes.Load(context.Background())
		return err == nil && text == "ab"
	}, time.Second, 5*time.Millisecond)
}

func TestNotesPut_SupersedesPendingDraft(t *testing.T) {
	env := newTestEnv(t, &stubProvider{})

	env.do(t, http.MethodPost, "/api/v1/notes/draft", `{"text":"draft"}`)
	w, _ := env.do(t, http.MethodPut, "/api/v1/notes", `{"text":"final"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	time.Sleep(50 * time.Millisecond)
	_, resp := env.do(t, http.MethodGet, "/api/v1/notes", "")
	assert.JSONEq(t, `{"text":"final"}`, string(resp.Data))
}

func TestTabsEndpoints(t *testing.T) {
	env := newTestEnv(t, &stubProvider{})

	_, resp := env.do(t, http.MethodGet, "/api/v1/tabs/last", "")
	assert.JSONEq(t, `{"tab":"notes"}`, string(resp.Data))

	w, _ := env.do(t, http.MethodPut, "/api/v1/tabs/last", `{"tab":"jokes"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	_, resp = env.do(t, http.MethodGet, "/api/v1/tabs/last", "")
	assert.JSONEq(t, `{"tab":"jokes"}`, string(resp.Data))

	w, _ = env.do(t, http.MethodPut, "/api/v1/tabs/last", `{"tab":"settings"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestIDHeader(t *testing.T) {
	env := newTestEnv(t, &stubProvider{joke: &model.Joke{Type: model.JokeTypeSingle, Text: "X"}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jokes/random", nil)
	req.Header.Set(middleware.HeaderRequestID, "6f1c2c8e-1d0a-4e36-9d0b-6a8a2d2f1b11")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, "6f1c2c8e-1d0a-4e36-9d0b-6a8a2d2f1b11", w.Header().Get(middleware.HeaderRequestID))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/jokes/random", nil)
	req.Header.Set(middleware.HeaderRequestID, "not-a-uuid")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(middleware.HeaderRequestID))
	assert.Len(t, w.Header().Get(middleware.HeaderRequestID), 36)
}

func TestEndToEnd_WithHTTPSource(t *testing.T) {
	src := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"type":"single","joke":"X","safe":true}]`))
	}))
	defer src.Close()

	store := repository.NewMemoryKVStore()
	provider := service.NewJokeProvider(
		repository.NewJokeCacheRepository(store),
		service.NewHTTPJokeSource(src.URL, time.Second),
		24*time.Hour,
		zap.NewNop(),
	)
	env := newTestEnv(t, provider)

	w, resp := env.do(t, http.MethodGet, "/api/v1/jokes/random?mode=unsafe", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, MsgNoJokesForMode, resp.Message)

	w, resp = env.do(t, http.MethodGet, "/api/v1/jokes/random?mode=safe", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var data JokeResponse
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, "X", data.Text)
}
