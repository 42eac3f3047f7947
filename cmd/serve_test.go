package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"popupkit/jokebox/internal/repository"
	"popupkit/jokebox/internal/service"
)

type stubServer struct {
	err error
}

func (s stubServer) Shutdown(ctx context.Context) error {
	return s.err
}

func newShutdownApp() *app {
	notes := service.NewNotesService(repository.NewPreferencesRepository(repository.NewMemoryKVStore()))
	return &app{
		logger:    zap.NewNop(),
		notes:     notes,
		autosaver: service.NewAutosaver(notes, time.Hour, nil),
	}
}

func TestShutdown_FlushesPendingDraft(t *testing.T) {
	a := newShutdownApp()
	a.autosaver.Schedule("unsaved")

	require.NoError(t, shutdown(stubServer{}, a, time.Second))

	text, err := a.notes.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "unsaved", text)
}

func TestShutdown_FlushesDraftWhenServerFailsToDrain(t *testing.T) {
	a := newShutdownApp()
	a.autosaver.Schedule("unsaved")

	err := shutdown(stubServer{err: context.DeadlineExceeded}, a, time.Second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	text, err := a.notes.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "unsaved", text)
	_, pending := a.autosaver.Pending()
	assert.False(t, pending)
}
