package repository

import (
	"context"

	"popupkit/jokebox/internal/model"
)

const (
	NotesKey   = "notesText"
	LastTabKey = "lastTab"
)

// PreferencesRepository holds the small per-profile values: notes text and last open tab.
type PreferencesRepository interface {
	GetNotes(ctx context.Context) (string, bool, error)
	SetNotes(ctx context.Context, text string) error
	GetLastTab(ctx context.Context) (model.Tab, bool, error)
	SetLastTab(ctx context.Context, tab model.Tab) error
}

type preferencesRepository struct {
	store KVStore
}

func NewPreferencesRepository(store KVStore) PreferencesRepository {
	return &preferencesRepository{store: store}
}

func (r *preferencesRepository) getString(ctx context.Context, key string) (string, bool, error) {
	vals, err := r.store.Get(ctx, key)
	if err != nil {
		return "", false, err
	}
	v, ok := vals[key]
	return string(v), ok, nil
}

func (r *preferencesRepository) GetNotes(ctx context.Context) (string, bool, error) {
	return r.getString(ctx, NotesKey)
}

func (r *preferencesRepository) SetNotes(ctx context.Context, text string) error {
	return r.store.Set(ctx, map[string][]byte{NotesKey: []byte(text)})
}

func (r *preferencesRepository) GetLastTab(ctx context.Context) (model.Tab, bool, error) {
	s, ok, err := r.getString(ctx, LastTabKey)
	return model.Tab(s), ok, err
}

func (r *preferencesRepository) SetLastTab(ctx context.Context, tab model.Tab) error {
	return r.store.Set(ctx, map[string][]byte{LastTabKey: []byte(tab)})
}
