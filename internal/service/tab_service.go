package service

import (
	"context"
	"fmt"

	"popupkit/jokebox/internal/model"
	"popupkit/jokebox/internal/repository"
)

type TabService interface {
	// LastTab returns the last opened tab, defaulting to notes.
	LastTab(ctx context.Context) (model.Tab, error)
	SetLastTab(ctx context.Context, tab model.Tab) error
}

type tabService struct {
	prefs repository.PreferencesRepository
}

func NewTabService(prefs repository.PreferencesRepository) TabService {
	return &tabService{prefs: prefs}
}

func (s *tabService) LastTab(ctx context.Context) (model.Tab, error) {
	tab, ok, err := s.prefs.GetLastTab(ctx)
	if err != nil {
		return "", fmt.Errorf("load last tab: %w", err)
	}
	if !ok || !tab.Valid() {
		return model.TabNotes, nil
	}
	return tab, nil
}

func (s *tabService) SetLastTab(ctx context.Context, tab model.Tab) error {
	if !tab.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTab, tab)
	}
	if err := s.prefs.SetLastTab(ctx, tab); err != nil {
		return fmt.Errorf("save last tab: %w", err)
	}
	return nil
}

var _ TabService = (*tabService)(nil)
