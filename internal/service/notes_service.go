package service

import (
	"context"
	"fmt"

	"popupkit/jokebox/internal/repository"
)

type NotesService interface {
	// Load returns the saved notes, or "" if nothing was ever saved.
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, text string) error
	Clear(ctx context.Context) error
}

type notesService struct {
	prefs repository.PreferencesRepository
}

func NewNotesService(prefs repository.PreferencesRepository) NotesService {
	return &notesService{prefs: prefs}
}

func (s *notesService) Load(ctx context.Context) (string, error) {
	text, _, err := s.prefs.GetNotes(ctx)
	if err != nil {
		return "", fmt.Errorf("load notes: %w", err)
	}
	return text, nil
}

func (s *notesService) Save(ctx context.Context, text string) error {
	if err := s.prefs.SetNotes(ctx, text); err != nil {
		return fmt.Errorf("save notes: %w", err)
	}
	return nil
}

// Clear stores an empty note rather than deleting the key.
func (s *notesService) Clear(ctx context.Context) error {
	return s.Save(ctx, "")
}

var _ NotesService = (*notesService)(nil)
