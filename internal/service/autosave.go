package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultAutosaveDelay is the quiet period after the last edit before notes are written.
const DefaultAutosaveDelay = 250 * time.Millisecond

const autosaveWriteTimeout = 5 * time.Second

// Autosaver debounces note drafts: each Schedule replaces the pending text and
// restarts the delay, so only the last draft of a burst is written.
type Autosaver struct {
	notes  NotesService
	delay  time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending *string
	gen     uint64

	// saveMu orders writes so a late timer cannot land after a newer flush.
	saveMu sync.Mutex
}

func NewAutosaver(notes NotesService, delay time.Duration, logger *zap.Logger) *Autosaver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Autosaver{notes: notes, delay: delay, logger: logger}
}

// Schedule arms a save of text after the delay, cancelling any earlier pending save.
func (a *Autosaver) Schedule(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.timer != nil {
		a.timer.Stop()
	}
	a.gen++
	gen := a.gen
	a.pending = &text
	a.timer = time.AfterFunc(a.delay, func() { a.fire(gen) })
}

func (a *Autosaver) fire(gen uint64) {
	// saveMu is held from the generation check through the write, so a
	// Replace or Flush that bumped gen first makes this timer a no-op.
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.mu.Lock()
	if gen != a.gen || a.pending == nil {
		a.mu.Unlock()
		return
	}
	text := *a.pending
	a.pending = nil
	a.timer = nil
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), autosaveWriteTimeout)
	defer cancel()
	if err := a.notes.Save(ctx, text); err != nil {
		a.logger.Error("autosave notes failed", zap.Error(err))
	}
}

// Flush writes the pending draft now, if any.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	text, ok := a.take()
	if !ok {
		return nil
	}
	return a.notes.Save(ctx, text)
}

// Replace drops the pending draft and writes text. Writes are ordered with
// the debounce timer, so an older draft can never land after text.
func (a *Autosaver) Replace(ctx context.Context, text string) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.take()
	return a.notes.Save(ctx, text)
}

// Clear drops the pending draft and clears the notes.
func (a *Autosaver) Clear(ctx context.Context) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.take()
	return a.notes.Clear(ctx)
}

// Pending reports the draft waiting to be written.
func (a *Autosaver) Pending() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pending == nil {
		return "", false
	}
	return *a.pending, true
}

func (a *Autosaver) take() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.gen++
	if a.pending == nil {
		return "", false
	}
	text := *a.pending
	a.pending = nil
	return text, true
}
