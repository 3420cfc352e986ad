// Package editor implements the inline-editing primitives: a single-value
// field with idle autosave and a reorderable list controller. Both apply
// changes optimistically and revert when persistence fails.
package editor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

var (
	ErrNotOwner   = errors.New("editing refused: caller does not own this portfolio")
	ErrNotEditing = errors.New("field is not being edited")
	ErrSaving     = errors.New("a save is already in flight")
)

type FieldState int

const (
	StateViewing FieldState = iota
	StateEditing
	StateSaving
)

// SaveFunc persists one committed value.
type SaveFunc func(ctx context.Context, value string) error

const DefaultIdleDelay = 3 * time.Second

type FieldConfig struct {
	// Initial is the last value known to be persisted.
	Initial string
	// Owned gates editing entirely; a viewer's Begin is refused.
	Owned bool
	Save  SaveFunc
	// IdleDelay is how long typing may pause before an autosave fires.
	// Zero means DefaultIdleDelay; negative disables the idle timer.
	IdleDelay time.Duration
	// OnError receives save failures from timer-driven commits, which have
	// no caller to return to.
	OnError func(error)
}

// Field is the state machine behind one inline-editable value:
// Viewing -> Editing -> (Saving -> Viewing) or revert back to Viewing.
type Field struct {
	mu sync.Mutex

	state     FieldState
	committed string
	draft     string

	owned     bool
	save      SaveFunc
	idleDelay time.Duration
	onError   func(error)
	idleTimer *time.Timer
}

func NewField(cfg FieldConfig) *Field {
	delay := cfg.IdleDelay
	if delay == 0 {
		delay = DefaultIdleDelay
	}
	return &Field{
		state:     StateViewing,
		committed: cfg.Initial,
		draft:     cfg.Initial,
		owned:     cfg.Owned,
		save:      cfg.Save,
		idleDelay: delay,
		onError:   cfg.OnError,
	}
}

func (f *Field) State() FieldState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Value returns the last committed value.
func (f *Field) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.committed
}

// Draft returns the value as currently typed.
func (f *Field) Draft() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Begin enters Editing. Viewers and fields mid-save are refused.
func (f *Field) Begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.owned {
		return ErrNotOwner
	}
	switch f.state {
	case StateEditing:
		return nil
	case StateSaving:
		return ErrSaving
	}

	f.state = StateEditing
	f.draft = f.committed
	return nil
}

// SetValue records a keystroke and restarts the idle autosave timer.
func (f *Field) SetValue(value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateEditing {
		return ErrNotEditing
	}

	f.draft = value
	f.restartIdleTimerLocked()
	return nil
}

func (f *Field) restartIdleTimerLocked() {
	f.stopIdleTimerLocked()
	if f.idleDelay < 0 {
		return
	}
	f.idleTimer = time.AfterFunc(f.idleDelay, func() {
		if err := f.Commit(context.Background()); err != nil && f.onError != nil {
			f.onError(err)
		}
	})
}

func (f *Field) stopIdleTimerLocked() {
	if f.idleTimer != nil {
		f.idleTimer.Stop()
		f.idleTimer = nil
	}
}

// Commit leaves Editing. A draft whose trimmed value equals the committed
// one returns to Viewing with no save at all; otherwise the trimmed value is
// persisted, and a failed save reverts to the committed value with the
// error surfaced to the caller.
func (f *Field) Commit(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateEditing {
		f.mu.Unlock()
		return nil
	}
	f.stopIdleTimerLocked()

	value := strings.TrimSpace(f.draft)
	if value == strings.TrimSpace(f.committed) {
		f.draft = f.committed
		f.state = StateViewing
		f.mu.Unlock()
		return nil
	}

	f.state = StateSaving
	save := f.save
	f.mu.Unlock()

	err := save(ctx, value)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.draft = f.committed
		f.state = StateViewing
		return err
	}

	f.committed = value
	f.draft = value
	f.state = StateViewing
	return nil
}

// Blur commits, exactly like pressing Enter.
func (f *Field) Blur(ctx context.Context) error {
	return f.Commit(ctx)
}

// Cancel discards the draft and returns to Viewing without saving. This is
// the Escape path.
func (f *Field) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateEditing {
		return
	}
	f.stopIdleTimerLocked()
	f.draft = f.committed
	f.state = StateViewing
}
