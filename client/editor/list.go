package editor

import (
	"context"
	"errors"
	"sync"
)

var ErrIndexOutOfRange = errors.New("index out of range")

// PersistFunc saves the full list snapshot and returns the canonical order
// the server persisted.
type PersistFunc[T any] func(ctx context.Context, items []T) ([]T, error)

// List is the controller behind a reorderable collection. Mutations apply
// optimistically, persist the whole snapshot, and reconcile with the
// returned order; a failed persist restores the previous items.
type List[T any] struct {
	mu      sync.Mutex
	items   []T
	owned   bool
	persist PersistFunc[T]
}

func NewList[T any](items []T, owned bool, persist PersistFunc[T]) *List[T] {
	copied := make([]T, len(items))
	copy(copied, items)
	return &List[T]{items: copied, owned: owned, persist: persist}
}

// Items returns a copy of the current list.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

func (l *List[T]) apply(ctx context.Context, next []T) error {
	previous := l.items
	l.items = next

	canonical, err := l.persist(ctx, next)
	if err != nil {
		l.items = previous
		return err
	}

	l.items = make([]T, len(canonical))
	copy(l.items, canonical)
	return nil
}

func (l *List[T]) Append(ctx context.Context, item T) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.owned {
		return ErrNotOwner
	}

	next := make([]T, len(l.items), len(l.items)+1)
	copy(next, l.items)
	next = append(next, item)
	return l.apply(ctx, next)
}

func (l *List[T]) RemoveAt(ctx context.Context, index int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.owned {
		return ErrNotOwner
	}
	if index < 0 || index >= len(l.items) {
		return ErrIndexOutOfRange
	}

	next := make([]T, 0, len(l.items)-1)
	next = append(next, l.items[:index]...)
	next = append(next, l.items[index+1:]...)
	return l.apply(ctx, next)
}

func (l *List[T]) UpdateAt(ctx context.Context, index int, item T) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.owned {
		return ErrNotOwner
	}
	if index < 0 || index >= len(l.items) {
		return ErrIndexOutOfRange
	}

	next := make([]T, len(l.items))
	copy(next, l.items)
	next[index] = item
	return l.apply(ctx, next)
}

// Reorder moves the item at from before the current item at to. An invalid
// destination is a no-op, not an error, matching drop-outside-the-list
// behavior.
func (l *List[T]) Reorder(ctx context.Context, from, to int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.owned {
		return ErrNotOwner
	}
	if from < 0 || from >= len(l.items) {
		return ErrIndexOutOfRange
	}
	if to < 0 || to >= len(l.items) || to == from {
		return nil
	}

	next := make([]T, 0, len(l.items))
	next = append(next, l.items[:from]...)
	next = append(next, l.items[from+1:]...)

	tail := make([]T, 0, len(next)-to+1)
	tail = append(tail, next[to:]...)
	next = append(next[:to], l.items[from])
	next = append(next, tail...)

	return l.apply(ctx, next)
}
