package ui

import "github.com/piwi3910/TrussCut/internal/model"

const defaultMaxDepth = 50

// Snapshot captures the drawing selection and the profile registry at a point in time.
type Snapshot struct {
	Files    []string
	Registry model.ProfileRegistry
	Label    string // e.g. "Remove Profile"
}

// MakeSnapshot copies files and registry so the snapshot never aliases live state.
func MakeSnapshot(files []string, reg model.ProfileRegistry, label string) Snapshot {
	s := Snapshot{Files: copyFiles(files), Label: label}
	if reg != nil {
		s.Registry = reg.Clone()
	}
	return s
}

func copyFiles(files []string) []string {
	if files == nil {
		return nil
	}
	return append([]string(nil), files...)
}

// History is a bounded undo/redo log. Callers push the state they are about
// to leave; Undo and Redo swap the caller's current state for a stored one.
type History[T any] struct {
	past     []T
	future   []T
	maxDepth int
}

// NewHistory returns a history of editor snapshots bounded to 50 entries.
func NewHistory() *History[Snapshot] {
	return NewBoundedHistory[Snapshot](defaultMaxDepth)
}

// NewBoundedHistory returns an empty history that keeps at most depth past states.
func NewBoundedHistory[T any](depth int) *History[T] {
	if depth < 1 {
		depth = 1
	}
	return &History[T]{maxDepth: depth}
}

// Push records the state before a change and forgets any redoable states.
func (h *History[T]) Push(state T) {
	h.past = append(h.past, state)
	if over := len(h.past) - h.maxDepth; over > 0 {
		h.past = h.past[over:]
	}
	h.future = nil
}

// Undo returns the last pushed state and files current for Redo.
func (h *History[T]) Undo(current T) (T, bool) {
	prev, ok := pop(&h.past)
	if ok {
		h.future = append(h.future, current)
	}
	return prev, ok
}

// Redo reverses the last Undo.
func (h *History[T]) Redo(current T) (T, bool) {
	next, ok := pop(&h.future)
	if ok {
		h.past = append(h.past, current)
	}
	return next, ok
}

func (h *History[T]) CanUndo() bool { return len(h.past) > 0 }
func (h *History[T]) CanRedo() bool { return len(h.future) > 0 }

// Clear forgets every stored state.
func (h *History[T]) Clear() {
	h.past, h.future = nil, nil
}

func pop[T any](stack *[]T) (T, bool) {
	var zero T
	n := len(*stack)
	if n == 0 {
		return zero, false
	}
	top := (*stack)[n-1]
	*stack = (*stack)[:n-1]
	return top, true
}
