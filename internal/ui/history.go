package ui

import "github.com/piwi3910/PackView/internal/model"

const defaultMaxDepth = 50

// Snapshot captures the displayed layout at a point in time.
type Snapshot struct {
	Layout model.Layout
	Label  string // Human-readable description (e.g. "Open kitchen.csv")
}

// History is a bounded undo/redo log of layouts shown in the diagram.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
}

// NewHistory creates a History that keeps the last 50 layouts.
func NewHistory() *History {
	return &History{maxDepth: defaultMaxDepth}
}

// Push records s, the state before a change, and forgets anything that
// was undone.
func (h *History) Push(s Snapshot) {
	h.undoStack = h.capped(append(h.undoStack, s))
	h.redoStack = nil
}

// Undo returns the snapshot to restore and keeps current for Redo. It
// returns false when there is nothing to undo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	return h.swap(&h.undoStack, &h.redoStack, current)
}

// Redo returns the most recently undone snapshot and keeps current for
// Undo. It returns false when there is nothing to redo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	return h.swap(&h.redoStack, &h.undoStack, current)
}

// swap pops from one stack and pushes current onto the other.
func (h *History) swap(from, to *[]Snapshot, current Snapshot) (Snapshot, bool) {
	n := len(*from)
	if n == 0 {
		return Snapshot{}, false
	}
	top := (*from)[n-1]
	*from = (*from)[:n-1]
	*to = h.capped(append(*to, current))
	return top, true
}

func (h *History) capped(stack []Snapshot) []Snapshot {
	if len(stack) > h.maxDepth {
		return stack[len(stack)-h.maxDepth:]
	}
	return stack
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

// Clear drops both stacks, e.g. when a layout is opened fresh.
func (h *History) Clear() {
	h.undoStack, h.redoStack = nil, nil
}

// copyLayout returns a copy of l that shares no slices with it.
func copyLayout(l model.Layout) model.Layout {
	cp := l
	if l.Rectangles != nil {
		cp.Rectangles = make([]model.PlacedRectangle, len(l.Rectangles))
		copy(cp.Rectangles, l.Rectangles)
	}
	if l.Unplaced != nil {
		cp.Unplaced = make([]model.RectSize, len(l.Unplaced))
		copy(cp.Unplaced, l.Unplaced)
	}
	return cp
}

// MakeSnapshot creates a snapshot of layout with a label.
func MakeSnapshot(layout model.Layout, label string) Snapshot {
	return Snapshot{
		Layout: copyLayout(layout),
		Label:  label,
	}
}
