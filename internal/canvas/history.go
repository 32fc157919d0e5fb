package canvas

// History holds the undo/redo stacks for one canvas. It is not safe for
// concurrent use on its own; the owning Canvas serializes access.
type History struct {
	undo []Stroke
	redo []Stroke
}

// Record pushes a freshly drawn stroke onto the undo stack. Any redoable
// strokes are invalidated: once something new is drawn, the redo branch is
// unreachable.
func (h *History) Record(s Stroke) {
	h.undo = append(h.undo, s)
	h.redo = h.redo[:0]
}

// Undo pops the most recent stroke and parks it on the redo stack.
func (h *History) Undo() (Stroke, bool) {
	if len(h.undo) == 0 {
		return Stroke{}, false
	}
	s := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, s)
	return s, true
}

// Redo moves the most recently undone stroke back onto the undo stack.
func (h *History) Redo() (Stroke, bool) {
	if len(h.redo) == 0 {
		return Stroke{}, false
	}
	s := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, s)
	return s, true
}

// Reset drops both stacks. Used when a canvas is replaced wholesale by a
// loaded snapshot, since the old stacks no longer describe the log tail.
func (h *History) Reset() {
	h.undo = nil
	h.redo = nil
}

// Depths reports the current stack sizes.
func (h *History) Depths() (undo, redo int) {
	return len(h.undo), len(h.redo)
}
