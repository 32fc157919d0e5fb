package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryUndoRedoRoundTrip(t *testing.T) {
	var h History
	a := Stroke{ID: "a", EndX: 10, EndY: 10, Color: "#000000", Size: 2}
	b := Stroke{ID: "b", StartX: 5, EndX: 15, Color: "#ff0000", Size: 3}

	h.Record(a)
	h.Record(b)

	undo, redo := h.Depths()
	assert.Equal(t, 2, undo)
	assert.Equal(t, 0, redo)

	s, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, b, s)

	s, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, b, s)

	// Round-trip restores the pre-undo stacks.
	undo, redo = h.Depths()
	assert.Equal(t, 2, undo)
	assert.Equal(t, 0, redo)
}

func TestHistoryEmptyStacks(t *testing.T) {
	var h History

	_, ok := h.Undo()
	assert.False(t, ok)

	_, ok = h.Redo()
	assert.False(t, ok)
}

func TestHistoryRecordClearsRedo(t *testing.T) {
	var h History
	h.Record(Stroke{ID: "a"})
	h.Record(Stroke{ID: "b"})

	_, ok := h.Undo()
	require.True(t, ok)

	h.Record(Stroke{ID: "c"})

	_, redo := h.Depths()
	assert.Equal(t, 0, redo, "a new stroke invalidates the redo branch")

	_, ok = h.Redo()
	assert.False(t, ok)
}

func TestHistoryReset(t *testing.T) {
	var h History
	h.Record(Stroke{ID: "a"})
	h.Record(Stroke{ID: "b"})
	_, _ = h.Undo()

	h.Reset()

	undo, redo := h.Depths()
	assert.Equal(t, 0, undo)
	assert.Equal(t, 0, redo)
}
