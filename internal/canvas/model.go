package canvas

import "sync"

// Stroke is one atomic line-segment drawing action. The ID is assigned by the
// server when the stroke is accepted, so every member sees the same identity.
type Stroke struct {
	ID     string `json:"id,omitempty"`
	StartX int    `json:"startX"`
	StartY int    `json:"startY"`
	EndX   int    `json:"endX"`
	EndY   int    `json:"endY"`
	Color  string `json:"color"`
	Size   int    `json:"size"`
}

// Canvas is a named shared drawing surface: its member usernames, the
// append-only stroke log in arrival order, and the paired undo/redo history.
// All access goes through the Registry, which locks per canvas.
type Canvas struct {
	name    string
	members map[string]struct{}
	strokes []Stroke
	history History

	mu sync.Mutex
}

func newCanvas(name string) *Canvas {
	return &Canvas{
		name:    name,
		members: make(map[string]struct{}),
		strokes: make([]Stroke, 0),
	}
}

// snapshotStrokes returns a copy of the stroke log. Callers must hold mu.
func (c *Canvas) snapshotStrokes() []Stroke {
	out := make([]Stroke, len(c.strokes))
	copy(out, c.strokes)
	return out
}
