package canvas

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Registry owns every Canvas and its History for the lifetime of the process.
// The registry map has its own lock; each canvas locks independently, so
// canvases never block each other.
type Registry struct {
	mu       sync.RWMutex
	canvases map[string]*Canvas
}

func NewRegistry() *Registry {
	return &Registry{canvases: make(map[string]*Canvas)}
}

func (r *Registry) get(name string) (*Canvas, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.canvases[name]
	return c, ok
}

func (r *Registry) getOrCreate(name string) *Canvas {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.canvases[name]
	if !ok {
		c = newCanvas(name)
		r.canvases[name] = c
	}
	return c
}

// Join adds username to the canvas, creating the canvas on first join, and
// returns the current stroke log so the joining side can rebuild its view.
func (r *Registry) Join(name, username string) []Stroke {
	c := r.getOrCreate(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.members[username] = struct{}{}
	return c.snapshotStrokes()
}

// Leave removes username from every canvas it is a member of and returns the
// names of the canvases that changed. Called when the user's last connection
// goes away, not on an explicit command.
func (r *Registry) Leave(username string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var affected []string
	for name, c := range r.canvases {
		c.mu.Lock()
		if _, ok := c.members[username]; ok {
			delete(c.members, username)
			affected = append(affected, name)
		}
		c.mu.Unlock()
	}
	sort.Strings(affected)
	return affected
}

// IsMember reports whether username currently belongs to the canvas.
func (r *Registry) IsMember(name, username string) bool {
	c, ok := r.get(name)
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, member := c.members[username]
	return member
}

// Members returns the sorted member usernames, or nil if the canvas does not
// exist.
func (r *Registry) Members(name string) []string {
	c, ok := r.get(name)
	if !ok {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	users := make([]string, 0, len(c.members))
	for u := range c.members {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}

// Draw appends the stroke to the canvas log and records it in the undo
// history. The stroke is rejected (no state change) if the canvas does not
// exist or username is not a member. The accepted stroke, with its assigned
// ID, is returned for broadcast.
func (r *Registry) Draw(name, username string, s Stroke) (Stroke, bool) {
	c, ok := r.get(name)
	if !ok {
		return Stroke{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, member := c.members[username]; !member {
		return Stroke{}, false
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	c.strokes = append(c.strokes, s)
	c.history.Record(s)
	return s, true
}

// Undo pops the most recent stroke off the undo stack and removes it from the
// stroke log, so late joiners and saved snapshots agree with what members
// see. Returns false (a no-op) when there is nothing to undo.
func (r *Registry) Undo(name string) (Stroke, bool) {
	c, ok := r.get(name)
	if !ok {
		return Stroke{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.history.Undo()
	if !ok {
		return Stroke{}, false
	}
	if n := len(c.strokes); n > 0 && c.strokes[n-1].ID == s.ID {
		c.strokes = c.strokes[:n-1]
	}
	return s, true
}

// Redo re-applies the most recently undone stroke, appending it back onto the
// stroke log.
func (r *Registry) Redo(name string) (Stroke, bool) {
	c, ok := r.get(name)
	if !ok {
		return Stroke{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.history.Redo()
	if !ok {
		return Stroke{}, false
	}
	c.strokes = append(c.strokes, s)
	return s, true
}

// Strokes returns a snapshot of the canvas stroke log.
func (r *Registry) Strokes(name string) ([]Stroke, bool) {
	c, ok := r.get(name)
	if !ok {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotStrokes(), true
}

// ReplaceStrokes swaps in a loaded stroke log, creating the canvas if needed.
// The undo/redo stacks are reset: they described the old log, and keeping
// them would let an undo remove a stroke that is no longer the log tail.
func (r *Registry) ReplaceStrokes(name string, strokes []Stroke) {
	c := r.getOrCreate(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.strokes = make([]Stroke, len(strokes))
	copy(c.strokes, strokes)
	c.history.Reset()
}

// HistoryDepths reports the undo/redo stack sizes for a canvas.
func (r *Registry) HistoryDepths(name string) (undo, redo int) {
	c, ok := r.get(name)
	if !ok {
		return 0, 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Depths()
}
