package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DrawSync/internal/canvas"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRegisterAndAuthenticate(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Register("alice", "pw1"))
	assert.NoError(t, s.Authenticate("alice", "pw1"))
	assert.ErrorIs(t, s.Authenticate("alice", "wrong"), ErrBadPassword)
	assert.ErrorIs(t, s.Authenticate("bob", "pw1"), ErrUnknownUser)
}

func TestRegisterTwiceFails(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Register("alice", "pw1"))
	assert.ErrorIs(t, s.Register("alice", "pw2"), ErrUsernameTaken)

	// The original password still works.
	assert.NoError(t, s.Authenticate("alice", "pw1"))
}

func TestPasswordsAreNotStoredInPlaintext(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Register("alice", "pw1"))

	var hash string
	require.NoError(t, s.db.QueryRow(`SELECT password_hash FROM users WHERE username = ?`, "alice").Scan(&hash))
	assert.NotEqual(t, "pw1", hash)
	assert.NotContains(t, hash, "pw1")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)

	strokes := []canvas.Stroke{
		{ID: "s1", EndX: 10, EndY: 10, Color: "#000000", Size: 2},
		{ID: "s2", StartX: 10, StartY: 10, EndX: 20, EndY: 5, Color: "#ff0000", Size: 4},
	}
	require.NoError(t, s.SaveStrokes("room1", strokes))

	loaded, err := s.LoadStrokes("room1")
	require.NoError(t, err)
	assert.Equal(t, strokes, loaded)
}

func TestSaveOverwritesPreviousSnapshot(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveStrokes("room1", []canvas.Stroke{{ID: "old"}}))
	require.NoError(t, s.SaveStrokes("room1", []canvas.Stroke{{ID: "new"}}))

	loaded, err := s.LoadStrokes("room1")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "new", loaded[0].ID)
}

func TestSaveEmptyLog(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveStrokes("room1", nil))

	loaded, err := s.LoadStrokes("room1")
	require.NoError(t, err)
	assert.Empty(t, loaded)
	assert.NotNil(t, loaded)
}

func TestLoadUnknownCanvas(t *testing.T) {
	s := openTestStore(t)

	_, err := s.LoadStrokes("nosuch")
	assert.ErrorIs(t, err, ErrNotFound)
}
