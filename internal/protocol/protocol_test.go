package protocol

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DrawSync/internal/canvas"
)

func TestDecodeCommands(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Command
	}{
		{
			name: "register",
			raw:  `{"command":"REGISTER","username":"alice","password":"pw1"}`,
			want: Register{Username: "alice", Password: "pw1"},
		},
		{
			name: "login",
			raw:  `{"command":"LOGIN","username":"alice","password":"pw1"}`,
			want: Login{Username: "alice", Password: "pw1"},
		},
		{
			name: "join",
			raw:  `{"command":"JOIN_CANVAS","username":"alice","canvas_name":"room1"}`,
			want: JoinCanvas{Username: "alice", CanvasName: "room1"},
		},
		{
			name: "draw",
			raw:  `{"command":"DRAW","username":"alice","canvas_name":"room1","stroke":{"startX":0,"startY":0,"endX":10,"endY":10,"color":"#000000","size":2}}`,
			want: Draw{
				Username:   "alice",
				CanvasName: "room1",
				Stroke:     canvas.Stroke{EndX: 10, EndY: 10, Color: "#000000", Size: 2},
			},
		},
		{
			name: "undo",
			raw:  `{"command":"UNDO","canvas_name":"room1"}`,
			want: Undo{CanvasName: "room1"},
		},
		{
			name: "redo",
			raw:  `{"command":"REDO","canvas_name":"room1"}`,
			want: Redo{CanvasName: "room1"},
		},
		{
			name: "chat",
			raw:  `{"command":"CHAT","username":"alice","canvas_name":"room1","message":"hi"}`,
			want: Chat{Username: "alice", CanvasName: "room1", Message: "hi"},
		},
		{
			name: "save",
			raw:  `{"command":"SAVE_CANVAS","canvas_name":"room1"}`,
			want: SaveCanvas{CanvasName: "room1"},
		},
		{
			name: "load",
			raw:  `{"command":"LOAD_CANVAS","canvas_name":"room1"}`,
			want: LoadCanvas{CanvasName: "room1"},
		},
		{
			name: "export",
			raw:  `{"command":"EXPORT_CANVAS","canvas_name":"room1"}`,
			want: ExportCanvas{CanvasName: "room1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `this is not json`},
		{"missing command", `{"username":"alice"}`},
		{"unknown command", `{"command":"TELEPORT"}`},
		{"register without password", `{"command":"REGISTER","username":"alice"}`},
		{"draw without stroke", `{"command":"DRAW","username":"alice","canvas_name":"room1"}`},
		{"undo without canvas", `{"command":"UNDO"}`},
		{"chat without message", `{"command":"CHAT","username":"alice","canvas_name":"room1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestCanvasHistoryEncodesEmptyLogAsArray(t *testing.T) {
	data := CanvasHistory(nil)
	assert.JSONEq(t, `{"command":"CANVAS_HISTORY","strokes":[]}`, string(data))
}

func TestStrokeEvents(t *testing.T) {
	s := canvas.Stroke{ID: "s1", EndX: 10, EndY: 10, Color: "#000000", Size: 2}

	var got struct {
		Command string        `json:"command"`
		Stroke  canvas.Stroke `json:"stroke"`
	}
	require.NoError(t, json.Unmarshal(DrawEvent(s), &got))
	assert.Equal(t, "DRAW", got.Command)
	assert.Equal(t, s, got.Stroke)

	require.NoError(t, json.Unmarshal(UndoEvent(s), &got))
	assert.Equal(t, "UNDO", got.Command)

	require.NoError(t, json.Unmarshal(RedoEvent(s), &got))
	assert.Equal(t, "REDO", got.Command)
}

func TestChatEventTimestampFormat(t *testing.T) {
	at := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	data := ChatEvent("alice", "hello", at)
	assert.JSONEq(t,
		`{"command":"CHAT","username":"alice","message":"hello","timestamp":"2026-03-14 15:09:26"}`,
		string(data))
}

func TestStatusReplies(t *testing.T) {
	assert.JSONEq(t, `{"status":"SUCCESS","message":"ok"}`, string(Success("ok")))
	assert.JSONEq(t, `{"status":"ERROR","message":"nope"}`, string(Error("nope")))
}

func TestUserListEncodesEmptyAsArray(t *testing.T) {
	assert.JSONEq(t, `{"command":"USER_LIST","users":[]}`, string(UserList(nil)))
	assert.JSONEq(t, `{"command":"USER_LIST","users":["alice","bob"]}`,
		string(UserList([]string{"alice", "bob"})))
}
