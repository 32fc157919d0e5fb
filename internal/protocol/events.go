package protocol

import (
	"encoding/json"
	"time"

	"DrawSync/internal/canvas"
)

// chatTimestampLayout is the format existing clients parse chat times with.
const chatTimestampLayout = "2006-01-02 15:04:05"

type statusReply struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type canvasHistoryEvent struct {
	Command string          `json:"command"`
	Strokes []canvas.Stroke `json:"strokes"`
}

type strokeEvent struct {
	Command string        `json:"command"`
	Stroke  canvas.Stroke `json:"stroke"`
}

type chatEvent struct {
	Command   string `json:"command"`
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type userListEvent struct {
	Command string   `json:"command"`
	Users   []string `json:"users"`
}

func marshal(v any) []byte {
	data, _ := json.Marshal(v)
	return data
}

// Success builds a `{status: SUCCESS, message}` reply.
func Success(message string) []byte {
	return marshal(statusReply{Status: StatusSuccess, Message: message})
}

// Error builds a `{status: ERROR, message}` reply.
func Error(message string) []byte {
	return marshal(statusReply{Status: StatusError, Message: message})
}

// CanvasHistory carries the full stroke log to a joining or loading client.
// An empty log is encoded as [], never null.
func CanvasHistory(strokes []canvas.Stroke) []byte {
	if strokes == nil {
		strokes = make([]canvas.Stroke, 0)
	}
	return marshal(canvasHistoryEvent{Command: cmdCanvasHistory, Strokes: strokes})
}

// DrawEvent announces an accepted stroke to all members.
func DrawEvent(s canvas.Stroke) []byte {
	return marshal(strokeEvent{Command: cmdDraw, Stroke: s})
}

// UndoEvent announces an undone stroke.
func UndoEvent(s canvas.Stroke) []byte {
	return marshal(strokeEvent{Command: cmdUndo, Stroke: s})
}

// RedoEvent announces a re-applied stroke.
func RedoEvent(s canvas.Stroke) []byte {
	return marshal(strokeEvent{Command: cmdRedo, Stroke: s})
}

// ChatEvent carries a chat line, timestamped at broadcast time.
func ChatEvent(username, message string, at time.Time) []byte {
	return marshal(chatEvent{
		Command:   cmdChat,
		Username:  username,
		Message:   message,
		Timestamp: at.Format(chatTimestampLayout),
	})
}

// UserList is the presence broadcast sent after every membership change.
func UserList(users []string) []byte {
	if users == nil {
		users = make([]string, 0)
	}
	return marshal(userListEvent{Command: cmdUserList, Users: users})
}
