// Package protocol defines the JSON wire messages exchanged with clients.
// Incoming text frames are decoded once, at the boundary, into a closed set
// of command types; handlers never look at raw JSON.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"DrawSync/internal/canvas"
)

// Client commands.
const (
	cmdRegister     = "REGISTER"
	cmdLogin        = "LOGIN"
	cmdJoinCanvas   = "JOIN_CANVAS"
	cmdDraw         = "DRAW"
	cmdUndo         = "UNDO"
	cmdRedo         = "REDO"
	cmdChat         = "CHAT"
	cmdSaveCanvas   = "SAVE_CANVAS"
	cmdLoadCanvas   = "LOAD_CANVAS"
	cmdExportCanvas = "EXPORT_CANVAS"
)

// Server-originated message tags.
const (
	cmdCanvasHistory = "CANVAS_HISTORY"
	cmdUserList      = "USER_LIST"
)

// Status values used in reply messages.
const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
)

// ErrMalformed marks a message that cannot be decoded into a known command.
// The dispatcher logs these and keeps the connection alive.
var ErrMalformed = errors.New("malformed message")

// Command is the closed union of decoded client commands.
type Command interface{ isCommand() }

type Register struct{ Username, Password string }
type Login struct{ Username, Password string }
type JoinCanvas struct{ Username, CanvasName string }
type Draw struct {
	Username, CanvasName string
	Stroke               canvas.Stroke
}
type Undo struct{ CanvasName string }
type Redo struct{ CanvasName string }
type Chat struct{ Username, CanvasName, Message string }
type SaveCanvas struct{ CanvasName string }
type LoadCanvas struct{ CanvasName string }
type ExportCanvas struct{ CanvasName string }

func (Register) isCommand()     {}
func (Login) isCommand()        {}
func (JoinCanvas) isCommand()   {}
func (Draw) isCommand()         {}
func (Undo) isCommand()         {}
func (Redo) isCommand()         {}
func (Chat) isCommand()         {}
func (SaveCanvas) isCommand()   {}
func (LoadCanvas) isCommand()   {}
func (ExportCanvas) isCommand() {}

// envelope is the superset of fields a client message may carry.
type envelope struct {
	Command    string         `json:"command"`
	Username   string         `json:"username"`
	Password   string         `json:"password"`
	CanvasName string         `json:"canvas_name"`
	Message    string         `json:"message"`
	Stroke     *canvas.Stroke `json:"stroke"`
}

// Decode parses one client message into its typed command. Unknown commands
// and messages missing required fields return an error wrapping ErrMalformed.
func Decode(data []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch env.Command {
	case cmdRegister:
		if env.Username == "" || env.Password == "" {
			return nil, missing(env.Command, "username/password")
		}
		return Register{Username: env.Username, Password: env.Password}, nil
	case cmdLogin:
		if env.Username == "" || env.Password == "" {
			return nil, missing(env.Command, "username/password")
		}
		return Login{Username: env.Username, Password: env.Password}, nil
	case cmdJoinCanvas:
		if env.Username == "" || env.CanvasName == "" {
			return nil, missing(env.Command, "username/canvas_name")
		}
		return JoinCanvas{Username: env.Username, CanvasName: env.CanvasName}, nil
	case cmdDraw:
		if env.Username == "" || env.CanvasName == "" || env.Stroke == nil {
			return nil, missing(env.Command, "username/canvas_name/stroke")
		}
		return Draw{Username: env.Username, CanvasName: env.CanvasName, Stroke: *env.Stroke}, nil
	case cmdUndo:
		if env.CanvasName == "" {
			return nil, missing(env.Command, "canvas_name")
		}
		return Undo{CanvasName: env.CanvasName}, nil
	case cmdRedo:
		if env.CanvasName == "" {
			return nil, missing(env.Command, "canvas_name")
		}
		return Redo{CanvasName: env.CanvasName}, nil
	case cmdChat:
		if env.Username == "" || env.CanvasName == "" || env.Message == "" {
			return nil, missing(env.Command, "username/canvas_name/message")
		}
		return Chat{Username: env.Username, CanvasName: env.CanvasName, Message: env.Message}, nil
	case cmdSaveCanvas:
		if env.CanvasName == "" {
			return nil, missing(env.Command, "canvas_name")
		}
		return SaveCanvas{CanvasName: env.CanvasName}, nil
	case cmdLoadCanvas:
		if env.CanvasName == "" {
			return nil, missing(env.Command, "canvas_name")
		}
		return LoadCanvas{CanvasName: env.CanvasName}, nil
	case cmdExportCanvas:
		if env.CanvasName == "" {
			return nil, missing(env.Command, "canvas_name")
		}
		return ExportCanvas{CanvasName: env.CanvasName}, nil
	case "":
		return nil, fmt.Errorf("%w: missing command field", ErrMalformed)
	default:
		return nil, fmt.Errorf("%w: unknown command %q", ErrMalformed, env.Command)
	}
}

func missing(command, fields string) error {
	return fmt.Errorf("%w: %s requires %s", ErrMalformed, command, fields)
}
