package server

import (
	"errors"
	"log"
	"path/filepath"

	"DrawSync/internal/export"
	"DrawSync/internal/hub"
	"DrawSync/internal/protocol"
	"DrawSync/internal/store"
)

// Reply strings, kept stable for existing clients.
const (
	msgRegistered    = "Registered successfully"
	msgUsernameTaken = "Username already taken"
	msgLoggedIn      = "Logged in successfully"
	msgUnknownUser   = "Username does not exist"
	msgBadPassword   = "Incorrect password"
	msgJoined        = "Joined canvas successfully"
	msgSaved         = "Canvas saved successfully"
	msgExported      = "Canvas exported successfully"
	msgCanvasMissing = "Canvas not found"
	msgInternal      = "Internal server error"
)

// Dispatch decodes one client message and runs its handler to completion,
// including every broadcast it triggers. Malformed messages and commands
// from connections that never joined the target canvas are dropped silently:
// the command stream stays resilient to client mistakes, and no error is
// ever broadcast to other members.
func (s *Server) Dispatch(client *hub.Client, data []byte) {
	cmd, err := protocol.Decode(data)
	if err != nil {
		log.Printf("client %s: %v", client.ID, err)
		return
	}

	switch cmd := cmd.(type) {
	case protocol.Register:
		s.handleRegister(client, cmd)
	case protocol.Login:
		s.handleLogin(client, cmd)
	case protocol.JoinCanvas:
		s.handleJoin(client, cmd)
	case protocol.Draw:
		s.handleDraw(client, cmd)
	case protocol.Undo:
		s.handleUndo(cmd)
	case protocol.Redo:
		s.handleRedo(cmd)
	case protocol.Chat:
		s.handleChat(client, cmd)
	case protocol.SaveCanvas:
		s.handleSave(client, cmd)
	case protocol.LoadCanvas:
		s.handleLoad(client, cmd)
	case protocol.ExportCanvas:
		s.handleExport(client, cmd)
	}
}

func (s *Server) handleRegister(client *hub.Client, cmd protocol.Register) {
	switch err := s.store.Register(cmd.Username, cmd.Password); {
	case err == nil:
		client.Send(protocol.Success(msgRegistered))
		log.Printf("user %s registered", cmd.Username)
	case errors.Is(err, store.ErrUsernameTaken):
		client.Send(protocol.Error(msgUsernameTaken))
	default:
		log.Printf("register %s: %v", cmd.Username, err)
		client.Send(protocol.Error(msgInternal))
	}
}

func (s *Server) handleLogin(client *hub.Client, cmd protocol.Login) {
	switch err := s.store.Authenticate(cmd.Username, cmd.Password); {
	case err == nil:
		s.hub.Bind(cmd.Username, client)
		client.Send(protocol.Success(msgLoggedIn))
		log.Printf("user %s logged in on connection %s", cmd.Username, client.ID)
	case errors.Is(err, store.ErrUnknownUser):
		client.Send(protocol.Error(msgUnknownUser))
	case errors.Is(err, store.ErrBadPassword):
		client.Send(protocol.Error(msgBadPassword))
	default:
		log.Printf("login %s: %v", cmd.Username, err)
		client.Send(protocol.Error(msgInternal))
	}
}

// requireBound enforces the dispatcher state machine: the connection must be
// authenticated and the payload username must match the bound one.
// Violations are dropped without a reply.
func (s *Server) requireBound(client *hub.Client, username string) bool {
	bound := client.Username()
	if bound == "" || bound != username {
		log.Printf("client %s: dropping command for %q (bound to %q)", client.ID, username, bound)
		return false
	}
	return true
}

func (s *Server) handleJoin(client *hub.Client, cmd protocol.JoinCanvas) {
	if !s.requireBound(client, cmd.Username) {
		return
	}
	strokes := s.registry.Join(cmd.CanvasName, cmd.Username)
	client.Send(protocol.CanvasHistory(strokes))
	client.Send(protocol.Success(msgJoined))
	s.broadcastPresence(cmd.CanvasName)
	log.Printf("user %s joined canvas %s", cmd.Username, cmd.CanvasName)
}

func (s *Server) handleDraw(client *hub.Client, cmd protocol.Draw) {
	if !s.requireBound(client, cmd.Username) {
		return
	}
	stroke, ok := s.registry.Draw(cmd.CanvasName, cmd.Username, cmd.Stroke)
	if !ok {
		// Not a member, or no such canvas. Dropped by policy.
		return
	}
	s.hub.Broadcast(s.registry.Members(cmd.CanvasName), protocol.DrawEvent(stroke))
}

func (s *Server) handleUndo(cmd protocol.Undo) {
	stroke, ok := s.registry.Undo(cmd.CanvasName)
	if !ok {
		// Nothing to undo; no broadcast, no error reply.
		return
	}
	s.hub.Broadcast(s.registry.Members(cmd.CanvasName), protocol.UndoEvent(stroke))
}

func (s *Server) handleRedo(cmd protocol.Redo) {
	stroke, ok := s.registry.Redo(cmd.CanvasName)
	if !ok {
		return
	}
	s.hub.Broadcast(s.registry.Members(cmd.CanvasName), protocol.RedoEvent(stroke))
}

func (s *Server) handleChat(client *hub.Client, cmd protocol.Chat) {
	if !s.requireBound(client, cmd.Username) {
		return
	}
	if !s.registry.IsMember(cmd.CanvasName, cmd.Username) {
		return
	}
	event := protocol.ChatEvent(cmd.Username, cmd.Message, chatClock())
	s.hub.Broadcast(s.registry.Members(cmd.CanvasName), event)
}

func (s *Server) handleSave(client *hub.Client, cmd protocol.SaveCanvas) {
	strokes, ok := s.registry.Strokes(cmd.CanvasName)
	if !ok {
		client.Send(protocol.Error(msgCanvasMissing))
		return
	}
	if err := s.store.SaveStrokes(cmd.CanvasName, strokes); err != nil {
		log.Printf("save canvas %s: %v", cmd.CanvasName, err)
		client.Send(protocol.Error(msgInternal))
		return
	}
	client.Send(protocol.Success(msgSaved))
	log.Printf("canvas %s saved (%d strokes)", cmd.CanvasName, len(strokes))
}

func (s *Server) handleLoad(client *hub.Client, cmd protocol.LoadCanvas) {
	strokes, err := s.store.LoadStrokes(cmd.CanvasName)
	if errors.Is(err, store.ErrNotFound) {
		client.Send(protocol.Error(msgCanvasMissing))
		return
	}
	if err != nil {
		log.Printf("load canvas %s: %v", cmd.CanvasName, err)
		client.Send(protocol.Error(msgInternal))
		return
	}
	s.registry.ReplaceStrokes(cmd.CanvasName, strokes)
	client.Send(protocol.CanvasHistory(strokes))
	log.Printf("canvas %s loaded (%d strokes)", cmd.CanvasName, len(strokes))
}

func (s *Server) handleExport(client *hub.Client, cmd protocol.ExportCanvas) {
	strokes, ok := s.registry.Strokes(cmd.CanvasName)
	if !ok {
		client.Send(protocol.Error(msgCanvasMissing))
		return
	}
	path := filepath.Join(s.exportDir, cmd.CanvasName+".pdf")
	if err := export.ToPDF(path, strokes); err != nil {
		log.Printf("export canvas %s: %v", cmd.CanvasName, err)
		client.Send(protocol.Error(msgInternal))
		return
	}
	client.Send(protocol.Success(msgExported))
	log.Printf("canvas %s exported to %s", cmd.CanvasName, path)
}
