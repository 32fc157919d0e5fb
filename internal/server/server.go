// Package server exposes the websocket endpoint and dispatches decoded
// client commands against the canvas registry, the connection hub, and the
// persistence store.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"DrawSync/internal/canvas"
	"DrawSync/internal/hub"
	"DrawSync/internal/protocol"
	"DrawSync/internal/store"
)

// Server owns the shared state for the lifetime of the process. Registries
// are passed in at construction; there are no ambient singletons.
type Server struct {
	addr      string
	exportDir string

	registry *canvas.Registry
	hub      *hub.Hub
	store    *store.Store

	upgrader   websocket.Upgrader
	httpServer *http.Server
}

// New wires a server from its collaborators.
func New(addr, exportDir string, registry *canvas.Registry, h *hub.Hub, st *store.Store) *Server {
	s := &Server{
		addr:      addr,
		exportDir: exportDir,
		registry:  registry,
		hub:       h,
		store:     st,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Membership is the only authorization model; origins are a
			// deployment concern.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	return s
}

// Router builds the HTTP routes with request logging.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			m := httpsnoop.CaptureMetrics(handler, writer, request)
			log.Printf("handled %s %s status=%d duration=%s", request.Method, request.URL, m.Code, m.Duration)
		})
	})
	r.HandleFunc("/ws", s.handleWebSocket)
	r.Methods(http.MethodGet).Path("/healthz").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

// ListenAndServe runs the HTTP server until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{Addr: s.addr, Handler: s.Router()}
	log.Printf("listening on %s", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := hub.NewClient(conn)
	log.Printf("client %s connected from %s", client.ID, conn.RemoteAddr())

	go client.WritePump()
	client.ReadPump(
		func(data []byte) { s.Dispatch(client, data) },
		func() { s.Disconnect(client) },
	)
}

// Disconnect cleans up after a transport-level close: the connection is
// unbound, and when it was the user's last one, the user leaves every canvas
// with a presence broadcast per canvas.
func (s *Server) Disconnect(client *hub.Client) {
	username, offline := s.hub.Unbind(client)
	client.Close()
	if username == "" {
		log.Printf("client %s disconnected", client.ID)
		return
	}
	log.Printf("client %s (%s) disconnected", client.ID, username)
	if !offline {
		// Another device is still connected; membership is unchanged.
		return
	}
	for _, name := range s.registry.Leave(username) {
		s.broadcastPresence(name)
	}
}

func (s *Server) broadcastPresence(name string) {
	members := s.registry.Members(name)
	s.hub.Broadcast(members, protocol.UserList(members))
}

// chatClock is replaced in tests to pin broadcast timestamps.
var chatClock = time.Now
