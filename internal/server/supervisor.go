// Package server accepts websocket connections and runs one session loop
// per connection until the transport closes.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"transit-registry/internal/observability/metrics"
	"transit-registry/internal/protocol"
)

// Supervisor upgrades inbound HTTP requests to websocket connections and
// spins an independent goroutine per connection. Session state lives inside
// that goroutine; the only shared resource behind it is the store gateway.
type Supervisor struct {
	router   *protocol.Router
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewSupervisor constructs a supervisor.
func NewSupervisor(router *protocol.Router, logger *log.Logger) (*Supervisor, error) {
	if router == nil {
		return nil, errors.New("server: nil router")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Supervisor{
		router: router,
		logger: logger,
		upgrader: websocket.Upgrader{
			// The protocol carries its own authentication; cross-origin
			// browser clients are expected.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}, nil
}

// ServeHTTP upgrades the request and hands the connection to its own loop.
func (s *Supervisor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("upgrade failed: %v", err)
		return
	}
	go s.serve(conn)
}

// serve is the per-connection loop: read one frame, feed it through the
// router, repeat until the transport closes or errors. There is no timeout
// model; a silent peer parks this goroutine.
func (s *Supervisor) serve(conn *websocket.Conn) {
	metrics.ConnectionOpened()
	s.logger.Printf("connection opened: %s", conn.RemoteAddr())
	defer func() {
		metrics.ConnectionClosed()
		s.logger.Printf("connection closed: %s", conn.RemoteAddr())
		_ = conn.Close()
	}()

	ctx := context.Background()
	session := protocol.NewSession(conn)
	for {
		messageType, frame, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		s.router.Handle(ctx, session, frame)
	}
}
