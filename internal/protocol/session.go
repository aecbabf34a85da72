package protocol

import (
	"encoding/json"
	"errors"

	"github.com/gorilla/websocket"

	registry "transit-registry/internal/registry/domain"
)

// Conn is the outbound half of the transport. *websocket.Conn satisfies it;
// tests substitute a recorder.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
}

// Session is the per-connection state: the transport and, after a
// successful login or registration, the authenticated account snapshot.
// A session belongs to exactly one goroutine; nothing here is locked.
// The snapshot is login-time convenience only — privileged decisions
// re-fetch the current role from the store.
type Session struct {
	conn    Conn
	account *registry.Account
}

// NewSession wraps a transport connection.
func NewSession(conn Conn) *Session {
	return &Session{conn: conn}
}

// Authenticated reports whether a login or registration succeeded on this
// connection. There is no transition back; only teardown ends a session.
func (s *Session) Authenticated() bool {
	return s != nil && s.account != nil
}

// Account returns the login-time snapshot, nil while unauthenticated.
func (s *Session) Account() *registry.Account {
	if s == nil {
		return nil
	}
	return s.account
}

func (s *Session) authenticate(account *registry.Account) {
	s.account = account
}

// reply writes exactly one JSON text frame.
func (s *Session) reply(v any) error {
	if s == nil || s.conn == nil {
		return errors.New("protocol: nil session conn")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}
