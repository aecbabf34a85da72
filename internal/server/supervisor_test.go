package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"transit-registry/internal/credentials"
	"transit-registry/internal/protocol"
	"transit-registry/internal/registry/application"
	"transit-registry/internal/registry/infrastructure/memory"
)

func newTestSupervisor(t *testing.T) *Supervisor {
	t.Helper()
	gateway, err := application.NewGateway(
		memory.NewAccountRepository(),
		memory.NewRegionRepository(),
		memory.NewStationRepository(),
	)
	if err != nil {
		t.Fatalf("NewGateway() error = %v", err)
	}
	hasher, err := credentials.NewHasher([]byte("test-pepper"))
	if err != nil {
		t.Fatalf("NewHasher() error = %v", err)
	}
	logger := log.New(io.Discard, "", 0)
	router, err := protocol.NewRouter(gateway, hasher, credentials.NewToken, logger)
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	supervisor, err := NewSupervisor(router, logger)
	if err != nil {
		t.Fatalf("NewSupervisor() error = %v", err)
	}
	return supervisor
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, frame string) map[string]any {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var response map[string]any
	if err := json.Unmarshal(data, &response); err != nil {
		t.Fatalf("decode response %s: %v", data, err)
	}
	return response
}

func TestSupervisorEndToEnd(t *testing.T) {
	srv := httptest.NewServer(newTestSupervisor(t))
	defer srv.Close()

	conn := dial(t, srv.URL)

	response := roundTrip(t, conn, `{"operation":"user/register","body":{"name":"alice","email":"alice@example.com","password":"hunter22"}}`)
	if response["success"] != true {
		t.Fatalf("register response = %v", response)
	}
	id, _ := response["id"].(string)
	if id == "" {
		t.Fatalf("register response missing id: %v", response)
	}

	// Authentication state is confined to this connection.
	response = roundTrip(t, conn, `{"operation":"user/session"}`)
	if response["id"] != id {
		t.Errorf("session id = %v, want %q", response["id"], id)
	}

	other := dial(t, srv.URL)
	response = roundTrip(t, other, `{"operation":"user/login","body":{"name":"alice","password":"hunter22"}}`)
	if response["success"] != true || response["id"] != id {
		t.Errorf("login on second connection = %v", response)
	}

	// A protocol failure keeps the connection usable.
	response = roundTrip(t, conn, `not json`)
	if response["success"] != false || response["message"] != "operation entry is missing" {
		t.Errorf("malformed frame response = %v", response)
	}
	response = roundTrip(t, conn, `{"operation":"user/session"}`)
	if response["id"] != id {
		t.Errorf("session after failure = %v", response)
	}
}
