// Package protocol implements the session-scoped command engine: envelope
// decoding, the per-connection authentication state machine, the
// authorization guard and the routing of decoded commands to their domain
// handlers.
package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Operation names form a fixed, closed command set.
const (
	OpUserRegister   = "user/register"
	OpUserLogin      = "user/login"
	OpUserSession    = "user/session"
	OpUserDelete     = "user/delete"
	OpUserModify     = "user/modify"
	OpUserList       = "user/list"
	OpStationCreate  = "station/create"
	OpStationList    = "station/list"
	OpStationDelete  = "station/delete"
	OpStationModify  = "station/modify"
	OpStationApprove = "station/approve"
	OpStationToken   = "station/generate_token"
	OpRegionCreate   = "region/create"
	OpRegionDelete   = "region/delete"
	OpRegionModify   = "region/modify"
	OpRegionList     = "region/list"
)

// Envelope is the wire structure carrying one request.
type Envelope struct {
	Operation string          `json:"operation"`
	Body      json.RawMessage `json:"body,omitempty"`
}

// ErrMalformedEnvelope marks a frame that is not a valid envelope.
var ErrMalformedEnvelope = errors.New("protocol: malformed envelope")

var jsonNull = []byte("null")

// DecodeEnvelope parses a raw text frame into an envelope. A frame that is
// not valid JSON or lacks the operation field is malformed.
func DecodeEnvelope(frame []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Envelope{}, ErrMalformedEnvelope
	}
	if env.Operation == "" {
		return Envelope{}, ErrMalformedEnvelope
	}
	return env, nil
}

// HasBody reports whether the envelope carries a payload.
func (e Envelope) HasBody() bool {
	return len(e.Body) > 0 && !bytes.Equal(e.Body, jsonNull)
}
