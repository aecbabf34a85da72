// Package audit records privileged mutations for later review. Failures to
// write an entry are logged by callers, never surfaced to the client.
package audit

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Actions recorded by the protocol handlers.
const (
	ActionAccountDelete  = "account.delete"
	ActionAccountModify  = "account.modify"
	ActionRegionCreate   = "region.create"
	ActionRegionModify   = "region.modify"
	ActionRegionDelete   = "region.delete"
	ActionStationDelete  = "station.delete"
	ActionStationApprove = "station.approve"
	ActionStationToken   = "station.token"
)

// Entry represents one audit log record.
type Entry struct {
	ID            string
	Actor         string
	Role          string
	Action        string
	ResourceType  string
	ResourceID    string
	Metadata      json.RawMessage
	PayloadDigest string
	CreatedAt     time.Time
}

// Logger writes audit entries.
type Logger interface {
	Log(ctx context.Context, entry Entry) error
}

// NewID generates a random audit id.
func NewID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return "audit-" + hex.EncodeToString(buf)
}

// DigestJSON computes a SHA256 hex digest for metadata payloads.
func DigestJSON(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
