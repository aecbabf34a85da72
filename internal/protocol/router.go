package protocol

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"transit-registry/internal/audit"
	"transit-registry/internal/credentials"
	"transit-registry/internal/observability/metrics"
	"transit-registry/internal/registry/application"
)

// Router binds (operation, body-presence, authentication-state) triples to
// handlers. The match is exhaustive over the command set; unrecognized
// combinations are deliberately dropped without a response — that silence
// is part of the wire contract inherited by this protocol.
type Router struct {
	gateway *application.Gateway
	hasher  *credentials.Hasher
	tokens  credentials.TokenSource
	auditor audit.Logger
	logger  *log.Logger

	// approvalResetOnEdit forces a station's approval flag to the actor's
	// admin status on every station/modify.
	approvalResetOnEdit bool
}

// RouterOption configures the router.
type RouterOption func(*Router)

// WithAuditor records privileged mutations through the given logger.
func WithAuditor(auditor audit.Logger) RouterOption {
	return func(r *Router) {
		r.auditor = auditor
	}
}

// WithApprovalReset toggles the approval reset on non-admin station edits.
func WithApprovalReset(enabled bool) RouterOption {
	return func(r *Router) {
		r.approvalResetOnEdit = enabled
	}
}

// NewRouter constructs a router.
func NewRouter(gateway *application.Gateway, hasher *credentials.Hasher, tokens credentials.TokenSource, logger *log.Logger, opts ...RouterOption) (*Router, error) {
	if gateway == nil {
		return nil, errors.New("router: nil gateway")
	}
	if hasher == nil {
		return nil, errors.New("router: nil hasher")
	}
	if tokens == nil {
		tokens = credentials.NewToken
	}
	if logger == nil {
		logger = log.Default()
	}
	router := &Router{
		gateway:             gateway,
		hasher:              hasher,
		tokens:              tokens,
		logger:              logger,
		approvalResetOnEdit: true,
	}
	for _, opt := range opts {
		opt(router)
	}
	return router, nil
}

// Handle processes one inbound text frame: decode, guard, dispatch, write
// at most one response. Protocol failures never tear down the connection.
func (r *Router) Handle(ctx context.Context, s *Session, frame []byte) {
	env, err := DecodeEnvelope(frame)
	if err != nil {
		metrics.FrameOutcome(metrics.FrameMalformed)
		r.fail(s, "operation entry is missing")
		return
	}

	start := time.Now()
	outcome := r.dispatch(ctx, s, env)
	metrics.FrameOutcome(outcome)
	if outcome == metrics.FrameDispatched {
		metrics.ObserveOperation(env.Operation, time.Since(start).Seconds())
	}
	if outcome == metrics.FrameIgnored {
		r.logger.Printf("ignored frame: operation=%s body=%t authenticated=%t", env.Operation, env.HasBody(), s.Authenticated())
	}
}

func (r *Router) dispatch(ctx context.Context, s *Session, env Envelope) string {
	hasBody := env.HasBody()
	authed := s.Authenticated()

	switch {
	case env.Operation == OpUserRegister && hasBody && !authed:
		return invoke(r, ctx, s, env.Body, r.register)
	case env.Operation == OpUserLogin && hasBody && !authed:
		return invoke(r, ctx, s, env.Body, r.login)
	case env.Operation == OpUserSession && !hasBody && authed:
		r.getSession(ctx, s)
	case env.Operation == OpUserDelete && hasBody && authed:
		return invoke(r, ctx, s, env.Body, r.deleteAccount)
	case env.Operation == OpUserModify && hasBody && authed:
		return invoke(r, ctx, s, env.Body, r.modifyAccount)
	case env.Operation == OpUserList && !hasBody && authed:
		r.listAccounts(ctx, s)
	case env.Operation == OpStationCreate && hasBody && authed:
		return invoke(r, ctx, s, env.Body, r.createStation)
	case env.Operation == OpStationList && hasBody:
		return invoke(r, ctx, s, env.Body, r.listStations)
	case env.Operation == OpStationList:
		r.listStations(ctx, s, listStationsRequest{})
	case env.Operation == OpStationDelete && hasBody && authed:
		return invoke(r, ctx, s, env.Body, r.deleteStation)
	case env.Operation == OpStationModify && hasBody && authed:
		return invoke(r, ctx, s, env.Body, r.modifyStation)
	case env.Operation == OpStationApprove && hasBody && authed:
		return invoke(r, ctx, s, env.Body, r.approveStation)
	case env.Operation == OpStationToken && hasBody && authed:
		return invoke(r, ctx, s, env.Body, r.generateToken)
	case env.Operation == OpRegionCreate && hasBody && authed:
		return invoke(r, ctx, s, env.Body, r.createRegion)
	case env.Operation == OpRegionDelete && hasBody && authed:
		return invoke(r, ctx, s, env.Body, r.deleteRegion)
	case env.Operation == OpRegionModify && hasBody && authed:
		return invoke(r, ctx, s, env.Body, r.modifyRegion)
	case env.Operation == OpRegionList && !hasBody:
		r.listRegions(ctx, s)
	default:
		return metrics.FrameIgnored
	}
	return metrics.FrameDispatched
}

// invoke parses the declared payload and calls the handler. A body that
// does not decode into the operation's payload type is a payload mismatch:
// one failure response, connection continues.
func invoke[T any](r *Router, ctx context.Context, s *Session, body json.RawMessage, handler func(context.Context, *Session, T)) string {
	var payload T
	if err := json.Unmarshal(body, &payload); err != nil {
		r.fail(s, "decoding failed")
		return metrics.FramePayloadMismatch
	}
	handler(ctx, s, payload)
	return metrics.FrameDispatched
}

func (r *Router) send(s *Session, v any) {
	if err := s.reply(v); err != nil {
		r.logger.Printf("write response: %v", err)
	}
}

func (r *Router) ok(s *Session) {
	r.send(s, serviceResponse{Success: true})
}

func (r *Router) fail(s *Session, message string) {
	r.send(s, serviceResponse{Success: false, Message: message})
}

// failStore downgrades a store-layer error to a generic failure response.
func (r *Router) failStore(s *Session, operation string, err error) {
	r.logger.Printf("%s: store error: %v", operation, err)
	r.fail(s, "store unavailable")
}

// freshAdmin re-fetches the actor's current persisted role. Privileged
// decisions never trust the login-time snapshot.
func (r *Router) freshAdmin(ctx context.Context, s *Session) (bool, error) {
	return r.gateway.IsAdministrator(ctx, s.Account().ID)
}

func (r *Router) recordAudit(ctx context.Context, s *Session, isAdmin bool, action, resourceType, resourceID string, metadata any) {
	if r.auditor == nil {
		return
	}
	role := "user"
	if isAdmin {
		role = "administrator"
	}
	var raw json.RawMessage
	if metadata != nil {
		raw, _ = json.Marshal(metadata)
	}
	entry := audit.Entry{
		Actor:        s.Account().ID,
		Role:         role,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Metadata:     raw,
	}
	if err := r.auditor.Log(ctx, entry); err != nil {
		r.logger.Printf("audit %s: %v", action, err)
	}
}
