package protocol

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"testing"

	"transit-registry/internal/credentials"
	"transit-registry/internal/registry/application"
	registry "transit-registry/internal/registry/domain"
	"transit-registry/internal/registry/infrastructure/memory"
)

// frameRecorder captures outbound frames in place of a websocket connection.
type frameRecorder struct {
	frames [][]byte
}

func (c *frameRecorder) WriteMessage(messageType int, data []byte) error {
	_ = messageType
	c.frames = append(c.frames, data)
	return nil
}

// client drives one session against the router the way a connected peer
// would: one frame in, the newly written frames out.
type client struct {
	t       *testing.T
	router  *Router
	conn    *frameRecorder
	session *Session
}

func newTestRouter(t *testing.T) (*Router, *application.Gateway) {
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
	router, err := NewRouter(gateway, hasher, credentials.NewToken, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	return router, gateway
}

func newClient(t *testing.T, router *Router) *client {
	conn := &frameRecorder{}
	return &client{t: t, router: router, conn: conn, session: NewSession(conn)}
}

// sendRaw feeds one text frame and returns the responses it produced.
func (c *client) sendRaw(frame string) [][]byte {
	c.t.Helper()
	before := len(c.conn.frames)
	c.router.Handle(context.Background(), c.session, []byte(frame))
	return c.conn.frames[before:]
}

// send marshals an envelope and expects exactly one response frame.
func (c *client) send(operation string, body any) []byte {
	c.t.Helper()
	frames := c.trySend(operation, body)
	if len(frames) != 1 {
		c.t.Fatalf("%s: got %d response frames, want 1", operation, len(frames))
	}
	return frames[0]
}

// trySend marshals an envelope and returns whatever responses came back.
func (c *client) trySend(operation string, body any) [][]byte {
	c.t.Helper()
	env := map[string]any{"operation": operation}
	if body != nil {
		env["body"] = body
	}
	frame, err := json.Marshal(env)
	if err != nil {
		c.t.Fatalf("marshal envelope: %v", err)
	}
	return c.sendRaw(string(frame))
}

func (c *client) register(name string) string {
	c.t.Helper()
	resp := decodeAs[identityResponse](c.t, c.send(OpUserRegister, map[string]any{
		"name":     name,
		"email":    name + "@example.com",
		"password": "hunter22",
	}))
	if !resp.Success {
		c.t.Fatalf("register %s: success = false", name)
	}
	if resp.ID == "" {
		c.t.Fatalf("register %s: empty id", name)
	}
	return resp.ID
}

func decodeAs[T any](t *testing.T, frame []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(frame, &v); err != nil {
		t.Fatalf("decode response %s: %v", frame, err)
	}
	return v
}

func expectFailure(t *testing.T, frame []byte, message string) {
	t.Helper()
	resp := decodeAs[serviceResponse](t, frame)
	if resp.Success {
		t.Fatalf("got success response %s, want failure %q", frame, message)
	}
	if resp.Message != message {
		t.Errorf("failure message = %q, want %q", resp.Message, message)
	}
}

func expectOK(t *testing.T, frame []byte) {
	t.Helper()
	resp := decodeAs[serviceResponse](t, frame)
	if !resp.Success {
		t.Fatalf("got failure response %s, want success", frame)
	}
}

func TestHandleMalformedFrames(t *testing.T) {
	router, _ := newTestRouter(t)
	c := newClient(t, router)

	for _, frame := range []string{`{`, `[1,2,3]`, `{"body":{"name":"a"}}`, `"user/login"`} {
		frames := c.sendRaw(frame)
		if len(frames) != 1 {
			t.Fatalf("frame %q: got %d responses, want 1", frame, len(frames))
		}
		expectFailure(t, frames[0], "operation entry is missing")
	}
}

func TestHandlePayloadMismatch(t *testing.T) {
	router, _ := newTestRouter(t)
	c := newClient(t, router)

	frames := c.sendRaw(`{"operation":"user/register","body":[1,2,3]}`)
	if len(frames) != 1 {
		t.Fatalf("got %d responses, want 1", len(frames))
	}
	expectFailure(t, frames[0], "decoding failed")
}

func TestHandleIgnoresUnmatchedFrames(t *testing.T) {
	router, _ := newTestRouter(t)
	c := newClient(t, router)

	// None of these (operation, body, authentication) combinations has a
	// handler; they must vanish without a response.
	silent := []string{
		`{"operation":"user/frobnicate"}`,
		`{"operation":"user/session"}`,
		`{"operation":"user/list"}`,
		`{"operation":"user/register"}`,
		`{"operation":"station/create","body":{"name":"x","lat":0,"lon":0,"region":1}}`,
		`{"operation":"station/delete","body":{"id":"x"}}`,
		`{"operation":"region/create","body":{"name":"x","frequency":1}}`,
		`{"operation":"region/list","body":{"extra":true}}`,
	}
	for _, frame := range silent {
		if frames := c.sendRaw(frame); len(frames) != 0 {
			t.Errorf("frame %s: got response %s, want silence", frame, frames[0])
		}
	}
}

func TestRegisterFirstAccountBecomesAdministrator(t *testing.T) {
	router, gateway := newTestRouter(t)

	first := newClient(t, router)
	firstID := first.register("alice")

	second := newClient(t, router)
	secondID := second.register("bob")

	isAdmin, err := gateway.IsAdministrator(context.Background(), firstID)
	if err != nil {
		t.Fatalf("IsAdministrator() error = %v", err)
	}
	if !isAdmin {
		t.Errorf("first registered account is not administrator")
	}
	isAdmin, err = gateway.IsAdministrator(context.Background(), secondID)
	if err != nil {
		t.Fatalf("IsAdministrator() error = %v", err)
	}
	if isAdmin {
		t.Errorf("second registered account is administrator")
	}
}

func TestRegisterAuthenticatesSession(t *testing.T) {
	router, _ := newTestRouter(t)
	c := newClient(t, router)

	id := c.register("alice")
	if !c.session.Authenticated() {
		t.Fatalf("session not authenticated after registration")
	}

	resp := decodeAs[sessionResponse](t, c.send(OpUserSession, nil))
	if resp.ID != id {
		t.Errorf("session id = %q, want %q", resp.ID, id)
	}
}

func TestRegisterDuplicateName(t *testing.T) {
	router, _ := newTestRouter(t)
	newClient(t, router).register("alice")

	c := newClient(t, router)
	frame := c.send(OpUserRegister, map[string]any{
		"name":     "alice",
		"email":    "other@example.com",
		"password": "hunter22",
	})
	expectFailure(t, frame, "name already taken")
	if c.session.Authenticated() {
		t.Errorf("session authenticated after rejected registration")
	}
}

func TestRegisterInvalidEmailSilentlyDropped(t *testing.T) {
	router, gateway := newTestRouter(t)
	c := newClient(t, router)

	frames := c.trySend(OpUserRegister, map[string]any{
		"name":     "alice",
		"email":    "not an email",
		"password": "hunter22",
	})
	if len(frames) != 0 {
		t.Fatalf("got response %s, want silence", frames[0])
	}
	exists, err := gateway.AccountExists(context.Background(), "alice")
	if err != nil {
		t.Fatalf("AccountExists() error = %v", err)
	}
	if exists {
		t.Errorf("account created despite invalid email")
	}
}

func TestLogin(t *testing.T) {
	router, _ := newTestRouter(t)
	id := newClient(t, router).register("alice")

	c := newClient(t, router)
	resp := decodeAs[identityResponse](t, c.send(OpUserLogin, map[string]any{
		"name":     "alice",
		"password": "hunter22",
	}))
	if !resp.Success || resp.ID != id {
		t.Fatalf("login response = %+v, want success with id %q", resp, id)
	}
	if !c.session.Authenticated() {
		t.Errorf("session not authenticated after login")
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	router, _ := newTestRouter(t)
	newClient(t, router).register("alice")

	wrongPassword := newClient(t, router).send(OpUserLogin, map[string]any{
		"name":     "alice",
		"password": "wrong",
	})
	unknownName := newClient(t, router).send(OpUserLogin, map[string]any{
		"name":     "nobody",
		"password": "hunter22",
	})
	if !bytes.Equal(wrongPassword, unknownName) {
		t.Errorf("failure frames differ: %s vs %s", wrongPassword, unknownName)
	}
	expectFailure(t, wrongPassword, "invalid credentials")
}

func TestDeleteAccount(t *testing.T) {
	router, gateway := newTestRouter(t)
	admin := newClient(t, router)
	admin.register("alice")

	user := newClient(t, router)
	userID := user.register("bob")

	other := newClient(t, router)
	other.register("carol")

	// A stranger cannot delete someone else's account.
	expectFailure(t, other.send(OpUserDelete, map[string]any{"id": userID}), "not the owner")

	// The administrator can.
	expectOK(t, admin.send(OpUserDelete, map[string]any{"id": userID}))
	account, err := gateway.AccountByID(context.Background(), userID)
	if err != nil {
		t.Fatalf("AccountByID() error = %v", err)
	}
	if account != nil {
		t.Errorf("account still present after delete")
	}

	expectFailure(t, admin.send(OpUserDelete, map[string]any{"id": userID}), "account not found")
}

func TestModifyAccount(t *testing.T) {
	router, gateway := newTestRouter(t)
	newClient(t, router).register("alice")

	user := newClient(t, router)
	userID := user.register("bob")

	// Self-service password change.
	expectOK(t, user.send(OpUserModify, map[string]any{"id": userID, "password": "new-secret"}))

	login := newClient(t, router)
	resp := decodeAs[identityResponse](t, login.send(OpUserLogin, map[string]any{
		"name":     "bob",
		"password": "new-secret",
	}))
	if !resp.Success {
		t.Fatalf("login with changed password failed")
	}

	// A regular user cannot touch roles, not even their own.
	expectFailure(t, user.send(OpUserModify, map[string]any{"id": userID, "role": 0}), "administrator role required")

	// Email changes are re-validated.
	expectFailure(t, user.send(OpUserModify, map[string]any{"id": userID, "email": "nope"}), "invalid email")

	account, err := gateway.AccountByID(context.Background(), userID)
	if err != nil {
		t.Fatalf("AccountByID() error = %v", err)
	}
	if account.Role != registry.RoleUser {
		t.Errorf("role = %v, want user", account.Role)
	}
}

func TestModifyAccountPromotion(t *testing.T) {
	router, gateway := newTestRouter(t)
	admin := newClient(t, router)
	admin.register("alice")

	user := newClient(t, router)
	userID := user.register("bob")

	expectOK(t, admin.send(OpUserModify, map[string]any{"id": userID, "role": 0}))
	isAdmin, err := gateway.IsAdministrator(context.Background(), userID)
	if err != nil {
		t.Fatalf("IsAdministrator() error = %v", err)
	}
	if !isAdmin {
		t.Errorf("promoted account is not administrator")
	}
}

func TestPrivilegeRevocationTakesEffectMidSession(t *testing.T) {
	router, _ := newTestRouter(t)
	admin := newClient(t, router)
	adminID := admin.register("alice")

	// The admin demotes itself. The session snapshot still says
	// administrator, but every later privileged decision re-reads the store.
	expectOK(t, admin.send(OpUserModify, map[string]any{"id": adminID, "role": 6}))

	frame := admin.send(OpRegionCreate, map[string]any{
		"name":      "north",
		"frequency": 170000,
	})
	expectFailure(t, frame, "administrator role required")
}

func TestListAccounts(t *testing.T) {
	router, _ := newTestRouter(t)
	admin := newClient(t, router)
	admin.register("alice")

	user := newClient(t, router)
	user.register("bob")

	expectFailure(t, user.send(OpUserList, nil), "administrator role required")

	views := decodeAs[[]accountView](t, admin.send(OpUserList, nil))
	if len(views) != 2 {
		t.Fatalf("got %d accounts, want 2", len(views))
	}
	if views[0].Name != "alice" || views[1].Name != "bob" {
		t.Errorf("account order = %q, %q", views[0].Name, views[1].Name)
	}
	if views[0].Role != 0 || views[1].Role != 6 {
		t.Errorf("roles = %d, %d, want 0, 6", views[0].Role, views[1].Role)
	}
}

func (c *client) createRegion(name string) int64 {
	c.t.Helper()
	expectOK(c.t, c.send(OpRegionCreate, map[string]any{
		"name":              name,
		"transport_company": "Stadtwerke",
		"frequency":         170795000,
		"protocol":          "R09.16",
	}))
	views := decodeAs[[]regionView](c.t, c.send(OpRegionList, nil))
	for _, view := range views {
		if view.Name == name {
			return view.ID
		}
	}
	c.t.Fatalf("region %q not listed after creation", name)
	return 0
}

func TestRegionLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)
	admin := newClient(t, router)
	admin.register("alice")

	user := newClient(t, router)
	user.register("bob")

	frame := user.send(OpRegionCreate, map[string]any{"name": "north", "frequency": 1})
	expectFailure(t, frame, "administrator role required")

	id := admin.createRegion("north")
	if id != 1 {
		t.Errorf("first region id = %d, want 1", id)
	}

	expectFailure(t, admin.send(OpRegionCreate, map[string]any{"name": "", "frequency": 1}), "name required")
	expectFailure(t, admin.send(OpRegionCreate, map[string]any{"name": "south", "frequency": 0}), "frequency must be positive")

	expectOK(t, admin.send(OpRegionModify, map[string]any{"id": id, "frequency": 150000000}))
	expectFailure(t, admin.send(OpRegionModify, map[string]any{"id": id, "frequency": -5}), "frequency must be positive")
	expectFailure(t, admin.send(OpRegionModify, map[string]any{"id": int64(99)}), "region not found")

	// Listing is public: no session required.
	anonymous := newClient(t, router)
	views := decodeAs[[]regionView](t, anonymous.send(OpRegionList, nil))
	if len(views) != 1 {
		t.Fatalf("got %d regions, want 1", len(views))
	}
	if views[0].Frequency != 150000000 {
		t.Errorf("frequency = %d, want 150000000", views[0].Frequency)
	}

	expectFailure(t, admin.send(OpRegionDelete, map[string]any{"id": int64(99)}), "region not found")
	expectOK(t, admin.send(OpRegionDelete, map[string]any{"id": id}))
	views = decodeAs[[]regionView](t, anonymous.send(OpRegionList, nil))
	if len(views) != 0 {
		t.Errorf("got %d regions after delete, want 0", len(views))
	}
}

func TestCreateStation(t *testing.T) {
	router, _ := newTestRouter(t)
	admin := newClient(t, router)
	adminID := admin.register("alice")
	region := admin.createRegion("north")

	// The referenced region must exist first.
	frame := admin.send(OpStationCreate, map[string]any{
		"name": "hbf", "lat": 51.0, "lon": 13.7, "region": int64(99),
	})
	expectFailure(t, frame, "region does not exist")

	expectFailure(t, admin.send(OpStationCreate, map[string]any{
		"name": "", "lat": 0, "lon": 0, "region": region,
	}), "name required")
	expectFailure(t, admin.send(OpStationCreate, map[string]any{
		"name": "hbf", "lat": 91.0, "lon": 0, "region": region,
	}), "invalid coordinates")

	view := decodeAs[stationView](t, admin.send(OpStationCreate, map[string]any{
		"name": "hbf", "lat": 51.04, "lon": 13.73, "region": region,
	}))
	if view.ID == "" {
		t.Fatalf("station id empty")
	}
	if len(view.Token) != 32 {
		t.Errorf("token length = %d, want 32", len(view.Token))
	}
	if view.Owner != adminID {
		t.Errorf("owner = %q, want %q", view.Owner, adminID)
	}
	if view.Approved {
		t.Errorf("new station is approved")
	}
}

func TestListStationsNeverLeaksTokens(t *testing.T) {
	router, _ := newTestRouter(t)
	admin := newClient(t, router)
	admin.register("alice")
	region := admin.createRegion("north")

	user := newClient(t, router)
	userID := user.register("bob")

	admin.send(OpStationCreate, map[string]any{"name": "hbf", "lat": 51.0, "lon": 13.7, "region": region})
	user.send(OpStationCreate, map[string]any{"name": "neustadt", "lat": 51.1, "lon": 13.7, "region": region})

	anonymous := newClient(t, router)
	views := decodeAs[[]stationView](t, anonymous.send(OpStationList, nil))
	if len(views) != 2 {
		t.Fatalf("got %d stations, want 2", len(views))
	}
	for _, view := range views {
		if view.Token != "" {
			t.Errorf("listing leaked token for %q", view.Name)
		}
	}

	// Owner filter.
	views = decodeAs[[]stationView](t, anonymous.send(OpStationList, map[string]any{"owner": userID}))
	if len(views) != 1 || views[0].Owner != userID {
		t.Fatalf("owner filter returned %+v", views)
	}

	// Region filter with no match.
	views = decodeAs[[]stationView](t, anonymous.send(OpStationList, map[string]any{"region": int64(99)}))
	if len(views) != 0 {
		t.Errorf("got %d stations for unknown region, want 0", len(views))
	}
}

func TestModifyStationResetsApproval(t *testing.T) {
	router, gateway := newTestRouter(t)
	admin := newClient(t, router)
	admin.register("alice")
	region := admin.createRegion("north")

	user := newClient(t, router)
	user.register("bob")
	view := decodeAs[stationView](t, user.send(OpStationCreate, map[string]any{
		"name": "hbf", "lat": 51.0, "lon": 13.7, "region": region,
	}))

	expectOK(t, admin.send(OpStationApprove, map[string]any{"id": view.ID, "approved": true}))

	// An owner edit drops the station back out of the approved set.
	expectOK(t, user.send(OpStationModify, map[string]any{"id": view.ID, "name": "hauptbahnhof"}))
	station, err := gateway.StationByID(context.Background(), view.ID)
	if err != nil {
		t.Fatalf("StationByID() error = %v", err)
	}
	if station.Approved {
		t.Errorf("station still approved after owner edit")
	}
	if station.Name != "hauptbahnhof" {
		t.Errorf("name = %q, want %q", station.Name, "hauptbahnhof")
	}

	// An admin edit keeps it approved.
	expectOK(t, admin.send(OpStationApprove, map[string]any{"id": view.ID, "approved": true}))
	expectOK(t, admin.send(OpStationModify, map[string]any{"id": view.ID, "lat": 51.05}))
	station, err = gateway.StationByID(context.Background(), view.ID)
	if err != nil {
		t.Fatalf("StationByID() error = %v", err)
	}
	if !station.Approved {
		t.Errorf("station unapproved after admin edit")
	}
}

func TestModifyStationApprovalResetDisabled(t *testing.T) {
	router, gateway := newTestRouter(t)
	WithApprovalReset(false)(router)

	admin := newClient(t, router)
	admin.register("alice")
	region := admin.createRegion("north")

	user := newClient(t, router)
	user.register("bob")
	view := decodeAs[stationView](t, user.send(OpStationCreate, map[string]any{
		"name": "hbf", "lat": 51.0, "lon": 13.7, "region": region,
	}))

	expectOK(t, admin.send(OpStationApprove, map[string]any{"id": view.ID, "approved": true}))
	expectOK(t, user.send(OpStationModify, map[string]any{"id": view.ID, "name": "hauptbahnhof"}))

	station, err := gateway.StationByID(context.Background(), view.ID)
	if err != nil {
		t.Fatalf("StationByID() error = %v", err)
	}
	if !station.Approved {
		t.Errorf("approval reset fired although disabled")
	}
}

func TestModifyStationOwnership(t *testing.T) {
	router, gateway := newTestRouter(t)
	admin := newClient(t, router)
	admin.register("alice")
	region := admin.createRegion("north")

	owner := newClient(t, router)
	ownerID := owner.register("bob")
	view := decodeAs[stationView](t, owner.send(OpStationCreate, map[string]any{
		"name": "hbf", "lat": 51.0, "lon": 13.7, "region": region,
	}))

	stranger := newClient(t, router)
	stranger.register("carol")
	expectFailure(t, stranger.send(OpStationModify, map[string]any{"id": view.ID, "name": "mine"}), "not the owner")
	expectFailure(t, stranger.send(OpStationDelete, map[string]any{"id": view.ID}), "not the owner")
	expectFailure(t, stranger.send(OpStationToken, map[string]any{"id": view.ID}), "not the owner")
	expectFailure(t, stranger.send(OpStationApprove, map[string]any{"id": view.ID, "approved": true}), "administrator role required")

	expectFailure(t, owner.send(OpStationModify, map[string]any{"id": "missing"}), "station not found")
	expectFailure(t, owner.send(OpStationModify, map[string]any{"id": view.ID, "lat": 200.0}), "invalid coordinates")
	expectFailure(t, owner.send(OpStationModify, map[string]any{"id": view.ID, "region": int64(99)}), "region does not exist")

	// Owner and token survive any modify.
	station, err := gateway.StationByID(context.Background(), view.ID)
	if err != nil {
		t.Fatalf("StationByID() error = %v", err)
	}
	if station.Owner != ownerID {
		t.Errorf("owner = %q, want %q", station.Owner, ownerID)
	}
	if station.Token != view.Token {
		t.Errorf("token changed by modify")
	}
}

func TestGenerateToken(t *testing.T) {
	router, gateway := newTestRouter(t)
	admin := newClient(t, router)
	admin.register("alice")
	region := admin.createRegion("north")

	owner := newClient(t, router)
	owner.register("bob")
	view := decodeAs[stationView](t, owner.send(OpStationCreate, map[string]any{
		"name": "hbf", "lat": 51.0, "lon": 13.7, "region": region,
	}))

	resp := decodeAs[tokenResponse](t, owner.send(OpStationToken, map[string]any{"id": view.ID}))
	if !resp.Success {
		t.Fatalf("generate token failed")
	}
	if len(resp.Token) != 32 {
		t.Errorf("token length = %d, want 32", len(resp.Token))
	}
	if resp.Token == view.Token {
		t.Errorf("reissued token equals the original")
	}

	station, err := gateway.StationByID(context.Background(), view.ID)
	if err != nil {
		t.Fatalf("StationByID() error = %v", err)
	}
	if station.Token != resp.Token {
		t.Errorf("persisted token = %q, want %q", station.Token, resp.Token)
	}
}

func TestDeleteStation(t *testing.T) {
	router, gateway := newTestRouter(t)
	admin := newClient(t, router)
	admin.register("alice")
	region := admin.createRegion("north")

	owner := newClient(t, router)
	owner.register("bob")
	view := decodeAs[stationView](t, owner.send(OpStationCreate, map[string]any{
		"name": "hbf", "lat": 51.0, "lon": 13.7, "region": region,
	}))

	expectOK(t, admin.send(OpStationDelete, map[string]any{"id": view.ID}))
	station, err := gateway.StationByID(context.Background(), view.ID)
	if err != nil {
		t.Fatalf("StationByID() error = %v", err)
	}
	if station != nil {
		t.Errorf("station still present after delete")
	}
	expectFailure(t, admin.send(OpStationDelete, map[string]any{"id": view.ID}), "station not found")
}

func TestConcurrentRegistrationsYieldOneAdministrator(t *testing.T) {
	router, gateway := newTestRouter(t)

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			c := newClient(t, router)
			c.trySend(OpUserRegister, map[string]any{
				"name":     fmt.Sprintf("user-%02d", i),
				"email":    fmt.Sprintf("user-%02d@example.com", i),
				"password": "hunter22",
			})
		}(i)
	}
	wg.Wait()

	accounts, err := gateway.ListAccounts(context.Background())
	if err != nil {
		t.Fatalf("ListAccounts() error = %v", err)
	}
	if len(accounts) != n {
		t.Fatalf("got %d accounts, want %d", len(accounts), n)
	}
	admins := 0
	for _, account := range accounts {
		if account.IsAdmin() {
			admins++
		}
	}
	if admins != 1 {
		t.Errorf("got %d administrators, want exactly 1", admins)
	}
}

func TestConcurrentStationCreation(t *testing.T) {
	router, gateway := newTestRouter(t)
	admin := newClient(t, router)
	admin.register("alice")
	region := admin.createRegion("north")

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			c := newClient(t, router)
			c.trySend(OpUserRegister, map[string]any{
				"name":     fmt.Sprintf("owner-%02d", i),
				"email":    fmt.Sprintf("owner-%02d@example.com", i),
				"password": "hunter22",
			})
			c.trySend(OpStationCreate, map[string]any{
				"name": fmt.Sprintf("station-%02d", i), "lat": 51.0, "lon": 13.7, "region": region,
			})
		}(i)
	}
	wg.Wait()

	stations, err := gateway.ListStations(context.Background(), registry.StationFilter{})
	if err != nil {
		t.Fatalf("ListStations() error = %v", err)
	}
	if len(stations) != n {
		t.Fatalf("got %d stations, want %d", len(stations), n)
	}
	ids := make(map[string]struct{}, n)
	for _, station := range stations {
		if _, dup := ids[station.ID]; dup {
			t.Errorf("duplicate station id %q", station.ID)
		}
		ids[station.ID] = struct{}{}
	}
}
