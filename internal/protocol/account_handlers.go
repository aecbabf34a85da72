package protocol

import (
	"context"

	"github.com/google/uuid"

	"transit-registry/internal/audit"
	registry "transit-registry/internal/registry/domain"
)

// loginFailure is shared by the unknown-name and wrong-password paths so
// both produce bit-identical responses.
var loginFailure = serviceResponse{Success: false, Message: "invalid credentials"}

func (r *Router) register(ctx context.Context, s *Session, req registerRequest) {
	if !registry.ValidEmail(req.Email) {
		// Invalid email drops the request without a response. Documented
		// wire contract, kept observable through the log and frame metrics.
		r.logger.Printf("register: invalid email rejected")
		return
	}
	if req.Name == "" || req.Password == "" {
		r.fail(s, "name and password required")
		return
	}

	// Duplicate display name is rejected before any password work.
	exists, err := r.gateway.AccountExists(ctx, req.Name)
	if err != nil {
		r.failStore(s, OpUserRegister, err)
		return
	}
	if exists {
		r.fail(s, "name already taken")
		return
	}

	hash, err := r.hasher.Hash(req.Password)
	if err != nil {
		r.logger.Printf("register: hash: %v", err)
		r.fail(s, "registration failed")
		return
	}

	account := &registry.Account{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	// The gateway assigns the role under its lock: the very first account
	// becomes administrator, every later one a regular user.
	if err := r.gateway.RegisterAccount(ctx, account); err != nil {
		r.failStore(s, OpUserRegister, err)
		return
	}

	s.authenticate(account)
	r.send(s, identityResponse{Success: true, ID: account.ID})
}

func (r *Router) login(ctx context.Context, s *Session, req loginRequest) {
	account, err := r.gateway.AccountByName(ctx, req.Name)
	if err != nil {
		r.failStore(s, OpUserLogin, err)
		return
	}
	if account == nil || !r.hasher.Verify(req.Password, account.PasswordHash) {
		r.send(s, loginFailure)
		return
	}

	s.authenticate(account)
	r.send(s, identityResponse{Success: true, ID: account.ID})
}

func (r *Router) getSession(ctx context.Context, s *Session) {
	_ = ctx
	r.send(s, sessionResponse{ID: s.Account().ID})
}

func (r *Router) deleteAccount(ctx context.Context, s *Session, req accountIDRequest) {
	if req.ID == "" {
		r.fail(s, "id required")
		return
	}
	isAdmin, err := r.freshAdmin(ctx, s)
	if err != nil {
		r.failStore(s, OpUserDelete, err)
		return
	}
	decision := Authorize(AccessSelfOrAdmin, true, s.Account().ID, req.ID, isAdmin)
	if !decision.Allow {
		r.fail(s, decision.Reason)
		return
	}

	target, err := r.gateway.AccountByID(ctx, req.ID)
	if err != nil {
		r.failStore(s, OpUserDelete, err)
		return
	}
	if target == nil {
		r.fail(s, "account not found")
		return
	}
	if err := r.gateway.DeleteAccount(ctx, req.ID); err != nil {
		r.failStore(s, OpUserDelete, err)
		return
	}
	if isAdmin && s.Account().ID != req.ID {
		r.recordAudit(ctx, s, isAdmin, audit.ActionAccountDelete, "account", req.ID, nil)
	}
	r.ok(s)
}

func (r *Router) modifyAccount(ctx context.Context, s *Session, req modifyAccountRequest) {
	if req.ID == "" {
		r.fail(s, "id required")
		return
	}
	target, err := r.gateway.AccountByID(ctx, req.ID)
	if err != nil {
		r.failStore(s, OpUserModify, err)
		return
	}
	if target == nil {
		r.fail(s, "account not found")
		return
	}

	isAdmin, err := r.freshAdmin(ctx, s)
	if err != nil {
		r.failStore(s, OpUserModify, err)
		return
	}
	decision := Authorize(AccessSelfOrAdmin, true, s.Account().ID, req.ID, isAdmin)
	if !decision.Allow {
		r.fail(s, decision.Reason)
		return
	}
	// Role changes are a promotion path: administrator only.
	if req.Role != nil && !isAdmin {
		r.fail(s, "administrator role required")
		return
	}

	if req.Name != nil {
		target.Name = *req.Name
	}
	if req.Email != nil {
		if !registry.ValidEmail(*req.Email) {
			r.fail(s, "invalid email")
			return
		}
		target.Email = *req.Email
	}
	if req.Password != nil {
		hash, err := r.hasher.Hash(*req.Password)
		if err != nil {
			r.logger.Printf("modify account: hash: %v", err)
			r.fail(s, "modification failed")
			return
		}
		target.PasswordHash = hash
	}
	roleChanged := false
	if req.Role != nil {
		newRole := registry.RoleFrom(*req.Role)
		roleChanged = newRole != target.Role
		target.Role = newRole
	}

	if err := r.gateway.UpdateAccount(ctx, target); err != nil {
		r.failStore(s, OpUserModify, err)
		return
	}
	if roleChanged {
		r.recordAudit(ctx, s, isAdmin, audit.ActionAccountModify, "account", req.ID, map[string]any{"role": target.Role.Int()})
	}
	r.ok(s)
}

func (r *Router) listAccounts(ctx context.Context, s *Session) {
	isAdmin, err := r.freshAdmin(ctx, s)
	if err != nil {
		r.failStore(s, OpUserList, err)
		return
	}
	decision := Authorize(AccessAdminOnly, true, s.Account().ID, "", isAdmin)
	if !decision.Allow {
		r.fail(s, decision.Reason)
		return
	}

	accounts, err := r.gateway.ListAccounts(ctx)
	if err != nil {
		r.failStore(s, OpUserList, err)
		return
	}
	views := make([]accountView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, newAccountView(account))
	}
	r.send(s, views)
}
