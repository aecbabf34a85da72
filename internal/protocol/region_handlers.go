package protocol

import (
	"context"
	"strconv"

	"transit-registry/internal/audit"
	registry "transit-registry/internal/registry/domain"
)

// adminGate evaluates the admin-only rule with a fresh role lookup.
func (r *Router) adminGate(ctx context.Context, s *Session, operation string) bool {
	isAdmin, err := r.freshAdmin(ctx, s)
	if err != nil {
		r.failStore(s, operation, err)
		return false
	}
	decision := Authorize(AccessAdminOnly, true, s.Account().ID, "", isAdmin)
	if !decision.Allow {
		r.fail(s, decision.Reason)
		return false
	}
	return true
}

func (r *Router) createRegion(ctx context.Context, s *Session, req createRegionRequest) {
	if !r.adminGate(ctx, s, OpRegionCreate) {
		return
	}
	if req.Name == "" {
		r.fail(s, "name required")
		return
	}
	if req.Frequency <= 0 {
		r.fail(s, "frequency must be positive")
		return
	}

	region := &registry.Region{
		Name:             req.Name,
		TransportCompany: req.TransportCompany,
		Frequency:        req.Frequency,
		Protocol:         req.Protocol,
	}
	if err := r.gateway.CreateRegion(ctx, region); err != nil {
		r.failStore(s, OpRegionCreate, err)
		return
	}
	r.recordAudit(ctx, s, true, audit.ActionRegionCreate, "region", strconv.FormatInt(region.ID, 10), req)
	r.ok(s)
}

func (r *Router) modifyRegion(ctx context.Context, s *Session, req modifyRegionRequest) {
	if !r.adminGate(ctx, s, OpRegionModify) {
		return
	}
	region, err := r.gateway.RegionByID(ctx, req.ID)
	if err != nil {
		r.failStore(s, OpRegionModify, err)
		return
	}
	if region == nil {
		r.fail(s, "region not found")
		return
	}

	if req.Name != nil {
		region.Name = *req.Name
	}
	if req.TransportCompany != nil {
		region.TransportCompany = *req.TransportCompany
	}
	if req.Frequency != nil {
		if *req.Frequency <= 0 {
			r.fail(s, "frequency must be positive")
			return
		}
		region.Frequency = *req.Frequency
	}
	if req.Protocol != nil {
		region.Protocol = *req.Protocol
	}

	if err := r.gateway.UpdateRegion(ctx, region); err != nil {
		r.failStore(s, OpRegionModify, err)
		return
	}
	r.recordAudit(ctx, s, true, audit.ActionRegionModify, "region", strconv.FormatInt(req.ID, 10), req)
	r.ok(s)
}

func (r *Router) deleteRegion(ctx context.Context, s *Session, req regionIDRequest) {
	if !r.adminGate(ctx, s, OpRegionDelete) {
		return
	}
	exists, err := r.gateway.RegionExists(ctx, req.ID)
	if err != nil {
		r.failStore(s, OpRegionDelete, err)
		return
	}
	if !exists {
		r.fail(s, "region not found")
		return
	}
	if err := r.gateway.DeleteRegion(ctx, req.ID); err != nil {
		r.failStore(s, OpRegionDelete, err)
		return
	}
	r.recordAudit(ctx, s, true, audit.ActionRegionDelete, "region", strconv.FormatInt(req.ID, 10), nil)
	r.ok(s)
}

func (r *Router) listRegions(ctx context.Context, s *Session) {
	regions, err := r.gateway.ListRegions(ctx)
	if err != nil {
		r.failStore(s, OpRegionList, err)
		return
	}
	views := make([]regionView, 0, len(regions))
	for _, region := range regions {
		views = append(views, newRegionView(region))
	}
	r.send(s, views)
}
