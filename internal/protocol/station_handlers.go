package protocol

import (
	"context"

	"github.com/google/uuid"

	"transit-registry/internal/audit"
	registry "transit-registry/internal/registry/domain"
)

func (r *Router) createStation(ctx context.Context, s *Session, req createStationRequest) {
	if req.Name == "" {
		r.fail(s, "name required")
		return
	}
	if err := registry.ValidCoordinates(req.Lat, req.Lon); err != nil {
		r.fail(s, "invalid coordinates")
		return
	}

	// The declared region must exist before a station may reference it.
	exists, err := r.gateway.RegionExists(ctx, req.Region)
	if err != nil {
		r.failStore(s, OpStationCreate, err)
		return
	}
	if !exists {
		r.fail(s, "region does not exist")
		return
	}

	station := &registry.Station{
		ID:       uuid.NewString(),
		Token:    r.tokens(),
		Name:     req.Name,
		Lat:      req.Lat,
		Lon:      req.Lon,
		Region:   req.Region,
		Owner:    s.Account().ID,
		Approved: false,
	}
	if err := r.gateway.CreateStation(ctx, station); err != nil {
		r.failStore(s, OpStationCreate, err)
		return
	}

	// The creator is the only caller who ever sees the token here.
	r.send(s, newStationView(*station, true))
}

func (r *Router) listStations(ctx context.Context, s *Session, req listStationsRequest) {
	var filter registry.StationFilter
	if req.Owner != nil {
		filter.Owner = *req.Owner
	}
	if req.Region != nil {
		filter.Region = *req.Region
	}

	stations, err := r.gateway.ListStations(ctx, filter)
	if err != nil {
		r.failStore(s, OpStationList, err)
		return
	}
	views := make([]stationView, 0, len(stations))
	for _, station := range stations {
		views = append(views, newStationView(station, false))
	}
	r.send(s, views)
}

// stationGate loads the station and evaluates the self-or-admin rule
// against its current owner. Returns the station and the fresh admin flag;
// the station is nil when the request was already answered.
func (r *Router) stationGate(ctx context.Context, s *Session, operation, id string) (*registry.Station, bool) {
	station, err := r.gateway.StationByID(ctx, id)
	if err != nil {
		r.failStore(s, operation, err)
		return nil, false
	}
	if station == nil {
		r.fail(s, "station not found")
		return nil, false
	}
	isAdmin, err := r.freshAdmin(ctx, s)
	if err != nil {
		r.failStore(s, operation, err)
		return nil, false
	}
	decision := Authorize(AccessSelfOrAdmin, true, s.Account().ID, station.Owner, isAdmin)
	if !decision.Allow {
		r.fail(s, decision.Reason)
		return nil, false
	}
	return station, isAdmin
}

func (r *Router) deleteStation(ctx context.Context, s *Session, req stationIDRequest) {
	station, isAdmin := r.stationGate(ctx, s, OpStationDelete, req.ID)
	if station == nil {
		return
	}
	if err := r.gateway.DeleteStation(ctx, req.ID); err != nil {
		r.failStore(s, OpStationDelete, err)
		return
	}
	if isAdmin && s.Account().ID != station.Owner {
		r.recordAudit(ctx, s, isAdmin, audit.ActionStationDelete, "station", req.ID, nil)
	}
	r.ok(s)
}

func (r *Router) modifyStation(ctx context.Context, s *Session, req modifyStationRequest) {
	station, isAdmin := r.stationGate(ctx, s, OpStationModify, req.ID)
	if station == nil {
		return
	}

	if req.Name != nil {
		station.Name = *req.Name
	}
	if req.Lat != nil {
		station.Lat = *req.Lat
	}
	if req.Lon != nil {
		station.Lon = *req.Lon
	}
	if err := registry.ValidCoordinates(station.Lat, station.Lon); err != nil {
		r.fail(s, "invalid coordinates")
		return
	}
	if req.Region != nil {
		exists, err := r.gateway.RegionExists(ctx, *req.Region)
		if err != nil {
			r.failStore(s, OpStationModify, err)
			return
		}
		if !exists {
			r.fail(s, "region does not exist")
			return
		}
		station.Region = *req.Region
	}

	// Any edit re-derives approval from the actor's admin status: an admin
	// edit keeps the station approved, a self-edit drops it back into the
	// review queue. Owner and token are untouched.
	if r.approvalResetOnEdit {
		station.Approved = isAdmin
	}

	if err := r.gateway.UpdateStation(ctx, station); err != nil {
		r.failStore(s, OpStationModify, err)
		return
	}
	r.ok(s)
}

func (r *Router) approveStation(ctx context.Context, s *Session, req approveStationRequest) {
	isAdmin, err := r.freshAdmin(ctx, s)
	if err != nil {
		r.failStore(s, OpStationApprove, err)
		return
	}
	decision := Authorize(AccessAdminOnly, true, s.Account().ID, "", isAdmin)
	if !decision.Allow {
		r.fail(s, decision.Reason)
		return
	}

	station, err := r.gateway.StationByID(ctx, req.ID)
	if err != nil {
		r.failStore(s, OpStationApprove, err)
		return
	}
	if station == nil {
		r.fail(s, "station not found")
		return
	}
	if err := r.gateway.SetStationApproved(ctx, req.ID, req.Approved); err != nil {
		r.failStore(s, OpStationApprove, err)
		return
	}
	r.recordAudit(ctx, s, isAdmin, audit.ActionStationApprove, "station", req.ID, map[string]any{"approved": req.Approved})
	r.ok(s)
}

func (r *Router) generateToken(ctx context.Context, s *Session, req stationIDRequest) {
	station, isAdmin := r.stationGate(ctx, s, OpStationToken, req.ID)
	if station == nil {
		return
	}

	token := r.tokens()
	if err := r.gateway.SetStationToken(ctx, req.ID, token); err != nil {
		r.failStore(s, OpStationToken, err)
		return
	}
	if isAdmin && s.Account().ID != station.Owner {
		r.recordAudit(ctx, s, isAdmin, audit.ActionStationToken, "station", req.ID, nil)
	}
	r.send(s, tokenResponse{Success: true, Token: token})
}
