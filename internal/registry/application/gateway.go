// Package application wires the domain repositories behind the Gateway, the
// single serialization point shared by every connection.
package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"transit-registry/internal/observability/metrics"
	registry "transit-registry/internal/registry/domain"
)

// Gateway is the sole mutually-exclusive access point to persisted
// accounts, regions and stations. The lock is held for exactly one
// repository call and never across a transport write, so at most one store
// operation executes at a time system-wide. Invariants that depend on a
// total order over store operations (first account becomes administrator,
// distinct tokens under concurrent creation) rely on this.
type Gateway struct {
	mu       sync.Mutex
	accounts registry.AccountRepository
	regions  registry.RegionRepository
	stations registry.StationRepository
}

// NewGateway constructs a gateway.
func NewGateway(accounts registry.AccountRepository, regions registry.RegionRepository, stations registry.StationRepository) (*Gateway, error) {
	if accounts == nil || regions == nil || stations == nil {
		return nil, errors.New("gateway: nil repository")
	}
	return &Gateway{accounts: accounts, regions: regions, stations: stations}, nil
}

func (g *Gateway) locked(op string, fn func() error) error {
	g.mu.Lock()
	start := time.Now()
	err := fn()
	g.mu.Unlock()
	metrics.ObserveStoreOp(op, err == nil, time.Since(start).Seconds())
	return err
}

// RegisterAccount creates an account, granting the administrator role when
// the table is empty. The emptiness check and the insert happen under one
// lock acquisition; exactly one of any set of concurrent registrations can
// observe the empty table.
func (g *Gateway) RegisterAccount(ctx context.Context, account *registry.Account) error {
	return g.locked("account_register", func() error {
		empty, err := g.accounts.Empty(ctx)
		if err != nil {
			return err
		}
		if empty {
			account.Role = registry.RoleAdministrator
		} else {
			account.Role = registry.RoleUser
		}
		return g.accounts.Create(ctx, account)
	})
}

// AccountByID loads an account, nil when absent.
func (g *Gateway) AccountByID(ctx context.Context, id string) (account *registry.Account, err error) {
	err = g.locked("account_by_id", func() error {
		account, err = g.accounts.ByID(ctx, id)
		return err
	})
	return account, err
}

// AccountByName loads an account by display name, nil when absent.
func (g *Gateway) AccountByName(ctx context.Context, name string) (account *registry.Account, err error) {
	err = g.locked("account_by_name", func() error {
		account, err = g.accounts.ByName(ctx, name)
		return err
	})
	return account, err
}

// AccountExists reports whether the display name is taken.
func (g *Gateway) AccountExists(ctx context.Context, name string) (exists bool, err error) {
	err = g.locked("account_exists", func() error {
		exists, err = g.accounts.Exists(ctx, name)
		return err
	})
	return exists, err
}

// IsAdministrator reports the current persisted role of an account. Guards
// call this at decision time instead of trusting the session snapshot.
func (g *Gateway) IsAdministrator(ctx context.Context, id string) (bool, error) {
	account, err := g.AccountByID(ctx, id)
	if err != nil {
		return false, err
	}
	return account != nil && account.IsAdmin(), nil
}

// UpdateAccount replaces the mutable account fields.
func (g *Gateway) UpdateAccount(ctx context.Context, account *registry.Account) error {
	return g.locked("account_update", func() error {
		return g.accounts.Update(ctx, account)
	})
}

// DeleteAccount removes an account.
func (g *Gateway) DeleteAccount(ctx context.Context, id string) error {
	return g.locked("account_delete", func() error {
		return g.accounts.Delete(ctx, id)
	})
}

// ListAccounts returns all accounts without password hashes.
func (g *Gateway) ListAccounts(ctx context.Context) (accounts []registry.Account, err error) {
	err = g.locked("account_list", func() error {
		accounts, err = g.accounts.List(ctx)
		return err
	})
	return accounts, err
}

// CreateRegion inserts a region and assigns its id.
func (g *Gateway) CreateRegion(ctx context.Context, region *registry.Region) error {
	return g.locked("region_create", func() error {
		return g.regions.Create(ctx, region)
	})
}

// RegionByID loads a region, nil when absent.
func (g *Gateway) RegionByID(ctx context.Context, id int64) (region *registry.Region, err error) {
	err = g.locked("region_by_id", func() error {
		region, err = g.regions.ByID(ctx, id)
		return err
	})
	return region, err
}

// RegionExists reports whether the region id is assigned.
func (g *Gateway) RegionExists(ctx context.Context, id int64) (exists bool, err error) {
	err = g.locked("region_exists", func() error {
		exists, err = g.regions.Exists(ctx, id)
		return err
	})
	return exists, err
}

// UpdateRegion replaces the region fields.
func (g *Gateway) UpdateRegion(ctx context.Context, region *registry.Region) error {
	return g.locked("region_update", func() error {
		return g.regions.Update(ctx, region)
	})
}

// DeleteRegion removes a region.
func (g *Gateway) DeleteRegion(ctx context.Context, id int64) error {
	return g.locked("region_delete", func() error {
		return g.regions.Delete(ctx, id)
	})
}

// ListRegions returns all regions.
func (g *Gateway) ListRegions(ctx context.Context) (regions []registry.Region, err error) {
	err = g.locked("region_list", func() error {
		regions, err = g.regions.List(ctx)
		return err
	})
	return regions, err
}

// CreateStation inserts a station.
func (g *Gateway) CreateStation(ctx context.Context, station *registry.Station) error {
	return g.locked("station_create", func() error {
		return g.stations.Create(ctx, station)
	})
}

// StationByID loads a station including its token, nil when absent.
func (g *Gateway) StationByID(ctx context.Context, id string) (station *registry.Station, err error) {
	err = g.locked("station_by_id", func() error {
		station, err = g.stations.ByID(ctx, id)
		return err
	})
	return station, err
}

// UpdateStation replaces the mutable station fields.
func (g *Gateway) UpdateStation(ctx context.Context, station *registry.Station) error {
	return g.locked("station_update", func() error {
		return g.stations.Update(ctx, station)
	})
}

// DeleteStation removes a station.
func (g *Gateway) DeleteStation(ctx context.Context, id string) error {
	return g.locked("station_delete", func() error {
		return g.stations.Delete(ctx, id)
	})
}

// ListStations returns stations matching the filter, without tokens.
func (g *Gateway) ListStations(ctx context.Context, filter registry.StationFilter) (stations []registry.Station, err error) {
	err = g.locked("station_list", func() error {
		stations, err = g.stations.List(ctx, filter)
		return err
	})
	return stations, err
}

// SetStationApproved flips the approval flag.
func (g *Gateway) SetStationApproved(ctx context.Context, id string, approved bool) error {
	return g.locked("station_approve", func() error {
		return g.stations.SetApproved(ctx, id, approved)
	})
}

// SetStationToken stores a freshly issued bearer token.
func (g *Gateway) SetStationToken(ctx context.Context, id string, token string) error {
	return g.locked("station_token", func() error {
		return g.stations.SetToken(ctx, id, token)
	})
}
