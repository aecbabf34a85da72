// Package memory provides map-backed repositories used by tests and local
// runs without a Postgres instance.
package memory

import (
	"context"
	"sort"
	"sync"

	registry "transit-registry/internal/registry/domain"
)

// AccountRepository is an in-memory repository for accounts.
type AccountRepository struct {
	mu   sync.RWMutex
	data map[string]registry.Account
}

// NewAccountRepository constructs a repository.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{data: make(map[string]registry.Account)}
}

// Create inserts an account.
func (r *AccountRepository) Create(ctx context.Context, account *registry.Account) error {
	_ = ctx
	if err := account.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	r.data[account.ID] = *account
	r.mu.Unlock()
	return nil
}

// ByID loads an account by id, nil when absent.
func (r *AccountRepository) ByID(ctx context.Context, id string) (*registry.Account, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	if account, ok := r.data[id]; ok {
		return &account, nil
	}
	return nil, nil
}

// ByName loads an account by display name, nil when absent.
func (r *AccountRepository) ByName(ctx context.Context, name string) (*registry.Account, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, account := range r.data {
		if account.Name == name {
			account := account
			return &account, nil
		}
	}
	return nil, nil
}

// Exists reports whether the display name is taken.
func (r *AccountRepository) Exists(ctx context.Context, name string) (bool, error) {
	account, err := r.ByName(ctx, name)
	return account != nil, err
}

// Empty reports whether no account is registered.
func (r *AccountRepository) Empty(ctx context.Context) (bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data) == 0, nil
}

// Update replaces an account.
func (r *AccountRepository) Update(ctx context.Context, account *registry.Account) error {
	_ = ctx
	if err := account.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	r.data[account.ID] = *account
	r.mu.Unlock()
	return nil
}

// Delete removes an account.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	_ = ctx
	r.mu.Lock()
	delete(r.data, id)
	r.mu.Unlock()
	return nil
}

// List returns all accounts ordered by name, without password hashes.
func (r *AccountRepository) List(ctx context.Context) ([]registry.Account, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	accounts := make([]registry.Account, 0, len(r.data))
	for _, account := range r.data {
		account.PasswordHash = ""
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	return accounts, nil
}

// RegionRepository is an in-memory repository for regions.
type RegionRepository struct {
	mu   sync.RWMutex
	next int64
	data map[int64]registry.Region
}

// NewRegionRepository constructs a repository.
func NewRegionRepository() *RegionRepository {
	return &RegionRepository{next: 1, data: make(map[int64]registry.Region)}
}

// Create inserts a region and assigns the next serial id.
func (r *RegionRepository) Create(ctx context.Context, region *registry.Region) error {
	_ = ctx
	if err := region.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	region.ID = r.next
	r.next++
	r.data[region.ID] = *region
	r.mu.Unlock()
	return nil
}

// ByID loads a region, nil when absent.
func (r *RegionRepository) ByID(ctx context.Context, id int64) (*registry.Region, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	if region, ok := r.data[id]; ok {
		return &region, nil
	}
	return nil, nil
}

// Exists reports whether the region id is assigned.
func (r *RegionRepository) Exists(ctx context.Context, id int64) (bool, error) {
	region, err := r.ByID(ctx, id)
	return region != nil, err
}

// Update replaces a region.
func (r *RegionRepository) Update(ctx context.Context, region *registry.Region) error {
	_ = ctx
	if err := region.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	r.data[region.ID] = *region
	r.mu.Unlock()
	return nil
}

// Delete removes a region.
func (r *RegionRepository) Delete(ctx context.Context, id int64) error {
	_ = ctx
	r.mu.Lock()
	delete(r.data, id)
	r.mu.Unlock()
	return nil
}

// List returns all regions ordered by id.
func (r *RegionRepository) List(ctx context.Context) ([]registry.Region, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	regions := make([]registry.Region, 0, len(r.data))
	for _, region := range r.data {
		regions = append(regions, region)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].ID < regions[j].ID })
	return regions, nil
}

// StationRepository is an in-memory repository for stations.
type StationRepository struct {
	mu   sync.RWMutex
	data map[string]registry.Station
}

// NewStationRepository constructs a repository.
func NewStationRepository() *StationRepository {
	return &StationRepository{data: make(map[string]registry.Station)}
}

// Create inserts a station.
func (r *StationRepository) Create(ctx context.Context, station *registry.Station) error {
	_ = ctx
	if err := station.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	r.data[station.ID] = *station
	r.mu.Unlock()
	return nil
}

// ByID loads a station including its token, nil when absent.
func (r *StationRepository) ByID(ctx context.Context, id string) (*registry.Station, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	if station, ok := r.data[id]; ok {
		return &station, nil
	}
	return nil, nil
}

// Update replaces the mutable station fields, keeping owner and token.
func (r *StationRepository) Update(ctx context.Context, station *registry.Station) error {
	_ = ctx
	if err := station.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.data[station.ID]
	if !ok {
		return nil
	}
	current.Name = station.Name
	current.Lat = station.Lat
	current.Lon = station.Lon
	current.Region = station.Region
	current.Approved = station.Approved
	r.data[station.ID] = current
	return nil
}

// Delete removes a station.
func (r *StationRepository) Delete(ctx context.Context, id string) error {
	_ = ctx
	r.mu.Lock()
	delete(r.data, id)
	r.mu.Unlock()
	return nil
}

// List returns stations matching the filter, without tokens, ordered by name.
func (r *StationRepository) List(ctx context.Context, filter registry.StationFilter) ([]registry.Station, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var stations []registry.Station
	for _, station := range r.data {
		if filter.Owner != "" && station.Owner != filter.Owner {
			continue
		}
		if filter.Region != 0 && station.Region != filter.Region {
			continue
		}
		station.Token = ""
		stations = append(stations, station)
	}
	sort.Slice(stations, func(i, j int) bool { return stations[i].Name < stations[j].Name })
	return stations, nil
}

// SetApproved flips the approval flag.
func (r *StationRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if station, ok := r.data[id]; ok {
		station.Approved = approved
		r.data[id] = station
	}
	return nil
}

// SetToken stores a freshly issued bearer token.
func (r *StationRepository) SetToken(ctx context.Context, id string, token string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if station, ok := r.data[id]; ok {
		station.Token = token
		r.data[id] = station
	}
	return nil
}
