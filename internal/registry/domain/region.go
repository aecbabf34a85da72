package registry

import (
	"context"
	"fmt"
)

// Region is a broadcast region operated by a transport company. Regions are
// addressed by a small serial identifier and exist before any station may
// reference them.
type Region struct {
	ID               int64
	Name             string
	TransportCompany string
	Frequency        int64
	Protocol         string
}

// Validate checks region invariants.
func (r Region) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: region name", ErrValidation)
	}
	if r.Frequency <= 0 {
		return fmt.Errorf("%w: region frequency must be positive", ErrValidation)
	}
	return nil
}

// RegionRepository manages region persistence. Create assigns the serial id
// to the passed region.
type RegionRepository interface {
	Create(ctx context.Context, region *Region) error
	ByID(ctx context.Context, id int64) (*Region, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, region *Region) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]Region, error)
}
