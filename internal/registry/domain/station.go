package registry

import (
	"context"
	"fmt"
)

// Station is a receiver station registered by an account. The bearer token
// is issued by the server, never user-supplied, and is only ever shown to
// the station's creator or on an explicit token reissue.
type Station struct {
	ID       string
	Token    string
	Name     string
	Lat      float64
	Lon      float64
	Region   int64
	Owner    string
	Approved bool
}

// Validate checks station invariants.
func (s Station) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: station id", ErrValidation)
	}
	if s.Name == "" {
		return fmt.Errorf("%w: station name", ErrValidation)
	}
	if s.Owner == "" {
		return fmt.Errorf("%w: station owner", ErrValidation)
	}
	return ValidCoordinates(s.Lat, s.Lon)
}

// ValidCoordinates bounds-checks a geographic position.
func ValidCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude out of range", ErrValidation)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("%w: longitude out of range", ErrValidation)
	}
	return nil
}

// StationFilter narrows a station listing. Zero values mean no filter;
// region serials start at 1 so zero is never a real region.
type StationFilter struct {
	Owner  string
	Region int64
}

// StationRepository manages station persistence. Listing never returns
// bearer tokens.
type StationRepository interface {
	Create(ctx context.Context, station *Station) error
	ByID(ctx context.Context, id string) (*Station, error)
	Update(ctx context.Context, station *Station) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter StationFilter) ([]Station, error)
	SetApproved(ctx context.Context, id string, approved bool) error
	SetToken(ctx context.Context, id string, token string) error
}
