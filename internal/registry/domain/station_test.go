package registry

import (
	"errors"
	"testing"
)

func TestValidCoordinates(t *testing.T) {
	tests := []struct {
		name  string
		lat   float64
		lon   float64
		valid bool
	}{
		{"origin", 0, 0, true},
		{"dresden", 51.05, 13.73, true},
		{"lat lower bound", -90, 0, true},
		{"lat upper bound", 90, 0, true},
		{"lon lower bound", 0, -180, true},
		{"lon upper bound", 0, 180, true},
		{"lat too small", -90.01, 0, false},
		{"lat too large", 90.01, 0, false},
		{"lon too small", 0, -180.01, false},
		{"lon too large", 0, 180.01, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidCoordinates(tt.lat, tt.lon)
			if (err == nil) != tt.valid {
				t.Errorf("ValidCoordinates(%v, %v) error = %v, want valid=%t", tt.lat, tt.lon, err, tt.valid)
			}
		})
	}
}

func TestStationValidate(t *testing.T) {
	valid := Station{ID: "id", Name: "hbf", Owner: "owner", Lat: 51, Lon: 13}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	for name, station := range map[string]Station{
		"empty id":    {Name: "hbf", Owner: "owner"},
		"empty name":  {ID: "id", Owner: "owner"},
		"empty owner": {ID: "id", Name: "hbf"},
		"bad lat":     {ID: "id", Name: "hbf", Owner: "owner", Lat: 99},
	} {
		if err := station.Validate(); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: Validate() = %v, want ErrValidation", name, err)
		}
	}
}

func TestRegionValidate(t *testing.T) {
	valid := Region{Name: "north", Frequency: 170795000}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	for name, region := range map[string]Region{
		"empty name":         {Frequency: 1},
		"zero frequency":     {Name: "north"},
		"negative frequency": {Name: "north", Frequency: -1},
	} {
		if err := region.Validate(); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: Validate() = %v, want ErrValidation", name, err)
		}
	}
}
