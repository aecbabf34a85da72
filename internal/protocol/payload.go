package protocol

import registry "transit-registry/internal/registry/domain"

// Request payloads. Optional fields are pointers: nil means "keep current"
// under the partial-update semantics.

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type modifyAccountRequest struct {
	ID       string  `json:"id"`
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *int    `json:"role,omitempty"`
}

type accountIDRequest struct {
	ID string `json:"id"`
}

type createStationRequest struct {
	Name   string  `json:"name"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Region int64   `json:"region"`
}

type listStationsRequest struct {
	Owner  *string `json:"owner,omitempty"`
	Region *int64  `json:"region,omitempty"`
}

type stationIDRequest struct {
	ID string `json:"id"`
}

type modifyStationRequest struct {
	ID     string   `json:"id"`
	Name   *string  `json:"name,omitempty"`
	Lat    *float64 `json:"lat,omitempty"`
	Lon    *float64 `json:"lon,omitempty"`
	Region *int64   `json:"region,omitempty"`
}

type approveStationRequest struct {
	ID       string `json:"id"`
	Approved bool   `json:"approved"`
}

type createRegionRequest struct {
	Name             string `json:"name"`
	TransportCompany string `json:"transport_company"`
	Frequency        int64  `json:"frequency"`
	Protocol         string `json:"protocol"`
}

type regionIDRequest struct {
	ID int64 `json:"id"`
}

type modifyRegionRequest struct {
	ID               int64   `json:"id"`
	Name             *string `json:"name,omitempty"`
	TransportCompany *string `json:"transport_company,omitempty"`
	Frequency        *int64  `json:"frequency,omitempty"`
	Protocol         *string `json:"protocol,omitempty"`
}

// Response frames. Acknowledgement operations use serviceResponse; reads
// reply with the bare entity or list.

type serviceResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type identityResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

type sessionResponse struct {
	ID string `json:"id"`
}

type tokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type accountView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  int    `json:"role"`
}

func newAccountView(account registry.Account) accountView {
	return accountView{
		ID:    account.ID,
		Name:  account.Name,
		Email: account.Email,
		Role:  account.Role.Int(),
	}
}

type regionView struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	TransportCompany string `json:"transport_company"`
	Frequency        int64  `json:"frequency"`
	Protocol         string `json:"protocol"`
}

func newRegionView(region registry.Region) regionView {
	return regionView{
		ID:               region.ID,
		Name:             region.Name,
		TransportCompany: region.TransportCompany,
		Frequency:        region.Frequency,
		Protocol:         region.Protocol,
	}
}

type stationView struct {
	ID       string  `json:"id"`
	Token    string  `json:"token,omitempty"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Region   int64   `json:"region"`
	Owner    string  `json:"owner"`
	Approved bool    `json:"approved"`
}

// newStationView renders a station for the wire. The bearer token is only
// included when explicitly requested (creation response to the owner).
func newStationView(station registry.Station, withToken bool) stationView {
	view := stationView{
		ID:       station.ID,
		Name:     station.Name,
		Lat:      station.Lat,
		Lon:      station.Lon,
		Region:   station.Region,
		Owner:    station.Owner,
		Approved: station.Approved,
	}
	if withToken {
		view.Token = station.Token
	}
	return view
}
