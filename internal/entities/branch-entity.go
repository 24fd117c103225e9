package entities

import "time"

type BranchAddress struct {
	Line1   string `json:"line1,omitempty"`
	Area    string `json:"area,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
	Country string `json:"country,omitempty"`
}

type Branch struct {
	ID        string
	Name      string
	Address   BranchAddress
	ManagerID *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location renders the "City, State" form used in assignment snapshots
// and credential emails.
func (b Branch) Location() string {
	switch {
	case b.Address.City != "" && b.Address.State != "":
		return b.Address.City + ", " + b.Address.State
	case b.Address.City != "":
		return b.Address.City
	default:
		return b.Address.State
	}
}
