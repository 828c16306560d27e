package models

// Company is a tenant account. Companies own crons.
type Company struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Telephone string `json:"telephone,omitempty"`
	Country   string `json:"country,omitempty"`
	Sector    string `json:"sector,omitempty"`
	Website   string `json:"website,omitempty"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// CompanyInput is the create payload. Server-managed fields (id, createdAt)
// are not part of it.
type CompanyInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	Telephone string `json:"telephone,omitempty"`
	Country   string `json:"country,omitempty"`
	Sector    string `json:"sector,omitempty"`
	Website   string `json:"website,omitempty"`
}

// CompanyPatch is a partial update; nil fields are not sent.
type CompanyPatch struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Telephone *string `json:"telephone,omitempty"`
	Country   *string `json:"country,omitempty"`
	Sector    *string `json:"sector,omitempty"`
	Website   *string `json:"website,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}
