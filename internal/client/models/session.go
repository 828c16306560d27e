package models

import (
	"encoding/json"
	"maps"
)

// User is the authenticated principal as returned by the backend. The store
// treats it as opaque: the typed fields are the ones the client reads, and
// every other attribute of the backend object (a company's telephone,
// website, activation flag and so on) is kept in Extra so it survives a
// persist/restore cycle.
type User struct {
	ID      ID     `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Company string `json:"company,omitempty"`
	Sector  string `json:"sector,omitempty"`
	Country string `json:"country,omitempty"`
	Role    string `json:"role,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var userKeys = []string{"id", "email", "name", "company", "sector", "country", "role"}

// IsAdmin reports whether the user logged in through the admin endpoint.
func (u User) IsAdmin() bool { return u.Role == "admin" }

// Attr returns the raw value of an attribute the typed fields do not cover.
func (u User) Attr(key string) (json.RawMessage, bool) {
	v, ok := u.Extra[key]
	return v, ok
}

func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range userKeys {
		delete(all, k)
	}
	p.Extra = nil
	if len(all) > 0 {
		p.Extra = all
	}
	*u = User(p)
	return nil
}

// MarshalJSON writes the typed fields followed by the extra attributes. A
// typed field always wins over an extra attribute of the same name.
func (u User) MarshalJSON() ([]byte, error) {
	type plain User
	data, err := json.Marshal(plain(u))
	if err != nil || len(u.Extra) == 0 {
		return data, err
	}
	all := maps.Clone(u.Extra)
	for _, k := range userKeys {
		delete(all, k)
	}
	var typed map[string]json.RawMessage
	if err := json.Unmarshal(data, &typed); err != nil {
		return nil, err
	}
	maps.Copy(all, typed)
	return json.Marshal(all)
}

// Clone returns a copy of u that shares no map with it.
func (u User) Clone() User {
	u.Extra = maps.Clone(u.Extra)
	return u
}

// Session is the client's view of who is logged in.
type Session struct {
	IsAuthenticated bool  `json:"isAuthenticated"`
	CurrentUser     *User `json:"currentUser"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the self-service sign-up payload.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Country  string `json:"country,omitempty"`
	Sector   string `json:"sector,omitempty"`
}

// LoginResponse is returned by both login endpoints; company logins fill
// Company, admin logins fill User.
type LoginResponse struct {
	Company     *User  `json:"company,omitempty"`
	User        *User  `json:"user,omitempty"`
	AccessToken string `json:"accessToken"`
}

// Principal returns whichever user object the backend sent.
func (r LoginResponse) Principal() *User {
	if r.Company != nil {
		return r.Company
	}
	return r.User
}

// TokenResponse is returned by the refresh endpoint.
type TokenResponse struct {
	Token       string `json:"token,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
}

// Value returns the refreshed token regardless of the field it came in.
func (r TokenResponse) Value() string {
	if r.Token != "" {
		return r.Token
	}
	return r.AccessToken
}

// Message is the generic `{message}` body of acknowledgement endpoints.
type Message struct {
	Message string `json:"message,omitempty"`
}
