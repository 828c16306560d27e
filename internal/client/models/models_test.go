package models

import (
	"encoding/json"
	"testing"

	"github.com/dmitrijs2005/marketsupervisor/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalNumberAndString(t *testing.T) {
	var c Cron
	require.NoError(t, json.Unmarshal([]byte(`{"id":42,"companyId":"abc-1"}`), &c))
	assert.Equal(t, ID("42"), c.ID)
	assert.Equal(t, ID("abc-1"), c.CompanyID)

	require.NoError(t, json.Unmarshal([]byte(`{"id":null,"companyId":7}`), &c))
	assert.True(t, c.ID.IsZero())
	assert.Equal(t, ID("7"), c.CompanyID)
}

func TestID_MarshalKeepsNumericShape(t *testing.T) {
	tests := []struct {
		id   ID
		want string
	}{
		{"42", `42`},
		{"0", `0`},
		{"007", `"007"`},
		{"6f1c", `"6f1c"`},
		{"", `null`},
	}
	for _, tt := range tests {
		b, err := json.Marshal(tt.id)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(b), "id %q", tt.id)
	}
}

func TestID_MapKeyRoundTrip(t *testing.T) {
	in := map[ID][]Cron{"1": {{ID: "10", CompanyID: "1", Name: "x", Tags: []string{"a"}}}}
	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out map[ID][]Cron
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}

func TestCronInput_Validate(t *testing.T) {
	in := CronInput{CompanyID: "1", Name: "  Tenders ", Tags: []string{" btp", "", "btp", "togo "}}
	require.NoError(t, in.Validate())
	assert.Equal(t, "Tenders", in.Name)
	assert.Equal(t, []string{"btp", "togo"}, in.Tags)

	noTags := CronInput{CompanyID: "1", Name: "x", Tags: []string{" ", ""}}
	require.ErrorIs(t, noTags.Validate(), common.ErrValidation)

	noName := CronInput{CompanyID: "1", Tags: []string{"a"}}
	require.ErrorIs(t, noName.Validate(), common.ErrValidation)

	noCompany := CronInput{Name: "x", Tags: []string{"a"}}
	require.ErrorIs(t, noCompany.Validate(), common.ErrValidation)
}

func TestLoginResponse_Principal(t *testing.T) {
	var r LoginResponse
	require.NoError(t, json.Unmarshal([]byte(`{"company":{"id":1,"email":"a@b.c"},"accessToken":"T"}`), &r))
	require.NotNil(t, r.Principal())
	assert.Equal(t, ID("1"), r.Principal().ID)

	r = LoginResponse{User: &User{ID: "9", Role: "admin"}}
	assert.True(t, r.Principal().IsAdmin())
}

func TestUser_KeepsUnknownAttributes(t *testing.T) {
	body := `{"id":1,"name":"Tech","email":"a@b.c","telephone":"+228","website":"https://t.tg","isActive":true,"createdAt":"2024-01-15"}`
	var u User
	require.NoError(t, json.Unmarshal([]byte(body), &u))
	assert.Equal(t, ID("1"), u.ID)
	assert.Equal(t, "Tech", u.Name)
	assert.Len(t, u.Extra, 4)
	_, typedKept := u.Attr("email")
	assert.False(t, typedKept, "typed fields are not duplicated in Extra")

	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, body, string(out))

	clone := u.Clone()
	clone.Extra["website"] = json.RawMessage(`"x"`)
	web, _ := u.Attr("website")
	assert.JSONEq(t, `"https://t.tg"`, string(web))
}

func TestUser_TypedFieldWinsOverExtra(t *testing.T) {
	u := User{ID: "2", Email: "b@c.d", Extra: map[string]json.RawMessage{"email": json.RawMessage(`"old"`)}}
	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":2,"email":"b@c.d"}`, string(out))
}

func TestTokenResponse_Value(t *testing.T) {
	assert.Equal(t, "a", TokenResponse{Token: "a", AccessToken: "b"}.Value())
	assert.Equal(t, "b", TokenResponse{AccessToken: "b"}.Value())
}
