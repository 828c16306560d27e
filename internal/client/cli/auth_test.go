package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
	"github.com/dmitrijs2005/marketsupervisor/internal/mockapi"
)

func stubText(t *testing.T, answers ...string) *[]string {
	t.Helper()
	var prompts []string
	orig := getSimpleText
	getSimpleText = func(_ *bufio.Reader, prompt string, _ io.Writer) (string, error) {
		prompts = append(prompts, prompt)
		if len(answers) == 0 {
			return "", io.EOF
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	t.Cleanup(func() { getSimpleText = orig })
	return &prompts
}

func TestPromptIfEmpty(t *testing.T) {
	prompts := stubText(t, "typed")
	a := &App{out: &bytes.Buffer{}}

	v := "given"
	require.NoError(t, a.promptIfEmpty(&v, "Name"))
	assert.Equal(t, "given", v)
	assert.Empty(t, *prompts)

	v = ""
	require.NoError(t, a.promptIfEmpty(&v, "Name"))
	assert.Equal(t, "typed", v)
	assert.Equal(t, []string{"Name"}, *prompts)

	v = ""
	assert.ErrorIs(t, a.promptIfEmpty(&v, "Again"), io.EOF)
}

func TestReadCredentials(t *testing.T) {
	stubText(t, "bob@x.tg")
	stubPassword(t, "pw")
	a := &App{out: &bytes.Buffer{}}

	creds, err := a.readCredentials("")
	require.NoError(t, err)
	assert.Equal(t, models.Credentials{Email: "bob@x.tg", Password: "pw"}, creds)

	creds, err = a.readCredentials("flag@x.tg")
	require.NoError(t, err)
	assert.Equal(t, "flag@x.tg", creds.Email)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "unknown user", displayName(nil))
	assert.Equal(t, "a@x.tg", displayName(&models.User{Email: "a@x.tg"}))
	assert.Equal(t, "Acme <a@x.tg>", displayName(&models.User{Name: "Acme", Email: "a@x.tg"}))
}

func TestPrincipalRows(t *testing.T) {
	assert.Nil(t, principalRows(nil))
	u := &models.User{Email: "a@x.tg", Extra: map[string]json.RawMessage{
		"telephone": json.RawMessage(`"+228 90 00 00 00"`),
		"website":   json.RawMessage(`""`),
		"isActive":  json.RawMessage(`true`),
	}}
	assert.Equal(t, [][]string{{"telephone", "+228 90 00 00 00"}}, principalRows(u))
}

func TestRegisterThenLogin(t *testing.T) {
	e := newTestEnv(t, startBackend(t), "")
	stubPassword(t, "fresh-pass")

	out := e.mustRun(t, "register", "--name", "Agro Togo", "-e", "agro@agro.tg", "--country", "Togo")
	assert.Contains(t, out, "Account created.")
	assert.False(t, e.app.isLoggedIn())

	err := e.run(t, "register", "--name", "Agro Togo", "-e", "agro@agro.tg")
	require.Error(t, err)
	assert.Equal(t, "email already registered (HTTP 409)", Describe(err))

	out = e.mustRun(t, "login", "-e", "agro@agro.tg")
	assert.Contains(t, out, "Logged in as Agro Togo <agro@agro.tg>")
}

func TestForgotAndResetPassword(t *testing.T) {
	url, srv := startServer(t)
	e := newTestEnv(t, url, "")

	out := e.mustRun(t, "forgot-password", "contact@techsolutions.tg")
	assert.Contains(t, out, "if the account exists")

	var token string
	srv.DB().EachResetToken(func(tok string, _ models.ID) { token = tok })
	require.NotEmpty(t, token)

	stubPassword(t, "brand-new")
	out = e.mustRun(t, "reset-password", token)
	assert.Contains(t, out, "password updated")

	out = e.mustRun(t, "login", "-e", "contact@techsolutions.tg")
	assert.Contains(t, out, "Logged in as")

	err := e.run(t, "reset-password", token)
	require.Error(t, err)
	assert.Equal(t, "invalid or expired reset token (HTTP 400)", Describe(err))
}

func TestVerify_NotLoggedIn(t *testing.T) {
	e := newTestEnv(t, startBackend(t), "")
	err := e.run(t, "verify")
	require.Error(t, err)
	assert.Equal(t, "not logged in", Describe(err))
}

func TestRefresh(t *testing.T) {
	e := newTestEnv(t, startBackend(t), "")
	loginTech(t, e)
	before, err := e.app.tokens.Token(context.Background())
	require.NoError(t, err)

	out := e.mustRun(t, "refresh")
	assert.Contains(t, out, "Token refreshed, valid until")

	after, err := e.app.tokens.Token(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, before, after)

	e.mustRun(t, "verify")
}

func TestAdminLoginCommand(t *testing.T) {
	e := newTestEnv(t, startBackend(t), "")
	stubPassword(t, mockapi.SeedAdminPassword)

	out := e.mustRun(t, "admin-login", "-e", mockapi.SeedAdminEmail)
	assert.Contains(t, out, "Logged in as Administrator")
	assert.True(t, e.app.Store().Snapshot().CurrentUser.IsAdmin())

	out = e.mustRun(t, "companies", "list")
	assert.Contains(t, out, "Construction Plus")
}
