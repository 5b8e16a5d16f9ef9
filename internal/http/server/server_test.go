package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dropDatabas3/michelangelo/internal/config"
	"github.com/dropDatabas3/michelangelo/internal/email"
	"github.com/dropDatabas3/michelangelo/internal/store/memory"
)

type nopMailer struct{}

func (nopMailer) Send(context.Context, email.Message) error { return nil }

type api struct {
	t   *testing.T
	srv *httptest.Server
	st  *memory.Store
}

func newAPI(t *testing.T, tweak func(*config.Config)) *api {
	t.Helper()
	cfg := config.Default()
	cfg.Auth.BcryptCost = bcrypt.MinCost
	cfg.Email.DebugEchoLinks = true
	if tweak != nil {
		tweak(cfg)
	}

	st := memory.New()
	app, err := Build(context.Background(), cfg, Options{
		Store:    st,
		Mailer:   nopMailer{},
		Registry: prometheus.NewRegistry(),
		Version:  "test",
	})
	require.NoError(t, err)
	srv := httptest.NewServer(app.Handler)
	t.Cleanup(func() {
		srv.Close()
		app.Close()
	})
	return &api{t: t, srv: srv, st: st}
}

func (a *api) do(method, path, token string, body any) (*http.Response, map[string]any) {
	a.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, a.srv.URL+path, rd)
	require.NoError(a.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	res, err := client.Do(req)
	require.NoError(a.t, err)
	defer res.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(res.Body)
	require.NoError(a.t, err)
	if len(raw) > 0 && strings.HasPrefix(res.Header.Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(raw, &out))
	}
	return res, out
}

func (a *api) register(username, addr, pw string) string {
	a.t.Helper()
	res, body := a.do("POST", "/api/auth/register", "", map[string]string{
		"username": username, "email": addr, "password": pw,
	})
	require.Equal(a.t, http.StatusCreated, res.StatusCode, body)
	return body["access_token"].(string)
}

func TestAPI_RegisterLoginProfile(t *testing.T) {
	a := newAPI(t, nil)
	tok := a.register("ana", "Ana@Example.com", "s3cret-pass")

	res, body := a.do("POST", "/api/auth/register", "", map[string]string{
		"username": "other", "email": "ana@example.com", "password": "x",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Equal(t, "EMAIL_ALREADY_IN_USE", body["code"])

	res, body = a.do("POST", "/api/auth/login", "", map[string]string{"identifier": "ANA@example.com", "password": "s3cret-pass"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "bearer", strings.ToLower(body["token_type"].(string)))
	assert.Equal(t, "no-store", res.Header.Get("Cache-Control"))

	res, body = a.do("POST", "/api/auth/login", "", map[string]string{"identifier": "ana", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "WRONG_PASSWORD", body["code"])

	res, body = a.do("POST", "/api/auth/login", "", map[string]string{"identifier": "nobody", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "IDENTIFIER_NOT_FOUND", body["code"])

	res, body = a.do("GET", "/api/profile", tok, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ana", body["username"])
	assert.Equal(t, "ana@example.com", body["email"])

	res, body = a.do("PATCH", "/api/profile", tok, map[string]any{"username": "ana_b"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ana_b", body["username"])
	assert.NotContains(t, body, "access_token")

	// cambiar el email invalida el token viejo y devuelve uno nuevo
	res, body = a.do("PATCH", "/api/profile", tok, map[string]any{"email": "ana.b@example.com"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ana.b@example.com", body["email"])
	fresh, _ := body["access_token"].(string)
	require.NotEmpty(t, fresh)
	res, body = a.do("GET", "/api/profile", tok, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "ACCOUNT_NOT_FOUND", body["code"])
	tok = fresh
	res, body = a.do("GET", "/api/profile", tok, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ana_b", body["username"])

	_, body = a.do("GET", "/api/auth/check-username?username=ana_b", "", nil)
	assert.Equal(t, true, body["exists"])
	_, body = a.do("GET", "/api/auth/check-email?email="+url.QueryEscape("nobody@example.com"), "", nil)
	assert.Equal(t, false, body["exists"])
}

func TestAPI_GuardErrors(t *testing.T) {
	a := newAPI(t, nil)

	res, body := a.do("GET", "/api/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "TOKEN_MISSING", body["code"])
	assert.NotEmpty(t, res.Header.Get("WWW-Authenticate"))

	res, body = a.do("GET", "/api/profile", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "TOKEN_INVALID", body["code"])

	res, body = a.do("GET", "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])

	res, body = a.do("DELETE", "/api/auth/login", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
	assert.Equal(t, "METHOD_NOT_ALLOWED", body["code"])

	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))
}

func TestAPI_LedgerFlow(t *testing.T) {
	a := newAPI(t, nil)
	tok := a.register("ana", "ana@example.com", "pw")
	other := a.register("bob", "bob@example.com", "pw")

	res, created := a.do("POST", "/api/ledger/entries", tok, map[string]any{
		"kind": "income", "amount_cents": 10000, "currency": "usd", "occurred_on": "2024-03-01",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, created)
	id := created["id"].(string)
	assert.Equal(t, "/api/ledger/entries/"+id, res.Header.Get("Location"))
	assert.Equal(t, "USD", created["currency"])

	res, _ = a.do("POST", "/api/ledger/entries", tok, map[string]any{
		"kind": "expense", "amount_cents": 2500, "occurred_on": "2024-03-02",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res, body := a.do("POST", "/api/ledger/entries", tok, map[string]any{"kind": "gift", "amount_cents": 1})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])

	res, body = a.do("GET", "/api/ledger/entries?kind=expense", tok, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, body["entries"], 1)

	res, body = a.do("GET", "/api/ledger/entries?from=yesterday", tok, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, body = a.do("GET", "/api/ledger/summary", tok, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	// otra cuenta no ve ni borra el movimiento
	res, body = a.do("GET", "/api/ledger/entries/"+id, other, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "ENTRY_NOT_FOUND", body["code"])
	res, _ = a.do("DELETE", "/api/ledger/entries/"+id, other, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, body = a.do("PATCH", "/api/ledger/entries/"+id, tok, map[string]any{"amount_cents": 12000})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.EqualValues(t, 12000, body["amount_cents"])

	res, _ = a.do("DELETE", "/api/ledger/entries/"+id, tok, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	res, _ = a.do("GET", "/api/ledger/entries/"+id, tok, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	assert.Zero(t, a.st.OpenSessions())
}

func TestAPI_PasswordReset(t *testing.T) {
	a := newAPI(t, nil)
	a.register("ana", "ana@example.com", "old-pass")

	res, body := a.do("POST", "/api/auth/forgot-password", "", map[string]string{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "INVALID_EMAIL", body["code"])

	res, body = a.do("POST", "/api/auth/forgot-password", "", map[string]string{"email": "ana@example.com"})
	require.Equal(t, http.StatusAccepted, res.StatusCode)
	assert.Equal(t, "sent", body["status"])
	link, err := url.Parse(res.Header.Get("X-Debug-Reset-Link"))
	require.NoError(t, err)
	assert.Equal(t, "/reset-password", link.Path)
	token := link.Query().Get("token")
	require.NotEmpty(t, token)

	// un token de reset no abre sesión
	res, _ = a.do("GET", "/api/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, body = a.do("POST", "/api/auth/reset-password", "", map[string]string{"token": token, "new_password": "new-pass"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "password_updated", body["status"])

	res, _ = a.do("POST", "/api/auth/login", "", map[string]string{"identifier": "ana", "password": "new-pass"})
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestAPI_LogoutNeedsRevocation(t *testing.T) {
	a := newAPI(t, nil)
	tok := a.register("ana", "ana@example.com", "pw")
	res, body := a.do("POST", "/api/auth/logout", tok, nil)
	assert.Equal(t, http.StatusNotImplemented, res.StatusCode)
	assert.Equal(t, "NOT_IMPLEMENTED", body["code"])

	b := newAPI(t, func(c *config.Config) { c.Auth.Revocation.Enabled = true })
	tok = b.register("ana", "ana@example.com", "pw")
	res, _ = b.do("POST", "/api/auth/logout", tok, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	res, body = b.do("GET", "/api/profile", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "TOKEN_INVALID", body["code"])
}

func TestAPI_GoogleDisabled(t *testing.T) {
	a := newAPI(t, nil)
	res, body := a.do("GET", "/api/auth/google/login", "", nil)
	assert.Equal(t, http.StatusNotImplemented, res.StatusCode)
	assert.Equal(t, "NOT_IMPLEMENTED", body["code"])
}

func TestAPI_HealthAndMetrics(t *testing.T) {
	a := newAPI(t, nil)

	res, body := a.do("GET", "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", body["status"])

	res, body = a.do("GET", "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, "test", body["version"])

	res, _ = a.do("GET", "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestAPI_CORSPreflight(t *testing.T) {
	a := newAPI(t, func(c *config.Config) { c.Server.CORSAllowedOrigins = []string{"http://app.test"} })

	req, err := http.NewRequest(http.MethodOptions, a.srv.URL+"/api/auth/login", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://app.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()

	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, "http://app.test", res.Header.Get("Access-Control-Allow-Origin"))
}
