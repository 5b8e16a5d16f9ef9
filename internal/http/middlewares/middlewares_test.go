package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/michelangelo/internal/domain/types"
	authsvc "github.com/dropDatabas3/michelangelo/internal/http/services/auth"
	jwtx "github.com/dropDatabas3/michelangelo/internal/jwt"
)

func TestChain_Order(t *testing.T) {
	var order []string
	mk := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "h") }), mk("a"), mk("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b", "h"}, order)
}

func TestWithRequestID(t *testing.T) {
	var seen string
	h := WithRequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 32)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "abc", seen)
}

func TestWithRecover(t *testing.T) {
	h := WithRecover()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
}

func TestWithCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	h := WithCORS([]string{"https://app.example.com/"})(next)

	req := httptest.NewRequest(http.MethodOptions, "/api/profile", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

type fakeResolver struct {
	acc *types.Account
	err error
}

func (f fakeResolver) Resolve(context.Context, string) (*types.Account, *jwtx.Claims, error) {
	return f.acc, &jwtx.Claims{Purpose: jwtx.PurposeSession}, f.err
}

func TestRequireAccount(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a, found := GetAccount(r.Context())
		require.True(t, found)
		_, _ = w.Write([]byte(a.Username))
	})

	tests := []struct {
		name   string
		header string
		res    fakeResolver
		status int
		body   string
	}{
		{"missing", "", fakeResolver{}, http.StatusUnauthorized, "TOKEN_MISSING"},
		{"invalid", "Bearer x", fakeResolver{err: authsvc.ErrUnauthorized}, http.StatusUnauthorized, "TOKEN_INVALID"},
		{"gone", "Bearer x", fakeResolver{err: authsvc.ErrAccountNotFound}, http.StatusNotFound, "ACCOUNT_NOT_FOUND"},
		{"store down", "Bearer x", fakeResolver{err: errors.New("db down")}, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"ok", "Bearer x", fakeResolver{acc: &types.Account{ID: 1, Username: "ana"}}, http.StatusOK, "ana"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			RequireAccount(tt.res)(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			assert.True(t, strings.Contains(rec.Body.String(), tt.body), rec.Body.String())
			if tt.status == http.StatusUnauthorized {
				assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
