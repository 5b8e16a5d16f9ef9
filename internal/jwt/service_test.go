package jwt

import (
	"context"
	"strings"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/michelangelo/internal/cache"
)

var secret = []byte("test-secret-test-secret-test-secret")

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newSvc(t *testing.T, c *clock, opts ...Option) *Service {
	t.Helper()
	s, err := NewService(secret, append([]Option{WithClock(c.now)}, opts...)...)
	require.NoError(t, err)
	return s
}

func TestSessionExpiryBoundary(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	s := newSvc(t, c)

	iss, err := s.IssueSession("ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, c.t.Add(60*time.Minute), iss.ExpiresAt)

	c.t = c.t.Add(59 * time.Minute)
	claims, err := s.Verify(ctx, iss.Token, PurposeSession)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Subject)

	c.t = c.t.Add(2 * time.Minute)
	_, err = s.Verify(ctx, iss.Token, PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetTTL(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Now()}
	s := newSvc(t, c)

	iss, err := s.IssueReset("ana@example.com")
	require.NoError(t, err)

	c.t = c.t.Add(14 * time.Minute)
	_, err = s.Verify(ctx, iss.Token, PurposeReset)
	require.NoError(t, err)

	c.t = c.t.Add(2 * time.Minute)
	_, err = s.Verify(ctx, iss.Token, PurposeReset)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Rejections(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Now()}
	s := newSvc(t, c)

	iss, err := s.IssueSession("ana@example.com")
	require.NoError(t, err)

	other, err := NewService([]byte("another-secret-another-secret-xx"), WithClock(c.now))
	require.NoError(t, err)
	_, err = other.Verify(ctx, iss.Token, PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong secret")

	_, err = s.Verify(ctx, iss.Token, PurposeReset)
	assert.ErrorIs(t, err, ErrInvalidToken, "purpose mismatch")

	_, err = s.Verify(ctx, "garbage", PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidToken)

	parts := strings.Split(iss.Token, ".")
	_, err = s.Verify(ctx, parts[0]+"."+parts[1]+".AAAA", PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidToken, "tampered signature")

	// sin sub
	noSub, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, Claims{
		Purpose: PurposeSession,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ExpiresAt: jwtv5.NewNumericDate(c.t.Add(time.Hour)),
		},
	}).SignedString(secret)
	require.NoError(t, err)
	_, err = s.Verify(ctx, noSub, PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// sin exp
	noExp, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, Claims{
		Purpose:          PurposeSession,
		RegisteredClaims: jwtv5.RegisteredClaims{Subject: "ana@example.com"},
	}).SignedString(secret)
	require.NoError(t, err)
	_, err = s.Verify(ctx, noExp, PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// otro algoritmo
	hs512, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS512, Claims{
		Purpose: PurposeSession,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject:   "ana@example.com",
			ExpiresAt: jwtv5.NewNumericDate(c.t.Add(time.Hour)),
		},
	}).SignedString(secret)
	require.NoError(t, err)
	_, err = s.Verify(ctx, hs512, PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Now()}

	plain := newSvc(t, c)
	iss, err := plain.IssueSession("ana@example.com")
	require.NoError(t, err)
	claims, err := plain.Verify(ctx, iss.Token, PurposeSession)
	require.NoError(t, err)
	assert.ErrorIs(t, plain.Revoke(ctx, claims), ErrRevocationDisabled)

	s := newSvc(t, c, WithDenylist(NewCacheDenylist(cache.NewMemory(""))))
	require.True(t, s.RevocationEnabled())
	iss, err = s.IssueSession("ana@example.com")
	require.NoError(t, err)
	claims, err = s.Verify(ctx, iss.Token, PurposeSession)
	require.NoError(t, err)

	require.NoError(t, s.Revoke(ctx, claims))
	_, err = s.Verify(ctx, iss.Token, PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// otro token del mismo sujeto sigue vivo
	iss2, err := s.IssueSession("ana@example.com")
	require.NoError(t, err)
	_, err = s.Verify(ctx, iss2.Token, PurposeSession)
	assert.NoError(t, err)
}

func TestNewService_EmptySecret(t *testing.T) {
	_, err := NewService(nil)
	assert.Error(t, err)
}

type recordingDenylist struct {
	ttls map[string]time.Duration
}

func (d *recordingDenylist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if d.ttls == nil {
		d.ttls = map[string]time.Duration{}
	}
	d.ttls[jti] = ttl
	return nil
}

func (d *recordingDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := d.ttls[jti]
	return ok, nil
}

func TestRevoke_UsesServiceClock(t *testing.T) {
	ctx := context.Background()
	// reloj fijo lejos de time.Now: el ttl tiene que salir del reloj del servicio
	c := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	s := newSvc(t, c, WithDenylist(NewCacheDenylist(cache.NewMemory(""))))

	iss, err := s.IssueSession("ana@example.com")
	require.NoError(t, err)
	claims, err := s.Verify(ctx, iss.Token, PurposeSession)
	require.NoError(t, err)

	c.t = c.t.Add(10 * time.Minute)
	require.NoError(t, s.Revoke(ctx, claims))
	_, err = s.Verify(ctx, iss.Token, PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidToken)

	rec := &recordingDenylist{}
	s2 := newSvc(t, c, WithDenylist(rec))
	iss, err = s2.IssueSession("ana@example.com")
	require.NoError(t, err)
	claims, err = s2.Verify(ctx, iss.Token, PurposeSession)
	require.NoError(t, err)
	require.NoError(t, s2.Revoke(ctx, claims))
	assert.Equal(t, 60*time.Minute, rec.ttls[claims.ID])

	// ya expirado según el reloj del servicio: no se guarda nada
	c.t = c.t.Add(2 * time.Hour)
	expired := &Claims{RegisteredClaims: jwtv5.RegisteredClaims{ID: "old", ExpiresAt: jwtv5.NewNumericDate(c.t.Add(-time.Second))}}
	require.NoError(t, s2.Revoke(ctx, expired))
	assert.NotContains(t, rec.ttls, "old")
}

func TestVerify_Issuer(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Now()}
	ours := newSvc(t, c, WithIssuer("michelangelo"))
	other := newSvc(t, c, WithIssuer("someone-else"))
	bare := newSvc(t, c)

	iss, err := ours.IssueSession("ana@example.com")
	require.NoError(t, err)
	_, err = ours.Verify(ctx, iss.Token, PurposeSession)
	require.NoError(t, err)

	foreign, err := other.IssueSession("ana@example.com")
	require.NoError(t, err)
	_, err = ours.Verify(ctx, foreign.Token, PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := bare.IssueSession("ana@example.com")
	require.NoError(t, err)
	_, err = ours.Verify(ctx, unsigned.Token, PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// sin issuer configurado no se exige iss
	_, err = bare.Verify(ctx, iss.Token, PurposeSession)
	assert.NoError(t, err)
}
