// Package jwt emite y verifica los tokens firmados HS256 del servicio:
// sesión, reset de password y state de OAuth. El "purpose" viaja como
// claim y Verify lo exige, así un token de reset no abre una sesión.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Purpose distingue el uso de un token.
type Purpose string

const (
	PurposeSession    Purpose = "session"
	PurposeReset      Purpose = "reset"
	PurposeOAuthState Purpose = "oauth_state"
)

// ErrInvalidToken cubre firma, algoritmo, expiración, claims faltantes,
// purpose incorrecto y jti revocado.
var ErrInvalidToken = errors.New("invalid or expired token")

const (
	DefaultSessionTTL = 60 * time.Minute
	DefaultResetTTL   = 15 * time.Minute
	DefaultStateTTL   = 10 * time.Minute
)

// Claims del token. Subject es el email de la cuenta (o el nonce en state).
type Claims struct {
	Purpose Purpose `json:"purpose"`
	jwtv5.RegisteredClaims
}

// Issued es el resultado de firmar un token.
type Issued struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// Denylist guarda jtis revocados durante ttl.
type Denylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type Service struct {
	secret     []byte
	issuer     string
	sessionTTL time.Duration
	resetTTL   time.Duration
	now        func() time.Time
	deny       Denylist
}

type Option func(*Service)

// WithClock fija el reloj (tests).
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func WithIssuer(iss string) Option { return func(s *Service) { s.issuer = iss } }

func WithTTLs(session, reset time.Duration) Option {
	return func(s *Service) {
		if session > 0 {
			s.sessionTTL = session
		}
		if reset > 0 {
			s.resetTTL = reset
		}
	}
}

// WithDenylist habilita la revocación por jti.
func WithDenylist(d Denylist) Option { return func(s *Service) { s.deny = d } }

func NewService(secret []byte, opts ...Option) (*Service, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt: empty secret")
	}
	s := &Service{
		secret:     secret,
		sessionTTL: DefaultSessionTTL,
		resetTTL:   DefaultResetTTL,
		now:        time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

func (s *Service) SessionTTL() time.Duration { return s.sessionTTL }
func (s *Service) ResetTTL() time.Duration   { return s.resetTTL }

// RevocationEnabled indica si hay denylist configurada.
func (s *Service) RevocationEnabled() bool { return s.deny != nil }

// Issue firma {sub, iat, exp, jti, purpose}.
func (s *Service) Issue(subject string, purpose Purpose, ttl time.Duration) (Issued, error) {
	if subject == "" {
		return Issued{}, errors.New("jwt: empty subject")
	}
	now := s.now()
	exp := now.Add(ttl)
	jti := uuid.NewString()
	claims := Claims{
		Purpose: purpose,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(exp),
			ID:        jti,
		},
	}
	tok, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Issued{}, fmt.Errorf("jwt: sign: %w", err)
	}
	return Issued{Token: tok, JTI: jti, ExpiresAt: exp}, nil
}

func (s *Service) IssueSession(email string) (Issued, error) {
	return s.Issue(email, PurposeSession, s.sessionTTL)
}

func (s *Service) IssueReset(email string) (Issued, error) {
	return s.Issue(email, PurposeReset, s.resetTTL)
}

func (s *Service) IssueState(nonce string) (Issued, error) {
	return s.Issue(nonce, PurposeOAuthState, DefaultStateTTL)
}

// Verify valida firma HS256, exp (sin leeway), iss (si hay issuer), sub
// y purpose. Con denylist configurada también rechaza jtis revocados.
func (s *Service) Verify(ctx context.Context, token string, purpose Purpose) (*Claims, error) {
	var c Claims
	popts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		popts = append(popts, jwtv5.WithIssuer(s.issuer))
	}
	_, err := jwtv5.ParseWithClaims(token, &c,
		func(*jwtv5.Token) (any, error) { return s.secret, nil },
		popts...,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Subject == "" || c.Purpose != purpose {
		return nil, ErrInvalidToken
	}
	if s.deny != nil && c.ID != "" {
		revoked, err := s.deny.IsRevoked(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("jwt: denylist: %w", err)
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}
	return &c, nil
}

// ErrRevocationDisabled se devuelve por Revoke sin denylist.
var ErrRevocationDisabled = errors.New("jwt: revocation disabled")

// Revoke agrega el jti a la denylist hasta la expiración del propio token.
func (s *Service) Revoke(ctx context.Context, c *Claims) error {
	if s.deny == nil {
		return ErrRevocationDisabled
	}
	if c == nil || c.ID == "" || c.ExpiresAt == nil {
		return ErrInvalidToken
	}
	// el ttl sale del reloj del servicio, el mismo que usa Verify
	ttl := c.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.deny.Revoke(ctx, c.ID, ttl)
}
