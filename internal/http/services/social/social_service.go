// Package social implementa el login federado: state firmado, canje del
// code, claims del proveedor y find-or-create de la cuenta por email.
//
// Una cuenta local con el mismo email queda vinculada sin más verificación
// que la confianza en el claim de email del proveedor.
package social

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/dropDatabas3/michelangelo/internal/audit"
	"github.com/dropDatabas3/michelangelo/internal/domain/repository"
	"github.com/dropDatabas3/michelangelo/internal/domain/types"
	jwtx "github.com/dropDatabas3/michelangelo/internal/jwt"
	"github.com/dropDatabas3/michelangelo/internal/metrics"
	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
	"github.com/dropDatabas3/michelangelo/internal/security/password"
	tokens "github.com/dropDatabas3/michelangelo/internal/security/token"
	"github.com/dropDatabas3/michelangelo/internal/validation"
)

const (
	maxSuffixAttempts = 1000
	maxBaseRunes      = validation.MaxUsernameLen - 4
)

var (
	// ErrFederation envuelve todo fallo del proveedor o del state.
	ErrFederation = errors.New("federation failed")
	// ErrProviderDisabled: no hay proveedor configurado.
	ErrProviderDisabled = errors.New("federated login disabled")
)

type Service interface {
	// Start devuelve la URL de consentimiento del proveedor.
	Start(ctx context.Context) (string, error)
	// Callback completa el login y devuelve la URL del frontend con el token.
	Callback(ctx context.Context, code, state string) (string, error)
}

type Deps struct {
	Store       repository.Store
	Tokens      *jwtx.Service
	Hasher      password.Hasher
	Provider    IdentityProvider // nil = deshabilitado
	FrontendURL string
}

type service struct {
	deps Deps
}

func NewService(d Deps) Service {
	return &service{deps: d}
}

func (s *service) Start(ctx context.Context) (string, error) {
	if s.deps.Provider == nil {
		return "", ErrProviderDisabled
	}
	nonce, err := tokens.GenerateOpaqueToken(16)
	if err != nil {
		return "", fmt.Errorf("state nonce: %w", err)
	}
	state, err := s.deps.Tokens.IssueState(nonce)
	if err != nil {
		return "", fmt.Errorf("issue state: %w", err)
	}
	return s.deps.Provider.AuthCodeURL(state.Token), nil
}

func (s *service) Callback(ctx context.Context, code, state string) (_ string, err error) {
	if s.deps.Provider == nil {
		return "", ErrProviderDisabled
	}
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("social"),
		logger.Op("Callback"),
		logger.Provider(s.deps.Provider.Name()),
	)
	defer func() { metrics.AuthEvent("federated", err) }()

	if _, err := s.deps.Tokens.Verify(ctx, state, jwtx.PurposeOAuthState); err != nil {
		return "", fmt.Errorf("%w: invalid state: %v", ErrFederation, err)
	}
	if strings.TrimSpace(code) == "" {
		return "", fmt.Errorf("%w: missing code", ErrFederation)
	}

	accessToken, err := s.deps.Provider.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFederation, err)
	}
	if accessToken == "" {
		return "", fmt.Errorf("%w: no access token", ErrFederation)
	}
	id, err := s.deps.Provider.Identity(ctx, accessToken)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFederation, err)
	}
	addr := types.NormalizeEmail(id.Email)
	if addr == "" {
		return "", fmt.Errorf("%w: no email claim", ErrFederation)
	}
	log.Debug("identity resolved", logger.Email(addr))

	acc, created, err := s.findOrCreate(ctx, addr, id.Name)
	if err != nil {
		return "", err
	}

	tok, err := s.deps.Tokens.IssueSession(acc.Email)
	if err != nil {
		return "", fmt.Errorf("issue session: %w", err)
	}
	audit.Log(ctx, audit.FederatedLogin, logger.Provider(s.deps.Provider.Name()), logger.AccountID(acc.ID), logger.Bool("created", created))
	return strings.TrimRight(s.deps.FrontendURL, "/") + "/dashboard_page?token=" + url.QueryEscape(tok.Token), nil
}

// findOrCreate busca por email; si no existe crea la cuenta con un secreto
// aleatorio inutilizable y username derivado del local-part, agregando
// sufijo 1, 2, ... ante colisión.
func (s *service) findOrCreate(ctx context.Context, addr, name string) (*types.Account, bool, error) {
	sess, err := s.deps.Store.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire session: %w", err)
	}
	defer sess.Release()
	repo := sess.Accounts()

	acc, err := repo.GetByEmail(ctx, addr)
	if err == nil {
		return acc, false, nil
	}
	if !repository.IsNotFound(err) {
		return nil, false, fmt.Errorf("lookup account: %w", err)
	}

	secret, err := tokens.GenerateOpaqueToken(32)
	if err != nil {
		return nil, false, fmt.Errorf("random secret: %w", err)
	}
	hash, err := s.deps.Hasher.Hash(secret)
	if err != nil {
		return nil, false, fmt.Errorf("hash secret: %w", err)
	}

	base := usernameBase(addr)
	for i := 0; i < maxSuffixAttempts; i++ {
		candidate := base
		if i > 0 {
			candidate = base + strconv.Itoa(i)
		}
		taken, err := repo.UsernameExists(ctx, candidate)
		if err != nil {
			return nil, false, fmt.Errorf("check username: %w", err)
		}
		if taken {
			continue
		}

		acc := &types.Account{
			PublicID:     uuid.NewString(),
			Username:     candidate,
			Email:        addr,
			PasswordHash: hash,
			DisplayName:  strings.TrimSpace(name),
		}
		err = repo.Create(ctx, acc)
		switch repository.ConflictField(err) {
		case "":
			if err != nil {
				return nil, false, fmt.Errorf("create account: %w", err)
			}
			return acc, true, nil
		case repository.FieldUsername:
			continue
		case repository.FieldEmail:
			// otro callback concurrente creó la cuenta
			winner, err := repo.GetByEmail(ctx, addr)
			if err != nil {
				return nil, false, fmt.Errorf("reload account: %w", err)
			}
			return winner, false, nil
		default:
			return nil, false, fmt.Errorf("create account: %w", err)
		}
	}
	return nil, false, fmt.Errorf("no free username for %q after %d attempts", base, maxSuffixAttempts)
}

// usernameBase toma el local-part del email sin espacios; "user" si queda vacío.
func usernameBase(addr string) string {
	local := addr
	if i := strings.LastIndex(addr, "@"); i >= 0 {
		local = addr[:i]
	}
	local = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '@' {
			return -1
		}
		return r
	}, local)
	if r := []rune(local); len(r) > maxBaseRunes {
		local = string(r[:maxBaseRunes])
	}
	if local == "" {
		return "user"
	}
	return local
}
