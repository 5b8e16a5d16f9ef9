package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/michelangelo/internal/audit"
	"github.com/dropDatabas3/michelangelo/internal/domain/repository"
	"github.com/dropDatabas3/michelangelo/internal/domain/types"
	dto "github.com/dropDatabas3/michelangelo/internal/http/dto/auth"
	"github.com/dropDatabas3/michelangelo/internal/metrics"
	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
	"github.com/dropDatabas3/michelangelo/internal/validation"
)

type loginService struct {
	deps Deps
}

func NewLoginService(d Deps) LoginService {
	return &loginService{deps: d}
}

// Login busca por email (si el identificador tiene "@", sin distinguir
// mayúsculas) o por username exacto, y después verifica el password. Los
// dos fallos se reportan por separado salvo con UnifyLoginErrors.
func (s *loginService) Login(ctx context.Context, in dto.LoginRequest) (_ *dto.LoginResult, err error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("Login"),
	)
	defer func() { metrics.AuthEvent("login", err) }()

	ident := strings.TrimSpace(in.Identifier)
	if err := validation.First(
		validation.Required("identifier", ident),
		validation.Required("password", in.Password),
	); err != nil {
		return nil, err
	}

	sess, err := s.deps.Store.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire session: %w", err)
	}
	defer sess.Release()

	var acc *types.Account
	if types.LooksLikeEmail(ident) {
		acc, err = sess.Accounts().GetByEmail(ctx, types.NormalizeEmail(ident))
	} else {
		acc, err = sess.Accounts().GetByUsername(ctx, ident)
	}
	if err != nil {
		if repository.IsNotFound(err) {
			log.Debug("login identifier not found")
			audit.Log(ctx, audit.LoginFailed, logger.String("reason", "identifier_not_found"))
			return nil, s.fail(ErrIdentifierNotFound)
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	if !s.deps.Hasher.Verify(in.Password, acc.PasswordHash) {
		audit.Log(ctx, audit.LoginFailed, logger.AccountID(acc.ID), logger.String("reason", "wrong_password"))
		return nil, s.fail(ErrWrongPassword)
	}

	tok, err := s.deps.Tokens.IssueSession(acc.Email)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	audit.Log(ctx, audit.LoginSucceeded, logger.AccountID(acc.ID))
	return &dto.LoginResult{
		AccessToken: tok.Token,
		ExpiresIn:   int64(s.deps.Tokens.SessionTTL().Seconds()),
	}, nil
}

func (s *loginService) fail(err error) error {
	if s.deps.UnifyLoginErrors {
		return ErrInvalidCredentials
	}
	return err
}
