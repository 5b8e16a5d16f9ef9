package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dropDatabas3/michelangelo/internal/audit"
	"github.com/dropDatabas3/michelangelo/internal/domain/types"
	dto "github.com/dropDatabas3/michelangelo/internal/http/dto/auth"
	"github.com/dropDatabas3/michelangelo/internal/metrics"
	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
	"github.com/dropDatabas3/michelangelo/internal/security/password"
	"github.com/dropDatabas3/michelangelo/internal/validation"
)

type registerService struct {
	deps Deps
}

func NewRegisterService(d Deps) RegisterService {
	return &registerService{deps: d}
}

func (s *registerService) Register(ctx context.Context, in dto.RegisterRequest) (_ *dto.RegisterResult, err error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.register"),
		logger.Op("Register"),
	)
	defer func() { metrics.AuthEvent("register", err) }()

	username := strings.TrimSpace(in.Username)
	email := types.NormalizeEmail(in.Email)

	if err := validation.First(
		validation.Username("username", username),
		validation.Email("email", email),
		validation.Required("password", in.Password),
	); err != nil {
		return nil, err
	}
	if password.TooLong(in.Password) {
		return nil, ErrPasswordTooLong
	}

	sess, err := s.deps.Store.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire session: %w", err)
	}
	defer sess.Release()
	repo := sess.Accounts()

	// Orden fijo: email antes que username.
	taken, err := repo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailInUse
	}
	taken, err = repo.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := s.deps.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	acc := &types.Account{
		PublicID:     uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := repo.Create(ctx, acc); err != nil {
		log.Debug("create account failed", logger.Err(err))
		return nil, conflictErr(err)
	}

	tok, err := s.deps.Tokens.IssueSession(acc.Email)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	audit.Log(ctx, audit.AccountRegistered, logger.PublicID(acc.PublicID), logger.AccountID(acc.ID))
	return &dto.RegisterResult{
		AccessToken: tok.Token,
		ExpiresIn:   int64(s.deps.Tokens.SessionTTL().Seconds()),
		PublicID:    acc.PublicID,
	}, nil
}
