package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dropDatabas3/michelangelo/internal/audit"
	"github.com/dropDatabas3/michelangelo/internal/domain/repository"
	"github.com/dropDatabas3/michelangelo/internal/domain/types"
	"github.com/dropDatabas3/michelangelo/internal/email"
	dto "github.com/dropDatabas3/michelangelo/internal/http/dto/auth"
	jwtx "github.com/dropDatabas3/michelangelo/internal/jwt"
	"github.com/dropDatabas3/michelangelo/internal/metrics"
	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
	"github.com/dropDatabas3/michelangelo/internal/validation"
)

type passwordResetService struct {
	deps Deps
}

func NewPasswordResetService(d Deps) PasswordResetService {
	return &passwordResetService{deps: d}
}

// ForgotPassword emite un token de reset y lo envía por mail dentro del link
// <frontend>/reset-password?token=...
func (s *passwordResetService) ForgotPassword(ctx context.Context, addr string) (_ *dto.ForgotPasswordResult, err error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.reset"),
		logger.Op("ForgotPassword"),
	)
	defer func() { metrics.AuthEvent("forgot_password", err) }()

	addr = types.NormalizeEmail(addr)
	if err := validation.Email("email", addr); err != nil {
		return nil, err
	}

	acc, err := s.accountByEmail(ctx, addr)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidEmail
		}
		return nil, err
	}

	tok, err := s.deps.Tokens.IssueReset(acc.Email)
	if err != nil {
		return nil, fmt.Errorf("issue reset: %w", err)
	}
	link := resetLink(s.deps.FrontendURL, tok.Token)

	msg, err := email.RenderReset(acc.Email, email.ResetVars{
		Username: acc.Username,
		Link:     link,
		TTL:      humanTTL(s.deps.Tokens.ResetTTL()),
	})
	if err != nil {
		return nil, fmt.Errorf("render reset email: %w", err)
	}
	if err := s.deps.Mailer.Send(ctx, msg); err != nil {
		log.Warn("reset email not sent", logger.AccountID(acc.ID), logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrEmailTransport, err)
	}

	audit.Log(ctx, audit.PasswordResetRequested, logger.AccountID(acc.ID))
	res := &dto.ForgotPasswordResult{}
	if s.deps.DebugEchoLinks {
		res.DebugLink = link
	}
	return res, nil
}

// ResetPassword valida el token de reset y sobrescribe el hash. Sin
// ResetSingleUse el mismo token sirve hasta que expira.
func (s *passwordResetService) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) (err error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.reset"),
		logger.Op("ResetPassword"),
	)
	defer func() { metrics.AuthEvent("reset_password", err) }()

	token := strings.TrimSpace(in.Token)
	if token == "" {
		return ErrInvalidOrExpiredToken
	}
	if err := validation.Required("new_password", in.NewPassword); err != nil {
		return err
	}

	claims, err := s.deps.Tokens.Verify(ctx, token, jwtx.PurposeReset)
	if err != nil {
		if errors.Is(err, jwtx.ErrInvalidToken) {
			return ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("verify reset token: %w", err)
	}

	// El hasher trunca a 72 bytes; acá no se rechaza.
	hash, err := s.deps.Hasher.Hash(in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	sess, err := s.deps.Store.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire session: %w", err)
	}
	defer sess.Release()

	var accountID int64
	err = sess.InTx(ctx, func(tx repository.Session) error {
		acc, err := tx.Accounts().GetByEmail(ctx, claims.Subject)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrAccountNotFound
			}
			return err
		}
		accountID = acc.ID
		return tx.Accounts().UpdatePassword(ctx, acc.ID, hash)
	})
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return err
		}
		return fmt.Errorf("update password: %w", err)
	}

	if s.deps.ResetSingleUse {
		if rerr := s.deps.Tokens.Revoke(ctx, claims); rerr != nil {
			log.Error("reset token not revoked", logger.AccountID(accountID), logger.Err(rerr))
		}
	}
	audit.Log(ctx, audit.PasswordResetCompleted, logger.AccountID(accountID), logger.Bool("single_use", s.deps.ResetSingleUse))
	return nil
}

// accountByEmail abre y libera su propia sesión; no retiene la conexión
// mientras se manda el mail.
func (s *passwordResetService) accountByEmail(ctx context.Context, addr string) (*types.Account, error) {
	sess, err := s.deps.Store.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire session: %w", err)
	}
	defer sess.Release()

	acc, err := sess.Accounts().GetByEmail(ctx, addr)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	return acc, nil
}

func resetLink(frontend, token string) string {
	return strings.TrimRight(frontend, "/") + "/reset-password?token=" + url.QueryEscape(token)
}

func humanTTL(d time.Duration) string {
	if d%time.Minute == 0 {
		m := int(d / time.Minute)
		if m == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", m)
	}
	return d.String()
}
