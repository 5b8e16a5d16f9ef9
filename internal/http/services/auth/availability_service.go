package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/michelangelo/internal/domain/types"
	"github.com/dropDatabas3/michelangelo/internal/validation"
)

type availabilityService struct {
	deps Deps
}

func NewAvailabilityService(d Deps) AvailabilityService {
	return &availabilityService{deps: d}
}

func (s *availabilityService) UsernameExists(ctx context.Context, username string) (bool, error) {
	username = strings.TrimSpace(username)
	if err := validation.Required("username", username); err != nil {
		return false, err
	}
	sess, err := s.deps.Store.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire session: %w", err)
	}
	defer sess.Release()
	return sess.Accounts().UsernameExists(ctx, username)
}

func (s *availabilityService) EmailExists(ctx context.Context, email string) (bool, error) {
	email = types.NormalizeEmail(email)
	if err := validation.Required("email", email); err != nil {
		return false, err
	}
	sess, err := s.deps.Store.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire session: %w", err)
	}
	defer sess.Release()
	return sess.Accounts().EmailExists(ctx, email)
}
