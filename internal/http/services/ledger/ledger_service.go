// Package ledger implementa el CRUD de movimientos del libro personal y su
// resumen por moneda. Todas las operaciones se limitan a la cuenta dueña.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dropDatabas3/michelangelo/internal/domain/repository"
	"github.com/dropDatabas3/michelangelo/internal/domain/types"
	dto "github.com/dropDatabas3/michelangelo/internal/http/dto/ledger"
	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
	"github.com/dropDatabas3/michelangelo/internal/validation"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200

	maxCategoryLen    = 64
	maxDescriptionLen = 500
	dateLayout        = "2006-01-02"
)

// ErrEntryNotFound cubre ids inexistentes, mal formados o de otra cuenta.
var ErrEntryNotFound = errors.New("entry not found")

type Service interface {
	Add(ctx context.Context, acc *types.Account, in dto.CreateEntryRequest) (*types.Entry, error)
	// List devuelve también el filtro efectivo (limit por defecto y tope aplicados).
	List(ctx context.Context, acc *types.Account, f types.EntryFilter) ([]types.Entry, types.EntryFilter, error)
	Get(ctx context.Context, acc *types.Account, id string) (*types.Entry, error)
	Update(ctx context.Context, acc *types.Account, id string, in dto.UpdateEntryRequest) (*types.Entry, error)
	Delete(ctx context.Context, acc *types.Account, id string) error
	Summary(ctx context.Context, acc *types.Account, f types.EntryFilter) ([]types.CurrencyTotals, error)
}

type Deps struct {
	Store           repository.Store
	DefaultCurrency string
	// Now se usa para occurred_on por defecto; nil = time.Now.
	Now func() time.Time
}

type service struct {
	deps Deps
}

func NewService(d Deps) Service {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.DefaultCurrency == "" {
		d.DefaultCurrency = "USD"
	}
	return &service{deps: d}
}

func (s *service) log(ctx context.Context, op string) *zap.Logger {
	return logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("ledger"),
		logger.Op(op),
	)
}

func (s *service) Add(ctx context.Context, acc *types.Account, in dto.CreateEntryRequest) (*types.Entry, error) {
	e := &types.Entry{
		ID:          uuid.NewString(),
		AccountID:   acc.ID,
		Kind:        types.EntryKind(strings.ToLower(strings.TrimSpace(in.Kind))),
		AmountCents: in.AmountCents,
		Currency:    strings.ToUpper(strings.TrimSpace(in.Currency)),
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
	}
	if e.Currency == "" {
		e.Currency = s.deps.DefaultCurrency
	}
	if strings.TrimSpace(in.OccurredOn) == "" {
		e.OccurredOn = today(s.deps.Now())
	} else {
		d, err := parseDate("occurred_on", in.OccurredOn)
		if err != nil {
			return nil, err
		}
		e.OccurredOn = d
	}
	if err := validate(e); err != nil {
		return nil, err
	}

	sess, err := s.deps.Store.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire session: %w", err)
	}
	defer sess.Release()

	if err := sess.Entries().Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}
	s.log(ctx, "Add").Info("entry created", logger.AccountID(acc.ID), logger.EntryID(e.ID))
	return e, nil
}

func (s *service) List(ctx context.Context, acc *types.Account, f types.EntryFilter) ([]types.Entry, types.EntryFilter, error) {
	f, err := normalizeFilter(f)
	if err != nil {
		return nil, f, err
	}
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}

	sess, err := s.deps.Store.Acquire(ctx)
	if err != nil {
		return nil, f, fmt.Errorf("acquire session: %w", err)
	}
	defer sess.Release()

	out, err := sess.Entries().List(ctx, acc.ID, f)
	if err != nil {
		return nil, f, fmt.Errorf("list entries: %w", err)
	}
	return out, f, nil
}

func (s *service) Get(ctx context.Context, acc *types.Account, id string) (*types.Entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrEntryNotFound
	}
	sess, err := s.deps.Store.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire session: %w", err)
	}
	defer sess.Release()

	e, err := sess.Entries().Get(ctx, acc.ID, id)
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

// Update aplica un patch parcial y revalida el movimiento completo.
func (s *service) Update(ctx context.Context, acc *types.Account, id string, in dto.UpdateEntryRequest) (*types.Entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrEntryNotFound
	}
	patch, err := toPatch(in)
	if err != nil {
		return nil, err
	}

	sess, err := s.deps.Store.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire session: %w", err)
	}
	defer sess.Release()

	var out *types.Entry
	err = sess.InTx(ctx, func(tx repository.Session) error {
		e, err := tx.Entries().Get(ctx, acc.ID, id)
		if err != nil {
			return notFound(err)
		}
		patch.Apply(e)
		if err := validate(e); err != nil {
			return err
		}
		if err := tx.Entries().Update(ctx, e); err != nil {
			return notFound(err)
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log(ctx, "Update").Info("entry updated", logger.AccountID(acc.ID), logger.EntryID(id))
	return out, nil
}

func (s *service) Delete(ctx context.Context, acc *types.Account, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrEntryNotFound
	}
	sess, err := s.deps.Store.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire session: %w", err)
	}
	defer sess.Release()

	if err := sess.Entries().Delete(ctx, acc.ID, id); err != nil {
		return notFound(err)
	}
	s.log(ctx, "Delete").Info("entry deleted", logger.AccountID(acc.ID), logger.EntryID(id))
	return nil
}

// Summary ignora limit/offset: totaliza todo lo que matchea el filtro.
func (s *service) Summary(ctx context.Context, acc *types.Account, f types.EntryFilter) ([]types.CurrencyTotals, error) {
	f, err := normalizeFilter(f)
	if err != nil {
		return nil, err
	}
	f.Limit, f.Offset = 0, 0

	sess, err := s.deps.Store.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire session: %w", err)
	}
	defer sess.Release()

	out, err := sess.Entries().Summary(ctx, acc.ID, f)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	return out, nil
}

// ─── Helpers ───

func notFound(err error) error {
	if repository.IsNotFound(err) {
		return ErrEntryNotFound
	}
	return err
}

func validate(e *types.Entry) error {
	if !e.Kind.IsValid() {
		return validation.New("kind", validation.CodeInvalidFormat, "must be income or expense")
	}
	if e.AmountCents <= 0 {
		return validation.New("amount_cents", validation.CodeInvalidFormat, "must be greater than zero")
	}
	return validation.First(
		validation.Currency("currency", e.Currency),
		validation.MaxRunes("category", e.Category, maxCategoryLen),
		validation.MaxRunes("description", e.Description, maxDescriptionLen),
	)
}

func normalizeFilter(f types.EntryFilter) (types.EntryFilter, error) {
	if f.Kind != "" && !f.Kind.IsValid() {
		return f, validation.New("kind", validation.CodeInvalidFormat, "must be income or expense")
	}
	if f.Limit < 0 || f.Offset < 0 {
		return f, validation.New("limit", validation.CodeInvalidFormat, "must be non-negative")
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return f, validation.New("from", validation.CodeInvalidFormat, "must not be after to")
	}
	return f, nil
}

func toPatch(in dto.UpdateEntryRequest) (types.EntryPatch, error) {
	p := types.EntryPatch{AmountCents: in.AmountCents}
	if in.Kind != nil {
		k := types.EntryKind(strings.ToLower(strings.TrimSpace(*in.Kind)))
		p.Kind = &k
	}
	if in.Currency != nil {
		c := strings.ToUpper(strings.TrimSpace(*in.Currency))
		p.Currency = &c
	}
	if in.Category != nil {
		c := strings.TrimSpace(*in.Category)
		p.Category = &c
	}
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		p.Description = &d
	}
	if in.OccurredOn != nil {
		d, err := parseDate("occurred_on", *in.OccurredOn)
		if err != nil {
			return p, err
		}
		p.OccurredOn = &d
	}
	return p, nil
}

func parseDate(field, s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, validation.New(field, validation.CodeInvalidFormat, "must be YYYY-MM-DD")
	}
	return d, nil
}

func today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
