package ledger

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/michelangelo/internal/domain/types"
	dto "github.com/dropDatabas3/michelangelo/internal/http/dto/ledger"
	"github.com/dropDatabas3/michelangelo/internal/store/memory"
	"github.com/dropDatabas3/michelangelo/internal/validation"
)

func newSvc(st *memory.Store) Service {
	return NewService(Deps{
		Store:           st,
		DefaultCurrency: "EUR",
		Now:             func() time.Time { return time.Date(2024, 6, 10, 23, 30, 0, 0, time.UTC) },
	})
}

var (
	ana = &types.Account{ID: 1}
	bob = &types.Account{ID: 2}
)

func TestAdd_DefaultsAndValidation(t *testing.T) {
	st := memory.New()
	svc := newSvc(st)
	ctx := context.Background()

	e, err := svc.Add(ctx, ana, dto.CreateEntryRequest{Kind: "Income", AmountCents: 1500})
	require.NoError(t, err)
	assert.Equal(t, types.EntryIncome, e.Kind)
	assert.Equal(t, "EUR", e.Currency)
	assert.Equal(t, "2024-06-10", e.OccurredOn.Format(dateLayout))

	bad := []dto.CreateEntryRequest{
		{Kind: "gift", AmountCents: 1},
		{Kind: "expense", AmountCents: 0},
		{Kind: "expense", AmountCents: 1, Currency: "euro"},
		{Kind: "expense", AmountCents: 1, Category: strings.Repeat("c", 65)},
		{Kind: "expense", AmountCents: 1, Description: strings.Repeat("d", 501)},
		{Kind: "expense", AmountCents: 1, OccurredOn: "10/06/2024"},
	}
	for _, in := range bad {
		_, err := svc.Add(ctx, ana, in)
		assert.ErrorIs(t, err, validation.ErrValidation, "%+v", in)
	}
	assert.Zero(t, st.OpenSessions())
}

func TestOwnership(t *testing.T) {
	st := memory.New()
	svc := newSvc(st)
	ctx := context.Background()

	e, err := svc.Add(ctx, ana, dto.CreateEntryRequest{Kind: "expense", AmountCents: 100, Currency: "usd"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, bob, e.ID)
	assert.ErrorIs(t, err, ErrEntryNotFound)
	_, err = svc.Update(ctx, bob, e.ID, dto.UpdateEntryRequest{Category: ptr("x")})
	assert.ErrorIs(t, err, ErrEntryNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, bob, e.ID), ErrEntryNotFound)

	_, err = svc.Get(ctx, ana, "not-a-uuid")
	assert.ErrorIs(t, err, ErrEntryNotFound)
	_, err = svc.Get(ctx, ana, uuid.NewString())
	assert.ErrorIs(t, err, ErrEntryNotFound)

	got, err := svc.Get(ctx, ana, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "USD", got.Currency)

	require.NoError(t, svc.Delete(ctx, ana, e.ID))
	_, err = svc.Get(ctx, ana, e.ID)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestUpdate_PartialAndRevalidated(t *testing.T) {
	st := memory.New()
	svc := newSvc(st)
	ctx := context.Background()

	e, err := svc.Add(ctx, ana, dto.CreateEntryRequest{Kind: "expense", AmountCents: 100, Category: "food", OccurredOn: "2024-06-01"})
	require.NoError(t, err)

	amount := int64(250)
	got, err := svc.Update(ctx, ana, e.ID, dto.UpdateEntryRequest{AmountCents: &amount, OccurredOn: ptr("2024-06-02")})
	require.NoError(t, err)
	assert.EqualValues(t, 250, got.AmountCents)
	assert.Equal(t, "food", got.Category)
	assert.Equal(t, "2024-06-02", got.OccurredOn.Format(dateLayout))

	neg := int64(-1)
	_, err = svc.Update(ctx, ana, e.ID, dto.UpdateEntryRequest{AmountCents: &neg})
	assert.ErrorIs(t, err, validation.ErrValidation)

	cur, err := svc.Get(ctx, ana, e.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 250, cur.AmountCents, "failed update leaves entry untouched")
}

func TestListAndSummary(t *testing.T) {
	st := memory.New()
	svc := newSvc(st)
	ctx := context.Background()

	add := func(kind string, amount int64, cur, on string) {
		_, err := svc.Add(ctx, ana, dto.CreateEntryRequest{Kind: kind, AmountCents: amount, Currency: cur, OccurredOn: on})
		require.NoError(t, err)
	}
	add("income", 10000, "USD", "2024-03-01")
	add("expense", 2500, "USD", "2024-03-03")
	add("expense", 700, "EUR", "2024-03-02")
	_, err := svc.Add(ctx, bob, dto.CreateEntryRequest{Kind: "income", AmountCents: 1, Currency: "USD"})
	require.NoError(t, err)

	list, f, err := svc.List(ctx, ana, types.EntryFilter{})
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, f.Limit)
	require.Len(t, list, 3)
	assert.Equal(t, "2024-03-03", list[0].OccurredOn.Format(dateLayout))

	_, f, err = svc.List(ctx, ana, types.EntryFilter{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, f.Limit)

	from := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	_, _, err = svc.List(ctx, ana, types.EntryFilter{From: &from, To: &to})
	assert.ErrorIs(t, err, validation.ErrValidation)
	_, _, err = svc.List(ctx, ana, types.EntryFilter{Kind: "gift"})
	assert.ErrorIs(t, err, validation.ErrValidation)

	sum, err := svc.Summary(ctx, ana, types.EntryFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, sum, 2)
	assert.Equal(t, "EUR", sum[0].Currency)
	assert.EqualValues(t, -700, sum[0].BalanceCents())
	assert.EqualValues(t, 7500, sum[1].BalanceCents())
}

func ptr[T any](v T) *T { return &v }
