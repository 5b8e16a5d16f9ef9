package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/michelangelo/internal/domain/repository"
	"github.com/dropDatabas3/michelangelo/internal/domain/types"
)

func acquire(t *testing.T, st *Store) repository.Session {
	t.Helper()
	sess, err := st.Acquire(context.Background())
	require.NoError(t, err)
	t.Cleanup(sess.Release)
	return sess
}

func TestAccounts_UniqueEmailAndUsername(t *testing.T) {
	ctx := context.Background()
	sess := acquire(t, New())
	repo := sess.Accounts()

	a := &types.Account{PublicID: "p1", Username: "ana", Email: "ana@example.com"}
	require.NoError(t, repo.Create(ctx, a))
	require.EqualValues(t, 1, a.ID)

	err := repo.Create(ctx, &types.Account{PublicID: "p2", Username: "other", Email: "ANA@example.com"})
	require.ErrorIs(t, err, repository.ErrConflict)
	assert.Equal(t, repository.FieldEmail, repository.ConflictField(err))

	err = repo.Create(ctx, &types.Account{PublicID: "p3", Username: "ana", Email: "x@example.com"})
	assert.Equal(t, repository.FieldUsername, repository.ConflictField(err))

	// email se reporta antes que username
	err = repo.Create(ctx, &types.Account{PublicID: "p4", Username: "ana", Email: "ana@example.com"})
	assert.Equal(t, repository.FieldEmail, repository.ConflictField(err))

	got, err := repo.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.PublicID)

	_, err = repo.GetByUsername(ctx, "ANA")
	assert.True(t, repository.IsNotFound(err), "username match is exact")
}

func TestAccounts_ConcurrentCreateOneWinner(t *testing.T) {
	st := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess, err := st.Acquire(ctx)
			if err != nil {
				errs[i] = err
				return
			}
			defer sess.Release()
			errs[i] = sess.Accounts().Create(ctx, &types.Account{
				PublicID: string(rune('a' + i)),
				Username: string(rune('a' + i)),
				Email:    "race@example.com",
			})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, repository.ErrConflict)
	}
	assert.Equal(t, 1, ok)
	assert.Zero(t, st.OpenSessions())
}

func TestSession_ReleaseIsIdempotent(t *testing.T) {
	st := New()
	sess, err := st.Acquire(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, st.OpenSessions())

	sess.Release()
	sess.Release()
	require.Zero(t, st.OpenSessions())

	_, err = sess.Accounts().GetByEmail(context.Background(), "x@example.com")
	require.ErrorIs(t, err, ErrSessionReleased)
}

func TestSession_InTxRollsBack(t *testing.T) {
	ctx := context.Background()
	sess := acquire(t, New())
	a := &types.Account{PublicID: "p1", Username: "ana", Email: "ana@example.com", PasswordHash: "old"}
	require.NoError(t, sess.Accounts().Create(ctx, a))

	boom := errors.New("boom")
	err := sess.InTx(ctx, func(tx repository.Session) error {
		require.NoError(t, tx.Accounts().UpdatePassword(ctx, a.ID, "new"))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := sess.Accounts().GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "old", got.PasswordHash)
}

func TestSession_InTxRollbackKeepsOtherSessionsWrites(t *testing.T) {
	ctx := context.Background()
	st := New()
	a := acquire(t, st)
	b := acquire(t, st)

	ana := &types.Account{PublicID: "p1", Username: "ana", Email: "ana@example.com", PasswordHash: "old"}
	require.NoError(t, a.Accounts().Create(ctx, ana))
	require.NoError(t, a.Entries().Create(ctx, &types.Entry{
		ID: "e1", AccountID: ana.ID, Kind: types.EntryIncome, AmountCents: 100, Currency: "USD",
	}))

	boom := errors.New("boom")
	err := a.InTx(ctx, func(tx repository.Session) error {
		require.NoError(t, tx.Accounts().UpdatePassword(ctx, ana.ID, "new"))
		require.NoError(t, tx.Entries().Delete(ctx, ana.ID, "e1"))
		require.NoError(t, tx.Entries().Create(ctx, &types.Entry{
			ID: "e2", AccountID: ana.ID, Kind: types.EntryExpense, AmountCents: 50, Currency: "USD",
		}))
		// otra sesión confirma en el medio
		require.NoError(t, b.Accounts().Create(ctx, &types.Account{PublicID: "p2", Username: "bob", Email: "bob@x.io"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	bob, err := b.Accounts().GetByEmail(ctx, "bob@x.io")
	require.NoError(t, err)
	assert.Equal(t, "bob", bob.Username)

	got, err := a.Accounts().GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "old", got.PasswordHash)
	_, err = a.Entries().Get(ctx, ana.ID, "e1")
	assert.NoError(t, err)
	_, err = a.Entries().Get(ctx, ana.ID, "e2")
	assert.True(t, repository.IsNotFound(err))
}

func TestSession_InTxReleaseIsOwnedByParent(t *testing.T) {
	ctx := context.Background()
	st := New()
	sess, err := st.Acquire(ctx)
	require.NoError(t, err)

	require.NoError(t, sess.InTx(ctx, func(tx repository.Session) error {
		tx.Release()
		_, err := tx.Accounts().EmailExists(ctx, "ana@example.com")
		return err
	}))
	assert.Equal(t, int64(1), st.OpenSessions())

	sess.Release()
	assert.Zero(t, st.OpenSessions())
	err = sess.InTx(ctx, func(repository.Session) error { return nil })
	assert.ErrorIs(t, err, ErrSessionReleased)
}

func TestEntries_OwnershipOrderingAndSummary(t *testing.T) {
	ctx := context.Background()
	sess := acquire(t, New())
	repo := sess.Entries()

	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	mk := func(id string, owner int64, kind types.EntryKind, amount int64, cur string, on time.Time) {
		require.NoError(t, repo.Create(ctx, &types.Entry{
			ID: id, AccountID: owner, Kind: kind, AmountCents: amount, Currency: cur, OccurredOn: on,
		}))
	}
	mk("e1", 1, types.EntryIncome, 10000, "USD", day(1))
	mk("e2", 1, types.EntryExpense, 2500, "USD", day(3))
	mk("e3", 1, types.EntryExpense, 700, "EUR", day(2))
	mk("e4", 2, types.EntryIncome, 999, "USD", day(4))

	_, err := repo.Get(ctx, 1, "e4")
	require.True(t, repository.IsNotFound(err))
	require.True(t, repository.IsNotFound(repo.Delete(ctx, 1, "e4")))

	list, err := repo.List(ctx, 1, types.EntryFilter{})
	require.NoError(t, err)
	ids := []string{}
	for _, e := range list {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"e2", "e3", "e1"}, ids)

	page, err := repo.List(ctx, 1, types.EntryFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "e3", page[0].ID)

	from := day(2)
	onlyExp, err := repo.List(ctx, 1, types.EntryFilter{Kind: types.EntryExpense, From: &from})
	require.NoError(t, err)
	assert.Len(t, onlyExp, 2)

	sum, err := repo.Summary(ctx, 1, types.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, sum, 2)
	assert.Equal(t, "EUR", sum[0].Currency)
	assert.EqualValues(t, -700, sum[0].BalanceCents())
	assert.Equal(t, "USD", sum[1].Currency)
	assert.EqualValues(t, 7500, sum[1].BalanceCents())
}
