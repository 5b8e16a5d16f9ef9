// Package memory implementa repository.Store en memoria. Aplica las mismas
// restricciones de unicidad que Postgres; se usa en tests y con
// storage.driver=memory para correr local sin base.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dropDatabas3/michelangelo/internal/domain/repository"
	"github.com/dropDatabas3/michelangelo/internal/domain/types"
)

// ErrSessionReleased se devuelve al usar una sesión ya liberada.
var ErrSessionReleased = errors.New("memory: session released")

type Store struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[int64]types.Account
	entries  map[string]types.Entry

	open atomic.Int64
	now  func() time.Time
}

func New() *Store {
	return &Store{
		accounts: map[int64]types.Account{},
		entries:  map[string]types.Entry{},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// OpenSessions cuenta sesiones adquiridas y no liberadas.
func (s *Store) OpenSessions() int64 { return s.open.Load() }

func (s *Store) Acquire(ctx context.Context) (repository.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.open.Add(1)
	return &session{st: s}, nil
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }
func (s *Store) Close()                         {}

type session struct {
	st       *Store
	released atomic.Bool

	// dentro de InTx: parent es la sesión dueña y undo el log de deshacer
	parent *session
	undo   *[]func()
}

func (ss *session) Accounts() repository.AccountRepository { return accounts{ss} }
func (ss *session) Entries() repository.EntryRepository    { return entries{ss} }

// Release en la sesión de una tx no hace nada; la libera su dueña.
func (ss *session) Release() {
	if ss.parent != nil {
		return
	}
	if ss.released.CompareAndSwap(false, true) {
		ss.st.open.Add(-1)
	}
}

func (ss *session) check(ctx context.Context) error {
	if ss.parent != nil {
		return ss.parent.check(ctx)
	}
	if ss.released.Load() {
		return ErrSessionReleased
	}
	return ctx.Err()
}

// InTx registra el valor previo de cada clave que toca fn y, si fn falla,
// deshace sólo esas escrituras. Lo que otras sesiones escribieron en el
// medio queda intacto. No hay aislamiento de lecturas.
func (ss *session) InTx(ctx context.Context, fn func(tx repository.Session) error) error {
	if err := ss.check(ctx); err != nil {
		return err
	}
	if ss.undo != nil {
		// tx anidada: comparte el log de la externa
		return fn(ss)
	}
	var undo []func()
	tx := &session{st: ss.st, parent: ss, undo: &undo}
	if err := fn(tx); err != nil {
		st := ss.st
		st.mu.Lock()
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
		st.mu.Unlock()
		return err
	}
	return nil
}

// saveAccountLocked anota el estado previo de la cuenta id. Exige st.mu tomado.
func (ss *session) saveAccountLocked(id int64) {
	if ss.undo == nil {
		return
	}
	st := ss.st
	prev, ok := st.accounts[id]
	*ss.undo = append(*ss.undo, func() {
		if ok {
			st.accounts[id] = prev
		} else {
			delete(st.accounts, id)
		}
	})
}

// saveEntryLocked anota el estado previo del movimiento id. Exige st.mu tomado.
func (ss *session) saveEntryLocked(id string) {
	if ss.undo == nil {
		return
	}
	st := ss.st
	prev, ok := st.entries[id]
	*ss.undo = append(*ss.undo, func() {
		if ok {
			st.entries[id] = prev
		} else {
			delete(st.entries, id)
		}
	})
}

// ─── Accounts ───

type accounts struct{ ss *session }

func (r accounts) find(match func(types.Account) bool) (*types.Account, error) {
	st := r.ss.st
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, a := range st.accounts {
		if match(a) {
			out := a
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r accounts) GetByEmail(ctx context.Context, email string) (*types.Account, error) {
	if err := r.ss.check(ctx); err != nil {
		return nil, err
	}
	return r.find(func(a types.Account) bool { return strings.EqualFold(a.Email, email) })
}

func (r accounts) GetByUsername(ctx context.Context, username string) (*types.Account, error) {
	if err := r.ss.check(ctx); err != nil {
		return nil, err
	}
	return r.find(func(a types.Account) bool { return a.Username == username })
}

func (r accounts) GetByPublicID(ctx context.Context, publicID string) (*types.Account, error) {
	if err := r.ss.check(ctx); err != nil {
		return nil, err
	}
	return r.find(func(a types.Account) bool { return a.PublicID == publicID })
}

func (r accounts) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return exists(err)
}

func (r accounts) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return exists(err)
}

func exists(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case repository.IsNotFound(err):
		return false, nil
	default:
		return false, err
	}
}

// conflictLocked exige st.mu tomado.
func (st *Store) conflictLocked(a *types.Account) error {
	for id, other := range st.accounts {
		if id != a.ID && strings.EqualFold(other.Email, a.Email) {
			return &repository.ConflictError{Field: repository.FieldEmail}
		}
	}
	for id, other := range st.accounts {
		if id != a.ID && other.Username == a.Username {
			return &repository.ConflictError{Field: repository.FieldUsername}
		}
	}
	return nil
}

func (r accounts) Create(ctx context.Context, a *types.Account) error {
	if err := r.ss.check(ctx); err != nil {
		return err
	}
	st := r.ss.st
	st.mu.Lock()
	defer st.mu.Unlock()

	a.ID = 0
	if err := st.conflictLocked(a); err != nil {
		return err
	}
	for _, other := range st.accounts {
		if other.PublicID == a.PublicID {
			return &repository.ConflictError{Field: "public_id"}
		}
	}
	st.nextID++
	now := st.now()
	a.ID = st.nextID
	a.CreatedAt, a.UpdatedAt = now, now
	r.ss.saveAccountLocked(a.ID)
	st.accounts[a.ID] = *a
	return nil
}

func (r accounts) Update(ctx context.Context, a *types.Account) error {
	if err := r.ss.check(ctx); err != nil {
		return err
	}
	st := r.ss.st
	st.mu.Lock()
	defer st.mu.Unlock()

	cur, ok := st.accounts[a.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := st.conflictLocked(a); err != nil {
		return err
	}
	next := *a
	next.PublicID = cur.PublicID
	next.PasswordHash = cur.PasswordHash
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = st.now()
	r.ss.saveAccountLocked(a.ID)
	st.accounts[a.ID] = next
	a.UpdatedAt = next.UpdatedAt
	return nil
}

func (r accounts) UpdatePassword(ctx context.Context, accountID int64, hash string) error {
	if err := r.ss.check(ctx); err != nil {
		return err
	}
	st := r.ss.st
	st.mu.Lock()
	defer st.mu.Unlock()

	cur, ok := st.accounts[accountID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.PasswordHash = hash
	cur.UpdatedAt = st.now()
	r.ss.saveAccountLocked(accountID)
	st.accounts[accountID] = cur
	return nil
}

// ─── Entries ───

type entries struct{ ss *session }

func (r entries) Create(ctx context.Context, e *types.Entry) error {
	if err := r.ss.check(ctx); err != nil {
		return err
	}
	st := r.ss.st
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, dup := st.entries[e.ID]; dup {
		return &repository.ConflictError{Field: "id"}
	}
	now := st.now()
	e.CreatedAt, e.UpdatedAt = now, now
	r.ss.saveEntryLocked(e.ID)
	st.entries[e.ID] = *e
	return nil
}

func (r entries) Get(ctx context.Context, accountID int64, id string) (*types.Entry, error) {
	if err := r.ss.check(ctx); err != nil {
		return nil, err
	}
	st := r.ss.st
	st.mu.Lock()
	defer st.mu.Unlock()

	e, ok := st.entries[id]
	if !ok || e.AccountID != accountID {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r entries) owned(accountID int64, f types.EntryFilter) []types.Entry {
	st := r.ss.st
	st.mu.Lock()
	defer st.mu.Unlock()

	var out []types.Entry
	for _, e := range st.entries {
		if e.AccountID == accountID && f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func (r entries) List(ctx context.Context, accountID int64, f types.EntryFilter) ([]types.Entry, error) {
	if err := r.ss.check(ctx); err != nil {
		return nil, err
	}
	out := r.owned(accountID, f)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurredOn.Equal(out[j].OccurredOn) {
			return out[i].OccurredOn.After(out[j].OccurredOn)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if f.Offset >= len(out) {
		return []types.Entry{}, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r entries) Update(ctx context.Context, e *types.Entry) error {
	if err := r.ss.check(ctx); err != nil {
		return err
	}
	st := r.ss.st
	st.mu.Lock()
	defer st.mu.Unlock()

	cur, ok := st.entries[e.ID]
	if !ok || cur.AccountID != e.AccountID {
		return repository.ErrNotFound
	}
	e.CreatedAt = cur.CreatedAt
	e.UpdatedAt = st.now()
	r.ss.saveEntryLocked(e.ID)
	st.entries[e.ID] = *e
	return nil
}

func (r entries) Delete(ctx context.Context, accountID int64, id string) error {
	if err := r.ss.check(ctx); err != nil {
		return err
	}
	st := r.ss.st
	st.mu.Lock()
	defer st.mu.Unlock()

	cur, ok := st.entries[id]
	if !ok || cur.AccountID != accountID {
		return repository.ErrNotFound
	}
	r.ss.saveEntryLocked(id)
	delete(st.entries, id)
	return nil
}

func (r entries) Summary(ctx context.Context, accountID int64, f types.EntryFilter) ([]types.CurrencyTotals, error) {
	if err := r.ss.check(ctx); err != nil {
		return nil, err
	}
	byCur := map[string]*types.CurrencyTotals{}
	for _, e := range r.owned(accountID, f) {
		t, ok := byCur[e.Currency]
		if !ok {
			t = &types.CurrencyTotals{Currency: e.Currency}
			byCur[e.Currency] = t
		}
		if e.Kind == types.EntryIncome {
			t.IncomeCents += e.AmountCents
		} else {
			t.ExpenseCents += e.AmountCents
		}
	}
	out := make([]types.CurrencyTotals, 0, len(byCur))
	for _, t := range byCur {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out, nil
}
