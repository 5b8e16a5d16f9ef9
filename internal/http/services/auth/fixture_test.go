package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dropDatabas3/michelangelo/internal/cache"
	"github.com/dropDatabas3/michelangelo/internal/email"
	jwtx "github.com/dropDatabas3/michelangelo/internal/jwt"
	"github.com/dropDatabas3/michelangelo/internal/security/password"
	"github.com/dropDatabas3/michelangelo/internal/store/memory"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type captureMailer struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
}

func (m *captureMailer) Send(_ context.Context, msg email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *captureMailer) last(t *testing.T) email.Message {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1]
}

type fixture struct {
	store  *memory.Store
	clock  *clock
	mailer *captureMailer
	deps   Deps
	svcs   Services
}

type fixtureOpt func(*Deps, *[]jwtx.Option)

func withUnify() fixtureOpt { return func(d *Deps, _ *[]jwtx.Option) { d.UnifyLoginErrors = true } }

// withRevocation activa la denylist en memoria y, si single, el reset de un solo uso.
func withRevocation(single bool) fixtureOpt {
	return func(d *Deps, o *[]jwtx.Option) {
		*o = append(*o, jwtx.WithDenylist(jwtx.NewCacheDenylist(cache.NewMemory("test"))))
		d.ResetSingleUse = single
	}
}

func newFixture(t *testing.T, opts ...fixtureOpt) *fixture {
	t.Helper()
	f := &fixture{
		store:  memory.New(),
		clock:  &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		mailer: &captureMailer{},
	}
	f.deps = Deps{
		Store:       f.store,
		Hasher:      password.Hasher{Cost: bcrypt.MinCost},
		Mailer:      f.mailer,
		FrontendURL: "http://front.test/",
	}
	jwtOpts := []jwtx.Option{jwtx.WithClock(f.clock.now)}
	for _, o := range opts {
		o(&f.deps, &jwtOpts)
	}
	tokens, err := jwtx.NewService([]byte("test-secret-test-secret-test-secret"), jwtOpts...)
	require.NoError(t, err)
	f.deps.Tokens = tokens
	f.svcs = NewServices(f.deps)
	t.Cleanup(func() { require.Zero(t, f.store.OpenSessions(), "leaked store sessions") })
	return f
}

var errBoom = errors.New("boom")
