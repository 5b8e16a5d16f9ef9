// Package server arma el handler HTTP con todas sus dependencias y lo sirve.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dropDatabas3/michelangelo/internal/cache"
	"github.com/dropDatabas3/michelangelo/internal/config"
	"github.com/dropDatabas3/michelangelo/internal/domain/repository"
	"github.com/dropDatabas3/michelangelo/internal/email"
	authctrl "github.com/dropDatabas3/michelangelo/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/michelangelo/internal/http/controllers/health"
	ledgerctrl "github.com/dropDatabas3/michelangelo/internal/http/controllers/ledger"
	profilectrl "github.com/dropDatabas3/michelangelo/internal/http/controllers/profile"
	socialctrl "github.com/dropDatabas3/michelangelo/internal/http/controllers/social"
	mw "github.com/dropDatabas3/michelangelo/internal/http/middlewares"
	"github.com/dropDatabas3/michelangelo/internal/http/router"
	authsvc "github.com/dropDatabas3/michelangelo/internal/http/services/auth"
	healthsvc "github.com/dropDatabas3/michelangelo/internal/http/services/health"
	ledgersvc "github.com/dropDatabas3/michelangelo/internal/http/services/ledger"
	profilesvc "github.com/dropDatabas3/michelangelo/internal/http/services/profile"
	socialsvc "github.com/dropDatabas3/michelangelo/internal/http/services/social"
	jwtx "github.com/dropDatabas3/michelangelo/internal/jwt"
	"github.com/dropDatabas3/michelangelo/internal/metrics"
	"github.com/dropDatabas3/michelangelo/internal/oauth/google"
	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
	"github.com/dropDatabas3/michelangelo/internal/security/password"
	"github.com/dropDatabas3/michelangelo/internal/store"
	"github.com/dropDatabas3/michelangelo/internal/store/pg"
)

// Options permite inyectar dependencias ya construidas (tests). Los campos
// nil se construyen a partir de la config.
type Options struct {
	Store    repository.Store
	Cache    cache.Client
	Mailer   email.Mailer
	Provider socialsvc.IdentityProvider
	Registry prometheus.Registerer
	Version  string
}

// App es el resultado del wiring.
type App struct {
	Handler http.Handler
	Store   repository.Store
	Tokens  *jwtx.Service

	closers []func()
}

// Close libera store y cache en orden inverso de creación.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Build construye store, cache, tokens, mailer, proveedor federado,
// services, controllers y router.
func Build(ctx context.Context, cfg *config.Config, opts Options) (_ *App, err error) {
	log := logger.L().With(logger.Layer("server"), logger.Op("Build"))
	app := &App{}
	defer func() {
		if err != nil {
			app.Close()
		}
	}()

	// 1. Store
	st := opts.Store
	if st == nil {
		if st, err = store.Open(ctx, cfg); err != nil {
			return nil, err
		}
		app.closers = append(app.closers, st.Close)
	}
	app.Store = st

	// 2. Cache (sólo la usa la denylist de revocación)
	kv := opts.Cache
	if kv == nil && cfg.Auth.Revocation.Enabled {
		if kv, err = cache.New(ctx, cfg); err != nil {
			return nil, err
		}
		c := kv
		app.closers = append(app.closers, func() { _ = c.Close() })
	}

	// 3. Tokens
	sessionTTL, err := cfg.SessionTTL()
	if err != nil {
		return nil, err
	}
	tokOpts := []jwtx.Option{
		jwtx.WithIssuer(cfg.JWT.Issuer),
		jwtx.WithTTLs(sessionTTL, cfg.Auth.Reset.TTL),
	}
	if cfg.Auth.Revocation.Enabled {
		tokOpts = append(tokOpts, jwtx.WithDenylist(jwtx.NewCacheDenylist(kv)))
	}
	tokens, err := jwtx.NewService([]byte(cfg.JWT.Secret), tokOpts...)
	if err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	app.Tokens = tokens

	// 4. Mailer y proveedor federado
	mailer := opts.Mailer
	if mailer == nil {
		mailer = email.New(cfg)
	}
	provider := opts.Provider
	if provider == nil && cfg.Providers.Google.Enabled {
		g := cfg.Providers.Google
		provider = socialsvc.NewGoogleProvider(google.New(g.ClientID, g.ClientSecret, g.RedirectURL, g.Scopes))
	}

	// 5. Services
	hasher := password.Hasher{Cost: cfg.Auth.BcryptCost}
	auth := authsvc.NewServices(authsvc.Deps{
		Store:            st,
		Tokens:           tokens,
		Hasher:           hasher,
		Mailer:           mailer,
		FrontendURL:      cfg.App.FrontendURL,
		UnifyLoginErrors: cfg.Auth.UnifyLoginErrors,
		ResetSingleUse:   cfg.Auth.Reset.SingleUse,
		DebugEchoLinks:   cfg.Email.DebugEchoLinks,
	})
	social := socialsvc.NewService(socialsvc.Deps{
		Store:       st,
		Tokens:      tokens,
		Hasher:      hasher,
		Provider:    provider,
		FrontendURL: cfg.App.FrontendURL,
	})
	profile := profilesvc.NewService(profilesvc.Deps{Store: st, Tokens: tokens})
	ledger := ledgersvc.NewService(ledgersvc.Deps{Store: st, DefaultCurrency: cfg.Ledger.DefaultCurrency})

	healthDeps := healthsvc.Deps{DBCheck: st.Ping, Version: opts.Version}
	if kv != nil {
		healthDeps.CacheCheck = kv.Ping
	}
	health := healthsvc.NewHealthService(healthDeps)

	// 6. Métricas
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	var pool func() *pgxpool.Pool
	if p, ok := st.(*pg.Store); ok {
		pool = p.Pool
	}
	if err := metrics.Register(reg, pool); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	// 7. Router
	r := router.New(router.Deps{
		Auth:               authctrl.NewControllers(auth),
		Social:             socialctrl.NewSocialController(social, cfg.App.FrontendURL),
		Profile:            profilectrl.NewProfileController(profile),
		Ledger:             ledgerctrl.NewLedgerController(ledger),
		Health:             healthctrl.NewHealthController(health),
		Resolver:           auth.Resolver,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Metrics:            metrics.Handler(),
	})
	app.Handler = mw.Chain(r, mw.WithRecover(), mw.WithRequestID())

	log.Info("handler ready",
		logger.String("storage", cfg.Storage.Driver),
		logger.Bool("revocation", cfg.Auth.Revocation.Enabled),
		logger.Bool("google", provider != nil),
	)
	return app, nil
}
