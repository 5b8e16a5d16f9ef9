package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/michelangelo/internal/config"
	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
)

const shutdownTimeout = 15 * time.Second

// New arma el http.Server con los timeouts de la config.
func New(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h,
		ReadTimeout:       config.Duration(cfg.Server.ReadTimeout, 10*time.Second),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      config.Duration(cfg.Server.WriteTimeout, 30*time.Second),
		IdleTimeout:       120 * time.Second,
	}
}

// ListenAndServe sirve hasta que ctx termine y luego hace shutdown ordenado:
// deja de aceptar conexiones y espera a los requests en vuelo.
func ListenAndServe(ctx context.Context, srv *http.Server) error {
	log := logger.L().With(logger.Layer("server"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})
	return g.Wait()
}
