package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/michelangelo/internal/config"
	"github.com/dropDatabas3/michelangelo/internal/http/server"
	jwtx "github.com/dropDatabas3/michelangelo/internal/jwt"
	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
	"github.com/dropDatabas3/michelangelo/internal/store"
)

// version se pisa con -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// .env es opcional; las variables del entorno real tienen prioridad.
	_ = godotenv.Load()

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:          "michelangelo",
		Short:        "API de cuentas y libro personal",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", envOr("CONFIG_PATH", ""), "ruta al YAML de configuración (env CONFIG_PATH)")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, err
		}
		logger.Init(logger.Config{
			Env:         cfg.App.Env,
			Level:       cfg.Log.Level,
			ServiceName: "michelangelo",
			Version:     version,
		})
		return cfg, nil
	}

	root.AddCommand(
		newServeCmd(load),
		newMigrateCmd(load),
		newTokenCmd(load),
	)
	return root
}

type loader func() (*config.Config, error)

func newServeCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := server.Build(ctx, cfg, server.Options{Version: version})
			if err != nil {
				logger.L().Error("wiring failed", logger.Err(err))
				return err
			}
			defer app.Close()

			return server.ListenAndServe(ctx, server.New(cfg, app.Handler))
		},
	}
}

func newMigrateCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones de Postgres (goose)",
	}
	for _, dir := range []string{"up", "down", "status"} {
		dir := dir
		cmd.AddCommand(&cobra.Command{
			Use:   dir,
			Short: "goose " + dir,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := load()
				if err != nil {
					return err
				}
				defer func() { _ = logger.Sync() }()
				// sin auto-migrate al abrir: la dirección la elige el comando
				cfg.Flags.Migrate = false

				ctx := cmd.Context()
				st, err := store.Open(ctx, cfg)
				if err != nil {
					return err
				}
				defer st.Close()

				if err := store.Migrate(ctx, st, dir); err != nil {
					return err
				}
				logger.L().Info("migrate done", logger.String("direction", dir), logger.String("driver", cfg.Storage.Driver))
				return nil
			},
		})
	}
	return cmd
}

func newTokenCmd(load loader) *cobra.Command {
	var purpose string

	verify := &cobra.Command{
		Use:   "verify <jwt>",
		Short: "Verifica un token con el secreto configurado y muestra sus claims",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			tokens, err := jwtx.NewService([]byte(cfg.JWT.Secret), jwtx.WithIssuer(cfg.JWT.Issuer))
			if err != nil {
				return err
			}
			claims, err := tokens.Verify(cmd.Context(), args[0], jwtx.Purpose(purpose))
			if err != nil {
				return err
			}
			out, _ := json.MarshalIndent(claims, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	verify.Flags().StringVar(&purpose, "purpose", string(jwtx.PurposeSession), "session|reset|oauth_state")

	cmd := &cobra.Command{Use: "token", Short: "Utilidades de tokens"}
	cmd.AddCommand(verify)
	return cmd
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
