package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/litigio/tramita/pkg/cli/config"
	httpctrl "github.com/litigio/tramita/pkg/controller/http"
	"github.com/litigio/tramita/pkg/service/archive"
	"github.com/litigio/tramita/pkg/usecase"
	"github.com/litigio/tramita/pkg/utils/errutil"
	"github.com/litigio/tramita/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var noAuthTenant string
	var tenantCfg config.Tenants
	var repoCfg config.Repository
	var storageCfg config.Storage
	var notifyCfg config.Notify
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("TRAMITA_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "no-auth-tenant",
			Usage:       "Skip authentication and serve the given tenant (development only). Example: --no-auth-tenant=escritorio-a",
			Category:    "Authentication",
			Sources:     cli.EnvVars("TRAMITA_NO_AUTH_TENANT"),
			Destination: &noAuthTenant,
		},
	}

	flags = append(flags, tenantCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, notifyCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			registry, err := tenantCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load tenant registry")
			}

			if err := sentryCfg.Configure(); err != nil {
				return err
			}
			defer errutil.FlushSentry()

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			store, err := storageCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize archive storage")
			}
			defer func() {
				if err := store.Close(); err != nil {
					logging.Default().Error("failed to close archive storage", "error", err.Error())
				}
			}()

			ucOpts := []usecase.Option{
				usecase.WithArchive(archive.New(store)),
			}

			notifier, err := notifyCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure notifications")
			}
			if notifier != nil {
				ucOpts = append(ucOpts, usecase.WithNotifier(notifier))
			}

			uc := usecase.New(repo, registry, ucOpts...)

			var httpOpts []httpctrl.Options
			if noAuthTenant != "" {
				if _, err := registry.Get(noAuthTenant); err != nil {
					return goerr.Wrap(err, "no-auth-tenant is not a registered tenant")
				}
				uc.Auth.SkipAuthn()
				httpOpts = append(httpOpts, httpctrl.WithNoAuthTenant(noAuthTenant))
				logging.Default().Warn("Running in no-auth mode (development only)", "tenant", noAuthTenant)
			}

			httpHandler, err := httpctrl.New(uc, registry, httpOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
