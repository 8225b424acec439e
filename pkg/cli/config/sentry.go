package config

import (
	"github.com/litigio/tramita/pkg/utils/errutil"
	"github.com/litigio/tramita/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Sentry holds CLI flags for error reporting
type Sentry struct {
	dsn string
	env string
}

// Flags returns CLI flags for Sentry configuration
func (s *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for error reporting (empty disables reporting)",
			Category:    "Monitoring",
			Sources:     cli.EnvVars("TRAMITA_SENTRY_DSN"),
			Destination: &s.dsn,
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment tag",
			Category:    "Monitoring",
			Value:       "production",
			Sources:     cli.EnvVars("TRAMITA_SENTRY_ENV"),
			Destination: &s.env,
		},
	}
}

// Configure initializes Sentry error reporting when a DSN is set
func (s *Sentry) Configure() error {
	if s.dsn == "" {
		return nil
	}
	if err := errutil.InitSentry(s.dsn, s.env); err != nil {
		return goerr.Wrap(err, "failed to initialize sentry")
	}
	logging.Default().Info("Sentry error reporting enabled", "environment", s.env)
	return nil
}
