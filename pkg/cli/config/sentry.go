package config

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/utils/logging"
)

// Sentry holds CLI flags for error reporting configuration
type Sentry struct {
	dsn string `masq:"secret"`
	env string
}

// Flags returns CLI flags for Sentry configuration
func (s *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for error reporting (disabled when empty)",
			Category:    "Monitoring",
			Sources:     cli.EnvVars("SAFESPHERE_SENTRY_DSN"),
			Destination: &s.dsn,
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment name",
			Value:       "production",
			Category:    "Monitoring",
			Sources:     cli.EnvVars("SAFESPHERE_SENTRY_ENV"),
			Destination: &s.env,
		},
	}
}

// Configure initializes the Sentry SDK when a DSN is set. The returned closer
// flushes pending events.
func (s *Sentry) Configure(version string) (func(), error) {
	if s.dsn == "" {
		return func() {}, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         s.dsn,
		Environment: s.env,
		Release:     version,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to initialize sentry")
	}

	logging.Default().Info("Sentry error reporting enabled", "environment", s.env)

	return func() {
		sentry.Flush(2 * time.Second)
	}, nil
}
