package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/cli/config"
	httpctrl "github.com/DataRockMyWorld/safesphere-risk/pkg/controller/http"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/service/authz"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/service/worker"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/usecase"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var allowAnyApprover bool
	var sweepInterval time.Duration
	var appCfg config.AppConfig
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("SAFESPHERE_ADDR"),
			Destination: &addr,
		},
		&cli.BoolFlag{
			Name:        "allow-any-approver",
			Usage:       "Let any non-empty actor approve assessments (development only)",
			Sources:     cli.EnvVars("SAFESPHERE_ALLOW_ANY_APPROVER"),
			Destination: &allowAnyApprover,
		},
		&cli.DurationFlag{
			Name:        "review-sweep-interval",
			Usage:       "How often the overdue review sweep runs (0 disables it)",
			Value:       time.Hour,
			Sources:     cli.EnvVars("SAFESPHERE_REVIEW_SWEEP_INTERVAL"),
			Destination: &sweepInterval,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			matrix, approvers, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load configuration")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			ucOpts := []usecase.Option{}
			switch {
			case allowAnyApprover:
				logging.Default().Warn("Running with open approval roster (development only)")
				ucOpts = append(ucOpts, usecase.WithAuthorizer(authz.AllowAll{}))
			case len(approvers) > 0:
				logging.Default().Info("Approval roster loaded", "approvers", len(approvers))
				ucOpts = append(ucOpts, usecase.WithAuthorizer(authz.NewStatic(approvers)))
			default:
				// No roster configured: every approve call is denied. A config
				// mistake should not silently open the approval gate.
				logging.Default().Warn("No approvers configured, approval requests will be denied")
			}

			uc := usecase.New(repo, matrix, ucOpts...)

			var sweep *worker.ReviewSweepWorker
			if sweepInterval > 0 {
				sweep = worker.NewReviewSweepWorker(repo, sweepInterval)
				if err := sweep.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start review sweep worker")
				}
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server",
					"addr", addr,
					"backend", repoCfg.Backend(),
					"matrix_version", matrix.Version,
				)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				if sweep != nil {
					sweep.Stop()
				}

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
