package cli

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/cli/config"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/usecase"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/utils/logging"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/utils/safe"
)

func cmdImport() *cli.Command {
	var filePath string
	var appCfg config.AppConfig
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "CSV file to import",
			Required:    true,
			Destination: &filePath,
		},
	}
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "import",
		Aliases: []string{"i"},
		Usage:   "Bulk import assessments from a CSV file",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			matrix, _, err := appCfg.Configure()
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

			f, err := os.Open(filePath)
			if err != nil {
				return goerr.Wrap(err, "failed to open import file", goerr.V("path", filePath))
			}
			defer safe.Close(ctx, f)

			uc := usecase.New(repo, matrix)
			report, err := uc.Import.Import(ctx, f)
			if err != nil {
				return goerr.Wrap(err, "import failed")
			}

			color.Green("✓ %d row(s) imported (batch %s)", report.Succeeded, report.BatchID)
			for _, failed := range report.Failed {
				color.Red("✗ row %d: %s", failed.Row, failed.Error)
			}
			if len(report.Failed) > 0 {
				return goerr.New("some rows were rejected",
					goerr.V("succeeded", report.Succeeded),
					goerr.V("failed", len(report.Failed)),
				)
			}

			return nil
		},
	}
}
