package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/cli/config"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/types"
)

func cmdValidate() *cli.Command {
	var appCfg config.AppConfig

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the configuration file and print the resolved matrix",
		Flags:   appCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			matrix, approvers, err := appCfg.Configure()
			if err != nil {
				color.Red("✗ configuration invalid: %s", appCfg.Path())
				return goerr.Wrap(err, "configuration validation failed")
			}

			if appCfg.Path() == "" {
				color.Yellow("no config file given, showing built-in defaults")
			} else {
				color.Green("✓ %s is valid", appCfg.Path())
			}

			fmt.Printf("matrix version: %d\n", matrix.Version)
			fmt.Printf("matrix size:    %dx%d\n", matrix.Size, matrix.Size)
			fmt.Printf("bands:          LOW <= %d < MEDIUM <= %d < HIGH\n",
				matrix.LowThreshold, matrix.MediumThreshold)
			fmt.Printf("approvers:      %d\n", len(approvers))

			// Band threshold sweep so a config change can be eyeballed before
			// it goes live.
			low := color.New(color.FgGreen)
			medium := color.New(color.FgYellow)
			high := color.New(color.FgRed)
			for p := matrix.Size; p >= 1; p-- {
				for s := 1; s <= matrix.Size; s++ {
					level := p * s
					cell := fmt.Sprintf(" %3d", level)
					switch matrix.BandOf(level) {
					case types.BandLow:
						low.Print(cell)
					case types.BandMedium:
						medium.Print(cell)
					default:
						high.Print(cell)
					}
				}
				fmt.Println()
			}

			return nil
		},
	}
}
