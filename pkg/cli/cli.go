// Package cli provides the command-line interface for interact.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/interact/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "targets",
		Aliases: []string{"t"},
		Usage:   "Target registry file (targets.yaml)",
		EnvVars: []string{"INTERACT_TARGETS"},
	},
	&cli.StringFlag{
		Name:    "appium-url",
		Usage:   "Appium server URL for UI strategies",
		Value:   "http://127.0.0.1:4723",
		EnvVars: []string{"APPIUM_URL"},
	},
	&cli.StringFlag{
		Name:    "session-id",
		Usage:   "Existing Appium session to attach to",
		EnvVars: []string{"APPIUM_SESSION_ID"},
	},
	&cli.StringFlag{
		Name:    "api-url",
		Usage:   "Weather API base URL for HTTP strategies",
		Value:   "https://data.weather.gov.hk",
		EnvVars: []string{"WEATHER_API_URL"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging",
		EnvVars: []string{"INTERACT_VERBOSE"},
	},
	&cli.BoolFlag{
		Name:  "no-ansi",
		Usage: "Disable ANSI colors",
	},
	&cli.StringFlag{
		Name:  "log-file",
		Usage: "Append log records to this file instead of stderr",
	},
}

// Execute runs the CLI.
func Execute() {
	// A .env next to the registry is a convenience for local runs.
	_ = godotenv.Load()

	app := &cli.App{
		Name:    "interact",
		Usage:   "Resilient target resolution for mobile and API tests",
		Version: Version,
		Description: `Interact resolves logical targets through ordered fallback
strategies with bounded retries and backoff.

Examples:
  interact resolve humidity-day2
  interact resolve 9-day-forecast-endpoint --raw
  interact targets -t targets.yaml`,
		Flags: GlobalFlags,
		Before: func(c *cli.Context) error {
			opts := logger.Options{
				Verbose: c.Bool("verbose"),
				NoColor: c.Bool("no-ansi"),
			}
			if path := c.String("log-file"); path != "" {
				return logger.InitFile(path, opts)
			}
			logger.Init(os.Stderr, opts)
			return nil
		},
		Commands: []*cli.Command{
			resolveCommand,
			targetsCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
