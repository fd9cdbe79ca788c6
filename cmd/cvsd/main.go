package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/cycloud0203/cvsd/pkg/config"
	"github.com/cycloud0203/cvsd/pkg/log"
)

// Version information - will be set at build time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// cfg is loaded by the app's Before hook.
var cfg *config.Config

func newApp() *cli.App {
	return &cli.App{
		Name:    "cvsd",
		Usage:   "DES reference model: verify, generate and trace test vectors",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config `NAME` searched in ., /etc/cvsd and ~/.cvsd, or a path to a yaml file",
				Value:   "cvsd",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"j"},
				Usage:   "Parallel verification workers `N` (default from config)",
			},
		},
		Before: setup,
		After: func(c *cli.Context) error {
			return log.Close()
		},
		Commands: []*cli.Command{
			verifyCommand,
			generateCommand,
			traceCommand,
			patternCommand,
			sortCommand,
			serveCommand,
			historyCommand,
			logsCommand,
			guideCommand,
		},
	}
}

func setup(c *cli.Context) error {
	var err error
	cfg, err = config.Load(c.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
		if err := cfg.Validate(); err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}
	log.SetStd(c.App.ErrWriter, cfg.Debug)
	log.MustInit(cfg.LogDB, cfg.Debug)
	log.Debug().Str("config", cfg.ConfigFile).Int("workers", cfg.Workers).Msg("configuration loaded")
	return nil
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
