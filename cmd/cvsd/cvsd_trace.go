package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/cycloud0203/cvsd/pkg/des"
	"github.com/cycloud0203/cvsd/pkg/trace"
	"github.com/cycloud0203/cvsd/pkg/vector"
)

var traceCommand = &cli.Command{
	Name:      "trace",
	Usage:     "Run one block cycle by cycle",
	UsageText: "cvsd trace --key HEX --data HEX [--decrypt] [--dot PATH] [--svg PATH]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "key",
			Aliases:  []string{"k"},
			Usage:    "64-bit key as up to 16 hex digits `HEX`",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "data",
			Aliases:  []string{"d"},
			Usage:    "64-bit block as up to 16 hex digits `HEX`",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "decrypt",
			Usage: "Decrypt instead of encrypt",
		},
		&cli.StringFlag{
			Name:  "dot",
			Usage: "Also write the round graph in Graphviz DOT to `PATH`",
		},
		&cli.StringFlag{
			Name:  "svg",
			Usage: "Also render the round graph as SVG to `PATH`",
		},
	},
	Action: traceCmd,
}

func traceCmd(c *cli.Context) error {
	key, err := vector.ParseHex64(c.String("key"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: key: %v", err), 1)
	}
	data, err := vector.ParseHex64(c.String("data"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: data: %v", err), 1)
	}
	t := des.CryptTrace(data, key, c.Bool("decrypt"))
	if err := trace.WriteText(c.App.Writer, t); err != nil {
		return err
	}

	if path := c.String("dot"); path != "" {
		if err := os.WriteFile(path, []byte(trace.DOT(t)), 0o644); err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}
	}
	if path := c.String("svg"); path != "" {
		svg, err := trace.SVG(c.Context, t)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error rendering graph: %v", err), 1)
		}
		if err := os.WriteFile(path, svg, 0o644); err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}
	}
	return nil
}
