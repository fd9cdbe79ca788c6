package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/cycloud0203/cvsd/pkg/log"
)

// timeFormats are tried in order when a time spec is not a duration.
var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimeSpec reads spec as a duration back from now ("1h", "30m") or
// as an absolute timestamp.
func parseTimeSpec(spec string) (time.Time, error) {
	if d, err := time.ParseDuration(spec); err == nil {
		return time.Now().Add(-d), nil
	}
	for _, layout := range timeFormats {
		if ts, err := time.Parse(layout, spec); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time specification: '%s'. Use relative duration (e.g., '1h', '30m') or absolute format (e.g., '2023-10-27T15:04:05Z')", spec)
}

const logsCommandHelpTemplate = `NAME:
   {{.HelpName}} - {{.Usage}}

USAGE:
   {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[command options]{{end}}
{{if .Description}}
DESCRIPTION:
   {{.Description | Indent 4}}
{{end}}
MODES (choose one; defaults to --last if no mode specified):
     --last                 Retrieve the most recent N log entries.
     --since                Retrieve logs since a specific start time up to now.
     --between              Retrieve logs between a specific start and end time.

OPTIONS:
{{range .VisibleFlags}}   {{.}}
{{end}}
TIME SPECIFICATION (<time_spec>):
     1. Relative Duration: "5m" (5 minutes ago), "1h30m" (90 minutes ago).
     2. Absolute Timestamp: "2025-10-27T15:04:05Z", "2025-10-27 10:00:00", "2025-10-27".

EXAMPLES:
     cvsd logs -n 50
     cvsd logs --since -s 1h --pretty
     cvsd logs --between -s "2025-10-20" -e "2025-10-25" --limit 2000

`

var logsCommand = &cli.Command{
	Name:               "logs",
	Usage:              "Retrieve JSON log entries from the log database",
	UsageText:          "cvsd logs [--last|--since|--between] [mode options]",
	Description:        `Reads the events every command records in the log database (log_db under ~/.cvsd).`,
	CustomHelpTemplate: logsCommandHelpTemplate,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "pretty",
			Aliases: []string{"p"},
			Usage:   "Print one readable line per entry instead of raw JSON",
		},
		&cli.BoolFlag{
			Name:  "last",
			Usage: "Mode: Retrieve the most recent N log entries (default)",
		},
		&cli.BoolFlag{
			Name:  "since",
			Usage: "Mode: Retrieve logs since a specific start time",
		},
		&cli.BoolFlag{
			Name:  "between",
			Usage: "Mode: Retrieve logs between a specific start and end time",
		},
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Usage:   "Number of entries for --last mode `NUMBER`",
			Value:   100,
		},
		&cli.StringFlag{
			Name:    "start",
			Aliases: []string{"s"},
			Usage:   "Start time for --since/--between `TIME_SPEC`",
		},
		&cli.StringFlag{
			Name:    "end",
			Aliases: []string{"e"},
			Usage:   "End time for --between `TIME_SPEC`",
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"l"},
			Usage:   "Max entries for --since/--between `NUMBER`",
			Value:   log.DefaultLimit,
		},
	},
	Action: logsCmd,
}

func logsCmd(c *cli.Context) error {
	isLast, isSince, isBetween := c.Bool("last"), c.Bool("since"), c.Bool("between")
	modeCount := 0
	for _, set := range []bool{isLast, isSince, isBetween} {
		if set {
			modeCount++
		}
	}
	if modeCount == 0 {
		isLast = true
	} else if modeCount > 1 {
		return cli.Exit("Error: Only one mode flag (--last, --since, --between) can be specified at a time.", 1)
	}

	var (
		results      []log.LogEntry
		retrievalErr error
	)
	switch {
	case isLast:
		count := c.Int("count")
		if count <= 0 {
			return cli.Exit("Error: --count (-n) must be a positive number.", 1)
		}
		results, retrievalErr = log.GetLastNLogs(count)
	case isSince:
		if !c.IsSet("start") {
			return cli.Exit("Error: --start (-s) flag is required for --since mode.", 1)
		}
		start, err := parseTimeSpec(c.String("start"))
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error parsing start time: %v", err), 1)
		}
		results, retrievalErr = log.GetLogsSince(start, c.Int("limit"))
	case isBetween:
		if !c.IsSet("start") || !c.IsSet("end") {
			return cli.Exit("Error: --start (-s) and --end (-e) are required for --between mode.", 1)
		}
		start, err := parseTimeSpec(c.String("start"))
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error parsing start time: %v", err), 1)
		}
		end, err := parseTimeSpec(c.String("end"))
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error parsing end time: %v", err), 1)
		}
		if start.After(end) {
			fmt.Fprintf(c.App.ErrWriter, "Warning: Start time (%s) is after end time (%s).\n", start.Format(time.RFC3339), end.Format(time.RFC3339))
		}
		results, retrievalErr = log.GetLogsBetween(start, end, c.Int("limit"))
	}

	if retrievalErr != nil {
		if errors.Is(retrievalErr, log.ErrNotInitialized) {
			return cli.Exit("Internal Error: Logger DB handle became unavailable.", 1)
		}
		return cli.Exit(fmt.Sprintf("Error retrieving logs: %v", retrievalErr), 1)
	}
	if len(results) == 0 {
		fmt.Fprintln(c.App.ErrWriter, "No log entries found matching the criteria.")
		return nil
	}
	for _, entry := range results {
		if c.Bool("pretty") {
			writePretty(c.App.Writer, entry)
		} else {
			fmt.Fprintln(c.App.Writer, entry.LogData)
		}
	}
	return nil
}

// writePretty prints time, level and message, then the remaining fields.
func writePretty(w io.Writer, entry log.LogEntry) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(entry.LogData), &fields); err != nil {
		fmt.Fprintln(w, entry.LogData)
		return
	}
	fmt.Fprintf(w, "%v %-5v %v", fields["time"], fields["level"], fields["message"])
	for k, v := range fields {
		switch k {
		case "time", "level", "message":
		default:
			fmt.Fprintf(w, " %s=%v", k, v)
		}
	}
	fmt.Fprintln(w)
}
