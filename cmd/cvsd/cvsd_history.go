package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/cycloud0203/cvsd/internal/fn"
	"github.com/cycloud0203/cvsd/pkg/appdir"
	"github.com/cycloud0203/cvsd/pkg/store"
)

var historyCommand = &cli.Command{
	Name:      "history",
	Usage:     "List recorded verification runs",
	UsageText: "cvsd history [-n COUNT] [--run ID]",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Usage:   "Number of runs `COUNT` to list",
			Value:   20,
		},
		&cli.StringFlag{
			Name:  "run",
			Usage: "Show the mismatches of run `ID`",
		},
	},
	Action: historyCmd,
}

func openHistory() (*store.Store, error) {
	path, err := appdir.Path(cfg.HistoryDB)
	if err != nil {
		return nil, err
	}
	return store.Open(path)
}

func historyCmd(c *cli.Context) error {
	st, err := openHistory()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	defer st.Close()
	w := c.App.Writer

	if c.IsSet("run") {
		id, err := uuid.Parse(c.String("run"))
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: invalid run id: %v", err), 1)
		}
		ms, err := st.Mismatches(c.Context, id)
		if errors.Is(err, store.ErrRunNotFound) {
			return cli.Exit(fmt.Sprintf("Error: no run %s", id), 1)
		}
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}
		if len(ms) == 0 {
			fmt.Fprintf(w, "Run %s passed.\n", id)
		}
		for _, m := range ms {
			fmt.Fprintln(w, m)
		}
		return nil
	}

	runs, err := st.Runs(c.Context, c.Int("count"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	if len(runs) == 0 {
		fmt.Fprintln(c.App.ErrWriter, "No runs recorded.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tWHEN\tSUITE\tCASES\tFAILURES\tTOOK")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, humanize.Time(r.CreatedAt), r.Suite, humanize.Comma(int64(r.Total)),
			fn.T(r.Passed(), "-", fmt.Sprint(r.Failures)), r.Duration.Round(time.Millisecond))
	}
	return tw.Flush()
}
