package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/cycloud0203/cvsd/internal/fn"
	"github.com/cycloud0203/cvsd/pkg/des"
	"github.com/cycloud0203/cvsd/pkg/log"
	"github.com/cycloud0203/cvsd/pkg/trace"
	"github.com/cycloud0203/cvsd/pkg/verify"
)

var verifyCommand = &cli.Command{
	Name:      "verify",
	Usage:     "Check the model against pattern1 and produce pattern2 golden data",
	UsageText: "cvsd verify [--case N] [--verbose] [--no-generate] [--no-history]",
	Description: `Reads the pattern file and its expected encrypt (f1) and decrypt (f2)
results, recomputes every line and reports mismatches. When every line
matches, golden f1/f2 files are written for the pattern2 file.`,
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "case",
			Usage: "Trace only test case `N` (1-based) cycle by cycle",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Print the cycle-by-cycle trace of every test case",
		},
		&cli.BoolFlag{
			Name:  "no-generate",
			Usage: "Do not generate pattern2 golden data after a passing run",
		},
		&cli.BoolFlag{
			Name:  "no-history",
			Usage: "Do not record the run in the history database",
		},
	},
	Action: verifyCmd,
}

var (
	bannerRule = strings.Repeat("=", 80)
	caseRule   = strings.Repeat("#", 80)
)

func verifyCmd(c *cli.Context) error {
	w := c.App.Writer
	suite, err := verify.LoadSuite(cfg.PatternPath(), cfg.EncryptPath(), cfg.DecryptPath())
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	log.Info().Str("suite", suite.Name).Int("cases", len(suite.Patterns)).Msg("verifying")

	if c.IsSet("case") {
		return runCase(w, suite, c.Int("case"))
	}

	fmt.Fprintf(w, "%s\nVERIFYING WITH %s\n%s\n", bannerRule, suite.Name, bannerRule)
	if c.Bool("verbose") {
		for n := 1; n <= len(suite.Patterns); n++ {
			cr, err := verify.Case(suite, n)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			writeCase(w, cr, fmt.Sprintf("TEST CASE %d/%d", n, len(suite.Patterns)))
		}
	}

	report, err := verify.Run(c.Context, suite, verify.Options{
		Workers:       cfg.Workers,
		ProgressEvery: cfg.ProgressEvery,
		Progress: func(done, total int) {
			fmt.Fprintf(w, "Verified %d/%d test cases...\n", done, total)
		},
	})
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	fmt.Fprintln(w)
	if err := verify.WriteSummary(w, report); err != nil {
		return err
	}
	recordRun(c, report)

	if !report.Passed() {
		log.Warn().Str("run", report.RunID.String()).Int("mismatches", len(report.Mismatches)).Msg("verification failed")
		fmt.Fprintln(w, "\nSkipping pattern2 generation due to verification errors.")
		return cli.Exit("", 2)
	}
	log.Info().Str("run", report.RunID.String()).Dur("took", report.Duration).Msg("verification passed")
	if c.Bool("no-generate") {
		return nil
	}
	return generateGolden(w, cfg.GoldenPatternPath())
}

func recordRun(c *cli.Context, report *verify.Report) {
	if c.Bool("no-history") {
		return
	}
	st, err := openHistory()
	if err != nil {
		log.Warn().Err(err).Msg("run history unavailable")
		return
	}
	defer st.Close()
	if err := st.SaveReport(c.Context, report); err != nil {
		log.Warn().Err(err).Msg("failed to record run")
	}
}

func runCase(w io.Writer, suite *verify.Suite, n int) error {
	cr, err := verify.Case(suite, n)
	if errors.Is(err, verify.ErrCaseOutOfRange) {
		return cli.Exit(fmt.Sprintf("Error: Test case %d out of range (1-%d)", n, len(suite.Patterns)), 1)
	}
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	fmt.Fprintf(w, "\nRunning single test case: %d\n", n)
	writeCase(w, cr, fmt.Sprintf("TEST CASE %d", n))
	if !cr.EncryptOK() || !cr.DecryptOK() {
		return cli.Exit("", 2)
	}
	return nil
}

func writeCase(w io.Writer, cr *verify.CaseResult, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", caseRule, title, caseRule)
	fmt.Fprintf(w, "Pattern Input: %s\n  Key:  %016X\n  Data: %016X\n", cr.Pattern, cr.Pattern.Key, cr.Pattern.Data)

	checks := []struct {
		file, op string
		tr       *des.Trace
		expected uint64
	}{
		{"f1.dat", "ENCRYPT", cr.Encrypt, cr.ExpectedEncrypt},
		{"f2.dat", "DECRYPT", cr.Decrypt, cr.ExpectedDecrypt},
	}
	arrows := strings.Repeat(">", 80)
	for _, ck := range checks {
		fmt.Fprintf(w, "\n%s\nTESTING %s: DES %s\n%s\n", arrows, ck.file, ck.op, arrows)
		trace.WriteText(w, ck.tr)
		ok := ck.tr.Output == ck.expected
		fmt.Fprintf(w, "\n%s %s %s: %s\n  Expected: %016X\n  Got:      %016X\n",
			fn.T(ok, "✓", "✗"), ck.file, ck.op, fn.T(ok, "PASS", "FAIL"), ck.expected, ck.tr.Output)
	}
}
