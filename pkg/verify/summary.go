package verify

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
)

// MaxListed caps the mismatches printed by WriteSummary.
const MaxListed = 10

// WriteSummary prints a short human report of r.
func WriteSummary(w io.Writer, r *Report) error {
	_, err := fmt.Fprintf(w, "Total test cases: %s (run %s, %s)\n",
		humanize.Comma(int64(r.Total)), r.RunID, r.Duration.Round(time.Microsecond))
	if err != nil {
		return err
	}
	if r.Passed() {
		_, err = fmt.Fprintln(w, "*** ALL TESTS PASSED ***")
		return err
	}
	fmt.Fprintln(w, "*** VERIFICATION FAILED ***")
	fmt.Fprintf(w, "Errors found: %s\n", humanize.Comma(int64(len(r.Mismatches))))
	for i, m := range r.Mismatches {
		if i == MaxListed {
			_, err = fmt.Fprintf(w, "  ... and %d more errors\n", len(r.Mismatches)-MaxListed)
			return err
		}
		fmt.Fprintf(w, "  %s\n", m)
	}
	return nil
}
