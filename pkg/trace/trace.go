// Package trace renders a des.Trace as a cycle listing or a round graph.
package trace

import (
	"fmt"
	"io"
	"strings"

	"github.com/cycloud0203/cvsd/internal/fn"
	"github.com/cycloud0203/cvsd/pkg/des"
)

var rule = strings.Repeat("=", 80)

// Mode is "DECRYPT" or "ENCRYPT".
func Mode(t *des.Trace) string {
	return fn.T(t.Decrypt, "DECRYPT", "ENCRYPT")
}

// WriteText prints t one round per cycle, the way the hardware steps it.
// Subkeys are numbered in the order the rounds consume them.
func WriteText(w io.Writer, t *des.Trace) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nDES %s - Cycle-by-Cycle Simulation\n%s\n", rule, Mode(t), rule)
	fmt.Fprintf(&b, "Input:  %016X\nKey:    %016X\n%s\n", t.Input, t.Key, rule)

	b.WriteString("\nSubkeys generated:\n")
	for i, k := range t.Subkeys {
		fmt.Fprintf(&b, "  K%2d: %012X\n", i+1, k)
	}

	fmt.Fprintf(&b, "\nAfter Initial Permutation: %016X\n", t.Permuted)
	fmt.Fprintf(&b, "  L0 = %08X\n  R0 = %08X\n\n", t.L0, t.R0)

	for i, rd := range t.Rounds {
		l, r := t.RoundInput(i)
		fmt.Fprintf(&b, "Cycle %d: Round %d\n", i+1, i+1)
		fmt.Fprintf(&b, "  Input:  L%d = %08X, R%d = %08X\n", i, l, i, r)
		fmt.Fprintf(&b, "  F(R%d, K%d) = %08X\n", i, i+1, rd.F)
		fmt.Fprintf(&b, "  Output: L%d = R%d = %08X\n", i+1, i, rd.L)
		fmt.Fprintf(&b, "          R%d = L%d XOR F(R%d, K%d) = %08X\n", i+1, i, i, i+1, rd.R)
	}

	last := t.Rounds[des.Rounds-1]
	fmt.Fprintf(&b, "\nAfter 16 rounds:\n  L16 = %08X\n  R16 = %08X\n", last.L, last.R)
	fmt.Fprintf(&b, "  Swapped: R16||L16 = %016X\n", t.PreFP)
	fmt.Fprintf(&b, "\nAfter Final Permutation:\n  Output = %016X\n%s\n", t.Output, rule)

	_, err := io.WriteString(w, b.String())
	return err
}
