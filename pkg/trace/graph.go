package trace

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/cycloud0203/cvsd/pkg/des"
)

const header = `digraph DES {
    graph [fontname = "monospace" rankdir=TB nodesep=0.6];
    node [fontname = "courier new" shape=box style=rounded];
    edge [fontname = "courier new" fontsize=10];
    bgcolor=transparent;
`

// DOT describes the data flow of t: the initial permutation, one pair of
// half nodes per round with the F output feeding the new right half, the
// swap and the final permutation.
func DOT(t *des.Trace) string {
	var b strings.Builder
	b.WriteString(header)
	fmt.Fprintf(&b, "    label=\"DES %s key=%016X\";\n", Mode(t), t.Key)

	fmt.Fprintf(&b, "    in [shape=underline label=\"input\\n%016X\"];\n", t.Input)
	fmt.Fprintf(&b, "    L0 [label=\"L0\\n%08X\"];\n    R0 [label=\"R0\\n%08X\"];\n", t.L0, t.R0)
	b.WriteString("    in -> L0 [label=\"IP\"];\n    in -> R0 [label=\"IP\"];\n")

	for i, rd := range t.Rounds {
		n := i + 1
		fmt.Fprintf(&b, "    F%d [shape=ellipse color=\"#FFB0B0\" label=\"f\\nK%d=%012X\\n%08X\"];\n", n, n, rd.Subkey, rd.F)
		fmt.Fprintf(&b, "    L%d [label=\"L%d\\n%08X\"];\n    R%d [label=\"R%d\\n%08X\"];\n", n, n, rd.L, n, n, rd.R)
		fmt.Fprintf(&b, "    R%d -> F%d;\n", i, n)
		fmt.Fprintf(&b, "    R%d -> L%d [color=grey];\n", i, n)
		fmt.Fprintf(&b, "    L%d -> R%d [label=\"xor\"];\n", i, n)
		fmt.Fprintf(&b, "    F%d -> R%d [label=\"xor\"];\n", n, n)
	}

	fmt.Fprintf(&b, "    swap [shape=diamond label=\"R16||L16\\n%016X\"];\n", t.PreFP)
	b.WriteString("    L16 -> swap;\n    R16 -> swap;\n")
	fmt.Fprintf(&b, "    out [shape=underline label=\"output\\n%016X\"];\n", t.Output)
	b.WriteString("    swap -> out [label=\"FP\"];\n}\n")
	return b.String()
}

// SVG renders DOT(t) with graphviz.
func SVG(ctx context.Context, t *des.Trace) ([]byte, error) {
	graph, err := graphviz.ParseBytes([]byte(DOT(t)))
	if err != nil {
		return nil, err
	}
	g, err := graphviz.New(ctx)
	if err != nil {
		return nil, err
	}
	defer g.Close()
	defer graph.Close()

	var buf bytes.Buffer
	if err := g.Render(ctx, graph, graphviz.SVG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
