package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/footprint/pkg/footprint"
	"github.com/matzehuels/footprint/pkg/model"
	"github.com/matzehuels/footprint/pkg/units"
)

// ToDOT converts a model to Graphviz DOT describing which element hosts or
// constrains which: walls sit on the base level and are bound to the top
// level, openings are hosted by walls, and the roof sits on the top level.
func ToDOT(m model.Model) string {
	b := m.Building

	var buf bytes.Buffer
	buf.WriteString("digraph building {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, l := range []footprint.Level{b.Base, b.Top} {
		label := fmt.Sprintf("%s\n%s", l.Name, units.Format(l.Elevation, units.Millimeters))
		fmt.Fprintf(&buf, "  %q [label=%q, shape=note, fillcolor=\"#f4f4f4\"];\n", levelID(l), label)
	}
	for _, w := range b.Walls {
		label := fmt.Sprintf("wall %d\n%s", w.Index, units.Format(w.Length(), units.Millimeters))
		fmt.Fprintf(&buf, "  %q [label=%q];\n", wallID(w.Index), label)
	}
	fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=\"#f5c6c0\"];\n", "door", "door\n"+m.Types.Door.Type)
	for i := range b.Windows {
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=\"#c6dcf0\"];\n", windowID(i), fmt.Sprintf("window %d\n%s", i, m.Types.Window.Type))
	}
	fmt.Fprintf(&buf, "  %q [label=%q, shape=house, fillcolor=\"#d8e3ee\"];\n", "roof", "roof\n"+m.Types.Roof.Type)

	buf.WriteString("\n")
	for _, w := range b.Walls {
		fmt.Fprintf(&buf, "  %q -> %q [label=\"base\"];\n", levelID(w.Base), wallID(w.Index))
		fmt.Fprintf(&buf, "  %q -> %q [label=\"top\", style=dashed];\n", wallID(w.Index), levelID(w.Top))
	}
	fmt.Fprintf(&buf, "  %q -> %q;\n", wallID(b.Door.WallIndex), "door")
	for i, win := range b.Windows {
		fmt.Fprintf(&buf, "  %q -> %q;\n", wallID(win.WallIndex), windowID(i))
	}
	fmt.Fprintf(&buf, "  %q -> %q;\n", levelID(b.Roof.Level), "roof")

	buf.WriteString("}\n")
	return buf.String()
}

func levelID(l footprint.Level) string { return "level:" + l.Name }
func wallID(i int) string              { return fmt.Sprintf("wall-%d", i) }
func windowID(i int) string            { return fmt.Sprintf("window-%d", i) }
