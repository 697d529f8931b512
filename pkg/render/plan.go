package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/footprint/pkg/footprint"
	"github.com/matzehuels/footprint/pkg/geom"
	"github.com/matzehuels/footprint/pkg/model"
	"github.com/matzehuels/footprint/pkg/units"
)

const planCSS = `
    .wall { stroke: #333; stroke-linecap: square; }
    .roof { fill: #d8e3ee; fill-opacity: 0.5; stroke: #5a7a99; stroke-dasharray: 6 4; }
    .ridge { stroke: #5a7a99; stroke-width: 2; }
    .door { fill: #c0392b; }
    .window { fill: #2e86c1; }
    .label { font: 12px sans-serif; fill: #333; text-anchor: middle; }`

// frame maps plan coordinates (Y up) to SVG coordinates (Y down).
type frame struct {
	minX, maxY, scale float64
}

func (f frame) x(v float64) float64 { return (v-f.minX)*f.scale + margin }
func (f frame) y(v float64) float64 { return (f.maxY-v)*f.scale + margin }

// PlanSVG renders the building seen from above. The drawing extent is the
// roof outline, which covers the walls plus their thickness.
func PlanSVG(m model.Model, opts ...SVGOption) []byte {
	c := newSVGConfig(opts...)
	b := m.Building
	roof := b.Roof

	f := frame{minX: roof.ExtrusionStart, maxY: roof.CurveEnd, scale: c.scale}
	w := (roof.ExtrusionEnd-roof.ExtrusionStart)*c.scale + 2*margin
	h := (roof.CurveEnd-roof.CurveStart)*c.scale + 2*margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", planCSS)

	fmt.Fprintf(&buf, `  <rect id="roof" class="roof" x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n",
		f.x(roof.ExtrusionStart), f.y(roof.CurveEnd), roof.Span()*c.scale, (roof.CurveEnd-roof.CurveStart)*c.scale)
	fmt.Fprintf(&buf, `  <line id="ridge" class="ridge" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n",
		f.x(roof.ExtrusionStart), f.y(roof.Ridge.Y), f.x(roof.ExtrusionEnd), f.y(roof.Ridge.Y))

	thickness := 2 * (roof.ExtrusionEnd - b.Footprint.Width/2)
	for _, wall := range b.Walls {
		renderWall(&buf, f, wall, thickness)
	}

	renderOpening(&buf, f, "door", b.Door.Point, 6)
	for i, win := range b.Windows {
		renderOpening(&buf, f, fmt.Sprintf("window-%d", i), win.Point, 5)
	}

	if c.labels {
		widthMM := units.Format(b.Footprint.Width, units.Millimeters)
		depthMM := units.Format(b.Footprint.Depth, units.Millimeters)
		fmt.Fprintf(&buf, `  <text class="label" x="%.2f" y="%.2f">%s</text>`+"\n",
			f.x(0), h-margin/3, escapeXML(widthMM))
		fmt.Fprintf(&buf, `  <text class="label" x="%.2f" y="%.2f" transform="rotate(-90 %.2f %.2f)">%s</text>`+"\n",
			margin/2, f.y(0), margin/2, f.y(0), escapeXML(depthMM))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderWall(buf *bytes.Buffer, f frame, w footprint.WallSegment, thickness float64) {
	sw := thickness * f.scale
	if sw < 1 {
		sw = 1
	}
	fmt.Fprintf(buf, `  <line id="wall-%d" class="wall" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke-width="%.2f"/>`+"\n",
		w.Index, f.x(w.Start.X), f.y(w.Start.Y), f.x(w.End.X), f.y(w.End.Y), sw)
}

func renderOpening(buf *bytes.Buffer, f frame, id string, p geom.Point3, r float64) {
	class := "window"
	if id == "door" {
		class = "door"
	}
	fmt.Fprintf(buf, `  <circle id="%s" class="%s" cx="%.2f" cy="%.2f" r="%.1f"/>`+"\n", id, class, f.x(p.X), f.y(p.Y), r)
}
