package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/footprint/pkg/catalog"
	"github.com/matzehuels/footprint/pkg/footprint"
	"github.com/matzehuels/footprint/pkg/model"
	"github.com/matzehuels/footprint/pkg/units"
)

const elevationCSS = `
    .wall { fill: #eee; stroke: #333; stroke-width: 1.5; }
    .roof { fill: #d8e3ee; stroke: #5a7a99; stroke-width: 1.5; }
    .level { stroke: #888; stroke-dasharray: 8 4; }
    .door { fill: #c0392b; fill-opacity: 0.8; }
    .window { fill: #2e86c1; fill-opacity: 0.8; }
    .label { font: 12px sans-serif; fill: #333; }`

// view maps one elevation (horizontal axis h, vertical axis z) into the SVG.
type view struct {
	minH, maxZ, left, scale float64
}

func (v view) h(x float64) float64 { return (x-v.minH)*v.scale + v.left }
func (v view) z(z float64) float64 { return (v.maxZ-z)*v.scale + margin }

// ElevationSVG renders the front elevation (wall 0, X to the right) and the
// side elevation (wall 1, Y to the right) next to each other. Opening sizes
// come from the catalog; openings whose type is unknown are drawn as markers.
func ElevationSVG(m model.Model, opts ...SVGOption) []byte {
	c := newSVGConfig(opts...)
	b := m.Building
	roof := b.Roof

	frontW := roof.Span() * c.scale
	sideW := (roof.CurveEnd - roof.CurveStart) * c.scale
	w := frontW + sideW + 3*margin
	h := (roof.Ridge.Z-b.Base.Elevation)*c.scale + 2*margin

	front := view{minH: roof.ExtrusionStart, maxZ: roof.Ridge.Z, left: margin, scale: c.scale}
	side := view{minH: roof.CurveStart, maxZ: roof.Ridge.Z, left: 2*margin + frontW, scale: c.scale}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", elevationCSS)

	// front: the roof plane is seen edge-on from eave to ridge
	buf.WriteString(`  <g id="front">` + "\n")
	fmt.Fprintf(&buf, `    <rect class="roof" x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n",
		front.h(roof.ExtrusionStart), front.z(roof.Ridge.Z), frontW, roof.Rise*c.scale)
	renderWallFace(&buf, front, b, -b.Footprint.Width/2, b.Footprint.Width/2)
	renderFaceOpenings(&buf, c, front, m, footprint.FrontWall, func(w footprint.OpeningPlacement) float64 { return w.Point.X })
	buf.WriteString("  </g>\n")

	// side: the gable triangle
	buf.WriteString(`  <g id="side">` + "\n")
	s0, s1 := roof.Segments[0], roof.Segments[1]
	fmt.Fprintf(&buf, `    <polygon class="roof" points="%.2f,%.2f %.2f,%.2f %.2f,%.2f"/>`+"\n",
		side.h(s0.Start.Y), side.z(s0.Start.Z), side.h(s0.End.Y), side.z(s0.End.Z), side.h(s1.End.Y), side.z(s1.End.Z))
	renderWallFace(&buf, side, b, -b.Footprint.Depth/2, b.Footprint.Depth/2)
	renderFaceOpenings(&buf, c, side, m, footprint.FrontWall+1, func(w footprint.OpeningPlacement) float64 { return w.Point.Y })
	buf.WriteString("  </g>\n")

	for _, l := range []footprint.Level{b.Base, b.Top} {
		y := front.z(l.Elevation)
		fmt.Fprintf(&buf, `  <line class="level" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", margin/2, y, w-margin/2, y)
		if c.labels {
			label := fmt.Sprintf("%s (%s)", l.Name, units.Format(l.Elevation, units.Millimeters))
			fmt.Fprintf(&buf, `  <text class="label" x="%.2f" y="%.2f">%s</text>`+"\n", margin/2, y-4, escapeXML(label))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderWallFace(buf *bytes.Buffer, v view, b footprint.Building, from, to float64) {
	fmt.Fprintf(buf, `    <rect class="wall" x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n",
		v.h(from), v.z(b.Top.Elevation), (to-from)*v.scale, (b.Top.Elevation-b.Base.Elevation)*v.scale)
}

func renderFaceOpenings(buf *bytes.Buffer, c svgConfig, v view, m model.Model, wall int, along func(footprint.OpeningPlacement) float64) {
	b := m.Building
	openings := append([]footprint.OpeningPlacement{b.Door}, b.Windows...)
	for _, o := range openings {
		if o.WallIndex != wall {
			continue
		}
		key := m.Types.Window
		if o.Kind == footprint.OpeningDoor {
			key = m.Types.Door
		}
		renderOpeningFace(buf, c, v, o, key, along(o))
	}
}

func renderOpeningFace(buf *bytes.Buffer, c svgConfig, v view, o footprint.OpeningPlacement, key catalog.Key, at float64) {
	sym, ok := c.symbol(key)
	if !ok || !(sym.WidthMM > 0) || !(sym.HeightMM > 0) {
		fmt.Fprintf(buf, `    <circle class="%s" cx="%.2f" cy="%.2f" r="4"/>`+"\n", o.Kind, v.h(at), v.z(o.Point.Z))
		return
	}
	width := units.MM(sym.WidthMM)
	height := units.MM(sym.HeightMM)
	bottom := o.Point.Z + units.MM(sym.SillMM)
	fmt.Fprintf(buf, `    <rect class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n",
		o.Kind, v.h(at-width/2), v.z(bottom+height), width*v.scale, height*v.scale)
}
