// Package render turns a building [model.Model] into viewable artifacts.
//
// # Formats
//
//   - svg: plan view with walls, openings, roof outline and ridge
//   - elevation: front and side elevations with levels and the roof gable
//   - json: the model itself, see [model.Marshal]
//   - dot: Graphviz source of the hosting graph (levels, walls, openings, roof)
//   - graph: the hosting graph laid out by Graphviz as SVG
//   - pdf, png: the plan view converted with rsvg-convert
//
// Use [Render] to produce one format, or call the individual renderers:
//
//	svg := render.PlanSVG(m, render.WithScale(25))
//	dot := render.ToDOT(m)
//	graph, err := render.GraphSVG(ctx, dot)
//
// [model.Model]: github.com/matzehuels/footprint/pkg/model.Model
// [model.Marshal]: github.com/matzehuels/footprint/pkg/model.Marshal
package render
