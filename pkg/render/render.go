package render

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/footprint/pkg/catalog"
	"github.com/matzehuels/footprint/pkg/errors"
	"github.com/matzehuels/footprint/pkg/model"
)

// Output formats.
const (
	FormatSVG       = "svg"
	FormatElevation = "elevation"
	FormatJSON      = "json"
	FormatDOT       = "dot"
	FormatGraph     = "graph"
	FormatPDF       = "pdf"
	FormatPNG       = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:       true,
	FormatElevation: true,
	FormatJSON:      true,
	FormatDOT:       true,
	FormatGraph:     true,
	FormatPDF:       true,
	FormatPNG:       true,
}

// Formats returns the supported formats in a stable order.
func Formats() []string {
	return slices.Sorted(maps.Keys(ValidFormats))
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.InvalidArgument("invalid format: %q (must be one of: %s)", format, strings.Join(Formats(), ", "))
	}
	return nil
}

// Extension returns the file extension for a format.
func Extension(format string) string {
	switch format {
	case FormatElevation:
		return "elevation.svg"
	case FormatGraph:
		return "graph.svg"
	}
	return format
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG, FormatElevation, FormatGraph:
		return "image/svg+xml"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	case FormatPDF:
		return "application/pdf"
	case FormatPNG:
		return "image/png"
	}
	return "application/octet-stream"
}

// Render produces a single artifact.
func Render(ctx context.Context, m model.Model, format string, opts ...SVGOption) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	switch format {
	case FormatSVG:
		return PlanSVG(m, opts...), nil
	case FormatElevation:
		return ElevationSVG(m, opts...), nil
	case FormatJSON:
		return model.Marshal(m)
	case FormatDOT:
		return []byte(ToDOT(m)), nil
	case FormatGraph:
		return GraphSVG(ctx, ToDOT(m))
	case FormatPDF:
		return ToPDF(ctx, PlanSVG(m, opts...))
	case FormatPNG:
		return ToPNG(ctx, PlanSVG(m, opts...), 2)
	}
	return nil, fmt.Errorf("unreachable format %q", format)
}

// =============================================================================
// SVG Options
// =============================================================================

// DefaultScale is the default drawing scale in pixels per internal unit.
const DefaultScale = 20.0

const margin = 40.0

// SVGOption configures the plan and elevation renderers.
type SVGOption func(*svgConfig)

type svgConfig struct {
	scale   float64
	catalog *catalog.Catalog
	labels  bool
}

// WithScale sets pixels per internal unit.
func WithScale(s float64) SVGOption {
	return func(c *svgConfig) {
		if s > 0 {
			c.scale = s
		}
	}
}

// WithCatalog sets the catalog opening sizes are looked up in.
func WithCatalog(cat *catalog.Catalog) SVGOption {
	return func(c *svgConfig) { c.catalog = cat }
}

// WithoutLabels omits dimension and level labels.
func WithoutLabels() SVGOption { return func(c *svgConfig) { c.labels = false } }

func newSVGConfig(opts ...SVGOption) svgConfig {
	c := svgConfig{scale: DefaultScale, labels: true}
	for _, opt := range opts {
		opt(&c)
	}
	if c.catalog == nil {
		c.catalog = catalog.Default()
	}
	return c
}

// symbol looks up an opening type; ok is false when the catalog lacks it.
func (c svgConfig) symbol(key catalog.Key) (catalog.Symbol, bool) {
	s, err := c.catalog.Lookup(key)
	return s, err == nil
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
