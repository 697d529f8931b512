package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/footprint/pkg/pipeline"
	"github.com/matzehuels/footprint/pkg/render"
	"github.com/matzehuels/footprint/pkg/units"
)

// defaultOutput is the base path artifacts are written to.
const defaultOutput = "footprint"

// buildFlags holds the command-line overrides for the build command.
// Zero values keep the configured building.
type buildFlags struct {
	width     float64
	depth     float64
	thickness float64
	rise      float64
	base      string
	top       string
	doorWall  int
	formats   string
	output    string
	scale     float64
	realize   bool
	noCache   bool
	refresh   bool
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var f buildFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compute a building and render it",
		Long: `Compute the wall loop, door, windows and roof of a rectangular building
between two levels and write the requested artifacts.

Dimensions are millimeters; the roof rise is in feet.`,
		Example: `  footprint build
  footprint build --width 12000 --depth 6000 -f svg,elevation,json
  footprint build --top "Level 3" --realize -o out/house`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			opts := cfg.Options()
			f.apply(cmd, &opts)

			if opts.Catalog, err = cfg.LoadCatalog(); err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), cfg, f.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()
			return c.runBuild(cmd.Context(), runner, opts, f.output)
		},
	}

	cmd.Flags().Float64Var(&f.width, "width", 0, "footprint width in mm (default from config)")
	cmd.Flags().Float64Var(&f.depth, "depth", 0, "footprint depth in mm (default from config)")
	cmd.Flags().Float64Var(&f.thickness, "thickness", 0, "wall thickness in mm")
	cmd.Flags().Float64Var(&f.rise, "rise", 0, "roof rise above the top level, in feet")
	cmd.Flags().StringVar(&f.base, "base", "", "base level name")
	cmd.Flags().StringVar(&f.top, "top", "", "top level name")
	cmd.Flags().IntVar(&f.doorWall, "door-wall", 0, "index of the wall that hosts the door (0-3)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): "+strings.Join(render.Formats(), ", ")+" (comma-separated)")
	cmd.Flags().StringVarP(&f.output, "output", "o", defaultOutput, "output base path")
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "pixels per foot for SVG output")
	cmd.Flags().BoolVar(&f.realize, "realize", false, "realize the building in an in-memory host document")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even if cached")

	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	_ = cmd.RegisterFlagCompletionFunc("base", c.completeLevels)
	_ = cmd.RegisterFlagCompletionFunc("top", c.completeLevels)

	return cmd
}

// apply overrides opts with the flags the user set.
func (f *buildFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	changed := cmd.Flags().Changed
	if changed("width") {
		opts.WidthMM = f.width
	}
	if changed("depth") {
		opts.DepthMM = f.depth
	}
	if changed("thickness") {
		opts.WallThicknessMM = f.thickness
	}
	if changed("rise") {
		opts.Rise = f.rise
	}
	if f.base != "" {
		opts.BaseLevel = f.base
	}
	if f.top != "" {
		opts.TopLevel = f.top
	}
	if changed("door-wall") {
		opts.DoorWall = f.doorWall
	}
	if formats := parseFormats(f.formats); len(formats) > 0 {
		opts.Formats = formats
	}
	if f.scale != 0 {
		opts.Scale = f.scale
	}
	opts.Realize = f.realize
	opts.Refresh = f.refresh
}

func (c *CLI) runBuild(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, output string) error {
	spinner := newSpinnerWithContext(ctx, "Building...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Build failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(result.Artifacts, output)
	if err != nil {
		return err
	}

	fp := result.Model.Building.Footprint
	printSuccess("Built %s × %s", StyleValue.Render(units.Format(fp.Width, units.Millimeters)), StyleValue.Render(units.Format(fp.Depth, units.Millimeters)))
	printStats(result.Stats, result.CacheInfo.ComputeHit)
	printKeyValue("Levels", fmt.Sprintf("%s → %s", result.Model.Building.Base.Name, result.Model.Building.Top.Name))
	printKeyValue("Perimeter", units.Format(result.Stats.Perimeter, units.Millimeters))
	if result.Document != nil {
		printKeyValue("Transactions", strings.Join(result.Document.History(), ", "))
	}
	for _, p := range paths {
		printFile(p)
	}
	if _, ok := result.Artifacts[render.FormatJSON]; ok {
		printNextStep("Render the saved model", "footprint render "+output+".json -f elevation,graph")
	}
	return nil
}

// writeArtifacts writes each artifact to base.<ext> in format order and
// returns the written paths.
func writeArtifacts(artifacts map[string][]byte, base string) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	slices.Sort(formats)

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + "." + render.Extension(f)
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath strips a known artifact extension from output, or derives the
// base from input when output is empty.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	for _, f := range render.Formats() {
		if ext := "." + render.Extension(f); strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}
