package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/footprint/pkg/model"
	"github.com/matzehuels/footprint/pkg/pipeline"
	"github.com/matzehuels/footprint/pkg/render"
)

// renderCommand creates the render command for saved model files.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formats string
		output  string
		scale   float64
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "render [model.json]",
		Short: "Render a saved model",
		Long: `Render a model written by "footprint build -f json" without recomputing it.

Output files are named after the input unless --output is given.`,
		Example: `  footprint render footprint.json -f svg,elevation
  footprint render house.json -f graph -o out/house`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			cat, err := cfg.LoadCatalog()
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := pipeline.Options{
				Formats: parseFormats(formats),
				Scale:   scale,
				Catalog: cat,
				Logger:  c.Logger,
			}
			return c.runRender(cmd.Context(), runner, args[0], basePath(output, args[0]), opts)
		},
	}

	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): "+strings.Join(render.Formats(), ", ")+" (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input name)")
	cmd.Flags().Float64Var(&scale, "scale", 0, "pixels per foot for SVG output")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, runner *pipeline.Runner, input, base string, opts pipeline.Options) error {
	prog := newProgress(c.Logger)
	m, err := model.ReadFile(input)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded model", "path", input, "walls", len(m.Building.Walls), "realized", m.Realization != nil)

	artifacts, err := runner.Render(ctx, m, opts)
	if err != nil {
		return err
	}
	paths, err := writeArtifacts(artifacts, base)
	if err != nil {
		return err
	}
	prog.done("rendered model", "artifacts", len(paths))
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
