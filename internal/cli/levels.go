package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/footprint/pkg/footprint"
	"github.com/matzehuels/footprint/pkg/units"
)

// levelsCommand lists the configured levels, or resolves the named ones.
func (c *CLI) levelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "levels [name...]",
		Short: "List configured levels or resolve levels by name",
		Long: `Without arguments, list the configured levels with their elevations.
With arguments, resolve each name exactly (case-sensitive) and fail on the
first name that does not exist.`,
		ValidArgsFunction: c.completeLevels,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			opts := cfg.Options()
			levels := opts.HostLevels()

			if len(args) == 0 {
				for _, l := range levels {
					printLevel(l, l.Name == opts.BaseLevel, l.Name == opts.TopLevel)
				}
				return nil
			}
			for _, name := range args {
				l, err := footprint.ResolveLevel(levels, name)
				if err != nil {
					return err
				}
				printLevel(l, false, false)
			}
			return nil
		},
	}
}

func printLevel(l footprint.Level, base, top bool) {
	tag := ""
	switch {
	case base:
		tag = StyleDim.Render(" (base)")
	case top:
		tag = StyleDim.Render(" (top)")
	}
	fmt.Printf("%s %s%s\n", StyleHighlight.Render(fmt.Sprintf("%-12s", l.Name)), StyleValue.Render(units.Format(l.Elevation, units.Millimeters)), tag)
}
