package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// Execute builds the command tree, wires --verbose to the logger level and
// runs it with ctx.
func Execute(ctx context.Context, stderr io.Writer, args []string) error {
	var verbose bool

	c := New(stderr, LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if verbose {
			c.SetLogLevel(LogDebug)
		}
		return nil
	}

	if args != nil {
		root.SetArgs(args)
	}
	return root.ExecuteContext(ctx)
}
