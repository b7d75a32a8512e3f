package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/patchwork/internal/app"
)

func (c *CLI) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [patch]",
		Short: "Validate a patch document without evaluating it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			dotPath, _ := cmd.Flags().GetString("dot")

			var dot io.Writer
			if dotPath == "-" {
				dot = cmd.OutOrStdout()
			} else if dotPath != "" {
				f, err := os.Create(dotPath)
				if err != nil {
					return err
				}
				defer func() {
					_ = f.Close()
				}()
				dot = f
			}

			return c.app.Check(cmd.Context(), path, app.CheckOptions{DOT: dot})
		},
	}
	cmd.Flags().String("dot", "", "Write the dependency structure in DOT syntax to the given file (\"-\" for stdout)")
	return cmd
}
