package commands

import (
	"runtime"

	"github.com/spf13/cobra"
	"go.trai.ch/patchwork/internal/app"
)

func (c *CLI) newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [patch]",
		Short: "Evaluate a patch document",
		Long: "Evaluate every node of a patch document in dependency order.\n" +
			"Without an argument the nearest patch.yaml is discovered upward\n" +
			"from the current directory.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			watch, _ := cmd.Flags().GetBool("watch")
			verbose, _ := cmd.Flags().GetBool("verbose")
			outputMode, _ := cmd.Flags().GetString("output-mode")
			parallelism, _ := cmd.Flags().GetInt("parallelism")
			ci, _ := cmd.Flags().GetBool("ci")

			// If --ci is set, override output-mode to "json"
			if ci {
				outputMode = "json"
			}

			return c.app.Run(cmd.Context(), path, app.RunOptions{
				Watch:       watch,
				Verbose:     verbose,
				OutputMode:  outputMode,
				Parallelism: parallelism,
			})
		},
	}
	cmd.Flags().BoolP("watch", "w", false, "Re-evaluate whenever the patch file changes")
	cmd.Flags().BoolP("verbose", "v", false, "Log per-node evaluation progress")
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, pretty, or json")
	cmd.Flags().IntP("parallelism", "j", runtime.NumCPU(), "Number of nodes evaluated concurrently")
	cmd.Flags().Bool("ci", false, "Use JSON output mode (shorthand for --output-mode=json)")
	return cmd
}
