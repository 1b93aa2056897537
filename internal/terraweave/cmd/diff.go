package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Steviegt6/TerraWeave/internal/pipeline"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Create a patch from the baseline and modified images",
	Long: `Diff the modified image against the baseline and write the patch container.
Injected types, injected nested types and method edits are recorded in that
order.`,
	Example: `
# Use the default file names in the current directory
terraweave diff

# Keep patch.tweave up to date while rebuilding the mod
terraweave diff --watch -m build/TerrariaModified.exe
  `,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		lg := newLogger(cmd, cfg)
		defer lg.Close()

		p := pipeline.New(cfg, lg.Logger)
		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			return p.Watch(cmd.Context(), nil)
		}
		_, err = p.Create(cmd.Context())
		return err
	},
}

func init() {
	addPathFlags(diffCmd, "baseline", "modified", "patch")
	diffCmd.Flags().BoolP("watch", "w", false, "Recreate the patch whenever an input image changes")
	rootCmd.AddCommand(diffCmd)
}
