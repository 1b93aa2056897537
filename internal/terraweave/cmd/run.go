package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Steviegt6/TerraWeave/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Create the patch, apply it and verify the result",
	Long: `Run diff and apply back to back, then compare the reconstructed image with
the modified one and report what the patch could not carry.`,
	Example: `
# Run in a game directory, failing if the reconstruction differs
terraweave run -c ~/games/terraria --strict
  `,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("no-verify") {
			noVerify, _ := cmd.Flags().GetBool("no-verify")
			cfg.Verify = !noVerify
		}
		strict, _ := cmd.Flags().GetBool("strict")

		lg := newLogger(cmd, cfg)
		defer lg.Close()

		res, err := pipeline.New(cfg, lg.Logger).Run(cmd.Context())
		if err != nil {
			return err
		}
		if strict && len(res.Differences) > 0 {
			return fmt.Errorf("reconstructed image differs from the modified image in %d places", len(res.Differences))
		}
		return nil
	},
}

func init() {
	addPathFlags(runCmd, "baseline", "modified", "patch", "output")
	runCmd.Flags().Bool("no-verify", false, "Skip comparing the output with the modified image")
	runCmd.Flags().Bool("strict", false, "Fail when the output differs from the modified image")
	rootCmd.AddCommand(runCmd)
}
