package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Steviegt6/TerraWeave/internal/pipeline"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Rebuild the modified image from the baseline and a patch",
	Long: `Apply every record of the patch, in order, to a freshly loaded baseline and
write the result. If any record fails nothing is written.`,
	Example: `
terraweave apply -p hooks.tweave -o Terraria.Hooks.exe
  `,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		lg := newLogger(cmd, cfg)
		defer lg.Close()

		_, err = pipeline.New(cfg, lg.Logger).Apply(cmd.Context())
		return err
	},
}

func init() {
	addPathFlags(applyCmd, "baseline", "patch", "output")
	rootCmd.AddCommand(applyCmd)
}
