package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/Steviegt6/TerraWeave/internal/config"
	"github.com/Steviegt6/TerraWeave/internal/logging"
	twlog "github.com/Steviegt6/TerraWeave/internal/terraweave/log"
)

var rootCmd = &cobra.Command{
	Use:   "terraweave",
	Short: "Ship game mods as small binary patches",
	Long: `TerraWeave diffs a modified game image against the vanilla one and stores
the difference as a .tweave patch: injected types, injected nested types and
per-method instruction edits. Applying the patch to the vanilla image rebuilds
the modified one.`,
	Example: `
# Create patch.tweave from Terraria.exe and TerrariaModified.exe
terraweave diff

# Rebuild PatchedTerraria.exe from Terraria.exe and patch.tweave
terraweave apply

# Both, then check the result against the modified image
terraweave run -c ~/games/terraria

# Browse a patch
terraweave inspect -i patch.tweave
  `,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		twlog.Setup("", debug || logging.IsDebug())
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	rootCmd.PersistentFlags().String("config", "", "JSON config file")
}

func Execute() {
	// fang renders help and errors for terminals; piped output gets plain cobra
	if !term.IsTerminal(os.Stdout.Fd()) {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
		return
	}

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// ResolveCwd returns the absolute working directory selected by --cwd, or
// the process working directory.
func ResolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		abs, err := filepath.Abs(cwd)
		if err != nil {
			return "", fmt.Errorf("failed to resolve directory: %w", err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("failed to change directory: %w", err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("failed to change directory: %s is not a directory", cwd)
		}
		return abs, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	return cwd, nil
}

// loadConfig layers the config file, the environment and the command's
// flags, then resolves paths against the working directory.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cwd, err := ResolveCwd(cmd)
	if err != nil {
		return config.Config{}, err
	}

	path, _ := cmd.Flags().GetString("config")
	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if cmd.Flags().Changed("debug") {
		cfg.Debug, _ = cmd.Flags().GetBool("debug")
	}
	for name, dst := range map[string]*string{
		"baseline": &cfg.Baseline,
		"modified": &cfg.Modified,
		"patch":    &cfg.Patch,
		"output":   &cfg.Output,
	} {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	return cfg.Resolve(cwd), nil
}

// newLogger returns the progress logger for a command. It writes to the
// command's error stream unless TERRAWEAVE_LOG_TO_FILE selects a file.
func newLogger(cmd *cobra.Command, cfg config.Config) *logging.LoggerCloser {
	var lg *logging.LoggerCloser
	if os.Getenv("TERRAWEAVE_LOG_TO_FILE") == "1" {
		lg = logging.NewLogger()
	} else {
		lg = logging.NewLoggerWithWriter(cmd.ErrOrStderr())
	}
	if cfg.Debug {
		lg.SetLevel(log.DebugLevel)
	}
	return lg
}

func addPathFlags(cmd *cobra.Command, names ...string) {
	usage := map[string]string{
		"baseline": "Baseline image (default " + config.DefaultBaseline + ")",
		"modified": "Modified image (default " + config.DefaultModified + ")",
		"patch":    "Patch container (default " + config.DefaultPatch + ")",
		"output":   "Reconstructed image (default " + config.DefaultOutput + ")",
	}
	short := map[string]string{"baseline": "b", "modified": "m", "patch": "p", "output": "o"}
	for _, name := range names {
		cmd.Flags().StringP(name, short[name], "", usage[name])
	}
}
