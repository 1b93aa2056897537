package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/Steviegt6/TerraWeave/internal/patch"
	"github.com/Steviegt6/TerraWeave/internal/terraweave/styles"
	"github.com/Steviegt6/TerraWeave/internal/ui/colorize"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [patch]",
	Short: "Show what a patch contains",
	Long: `Print a summary of a patch container. The patch defaults to the configured
patch path.`,
	Example: `
# Summary of patch.tweave
terraweave inspect

# Machine readable dump
terraweave inspect --json mods/hooks.tweave | jq '.records[].target'

# IL of every change and injected method
terraweave inspect --listing

# Interactive browser
terraweave inspect -i
  `,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		path := cfg.Patch
		if len(args) == 1 {
			path = args[0]
			if !filepath.IsAbs(path) {
				cwd, err := ResolveCwd(cmd)
				if err != nil {
					return err
				}
				path = filepath.Join(cwd, path)
			}
		}

		interactive, _ := cmd.Flags().GetBool("interactive")
		if interactive {
			program := tea.NewProgram(
				NewBrowser(path),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)
			if _, err := program.Run(); err != nil {
				slog.Error("TUI run error", "error", err)
				return fmt.Errorf("TUI error: %w", err)
			}
			return nil
		}

		records, err := patch.ReadFile(path)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		color := isTerminal(out) && !colorize.Disabled()
		asJSON, _ := cmd.Flags().GetBool("json")
		showListing, _ := cmd.Flags().GetBool("listing")
		switch {
		case asJSON:
			return printJSON(out, toPatchJSON(path, records), color)
		case showListing:
			return printListing(out, listing(records), color)
		default:
			width, _ := cmd.Flags().GetInt("width")
			return printReport(out, markdownReport(filepath.Base(path), records), color, width)
		}
	},
}

func init() {
	inspectCmd.Flags().BoolP("json", "j", false, "Output the patch as JSON")
	inspectCmd.Flags().BoolP("listing", "l", false, "Output the IL carried by the patch")
	inspectCmd.Flags().BoolP("interactive", "i", false, "Browse the patch in a TUI")
	inspectCmd.Flags().Int("width", 100, "Wrap width of the summary")
	inspectCmd.MarkFlagsMutuallyExclusive("json", "listing", "interactive")
	rootCmd.AddCommand(inspectCmd)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

func printJSON(w io.Writer, v any, color bool) error {
	bts, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal patch: %w", err)
	}
	text := string(bts)
	if color {
		if colored, err := colorize.JSON(text); err == nil {
			text = colored
		}
	}
	_, err = fmt.Fprintln(w, text)
	return err
}

func printListing(w io.Writer, text string, color bool) error {
	if color {
		if colored, err := colorize.IL(text); err == nil {
			text = colored
		}
	}
	_, err := fmt.Fprint(w, text)
	return err
}

func printReport(w io.Writer, markdown string, color bool, width int) error {
	if color {
		renderer, err := styles.MarkdownRenderer(width)
		if err == nil {
			if rendered, err := renderer.Render(markdown); err == nil {
				markdown = rendered
			}
		}
	}
	_, err := fmt.Fprint(w, markdown)
	return err
}
