package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows the resolved charset, format override and prefilter setting. Validates --encoding and --format.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	cfg := a.Config()
	plainWhenPiped(cmd)

	format := "by extension (.csv, .yaml, .yml)"
	if cfg.Format != "" {
		format = cfg.Format
	}
	prefilter := fmt.Sprintf("%s✓ aho-corasick%s", colorGreen, colorReset)
	if cfg.DisablePrefilter {
		prefilter = fmt.Sprintf("%s✗ disabled%s", colorYellow, colorReset)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s⚡ exalge config%s\n", colorBold, colorReset)
	fmt.Fprintf(out, "  Encoding:   %s\n", a.EncodingName())
	fmt.Fprintf(out, "  Format:     %s\n", format)
	fmt.Fprintf(out, "  Prefilter:  %s\n", prefilter)
	return nil
}
