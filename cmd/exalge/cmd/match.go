package cmd

import (
	"fmt"

	"github.com/corey/exalge/internal/app"
	"github.com/spf13/cobra"
)

var (
	matchPatterns string
	matchInput    string
	matchOutput   string
)

var matchCmd = &cobra.Command{
	Use:   "match -p <patterns> [-i <input>] [-o <output>]",
	Short: "Keep entries whose key matches a pattern",
	Long:  "Projects an exchange-algebra element onto a pattern set. Entries no pattern matches are dropped; order is kept.",
	Args:  cobra.NoArgs,
	RunE:  runMatch,
}

func init() {
	f := matchCmd.Flags()
	f.StringVarP(&matchPatterns, "patterns", "p", "", "Pattern set file (required)")
	f.StringVarP(&matchInput, "input", "i", "", "Exalge file (default stdin)")
	f.StringVarP(&matchOutput, "output", "o", "", "Output file (default stdout)")
	_ = matchCmd.MarkFlagRequired("patterns")
}

func runMatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ps, err := a.LoadPatterns(app.FileSource(matchPatterns))
	if err != nil {
		return err
	}
	src, err := inputSource(cmd, matchInput)
	if err != nil {
		return err
	}
	e, err := a.LoadExalge(src)
	if err != nil {
		return err
	}

	got, err := a.Match(ps, e)
	if err != nil {
		return err
	}
	infof(cmd, "%d patterns, %d of %d entries matched", ps.Len(), got.Len(), e.Len())

	if err := a.SaveExalge(outputSink(cmd, matchOutput, matchInput), got); err != nil {
		return fmt.Errorf("match: %w", err)
	}
	return nil
}
