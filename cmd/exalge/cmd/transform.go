package cmd

import (
	"github.com/corey/exalge/internal/app"
	"github.com/corey/exalge/internal/domain/exalge"
	"github.com/corey/exalge/internal/domain/trans"
	"github.com/spf13/cobra"
)

var (
	transTable  string
	transInput  string
	transOutput string
)

var transformCmd = &cobra.Command{
	Use:   "transform -t <table> [-i <input>] [-o <output>]",
	Short: "Reclassify keys through a rewrite table",
	Long: "Rewrites every key through the first matching row of the table. Fixed fields of the target overwrite, " +
		"wildcard fields pass through. Unmatched keys are kept; keys that collide after rewriting sum.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTrans(cmd, "transform", (*app.App).Transform)
	},
}

var transferCmd = &cobra.Command{
	Use:   "transfer -t <table> [-i <input>] [-o <output>]",
	Short: "Book double-entry transfers through a rewrite table",
	Long: "For every entry the table matches, books the value out of the original key (on its hat side) and into " +
		"the rewritten key. Unmatched entries produce nothing. Add the result to the input to apply it.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTrans(cmd, "transfer", (*app.App).Transfer)
	},
}

func init() {
	for _, c := range []*cobra.Command{transformCmd, transferCmd} {
		f := c.Flags()
		f.StringVarP(&transTable, "table", "t", "", "Rewrite table file (required)")
		f.StringVarP(&transInput, "input", "i", "", "Exalge file (default stdin)")
		f.StringVarP(&transOutput, "output", "o", "", "Output file (default stdout)")
		_ = c.MarkFlagRequired("table")
	}
}

func runTrans(cmd *cobra.Command, op string, apply func(*app.App, *trans.TransTable, *exalge.Exalge) *exalge.Exalge) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	t, err := a.LoadTable(app.FileSource(transTable))
	if err != nil {
		return err
	}
	src, err := inputSource(cmd, transInput)
	if err != nil {
		return err
	}
	e, err := a.LoadExalge(src)
	if err != nil {
		return err
	}

	got := apply(a, t, e)
	infof(cmd, "%s: %d rows, %d entries in, %d out", op, t.Len(), e.Len(), got.Len())
	return a.SaveExalge(outputSink(cmd, transOutput, transInput), got)
}
