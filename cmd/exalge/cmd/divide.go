package cmd

import (
	"errors"

	"github.com/corey/exalge/internal/app"
	"github.com/corey/exalge/internal/domain/exalge"
	"github.com/spf13/cobra"
)

var (
	divideRatios  string
	divideInput   string
	divideBase    string
	divideValue   string
	divideNoTotal bool
	divideOutput  string
)

var divideCmd = &cobra.Command{
	Use:   "divide -r <ratios> (-i <input> | --base <key> --value <n>) [--no-total] [-o <output>]",
	Short: "Split values across a ratio map",
	Long: "Rewrites each value's key through every pattern of the ratio map and gives it value*ratio/total. " +
		"With --no-total the raw weights are used (value*ratio).",
	Args: cobra.NoArgs,
	RunE: runDivide,
}

func init() {
	f := divideCmd.Flags()
	f.StringVarP(&divideRatios, "ratios", "r", "", "Ratio map file (required)")
	f.StringVarP(&divideInput, "input", "i", "", "Exalge file to divide entry by entry")
	f.StringVar(&divideBase, "base", "", "Single base key, e.g. りんご-HAT-円-Y2009M03-果物")
	f.StringVar(&divideValue, "value", "", "Value to divide from --base")
	f.BoolVar(&divideNoTotal, "no-total", false, "Multiply by raw weights instead of normalizing by the total")
	f.StringVarP(&divideOutput, "output", "o", "", "Output file (default stdout)")
	_ = divideCmd.MarkFlagRequired("ratios")
	divideCmd.MarkFlagsRequiredTogether("base", "value")
	divideCmd.MarkFlagsMutuallyExclusive("input", "base")
}

func runDivide(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	dr, err := a.LoadRatios(app.FileSource(divideRatios))
	if err != nil {
		return err
	}
	useTotal := !divideNoTotal
	if sum, stale := app.StaleTotal(dr); stale && useTotal {
		warnf(cmd, "total ratio %s differs from the sum of weights %s", exalge.FormatValue(dr.TotalRatio()), exalge.FormatValue(sum))
	}

	var got *exalge.Exalge
	outFormatFrom := divideInput
	if divideBase != "" {
		got, err = a.DivideBase(dr, divideBase, divideValue, useTotal)
		outFormatFrom = divideRatios
	} else {
		if divideInput == "" && flagFormat == "" {
			return errors.New("divide needs --input, --base/--value, or --format for stdin")
		}
		var src app.Source
		if src, err = inputSource(cmd, divideInput); err != nil {
			return err
		}
		var e *exalge.Exalge
		if e, err = a.LoadExalge(src); err != nil {
			return err
		}
		got, err = a.Divide(dr, e, useTotal)
	}
	if err != nil {
		return err
	}
	infof(cmd, "%d ratios, total %s, %d entries out", dr.Len(), exalge.FormatValue(dr.TotalRatio()), got.Len())
	return a.SaveExalge(outputSink(cmd, divideOutput, outFormatFrom), got)
}
