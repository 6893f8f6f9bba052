package cmd

import (
	"fmt"
	"io"

	"github.com/corey/exalge/internal/adapters/charset"
	"github.com/corey/exalge/internal/app"
	"github.com/spf13/cobra"
)

var (
	flagEncoding    string
	flagFormat      string
	flagNoPrefilter bool
	flagVerbose     bool
)

var rootCmd = &cobra.Command{
	Use:           "exalge",
	Short:         "Exchange-algebra pattern engine",
	Long:          "Select, reclassify and redistribute exchange-algebra entries with key patterns, rewrite tables and ratio maps.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagEncoding, "encoding", "e", charset.Default, "Charset of input and output files")
	pf.StringVar(&flagFormat, "format", "", "Force csv or yaml (required for stdin)")
	pf.BoolVar(&flagNoPrefilter, "no-prefilter", false, "Disable the Aho-Corasick glob prefilter")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Print progress to stderr")

	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(transferCmd)
	rootCmd.AddCommand(divideCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(configCmd)
}

// newApp builds the App from the persistent flags.
func newApp() (*app.App, error) {
	return app.New(app.Config{
		Encoding:         flagEncoding,
		Format:           flagFormat,
		DisablePrefilter: flagNoPrefilter,
	})
}

// inputSource reads path, or stdin when path is empty or "-".
func inputSource(cmd *cobra.Command, path string) (app.Source, error) {
	if path != "" && path != "-" {
		return app.FileSource(path), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return app.Source{}, fmt.Errorf("read stdin: %w", err)
	}
	return app.BytesSource(data, flagFormat), nil
}

// outputSink writes to path, or to stdout in the input's format.
func outputSink(cmd *cobra.Command, path, inputPath string) app.Sink {
	if path != "" && path != "-" {
		return app.FileSink(path)
	}
	format := flagFormat
	if format == "" {
		format, _ = app.FormatOf(inputPath)
	}
	return app.WriterSink(cmd.OutOrStdout(), format)
}

// infof prints a progress line when --verbose is set.
func infof(cmd *cobra.Command, format string, args ...any) {
	if flagVerbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "[info] "+format+"\n", args...)
	}
}

func warnf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), "[warning] "+format+"\n", args...)
}
