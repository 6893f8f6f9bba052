package cmd

import (
	"strings"

	"github.com/corey/exalge/internal/adapters/charset"
	"github.com/corey/exalge/internal/app"
	"github.com/spf13/cobra"
)

var (
	convertKind       string
	convertToEncoding string
)

var convertCmd = &cobra.Command{
	Use:   "convert <in> <out> --kind patterns|table|ratios|exalge",
	Short: "Convert between CSV and YAML or between charsets",
	Long: "Reads a value in the format implied by <in>'s extension and writes it in the format implied by <out>'s. " +
		"--encoding applies to <in>; --to-encoding (default: same) applies to <out>.",
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.StringVarP(&convertKind, "kind", "k", "", "Value kind: "+kindNames())
	f.StringVar(&convertToEncoding, "to-encoding", "", "Charset of <out> (default --encoding)")
	_ = convertCmd.MarkFlagRequired("kind")
}

func runConvert(cmd *cobra.Command, args []string) error {
	kind, err := app.ParseKind(convertKind)
	if err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	dst := app.FileSink(args[1])
	dst.Encoding = convertToEncoding
	if err := a.Convert(kind, app.FileSource(args[0]), dst); err != nil {
		return err
	}

	to := a.EncodingName()
	if convertToEncoding != "" {
		to = charset.Canonical(convertToEncoding)
	}
	infof(cmd, "converted %s %s -> %s (%s -> %s)", kind, args[0], args[1], a.EncodingName(), to)
	return nil
}

func kindNames() string {
	names := make([]string, len(app.Kinds))
	for i, k := range app.Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, "|")
}
