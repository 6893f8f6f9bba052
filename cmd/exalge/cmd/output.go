package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// ANSI color codes for terminal output.
var (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
)

// plainWhenPiped drops colors unless stdout is a terminal.
func plainWhenPiped(cmd *cobra.Command) {
	if f, ok := cmd.OutOrStdout().(*os.File); ok && isTTY(f) {
		return
	}
	colorReset, colorBold, colorGreen, colorYellow = "", "", "", ""
}

// isTTY returns true if f is connected to a terminal.
func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
