// exalge selects, reclassifies and redistributes exchange-algebra data.
// Single binary: pattern match, transform, transfer, divide, convert.
package main

import (
	"os"

	"github.com/corey/exalge/cmd/exalge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		cmd.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
