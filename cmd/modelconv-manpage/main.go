package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/modelconv/cmd/modelconv"
	"github.com/arthur-debert/modelconv/internal/version"
)

// Writes the modelconv man pages to stdout, or one page per command into the
// directory given as argument.
func main() {
	rootCmd := modelconv.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "MODELCONV",
		Section: "1",
		Source:  "modelconv " + version.Version,
		Manual:  "modelconv manual",
	}

	var err error
	if len(os.Args) > 1 {
		if err = os.MkdirAll(os.Args[1], 0755); err == nil {
			err = doc.GenManTree(rootCmd, header, os.Args[1])
		}
	} else {
		err = doc.GenMan(rootCmd, header, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
