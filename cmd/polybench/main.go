// Command polybench is the CLI entrypoint: lower a .bench suite, run it
// across languages, and report the results.
package main

import (
	"fmt"
	"os"

	"github.com/polybench-dev/polybench/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
