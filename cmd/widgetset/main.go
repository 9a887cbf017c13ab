package main

import (
	"fmt"
	"os"

	"github.com/ubersicht-tools/widgetset/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Cli(version); err != nil {
		fmt.Fprintf(os.Stderr, "widgetset: %v\n", err)
		os.Exit(1)
	}
}
