// Command ncdgo classifies text with compression-distance k nearest neighbours.
package main

import (
	"os"

	"github.com/hupe1980/ncdgo/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
