package main

import (
	"os"

	"github.com/scalr-tools/bulk-import/cmd/importctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
