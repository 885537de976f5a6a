package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version, Commit and Date are set by the build process via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of importctl",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("importctl version: %s\n", Version)
		fmt.Printf("Git Commit: %s\n", Commit)
		fmt.Printf("Build Date: %s\n", Date)
	},
}
