package cmd

import (
	"github.com/scalr-tools/bulk-import/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	verboseFlag bool
	logFileFlag string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "importctl",
	Short: "importctl drives bulk provisioning of Scalr farms from a declarative Plan.",
	Long: `importctl executes and compiles Plans: ordered lists of Steps against a
signed HTTP control-plane API. It can also compile an operator-supplied CSV
of existing cloud servers into the Plans that bring them under management.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logOpts := logger.DefaultOptions()
		logOpts.ColorConsole = true
		if verboseFlag {
			logOpts.ConsoleLevel = logger.DebugLevel
		}
		if logFileFlag != "" {
			logOpts.FileOutput = true
			logOpts.LogFilePath = logFileFlag
			logOpts.FileLevel = logger.DebugLevel
		}
		logger.Init(logOpts)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug-level console logging")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "also write rotating JSON logs to this file")
}
