package cmd

import (
	"fmt"
	"os"

	"github.com/Albumate/Albumate-Back/config"
	"github.com/Albumate/Albumate-Back/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "albumate",
	Short: "Albumate is a shared photo album service.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(logger.Config{
			Level:      config.LOG_LEVEL,
			OutputPath: config.LOG_FILE,
		})
	},
	// serve is the default
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

// Execute executes the root command.
func Execute() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
