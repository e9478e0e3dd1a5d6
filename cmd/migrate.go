package cmd

import (
	"github.com/Albumate/Albumate-Back/config"
	"github.com/Albumate/Albumate-Back/db"
	"github.com/Albumate/Albumate-Back/logger"
	"github.com/Albumate/Albumate-Back/models"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables and exit",
	Run: func(cmd *cobra.Command, args []string) {
		db.Init()
		if err := models.Init(); err != nil {
			logger.Fatal("migrate database", logger.ErrorField(err))
		}
		driver := "sqlite"
		if config.MYSQL_DSN != "" {
			driver = "mysql"
		}
		logger.Info("database migrated", logger.String("driver", driver))
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
