package db

import (
	"github.com/Albumate/Albumate-Back/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var Instance *gorm.DB

// Init opens MySQL when MYSQL_DSN is configured and falls back to SQLITE_FILE otherwise
func Init() {
	if config.MYSQL_DSN != "" {
		InitWith(mysql.Open(config.MYSQL_DSN))
		return
	}
	InitWith(sqlite.Open(SQLiteDSN(config.SQLITE_FILE)))
}

// SQLiteDSN opens transactions with BEGIN IMMEDIATE so concurrent writers queue on
// the busy timeout instead of failing to upgrade a read lock
func SQLiteDSN(file string) string {
	return file + "?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate&_journal_mode=WAL"
}

func InitWith(dialector gorm.Dialector) {
	logLevel := gormlogger.Silent
	if config.DEBUG_MODE {
		logLevel = gormlogger.Warn
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
		Logger:                 gormlogger.Default.LogMode(logLevel),
	})
	if err != nil || db == nil {
		panic(err)
	}
	Instance = db
}
