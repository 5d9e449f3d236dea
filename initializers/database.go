package initializers

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/basit/download-tracker/models"
)

// ConnectToDatabase opens the record store and migrates the schema.
func ConnectToDatabase(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.New(sqlite.Config{
			DriverName: "sqlite",
			DSN:        sqliteDSN(cfg.DBURL),
		})
	default:
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DBURL,
			PreferSimpleProtocol: true,
		})
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}
	if cfg.DBDriver == "sqlite" {
		// A single writer avoids SQLITE_BUSY on the append path.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying SQL DB instance: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&models.DownloadRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}
	log.Println("✅ Database connected and migrated successfully")
	return db, nil
}

// sqliteDSN pins the text layout used for bound time values so stored dates
// compare correctly as strings.
func sqliteDSN(path string) string {
	if strings.Contains(path, "_time_format=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_time_format=sqlite&_pragma=busy_timeout(10000)"
}
