package initializers

import (
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectToDB opens MySQL when DB_DSN is set and falls back to a local
// SQLite file otherwise, which is what dev and CI run against.
func ConnectToDB() {
	var err error
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	} else {
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "adomi.db"
		}
		DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	}
	if err != nil {
		Log.Fatal().Err(err).Msg("failed to connect to database")
	}
}
