package repository

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"goaldesk/internal/model"
)

// NewDB opens a SQLite database and migrates the schema. Migration is
// idempotent and safe to run on every startup. The returned handle is owned
// by the caller; pass it to the repositories and Close it on shutdown.
func NewDB(path string, log *zap.Logger) (*gorm.DB, error) {
	if path == "" {
		path = "goaldesk.db"
	}

	if err := ensureDirForSQLite(path); err != nil {
		return nil, storageErr("open db", err)
	}

	dbLogger := logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, storageErr("open db", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.NotificationPreferences{},
		&model.Goal{},
		&model.Task{},
		&model.Reminder{},
	); err != nil {
		return nil, storageErr("migrate db", err)
	}

	return db, nil
}

// Close releases the underlying connection.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return storageErr("close db", err)
	}
	if err := sqlDB.Close(); err != nil {
		return storageErr("close db", err)
	}
	return nil
}

// ensureDirForSQLite creates the parent dir for the SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
