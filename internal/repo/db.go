package repo

import (
	"fmt"
	"strings"

	"KeyringRaw/internal/model"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// InitDB открывает БД для экспорта и выполняет миграции.
// DSN вида postgres://... или "host=... dbname=..." открывается через PostgreSQL,
// всё остальное считается путём к файлу SQLite.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(dialectorFor(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open export db: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate создаёт таблицы экспорта.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.ExportedKeyring{},
		&model.ExportedItem{},
		&model.ExportedAttribute{},
		&model.ExportedACL{},
	); err != nil {
		return fmt.Errorf("migrate export db: %w", err)
	}
	return nil
}

// Close закрывает пул соединений gorm.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialectorFor(dsn string) gorm.Dialector {
	if isPostgresDSN(dsn) {
		return postgres.Open(dsn)
	}
	// modernc.org/sqlite регистрируется под именем "sqlite" и не требует cgo
	return gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
}

func isPostgresDSN(dsn string) bool {
	d := strings.TrimSpace(dsn)
	return strings.HasPrefix(d, "postgres://") ||
		strings.HasPrefix(d, "postgresql://") ||
		strings.Contains(d, "host=")
}
