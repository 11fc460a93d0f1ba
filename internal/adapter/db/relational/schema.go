package relational

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/glebarez/sqlite"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"user-directory-service/internal/config"
)

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`                      // Never reused after delete
	Name           string `gorm:"size:100;not null"`                             // User's full name
	Email          string `gorm:"size:254;not null;uniqueIndex:idx_users_email"` // Unique, case-sensitive
	HashedPassword string `gorm:"column:hashed_password;not null"`               // bcrypt hash, never the plaintext
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// SQLite's AutoMigrate emits a bare INTEGER PRIMARY KEY, which lets SQLite
// hand out the ID of a deleted tail row again. AUTOINCREMENT forbids that.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(254) NOT NULL,
		hashed_password TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (email)`,
}

// SQLiteDSN builds a DSN that applies the configured pragmas on every pooled
// connection, not only the first one.
func SQLiteDSN(cfg config.DatabaseConfig) string {
	params := url.Values{}
	params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", cfg.SQLiteBusyTimeoutMS))
	if cfg.SQLiteJournalMode != "" {
		params.Add("_pragma", fmt.Sprintf("journal_mode(%s)", strings.ToUpper(cfg.SQLiteJournalMode)))
	}
	if cfg.SQLiteForeignKeys {
		params.Add("_pragma", "foreign_keys(1)")
	} else {
		params.Add("_pragma", "foreign_keys(0)")
	}
	return cfg.SQLitePath + "?" + params.Encode()
}

// Dialector returns the GORM dialector for the configured relational backend.
func Dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return sqlite.Open(SQLiteDSN(cfg)), nil
	case config.BackendPostgres:
		return pgdriver.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("backend %q is not relational", cfg.Backend)
	}
}

// Migrate creates the users table and its unique email index if missing.
func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() != "sqlite" {
		if err := db.AutoMigrate(&UserSchema{}); err != nil {
			return fmt.Errorf("failed to migrate users table: %w", err)
		}
		return nil
	}

	for _, stmt := range sqliteSchema {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to migrate users table: %w", err)
		}
	}
	return nil
}

// Reset drops the users table and recreates it empty.
func Reset(db *gorm.DB) error {
	if err := db.Migrator().DropTable(&UserSchema{}); err != nil {
		return fmt.Errorf("failed to drop users table: %w", err)
	}
	return Migrate(db)
}
