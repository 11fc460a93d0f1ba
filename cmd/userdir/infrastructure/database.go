package infrastructure

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-directory-service/internal/adapter/db/relational"
	"user-directory-service/internal/config"
	"user-directory-service/pkg/logger"
)

// NewDatabase opens the configured relational backend and ensures the schema exists.
func NewDatabase(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	dialector, err := relational.Dialector(cfg.DB)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.NewGormLogger(l, cfg.Logger.SlowQuerySeconds, cfg.Logger.Level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DB.ConnMaxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DB.ConnMaxIdleTime) * time.Second)

	if err := relational.Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	fields := []zap.Field{
		zap.String("backend", cfg.DB.Backend),
		zap.Int("max_open_conns", cfg.DB.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.DB.MaxIdleConns),
	}
	if cfg.DB.Backend == config.BackendSQLite {
		fields = append(fields,
			zap.String("path", cfg.DB.SQLitePath),
			zap.String("journal_mode", cfg.DB.SQLiteJournalMode),
			zap.Int("busy_timeout_ms", cfg.DB.SQLiteBusyTimeoutMS),
		)
	}
	l.Info("database connected", fields...)

	return db, nil
}
