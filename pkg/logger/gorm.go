package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const maxSQLLength = 1000

// GormLogger writes GORM statements to zap. Bound parameters are never
// logged, so credential hashes and emails stay out of query logs.
type GormLogger struct {
	log           *zap.Logger
	slowThreshold time.Duration
	level         gormlogger.LogLevel
	expected      []error // outcomes the repositories turn into NotFound or Conflict
}

var (
	_ gormlogger.Interface = (*GormLogger)(nil)
	_ gorm.ParamsFilter    = (*GormLogger)(nil)
)

// NewGormLogger creates a GORM logger. logLevel takes the application's level
// names; debug and info log every statement.
func NewGormLogger(l *zap.Logger, slowQuerySeconds float64, logLevel string) *GormLogger {
	return &GormLogger{
		log:           l.Named("gorm"),
		slowThreshold: time.Duration(slowQuerySeconds * float64(time.Second)),
		level:         gormLevel(logLevel),
		expected:      []error{gorm.ErrRecordNotFound, gorm.ErrDuplicatedKey},
	}
}

func gormLevel(name string) gormlogger.LogLevel {
	switch name {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// LogMode implements gormlogger.Interface.
func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	g.printf(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

func (g *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	g.printf(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

func (g *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	g.printf(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (g *GormLogger) printf(ctx context.Context, min gormlogger.LogLevel, lvl zapcore.Level, msg string, data []any) {
	if g.level < min {
		return
	}
	WithContext(ctx, g.log).Log(lvl, fmt.Sprintf(msg, data...))
}

// ParamsFilter drops bound values; statements are logged with placeholders.
func (g *GormLogger) ParamsFilter(_ context.Context, sql string, _ ...any) (string, []any) {
	return sql, nil
}

// Trace logs a finished statement: failures at error, slow statements at
// warn, the rest at debug when the level is info.
func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil && !g.isExpected(err)
	slow := g.slowThreshold > 0 && elapsed > g.slowThreshold
	if !failed && !(slow && g.level >= gormlogger.Warn) && g.level < gormlogger.Info {
		return
	}

	sql, rows := fc()
	fields := []zap.Field{
		zap.String("sql", truncateSQL(sql)),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}
	log := WithContext(ctx, g.log)

	switch {
	case failed:
		log.Error("query failed", append(fields, zap.Error(err))...)
	case slow && g.level >= gormlogger.Warn:
		log.Warn("slow query", append(fields, zap.Duration("threshold", g.slowThreshold))...)
	default:
		log.Debug("query", fields...)
	}
}

func (g *GormLogger) isExpected(err error) bool {
	for _, e := range g.expected {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

func truncateSQL(sql string) string {
	if len(sql) <= maxSQLLength {
		return sql
	}
	return sql[:maxSQLLength] + "...(truncated)"
}
