package relational

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "user-directory-service/pkg/errors"
)

// mapError classifies driver errors. The check is string based so the
// package stays independent of the concrete driver error types:
// SQLite reports "UNIQUE constraint failed", Postgres SQLSTATE 23505.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.EmailConflict(err)
	}

	le := strings.ToLower(err.Error())
	switch {
	case strings.Contains(le, "unique") || strings.Contains(le, "duplicate") || strings.Contains(le, "23505"):
		return apperrors.EmailConflict(err)
	case strings.Contains(le, "database is locked") || strings.Contains(le, "sqlite_busy"):
		return apperrors.NewUnavailableError("database is locked", err)
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		return apperrors.NewUnavailableError("storage request timed out", err)
	default:
		return apperrors.NewUnavailableError("storage backend unavailable", err)
	}
}
