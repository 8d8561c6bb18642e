package repository

import (
	"errors"
	"strings"
	"time"

	"hikari/internal/models"

	"gorm.io/gorm"
)

func microsToTime(us int64) time.Time {
	return time.UnixMicro(us)
}

// wrapDBError converts driver-level failures into AppErrors so handlers can
// map them to stable codes. Schema problems (missing table, missing index)
// surface as FAILED_PRECONDITION so operators see an actionable message
// instead of a generic 500.
func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Record", "")
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.NewConflictError("Record already exists")
	}
	msg := err.Error()
	if strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed") {
		return models.NewConflictError("Record already exists")
	}
	// 42P01 = undefined_table, 42703 = undefined_column
	if strings.Contains(msg, "SQLSTATE 42P01") || strings.Contains(msg, "SQLSTATE 42703") ||
		strings.Contains(msg, "no such table") || strings.Contains(msg, "no such column") {
		return models.NewFailedPreconditionError("Schema out of date; run migrations", err)
	}
	return models.NewInternalError(err)
}
