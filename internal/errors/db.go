package errors

import (
	"context"
	"errors"
	"regexp"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// reKeyField extracts field name from unique violation detail: "Key (field)=(value) already exists.".
var reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)

// MapDBError maps database errors to AppError instances.
// It handles common database error patterns including:
// - pgx.ErrNoRows → NotFound
// - Unique constraint violations → Conflict (duplicate job submission)
// - Check constraint violations → Validation (unknown status value)
// - NOT NULL violations → Validation
// - Context timeouts/cancellations → Timeout/Canceled
//
// If the error is not a recognized database error, it returns the original error.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{
			Code:    ErrCodeTimeout,
			Message: "database request timed out",
			Cause:   err,
		}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{
			Code:    ErrCodeCanceled,
			Message: "database request was canceled",
			Cause:   err,
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return &AppError{
			Code:    ErrCodeNotFound,
			Message: "resource not found",
			Cause:   err,
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}

	return err
}

// mapPgError maps PostgreSQL-specific errors to AppError instances.
func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return mapUniqueViolation(pgErr)
	case pgerrcode.CheckViolation:
		appErr := ValidationField(pgErr.ColumnName, "value rejected by a database constraint")
		appErr.Cause = pgErr
		return appErr
	case pgerrcode.NotNullViolation:
		appErr := ValidationField(pgErr.ColumnName, "required field is missing")
		appErr.Cause = pgErr
		return appErr
	default:
		return &AppError{
			Code:    ErrCodeInfra,
			Message: "database error",
			Cause:   pgErr,
		}
	}
}

// mapUniqueViolation maps unique constraint violations to Conflict errors.
// Duplicate job ids at intake land here.
func mapUniqueViolation(pgErr *pgconn.PgError) error {
	field := pgErr.ColumnName
	if field == "" && pgErr.Detail != "" {
		if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			field = m[1]
		}
	}

	return &AppError{
		Code:    ErrCodeConflict,
		Message: "a record with this identifier already exists",
		Field:   field,
		Cause:   pgErr,
	}
}
