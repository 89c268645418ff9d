package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes handled by FromDB.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

// FromDB converts a repository error into a tagged AppError. entity names the resource
// ("Product", "Bundle product") and is used in the client-facing message.
func FromDB(err error, entity string) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return &AppError{Kind: KindNotFound, Code: ResourceNotFound, Message: entity + " not found", Err: err}
	}

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return duplicateError(entity, fieldFromConstraint(pgErr.TableName, pgErr.ConstraintName), err)
		case pgForeignKeyViolation:
			return &AppError{Kind: KindValidation, Code: ValidationInvalidInput, Message: "referenced record does not exist", Err: err}
		case pgCheckViolation, pgNotNullViolation:
			return &AppError{Kind: KindValidation, Code: ValidationInvalidInput, Message: fmt.Sprintf("invalid %s data", strings.ToLower(entity)), Err: err}
		}
	}

	// SQLite (tests) reports constraint failures as plain text.
	msg := err.Error()
	switch {
	case stderrors.Is(err, gorm.ErrDuplicatedKey):
		return duplicateError(entity, "", err)
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return duplicateError(entity, fieldFromSQLite(msg), err)
	case strings.Contains(msg, "CHECK constraint failed"):
		return &AppError{Kind: KindValidation, Code: ValidationInvalidInput, Message: fmt.Sprintf("invalid %s data", strings.ToLower(entity)), Err: err}
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return &AppError{Kind: KindValidation, Code: ValidationInvalidInput, Message: "referenced record does not exist", Err: err}
	}

	return &AppError{Kind: KindInternal, Code: InternalDatabaseError, Message: msg, Err: err}
}

func duplicateError(entity, field string, err error) *AppError {
	message := entity + " already exists"
	if field != "" {
		message = fmt.Sprintf("%s with this %s already exists", entity, field)
	}
	return &AppError{Kind: KindConflict, Code: ResourceAlreadyExists, Message: message, Err: err}
}

// fieldFromConstraint turns idx_users_username into username.
func fieldFromConstraint(table, constraint string) string {
	name := strings.TrimPrefix(constraint, "idx_")
	if table != "" {
		name = strings.TrimPrefix(name, table+"_")
	}
	name = strings.TrimSuffix(name, "_key")
	return strings.ReplaceAll(name, "_", " ")
}

// fieldFromSQLite extracts the columns from "UNIQUE constraint failed: users.username".
func fieldFromSQLite(msg string) string {
	idx := strings.Index(msg, "UNIQUE constraint failed:")
	if idx < 0 {
		return ""
	}
	var fields []string
	for _, col := range strings.Split(msg[idx+len("UNIQUE constraint failed:"):], ",") {
		col = strings.TrimSpace(col)
		if dot := strings.LastIndex(col, "."); dot >= 0 {
			col = col[dot+1:]
		}
		if col != "" {
			fields = append(fields, strings.ReplaceAll(col, "_", " "))
		}
	}
	return strings.Join(fields, " and ")
}
