package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mercearia/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes handled explicitly
const (
	pgUniqueViolation      = "23505"
	pgLockNotAvailable     = "55P03"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// TranslateError turns an error leaving a unit of work into a
// *shared.DomainError. Domain errors pass through; integrity violations
// keep the violated constraint in Detail; anything else is INTERNAL_ERROR
// wrapping the cause.
func TranslateError(dialector gorm.Dialector, err error) error {
	if err == nil {
		return nil
	}
	if de, ok := shared.AsDomainError(err); ok {
		return de
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return translatePgError(pgErr, err)
	}

	translated := err
	if t, ok := dialector.(gorm.ErrorTranslator); ok {
		translated = t.Translate(err)
	}
	switch {
	case errors.Is(translated, gorm.ErrDuplicatedKey):
		return shared.WrapDomainError(shared.ErrAlreadyExists.Code, shared.ErrAlreadyExists.Message, err)
	case errors.Is(translated, gorm.ErrForeignKeyViolated):
		return shared.WrapDomainError(shared.ErrIntegrityViolation.Code, shared.ErrIntegrityViolation.Message, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return shared.WrapDomainError(shared.ErrInternal.Code, "Operation cancelled, nothing was saved", err)
	}
	return shared.WrapDomainError(shared.ErrInternal.Code, shared.ErrInternal.Message, err)
}

func translatePgError(pgErr *pgconn.PgError, cause error) *shared.DomainError {
	var de *shared.DomainError
	switch {
	case pgErr.Code == pgUniqueViolation:
		de = shared.WrapDomainError(shared.ErrAlreadyExists.Code, shared.ErrAlreadyExists.Message, cause)
	case strings.HasPrefix(pgErr.Code, "23"):
		de = shared.WrapDomainError(shared.ErrIntegrityViolation.Code, shared.ErrIntegrityViolation.Message, cause)
	case pgErr.Code == pgLockNotAvailable, pgErr.Code == pgSerializationFailure, pgErr.Code == pgDeadlockDetected:
		de = shared.WrapDomainError(shared.ErrConcurrencyConflict.Code, "Resource is busy, try again", cause)
	default:
		return shared.WrapDomainError(shared.ErrInternal.Code, shared.ErrInternal.Message, cause)
	}
	if pgErr.ConstraintName != "" {
		de.Detail = pgErr.ConstraintName
	}
	return de
}
