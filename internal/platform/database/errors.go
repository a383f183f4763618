package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/phrazzld/novatasks-api/internal/store"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

// constraintKind classifies a driver error as one of the schema violations
// both backends report.
type constraintKind int

const (
	constraintNone constraintKind = iota
	constraintUnique
	constraintForeignKey
	constraintCheck
	constraintNotNull
)

func classify(err error) constraintKind {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return constraintUnique
		case sqlite3.ErrConstraintForeignKey:
			return constraintForeignKey
		case sqlite3.ErrConstraintCheck:
			return constraintCheck
		case sqlite3.ErrConstraintNotNull:
			return constraintNotNull
		}
		return constraintNone
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return constraintUnique
		case foreignKeyViolationCode:
			return constraintForeignKey
		case checkViolationCode:
			return constraintCheck
		case notNullViolationCode:
			return constraintNotNull
		}
	}
	return constraintNone
}

// MapError maps a database error to an appropriate store error.
// Both the store sentinel and the original driver error stay reachable through errors.Is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}

	switch classify(err) {
	case constraintUnique:
		return fmt.Errorf("%w: %w", store.ErrDuplicate, err)
	case constraintForeignKey:
		return fmt.Errorf("%w: foreign key violation: %w", store.ErrInvalidEntity, err)
	case constraintCheck:
		return fmt.Errorf("%w: check constraint violation: %w", store.ErrInvalidEntity, err)
	case constraintNotNull:
		return fmt.Errorf("%w: not null violation: %w", store.ErrInvalidEntity, err)
	}

	return err
}

// IsUniqueViolation reports whether err is a unique constraint violation on either backend.
func IsUniqueViolation(err error) bool {
	return classify(err) == constraintUnique
}

// IsForeignKeyViolation reports whether err is a foreign key violation on either backend.
func IsForeignKeyViolation(err error) bool {
	return classify(err) == constraintForeignKey
}

// CheckRowsAffected returns notFound (store.ErrNotFound when nil) if an
// UPDATE or DELETE touched no rows.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if notFound == nil {
			return store.ErrNotFound
		}
		return notFound
	}
	return nil
}
