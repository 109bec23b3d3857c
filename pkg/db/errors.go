package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a uniqueness-constraint failure
// from any supported driver. When constraintName is given, the violation must
// reference that constraint.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		if pgxErr.Code != pgUniqueViolation {
			return false
		}
		return constraintName == "" || pgxErr.ConstraintName == constraintName
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if string(pqErr.Code) != pgUniqueViolation {
			return false
		}
		return constraintName == "" || pqErr.Constraint == constraintName
	}

	// SQLite reports "UNIQUE constraint failed: cars.vin"; Postgres text
	// fallback for drivers that flatten the error.
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") && !strings.Contains(msg, "duplicate key value") {
		return false
	}
	if constraintName == "" {
		return true
	}
	for _, form := range constraintMessageForms(constraintName) {
		if strings.Contains(msg, form) {
			return true
		}
	}
	return false
}

// constraintMessageForms returns the fragments that identify a constraint in
// flattened error text. Migrations name unique indexes idx_<table>_<column>,
// but SQLite reports the violated column as <table>.<column>.
func constraintMessageForms(constraintName string) []string {
	forms := []string{constraintName}
	if rest, ok := strings.CutPrefix(constraintName, "idx_"); ok {
		if table, column, found := strings.Cut(rest, "_"); found {
			forms = append(forms, table+"."+column)
		}
	}
	return forms
}
