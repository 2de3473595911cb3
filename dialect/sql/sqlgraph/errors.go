package sqlgraph

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"modernc.org/sqlite"
)

// PostgreSQL SQLSTATE codes for constraint violations (class 23).
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// MySQL error numbers for constraint violations.
const (
	mysqlDuplicateEntry   uint16 = 1062
	mysqlForeignKeyParent uint16 = 1451
	mysqlForeignKeyChild  uint16 = 1452
	mysqlCheckViolation   uint16 = 3819
)

// SQLite extended result codes for constraint violations.
const (
	sqliteConstraintCheck      = 275
	sqliteConstraintForeignKey = 787
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// WrapConstraintError converts a backend constraint violation into a
// ConstraintError carrying the original error in its chain. Errors that do
// not classify as constraint violations are returned unchanged.
func WrapConstraintError(err error) error {
	if err == nil || !IsConstraintError(err) {
		return err
	}
	return ConstraintError{msg: err.Error(), wrap: err}
}

// IsConstraintError returns true if the error resulted from a database
// constraint violation of any kind.
func IsConstraintError(err error) bool {
	var e ConstraintError
	return errors.As(err, &e) ||
		IsUniqueConstraintError(err) ||
		IsForeignKeyConstraintError(err) ||
		IsCheckConstraintError(err)
}

// IsUniqueConstraintError reports if the error resulted from a uniqueness
// constraint violation, e.g. a duplicate value in a unique index.
func IsUniqueConstraintError(err error) bool {
	return matchBackend(err,
		func(code string) bool { return code == pgUniqueViolation },
		func(num uint16) bool { return num == mysqlDuplicateEntry },
		func(code int) bool { return code == sqliteConstraintUnique || code == sqliteConstraintPrimaryKey },
		"violates unique constraint",
		"UNIQUE constraint failed",
	)
}

// IsForeignKeyConstraintError reports if the error resulted from a
// foreign-key constraint violation, e.g. a referenced row does not exist.
func IsForeignKeyConstraintError(err error) bool {
	return matchBackend(err,
		func(code string) bool { return code == pgForeignKeyViolation },
		func(num uint16) bool { return num == mysqlForeignKeyParent || num == mysqlForeignKeyChild },
		func(code int) bool { return code == sqliteConstraintForeignKey },
		"violates foreign key constraint",
		"FOREIGN KEY constraint failed",
	)
}

// IsCheckConstraintError reports if the error resulted from a check
// constraint violation, e.g. a value rejected by a CHECK condition.
func IsCheckConstraintError(err error) bool {
	return matchBackend(err,
		func(code string) bool { return code == pgCheckViolation },
		func(num uint16) bool { return num == mysqlCheckViolation },
		func(code int) bool { return code == sqliteConstraintCheck },
		"violates check constraint",
		"CHECK constraint failed",
	)
}

// matchBackend classifies an error against the known backend driver error
// types, falling back to message matching for wrapped drivers that do not
// preserve the concrete error in their chain.
func matchBackend(err error, pgCode func(string) bool, myNum func(uint16) bool, liteCode func(int) bool, substrs ...string) bool {
	if err == nil {
		return false
	}
	var pqe *pq.Error
	if errors.As(err, &pqe) {
		return pgCode(string(pqe.Code))
	}
	var mye *mysql.MySQLError
	if errors.As(err, &mye) {
		return myNum(mye.Number)
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		return liteCode(se.Code())
	}
	// SQLSTATE is also exposed by pgx and friends outside their concrete
	// error types.
	var state interface{ SQLState() string }
	if errors.As(err, &state) {
		return pgCode(state.SQLState())
	}
	msg := err.Error()
	for _, sub := range substrs {
		if strings.Contains(msg, sub) {
			return true
		}
	}
	return false
}
