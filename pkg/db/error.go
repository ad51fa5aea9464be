package db

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation    = "23505"
	mysqlDuplicateEntry  = 1062
	sqliteUniquePrefix   = "UNIQUE constraint failed: "
	postgresUniqueSubstr = "duplicate key value violates unique constraint"
)

var (
	mysqlKeyRe    = regexp.MustCompile(`for key '([^']+)'`)
	postgresKeyRe = regexp.MustCompile(`unique constraint "([^"]+)"`)
)

// IsDuplicateKeyErr reports whether err is a unique constraint violation
// from any of the supported drivers.
func IsDuplicateKeyErr(err error) bool {
	_, ok := duplicateKey(err)
	return ok
}

// DuplicateKeyConstraint names the unique constraint err violated. Postgres
// and MySQL report the constraint or index name; SQLite reports the
// table.column list. It returns "" when err is not a duplicate key error or
// the driver did not say which key clashed.
func DuplicateKeyConstraint(err error) string {
	name, _ := duplicateKey(err)
	return name
}

func duplicateKey(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName, pgErr.Code == pgUniqueViolation
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if myErr.Number != mysqlDuplicateEntry {
			return "", false
		}
		return submatch(mysqlKeyRe, myErr.Message), true
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, sqliteUniquePrefix):
		_, cols, _ := strings.Cut(msg, sqliteUniquePrefix)
		cols, _, _ = strings.Cut(cols, " (")
		return strings.TrimSpace(cols), true
	case strings.Contains(msg, postgresUniqueSubstr):
		return submatch(postgresKeyRe, msg), true
	case strings.Contains(msg, "Error 1062"):
		return submatch(mysqlKeyRe, msg), true
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return "", true
	}
	return "", false
}

func submatch(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); len(m) == 2 {
		return m[1]
	}
	return ""
}
