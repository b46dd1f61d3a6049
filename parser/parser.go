// Package parser turns raw DDL text into the normalized statement tree.
// Each supported dialect has its own front end; all of them reject
// anything that is not a CREATE TABLE / CREATE INDEX statement, and
// parsing is all or nothing.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ridoystarlord/sqlamodel/ddl"
)

// Dialect selects the SQL front end.
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
)

// ErrEmptyInput is returned when the input contains no statements at all.
var ErrEmptyInput = errors.New("sql statement is empty")

// ParseError reports a failed parse: a syntax error from the dialect
// front end, or a statement kind the converter does not accept.
type ParseError struct {
	Dialect Dialect
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s ddl: %v", e.Dialect, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Dialects lists the supported dialects in display order.
func Dialects() []Dialect {
	return []Dialect{Postgres, MySQL, SQLite}
}

// ParseDialect resolves a user-supplied dialect name, accepting the
// common aliases.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pg", "psql":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return "", fmt.Errorf("unknown dialect %q (supported: postgres, mysql, sqlite)", name)
}

// Parse parses sql under the given dialect into creation statements. The
// first offending statement aborts the whole input.
func Parse(sql string, dialect Dialect) ([]ddl.Statement, error) {
	if strings.TrimSpace(sql) == "" {
		return nil, ErrEmptyInput
	}
	switch dialect {
	case Postgres:
		return parsePostgres(sql)
	case MySQL:
		return parseMySQL(sql)
	case SQLite:
		return parseSQLite(sql)
	}
	return nil, fmt.Errorf("unknown dialect %q (supported: postgres, mysql, sqlite)", string(dialect))
}
