package parser

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/ridoystarlord/sqlamodel/ddl"
)

// parseSQLite has no standalone grammar to lean on: the input is applied
// to a throwaway in-memory database and the schema is read back through
// the PRAGMA tables. A lexical pre-pass rejects statements that are not
// CREATE before anything executes.
func parseSQLite(input string) ([]ddl.Statement, error) {
	for _, stmt := range splitStatements(input) {
		if kw := firstKeyword(stmt); !strings.EqualFold(kw, "CREATE") {
			return nil, &ParseError{
				Dialect: SQLite,
				Err:     fmt.Errorf("unsupported statement kind %s: only CREATE TABLE and CREATE INDEX are converted", strings.ToUpper(kw)),
			}
		}
	}
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, &ParseError{Dialect: SQLite, Err: err}
	}
	defer db.Close()
	if _, err := db.Exec(input); err != nil {
		return nil, &ParseError{Dialect: SQLite, Err: err}
	}
	return introspectSQLite(db)
}

func introspectSQLite(db *sql.DB) ([]ddl.Statement, error) {
	rows, err := db.Query(`SELECT name, type, tbl_name FROM sqlite_master WHERE name NOT LIKE 'sqlite_%' ORDER BY rowid`)
	if err != nil {
		return nil, &ParseError{Dialect: SQLite, Err: err}
	}
	defer rows.Close()
	type object struct{ name, kind, table string }
	var objects []object
	for rows.Next() {
		var o object
		if err := rows.Scan(&o.name, &o.kind, &o.table); err != nil {
			return nil, &ParseError{Dialect: SQLite, Err: err}
		}
		objects = append(objects, o)
	}
	if err := rows.Err(); err != nil {
		return nil, &ParseError{Dialect: SQLite, Err: err}
	}
	var stmts []ddl.Statement
	for _, obj := range objects {
		switch obj.kind {
		case "table":
			table, err := sqliteTable(db, obj.name)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, table)
		case "index":
			idx, err := sqliteIndex(db, obj.name, obj.table)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, idx)
		default:
			kind := strings.ToUpper(obj.kind[:1]) + obj.kind[1:]
			return nil, &ParseError{
				Dialect: SQLite,
				Err:     fmt.Errorf("unsupported statement kind %s: only CREATE TABLE and CREATE INDEX are converted", kind),
			}
		}
	}
	return stmts, nil
}

func sqliteTable(db *sql.DB, name string) (*ddl.CreateTable, error) {
	table := &ddl.CreateTable{Name: name}
	rows, err := db.Query(`SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid`, name)
	if err != nil {
		return nil, &ParseError{Dialect: SQLite, Err: fmt.Errorf("reading columns of %s: %v", name, err)}
	}
	defer rows.Close()
	for rows.Next() {
		var (
			colName, colType string
			notNull, pk      int
			dflt             sql.NullString
		)
		if err := rows.Scan(&colName, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, &ParseError{Dialect: SQLite, Err: err}
		}
		col := ddl.ColumnDef{
			Name:     colName,
			Type:     ddl.ParseDeclaredType(colType),
			Location: -1,
		}
		if pk > 0 {
			col.Constraints = append(col.Constraints, ddl.ColumnConstraint{Kind: ddl.PrimaryKey})
		}
		if notNull != 0 {
			col.Constraints = append(col.Constraints, ddl.ColumnConstraint{Kind: ddl.NotNull})
		}
		if dflt.Valid {
			if expr := ddl.ClassifyDefaultText(dflt.String); expr != nil {
				col.Constraints = append(col.Constraints, ddl.ColumnConstraint{Kind: ddl.Default, Expr: expr})
			}
		}
		table.Columns = append(table.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, &ParseError{Dialect: SQLite, Err: err}
	}
	return table, sqliteUniques(db, table)
}

// sqliteUniques folds unique constraints back onto the table. sqlite only
// exposes them as backing indexes: the origin 'u' rows of index_list.
// Single-column ones become the column's unique flag, the rest become
// table constraints. Declared constraint names do not survive the
// round-trip (the backing index is always sqlite_autoindex_*), so names
// stay empty for downstream synthesis. index_list enumerates most-recent
// first, hence the descending seq order.
func sqliteUniques(db *sql.DB, table *ddl.CreateTable) error {
	rows, err := db.Query(`SELECT name, origin FROM pragma_index_list(?) ORDER BY seq DESC`, table.Name)
	if err != nil {
		return &ParseError{Dialect: SQLite, Err: fmt.Errorf("reading indexes of %s: %v", table.Name, err)}
	}
	defer rows.Close()
	var uniques []string
	for rows.Next() {
		var idxName, origin string
		if err := rows.Scan(&idxName, &origin); err != nil {
			return &ParseError{Dialect: SQLite, Err: err}
		}
		if origin == "u" {
			uniques = append(uniques, idxName)
		}
	}
	if err := rows.Err(); err != nil {
		return &ParseError{Dialect: SQLite, Err: err}
	}
	for _, idxName := range uniques {
		cols, err := sqliteIndexColumns(db, idxName)
		if err != nil {
			return err
		}
		switch {
		case len(cols) == 1:
			for i := range table.Columns {
				if table.Columns[i].Name == cols[0] {
					table.Columns[i].Constraints = append(table.Columns[i].Constraints, ddl.ColumnConstraint{Kind: ddl.Unique})
					break
				}
			}
		case len(cols) > 1:
			name := ""
			if !strings.HasPrefix(idxName, "sqlite_autoindex_") {
				name = idxName
			}
			table.Constraints = append(table.Constraints, ddl.TableConstraint{Kind: ddl.Unique, Name: name, Columns: cols})
		}
	}
	return nil
}

func sqliteIndexColumns(db *sql.DB, index string) ([]string, error) {
	rows, err := db.Query(`SELECT name FROM pragma_index_info(?) ORDER BY seqno`, index)
	if err != nil {
		return nil, &ParseError{Dialect: SQLite, Err: fmt.Errorf("reading index %s: %v", index, err)}
	}
	defer rows.Close()
	var cols []string
	for rows.Next() {
		var name sql.NullString
		if err := rows.Scan(&name); err != nil {
			return nil, &ParseError{Dialect: SQLite, Err: err}
		}
		if name.Valid {
			cols = append(cols, name.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &ParseError{Dialect: SQLite, Err: err}
	}
	return cols, nil
}

func sqliteIndex(db *sql.DB, name, table string) (*ddl.CreateIndex, error) {
	cols, err := sqliteIndexColumns(db, name)
	if err != nil {
		return nil, err
	}
	var unique int
	err = db.QueryRow(`SELECT "unique" FROM pragma_index_list(?) WHERE name = ?`, table, name).Scan(&unique)
	if err != nil && err != sql.ErrNoRows {
		return nil, &ParseError{Dialect: SQLite, Err: err}
	}
	return &ddl.CreateIndex{Name: name, Table: table, Unique: unique != 0, Columns: cols}, nil
}

// splitStatements splits input on top-level semicolons, respecting string
// literals, quoted identifiers, and both comment forms. Chunks without
// content are dropped.
func splitStatements(input string) []string {
	var stmts []string
	var b strings.Builder
	for i := 0; i < len(input); i++ {
		c := input[i]
		switch c {
		case '\'', '"', '`':
			quote := c
			b.WriteByte(c)
			for i++; i < len(input); i++ {
				b.WriteByte(input[i])
				if input[i] == quote {
					if quote == '\'' && i+1 < len(input) && input[i+1] == '\'' {
						i++
						b.WriteByte(input[i])
						continue
					}
					break
				}
			}
		case '-':
			if i+1 < len(input) && input[i+1] == '-' {
				for ; i < len(input) && input[i] != '\n'; i++ {
					b.WriteByte(input[i])
				}
				if i < len(input) {
					b.WriteByte('\n')
				}
				continue
			}
			b.WriteByte(c)
		case '/':
			if i+1 < len(input) && input[i+1] == '*' {
				end := strings.Index(input[i+2:], "*/")
				if end < 0 {
					b.WriteString(input[i:])
					i = len(input)
					continue
				}
				b.WriteString(input[i : i+2+end+2])
				i += 2 + end + 1
				continue
			}
			b.WriteByte(c)
		case ';':
			stmts = append(stmts, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	stmts = append(stmts, b.String())
	out := stmts[:0]
	for _, s := range stmts {
		if firstKeyword(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// firstKeyword returns the first bare word of a statement, skipping
// leading whitespace and comments.
func firstKeyword(s string) string {
	for i := 0; i < len(s); {
		switch {
		case s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r':
			i++
		case strings.HasPrefix(s[i:], "--"):
			nl := strings.IndexByte(s[i:], '\n')
			if nl < 0 {
				return ""
			}
			i += nl + 1
		case strings.HasPrefix(s[i:], "/*"):
			end := strings.Index(s[i:], "*/")
			if end < 0 {
				return ""
			}
			i += end + 2
		default:
			j := i
			for j < len(s) && isIdentChar(s[j]) {
				j++
			}
			return s[i:j]
		}
	}
	return ""
}

func isIdentChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}
