package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ridoystarlord/sqlamodel/ddl"
)

func TestParseSQLiteCreateTable(t *testing.T) {
	t.Parallel()

	sql := `CREATE TABLE role (
    id INTEGER PRIMARY KEY,
    org_id INT NOT NULL,
    name VARCHAR(50),
    status BOOLEAN DEFAULT TRUE,
    ts INT DEFAULT (unixepoch()),
    note TEXT DEFAULT 'hello ''world''',
    email VARCHAR(100) UNIQUE,
    freeform,
    UNIQUE (org_id, name)
);
CREATE INDEX idx_role_org_id ON role (org_id);`

	stmts, err := Parse(sql, SQLite)
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	table, ok := stmts[0].(*ddl.CreateTable)
	require.True(t, ok, "statement is %T, want *ddl.CreateTable", stmts[0])
	require.Equal(t, "role", table.Name)
	require.Len(t, table.Columns, 8)

	id := findColumn(t, table, "id")
	require.Equal(t, "INTEGER", id.Type.Name)
	require.True(t, hasConstraint(id, ddl.PrimaryKey))

	orgID := findColumn(t, table, "org_id")
	require.Equal(t, "INT", orgID.Type.Name)
	require.True(t, hasConstraint(orgID, ddl.NotNull))

	name := findColumn(t, table, "name")
	require.Equal(t, "VARCHAR", name.Type.Name)
	require.Equal(t, []string{"50"}, name.Type.Args)

	status := findColumn(t, table, "status")
	require.Equal(t, &ddl.DefaultExpr{Kind: ddl.BoolDefault, Text: "true"}, defaultOf(t, status))

	ts := findColumn(t, table, "ts")
	require.Equal(t, &ddl.DefaultExpr{Kind: ddl.FuncDefault, Text: "unixepoch"}, defaultOf(t, ts))

	note := findColumn(t, table, "note")
	require.Equal(t, &ddl.DefaultExpr{Kind: ddl.LiteralDefault, Text: "hello 'world'"}, defaultOf(t, note))

	// Single-column unique constraints come back as the column flag.
	email := findColumn(t, table, "email")
	require.True(t, hasConstraint(email, ddl.Unique))

	// sqlite allows untyped columns; the extractor skips them later.
	freeform := findColumn(t, table, "freeform")
	require.Equal(t, "", freeform.Type.Name)

	// Declared names do not survive the autoindex round-trip.
	require.Equal(t, []ddl.TableConstraint{
		{Kind: ddl.Unique, Name: "", Columns: []string{"org_id", "name"}},
	}, table.Constraints)

	idx, ok := stmts[1].(*ddl.CreateIndex)
	require.True(t, ok, "statement is %T, want *ddl.CreateIndex", stmts[1])
	require.Equal(t, "idx_role_org_id", idx.Name)
	require.Equal(t, "role", idx.Table)
	require.False(t, idx.Unique)
	require.Equal(t, []string{"org_id"}, idx.Columns)
}

func TestParseSQLiteUniqueIndex(t *testing.T) {
	t.Parallel()

	sql := `CREATE TABLE t (a INT, b INT);
CREATE UNIQUE INDEX uq_t_a_b ON t (a, b);`

	stmts, err := Parse(sql, SQLite)
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	idx := stmts[1].(*ddl.CreateIndex)
	require.Equal(t, "uq_t_a_b", idx.Name)
	require.True(t, idx.Unique)
	require.Equal(t, []string{"a", "b"}, idx.Columns)
}

func TestParseSQLiteRejectsNonCreate(t *testing.T) {
	t.Parallel()

	_, err := Parse(`DELETE FROM role;`, SQLite)
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, SQLite, perr.Dialect)
	require.Contains(t, err.Error(), "unsupported statement kind DELETE")
}

func TestParseSQLiteRejectsViews(t *testing.T) {
	t.Parallel()

	_, err := Parse(`CREATE VIEW v AS SELECT 1;`, SQLite)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported statement kind View")
}

func TestParseSQLiteSyntaxError(t *testing.T) {
	t.Parallel()

	_, err := Parse(`CREATE TABLE role (id INT`, SQLite)
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, SQLite, perr.Dialect)
}

func TestSplitStatements(t *testing.T) {
	t.Parallel()

	sql := `-- header
CREATE TABLE a (x TEXT DEFAULT 'semi;colon');
CREATE INDEX i ON a (x);
`
	stmts := splitStatements(sql)
	require.Len(t, stmts, 2)
	require.Equal(t, "CREATE", firstKeyword(stmts[0]))
	require.Equal(t, "CREATE", firstKeyword(stmts[1]))
	require.Contains(t, stmts[0], "'semi;colon'")
}
