package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ridoystarlord/sqlamodel/ddl"
)

func TestParseMySQLCreateTable(t *testing.T) {
	t.Parallel()

	sql := `CREATE TABLE IF NOT EXISTS users (
    id BIGINT AUTO_INCREMENT PRIMARY KEY,
    email VARCHAR(255) NOT NULL UNIQUE,
    active TINYINT(1) DEFAULT 1,
    bio TEXT COMMENT 'profile text',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    tenant_id INT,
    UNIQUE KEY uk_email_tenant (email, tenant_id)
) ENGINE=InnoDB;`

	stmts, err := Parse(sql, MySQL)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	table, ok := stmts[0].(*ddl.CreateTable)
	require.True(t, ok, "statement is %T, want *ddl.CreateTable", stmts[0])
	require.Equal(t, "users", table.Name)
	require.True(t, table.IfNotExists)
	require.Len(t, table.Columns, 6)

	id := findColumn(t, table, "id")
	require.Equal(t, "BIGINT", id.Type.Name)
	require.True(t, hasConstraint(id, ddl.PrimaryKey))

	email := findColumn(t, table, "email")
	require.Equal(t, "VARCHAR", email.Type.Name)
	require.Equal(t, []string{"255"}, email.Type.Args)
	require.True(t, hasConstraint(email, ddl.NotNull))
	require.True(t, hasConstraint(email, ddl.Unique))

	// tinyint(1) is how mysql spells boolean.
	active := findColumn(t, table, "active")
	require.Equal(t, "BOOL", active.Type.Name)
	require.Equal(t, &ddl.DefaultExpr{Kind: ddl.LiteralDefault, Text: "1"}, defaultOf(t, active))

	bio := findColumn(t, table, "bio")
	require.Equal(t, "TEXT", bio.Type.Name)
	var comment string
	for _, c := range bio.Constraints {
		if c.Kind == ddl.Comment {
			comment = c.Text
		}
	}
	require.Equal(t, "profile text", comment)

	createdAt := findColumn(t, table, "created_at")
	require.Equal(t, "DATETIME", createdAt.Type.Name)
	require.Equal(t, &ddl.DefaultExpr{Kind: ddl.FuncDefault, Text: "current_timestamp"}, defaultOf(t, createdAt))

	tenantID := findColumn(t, table, "tenant_id")
	require.Equal(t, "INT", tenantID.Type.Name)

	require.Equal(t, []ddl.TableConstraint{
		{Kind: ddl.Unique, Name: "uk_email_tenant", Columns: []string{"email", "tenant_id"}},
	}, table.Constraints)
}

func TestParseMySQLAnsiQuotes(t *testing.T) {
	t.Parallel()

	stmts, err := Parse(`CREATE TABLE "role" (id INT);`, MySQL)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	table := stmts[0].(*ddl.CreateTable)
	require.Equal(t, "role", table.Name)
}

func TestParseMySQLCreateIndex(t *testing.T) {
	t.Parallel()

	stmts, err := Parse(`CREATE UNIQUE INDEX uq_users_email ON users (email);`, MySQL)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	idx, ok := stmts[0].(*ddl.CreateIndex)
	require.True(t, ok, "statement is %T, want *ddl.CreateIndex", stmts[0])
	require.Equal(t, "uq_users_email", idx.Name)
	require.Equal(t, "users", idx.Table)
	require.True(t, idx.Unique)
	require.Equal(t, []string{"email"}, idx.Columns)
}

func TestParseMySQLNegativeDefault(t *testing.T) {
	t.Parallel()

	stmts, err := Parse(`CREATE TABLE t (balance INT DEFAULT -1);`, MySQL)
	require.NoError(t, err)

	table := stmts[0].(*ddl.CreateTable)
	balance := findColumn(t, table, "balance")
	require.Equal(t, &ddl.DefaultExpr{Kind: ddl.LiteralDefault, Text: "-1"}, defaultOf(t, balance))
}

func TestParseMySQLRejectsNonCreate(t *testing.T) {
	t.Parallel()

	_, err := Parse(`INSERT INTO users (id) VALUES (1);`, MySQL)
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, MySQL, perr.Dialect)
	require.Contains(t, err.Error(), "unsupported statement kind Insert")
}

func TestParseMySQLSyntaxError(t *testing.T) {
	t.Parallel()

	_, err := Parse(`CREATE TABLE users (id INT`, MySQL)
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, MySQL, perr.Dialect)
}
