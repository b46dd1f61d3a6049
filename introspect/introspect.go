package introspect

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ridoystarlord/sqlamodel/ddl"
)

// TableDDL is one live table lowered into the create statements the
// conversion pipeline consumes.
type TableDDL struct {
	Name       string
	Statements []ddl.Statement
}

// Schema introspects every base table in the given postgres schema and
// lowers each into DDL statements. When only is non-empty it filters the
// result to those table names.
func Schema(ctx context.Context, pool *pgxpool.Pool, pgSchema string, only []string) ([]TableDDL, error) {
	names, err := tableNames(ctx, pool, pgSchema)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(only))
	for _, name := range only {
		wanted[strings.TrimSpace(name)] = true
	}

	var out []TableDDL
	for _, name := range names {
		if len(wanted) > 0 && !wanted[name] {
			continue
		}
		stmts, err := tableStatements(ctx, pool, pgSchema, name)
		if err != nil {
			return nil, fmt.Errorf("introspecting table %s: %v", name, err)
		}
		out = append(out, TableDDL{Name: name, Statements: stmts})
	}

	return out, nil
}

func tableNames(ctx context.Context, pool *pgxpool.Pool, pgSchema string) ([]string, error) {
	tablesQuery := `
	SELECT table_name
	FROM information_schema.tables
	WHERE table_schema = $1 AND table_type = 'BASE TABLE'
	ORDER BY table_name;
	`

	rows, err := pool.Query(ctx, tablesQuery, pgSchema)
	if err != nil {
		return nil, fmt.Errorf("querying tables: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %v", err)
		}
		names = append(names, name)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating table rows: %v", rows.Err())
	}

	return names, nil
}

func tableStatements(ctx context.Context, pool *pgxpool.Pool, pgSchema, tableName string) ([]ddl.Statement, error) {
	create := &ddl.CreateTable{Name: tableName}

	if err := tableColumns(ctx, pool, pgSchema, tableName, create); err != nil {
		return nil, err
	}
	if err := tablePrimaryKey(ctx, pool, pgSchema, tableName, create); err != nil {
		return nil, err
	}
	if err := tableUniques(ctx, pool, pgSchema, tableName, create); err != nil {
		return nil, err
	}

	indexes, err := tableIndexes(ctx, pool, pgSchema, tableName)
	if err != nil {
		return nil, err
	}

	stmts := []ddl.Statement{create}
	for _, ix := range indexes {
		stmts = append(stmts, ix)
	}
	return stmts, nil
}

func tableColumns(ctx context.Context, pool *pgxpool.Pool, pgSchema, tableName string, create *ddl.CreateTable) error {
	// udt_name carries the raw internal type (int4, varchar, bpchar,
	// timestamptz, _int4 for arrays) so live columns hit the same type
	// map as parsed DDL.
	columnsQuery := `
	SELECT column_name, udt_name, character_maximum_length, is_nullable, column_default
	FROM information_schema.columns
	WHERE table_schema = $1 AND table_name = $2
	ORDER BY ordinal_position;
	`

	rows, err := pool.Query(ctx, columnsQuery, pgSchema, tableName)
	if err != nil {
		return fmt.Errorf("querying columns: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name     string
			udtName  string
			maxLen   *int
			nullable string
			dflt     *string
		)
		if err := rows.Scan(&name, &udtName, &maxLen, &nullable, &dflt); err != nil {
			return fmt.Errorf("scanning column: %v", err)
		}

		dt := ddl.DataType{Name: strings.ToUpper(udtName)}
		if elem, ok := strings.CutPrefix(udtName, "_"); ok {
			dt = ddl.DataType{Name: "ARRAY", Elem: &ddl.DataType{Name: strings.ToUpper(elem)}}
		}
		if maxLen != nil {
			dt.Args = []string{strconv.Itoa(*maxLen)}
		}

		col := ddl.ColumnDef{Name: name, Type: dt, Location: -1}
		if nullable == "NO" {
			col.Constraints = append(col.Constraints, ddl.ColumnConstraint{Kind: ddl.NotNull})
		}
		if dflt != nil {
			col.Constraints = append(col.Constraints, ddl.ColumnConstraint{
				Kind: ddl.Default,
				Expr: ddl.ClassifyDefaultText(*dflt),
			})
		}
		create.Columns = append(create.Columns, col)
	}
	if rows.Err() != nil {
		return fmt.Errorf("iterating column rows: %v", rows.Err())
	}

	return nil
}

func tablePrimaryKey(ctx context.Context, pool *pgxpool.Pool, pgSchema, tableName string, create *ddl.CreateTable) error {
	pkQuery := `
	SELECT kcu.column_name
	FROM information_schema.table_constraints tc
	JOIN information_schema.key_column_usage kcu
		ON tc.constraint_name = kcu.constraint_name
		AND tc.table_schema = kcu.table_schema
	WHERE tc.table_schema = $1 AND tc.table_name = $2
		AND tc.constraint_type = 'PRIMARY KEY'
	ORDER BY kcu.ordinal_position;
	`

	rows, err := pool.Query(ctx, pkQuery, pgSchema, tableName)
	if err != nil {
		return fmt.Errorf("querying primary key: %v", err)
	}
	defer rows.Close()

	pk := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scanning primary key column: %v", err)
		}
		pk[name] = true
	}
	if rows.Err() != nil {
		return fmt.Errorf("iterating primary key rows: %v", rows.Err())
	}

	for i := range create.Columns {
		if pk[create.Columns[i].Name] {
			create.Columns[i].Constraints = append(create.Columns[i].Constraints, ddl.ColumnConstraint{Kind: ddl.PrimaryKey})
		}
	}

	return nil
}

func tableUniques(ctx context.Context, pool *pgxpool.Pool, pgSchema, tableName string, create *ddl.CreateTable) error {
	uniqueQuery := `
	SELECT tc.constraint_name, kcu.column_name
	FROM information_schema.table_constraints tc
	JOIN information_schema.key_column_usage kcu
		ON tc.constraint_name = kcu.constraint_name
		AND tc.table_schema = kcu.table_schema
	WHERE tc.table_schema = $1 AND tc.table_name = $2
		AND tc.constraint_type = 'UNIQUE'
	ORDER BY tc.constraint_name, kcu.ordinal_position;
	`

	rows, err := pool.Query(ctx, uniqueQuery, pgSchema, tableName)
	if err != nil {
		return fmt.Errorf("querying unique constraints: %v", err)
	}
	defer rows.Close()

	var order []string
	byName := map[string][]string{}
	for rows.Next() {
		var cname, col string
		if err := rows.Scan(&cname, &col); err != nil {
			return fmt.Errorf("scanning unique constraint: %v", err)
		}
		if _, ok := byName[cname]; !ok {
			order = append(order, cname)
		}
		byName[cname] = append(byName[cname], col)
	}
	if rows.Err() != nil {
		return fmt.Errorf("iterating unique constraint rows: %v", rows.Err())
	}

	for _, cname := range order {
		cols := byName[cname]
		// A single-column unique becomes a column flag, multi-column
		// ones stay table-level constraints.
		if len(cols) == 1 {
			for i := range create.Columns {
				if create.Columns[i].Name == cols[0] {
					create.Columns[i].Constraints = append(create.Columns[i].Constraints, ddl.ColumnConstraint{Kind: ddl.Unique})
				}
			}
			continue
		}
		create.Constraints = append(create.Constraints, ddl.TableConstraint{
			Kind:    ddl.Unique,
			Name:    cname,
			Columns: cols,
		})
	}

	return nil
}

func tableIndexes(ctx context.Context, pool *pgxpool.Pool, pgSchema, tableName string) ([]*ddl.CreateIndex, error) {
	indexesQuery := `
	SELECT i.indexname, i.indexdef
	FROM pg_indexes i
	JOIN pg_class c ON c.relname = i.indexname
	JOIN pg_namespace n ON n.oid = c.relnamespace AND n.nspname = i.schemaname
	JOIN pg_index idx ON idx.indexrelid = c.oid
	WHERE i.schemaname = $1 AND i.tablename = $2
		AND NOT idx.indisprimary AND NOT idx.indisunique
	ORDER BY i.indexname;
	`

	rows, err := pool.Query(ctx, indexesQuery, pgSchema, tableName)
	if err != nil {
		return nil, fmt.Errorf("querying indexes: %v", err)
	}
	defer rows.Close()

	var indexes []*ddl.CreateIndex
	for rows.Next() {
		var name, indexdef string
		if err := rows.Scan(&name, &indexdef); err != nil {
			return nil, fmt.Errorf("scanning index: %v", err)
		}
		indexes = append(indexes, &ddl.CreateIndex{
			Name:    name,
			Table:   tableName,
			Columns: indexDefColumns(indexdef),
		})
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating index rows: %v", rows.Err())
	}

	return indexes, nil
}

// indexDefColumns pulls the column list out of a pg_indexes indexdef like
// "CREATE INDEX idx ON public.role USING btree (org_id, lower(name))".
func indexDefColumns(indexdef string) []string {
	open := strings.Index(indexdef, "(")
	end := strings.LastIndex(indexdef, ")")
	if open < 0 || end <= open {
		return nil
	}
	inner := indexdef[open+1 : end]

	var cols []string
	depth := 0
	start := 0
	for i := 0; i <= len(inner); i++ {
		if i == len(inner) || (inner[i] == ',' && depth == 0) {
			if col := indexDefColumn(strings.TrimSpace(inner[start:i])); col != "" {
				cols = append(cols, col)
			}
			start = i + 1
			continue
		}
		switch inner[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
	}
	return cols
}

// indexDefColumn reduces one indexdef entry to a column name. Expression
// entries like lower((name)::text) reduce to their first identifier.
func indexDefColumn(part string) string {
	if i := strings.IndexByte(part, '('); i >= 0 {
		part = part[i+1:]
		if j := strings.LastIndexByte(part, ')'); j >= 0 {
			part = part[:j]
		}
	}
	fields := strings.FieldsFunc(part, func(r rune) bool {
		return r != '_' && r != '"' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], `"`)
}
