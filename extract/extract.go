// Package extract walks parsed DDL statements and builds the schema.Table
// records the generator renders.
package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ridoystarlord/sqlamodel/ddl"
	"github.com/ridoystarlord/sqlamodel/schema"
)

// UnsupportedTypeError reports a column type that has no SQLAlchemy mapping.
type UnsupportedTypeError struct {
	TypeName string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported column type: %s", e.TypeName)
}

var annotationRe = regexp.MustCompile(`^--\s*(.+)`)

// Annotation returns the text of a leading -- comment line, or "" when the
// input does not start with one. It becomes the class docstring.
func Annotation(sql string) string {
	line := strings.TrimSpace(sql)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	m := annotationRe.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// Table folds every statement into a single Table record. The first CREATE
// TABLE decides the table name; later CREATE TABLE statements merge their
// columns and constraints into the same record, and CREATE INDEX statements
// append indexes in order.
func Table(stmts []ddl.Statement, annotation string) (*schema.Table, error) {
	table := &schema.Table{Annotation: annotation}
	seenSets := map[string]bool{}
	seenNames := map[string]bool{}
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ddl.CreateTable:
			if err := mergeCreateTable(table, s, seenSets, seenNames); err != nil {
				return nil, err
			}
		case *ddl.CreateIndex:
			table.Indexes = append(table.Indexes, schema.TableIndex{
				Kind:    schema.IndexNormal,
				Name:    s.Name,
				Columns: dedupeColumns(s.Columns),
			})
		}
	}
	if table.Name == "" {
		return nil, fmt.Errorf("no CREATE TABLE statement found")
	}
	return table, nil
}

// Tables groups statements by table name, first declaration first, and
// extracts one Table per group. Indexes follow the table they name; an
// index on an unknown table joins the first group. The annotation goes to
// the first table only.
func Tables(stmts []ddl.Statement, annotation string) ([]*schema.Table, error) {
	type group struct {
		name  string
		stmts []ddl.Statement
	}
	var groups []*group
	byName := map[string]*group{}
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ddl.CreateTable:
			g, ok := byName[s.Name]
			if !ok {
				g = &group{name: s.Name}
				byName[s.Name] = g
				groups = append(groups, g)
			}
			g.stmts = append(g.stmts, stmt)
		case *ddl.CreateIndex:
			g, ok := byName[s.Table]
			if !ok {
				if len(groups) == 0 {
					continue
				}
				g = groups[0]
			}
			g.stmts = append(g.stmts, stmt)
		}
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("no CREATE TABLE statement found")
	}
	tables := make([]*schema.Table, 0, len(groups))
	for i, g := range groups {
		note := ""
		if i == 0 {
			note = annotation
		}
		table, err := Table(g.stmts, note)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func mergeCreateTable(table *schema.Table, stmt *ddl.CreateTable, seenSets, seenNames map[string]bool) error {
	if table.Name == "" {
		table.Name = stmt.Name
	}
	for _, col := range stmt.Columns {
		// Untyped columns (sqlite allows them) cannot be mapped.
		if col.Type.Name == "" {
			continue
		}
		mapped, err := MapType(col.Type)
		if err != nil {
			return err
		}
		column := schema.Column{
			Name:    col.Name,
			Type:    mapped,
			Comment: strings.Join(col.Comments, ","),
		}
		for _, c := range col.Constraints {
			switch c.Kind {
			case ddl.NotNull:
				column.NotNull = true
			case ddl.Null:
				column.NotNull = false
			case ddl.PrimaryKey:
				column.Primary = true
			case ddl.Unique:
				column.Unique = true
			case ddl.Default:
				column.Default = renderDefault(c.Expr)
			case ddl.Comment:
				column.Comment = c.Text
			}
		}
		table.Columns = append(table.Columns, column)
	}
	for _, tc := range stmt.Constraints {
		if tc.Kind != ddl.Unique || len(tc.Columns) == 0 {
			continue
		}
		cols := dedupeColumns(tc.Columns)
		name := tc.Name
		if name == "" {
			name = "uk_" + strings.Join(cols, "_")
		}
		// Constraints are deduplicated both by their column set, order
		// independent, and by the name they would be emitted under.
		setKey := columnSetKey(cols)
		if seenSets[setKey] || seenNames[name] {
			continue
		}
		seenSets[setKey] = true
		seenNames[name] = true
		table.Constraints = append(table.Constraints, schema.TableConstraint{
			Kind:    schema.ConstraintUnique,
			Name:    name,
			Columns: cols,
		})
	}
	return nil
}

// renderDefault turns a classified default expression into the text placed
// after "default=". Function defaults map to a small set of sentinels;
// anything else function-shaped is dropped.
func renderDefault(expr *ddl.DefaultExpr) *string {
	if expr == nil {
		return nil
	}
	switch expr.Kind {
	case ddl.BoolDefault:
		v := "False"
		if expr.Text == "true" {
			v = "True"
		}
		return &v
	case ddl.FuncDefault:
		switch expr.Text {
		case "extract", "unixepoch":
			v := "time.time"
			return &v
		case "now", "current_timestamp":
			v := "func.now()"
			return &v
		}
		return nil
	default:
		v := expr.Text
		return &v
	}
}

func columnSetKey(cols []string) string {
	sorted := make([]string, len(cols))
	copy(sorted, cols)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}

func dedupeColumns(cols []string) []string {
	seen := make(map[string]bool, len(cols))
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
