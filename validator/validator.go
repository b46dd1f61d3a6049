package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ridoystarlord/sqlamodel/ddl"
	"github.com/ridoystarlord/sqlamodel/extract"
)

// ValidationError represents one finding with enough context to locate it
type ValidationError struct {
	Type     string `json:"type"`
	Table    string `json:"table,omitempty"`
	Column   string `json:"column,omitempty"`
	Index    string `json:"index,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // "error", "warning", "info"
}

// ValidationResult contains all findings for one validation run
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors"`
	Warnings []ValidationError `json:"warnings"`
	Info     []ValidationError `json:"info"`
}

func (r *ValidationResult) addError(e ValidationError) {
	e.Severity = "error"
	r.Errors = append(r.Errors, e)
	r.Valid = false
}

func (r *ValidationResult) addWarning(e ValidationError) {
	e.Severity = "warning"
	r.Warnings = append(r.Warnings, e)
}

func (r *ValidationResult) addInfo(e ValidationError) {
	e.Severity = "info"
	r.Info = append(r.Info, e)
}

// SchemaValidator checks parsed DDL statements before conversion
type SchemaValidator struct {
	pool *pgxpool.Pool
}

// NewSchemaValidator creates a new schema validator; pool may be nil for
// offline-only validation
func NewSchemaValidator(pool *pgxpool.Pool) *SchemaValidator {
	return &SchemaValidator{pool: pool}
}

// Validate runs every offline rule against the statements, plus existence
// checks against the live database when a pool is available
func (v *SchemaValidator) Validate(ctx context.Context, stmts []ddl.Statement) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
		Info:     []ValidationError{},
	}

	var tables []*ddl.CreateTable
	var indexes []*ddl.CreateIndex
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ddl.CreateTable:
			tables = append(tables, s)
		case *ddl.CreateIndex:
			indexes = append(indexes, s)
		}
	}

	if len(tables) == 0 {
		result.addError(ValidationError{
			Type:    "no_tables",
			Message: "no CREATE TABLE statement found",
		})
	}

	for _, t := range tables {
		v.validateTableName(t.Name, result)
		v.validateColumns(t, result)
		v.validateConstraints(t, result)
	}
	v.validateIndexes(tables, indexes, result)

	if v.pool != nil {
		v.validateExisting(ctx, tables, result)
	}

	return result
}

// validateTableName checks PostgreSQL identifier rules and reserved words
func (v *SchemaValidator) validateTableName(name string, result *ValidationResult) {
	if name == "" {
		result.addError(ValidationError{
			Type:    "table_name",
			Message: "table name cannot be empty",
		})
		return
	}

	if len(name) > 63 {
		result.addError(ValidationError{
			Type:    "table_name",
			Table:   name,
			Message: fmt.Sprintf("table name '%s' is too long (max 63 characters)", name),
		})
	}

	if !isValidIdentifier(name) {
		result.addError(ValidationError{
			Type:    "table_name",
			Table:   name,
			Message: fmt.Sprintf("table name '%s' is not a valid identifier", name),
		})
	}

	if reservedNames[strings.ToLower(name)] {
		result.addWarning(ValidationError{
			Type:    "reserved_name",
			Table:   name,
			Message: fmt.Sprintf("table name '%s' is a reserved SQL keyword", name),
		})
	}
}

// validateColumns checks every column of one table
func (v *SchemaValidator) validateColumns(t *ddl.CreateTable, result *ValidationResult) {
	if len(t.Columns) == 0 {
		result.addError(ValidationError{
			Type:    "no_columns",
			Table:   t.Name,
			Message: fmt.Sprintf("table '%s' must have at least one column", t.Name),
		})
		return
	}

	seen := map[string]bool{}
	hasColumnPK := false
	for _, col := range t.Columns {
		lower := strings.ToLower(col.Name)
		if seen[lower] {
			result.addError(ValidationError{
				Type:    "duplicate_column",
				Table:   t.Name,
				Column:  col.Name,
				Message: fmt.Sprintf("duplicate column name '%s' in table '%s'", col.Name, t.Name),
			})
			continue
		}
		seen[lower] = true

		// The rendered line is "{name} = Column(...)", so the column
		// name has to survive as a Python attribute.
		if !isValidIdentifier(col.Name) {
			result.addError(ValidationError{
				Type:    "column_name",
				Table:   t.Name,
				Column:  col.Name,
				Message: fmt.Sprintf("column name '%s' is not a valid identifier", col.Name),
			})
		}

		if col.Type.Name == "" {
			result.addWarning(ValidationError{
				Type:    "column_type",
				Table:   t.Name,
				Column:  col.Name,
				Message: fmt.Sprintf("column '%s' has no data type and is skipped", col.Name),
			})
			continue
		}
		if _, err := extract.MapType(col.Type); err != nil {
			result.addError(ValidationError{
				Type:    "column_type",
				Table:   t.Name,
				Column:  col.Name,
				Message: err.Error(),
			})
		}

		for _, c := range col.Constraints {
			if c.Kind == ddl.PrimaryKey {
				hasColumnPK = true
			}
		}
	}

	if !hasColumnPK {
		message := fmt.Sprintf("table '%s' has no primary key defined", t.Name)
		for _, tc := range t.Constraints {
			if tc.Kind == ddl.PrimaryKey {
				message = fmt.Sprintf("table '%s' declares a table-level primary key, which is not carried into the model", t.Name)
				break
			}
		}
		result.addWarning(ValidationError{
			Type:    "no_primary_key",
			Table:   t.Name,
			Message: message,
		})
	}
}

// validateConstraints checks table-level unique constraints
func (v *SchemaValidator) validateConstraints(t *ddl.CreateTable, result *ValidationResult) {
	known := map[string]bool{}
	for _, col := range t.Columns {
		known[col.Name] = true
	}

	seenNames := map[string]bool{}
	for _, tc := range t.Constraints {
		if tc.Kind != ddl.Unique {
			continue
		}

		for _, col := range tc.Columns {
			if !known[col] {
				result.addError(ValidationError{
					Type:    "constraint_column",
					Table:   t.Name,
					Column:  col,
					Message: fmt.Sprintf("unique constraint references unknown column '%s'", col),
				})
			}
		}

		name := tc.Name
		if name == "" {
			name = "uk_" + strings.Join(tc.Columns, "_")
		}
		if seenNames[name] {
			result.addWarning(ValidationError{
				Type:    "duplicate_constraint",
				Table:   t.Name,
				Message: fmt.Sprintf("duplicate constraint name '%s': later ones are dropped on conversion", name),
			})
			continue
		}
		seenNames[name] = true
	}
}

// validateIndexes checks CREATE INDEX statements against the tables in the
// same input
func (v *SchemaValidator) validateIndexes(tables []*ddl.CreateTable, indexes []*ddl.CreateIndex, result *ValidationResult) {
	columnsByTable := map[string]map[string]bool{}
	for _, t := range tables {
		cols := map[string]bool{}
		for _, c := range t.Columns {
			cols[c.Name] = true
		}
		columnsByTable[t.Name] = cols
	}

	for _, ix := range indexes {
		cols, ok := columnsByTable[ix.Table]
		if !ok {
			result.addWarning(ValidationError{
				Type:    "index_table",
				Index:   ix.Name,
				Message: fmt.Sprintf("index '%s' references unknown table '%s'", ix.Name, ix.Table),
			})
			continue
		}
		for _, col := range ix.Columns {
			if !cols[col] {
				result.addError(ValidationError{
					Type:    "index_column",
					Table:   ix.Table,
					Index:   ix.Name,
					Column:  col,
					Message: fmt.Sprintf("index '%s' references unknown column '%s'", ix.Name, col),
				})
			}
		}
	}
}

// validateExisting reports tables that already exist in the database
func (v *SchemaValidator) validateExisting(ctx context.Context, tables []*ddl.CreateTable, result *ValidationResult) {
	existsQuery := `
	SELECT EXISTS (
		SELECT 1 FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = $1
	);
	`

	for _, t := range tables {
		var exists bool
		if err := v.pool.QueryRow(ctx, existsQuery, strings.ToLower(t.Name)).Scan(&exists); err != nil {
			result.addWarning(ValidationError{
				Type:    "database",
				Table:   t.Name,
				Message: fmt.Sprintf("could not check existing tables: %v", err),
			})
			return
		}
		if exists {
			result.addInfo(ValidationError{
				Type:    "table_exists",
				Table:   t.Name,
				Message: fmt.Sprintf("table '%s' already exists in database", t.Name),
			})
		}
	}
}

var reservedNames = map[string]bool{
	"user": true, "order": true, "group": true, "table": true,
	"index": true, "select": true, "insert": true, "update": true,
	"delete": true, "where": true, "from": true, "join": true,
}

func isValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
