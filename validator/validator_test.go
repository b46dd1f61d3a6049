package validator

import (
	"context"
	"strings"
	"testing"

	"github.com/ridoystarlord/sqlamodel/ddl"
)

func intColumn(name string, constraints ...ddl.ColumnConstraint) ddl.ColumnDef {
	return ddl.ColumnDef{
		Name:        name,
		Type:        ddl.DataType{Name: "INT"},
		Constraints: constraints,
		Location:    -1,
	}
}

func findingTypes(findings []ValidationError) []string {
	types := make([]string, len(findings))
	for i, f := range findings {
		types[i] = f.Type
	}
	return types
}

// TestValidateFindings runs a schema with several problems at once and
// checks each rule fires exactly once, offline.
func TestValidateFindings(t *testing.T) {
	t.Parallel()

	stmts := []ddl.Statement{
		&ddl.CreateTable{
			Name: "user",
			Columns: []ddl.ColumnDef{
				intColumn("id"),
				intColumn("ID"),
				{Name: "balance", Type: ddl.DataType{Name: "MONEY"}, Location: -1},
			},
			Constraints: []ddl.TableConstraint{
				{Kind: ddl.Unique, Name: "uk_ghost", Columns: []string{"ghost"}},
			},
		},
		&ddl.CreateIndex{Name: "idx_orphan", Table: "missing", Columns: []string{"id"}},
	}

	result := NewSchemaValidator(nil).Validate(context.Background(), stmts)

	if result.Valid {
		t.Error("Valid = true, want false")
	}
	wantErrors := []string{"duplicate_column", "column_type", "constraint_column"}
	if got := findingTypes(result.Errors); strings.Join(got, ",") != strings.Join(wantErrors, ",") {
		t.Fatalf("error types = %v, want %v", got, wantErrors)
	}
	wantWarnings := []string{"reserved_name", "no_primary_key", "index_table"}
	if got := findingTypes(result.Warnings); strings.Join(got, ",") != strings.Join(wantWarnings, ",") {
		t.Errorf("warning types = %v, want %v", got, wantWarnings)
	}
	if len(result.Info) != 0 {
		t.Errorf("info = %#v, want none offline", result.Info)
	}

	for _, e := range result.Errors {
		if e.Severity != "error" {
			t.Errorf("error %q severity = %q, want error", e.Type, e.Severity)
		}
	}
	if got := result.Errors[1].Message; got != "unsupported column type: MONEY" {
		t.Errorf("column_type message = %q, want unsupported column type: MONEY", got)
	}
	if got := result.Errors[2].Column; got != "ghost" {
		t.Errorf("constraint_column column = %q, want ghost", got)
	}
}

// TestValidateCleanSchema checks a well-formed schema passes with no
// findings at all.
func TestValidateCleanSchema(t *testing.T) {
	t.Parallel()

	stmts := []ddl.Statement{
		&ddl.CreateTable{
			Name: "role",
			Columns: []ddl.ColumnDef{
				intColumn("id", ddl.ColumnConstraint{Kind: ddl.PrimaryKey}),
				intColumn("org_id", ddl.ColumnConstraint{Kind: ddl.NotNull}),
			},
			Constraints: []ddl.TableConstraint{
				{Kind: ddl.Unique, Name: "uk_role_org_id", Columns: []string{"org_id"}},
			},
		},
		&ddl.CreateIndex{Name: "idx_role_org_id", Table: "role", Columns: []string{"org_id"}},
	}

	result := NewSchemaValidator(nil).Validate(context.Background(), stmts)

	if !result.Valid {
		t.Errorf("Valid = false, errors = %#v", result.Errors)
	}
	if len(result.Errors)+len(result.Warnings)+len(result.Info) != 0 {
		t.Errorf("findings = %#v / %#v / %#v, want none", result.Errors, result.Warnings, result.Info)
	}
}

// TestValidateTableNames exercises the identifier rules one name at a time.
func TestValidateTableNames(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name         string
		wantErrors   []string
		wantWarnings []string
	}{
		{"users", nil, nil},
		{"", []string{"table_name"}, nil},
		{strings.Repeat("a", 64), []string{"table_name"}, nil},
		{"my-table", []string{"table_name"}, nil},
		{"9lives", []string{"table_name"}, nil},
		{"ORDER", nil, []string{"reserved_name"}},
	}
	for _, c := range cases {
		stmts := []ddl.Statement{
			&ddl.CreateTable{
				Name:    c.name,
				Columns: []ddl.ColumnDef{intColumn("id", ddl.ColumnConstraint{Kind: ddl.PrimaryKey})},
			},
		}
		result := NewSchemaValidator(nil).Validate(context.Background(), stmts)
		if got := findingTypes(result.Errors); strings.Join(got, ",") != strings.Join(c.wantErrors, ",") {
			t.Errorf("name %q error types = %v, want %v", c.name, got, c.wantErrors)
		}
		if got := findingTypes(result.Warnings); strings.Join(got, ",") != strings.Join(c.wantWarnings, ",") {
			t.Errorf("name %q warning types = %v, want %v", c.name, got, c.wantWarnings)
		}
	}
}

// TestValidateStructureRules covers the table and column shape rules.
func TestValidateStructureRules(t *testing.T) {
	t.Parallel()

	v := NewSchemaValidator(nil)
	ctx := context.Background()

	result := v.Validate(ctx, nil)
	if result.Valid || len(result.Errors) != 1 || result.Errors[0].Type != "no_tables" {
		t.Errorf("empty input = %#v, want single no_tables error", result.Errors)
	}

	result = v.Validate(ctx, []ddl.Statement{&ddl.CreateTable{Name: "empty_table"}})
	if len(result.Errors) != 1 || result.Errors[0].Type != "no_columns" {
		t.Errorf("empty table errors = %#v, want single no_columns", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("empty table warnings = %#v, want none", result.Warnings)
	}

	result = v.Validate(ctx, []ddl.Statement{
		&ddl.CreateTable{Name: "notes", Columns: []ddl.ColumnDef{{Name: "freeform", Location: -1}}},
	})
	if len(result.Errors) != 0 {
		t.Errorf("untyped column errors = %#v, want none", result.Errors)
	}
	if got := findingTypes(result.Warnings); strings.Join(got, ",") != "column_type,no_primary_key" {
		t.Errorf("untyped column warnings = %v, want column_type then no_primary_key", got)
	}
}

// TestValidatePrimaryKeyWarnings distinguishes a missing primary key from a
// table-level one the conversion drops.
func TestValidatePrimaryKeyWarnings(t *testing.T) {
	t.Parallel()

	v := NewSchemaValidator(nil)
	ctx := context.Background()

	result := v.Validate(ctx, []ddl.Statement{
		&ddl.CreateTable{Name: "plain", Columns: []ddl.ColumnDef{intColumn("id")}},
	})
	if len(result.Warnings) != 1 || result.Warnings[0].Message != "table 'plain' has no primary key defined" {
		t.Errorf("warnings = %#v, want has no primary key defined", result.Warnings)
	}

	result = v.Validate(ctx, []ddl.Statement{
		&ddl.CreateTable{
			Name:        "tiered",
			Columns:     []ddl.ColumnDef{intColumn("id")},
			Constraints: []ddl.TableConstraint{{Kind: ddl.PrimaryKey, Name: "pk_tiered", Columns: []string{"id"}}},
		},
	})
	want := "table 'tiered' declares a table-level primary key, which is not carried into the model"
	if len(result.Warnings) != 1 || result.Warnings[0].Message != want {
		t.Errorf("warnings = %#v, want %q", result.Warnings, want)
	}
}

// TestValidateConstraintAndIndexRules covers duplicate constraint names and
// index column checks.
func TestValidateConstraintAndIndexRules(t *testing.T) {
	t.Parallel()

	v := NewSchemaValidator(nil)
	ctx := context.Background()

	result := v.Validate(ctx, []ddl.Statement{
		&ddl.CreateTable{
			Name: "role",
			Columns: []ddl.ColumnDef{
				intColumn("id", ddl.ColumnConstraint{Kind: ddl.PrimaryKey}),
				intColumn("a"), intColumn("b"),
			},
			Constraints: []ddl.TableConstraint{
				{Kind: ddl.Unique, Name: "uk_role", Columns: []string{"a"}},
				{Kind: ddl.Unique, Name: "uk_role", Columns: []string{"b"}},
				{Kind: ddl.Unique, Columns: []string{"a", "b"}},
				{Kind: ddl.Unique, Columns: []string{"a", "b"}},
			},
		},
	})
	if got := findingTypes(result.Warnings); strings.Join(got, ",") != "duplicate_constraint,duplicate_constraint" {
		t.Fatalf("warning types = %v, want two duplicate_constraint", got)
	}
	if got := result.Warnings[1].Message; !strings.Contains(got, "'uk_a_b'") {
		t.Errorf("synthesized duplicate message = %q, want it to name uk_a_b", got)
	}

	result = v.Validate(ctx, []ddl.Statement{
		&ddl.CreateTable{
			Name:    "role",
			Columns: []ddl.ColumnDef{intColumn("id", ddl.ColumnConstraint{Kind: ddl.PrimaryKey})},
		},
		&ddl.CreateIndex{Name: "idx_role_ghost", Table: "role", Columns: []string{"ghost"}},
	})
	if got := findingTypes(result.Errors); strings.Join(got, ",") != "index_column" {
		t.Fatalf("error types = %v, want index_column", got)
	}
	if result.Errors[0].Index != "idx_role_ghost" || result.Errors[0].Column != "ghost" {
		t.Errorf("index_column finding = %#v, want idx_role_ghost / ghost", result.Errors[0])
	}
}
