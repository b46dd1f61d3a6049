package schema

// Table is the extracted view of one model class: the table identity plus
// the columns, unique constraints, and indexes that survive extraction.
// Annotation becomes the class docstring; VerboseName, when set, adds a
// second docstring line.
type Table struct {
	Annotation  string
	Name        string
	VerboseName string
	Columns     []Column
	Constraints []TableConstraint
	Indexes     []TableIndex
}

// Column carries the rendered view of one column. Type is the mapped
// SQLAlchemy type expression ("Integer", "String(50)", "ARRAY(Text)"),
// Default the rendered default-value expression. A nil Default means no
// default argument is emitted; columns are nullable unless NotNull is set.
type Column struct {
	Name    string
	Type    string
	Primary bool
	NotNull bool
	Unique  bool
	Default *string
	Comment string
}

const (
	// ConstraintUnique is the only table constraint kind extraction keeps.
	ConstraintUnique = "unique"
	// IndexNormal is the kind recorded for CREATE INDEX statements.
	IndexNormal = "normal"
)

// TableConstraint is a table-level unique constraint.
type TableConstraint struct {
	Kind    string
	Name    string
	Columns []string
}

// TableIndex is a secondary index.
type TableIndex struct {
	Kind    string
	Name    string
	Columns []string
}

// HasTableArgs reports whether the rendered class needs a __table_args__
// block.
func (t *Table) HasTableArgs() bool {
	return len(t.Constraints) > 0 || len(t.Indexes) > 0
}
