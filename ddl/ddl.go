// Package ddl defines the normalized statement tree the dialect front
// ends produce and the extractor consumes. Only the two creation
// statement kinds exist here; everything else is rejected during parsing.
package ddl

import "strings"

// Statement is one parsed DDL statement.
type Statement interface {
	stmt()
}

// CreateTable is a CREATE TABLE statement reduced to the parts extraction
// cares about.
type CreateTable struct {
	Name        string
	IfNotExists bool
	Columns     []ColumnDef
	Constraints []TableConstraint
}

// CreateIndex is a CREATE INDEX statement.
type CreateIndex struct {
	Name    string
	Table   string
	Unique  bool
	Columns []string
}

func (*CreateTable) stmt() {}
func (*CreateIndex) stmt() {}

// ColumnDef is one column definition. Comments holds inline source
// comments attached to the definition, in source order. Location is the
// byte offset of the definition in the input, -1 when the dialect cannot
// provide one.
type ColumnDef struct {
	Name        string
	Type        DataType
	Constraints []ColumnConstraint
	Comments    []string
	Location    int
}

// DataType is a raw SQL type reference: the uppercase name as written (or
// as the dialect normalizes it), optional arguments, and the element type
// for arrays (Name "ARRAY").
type DataType struct {
	Name string
	Args []string
	Elem *DataType
}

// ConstraintKind enumerates the column and table constraint kinds the
// tree keeps.
type ConstraintKind int

const (
	NotNull ConstraintKind = iota
	Null
	PrimaryKey
	Unique
	Default
	Comment
)

// ColumnConstraint is one column-level constraint clause. Expr is set for
// Default, Text for Comment.
type ColumnConstraint struct {
	Kind ConstraintKind
	Expr *DefaultExpr
	Text string
}

// TableConstraint is a table-level PRIMARY KEY or UNIQUE constraint. An
// empty Name means none was declared (or none survived the dialect's
// round-trip) and one is synthesized downstream.
type TableConstraint struct {
	Kind    ConstraintKind
	Name    string
	Columns []string
}

// DefaultKind classifies a DEFAULT expression after casts and enclosing
// parentheses are stripped.
type DefaultKind int

const (
	LiteralDefault DefaultKind = iota
	BoolDefault
	FuncDefault
)

// DefaultExpr is a classified DEFAULT clause: literal text for literals,
// "true"/"false" for booleans, the lowercased function name for calls.
type DefaultExpr struct {
	Kind DefaultKind
	Text string
}

// ParseDeclaredType splits a declared type string ("varchar(255)",
// "NUMERIC(10, 2)", "double precision", "integer[]") into a DataType.
// Multi-word spellings collapse to the name the type map knows; anything
// unrecognized keeps its first word and fails later with an
// unsupported-type error naming it.
func ParseDeclaredType(s string) DataType {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "[]") {
		elem := ParseDeclaredType(strings.TrimSuffix(s, "[]"))
		return DataType{Name: "ARRAY", Elem: &elem}
	}
	var args []string
	if open := strings.IndexByte(s, '('); open >= 0 {
		inner := s[open+1:]
		if end := strings.LastIndexByte(inner, ')'); end >= 0 {
			inner = inner[:end]
		}
		for _, a := range strings.Split(inner, ",") {
			if a = strings.TrimSpace(a); a != "" {
				args = append(args, a)
			}
		}
		s = s[:open]
	}
	name := strings.ToUpper(strings.Join(strings.Fields(s), " "))
	switch name {
	case "CHARACTER VARYING":
		name = "VARCHAR"
	case "DOUBLE PRECISION":
		name = "DOUBLE"
	case "CHARACTER":
		name = "CHAR"
	}
	if i := strings.IndexByte(name, ' '); i >= 0 {
		name = name[:i]
	}
	return DataType{Name: name, Args: args}
}

// ClassifyDefaultText classifies a DEFAULT expression that only exists as
// source text (PRAGMA output, information_schema column_default).
// Enclosing parentheses and top-level casts are stripped first, matching
// how the parsed dialects unwrap before classifying.
func ClassifyDefaultText(raw string) *DefaultExpr {
	s := strings.TrimSpace(raw)
	for {
		for len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
		if i := castIndex(s); i >= 0 {
			s = strings.TrimSpace(s[:i])
			continue
		}
		break
	}
	if s == "" {
		return nil
	}
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		inner := strings.ReplaceAll(s[1:len(s)-1], "''", "'")
		return &DefaultExpr{Kind: LiteralDefault, Text: inner}
	}
	switch strings.ToUpper(s) {
	case "NULL":
		return nil
	case "TRUE":
		return &DefaultExpr{Kind: BoolDefault, Text: "true"}
	case "FALSE":
		return &DefaultExpr{Kind: BoolDefault, Text: "false"}
	case "CURRENT_TIMESTAMP", "CURRENT_TIME", "CURRENT_DATE":
		return &DefaultExpr{Kind: FuncDefault, Text: strings.ToLower(s)}
	}
	if open := strings.IndexByte(s, '('); open > 0 && strings.HasSuffix(s, ")") {
		name := strings.TrimSpace(s[:open])
		if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
			name = name[dot+1:]
		}
		if isIdentText(name) {
			return &DefaultExpr{Kind: FuncDefault, Text: strings.ToLower(name)}
		}
	}
	return &DefaultExpr{Kind: LiteralDefault, Text: s}
}

// castIndex finds a top-level "::" cast marker, ignoring ones inside
// parentheses or string literals.
func castIndex(s string) int {
	depth := 0
	inStr := false
	for i := 0; i+1 < len(s); i++ {
		switch {
		case inStr:
			if s[i] == '\'' {
				inStr = false
			}
		case s[i] == '\'':
			inStr = true
		case s[i] == '(':
			depth++
		case s[i] == ')':
			depth--
		case depth == 0 && s[i] == ':' && s[i+1] == ':':
			return i
		}
	}
	return -1
}

func isIdentText(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		ok := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
		if !ok {
			return false
		}
	}
	return true
}
