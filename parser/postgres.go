package parser

import (
	"fmt"
	"strconv"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/ridoystarlord/sqlamodel/ddl"
)

func parsePostgres(sql string) ([]ddl.Statement, error) {
	result, err := pg_query.Parse(sql)
	if err != nil {
		return nil, &ParseError{Dialect: Postgres, Err: err}
	}
	stmts := make([]ddl.Statement, 0, len(result.Stmts))
	for _, raw := range result.Stmts {
		node := raw.GetStmt()
		switch n := node.GetNode().(type) {
		case *pg_query.Node_CreateStmt:
			stmts = append(stmts, pgCreateTable(n.CreateStmt))
		case *pg_query.Node_IndexStmt:
			stmts = append(stmts, pgCreateIndex(n.IndexStmt))
		default:
			return nil, &ParseError{
				Dialect: Postgres,
				Err:     fmt.Errorf("unsupported statement kind %s: only CREATE TABLE and CREATE INDEX are converted", pgStmtKind(node)),
			}
		}
	}
	if err := attachInlineComments(sql, stmts); err != nil {
		return nil, err
	}
	return stmts, nil
}

func pgStmtKind(node *pg_query.Node) string {
	if node == nil || node.GetNode() == nil {
		return "empty"
	}
	name := fmt.Sprintf("%T", node.GetNode())
	name = strings.TrimPrefix(name, "*pg_query.Node_")
	return strings.TrimSuffix(name, "Stmt")
}

func pgCreateTable(stmt *pg_query.CreateStmt) *ddl.CreateTable {
	table := &ddl.CreateTable{
		Name:        stmt.GetRelation().GetRelname(),
		IfNotExists: stmt.GetIfNotExists(),
	}
	for _, elt := range stmt.GetTableElts() {
		switch e := elt.GetNode().(type) {
		case *pg_query.Node_ColumnDef:
			table.Columns = append(table.Columns, pgColumn(e.ColumnDef))
		case *pg_query.Node_Constraint:
			if tc, ok := pgTableConstraint(e.Constraint); ok {
				table.Constraints = append(table.Constraints, tc)
			}
		}
	}
	return table
}

func pgColumn(col *pg_query.ColumnDef) ddl.ColumnDef {
	out := ddl.ColumnDef{
		Name:     col.GetColname(),
		Type:     pgDataType(col.GetTypeName()),
		Location: int(col.GetLocation()),
	}
	for _, c := range col.GetConstraints() {
		cons, ok := c.GetNode().(*pg_query.Node_Constraint)
		if !ok {
			continue
		}
		switch cons.Constraint.GetContype() {
		case pg_query.ConstrType_CONSTR_NOTNULL:
			out.Constraints = append(out.Constraints, ddl.ColumnConstraint{Kind: ddl.NotNull})
		case pg_query.ConstrType_CONSTR_NULL:
			out.Constraints = append(out.Constraints, ddl.ColumnConstraint{Kind: ddl.Null})
		case pg_query.ConstrType_CONSTR_PRIMARY:
			out.Constraints = append(out.Constraints, ddl.ColumnConstraint{Kind: ddl.PrimaryKey})
		case pg_query.ConstrType_CONSTR_UNIQUE:
			out.Constraints = append(out.Constraints, ddl.ColumnConstraint{Kind: ddl.Unique})
		case pg_query.ConstrType_CONSTR_DEFAULT:
			if expr := pgDefaultExpr(cons.Constraint.GetRawExpr()); expr != nil {
				out.Constraints = append(out.Constraints, ddl.ColumnConstraint{Kind: ddl.Default, Expr: expr})
			}
		}
	}
	return out
}

// pgDataType keeps the last segment of the (possibly pg_catalog-qualified)
// type name. The raw parser normalizes spellings, so INT arrives as int4,
// BOOLEAN as bool, TEXT as text.
func pgDataType(tn *pg_query.TypeName) ddl.DataType {
	if tn == nil {
		return ddl.DataType{}
	}
	dt := ddl.DataType{Name: pgNameString(tn.GetNames())}
	for _, mod := range tn.GetTypmods() {
		if c, ok := mod.GetNode().(*pg_query.Node_AConst); ok {
			if text, ok := pgConstText(c.AConst); ok {
				dt.Args = append(dt.Args, text)
			}
		}
	}
	if len(tn.GetArrayBounds()) > 0 {
		elem := dt
		return ddl.DataType{Name: "ARRAY", Elem: &elem}
	}
	return dt
}

func pgNameString(names []*pg_query.Node) string {
	var last string
	for _, n := range names {
		if s, ok := n.GetNode().(*pg_query.Node_String_); ok {
			if v := s.String_.GetSval(); v != "" && v != "pg_catalog" {
				last = v
			}
		}
	}
	return strings.ToUpper(last)
}

func pgConstText(c *pg_query.A_Const) (string, bool) {
	switch v := c.GetVal().(type) {
	case *pg_query.A_Const_Ival:
		return strconv.Itoa(int(v.Ival.GetIval())), true
	case *pg_query.A_Const_Fval:
		return v.Fval.GetFval(), true
	case *pg_query.A_Const_Sval:
		return v.Sval.GetSval(), true
	case *pg_query.A_Const_Boolval:
		if v.Boolval.GetBoolval() {
			return "true", true
		}
		return "false", true
	}
	return "", false
}

// pgDefaultExpr classifies a DEFAULT expression. Casts unwrap first, so
// forms like (EXTRACT(epoch FROM CURRENT_TIMESTAMP))::integer classify by
// the inner call.
func pgDefaultExpr(node *pg_query.Node) *ddl.DefaultExpr {
	node = pgUnwrapCasts(node)
	if node == nil {
		return nil
	}
	switch n := node.GetNode().(type) {
	case *pg_query.Node_AConst:
		if n.AConst.GetIsnull() {
			return nil
		}
		if _, ok := n.AConst.GetVal().(*pg_query.A_Const_Boolval); ok {
			text, _ := pgConstText(n.AConst)
			return &ddl.DefaultExpr{Kind: ddl.BoolDefault, Text: text}
		}
		if text, ok := pgConstText(n.AConst); ok {
			return &ddl.DefaultExpr{Kind: ddl.LiteralDefault, Text: text}
		}
	case *pg_query.Node_FuncCall:
		if name := strings.ToLower(pgFuncName(n.FuncCall)); name != "" {
			return &ddl.DefaultExpr{Kind: ddl.FuncDefault, Text: name}
		}
	}
	return nil
}

func pgUnwrapCasts(node *pg_query.Node) *pg_query.Node {
	for node != nil {
		cast, ok := node.GetNode().(*pg_query.Node_TypeCast)
		if !ok {
			return node
		}
		node = cast.TypeCast.GetArg()
	}
	return node
}

func pgFuncName(call *pg_query.FuncCall) string {
	var last string
	for _, n := range call.GetFuncname() {
		if s, ok := n.GetNode().(*pg_query.Node_String_); ok {
			if v := s.String_.GetSval(); v != "" && v != "pg_catalog" {
				last = v
			}
		}
	}
	return last
}

func pgTableConstraint(cons *pg_query.Constraint) (ddl.TableConstraint, bool) {
	var kind ddl.ConstraintKind
	switch cons.GetContype() {
	case pg_query.ConstrType_CONSTR_PRIMARY:
		kind = ddl.PrimaryKey
	case pg_query.ConstrType_CONSTR_UNIQUE:
		kind = ddl.Unique
	default:
		return ddl.TableConstraint{}, false
	}
	tc := ddl.TableConstraint{Kind: kind, Name: cons.GetConname()}
	for _, k := range cons.GetKeys() {
		if s, ok := k.GetNode().(*pg_query.Node_String_); ok {
			tc.Columns = append(tc.Columns, s.String_.GetSval())
		}
	}
	return tc, true
}

func pgCreateIndex(stmt *pg_query.IndexStmt) *ddl.CreateIndex {
	idx := &ddl.CreateIndex{
		Name:   stmt.GetIdxname(),
		Table:  stmt.GetRelation().GetRelname(),
		Unique: stmt.GetUnique(),
	}
	for _, p := range stmt.GetIndexParams() {
		elem, ok := p.GetNode().(*pg_query.Node_IndexElem)
		if !ok {
			continue
		}
		if name := elem.IndexElem.GetName(); name != "" {
			idx.Columns = append(idx.Columns, name)
			continue
		}
		idx.Columns = append(idx.Columns, pgColumnRefs(elem.IndexElem.GetExpr())...)
	}
	return idx
}

// pgColumnRefs walks an index expression and lists the column names it
// references, in source order.
func pgColumnRefs(node *pg_query.Node) []string {
	if node == nil {
		return nil
	}
	var cols []string
	switch n := node.GetNode().(type) {
	case *pg_query.Node_ColumnRef:
		for _, f := range n.ColumnRef.GetFields() {
			if s, ok := f.GetNode().(*pg_query.Node_String_); ok {
				cols = append(cols, s.String_.GetSval())
			}
		}
	case *pg_query.Node_FuncCall:
		for _, a := range n.FuncCall.GetArgs() {
			cols = append(cols, pgColumnRefs(a)...)
		}
	case *pg_query.Node_TypeCast:
		cols = append(cols, pgColumnRefs(n.TypeCast.GetArg())...)
	case *pg_query.Node_AExpr:
		cols = append(cols, pgColumnRefs(n.AExpr.GetLexpr())...)
		cols = append(cols, pgColumnRefs(n.AExpr.GetRexpr())...)
	}
	return cols
}
