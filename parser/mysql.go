package parser

import (
	"fmt"
	"strconv"
	"strings"

	tidbparser "github.com/pingcap/tidb/parser"
	"github.com/pingcap/tidb/parser/ast"
	"github.com/pingcap/tidb/parser/mysql"
	"github.com/pingcap/tidb/parser/opcode"
	_ "github.com/pingcap/tidb/parser/test_driver" // ast.ValueExpr implementation
	"github.com/pingcap/tidb/parser/types"

	"github.com/ridoystarlord/sqlamodel/ddl"
)

func parseMySQL(sql string) ([]ddl.Statement, error) {
	p := tidbparser.New()
	p.SetSQLMode(mysql.ModeANSIQuotes)
	nodes, _, err := p.Parse(sql, "", "")
	if err != nil {
		return nil, &ParseError{Dialect: MySQL, Err: err}
	}
	stmts := make([]ddl.Statement, 0, len(nodes))
	for _, node := range nodes {
		switch n := node.(type) {
		case *ast.CreateTableStmt:
			stmts = append(stmts, mysqlCreateTable(n))
		case *ast.CreateIndexStmt:
			stmts = append(stmts, mysqlCreateIndex(n))
		default:
			return nil, &ParseError{
				Dialect: MySQL,
				Err:     fmt.Errorf("unsupported statement kind %s: only CREATE TABLE and CREATE INDEX are converted", mysqlStmtKind(node)),
			}
		}
	}
	return stmts, nil
}

func mysqlStmtKind(node ast.StmtNode) string {
	name := fmt.Sprintf("%T", node)
	name = strings.TrimPrefix(name, "*ast.")
	return strings.TrimSuffix(name, "Stmt")
}

func mysqlCreateTable(stmt *ast.CreateTableStmt) *ddl.CreateTable {
	table := &ddl.CreateTable{
		Name:        stmt.Table.Name.O,
		IfNotExists: stmt.IfNotExists,
	}
	for _, col := range stmt.Cols {
		table.Columns = append(table.Columns, mysqlColumn(col))
	}
	for _, cons := range stmt.Constraints {
		switch cons.Tp {
		case ast.ConstraintPrimaryKey:
			table.Constraints = append(table.Constraints, mysqlTableConstraint(ddl.PrimaryKey, cons))
		case ast.ConstraintUniq, ast.ConstraintUniqKey, ast.ConstraintUniqIndex:
			table.Constraints = append(table.Constraints, mysqlTableConstraint(ddl.Unique, cons))
		}
	}
	return table
}

func mysqlTableConstraint(kind ddl.ConstraintKind, cons *ast.Constraint) ddl.TableConstraint {
	tc := ddl.TableConstraint{Kind: kind, Name: cons.Name}
	for _, key := range cons.Keys {
		if key.Column != nil {
			tc.Columns = append(tc.Columns, key.Column.Name.O)
		}
	}
	return tc
}

func mysqlColumn(col *ast.ColumnDef) ddl.ColumnDef {
	out := ddl.ColumnDef{
		Name:     col.Name.Name.O,
		Type:     mysqlDataType(col.Tp),
		Location: -1,
	}
	for _, opt := range col.Options {
		switch opt.Tp {
		case ast.ColumnOptionPrimaryKey:
			out.Constraints = append(out.Constraints, ddl.ColumnConstraint{Kind: ddl.PrimaryKey})
		case ast.ColumnOptionNotNull:
			out.Constraints = append(out.Constraints, ddl.ColumnConstraint{Kind: ddl.NotNull})
		case ast.ColumnOptionNull:
			out.Constraints = append(out.Constraints, ddl.ColumnConstraint{Kind: ddl.Null})
		case ast.ColumnOptionUniqKey:
			out.Constraints = append(out.Constraints, ddl.ColumnConstraint{Kind: ddl.Unique})
		case ast.ColumnOptionDefaultValue:
			if expr := mysqlDefaultExpr(opt.Expr); expr != nil {
				out.Constraints = append(out.Constraints, ddl.ColumnConstraint{Kind: ddl.Default, Expr: expr})
			}
		case ast.ColumnOptionComment:
			if v, ok := opt.Expr.(ast.ValueExpr); ok {
				if s, ok := v.GetValue().(string); ok {
					out.Constraints = append(out.Constraints, ddl.ColumnConstraint{Kind: ddl.Comment, Text: s})
				}
			}
		}
	}
	return out
}

func mysqlDataType(ft *types.FieldType) ddl.DataType {
	if ft == nil {
		return ddl.DataType{}
	}
	name, args := mysqlTypeName(ft)
	return ddl.DataType{Name: name, Args: args}
}

// mysqlTypeName maps the parser's internal type byte back to the raw SQL
// type name the shared type map understands. tinyint(1) comes back as
// BOOL, which is how mysql spells boolean.
func mysqlTypeName(ft *types.FieldType) (string, []string) {
	switch ft.GetType() {
	case mysql.TypeTiny:
		if ft.GetFlen() == 1 {
			return "BOOL", nil
		}
		return "TINYINT", nil
	case mysql.TypeShort:
		return "SMALLINT", nil
	case mysql.TypeInt24:
		return "MEDIUMINT", nil
	case mysql.TypeLong:
		return "INT", nil
	case mysql.TypeLonglong:
		return "BIGINT", nil
	case mysql.TypeFloat:
		return "FLOAT", nil
	case mysql.TypeDouble:
		return "DOUBLE", nil
	case mysql.TypeNewDecimal:
		return "DECIMAL", nil
	case mysql.TypeVarchar, mysql.TypeVarString:
		return "VARCHAR", mysqlFlenArgs(ft)
	case mysql.TypeString:
		return "CHAR", mysqlFlenArgs(ft)
	case mysql.TypeTinyBlob, mysql.TypeBlob, mysql.TypeMediumBlob, mysql.TypeLongBlob:
		if ft.GetCharset() == "binary" {
			return "BLOB", nil
		}
		return "TEXT", nil
	case mysql.TypeTimestamp:
		return "TIMESTAMP", nil
	case mysql.TypeDatetime:
		return "DATETIME", nil
	case mysql.TypeDate:
		return "DATE", nil
	case mysql.TypeDuration:
		return "TIME", nil
	case mysql.TypeYear:
		return "YEAR", nil
	case mysql.TypeJSON:
		return "JSON", nil
	case mysql.TypeBit:
		return "BIT", nil
	case mysql.TypeEnum:
		return "ENUM", nil
	case mysql.TypeSet:
		return "SET", nil
	}
	return strings.ToUpper(types.TypeToStr(ft.GetType(), ft.GetCharset())), nil
}

func mysqlFlenArgs(ft *types.FieldType) []string {
	if flen := ft.GetFlen(); flen > 0 {
		return []string{strconv.Itoa(flen)}
	}
	return nil
}

func mysqlDefaultExpr(expr ast.ExprNode) *ddl.DefaultExpr {
	expr = mysqlUnwrapParens(expr)
	switch e := expr.(type) {
	case ast.ValueExpr:
		return mysqlValueDefault(e, false)
	case *ast.FuncCallExpr:
		return &ddl.DefaultExpr{Kind: ddl.FuncDefault, Text: e.FnName.L}
	case *ast.UnaryOperationExpr:
		if e.Op == opcode.Minus {
			if v, ok := mysqlUnwrapParens(e.V).(ast.ValueExpr); ok {
				return mysqlValueDefault(v, true)
			}
		}
	}
	return nil
}

func mysqlUnwrapParens(expr ast.ExprNode) ast.ExprNode {
	for {
		p, ok := expr.(*ast.ParenthesesExpr)
		if !ok {
			return expr
		}
		expr = p.Expr
	}
}

func mysqlValueDefault(v ast.ValueExpr, negative bool) *ddl.DefaultExpr {
	val := v.GetValue()
	if val == nil {
		return nil
	}
	var text string
	switch x := val.(type) {
	case int64:
		text = strconv.FormatInt(x, 10)
	case uint64:
		text = strconv.FormatUint(x, 10)
	case float64:
		text = strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		text = x
	default:
		text = fmt.Sprintf("%v", val)
	}
	if negative {
		text = "-" + text
	}
	return &ddl.DefaultExpr{Kind: ddl.LiteralDefault, Text: text}
}

func mysqlCreateIndex(stmt *ast.CreateIndexStmt) *ddl.CreateIndex {
	idx := &ddl.CreateIndex{
		Name:   stmt.IndexName,
		Table:  stmt.Table.Name.O,
		Unique: stmt.KeyType == ast.IndexKeyTypeUnique,
	}
	for _, part := range stmt.IndexPartSpecifications {
		if part.Column != nil {
			idx.Columns = append(idx.Columns, part.Column.Name.O)
		}
	}
	return idx
}
