package parser

import (
	"sort"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/ridoystarlord/sqlamodel/ddl"
)

// attachInlineComments scans the source for comment tokens and attaches
// each one to the column defined on the same line. Comments on lines
// without a column definition stay unattached; the leading header comment
// is handled separately as the table annotation.
func attachInlineComments(sql string, stmts []ddl.Statement) error {
	lines := newLineIndex(sql)
	byLine := map[int]*ddl.ColumnDef{}
	for _, stmt := range stmts {
		table, ok := stmt.(*ddl.CreateTable)
		if !ok {
			continue
		}
		for i := range table.Columns {
			col := &table.Columns[i]
			if col.Location < 0 {
				continue
			}
			byLine[lines.lineAt(col.Location)] = col
		}
	}
	if len(byLine) == 0 {
		return nil
	}
	scan, err := pg_query.Scan(sql)
	if err != nil {
		return &ParseError{Dialect: Postgres, Err: err}
	}
	for _, tok := range scan.GetTokens() {
		start, end := int(tok.GetStart()), int(tok.GetEnd())
		var text string
		switch tok.GetToken() {
		case pg_query.Token_SQL_COMMENT:
			text = strings.TrimSpace(strings.TrimPrefix(sql[start:end], "--"))
		case pg_query.Token_C_COMMENT:
			raw := strings.TrimPrefix(sql[start:end], "/*")
			raw = strings.TrimSuffix(raw, "*/")
			text = strings.TrimSpace(raw)
		default:
			continue
		}
		if text == "" {
			continue
		}
		if col, ok := byLine[lines.lineAt(start)]; ok {
			col.Comments = append(col.Comments, text)
		}
	}
	return nil
}

// lineIndex maps byte offsets to line numbers.
type lineIndex []int

func newLineIndex(s string) lineIndex {
	starts := lineIndex{0}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (l lineIndex) lineAt(off int) int {
	return sort.Search(len(l), func(i int) bool { return l[i] > off }) - 1
}
