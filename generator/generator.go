package generator

import (
	"fmt"
	"os"
	"strings"

	"github.com/ridoystarlord/sqlamodel/schema"
)

// Model renders one Table record as SQLAlchemy model-class source text.
// Rendering is deterministic: the same record always produces the same
// bytes. The only failure mode is a record with no table name.
func Model(table *schema.Table) (string, error) {
	if table == nil || table.Name == "" {
		return "", fmt.Errorf("generate model: table name is empty")
	}

	doc := table.Annotation
	if doc == "" {
		doc = table.Name
	}

	text := fmt.Sprintf("class %s(BaseMixin):\n", toPascalCase(table.Name))
	text += fmt.Sprintf(`    """%s"""`+"\n", doc)
	if table.VerboseName != "" {
		text += fmt.Sprintf(`    """%s"""`+"\n", table.VerboseName)
	}
	text += "\n"
	text += fmt.Sprintf("    __tablename__ = %q\n", strings.ToLower(table.Name))
	if table.HasTableArgs() {
		text += fmt.Sprintf("    __table_args__ = (\n%s\n    )\n", tableArgsSegment(table))
	}
	text += "\n"
	for _, col := range table.Columns {
		text += columnLine(col)
	}

	return text, nil
}

// File renders several tables into one source blob with a blank line
// between classes.
func File(tables []*schema.Table) (string, error) {
	classes := make([]string, 0, len(tables))
	for _, table := range tables {
		text, err := Model(table)
		if err != nil {
			return "", err
		}
		classes = append(classes, text)
	}
	return strings.Join(classes, "\n"), nil
}

// WriteModelFile saves rendered model source into a file.
func WriteModelFile(content, filename string) error {
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %v", filename, err)
	}
	return nil
}

// tableArgsSegment renders the lines inside __table_args__: unique
// constraints first, then indexes, in extraction order.
func tableArgsSegment(table *schema.Table) string {
	var constraints []string
	for _, tc := range table.Constraints {
		constraints = append(constraints, fmt.Sprintf("        UniqueConstraint(%s, name=%q),", quoteJoin(tc.Columns), tc.Name))
	}
	seg := strings.Join(constraints, "\n")
	if len(constraints) > 0 {
		seg += "\n"
	}

	var indexes []string
	for _, ti := range table.Indexes {
		indexes = append(indexes, fmt.Sprintf("        Index(%q, %s),", ti.Name, quoteJoin(ti.Columns)))
	}
	seg += strings.Join(indexes, "\n")

	return seg
}

// columnLine renders one column assignment. Argument order is fixed:
// primary_key, nullable, default, unique, comment.
func columnLine(col schema.Column) string {
	line := fmt.Sprintf("    %s = Column(%s", col.Name, col.Type)
	if col.Primary {
		line += ", primary_key=True"
	}
	if col.NotNull {
		line += ", nullable=False"
	}
	if col.Default != nil {
		line += fmt.Sprintf(", default=%s", *col.Default)
	}
	if col.Unique {
		line += ", unique=True"
	}
	if col.Comment != "" {
		line += fmt.Sprintf(", comment=%q", col.Comment)
	}
	return line + ")\n"
}

func toPascalCase(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(strings.ToLower(part[1:]))
	}
	return b.String()
}

func quoteJoin(cols []string) string {
	quoted := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = fmt.Sprintf("%q", col)
	}
	return strings.Join(quoted, ", ")
}
