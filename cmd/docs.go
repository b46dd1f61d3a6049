package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ridoystarlord/sqlamodel/extract"
	"github.com/ridoystarlord/sqlamodel/parser"
	"github.com/ridoystarlord/sqlamodel/schema"
)

var (
	docsFile    string
	docsDialect string
	docsFormat  string
	docsOutput  string
)

func init() {
	docsCmd.Flags().StringVarP(&docsFile, "file", "f", "", `DDL file to document ("-" or empty reads stdin)`)
	docsCmd.Flags().StringVarP(&docsDialect, "dialect", "d", "postgres", "SQL dialect (postgres, mysql, sqlite)")
	docsCmd.Flags().StringVar(&docsFormat, "format", "markdown", "Output format (markdown, mermaid, all)")
	docsCmd.Flags().StringVarP(&docsOutput, "output", "o", "", "Output file (defaults per format)")
	rootCmd.AddCommand(docsCmd)
}

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Generate schema documentation from DDL",
	Long: `Generate a markdown data dictionary and/or a mermaid ER diagram from
the same table records the model generator uses.

Examples:
  sqlamodel docs -f schema.sql                      # schema-docs.md
  sqlamodel docs -f schema.sql --format mermaid     # schema-diagram.mmd
  sqlamodel docs -f schema.sql --format all
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDocs(); err != nil {
			fmt.Printf("❌ Generating docs: %v\n", err)
			os.Exit(1)
		}
	},
}

func runDocs() error {
	sql, err := readInput(docsFile)
	if err != nil {
		return err
	}
	dialect, err := parser.ParseDialect(docsDialect)
	if err != nil {
		return err
	}
	stmts, err := parser.Parse(sql, dialect)
	if err != nil {
		return err
	}
	tables, err := extract.Tables(stmts, extract.Annotation(sql))
	if err != nil {
		return err
	}

	switch docsFormat {
	case "markdown":
		return writeDoc(generateMarkdownDocs(tables), docsOutput, "schema-docs.md")
	case "mermaid":
		return writeDoc(generateMermaidDiagram(tables), docsOutput, "schema-diagram.mmd")
	case "all":
		if docsOutput != "" {
			return fmt.Errorf("--output only applies to a single format")
		}
		if err := writeDoc(generateMarkdownDocs(tables), "", "schema-docs.md"); err != nil {
			return err
		}
		return writeDoc(generateMermaidDiagram(tables), "", "schema-diagram.mmd")
	default:
		return fmt.Errorf("unknown format %q (markdown, mermaid, all)", docsFormat)
	}
}

func writeDoc(content, output, fallback string) error {
	filename := output
	if filename == "" {
		filename = fallback
	}
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %v", filename, err)
	}
	fmt.Println("✅ Documentation written to:", filename)
	return nil
}

func generateMarkdownDocs(tables []*schema.Table) string {
	var b strings.Builder
	b.WriteString("# Schema Documentation\n")

	for _, t := range tables {
		b.WriteString(fmt.Sprintf("\n## %s\n\n", t.Name))
		if t.Annotation != "" {
			b.WriteString(t.Annotation + "\n\n")
		}

		b.WriteString("| Column | Type | Attributes | Comment |\n")
		b.WriteString("|--------|------|------------|---------|\n")
		for _, col := range t.Columns {
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				col.Name, col.Type, columnAttributes(col), col.Comment))
		}

		if len(t.Constraints) > 0 {
			b.WriteString("\n**Unique constraints:**\n\n")
			for _, tc := range t.Constraints {
				b.WriteString(fmt.Sprintf("- %s (%s)\n", tc.Name, strings.Join(tc.Columns, ", ")))
			}
		}
		if len(t.Indexes) > 0 {
			b.WriteString("\n**Indexes:**\n\n")
			for _, ix := range t.Indexes {
				b.WriteString(fmt.Sprintf("- %s (%s)\n", ix.Name, strings.Join(ix.Columns, ", ")))
			}
		}
	}

	return b.String()
}

func columnAttributes(col schema.Column) string {
	var attrs []string
	if col.Primary {
		attrs = append(attrs, "primary key")
	}
	if col.NotNull {
		attrs = append(attrs, "not null")
	}
	if col.Unique {
		attrs = append(attrs, "unique")
	}
	if col.Default != nil {
		attrs = append(attrs, "default "+*col.Default)
	}
	return strings.Join(attrs, ", ")
}

func generateMermaidDiagram(tables []*schema.Table) string {
	var b strings.Builder
	b.WriteString("erDiagram\n")

	for _, t := range tables {
		b.WriteString(fmt.Sprintf("    %s {\n", strings.ToLower(t.Name)))
		for _, col := range t.Columns {
			mark := ""
			if col.Primary {
				mark = " PK"
			} else if col.Unique {
				mark = " UK"
			}
			b.WriteString(fmt.Sprintf("        %s %s%s\n", mermaidType(col.Type), col.Name, mark))
		}
		b.WriteString("    }\n")
	}

	return b.String()
}

// mermaidType strips call arguments: erDiagram attribute types cannot
// contain parentheses.
func mermaidType(t string) string {
	if i := strings.IndexByte(t, '('); i >= 0 {
		return t[:i]
	}
	return t
}
