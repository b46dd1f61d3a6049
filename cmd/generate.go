package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/sqlamodel/extract"
	"github.com/ridoystarlord/sqlamodel/generator"
	"github.com/ridoystarlord/sqlamodel/loader"
	"github.com/ridoystarlord/sqlamodel/parser"
	"github.com/ridoystarlord/sqlamodel/schema"
)

var (
	generateFile    string
	generateDialect string
	generateOutput  string
	generateCopy    bool
	generateYAML    bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateFile, "file", "f", "", `DDL file to convert ("-" or empty reads stdin)`)
	generateCmd.Flags().StringVarP(&generateDialect, "dialect", "d", "postgres", "SQL dialect (postgres, mysql, sqlite)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Write models to a file instead of stdout")
	generateCmd.Flags().BoolVarP(&generateCopy, "copy", "c", false, "Copy the generated models to the clipboard")
	generateCmd.Flags().BoolVar(&generateYAML, "yaml", false, "Treat the input file as a YAML schema")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate SQLAlchemy models from DDL",
	Long: `Generate SQLAlchemy model classes from CREATE TABLE / CREATE INDEX
statements, or from a YAML schema file.

Examples:
  sqlamodel generate -f schema.sql             # Convert a PostgreSQL DDL file
  sqlamodel generate -d mysql -f schema.sql    # Convert MySQL DDL
  cat schema.sql | sqlamodel generate          # Read DDL from stdin
  sqlamodel generate -f schema.sql -o models.py  # Write to a file
  sqlamodel generate -f schema.sql -c          # Copy result to the clipboard
  sqlamodel generate --yaml -f schema.yaml     # Convert a YAML schema
`,
	Run: func(cmd *cobra.Command, args []string) {
		content, err := runGenerate()
		if err != nil {
			fmt.Printf("❌ Generating models: %v\n", err)
			os.Exit(1)
		}

		if generateOutput != "" {
			if err := generator.WriteModelFile(content, generateOutput); err != nil {
				fmt.Printf("❌ Writing models: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("✅ Models written to:", generateOutput)
		} else {
			fmt.Print(content)
		}

		if generateCopy {
			if err := clipboard.WriteAll(content); err != nil {
				fmt.Printf("❌ Copying to clipboard: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("✅ Copied to clipboard")
		}
	},
}

func runGenerate() (string, error) {
	if generateYAML {
		return generateFromYAML()
	}

	sql, err := readInput(generateFile)
	if err != nil {
		return "", err
	}
	dialect, err := parser.ParseDialect(generateDialect)
	if err != nil {
		return "", err
	}
	stmts, err := parser.Parse(sql, dialect)
	if err != nil {
		return "", err
	}
	table, err := extract.Table(stmts, extract.Annotation(sql))
	if err != nil {
		return "", err
	}
	return generator.Model(table)
}

func generateFromYAML() (string, error) {
	if generateFile == "" || generateFile == "-" {
		return "", fmt.Errorf("--yaml needs a schema file path")
	}

	inputs, err := loader.LoadTablesFromYAML(generateFile)
	if err != nil {
		return "", err
	}

	var tables []*schema.Table
	for _, in := range inputs {
		table, err := extract.Table(in.Statements, in.Annotation)
		if err != nil {
			return "", err
		}
		table.VerboseName = in.VerboseName
		tables = append(tables, table)
	}
	return generator.File(tables)
}

// readInput reads a DDL file, or stdin when path is empty or "-".
func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %v", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %v", path, err)
	}
	return string(data), nil
}
