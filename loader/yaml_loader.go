package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ridoystarlord/sqlamodel/ddl"
)

type yamlFile struct {
	Tables []yamlTable `yaml:"tables"`
}

type yamlTable struct {
	Name        string       `yaml:"name"`
	Comment     string       `yaml:"comment"`
	VerboseName string       `yaml:"verbose_name"`
	Columns     []yamlColumn `yaml:"columns"`
	Uniques     []yamlUnique `yaml:"uniques"`
	Indexes     []yamlIndex  `yaml:"indexes"`
}

type yamlColumn struct {
	Name    string  `yaml:"name"`
	Type    string  `yaml:"type"`
	Primary bool    `yaml:"primary"`
	NotNull bool    `yaml:"not_null"`
	Unique  bool    `yaml:"unique"`
	Default *string `yaml:"default"`
	Comment string  `yaml:"comment"`
}

type yamlUnique struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
}

type yamlIndex struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
}

// TableInput is one table lowered out of a YAML schema file: the create
// statements for the conversion pipeline plus the docstring texts that have
// no DDL equivalent.
type TableInput struct {
	Annotation  string
	VerboseName string
	Statements  []ddl.Statement
}

// LoadTablesFromYAML reads a YAML schema file and lowers each table into
// DDL statements so YAML input flows through the same type mapping and
// error taxonomy as parsed SQL.
func LoadTablesFromYAML(filename string) ([]TableInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %v", err)
	}

	var yf yamlFile
	if err := yaml.Unmarshal(data, &yf); err != nil {
		return nil, fmt.Errorf("parsing YAML: %v", err)
	}

	var inputs []TableInput
	for i, t := range yf.Tables {
		if t.Name == "" {
			return nil, fmt.Errorf("table %d has no name", i+1)
		}

		create := &ddl.CreateTable{Name: t.Name}
		for _, c := range t.Columns {
			col := ddl.ColumnDef{
				Name:     c.Name,
				Type:     ddl.ParseDeclaredType(c.Type),
				Location: -1,
			}
			if c.Primary {
				col.Constraints = append(col.Constraints, ddl.ColumnConstraint{Kind: ddl.PrimaryKey})
			}
			if c.NotNull {
				col.Constraints = append(col.Constraints, ddl.ColumnConstraint{Kind: ddl.NotNull})
			}
			if c.Unique {
				col.Constraints = append(col.Constraints, ddl.ColumnConstraint{Kind: ddl.Unique})
			}
			if c.Default != nil {
				col.Constraints = append(col.Constraints, ddl.ColumnConstraint{
					Kind: ddl.Default,
					Expr: ddl.ClassifyDefaultText(*c.Default),
				})
			}
			if c.Comment != "" {
				col.Constraints = append(col.Constraints, ddl.ColumnConstraint{Kind: ddl.Comment, Text: c.Comment})
			}
			create.Columns = append(create.Columns, col)
		}
		for _, u := range t.Uniques {
			create.Constraints = append(create.Constraints, ddl.TableConstraint{
				Kind:    ddl.Unique,
				Name:    u.Name,
				Columns: u.Columns,
			})
		}

		stmts := []ddl.Statement{create}
		for _, ix := range t.Indexes {
			stmts = append(stmts, &ddl.CreateIndex{
				Name:    ix.Name,
				Table:   t.Name,
				Columns: ix.Columns,
			})
		}

		inputs = append(inputs, TableInput{
			Annotation:  t.Comment,
			VerboseName: t.VerboseName,
			Statements:  stmts,
		})
	}

	return inputs, nil
}
