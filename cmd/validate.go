package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/sqlamodel/database"
	"github.com/ridoystarlord/sqlamodel/parser"
	"github.com/ridoystarlord/sqlamodel/utils"
	"github.com/ridoystarlord/sqlamodel/validator"
)

var (
	validateFile    string
	validateDialect string
	validateFormat  string
)

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", `DDL file to validate ("-" or empty reads stdin)`)
	validateCmd.Flags().StringVarP(&validateDialect, "dialect", "d", "postgres", "SQL dialect (postgres, mysql, sqlite)")
	validateCmd.Flags().StringVar(&validateFormat, "format", "text", "Output format (text, json)")
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate DDL before conversion",
	Long: `Validate DDL statements against identifier rules, the type mapping,
and constraint/index references before converting them.

The validator works in two modes:
- Offline: checks the statements themselves (no database required)
- Online: also reports tables that already exist (requires DATABASE_URL)

Examples:
  sqlamodel validate -f schema.sql
  sqlamodel validate -d sqlite -f schema.sql --format json
  DATABASE_URL=postgres://... sqlamodel validate -f schema.sql
`,
	Run: func(cmd *cobra.Command, args []string) {
		result, err := runValidate()
		if err != nil {
			fmt.Printf("❌ Validating: %v\n", err)
			os.Exit(1)
		}

		if validateFormat == "json" {
			if err := outputJSON(result); err != nil {
				fmt.Printf("❌ Encoding result: %v\n", err)
				os.Exit(1)
			}
		} else {
			outputText(result)
		}

		if !result.Valid {
			os.Exit(1)
		}
	},
}

func runValidate() (*validator.ValidationResult, error) {
	sql, err := readInput(validateFile)
	if err != nil {
		return nil, err
	}
	dialect, err := parser.ParseDialect(validateDialect)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()

	stmts, err := parser.Parse(sql, dialect)
	if err != nil {
		// A parse failure is itself the validation finding.
		return &validator.ValidationResult{
			Valid: false,
			Errors: []validator.ValidationError{{
				Type:     "parse",
				Message:  err.Error(),
				Severity: "error",
			}},
			Warnings: []validator.ValidationError{},
			Info:     []validator.ValidationError{},
		}, nil
	}

	v := validator.NewSchemaValidator(nil)
	if utils.HasDatabaseURL() {
		pool, err := database.Pool(ctx)
		if err != nil {
			return nil, err
		}
		defer database.Close()
		v = validator.NewSchemaValidator(pool)
	}

	return v.Validate(ctx, stmts), nil
}

func outputJSON(result *validator.ValidationResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputText(result *validator.ValidationResult) {
	if result.Valid {
		color.Green("✅ Validation passed!")
	} else {
		color.Red("❌ Validation failed!")
	}

	if len(result.Errors) > 0 {
		printFindings(fmt.Sprintf("🔴 Errors (%d):", len(result.Errors)), result.Errors)
	}
	if len(result.Warnings) > 0 {
		printFindings(fmt.Sprintf("🟡 Warnings (%d):", len(result.Warnings)), result.Warnings)
	}
	if len(result.Info) > 0 {
		printFindings(fmt.Sprintf("🔵 Info (%d):", len(result.Info)), result.Info)
	}

	fmt.Printf("\n📊 Summary:\n")
	fmt.Printf("  • Errors: %d\n", len(result.Errors))
	fmt.Printf("  • Warnings: %d\n", len(result.Warnings))
	fmt.Printf("  • Info: %d\n", len(result.Info))

	if result.Valid {
		fmt.Printf("\n🎉 Your DDL is ready to convert!\n")
	} else {
		fmt.Printf("\n💡 Fix the errors above before generating models.\n")
	}
}

func printFindings(header string, findings []validator.ValidationError) {
	fmt.Printf("\n%s\n", header)
	for i, f := range findings {
		fmt.Printf("  %d. ", i+1)
		if f.Table != "" {
			fmt.Printf("[%s]", f.Table)
		}
		if f.Column != "" {
			fmt.Printf(".%s", f.Column)
		}
		if f.Index != "" {
			fmt.Printf(" (index: %s)", f.Index)
		}
		fmt.Printf(": %s\n", f.Message)
	}
}
