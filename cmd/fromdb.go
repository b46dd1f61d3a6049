package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ridoystarlord/sqlamodel/database"
	"github.com/ridoystarlord/sqlamodel/extract"
	"github.com/ridoystarlord/sqlamodel/generator"
	"github.com/ridoystarlord/sqlamodel/introspect"
	"github.com/ridoystarlord/sqlamodel/schema"
)

var (
	fromdbTables  string
	fromdbSchema  string
	fromdbOutput  string
	fromdbTimeout time.Duration
)

func init() {
	fromdbCmd.Flags().StringVar(&fromdbTables, "tables", "", "Comma-separated table names to convert (default: all)")
	fromdbCmd.Flags().StringVar(&fromdbSchema, "schema", "public", "PostgreSQL schema to introspect")
	fromdbCmd.Flags().StringVarP(&fromdbOutput, "output", "o", "", "Write models to a file instead of stdout")
	fromdbCmd.Flags().DurationVar(&fromdbTimeout, "timeout", 30*time.Second, "Database timeout")
	rootCmd.AddCommand(fromdbCmd)
}

var fromdbCmd = &cobra.Command{
	Use:   "fromdb",
	Short: "Generate SQLAlchemy models from a live PostgreSQL database",
	Long: `Introspect a PostgreSQL database via DATABASE_URL and generate one
model class per table.

Examples:
  sqlamodel fromdb                          # All tables in schema public
  sqlamodel fromdb --tables role,users      # Only the named tables
  sqlamodel fromdb --schema billing -o models.py
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runFromDB(); err != nil {
			fmt.Printf("❌ Generating from database: %v\n", err)
			os.Exit(1)
		}
	},
}

func runFromDB() error {
	ctx, cancel := context.WithTimeout(context.Background(), fromdbTimeout)
	defer cancel()

	pool, err := database.Pool(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	var only []string
	if fromdbTables != "" {
		only = strings.Split(fromdbTables, ",")
	}

	tableDDLs, err := introspect.Schema(ctx, pool, fromdbSchema, only)
	if err != nil {
		return err
	}
	if len(tableDDLs) == 0 {
		return fmt.Errorf("no tables found in schema %q", fromdbSchema)
	}

	var tables []*schema.Table
	for _, td := range tableDDLs {
		table, err := extract.Table(td.Statements, "")
		if err != nil {
			return fmt.Errorf("table %s: %v", td.Name, err)
		}
		tables = append(tables, table)
	}

	content, err := generator.File(tables)
	if err != nil {
		return err
	}

	if fromdbOutput != "" {
		if err := generator.WriteModelFile(content, fromdbOutput); err != nil {
			return err
		}
		fmt.Printf("✅ Generated %d model(s) to: %s\n", len(tables), fromdbOutput)
		return nil
	}
	fmt.Print(content)
	return nil
}
