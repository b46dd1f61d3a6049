package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sqlamodel",
	Short: "Convert SQL DDL into SQLAlchemy model classes",
	Long: `sqlamodel converts CREATE TABLE / CREATE INDEX statements into
SQLAlchemy model-class source code.

Examples:

  sqlamodel init
  sqlamodel generate -f schema.sql
  sqlamodel generate -d mysql -f schema.sql -c
  sqlamodel studio
`,
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}

// Register subcommands
func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(initCmd)
}
