package cmd

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/sqlamodel/ddl"
	"github.com/ridoystarlord/sqlamodel/extract"
	"github.com/ridoystarlord/sqlamodel/parser"
)

var dialectsCmd = &cobra.Command{
	Use:   "dialects",
	Short: "List supported dialects and the type mapping",
	Run: func(cmd *cobra.Command, args []string) {
		header := color.New(color.FgCyan, color.Bold)

		header.Println("📋 Supported dialects")
		for _, d := range parser.Dialects() {
			fmt.Printf("  %s\n", d)
		}

		names := extract.SupportedTypes()
		sort.Strings(names)

		header.Println("\n📋 Type mapping")
		for _, name := range names {
			mapped, err := extract.MapType(ddl.DataType{Name: name})
			if err != nil {
				continue
			}
			fmt.Printf("  %-12s -> %s\n", name, mapped)
		}
	},
}

func init() {
	rootCmd.AddCommand(dialectsCmd)
}
