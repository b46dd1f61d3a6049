package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/sqlamodel/database"
)

var checkTimeout time.Duration

func init() {
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 10*time.Second, "Database timeout")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check database connectivity",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()

		pool, err := database.Pool(ctx)
		if err != nil {
			fmt.Printf("❌ Database connection failed: %v\n", err)
			os.Exit(1)
		}
		defer database.Close()

		countQuery := `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE';
		`

		var count int
		if err := pool.QueryRow(ctx, countQuery).Scan(&count); err != nil {
			fmt.Printf("❌ Querying tables: %v\n", err)
			os.Exit(1)
		}

		color.Green("✅ Database connection OK (%d table(s) in public)", count)
	},
}
