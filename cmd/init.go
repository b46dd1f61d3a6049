package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const exampleSQL = `-- role
CREATE TABLE IF NOT EXISTS "role" (
    id SERIAL PRIMARY KEY,
    org_id INT NOT NULL, -- organization
    name VARCHAR(50) NOT NULL,
    status BOOLEAN NOT NULL DEFAULT TRUE,
    created_at INT NOT NULL DEFAULT (EXTRACT(epoch FROM CURRENT_TIMESTAMP))::integer,
    CONSTRAINT uk_org_id_name UNIQUE (org_id, name)
);

CREATE INDEX idx_role_org_id ON "role" (org_id);
`

const exampleYAML = `tables:
  - name: role
    comment: role
    verbose_name: Organization role
    columns:
      - name: id
        type: serial
        primary: true
      - name: org_id
        type: int
        not_null: true
        comment: organization
      - name: name
        type: varchar(50)
        not_null: true
      - name: status
        type: boolean
        not_null: true
        default: "true"
    uniques:
      - name: uk_org_id_name
        columns: [org_id, name]
    indexes:
      - name: idx_role_org_id
        columns: [org_id]
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold example schema files",
	Long: `Create example schema.sql and schema.yaml files in the current
directory. Existing files are left untouched.`,
	Run: func(cmd *cobra.Command, args []string) {
		files := []struct {
			name    string
			content string
		}{
			{"schema.sql", exampleSQL},
			{"schema.yaml", exampleYAML},
		}

		wrote := false
		for _, f := range files {
			if _, err := os.Stat(f.name); err == nil {
				fmt.Printf("⚠️  %s already exists, skipping\n", f.name)
				continue
			}
			if err := os.WriteFile(f.name, []byte(f.content), 0644); err != nil {
				fmt.Printf("❌ Creating %s: %v\n", f.name, err)
				os.Exit(1)
			}
			fmt.Printf("✅ Created %s\n", f.name)
			wrote = true
		}

		if wrote {
			fmt.Println("🚀 Try: sqlamodel generate -f schema.sql")
		}
	},
}
