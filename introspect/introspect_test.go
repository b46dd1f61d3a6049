package introspect

import (
	"reflect"
	"testing"
)

// TestIndexDefColumns checks the pg_indexes indexdef column list survives
// expression entries, sort order suffixes and quoted identifiers.
func TestIndexDefColumns(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want []string
	}{
		{
			`CREATE INDEX idx_role_org_id ON public.role USING btree (org_id)`,
			[]string{"org_id"},
		},
		{
			`CREATE INDEX idx_role_recent ON public.role USING btree (org_id, created_at DESC)`,
			[]string{"org_id", "created_at"},
		},
		{
			`CREATE INDEX idx_role_name ON public.role USING btree (lower((name)::text))`,
			[]string{"name"},
		},
		{
			`CREATE INDEX idx_mixed ON public.role USING btree (org_id, lower((name)::text))`,
			[]string{"org_id", "name"},
		},
		{
			`CREATE INDEX idx_quoted ON public."order" USING btree ("order")`,
			[]string{"order"},
		},
		{
			`CREATE INDEX broken ON public.role USING btree`,
			nil,
		},
	}
	for _, c := range cases {
		got := indexDefColumns(c.in)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("indexDefColumns(%q) = %#v, want %#v", c.in, got, c.want)
		}
	}
}
