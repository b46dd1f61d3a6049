package ddl

import (
	"reflect"
	"testing"
)

// TestParseDeclaredType checks declared type strings split into name,
// arguments and array element the way the loaders rely on.
func TestParseDeclaredType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want DataType
	}{
		{"varchar(255)", DataType{Name: "VARCHAR", Args: []string{"255"}}},
		{"character varying(50)", DataType{Name: "VARCHAR", Args: []string{"50"}}},
		{"CHARACTER(20)", DataType{Name: "CHAR", Args: []string{"20"}}},
		{"NUMERIC(10, 2)", DataType{Name: "NUMERIC", Args: []string{"10", "2"}}},
		{"double precision", DataType{Name: "DOUBLE"}},
		{"  text  ", DataType{Name: "TEXT"}},
		{"integer[]", DataType{Name: "ARRAY", Elem: &DataType{Name: "INTEGER"}}},
		{"UNSIGNED BIG INT", DataType{Name: "UNSIGNED"}},
	}
	for _, c := range cases {
		got := ParseDeclaredType(c.in)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("ParseDeclaredType(%q) = %#v, want %#v", c.in, got, c.want)
		}
	}
}

// TestClassifyDefaultText checks textual DEFAULT expressions are unwrapped
// and classified like the parsed dialects classify theirs.
func TestClassifyDefaultText(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want *DefaultExpr
	}{
		{"0", &DefaultExpr{Kind: LiteralDefault, Text: "0"}},
		{"'42'::integer", &DefaultExpr{Kind: LiteralDefault, Text: "42"}},
		{"'hello ''world'''", &DefaultExpr{Kind: LiteralDefault, Text: "hello 'world'"}},
		{"TRUE", &DefaultExpr{Kind: BoolDefault, Text: "true"}},
		{"false", &DefaultExpr{Kind: BoolDefault, Text: "false"}},
		{"CURRENT_TIMESTAMP", &DefaultExpr{Kind: FuncDefault, Text: "current_timestamp"}},
		{"now()", &DefaultExpr{Kind: FuncDefault, Text: "now"}},
		{"(EXTRACT(epoch FROM now()))::integer", &DefaultExpr{Kind: FuncDefault, Text: "extract"}},
		{"nextval('t_id_seq'::regclass)", &DefaultExpr{Kind: FuncDefault, Text: "nextval"}},
		{"pg_catalog.timezone('utc', now())", &DefaultExpr{Kind: FuncDefault, Text: "timezone"}},
		{"NULL", nil},
		{"", nil},
		{"((0))", &DefaultExpr{Kind: LiteralDefault, Text: "0"}},
	}
	for _, c := range cases {
		got := ClassifyDefaultText(c.in)
		if c.want == nil {
			if got != nil {
				t.Errorf("ClassifyDefaultText(%q) = %#v, want nil", c.in, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("ClassifyDefaultText(%q) = nil, want %#v", c.in, c.want)
			continue
		}
		if got.Kind != c.want.Kind || got.Text != c.want.Text {
			t.Errorf("ClassifyDefaultText(%q) = {%d %q}, want {%d %q}", c.in, got.Kind, got.Text, c.want.Kind, c.want.Text)
		}
	}
}
