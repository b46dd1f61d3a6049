package extract

import "github.com/ridoystarlord/sqlamodel/ddl"

// typeMap is the static SQL to SQLAlchemy type table. Keys are the raw
// uppercase type names the dialect front ends report; postgres internal
// spellings (INT4, BPCHAR, TIMESTAMPTZ) map the same as their SQL forms.
var typeMap = map[string]string{
	"ARRAY":       "ARRAY",
	"BIGINT":      "BigInteger",
	"INT8":        "BigInteger",
	"BIGSERIAL":   "BigInteger",
	"SMALLINT":    "SmallInteger",
	"INT2":        "SmallInteger",
	"INTEGER":     "Integer",
	"INT":         "Integer",
	"INT4":        "Integer",
	"SERIAL":      "Integer",
	"VARCHAR":     "String",
	"CHAR":        "String",
	"BPCHAR":      "String",
	"TEXT":        "String",
	"BOOLEAN":     "Boolean",
	"BOOL":        "Boolean",
	"TIMESTAMP":   "TIMESTAMP",
	"TIMESTAMPTZ": "TIMESTAMPTZ",
	"DATE":        "Date",
	"DATETIME":    "DateTime",
	"FLOAT":       "Float",
	"FLOAT8":      "Float",
	"DOUBLE":      "Float",
	"NUMERIC":     "Numeric",
	"DECIMAL":     "Numeric",
	"JSON":        "JSON",
	"JSONB":       "JSONB",
}

// MapType renders one raw data type as its SQLAlchemy expression. String
// types keep their first size argument; arrays map their element type
// with a String fallback. Unknown types fail with an error naming them.
func MapType(dt ddl.DataType) (string, error) {
	mapped, ok := typeMap[dt.Name]
	if !ok {
		return "", &UnsupportedTypeError{TypeName: dt.Name}
	}
	if mapped == "ARRAY" {
		elem := "String"
		if dt.Elem != nil {
			if m, ok := typeMap[dt.Elem.Name]; ok {
				elem = m
			}
		}
		return "ARRAY(" + elem + ")", nil
	}
	if mapped == "String" && len(dt.Args) > 0 {
		return "String(" + dt.Args[0] + ")", nil
	}
	return mapped, nil
}

// SupportedTypes lists the raw type names the mapper accepts.
func SupportedTypes() []string {
	names := make([]string, 0, len(typeMap))
	for name := range typeMap {
		names = append(names, name)
	}
	return names
}
