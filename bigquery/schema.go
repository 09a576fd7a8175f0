package bigquery

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"
)

var pathLikeRe = regexp.MustCompile(`^[./\\]`)

// ReadSchema creates a schema field list from a string or a filename.
//
// If schema names an existing file it is read as a JSON field list. A value
// that looks like a path but does not exist fails immediately, rather than
// waiting for a server round trip. Anything else must be a comma-separated
// list of name:type entries; the type defaults to STRING.
func ReadSchema(schema string) ([]*TableFieldSchema, error) {
	if schema == "" {
		return nil, schemaError("schema cannot be empty")
	}
	if _, err := os.Stat(schema); err == nil {
		b, err := os.ReadFile(schema)
		if err != nil {
			return nil, schemaError("error reading schema file %s: %v", schema, err)
		}
		var fields []*TableFieldSchema
		if err := json.Unmarshal(b, &fields); err != nil {
			return nil, schemaError(
				`error decoding JSON schema from file %s: %v; to specify a one-column schema, use "name:string"`,
				schema, err)
		}
		return fields, nil
	}
	if pathLikeRe.MatchString(schema) {
		return nil, schemaError(
			"error reading schema: %q looks like a filename, but was not found", schema)
	}
	entries := strings.Split(schema, ",")
	fields := make([]*TableFieldSchema, 0, len(entries))
	for _, entry := range entries {
		name, fieldType := partition(entry, ":")
		if strings.Count(entry, ":") > 1 || strings.TrimSpace(name) == "" {
			return nil, schemaError("invalid schema entry: %s", entry)
		}
		fieldType = strings.ToUpper(strings.TrimSpace(fieldType))
		if fieldType == "" {
			fieldType = "STRING"
		}
		fields = append(fields, &TableFieldSchema{
			Name: strings.TrimSpace(name),
			Type: fieldType,
		})
	}
	return fields, nil
}
