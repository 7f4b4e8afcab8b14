package db

import (
	_ "embed"
	"strings"
)

//go:embed schema.sql
var Schema string

// SchemaStatements splits Schema into single statements, for drivers that
// cannot execute more than one statement per call.
func SchemaStatements() []string {
	var out []string
	for _, stmt := range strings.Split(Schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}
