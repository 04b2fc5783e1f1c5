// Package schema implements the schema-design pipeline: deciding when a
// chat message asks for schema generation, recovering structured schemas
// from model completions, parsing CREATE TABLE DDL, and inferring
// relationships for visualization.
package schema

import "strings"

// triggerPhrases are exact substrings that mark a message as an explicit
// schema generation request. Matching is case-insensitive.
var triggerPhrases = []string{
	"generate schema",
	"generate a schema",
	"create schema",
	"create a schema",
	"generate the schema",
	"create the schema",
	"show me the schema",
	"give me the schema",
	"build the schema",
	"i want the schema",
	"i need the schema",
	"schema please",
	"please generate schema",
	"generate it now",
	"let's see the schema",
	"i'm ready for the schema",
	"generate database schema",
}

// IsGenerationRequest reports whether a single user message explicitly asks
// for a schema to be generated. It matches the fixed phrase catalogue first,
// then a compound heuristic: an action verb plus a schema subject plus an
// imperative marker. Intent is judged per message, not per conversation.
func IsGenerationRequest(message string) bool {
	m := strings.ToLower(message)

	for _, phrase := range triggerPhrases {
		if strings.Contains(m, phrase) {
			return true
		}
	}

	verb := strings.Contains(m, "generate") ||
		strings.Contains(m, "create") ||
		strings.Contains(m, "build")
	subject := strings.Contains(m, "schema") || strings.Contains(m, "database")
	imperative := strings.Contains(m, "now") ||
		strings.Contains(m, "please") ||
		strings.HasPrefix(m, "generate") ||
		strings.HasPrefix(m, "create")

	return verb && subject && imperative
}

// IsUpdateRequest reports whether a message asks to modify an existing
// schema. Only meaningful when the project already has one.
func IsUpdateRequest(message string) bool {
	m := strings.ToLower(message)
	if !strings.Contains(m, "schema") {
		return false
	}
	return strings.Contains(m, "update") ||
		strings.Contains(m, "change") ||
		strings.Contains(m, "modify")
}
