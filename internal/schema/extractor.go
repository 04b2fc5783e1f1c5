package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/raphaelgruber/keymap/internal/models"
)

// Sentinel errors for the extraction stages.
// Use errors.Is() to check which stage rejected a completion.
var (
	// ErrNoJSONBlock indicates the completion contains no balanced
	// top-level JSON object.
	ErrNoJSONBlock = errors.New("no JSON block in completion")

	// ErrInvalidSchema indicates a JSON block was found but it is not a
	// usable schema (missing tables, type or code).
	ErrInvalidSchema = errors.New("invalid schema in completion")

	// ErrNoCreateTable indicates the completion contains no CREATE TABLE
	// statements to fall back on.
	ErrNoCreateTable = errors.New("no CREATE TABLE statements in completion")
)

// Extract recovers a schema from a raw model completion. It never fails:
// stages are tried in order and the first success wins.
//
//  1. First balanced top-level JSON object, validated and normalized.
//  2. CREATE TABLE statements anywhere in the text, run through the DDL
//     parser.
//  3. A fixed single-table fallback schema.
func Extract(completion string, logger *slog.Logger) models.Schema {
	s, err := ExtractFromJSON(completion)
	if err == nil {
		return s
	}
	logger.Debug("JSON schema extraction failed", "error", err)

	s, err = ExtractFromSQL(completion)
	if err == nil {
		return s
	}
	logger.Debug("SQL schema extraction failed", "error", err)

	logger.Warn("completion yielded no usable schema, using fallback")
	return Fallback()
}

// ExtractFromJSON parses the first balanced top-level JSON object in text
// as a schema. The schema must have at least one table, a known type and
// non-empty code. Literal `\n` escapes left in the code are normalized to
// real newlines.
func ExtractFromJSON(text string) (models.Schema, error) {
	block, ok := jsonBlock(text)
	if !ok {
		return models.Schema{}, ErrNoJSONBlock
	}

	var s models.Schema
	if err := json.Unmarshal([]byte(block), &s); err != nil {
		return models.Schema{}, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if len(s.Tables) == 0 {
		return models.Schema{}, fmt.Errorf("%w: no tables", ErrInvalidSchema)
	}
	if !s.Type.Valid() {
		return models.Schema{}, fmt.Errorf("%w: unknown type %q", ErrInvalidSchema, s.Type)
	}
	if s.Code == "" {
		return models.Schema{}, fmt.Errorf("%w: empty code", ErrInvalidSchema)
	}

	s.Normalize()
	return s, nil
}

// ExtractFromSQL collects every CREATE TABLE statement in text and parses
// the joined statements into a schema.
func ExtractFromSQL(text string) (models.Schema, error) {
	statements := FindCreateTableStatements(text)
	if len(statements) == 0 {
		return models.Schema{}, ErrNoCreateTable
	}
	return ParseCreateTableStatements(strings.Join(statements, "\n\n")), nil
}

// Fallback returns the static last-resort schema. It is the same value on
// every call, so repeated extraction failures converge.
func Fallback() models.Schema {
	return models.Schema{
		Tables: []models.SchemaTable{
			{
				Name: "Users",
				Fields: []models.SchemaField{
					{Name: "id", Type: "int", IsPrimaryKey: true},
					{Name: "name", Type: "varchar"},
					{Name: "email", Type: "varchar"},
				},
			},
		},
		Type: models.SchemaTypeSQL,
		Code: "CREATE TABLE Users (\n  id INT PRIMARY KEY,\n  name VARCHAR(255),\n  email VARCHAR(255)\n);",
	}
}

// jsonBlock returns the first balanced top-level {...} block in text.
// Braces inside JSON strings are ignored.
func jsonBlock(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
