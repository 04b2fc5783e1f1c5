package models

import "strings"

// SchemaType distinguishes relational from document-style schemas.
type SchemaType string

const (
	SchemaTypeSQL   SchemaType = "sql"
	SchemaTypeNoSQL SchemaType = "nosql"
)

// Valid reports whether t is one of the known schema types.
func (t SchemaType) Valid() bool {
	return t == SchemaTypeSQL || t == SchemaTypeNoSQL
}

// Schema is a designed database schema. Code is the canonical textual
// representation (DDL for SQL schemas); Tables is the structured view
// derived from it. The two travel together and are replaced wholesale.
type Schema struct {
	Tables []SchemaTable `json:"tables"`
	Type   SchemaType    `json:"type"`
	Code   string        `json:"code"`
}

// SchemaTable is a single table (or collection) in a schema.
type SchemaTable struct {
	Name   string        `json:"name"`
	Fields []SchemaField `json:"fields"`
}

// FieldRef points at a field in another table.
type FieldRef struct {
	Table string `json:"table"`
	Field string `json:"field"`
}

// SchemaField is a column definition. IsForeignKey should come with a
// References target, but generated schemas occasionally violate that and
// readers must tolerate a nil References.
type SchemaField struct {
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	IsPrimaryKey bool      `json:"isPrimaryKey,omitempty"`
	IsForeignKey bool      `json:"isForeignKey,omitempty"`
	References   *FieldRef `json:"references,omitempty"`
}

// NormalizeCode replaces literal two-character `\n` sequences with real
// newlines. Generative models sometimes emit the escaped form inside the
// code field of otherwise valid JSON.
func NormalizeCode(code string) string {
	return strings.ReplaceAll(code, `\n`, "\n")
}

// Normalize applies NormalizeCode in place.
func (s *Schema) Normalize() {
	s.Code = NormalizeCode(s.Code)
}

// Table returns the table with the given name, or nil.
func (s *Schema) Table(name string) *SchemaTable {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// PrimaryKey returns the name of the table's first primary-key field,
// falling back to "id" when none is marked.
func (t *SchemaTable) PrimaryKey() string {
	for _, f := range t.Fields {
		if f.IsPrimaryKey {
			return f.Name
		}
	}
	return "id"
}
