package schema

import (
	"strings"

	"github.com/raphaelgruber/keymap/internal/models"
)

// Relationship is a directed edge between two tables, for the
// entity-relationship view. Inferred edges come from field naming rather
// than declared foreign keys.
type Relationship struct {
	FromTable string `json:"fromTable"`
	FromField string `json:"fromField"`
	ToTable   string `json:"toTable"`
	ToField   string `json:"toField"`
	Inferred  bool   `json:"inferred"`
}

// InferRelationships derives the edges to draw for a schema. Declared
// foreign keys win; only when a schema declares none does the name-based
// guess kick in, matching id-suffixed fields against other table names
// (tolerating case and simple plurals). Read-side only: the schema itself
// is never modified.
func InferRelationships(s models.Schema) []Relationship {
	edges := []Relationship{}
	for _, t := range s.Tables {
		for _, f := range t.Fields {
			if f.IsForeignKey && f.References != nil {
				edges = append(edges, Relationship{
					FromTable: t.Name,
					FromField: f.Name,
					ToTable:   f.References.Table,
					ToField:   f.References.Field,
				})
			}
		}
	}
	if len(edges) > 0 {
		return edges
	}

	for _, t := range s.Tables {
		for _, f := range t.Fields {
			target := referenceTarget(s, t, f.Name)
			if target == nil {
				continue
			}
			edges = append(edges, Relationship{
				FromTable: t.Name,
				FromField: f.Name,
				ToTable:   target.Name,
				ToField:   target.PrimaryKey(),
				Inferred:  true,
			})
		}
	}
	return edges
}

// referenceTarget resolves a field name like "user_id" or "authorId" to
// another table it plausibly points at.
func referenceTarget(s models.Schema, from models.SchemaTable, fieldName string) *models.SchemaTable {
	lower := strings.ToLower(fieldName)

	var base string
	switch {
	case strings.HasSuffix(lower, "_id"):
		base = strings.TrimSuffix(lower, "_id")
	case strings.HasSuffix(lower, "id") && len(lower) > 2:
		base = strings.TrimSuffix(lower, "id")
	default:
		return nil
	}
	if base == "" {
		return nil
	}

	for i := range s.Tables {
		t := &s.Tables[i]
		if t.Name == from.Name {
			continue
		}
		name := strings.ToLower(t.Name)
		if name == base || name == base+"s" || name == base+"es" ||
			strings.TrimSuffix(name, "s") == base {
			return t
		}
	}
	return nil
}
