package schema

import (
	"testing"

	"github.com/raphaelgruber/keymap/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferRelationshipsExplicit(t *testing.T) {
	s := models.Schema{
		Type: models.SchemaTypeSQL,
		Tables: []models.SchemaTable{
			{Name: "users", Fields: []models.SchemaField{{Name: "id", Type: "int", IsPrimaryKey: true}}},
			{Name: "orders", Fields: []models.SchemaField{
				{Name: "id", Type: "int", IsPrimaryKey: true},
				{Name: "user_id", Type: "int", IsForeignKey: true, References: &models.FieldRef{Table: "users", Field: "id"}},
				// Suffix would also match, but explicit FKs suppress inference.
				{Name: "product_id", Type: "int"},
			}},
			{Name: "products", Fields: []models.SchemaField{{Name: "id", Type: "int", IsPrimaryKey: true}}},
		},
	}

	edges := InferRelationships(s)
	require.Len(t, edges, 1)
	assert.Equal(t, Relationship{
		FromTable: "orders", FromField: "user_id",
		ToTable: "users", ToField: "id",
	}, edges[0])
}

func TestInferRelationshipsByName(t *testing.T) {
	s := models.Schema{
		Type: models.SchemaTypeSQL,
		Tables: []models.SchemaTable{
			{Name: "Users", Fields: []models.SchemaField{{Name: "id", Type: "int", IsPrimaryKey: true}}},
			{Name: "Posts", Fields: []models.SchemaField{
				{Name: "id", Type: "int", IsPrimaryKey: true},
				{Name: "user_id", Type: "int"},
				{Name: "authorId", Type: "int"},
			}},
			{Name: "Authors", Fields: []models.SchemaField{{Name: "author_key", Type: "int", IsPrimaryKey: true}}},
		},
	}

	edges := InferRelationships(s)
	require.Len(t, edges, 2)

	assert.Equal(t, Relationship{
		FromTable: "Posts", FromField: "user_id",
		ToTable: "Users", ToField: "id", Inferred: true,
	}, edges[0])
	assert.Equal(t, Relationship{
		FromTable: "Posts", FromField: "authorId",
		ToTable: "Authors", ToField: "author_key", Inferred: true,
	}, edges[1])
}

func TestInferRelationshipsNoMatch(t *testing.T) {
	s := models.Schema{
		Type: models.SchemaTypeSQL,
		Tables: []models.SchemaTable{
			{Name: "events", Fields: []models.SchemaField{
				{Name: "id", Type: "int", IsPrimaryKey: true},
				{Name: "payload", Type: "text"},
			}},
		},
	}
	assert.Empty(t, InferRelationships(s))
}
