package schema

import (
	"io"
	"log/slog"
	"testing"

	"github.com/raphaelgruber/keymap/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const jsonCompletion = `Here is your schema:

{
  "tables": [
    {
      "name": "users",
      "fields": [
        {"name": "id", "type": "int", "isPrimaryKey": true},
        {"name": "email", "type": "varchar"}
      ]
    },
    {
      "name": "orders",
      "fields": [
        {"name": "id", "type": "int", "isPrimaryKey": true},
        {"name": "user_id", "type": "int", "isForeignKey": true, "references": {"table": "users", "field": "id"}}
      ]
    }
  ],
  "type": "sql",
  "code": "CREATE TABLE users (\n  id INT PRIMARY KEY\n);"
}

Let me know if you want changes.`

func TestExtractFromJSON(t *testing.T) {
	s, err := ExtractFromJSON(jsonCompletion)
	require.NoError(t, err)

	require.Len(t, s.Tables, 2)
	assert.Equal(t, models.SchemaTypeSQL, s.Type)
	assert.Equal(t, "users", s.Tables[0].Name)
	assert.True(t, s.Tables[0].Fields[0].IsPrimaryKey)
	require.NotNil(t, s.Tables[1].Fields[1].References)
	assert.Equal(t, "users", s.Tables[1].Fields[1].References.Table)
	// json decoding already turns \n escapes into newlines
	assert.Contains(t, s.Code, "\n  id INT PRIMARY KEY\n")
}

func TestExtractFromJSONNormalizesEscapedNewlines(t *testing.T) {
	// Double-escaped: json decoding leaves a literal backslash-n behind.
	completion := `{"tables": [{"name": "t", "fields": []}], "type": "sql", "code": "CREATE TABLE t (\\n  id INT\\n);"}`
	s, err := ExtractFromJSON(completion)
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE t (\n  id INT\n);", s.Code)
}

func TestExtractFromJSONRejects(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr error
	}{
		{"no braces", "no json here", ErrNoJSONBlock},
		{"unbalanced", `{"tables": [`, ErrNoJSONBlock},
		{"not json", "{this is not json}", ErrInvalidSchema},
		{"no tables", `{"tables": [], "type": "sql", "code": "x"}`, ErrInvalidSchema},
		{"bad type", `{"tables": [{"name": "t"}], "type": "graph", "code": "x"}`, ErrInvalidSchema},
		{"no code", `{"tables": [{"name": "t"}], "type": "sql", "code": ""}`, ErrInvalidSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractFromJSON(tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExtractFromJSONIgnoresBracesInStrings(t *testing.T) {
	completion := `{"tables": [{"name": "t", "fields": []}], "type": "nosql", "code": "db.createCollection(\"t\", {validator: {}})"}`
	s, err := ExtractFromJSON(completion)
	require.NoError(t, err)
	assert.Equal(t, models.SchemaTypeNoSQL, s.Type)
	assert.Contains(t, s.Code, "validator")
}

func TestExtractFromSQL(t *testing.T) {
	completion := "Sure! Run this:\n\nCREATE TABLE pets (\n  id INT,\n  name VARCHAR(40),\n  PRIMARY KEY (id)\n);\n\nThat should do it."
	s, err := ExtractFromSQL(completion)
	require.NoError(t, err)
	require.Len(t, s.Tables, 1)
	assert.Equal(t, "pets", s.Tables[0].Name)

	_, err = ExtractFromSQL("no statements here")
	assert.ErrorIs(t, err, ErrNoCreateTable)
}

func TestExtractFallsThrough(t *testing.T) {
	logger := discardLogger()

	// JSON wins when present.
	s := Extract(jsonCompletion, logger)
	assert.Len(t, s.Tables, 2)

	// Broken JSON falls through to the DDL in the same completion.
	s = Extract("{oops\n\nCREATE TABLE pets (\n  id INT,\n  PRIMARY KEY (id)\n);", logger)
	require.Len(t, s.Tables, 1)
	assert.Equal(t, "pets", s.Tables[0].Name)

	// Nothing usable lands on the fallback.
	s = Extract("I could not produce a schema, sorry.", logger)
	assert.Equal(t, Fallback(), s)
}

func TestFallbackStable(t *testing.T) {
	a := Fallback()
	b := Fallback()
	assert.Equal(t, a, b)
	require.Len(t, a.Tables, 1)
	assert.Equal(t, "Users", a.Tables[0].Name)
	assert.True(t, a.Tables[0].Fields[0].IsPrimaryKey)
	assert.Contains(t, a.Code, "CREATE TABLE Users")
}
