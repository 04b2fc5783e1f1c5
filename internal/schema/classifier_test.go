package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsGenerationRequest(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{"exact phrase", "generate schema", true},
		{"phrase inside sentence", "ok, show me the schema for this", true},
		{"uppercase phrase", "GENERATE THE SCHEMA", true},
		{"polite phrase", "schema please", true},
		{"ready phrase", "i'm ready for the schema", true},
		{"compound with please", "could you create a database for me please", true},
		{"compound with now", "build the database now", true},
		{"compound starts with verb", "generate my database", true},
		{"verb without subject", "create it now", false},
		{"subject without verb", "the schema looks wrong", false},
		{"verb and subject without imperative", "we could build a schema later maybe", false},
		{"plain chat", "I need to track orders and customers", false},
		{"question about schemas", "what is a database schema?", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsGenerationRequest(tt.message))
		})
	}
}

func TestIsUpdateRequest(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{"update schema", "please update the schema with an orders table", true},
		{"change schema", "change the schema so users have an avatar", true},
		{"modify schema", "modify schema: drop the age column", true},
		{"mixed case", "UPDATE the Schema", true},
		{"update without schema", "update the title", false},
		{"schema without verb", "the schema is fine", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUpdateRequest(tt.message))
		})
	}
}
