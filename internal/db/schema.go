package db

// SchemaSQL contains the database schema initialization SQL.
// Projects are SCHEMALESS: their nested messages and schema documents are
// shaped by the application and replaced wholesale.
const SchemaSQL = `
    DEFINE TABLE IF NOT EXISTS user SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS name ON user TYPE string;
    DEFINE FIELD IF NOT EXISTS email ON user TYPE string;
    DEFINE FIELD IF NOT EXISTS password_hash ON user TYPE string;
    DEFINE FIELD IF NOT EXISTS created_at ON user TYPE number;

    DEFINE INDEX IF NOT EXISTS user_email ON user FIELDS email UNIQUE;

    DEFINE TABLE IF NOT EXISTS session SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS user_id ON session TYPE string;
    DEFINE FIELD IF NOT EXISTS created_at ON session TYPE number;
    DEFINE FIELD IF NOT EXISTS expires_at ON session TYPE number;

    DEFINE INDEX IF NOT EXISTS session_user ON session FIELDS user_id;

    DEFINE TABLE IF NOT EXISTS project SCHEMALESS;
    DEFINE FIELD IF NOT EXISTS title ON project TYPE string;
    DEFINE FIELD IF NOT EXISTS created_at ON project TYPE number;
    DEFINE FIELD IF NOT EXISTS updated_at ON project TYPE number;

    DEFINE INDEX IF NOT EXISTS project_user ON project FIELDS user_id;
`
