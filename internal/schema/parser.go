package schema

import (
	"regexp"
	"strings"

	"github.com/raphaelgruber/keymap/internal/models"
)

// Best-effort DDL scanning. This is deliberately not a SQL grammar: model
// output is too loose for one, and a wrong guess only degrades the table
// view, never the stored code.
var (
	tableRe = regexp.MustCompile(`(?is)CREATE\s+TABLE\s+([^\s(]+)\s*\(\s*(.*?)(?:\);|;)`)
	columnRe = regexp.MustCompile(
		`(?is)\s*([^\s,]+)\s+([^,]+?)(?:,|\s+PRIMARY\s+KEY|\s+FOREIGN\s+KEY|\s*\)|\s*$)`)
	primaryKeyRe = regexp.MustCompile(`(?i)PRIMARY\s+KEY\s*\(\s*([^\s,)]+)`)
	foreignKeyRe = regexp.MustCompile(
		`(?i)FOREIGN\s+KEY\s*\(\s*([^\s,)]+)\s*\)\s*REFERENCES\s+([^\s(]+)\s*\(\s*([^\s,)]+)`)
	statementRe = regexp.MustCompile(`(?is)CREATE\s+TABLE.*?;`)
)

// ParseCreateTableStatements scans free-form text for CREATE TABLE
// statements and derives a structured SQL schema from them. The input text
// is kept verbatim as the schema code, so parsing is idempotent. Input with
// no statements yields a schema with zero tables. Tables whose bodies defeat
// the column scan are kept with empty field lists.
func ParseCreateTableStatements(sqlCode string) models.Schema {
	tables := []models.SchemaTable{}

	for _, m := range tableRe.FindAllStringSubmatch(sqlCode, -1) {
		name := stripQuotes(m[1])
		body := m[2]

		primaryKeys := map[string]bool{}
		for _, pk := range primaryKeyRe.FindAllStringSubmatch(body, -1) {
			primaryKeys[stripQuotes(pk[1])] = true
		}

		foreignKeys := map[string]models.FieldRef{}
		for _, fk := range foreignKeyRe.FindAllStringSubmatch(body, -1) {
			foreignKeys[stripQuotes(fk[1])] = models.FieldRef{
				Table: stripQuotes(fk[2]),
				Field: stripQuotes(fk[3]),
			}
		}

		table := models.SchemaTable{Name: name, Fields: []models.SchemaField{}}
		for _, cm := range columnRe.FindAllStringSubmatch(body, -1) {
			fieldName := stripQuotes(cm[1])
			fieldType := strings.TrimSpace(cm[2])
			if fieldName == "" || fieldType == "" {
				continue
			}
			// Constraint clauses leave "PRIMARY"/"FOREIGN" behind as
			// phantom column names.
			switch strings.ToLower(fieldName) {
			case "primary", "foreign":
				continue
			}

			field := models.SchemaField{
				Name:         fieldName,
				Type:         fieldType,
				IsPrimaryKey: primaryKeys[fieldName],
			}
			if ref, ok := foreignKeys[fieldName]; ok {
				r := ref
				field.IsForeignKey = true
				field.References = &r
			}
			table.Fields = append(table.Fields, field)
		}

		tables = append(tables, table)
	}

	return models.Schema{
		Tables: tables,
		Type:   models.SchemaTypeSQL,
		Code:   sqlCode,
	}
}

// FindCreateTableStatements returns every `CREATE TABLE ... ;` block found
// in text, in order of appearance.
func FindCreateTableStatements(text string) []string {
	return statementRe.FindAllString(text, -1)
}

func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	return strings.NewReplacer(`"`, "", "'", "", "`", "").Replace(s)
}
