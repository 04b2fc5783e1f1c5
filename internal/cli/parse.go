package cli

import (
	"fmt"
	"os"

	"github.com/raphaelgruber/keymap/internal/schema"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file.sql>",
	Short: "Parse CREATE TABLE statements from a SQL file",
	Long: `Parse a SQL file offline and print the tables, fields and keys found
in its CREATE TABLE statements, plus the relationships the schema
viewer would draw. No server needed.

Examples:
  keymap parse schema.sql
  keymap parse dump.sql`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	parsed := schema.ParseCreateTableStatements(string(data))
	if len(parsed.Tables) == 0 {
		fmt.Println("No CREATE TABLE statements found.")
		return nil
	}

	fmt.Printf("Tables (%d):\n\n", len(parsed.Tables))
	for _, table := range parsed.Tables {
		fmt.Printf("- %s\n", table.Name)
		for _, field := range table.Fields {
			marks := ""
			if field.IsPrimaryKey {
				marks += " [pk]"
			}
			if field.IsForeignKey && field.References != nil {
				marks += fmt.Sprintf(" [fk -> %s.%s]", field.References.Table, field.References.Field)
			}
			fmt.Printf("  %s %s%s\n", field.Name, field.Type, marks)
		}
	}

	rels := schema.InferRelationships(parsed)
	if len(rels) > 0 {
		fmt.Printf("\nRelationships (%d):\n\n", len(rels))
		for _, rel := range rels {
			note := ""
			if rel.Inferred {
				note = " (inferred)"
			}
			fmt.Printf("- %s.%s -> %s.%s%s\n", rel.FromTable, rel.FromField, rel.ToTable, rel.ToField, note)
		}
	}

	return nil
}
