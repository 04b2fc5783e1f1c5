package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <project-id>",
	Short: "Download a project's schema code",
	Long: `Download the generated schema code of a project to a file.

Without --output the server-suggested filename is used, derived from
the project title. Pass '-o -' to write to stdout instead.

Examples:
  keymap export project-id
  keymap export project-id -o schema.sql
  keymap export project-id -o - | less`,
	Args: cobra.ExactArgs(1),
	RunE: runExportSchema,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file, '-' for stdout")
}

func runExportSchema(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	filename, code, err := apiClient.Export(ctx, args[0])
	if err != nil {
		return fmt.Errorf("export schema: %w", err)
	}

	if exportOutput == "-" {
		fmt.Print(code)
		return nil
	}

	target := exportOutput
	if target == "" {
		target = filename
	}
	if err := os.WriteFile(target, []byte(code), 0644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}

	fmt.Printf("Exported schema to %s\n", target)
	return nil
}
