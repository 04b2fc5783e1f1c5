package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List your projects",
	Long: `List the logged-in user's schema design projects.

Requires KEYMAP_SESSION_ID, see 'keymap login'.

Examples:
  keymap projects
  keymap projects -v
  keymap projects new "Pet store"`,
	RunE: runListProjects,
}

var projectsNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a project",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runNewProject,
}

var viewCmd = &cobra.Command{
	Use:   "view <project-id>",
	Short: "Show a project's shared schema",
	Long: `Show the read-only share view of a project: its schema code and the
relationships between tables. Works without a session, which is how
shared links are meant to be opened.`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	projectsCmd.AddCommand(projectsNewCmd)
}

func runListProjects(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	projects, err := apiClient.Projects(ctx)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}

	if len(projects) == 0 {
		fmt.Println("No projects found. Start one with 'keymap projects new'.")
		return nil
	}

	fmt.Printf("Projects (%d):\n\n", len(projects))
	for _, project := range projects {
		updated := time.UnixMilli(project.UpdatedAt).Format("2006-01-02 15:04")
		fmt.Printf("- %s (%s)\n", project.Title, project.ID)
		fmt.Printf("  updated %s, %d messages\n", updated, len(project.Messages))
		if verbose && project.Schema != nil {
			fmt.Printf("  schema: %s, %d tables\n", project.Schema.Type, len(project.Schema.Tables))
		}
	}

	return nil
}

func runNewProject(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	title := ""
	if len(args) == 1 {
		title = args[0]
	}

	project, err := apiClient.CreateProject(ctx, title)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	fmt.Printf("Created %q (%s)\n", project.Title, project.ID)
	return nil
}

func runView(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	view, err := apiClient.View(ctx, args[0])
	if err != nil {
		return fmt.Errorf("fetch project view: %w", err)
	}

	fmt.Printf("%s\n\n", view.Title)
	if view.Schema == nil {
		fmt.Println("No schema generated yet.")
		return nil
	}

	fmt.Println(view.Schema.Code)

	if len(view.Relationships) > 0 {
		fmt.Printf("\nRelationships (%d):\n\n", len(view.Relationships))
		for _, rel := range view.Relationships {
			note := ""
			if rel.Inferred {
				note = " (inferred)"
			}
			fmt.Printf("- %s.%s -> %s.%s%s\n", rel.FromTable, rel.FromField, rel.ToTable, rel.ToField, note)
		}
	}

	return nil
}
