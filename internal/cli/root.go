// Package cli provides the command-line interface for keymap.
package cli

import (
	"github.com/raphaelgruber/keymap/internal/client"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose   bool
	serverURL string

	apiClient *client.Client
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "keymap",
	Short: "Conversational database schema designer",
	Long: `KeyMap designs database schemas through conversation.

Describe the application you are building, answer the assistant's
questions about entities and relationships, then ask it to generate
SQL or NoSQL schema code you can refine, share, and export.

Most commands talk to a running keymap-server. Point at it with
--server or KEYMAP_SERVER_URL, and set KEYMAP_SESSION_ID (printed by
'keymap login') to act as a logged-in user.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// parse works offline, no server needed
		if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "parse" {
			return nil
		}
		apiClient = client.New(serverURL)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "keymap server URL (overrides KEYMAP_SERVER_URL)")

	// Add subcommands
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(exportCmd)
}
