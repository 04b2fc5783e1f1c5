package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in and print a session ID",
	Long: `Log in to the keymap server and print the session ID.

Export the printed KEYMAP_SESSION_ID so later commands run as this
user.

Examples:
  keymap login jane@example.com -p secret
  eval "$(keymap login jane@example.com -p secret | tail -1)"`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password")
	_ = loginCmd.MarkFlagRequired("password")
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	user, err := apiClient.Login(ctx, args[0], loginPassword)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	fmt.Printf("Logged in as %s <%s>\n\n", user.Name, user.Email)
	fmt.Printf("export KEYMAP_SESSION_ID=%s\n", apiClient.Session())
	return nil
}
