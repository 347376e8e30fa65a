package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/drivekit/drivekit/internal/drive"
	"github.com/drivekit/drivekit/internal/google"
)

func newAuthCmd() *cobra.Command {
	var (
		account string
		remove  bool
		check   bool
	)

	cmd := &cobra.Command{
		Use:   "auth [authorization-code]",
		Short: "Authorize drivekit to access a Google account",
		Long: `Authorize drivekit to access Google Drive on behalf of an account.

Without arguments, prints the authorization URL. Open it in a browser,
grant access, and run the command again with the authorization code
Google displays. Tokens are stored per account, so you can keep separate
credentials for e.g. 'work' and 'personal'.

The OAuth client is configured via the DRIVEKIT_GOOGLE_CLIENT_ID and
DRIVEKIT_GOOGLE_CLIENT_SECRET environment variables.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if remove {
				if err := google.RemoveTokenForAccount(account); err != nil {
					return fmt.Errorf("failed to remove token for account %s: %w", account, err)
				}
				fmt.Printf("Removed stored token for account %q\n", account)
				return nil
			}

			if check {
				if drive.HasTokenForAccount(account) {
					fmt.Printf("Account %q is authorized\n", account)
					return nil
				}
				return fmt.Errorf("no valid token for account %q", account)
			}

			if len(args) == 1 {
				return saveAuthCode(ctx, account, args[0])
			}

			fmt.Printf("Open the following URL in a browser and grant access:\n\n  %s\n\n", drive.GetAuthURLForAccount(account))
			fmt.Print("Enter the authorization code: ")

			reader := bufio.NewReader(os.Stdin)
			code, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read authorization code: %w", err)
			}
			code = strings.TrimSpace(code)
			if code == "" {
				return fmt.Errorf("no authorization code provided")
			}
			return saveAuthCode(ctx, account, code)
		},
	}

	addAccountFlag(cmd, &account)
	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the stored token for the account")
	cmd.Flags().BoolVar(&check, "check", false, "Check whether the account has a valid token")
	return cmd
}

func saveAuthCode(ctx context.Context, account, code string) error {
	if err := drive.SaveTokenForAccount(ctx, account, code); err != nil {
		return fmt.Errorf("failed to save token for account %s: %w", account, err)
	}
	fmt.Printf("Authorized account %q\n", account)
	return nil
}
