package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/drivekit/drivekit/internal/drive"
	"github.com/drivekit/drivekit/internal/google"
)

// idPrefix marks a command argument as a raw file ID instead of a path.
const idPrefix = "id:"

func driveClientForAccount(ctx context.Context, account string) (*drive.Client, error) {
	if !drive.HasTokenForAccount(account) {
		return nil, fmt.Errorf("%s", google.GetAuthenticationErrorMessage(account))
	}
	return drive.NewClientForAccount(ctx, account)
}

// resolveFileID turns a command argument into a file ID. Arguments are
// Drive paths unless prefixed with "id:".
func resolveFileID(ctx context.Context, client *drive.Client, arg string) (string, error) {
	if id, ok := strings.CutPrefix(arg, idPrefix); ok {
		if id == "" {
			return "", fmt.Errorf("empty file ID in %q", arg)
		}
		return id, nil
	}
	return client.ResolvePath(ctx, arg)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func addAccountFlag(cmd *cobra.Command, account *string) {
	cmd.Flags().StringVar(account, "account", google.DefaultAccount, "Google account name to use")
}
