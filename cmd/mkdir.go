package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newMkdirCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "mkdir <path>...",
		Short: "Create folders, including missing parents",
		Long: `Create one or more Drive folders. Missing intermediate folders are
created as needed, like mkdir -p.

Examples:
  drivekit mkdir Projects/2024/Reports
  drivekit mkdir Invoices Receipts`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := driveClientForAccount(ctx, account)
			if err != nil {
				return err
			}

			for _, path := range args {
				folderID, err := client.EnsureFolder(ctx, path)
				if err != nil {
					return fmt.Errorf("failed to create folder %q: %w", path, err)
				}
				fmt.Printf("%s\t%s\n", folderID, path)
			}
			return nil
		},
	}

	addAccountFlag(cmd, &account)
	return cmd
}
