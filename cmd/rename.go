package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newRenameCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "rename <path> <new-name>",
		Short: "Rename a Drive file in place",
		Long: `Rename a file without moving it. A shorthand for 'mv <path> --name'.

Examples:
  drivekit rename draft.pdf final.pdf
  drivekit rename id:1a2b3c4d report-2024.pdf`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := driveClientForAccount(ctx, account)
			if err != nil {
				return err
			}

			fileID, err := resolveFileID(ctx, client, args[0])
			if err != nil {
				return err
			}

			info, err := client.RenameFile(ctx, fileID, args[1])
			if err != nil {
				return fmt.Errorf("rename failed: %w", err)
			}
			fmt.Printf("%s\t%s\n", info.ID, info.Name)
			return nil
		},
	}

	addAccountFlag(cmd, &account)
	return cmd
}
