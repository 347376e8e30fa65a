package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newCpCmd() *cobra.Command {
	var (
		account string
		newName string
	)

	cmd := &cobra.Command{
		Use:   "cp <path> <dest-folder>",
		Short: "Copy a Drive file",
		Long: `Copy a file into a folder. Folders cannot be copied; Drive does not
support recursive folder copies server-side.

Examples:
  drivekit cp Reports/template.docx Projects/2024
  drivekit cp id:1a2b3c4d Backups --name template-copy.docx`,
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
			destID, err := resolveFileID(ctx, client, args[1])
			if err != nil {
				return err
			}

			info, err := client.CopyFile(ctx, fileID, destID, newName)
			if err != nil {
				return fmt.Errorf("copy failed: %w", err)
			}
			fmt.Printf("%s\t%s\n", info.ID, info.Name)
			return nil
		},
	}

	addAccountFlag(cmd, &account)
	cmd.Flags().StringVar(&newName, "name", "", "Name for the copy (default: same as source)")
	return cmd
}
