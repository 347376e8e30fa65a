package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drivekit/drivekit/internal/drive"
)

func newMvCmd() *cobra.Command {
	var (
		account string
		newName string
	)

	cmd := &cobra.Command{
		Use:   "mv <path> [dest-folder]",
		Short: "Move or rename a Drive file",
		Long: `Move a file into another folder, rename it, or both. With only
--name and no destination folder, the file is renamed in place.

Examples:
  drivekit mv Reports/draft.pdf Archive/2024
  drivekit mv draft.pdf --name final.pdf
  drivekit mv id:1a2b3c4d Projects/2024 --name report.pdf`,
		Args: cobra.RangeArgs(1, 2),
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

			if len(args) == 1 {
				if newName == "" {
					return fmt.Errorf("nothing to do: provide a destination folder or --name")
				}
				info, err := client.RenameFile(ctx, fileID, newName)
				if err != nil {
					return fmt.Errorf("rename failed: %w", err)
				}
				fmt.Printf("%s\t%s\n", info.ID, info.Name)
				return nil
			}

			destID, err := resolveFileID(ctx, client, args[1])
			if err != nil {
				return err
			}

			info, err := client.GetFile(ctx, fileID)
			if err != nil {
				return err
			}

			moved, err := client.MoveFile(ctx, fileID, &drive.MoveOptions{
				NewName:       newName,
				AddParents:    []string{destID},
				RemoveParents: info.Parents,
			})
			if err != nil {
				return fmt.Errorf("move failed: %w", err)
			}
			fmt.Printf("%s\t%s\n", moved.ID, moved.Name)
			return nil
		},
	}

	addAccountFlag(cmd, &account)
	cmd.Flags().StringVar(&newName, "name", "", "New name for the file")
	return cmd
}
