package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/drivekit/drivekit/internal/drive"
)

func newRmCmd() *cobra.Command {
	var (
		account string
		trash   bool
	)

	cmd := &cobra.Command{
		Use:   "rm <path>...",
		Short: "Delete or trash Drive files",
		Long: `Permanently delete one or more Drive files. With --trash, files are
moved to the trash instead and can be restored from the Drive UI.

Multiple files are processed concurrently; one failure does not stop
the rest. The exit status is non-zero if any file failed.

Examples:
  drivekit rm old-draft.txt
  drivekit rm --trash id:1a2b3c4d id:5e6f7g8h
  drivekit rm Projects/2023/scratch.txt notes.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := driveClientForAccount(ctx, account)
			if err != nil {
				return err
			}

			fileIDs := make([]string, 0, len(args))
			for _, arg := range args {
				id, err := resolveFileID(ctx, client, arg)
				if err != nil {
					return err
				}
				fileIDs = append(fileIDs, id)
			}

			var results map[string]drive.Result[bool]
			if trash {
				results = client.BatchTrash(ctx, fileIDs)
			} else {
				results = client.BatchDelete(ctx, fileIDs)
			}

			failed := false
			for i, id := range fileIDs {
				res := results[id]
				if res.Err != nil {
					failed = true
					fmt.Fprintf(os.Stderr, "failed: %s: %v\n", args[i], res.Err)
					continue
				}
				fmt.Printf("removed %s\n", args[i])
			}
			if failed {
				return fmt.Errorf("some removals failed")
			}
			return nil
		},
	}

	addAccountFlag(cmd, &account)
	cmd.Flags().BoolVar(&trash, "trash", false, "Move files to trash instead of deleting permanently")
	return cmd
}
