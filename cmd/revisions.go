package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newRevisionsCmd() *cobra.Command {
	var (
		account  string
		deleteID string
		keepID   string
		unkeepID string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "revisions <path>",
		Short: "List and manage file revisions",
		Long: `List the saved revisions of a file, delete a revision, or pin one so
Drive's automatic pruning never removes it.

Examples:
  drivekit revisions report.pdf
  drivekit revisions report.pdf --keep 42
  drivekit revisions report.pdf --unkeep 42
  drivekit revisions report.pdf --delete 17`,
		Args: cobra.ExactArgs(1),
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

			if deleteID != "" {
				if err := client.DeleteRevision(ctx, fileID, deleteID); err != nil {
					return fmt.Errorf("failed to delete revision: %w", err)
				}
				fmt.Printf("deleted revision %s\n", deleteID)
				return nil
			}

			if keepID != "" || unkeepID != "" {
				revID, keep := keepID, true
				if unkeepID != "" {
					revID, keep = unkeepID, false
				}
				rev, err := client.KeepRevisionForever(ctx, fileID, revID, keep)
				if err != nil {
					return fmt.Errorf("failed to update revision: %w", err)
				}
				fmt.Printf("%s\tkeepForever=%t\n", rev.ID, rev.KeepForever)
				return nil
			}

			revs, err := client.ListRevisions(ctx, fileID)
			if err != nil {
				return fmt.Errorf("failed to list revisions: %w", err)
			}
			if asJSON {
				return printJSON(revs)
			}
			for _, r := range revs {
				pinned := ""
				if r.KeepForever {
					pinned = "\tpinned"
				}
				modifier := ""
				if r.LastModifyingUser != nil {
					modifier = "\t" + r.LastModifyingUser.EmailAddress
				}
				fmt.Printf("%s\t%s\t%d%s%s\n", r.ID, r.ModifiedTime.Format("2006-01-02 15:04"), r.Size, modifier, pinned)
			}
			return nil
		},
	}

	addAccountFlag(cmd, &account)
	cmd.Flags().StringVar(&deleteID, "delete", "", "Delete the revision with this ID")
	cmd.Flags().StringVar(&keepID, "keep", "", "Pin the revision with this ID so it is never pruned")
	cmd.Flags().StringVar(&unkeepID, "unkeep", "", "Unpin the revision with this ID")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
