package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/drivekit/drivekit/internal/drive"
)

func newLsCmd() *cobra.Command {
	var (
		account string
		asJSON  bool
		showIDs bool
	)

	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List the contents of a Drive folder",
		Long: `List the files and folders inside a Drive folder. Without a path
the root folder ("My Drive") is listed.

Examples:
  drivekit ls
  drivekit ls Projects/2024/Reports
  drivekit ls --ids Invoices`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := driveClientForAccount(ctx, account)
			if err != nil {
				return err
			}

			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			files, err := client.ListFolder(ctx, path)
			if err != nil {
				return fmt.Errorf("failed to list %q: %w", path, err)
			}

			if asJSON {
				return printJSON(files)
			}
			printFileTable(files, showIDs)
			return nil
		},
	}

	addAccountFlag(cmd, &account)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&showIDs, "ids", false, "Include file IDs in the listing")
	return cmd
}

func printFileTable(files []*drive.FileInfo, showIDs bool) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	for _, f := range files {
		kind := "file"
		if f.IsFolder() {
			kind = "folder"
		}
		modified := ""
		if !f.ModifiedTime.IsZero() {
			modified = f.ModifiedTime.Format("2006-01-02 15:04")
		}
		if showIDs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", f.ID, kind, f.Size, modified, f.Name)
		} else {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", kind, f.Size, modified, f.Name)
		}
	}
	w.Flush()
}
