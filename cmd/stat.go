package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatCmd() *cobra.Command {
	var (
		account string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "stat <path>",
		Short: "Show metadata for a file or folder",
		Long: `Show the full metadata of a Drive file or folder.

Examples:
  drivekit stat Projects/2024/Reports/summary.pdf
  drivekit stat id:1a2b3c4d`,
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

			info, err := client.GetFile(ctx, fileID)
			if err != nil {
				return fmt.Errorf("failed to get metadata for %q: %w", args[0], err)
			}

			if asJSON {
				return printJSON(info)
			}

			fmt.Printf("ID:        %s\n", info.ID)
			fmt.Printf("Name:      %s\n", info.Name)
			fmt.Printf("MimeType:  %s\n", info.MimeType)
			if !info.IsFolder() {
				fmt.Printf("Size:      %d\n", info.Size)
			}
			if !info.CreatedTime.IsZero() {
				fmt.Printf("Created:   %s\n", info.CreatedTime.Format("2006-01-02 15:04:05"))
			}
			if !info.ModifiedTime.IsZero() {
				fmt.Printf("Modified:  %s\n", info.ModifiedTime.Format("2006-01-02 15:04:05"))
			}
			for _, o := range info.Owners {
				fmt.Printf("Owner:     %s <%s>\n", o.DisplayName, o.EmailAddress)
			}
			if info.WebViewLink != "" {
				fmt.Printf("Link:      %s\n", info.WebViewLink)
			}
			fmt.Printf("Shared:    %t\n", info.Shared)
			fmt.Printf("Starred:   %t\n", info.Starred)
			fmt.Printf("Trashed:   %t\n", info.Trashed)
			for k, v := range info.Properties {
				fmt.Printf("Property:  %s=%s\n", k, v)
			}
			return nil
		},
	}

	addAccountFlag(cmd, &account)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
