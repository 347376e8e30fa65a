package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drivekit/drivekit/internal/drive"
)

func newSearchCmd() *cobra.Command {
	var (
		account    string
		maxResults int
		orderBy    string
		spaces     string
		trashed    bool
		asJSON     bool
		allPages   bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search Drive files with a query expression",
		Long: `Search files using Google Drive's query language.

Examples:
  drivekit search "name contains 'report'"
  drivekit search "mimeType='application/pdf'" --max 50
  drivekit search "'me' in owners" --order "modifiedTime desc"

See https://developers.google.com/drive/api/guides/search-files for the
query syntax.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := driveClientForAccount(ctx, account)
			if err != nil {
				return err
			}

			opts := &drive.ListOptions{
				Query:          args[0],
				MaxResults:     maxResults,
				OrderBy:        orderBy,
				Spaces:         spaces,
				IncludeTrashed: trashed,
			}

			var all []*drive.FileInfo
			for {
				files, nextToken, err := client.ListFiles(ctx, opts)
				if err != nil {
					return fmt.Errorf("search failed: %w", err)
				}
				all = append(all, files...)
				if !allPages || nextToken == "" {
					break
				}
				opts.PageToken = nextToken
			}

			if asJSON {
				return printJSON(all)
			}
			printFileTable(all, true)
			return nil
		},
	}

	addAccountFlag(cmd, &account)
	cmd.Flags().IntVar(&maxResults, "max", 100, "Maximum number of results per page")
	cmd.Flags().StringVar(&orderBy, "order", "", "Sort order, e.g. \"folder,modifiedTime desc,name\"")
	cmd.Flags().StringVar(&spaces, "spaces", "", "Comma-separated spaces to query (drive, appDataFolder, photos)")
	cmd.Flags().BoolVar(&trashed, "trashed", false, "Include trashed files in results")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&allPages, "all", false, "Fetch all result pages, not just the first")
	return cmd
}
