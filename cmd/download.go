package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/drivekit/drivekit/internal/drive"
)

func newDownloadCmd() *cobra.Command {
	var (
		account string
		dir     string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "download <path>...",
		Short: "Download file content from Drive",
		Long: `Download the content of one or more Drive files. A single file can be
written to an explicit location with --output (use "-" for stdout);
multiple files are downloaded concurrently into --dir under their Drive
names.

Google Workspace documents have no binary content; use 'drivekit export'
for those.

Examples:
  drivekit download Projects/2024/Reports/summary.pdf
  drivekit download id:1a2b3c4d --output summary.pdf
  drivekit download a.csv b.csv c.csv --dir ./data`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := driveClientForAccount(ctx, account)
			if err != nil {
				return err
			}

			if output != "" && len(args) != 1 {
				return fmt.Errorf("--output requires exactly one file")
			}

			fileIDs := make([]string, 0, len(args))
			for _, arg := range args {
				id, err := resolveFileID(ctx, client, arg)
				if err != nil {
					return err
				}
				fileIDs = append(fileIDs, id)
			}

			if output != "" {
				return downloadTo(ctx, client, fileIDs[0], output)
			}

			results := client.BatchDownload(ctx, fileIDs, dir)
			failed := false
			for i, id := range fileIDs {
				res := results[id]
				if res.Err != nil {
					failed = true
					fmt.Fprintf(os.Stderr, "failed: %s: %v\n", args[i], res.Err)
					continue
				}
				fmt.Printf("%s\t%s\n", args[i], res.Value)
			}
			if failed {
				return fmt.Errorf("some downloads failed")
			}
			return nil
		},
	}

	addAccountFlag(cmd, &account)
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to download files into")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write a single file to this path (\"-\" for stdout)")
	return cmd
}

func downloadTo(ctx context.Context, client *drive.Client, fileID, output string) error {
	body, err := client.DownloadFile(ctx, fileID)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer body.Close()
	return writeStream(body, output)
}

func writeStream(body io.Reader, output string) error {
	if output == "-" {
		_, err := io.Copy(os.Stdout, body)
		return err
	}
	out, err := os.Create(output)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, body); err != nil {
		out.Close()
		os.Remove(output)
		return err
	}
	return out.Close()
}
