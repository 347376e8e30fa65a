package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var (
		account  string
		mimeType string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Export a Google Workspace document",
		Long: `Export a Google Workspace document (Docs, Sheets, Slides) by
converting it to a downloadable format.

Common target MIME types:
  application/pdf
  text/csv
  text/plain
  application/vnd.openxmlformats-officedocument.wordprocessingml.document

Examples:
  drivekit export Reports/Q3 --mime application/pdf --output q3.pdf
  drivekit export id:1a2b3c4d --mime text/csv --output data.csv`,
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

			body, err := client.ExportFile(ctx, fileID, mimeType)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			defer body.Close()

			return writeStream(body, output)
		},
	}

	addAccountFlag(cmd, &account)
	cmd.Flags().StringVar(&mimeType, "mime", "application/pdf", "Target MIME type for the conversion")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output path (\"-\" for stdout)")
	return cmd
}
