package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/drivekit/drivekit/internal/drive"
)

func newUpdateCmd() *cobra.Command {
	var (
		account     string
		name        string
		description string
		mimeType    string
		starred     bool
		unstarred   bool
		properties  []string
	)

	cmd := &cobra.Command{
		Use:   "update <path>",
		Short: "Update file metadata",
		Long: `Update the metadata of a Drive file. Only the fields you pass flags
for are changed. Properties are key=value pairs; an empty value deletes
the property.

Examples:
  drivekit update report.pdf --description "Q3 financials"
  drivekit update id:1a2b3c4d --starred
  drivekit update notes.txt --prop project=apollo --prop reviewed=
  drivekit update draft.pdf --name final.pdf`,
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

			patch := &drive.MetadataPatch{}
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("mime") {
				patch.MimeType = &mimeType
			}
			if starred && unstarred {
				return fmt.Errorf("--starred and --unstarred are mutually exclusive")
			}
			if starred || unstarred {
				v := starred
				patch.Starred = &v
			}
			if len(properties) > 0 {
				patch.Properties = make(map[string]string, len(properties))
				for _, p := range properties {
					key, value, _ := strings.Cut(p, "=")
					if key == "" {
						return fmt.Errorf("invalid property %q (expected key=value)", p)
					}
					patch.Properties[key] = value
				}
			}

			if patch.IsZero() {
				return fmt.Errorf("nothing to update")
			}

			info, err := client.UpdateFile(ctx, fileID, patch)
			if err != nil {
				return fmt.Errorf("update failed: %w", err)
			}
			fmt.Printf("%s\t%s\n", info.ID, info.Name)
			return nil
		},
	}

	addAccountFlag(cmd, &account)
	cmd.Flags().StringVar(&name, "name", "", "Rename the file")
	cmd.Flags().StringVar(&description, "description", "", "Replace the file description")
	cmd.Flags().StringVar(&mimeType, "mime", "", "Change the declared MIME type")
	cmd.Flags().BoolVar(&starred, "starred", false, "Star the file")
	cmd.Flags().BoolVar(&unstarred, "unstarred", false, "Unstar the file")
	cmd.Flags().StringArrayVar(&properties, "prop", nil, "Set a custom property (key=value, empty value deletes)")
	return cmd
}
