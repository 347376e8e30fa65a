package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/drivekit/drivekit/internal/drive"
)

func newLabelsCmd() *cobra.Command {
	var (
		account string
		set     []string
		remove  []string
	)

	cmd := &cobra.Command{
		Use:   "labels <path>",
		Short: "Modify Drive labels on a file",
		Long: `Attach, update, or detach Drive labels on a file. Labels are defined
by a Workspace administrator; fields are addressed by their IDs.

--set takes labelID:fieldID=value (repeatable, multiple fields of the
same label can be set separately). --remove detaches a label entirely.

Examples:
  drivekit labels contract.pdf --set 5g1XYZ:status=approved
  drivekit labels contract.pdf --remove 5g1XYZ`,
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

			byLabel := make(map[string]map[string]string)
			for _, s := range set {
				spec, value, ok := strings.Cut(s, "=")
				if !ok {
					return fmt.Errorf("invalid --set %q (expected labelID:fieldID=value)", s)
				}
				labelID, fieldID, ok := strings.Cut(spec, ":")
				if !ok || labelID == "" || fieldID == "" {
					return fmt.Errorf("invalid --set %q (expected labelID:fieldID=value)", s)
				}
				if byLabel[labelID] == nil {
					byLabel[labelID] = make(map[string]string)
				}
				byLabel[labelID][fieldID] = value
			}

			var mods []drive.LabelModification
			for labelID, fields := range byLabel {
				mods = append(mods, drive.LabelModification{LabelID: labelID, Fields: fields})
			}
			for _, labelID := range remove {
				mods = append(mods, drive.LabelModification{LabelID: labelID, Remove: true})
			}
			if len(mods) == 0 {
				return fmt.Errorf("nothing to do: provide --set or --remove")
			}

			if err := client.ModifyLabels(ctx, fileID, mods); err != nil {
				return fmt.Errorf("failed to modify labels: %w", err)
			}
			fmt.Printf("updated labels on %s\n", args[0])
			return nil
		},
	}

	addAccountFlag(cmd, &account)
	cmd.Flags().StringArrayVar(&set, "set", nil, "Set a label field (labelID:fieldID=value)")
	cmd.Flags().StringArrayVar(&remove, "remove", nil, "Detach a label by ID")
	return cmd
}
