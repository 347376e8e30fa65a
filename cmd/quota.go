package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newQuotaCmd() *cobra.Command {
	var (
		account string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "quota",
		Short: "Show storage quota and usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := driveClientForAccount(ctx, account)
			if err != nil {
				return err
			}

			quota, err := client.About(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch quota: %w", err)
			}

			if asJSON {
				return printJSON(quota)
			}

			fmt.Printf("User:      %s <%s>\n", quota.User.DisplayName, quota.User.EmailAddress)
			if quota.Limit > 0 {
				fmt.Printf("Limit:     %s\n", formatBytes(quota.Limit))
				fmt.Printf("Used:      %s (%.1f%%)\n", formatBytes(quota.Usage), 100*float64(quota.Usage)/float64(quota.Limit))
			} else {
				fmt.Printf("Limit:     unlimited\n")
				fmt.Printf("Used:      %s\n", formatBytes(quota.Usage))
			}
			fmt.Printf("In Drive:  %s\n", formatBytes(quota.UsageInDrive))
			fmt.Printf("In Trash:  %s\n", formatBytes(quota.UsageInTrash))
			return nil
		},
	}

	addAccountFlag(cmd, &account)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
