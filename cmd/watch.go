package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/drivekit/drivekit/internal/drive"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Manage change notification channels",
		Long: `Subscribe a webhook URL to Drive change notifications, poll the
changes feed, and stop active channels.

The webhook must be a public HTTPS endpoint; 'drivekit serve' runs a
compatible receiver.`,
	}

	cmd.AddCommand(newWatchChangesCmd())
	cmd.AddCommand(newWatchFileCmd())
	cmd.AddCommand(newWatchStopCmd())
	cmd.AddCommand(newWatchPollCmd())
	return cmd
}

func newWatchChangesCmd() *cobra.Command {
	var (
		account   string
		address   string
		channelID string
		token     string
		ttl       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "changes",
		Short: "Watch the whole changes feed",
		Long: `Start a notification channel covering all changes to the user's
Drive. Prints the channel ID, resource ID, and the page token to poll
from; keep the first two to stop the channel later.

Example:
  drivekit watch changes --address https://hooks.example.com/drive --token s3cret`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := driveClientForAccount(ctx, account)
			if err != nil {
				return err
			}

			pageToken, err := client.StartPageToken(ctx)
			if err != nil {
				return fmt.Errorf("failed to get start page token: %w", err)
			}

			channel, err := client.WatchChanges(ctx, pageToken, address, &drive.WatchOptions{
				ChannelID: channelID,
				Token:     token,
				TTL:       ttl,
			})
			if err != nil {
				return fmt.Errorf("failed to start channel: %w", err)
			}

			fmt.Printf("Channel:    %s\n", channel.ID)
			fmt.Printf("Resource:   %s\n", channel.ResourceID)
			fmt.Printf("PageToken:  %s\n", pageToken)
			if !channel.Expiration.IsZero() {
				fmt.Printf("Expires:    %s\n", channel.Expiration.Format(time.RFC3339))
			}
			return nil
		},
	}

	addAccountFlag(cmd, &account)
	cmd.Flags().StringVar(&address, "address", "", "HTTPS webhook URL to deliver notifications to")
	cmd.Flags().StringVar(&channelID, "channel-id", "", "Channel ID (default: random UUID)")
	cmd.Flags().StringVar(&token, "token", "", "Opaque token echoed in every notification")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Channel lifetime (Drive applies its own maximum)")
	cobra.CheckErr(cmd.MarkFlagRequired("address"))
	return cmd
}

func newWatchFileCmd() *cobra.Command {
	var (
		account   string
		address   string
		channelID string
		token     string
		ttl       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Watch a single file for changes",
		Args:  cobra.ExactArgs(1),
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

			channel, err := client.WatchFile(ctx, fileID, address, &drive.WatchOptions{
				ChannelID: channelID,
				Token:     token,
				TTL:       ttl,
			})
			if err != nil {
				return fmt.Errorf("failed to start channel: %w", err)
			}

			fmt.Printf("Channel:   %s\n", channel.ID)
			fmt.Printf("Resource:  %s\n", channel.ResourceID)
			if !channel.Expiration.IsZero() {
				fmt.Printf("Expires:   %s\n", channel.Expiration.Format(time.RFC3339))
			}
			return nil
		},
	}

	addAccountFlag(cmd, &account)
	cmd.Flags().StringVar(&address, "address", "", "HTTPS webhook URL to deliver notifications to")
	cmd.Flags().StringVar(&channelID, "channel-id", "", "Channel ID (default: random UUID)")
	cmd.Flags().StringVar(&token, "token", "", "Opaque token echoed in every notification")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Channel lifetime (Drive applies its own maximum)")
	cobra.CheckErr(cmd.MarkFlagRequired("address"))
	return cmd
}

func newWatchStopCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "stop <channel-id> <resource-id>",
		Short: "Stop an active notification channel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := driveClientForAccount(ctx, account)
			if err != nil {
				return err
			}

			if err := client.StopChannel(ctx, args[0], args[1]); err != nil {
				return fmt.Errorf("failed to stop channel: %w", err)
			}
			fmt.Printf("stopped channel %s\n", args[0])
			return nil
		},
	}

	addAccountFlag(cmd, &account)
	return cmd
}

func newWatchPollCmd() *cobra.Command {
	var (
		account   string
		pageToken string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Poll the changes feed once",
		Long: `Fetch all pending entries of the changes feed starting at the given
page token and print the token to resume from next time. Without
--token, a fresh start token is fetched and printed (the feed itself
will be empty).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := driveClientForAccount(ctx, account)
			if err != nil {
				return err
			}

			if pageToken == "" {
				token, err := client.StartPageToken(ctx)
				if err != nil {
					return fmt.Errorf("failed to get start page token: %w", err)
				}
				fmt.Printf("PageToken: %s\n", token)
				return nil
			}

			token := pageToken
			var all []*drive.Change
			for {
				page, err := client.ListChanges(ctx, token)
				if err != nil {
					return fmt.Errorf("failed to list changes: %w", err)
				}
				all = append(all, page.Changes...)
				if page.NextPageToken == "" {
					if page.NewStartPageToken != "" {
						token = page.NewStartPageToken
					}
					break
				}
				token = page.NextPageToken
			}

			if asJSON {
				if err := printJSON(all); err != nil {
					return err
				}
			} else {
				for _, ch := range all {
					if ch.Removed {
						fmt.Printf("%s\tremoved\t%s\n", ch.Time.Format(time.RFC3339), ch.FileID)
						continue
					}
					name := ""
					if ch.File != nil {
						name = ch.File.Name
					}
					fmt.Printf("%s\tchanged\t%s\t%s\n", ch.Time.Format(time.RFC3339), ch.FileID, name)
				}
			}
			fmt.Printf("PageToken: %s\n", token)
			return nil
		},
	}

	addAccountFlag(cmd, &account)
	cmd.Flags().StringVar(&pageToken, "token", "", "Page token to poll from")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
