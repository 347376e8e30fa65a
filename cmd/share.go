package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drivekit/drivekit/internal/drive"
)

func newShareCmd() *cobra.Command {
	var (
		account  string
		role     string
		email    string
		domain   string
		anyone   bool
		group    bool
		notify   bool
		message  string
		list     bool
		removeID string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "share <path>",
		Short: "Manage sharing permissions on a file",
		Long: `Grant, list, or revoke access to a Drive file.

By default a grant is created: pass --email for a user, --group with
--email for a group, --domain for a whole domain, or --anyone for a
public grant. Use --list to show existing permissions and --remove to
revoke one by permission ID.

Examples:
  drivekit share report.pdf --email alice@example.com --role writer
  drivekit share report.pdf --domain example.com --role reader
  drivekit share report.pdf --anyone --role reader
  drivekit share report.pdf --list
  drivekit share report.pdf --remove 12345678`,
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

			if list {
				perms, err := client.ListPermissions(ctx, fileID)
				if err != nil {
					return fmt.Errorf("failed to list permissions: %w", err)
				}
				if asJSON {
					return printJSON(perms)
				}
				for _, p := range perms {
					grantee := p.EmailAddress
					if p.Type == "domain" {
						grantee = p.Domain
					} else if p.Type == "anyone" {
						grantee = "(anyone)"
					}
					fmt.Printf("%s\t%s\t%s\t%s\n", p.ID, p.Type, p.Role, grantee)
				}
				return nil
			}

			if removeID != "" {
				if err := client.RemovePermission(ctx, fileID, removeID); err != nil {
					return fmt.Errorf("failed to remove permission: %w", err)
				}
				fmt.Printf("removed permission %s\n", removeID)
				return nil
			}

			opts := &drive.ShareOptions{
				Role:                  role,
				SendNotificationEmail: notify,
				EmailMessage:          message,
			}
			switch {
			case anyone:
				opts.Type = "anyone"
			case domain != "":
				opts.Type = "domain"
				opts.Domain = domain
			case email != "":
				opts.Type = "user"
				if group {
					opts.Type = "group"
				}
				opts.EmailAddress = email
			default:
				return fmt.Errorf("specify a grantee: --email, --domain, or --anyone")
			}

			perm, err := client.ShareFile(ctx, fileID, opts)
			if err != nil {
				return fmt.Errorf("share failed: %w", err)
			}
			if asJSON {
				return printJSON(perm)
			}
			fmt.Printf("%s\t%s\t%s\n", perm.ID, perm.Type, perm.Role)
			return nil
		},
	}

	addAccountFlag(cmd, &account)
	cmd.Flags().StringVar(&role, "role", "reader", "Role to grant: reader, commenter, writer, fileOrganizer, organizer, owner")
	cmd.Flags().StringVar(&email, "email", "", "Email address of the user or group to grant access to")
	cmd.Flags().StringVar(&domain, "domain", "", "Domain to grant access to")
	cmd.Flags().BoolVar(&anyone, "anyone", false, "Grant access to anyone with the link")
	cmd.Flags().BoolVar(&group, "group", false, "Treat --email as a group address")
	cmd.Flags().BoolVar(&notify, "notify", false, "Send a notification email to the grantee")
	cmd.Flags().StringVar(&message, "message", "", "Custom message for the notification email")
	cmd.Flags().BoolVar(&list, "list", false, "List existing permissions")
	cmd.Flags().StringVar(&removeID, "remove", "", "Remove the permission with this ID")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
