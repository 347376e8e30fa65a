package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the drivekit application
var rootCmd = &cobra.Command{
	Use:   "drivekit",
	Short: "Manage Google Drive files from the command line",
	Long: `drivekit is a convenience layer over the Google Drive API. It resolves
human-readable paths like "Projects/2024/Reports" to file IDs, retries
transient API failures with exponential backoff, and fans bulk operations
out over a bounded worker pool.

Authenticate once per account with 'drivekit auth', then use the file
commands (ls, upload, download, rm, share, ...) against that account.

Most commands take Drive paths as arguments. Prefix an argument with
"id:" to pass a raw file ID instead.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "drivekit version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newLsCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newStatCmd())
	rootCmd.AddCommand(newMkdirCmd())
	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newDownloadCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newRmCmd())
	rootCmd.AddCommand(newMvCmd())
	rootCmd.AddCommand(newCpCmd())
	rootCmd.AddCommand(newRenameCmd())
	rootCmd.AddCommand(newUpdateCmd())
	rootCmd.AddCommand(newShareCmd())
	rootCmd.AddCommand(newRevisionsCmd())
	rootCmd.AddCommand(newLabelsCmd())
	rootCmd.AddCommand(newQuotaCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
