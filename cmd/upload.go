package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/spf13/cobra"

	"github.com/drivekit/drivekit/internal/drive"
)

func newUploadCmd() *cobra.Command {
	var (
		account   string
		dest      string
		recursive bool
	)

	cmd := &cobra.Command{
		Use:   "upload <local-file>...",
		Short: "Upload local files to Drive",
		Long: `Upload one or more local files into a Drive folder. The destination
folder is created if it does not exist. MIME types are detected from the
file content. Multiple files are uploaded concurrently.

With --recursive, directories are uploaded with their structure
preserved under the destination folder.

Examples:
  drivekit upload report.pdf --to Projects/2024/Reports
  drivekit upload *.csv --to Data
  drivekit upload --recursive ./website --to Backups/site`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := driveClientForAccount(ctx, account)
			if err != nil {
				return err
			}

			destID, err := client.EnsureFolder(ctx, dest)
			if err != nil {
				return fmt.Errorf("failed to prepare destination folder %q: %w", dest, err)
			}

			var files []string
			failed := false
			for _, arg := range args {
				info, err := os.Stat(arg)
				if err != nil {
					return err
				}
				if info.IsDir() {
					if !recursive {
						return fmt.Errorf("%s is a directory (use --recursive)", arg)
					}
					if err := uploadTree(ctx, client, arg, destID); err != nil {
						return err
					}
					continue
				}
				files = append(files, arg)
			}

			if len(files) > 0 {
				results := client.BatchUpload(ctx, files, destID)
				for _, path := range files {
					res := results[path]
					if res.Err != nil {
						failed = true
						fmt.Fprintf(os.Stderr, "failed: %s: %v\n", path, res.Err)
						continue
					}
					fmt.Printf("%s\t%s\n", res.Value.ID, path)
				}
			}

			if failed {
				return fmt.Errorf("some uploads failed")
			}
			return nil
		},
	}

	addAccountFlag(cmd, &account)
	cmd.Flags().StringVar(&dest, "to", "", "Destination Drive folder path (default: root)")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Upload directories recursively")
	return cmd
}

// uploadTree mirrors a local directory under the destination folder,
// batching the files of each subdirectory together.
func uploadTree(ctx context.Context, client *drive.Client, root, destID string) error {
	var (
		mu    sync.Mutex
		byDir = make(map[string][]string)
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		dir := filepath.ToSlash(filepath.Dir(rel))
		mu.Lock()
		byDir[dir] = append(byDir[dir], path)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", root, err)
	}

	base := filepath.Base(root)
	dirs := make([]string, 0, len(byDir))
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	failed := false
	for _, dir := range dirs {
		remote := base
		if dir != "." {
			remote = base + "/" + dir
		}
		folderID, err := client.EnsureFolderUnder(ctx, destID, remote)
		if err != nil {
			return fmt.Errorf("failed to create folder %q: %w", remote, err)
		}

		files := byDir[dir]
		sort.Strings(files)
		results := client.BatchUpload(ctx, files, folderID)
		for _, path := range files {
			res := results[path]
			if res.Err != nil {
				failed = true
				fmt.Fprintf(os.Stderr, "failed: %s: %v\n", path, res.Err)
				continue
			}
			fmt.Printf("%s\t%s\n", res.Value.ID, path)
		}
	}

	if failed {
		return fmt.Errorf("some uploads failed")
	}
	return nil
}
