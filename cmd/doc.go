// Package cmd implements the command-line interface for drivekit.
//
// This package provides the following commands:
//   - auth: Authorize access to a Google account and manage stored tokens
//   - ls, search, stat: Browse and query Drive files
//   - mkdir, upload, download, export: Move content in and out of Drive
//   - rm, mv, cp, update, share, revisions, labels: Manage files and access
//   - quota: Show storage usage
//   - watch: Manage change notification channels and poll the changes feed
//   - serve: Run a webhook receiver for change notifications
//   - version: Display version information
//
// Commands accept Drive paths as arguments; an argument prefixed with
// "id:" is treated as a raw file ID instead.
package cmd
