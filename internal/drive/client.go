package drive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/drivekit/drivekit/internal/google"
)

// Client wraps the Google Drive API service
type Client struct {
	service  *drive.Service
	account  string // The account this client is associated with
	gateway  Gateway
	retry    *Retryer
	resolver *Resolver
	batch    *Coordinator
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// GetAuthURLForAccount returns the OAuth URL for user authorization for a specific account
func GetAuthURLForAccount(account string) string {
	return google.GetAuthURLForAccount(account)
}

// SaveTokenForAccount exchanges an authorization code for tokens and saves them for a specific account
func SaveTokenForAccount(ctx context.Context, account string, authCode string) error {
	return google.SaveTokenForAccount(ctx, account, authCode)
}

// NewClientForAccount creates a new Google Drive client with OAuth2 authentication for a specific account
// Returns an error if no valid token exists - use HasTokenForAccount() to check first
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	httpClient, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s. Please authorize access first: %w", account, err)
	}

	driveService, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return NewClientWithService(driveService, account), nil
}

// NewClient creates a new Google Drive client with OAuth2 authentication for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// NewClientWithService creates a client around an existing Drive
// service. Used by tests and by callers that manage credentials
// themselves.
func NewClientWithService(service *drive.Service, account string) *Client {
	gateway := newAPIGateway(service)
	retry := NewRetryer()
	return &Client{
		service:  service,
		account:  account,
		gateway:  gateway,
		retry:    retry,
		resolver: NewResolver(gateway, retry),
		batch:    &Coordinator{Concurrency: DefaultBatchConcurrency, Retry: retry},
	}
}

// SetRetryPolicy replaces the retry policy used for all remote calls.
func (c *Client) SetRetryPolicy(retry *Retryer) {
	c.retry = retry
	c.resolver = NewResolver(c.gateway, retry)
	c.batch = &Coordinator{Concurrency: c.batch.Concurrency, Retry: retry}
}

// SetBatchConcurrency bounds the number of parallel batch workers.
func (c *Client) SetBatchConcurrency(n int) {
	c.batch = &Coordinator{Concurrency: n, Retry: c.retry}
}

// ResolvePath resolves a slash-delimited path under the Drive root to
// a file ID. Missing segments are an error.
func (c *Client) ResolvePath(ctx context.Context, path string) (string, error) {
	return c.resolver.Resolve(ctx, RootAlias, path, false)
}

// ResolvePathUnder resolves path against an explicit root folder ID.
func (c *Client) ResolvePathUnder(ctx context.Context, rootID, path string) (string, error) {
	return c.resolver.Resolve(ctx, rootID, path, false)
}

// EnsureFolder resolves a folder path, creating any missing segments
// as folders, and returns the final folder's ID.
func (c *Client) EnsureFolder(ctx context.Context, path string) (string, error) {
	return c.resolver.Resolve(ctx, RootAlias, path, true)
}

// EnsureFolderUnder is EnsureFolder against an explicit root folder ID.
func (c *Client) EnsureFolderUnder(ctx context.Context, rootID, path string) (string, error) {
	return c.resolver.Resolve(ctx, rootID, path, true)
}

// UploadFile uploads a file to Google Drive. When no MIME type is
// given the content is sniffed to detect one.
//
// The create call is retried only when content is seekable; a
// non-replayable body gets a single attempt since a retry would send
// a truncated stream.
func (c *Client) UploadFile(ctx context.Context, name string, content io.Reader, options *UploadOptions) (*FileInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("file name is required")
	}
	if content == nil {
		return nil, fmt.Errorf("file content is required")
	}

	file := &drive.File{
		Name: name,
	}

	mimeType := ""
	if options != nil {
		if len(options.ParentFolders) > 0 {
			file.Parents = options.ParentFolders
		}
		if options.Description != "" {
			file.Description = options.Description
		}
		if len(options.Properties) > 0 {
			file.Properties = options.Properties
		}
		if options.ModifiedTime != nil {
			file.ModifiedTime = options.ModifiedTime.Format(time.RFC3339)
		}
		mimeType = options.MimeType
	}

	if mimeType == "" {
		sniffed, rest, err := sniffMimeType(content)
		if err != nil {
			return nil, fmt.Errorf("failed to detect content type: %w", err)
		}
		mimeType = sniffed
		content = rest
	}
	file.MimeType = mimeType

	doCreate := func() (*drive.File, error) {
		return c.service.Files.Create(file).
			Context(ctx).
			SupportsAllDrives(true).
			Media(content, googleapi.ContentType(mimeType)).
			Fields(fileFields).
			Do()
	}

	var driveFile *drive.File
	var err error
	if seeker, ok := content.(io.Seeker); ok {
		driveFile, err = Retry(ctx, c.retry, func() (*drive.File, error) {
			if _, serr := seeker.Seek(0, io.SeekStart); serr != nil {
				return nil, serr
			}
			return doCreate()
		})
	} else {
		driveFile, err = doCreate()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	return convertToFileInfo(driveFile), nil
}

// UploadTo uploads content to a slash-delimited destination path. The
// directory part is created when missing; the last segment becomes the
// file name.
func (c *Client) UploadTo(ctx context.Context, path string, content io.Reader, options *UploadOptions) (*FileInfo, error) {
	segments := SplitPath(path)
	if len(segments) == 0 {
		return nil, fmt.Errorf("destination path is required")
	}
	name := segments[len(segments)-1]
	dir := strings.Join(segments[:len(segments)-1], "/")

	parentID, err := c.EnsureFolder(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare destination folder %q: %w", dir, err)
	}

	opts := UploadOptions{}
	if options != nil {
		opts = *options
	}
	opts.ParentFolders = []string{parentID}
	return c.UploadFile(ctx, name, content, &opts)
}

// ListFiles lists files in Google Drive with optional filtering
func (c *Client) ListFiles(ctx context.Context, options *ListOptions) ([]*FileInfo, string, error) {
	buildCall := func() *drive.FilesListCall {
		call := c.service.Files.List().
			Context(ctx).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Fields(googleapi.Field(fileListFields))

		if options != nil {
			query := options.Query
			if !options.IncludeTrashed {
				if query != "" {
					query = "(" + query + ") and trashed = false"
				} else {
					query = "trashed = false"
				}
			}
			if query != "" {
				call = call.Q(query)
			}
			if options.MaxResults > 0 {
				call = call.PageSize(int64(options.MaxResults))
			}
			if options.OrderBy != "" {
				call = call.OrderBy(options.OrderBy)
			}
			if options.PageToken != "" {
				call = call.PageToken(options.PageToken)
			}
			if options.Spaces != "" {
				call = call.Spaces(options.Spaces)
			}
		} else {
			call = call.Q("trashed = false")
		}
		return call
	}

	fileList, err := Retry(ctx, c.retry, func() (*drive.FileList, error) {
		return buildCall().Do()
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to list files: %w", err)
	}

	files := make([]*FileInfo, len(fileList.Files))
	for i, f := range fileList.Files {
		files[i] = convertToFileInfo(f)
	}

	return files, fileList.NextPageToken, nil
}

// FindByName searches for files with an exact name anywhere in the
// user's Drive.
func (c *Client) FindByName(ctx context.Context, name string) ([]*FileInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	files, _, err := c.ListFiles(ctx, &ListOptions{
		Query: fmt.Sprintf("name = '%s'", escapeQuery(name)),
	})
	return files, err
}

// ListFolder lists the children of the folder at a slash-delimited path.
func (c *Client) ListFolder(ctx context.Context, path string) ([]*FileInfo, error) {
	folderID, err := c.ResolvePath(ctx, path)
	if err != nil {
		return nil, err
	}
	return Retry(ctx, c.retry, func() ([]*FileInfo, error) {
		return c.gateway.ListChildren(ctx, folderID, "", "")
	})
}

// GetFile retrieves metadata for a specific file
func (c *Client) GetFile(ctx context.Context, fileID string) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}
	return Retry(ctx, c.retry, func() (*FileInfo, error) {
		return c.gateway.GetMetadata(ctx, fileID)
	})
}

// UpdateFile applies a partial metadata update to a file.
func (c *Client) UpdateFile(ctx context.Context, fileID string, patch *MetadataPatch) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}
	if patch.IsZero() {
		return nil, fmt.Errorf("metadata patch is empty")
	}
	return Retry(ctx, c.retry, func() (*FileInfo, error) {
		return c.gateway.UpdateMetadata(ctx, fileID, patch)
	})
}

// DownloadFile downloads the content of a file
func (c *Client) DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	var body io.ReadCloser
	err := c.retry.Do(ctx, func() error {
		resp, err := c.service.Files.Get(fileID).
			Context(ctx).
			SupportsAllDrives(true).
			Download()
		if err != nil {
			return err
		}
		body = resp.Body
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	return body, nil
}

// ExportFile exports a Google Workspace document (Docs, Sheets,
// Slides) to the requested MIME type.
func (c *Client) ExportFile(ctx context.Context, fileID, mimeType string) (io.ReadCloser, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}
	if mimeType == "" {
		return nil, fmt.Errorf("export MIME type is required")
	}

	var body io.ReadCloser
	err := c.retry.Do(ctx, func() error {
		resp, err := c.service.Files.Export(fileID, mimeType).
			Context(ctx).
			Download()
		if err != nil {
			return err
		}
		body = resp.Body
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export file %s as %s: %w", fileID, mimeType, err)
	}
	return body, nil
}

// DeleteFile permanently deletes a file from Google Drive
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	if fileID == "" {
		return fmt.Errorf("fileID is required")
	}
	return c.retry.Do(ctx, func() error {
		return c.gateway.DeleteFile(ctx, fileID)
	})
}

// TrashFile moves a file to the trash instead of deleting it
func (c *Client) TrashFile(ctx context.Context, fileID string) error {
	if fileID == "" {
		return fmt.Errorf("fileID is required")
	}
	err := c.retry.Do(ctx, func() error {
		_, err := c.service.Files.Update(fileID, &drive.File{Trashed: true}).
			Context(ctx).
			SupportsAllDrives(true).
			Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to trash file %s: %w", fileID, err)
	}
	return nil
}

// CreateFolder creates a new folder in Google Drive
func (c *Client) CreateFolder(ctx context.Context, name string, parentFolders []string) (*FileInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("folder name is required")
	}
	parentID := ""
	if len(parentFolders) > 0 {
		parentID = parentFolders[0]
	}
	return Retry(ctx, c.retry, func() (*FileInfo, error) {
		return c.gateway.CreateFile(ctx, parentID, name, FolderMimeType, nil, nil)
	})
}

// CopyFile creates a copy of a file in the given parent folder with
// the given name.
func (c *Client) CopyFile(ctx context.Context, fileID, parentID, newName string) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	target := &drive.File{Name: newName}
	if parentID != "" {
		target.Parents = []string{parentID}
	}

	driveFile, err := Retry(ctx, c.retry, func() (*drive.File, error) {
		return c.service.Files.Copy(fileID, target).
			Context(ctx).
			SupportsAllDrives(true).
			Fields(fileFields).
			Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to copy file %s: %w", fileID, err)
	}
	return convertToFileInfo(driveFile), nil
}

// MoveFile moves or renames a file
func (c *Client) MoveFile(ctx context.Context, fileID string, options *MoveOptions) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}
	if options == nil {
		return nil, fmt.Errorf("move options are required")
	}

	update := &drive.File{}
	if options.NewName != "" {
		update.Name = options.NewName
	}

	driveFile, err := Retry(ctx, c.retry, func() (*drive.File, error) {
		call := c.service.Files.Update(fileID, update).
			Context(ctx).
			SupportsAllDrives(true).
			Fields(fileFields)
		if len(options.AddParents) > 0 {
			call = call.AddParents(strings.Join(options.AddParents, ","))
		}
		if len(options.RemoveParents) > 0 {
			call = call.RemoveParents(strings.Join(options.RemoveParents, ","))
		}
		return call.Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to move file: %w", err)
	}
	return convertToFileInfo(driveFile), nil
}

// RenameFile renames a file without changing its parents.
func (c *Client) RenameFile(ctx context.Context, fileID, newName string) (*FileInfo, error) {
	if newName == "" {
		return nil, fmt.Errorf("new name is required")
	}
	return c.MoveFile(ctx, fileID, &MoveOptions{NewName: newName})
}

// ShareFile creates a permission on a file to share it
func (c *Client) ShareFile(ctx context.Context, fileID string, options *ShareOptions) (*Permission, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}
	if options == nil {
		return nil, fmt.Errorf("share options are required")
	}
	if options.Type == "" {
		return nil, fmt.Errorf("permission type is required")
	}
	if options.Role == "" {
		return nil, fmt.Errorf("permission role is required")
	}

	permission := &drive.Permission{
		Type: options.Type,
		Role: options.Role,
	}
	if options.EmailAddress != "" {
		permission.EmailAddress = options.EmailAddress
	}
	if options.Domain != "" {
		permission.Domain = options.Domain
	}

	drivePermission, err := Retry(ctx, c.retry, func() (*drive.Permission, error) {
		call := c.service.Permissions.Create(fileID, permission).
			Context(ctx).
			Fields("id, type, role, emailAddress, domain, displayName")
		if options.SendNotificationEmail {
			call = call.SendNotificationEmail(true)
			if options.EmailMessage != "" {
				call = call.EmailMessage(options.EmailMessage)
			}
		}
		return call.Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to share file: %w", err)
	}
	return convertToPermission(drivePermission), nil
}

// RemovePermission removes a permission from a file
func (c *Client) RemovePermission(ctx context.Context, fileID, permissionID string) error {
	if fileID == "" {
		return fmt.Errorf("fileID is required")
	}
	if permissionID == "" {
		return fmt.Errorf("permissionID is required")
	}
	err := c.retry.Do(ctx, func() error {
		return c.service.Permissions.Delete(fileID, permissionID).Context(ctx).Do()
	})
	if err != nil {
		return fmt.Errorf("failed to remove permission: %w", err)
	}
	return nil
}

// ListPermissions lists all permissions for a file
func (c *Client) ListPermissions(ctx context.Context, fileID string) ([]*Permission, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	permList, err := Retry(ctx, c.retry, func() (*drive.PermissionList, error) {
		return c.service.Permissions.List(fileID).
			Context(ctx).
			Fields("permissions(id, type, role, emailAddress, domain, displayName)").
			Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}

	permissions := make([]*Permission, len(permList.Permissions))
	for i, p := range permList.Permissions {
		permissions[i] = convertToPermission(p)
	}
	return permissions, nil
}

// ListRevisions lists the saved revisions of a file
func (c *Client) ListRevisions(ctx context.Context, fileID string) ([]*Revision, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	var revisions []*Revision
	err := c.retry.Do(ctx, func() error {
		revisions = revisions[:0]
		return c.service.Revisions.List(fileID).
			Context(ctx).
			Fields("nextPageToken, revisions(id, mimeType, modifiedTime, size, keepForever, lastModifyingUser)").
			Pages(ctx, func(list *drive.RevisionList) error {
				for _, r := range list.Revisions {
					revisions = append(revisions, convertToRevision(r))
				}
				return nil
			})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions for %s: %w", fileID, err)
	}
	return revisions, nil
}

// GetRevision retrieves metadata for a single revision of a file
func (c *Client) GetRevision(ctx context.Context, fileID, revisionID string) (*Revision, error) {
	if fileID == "" || revisionID == "" {
		return nil, fmt.Errorf("fileID and revisionID are required")
	}
	rev, err := Retry(ctx, c.retry, func() (*drive.Revision, error) {
		return c.service.Revisions.Get(fileID, revisionID).
			Context(ctx).
			Fields("id, mimeType, modifiedTime, size, keepForever, lastModifyingUser").
			Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get revision %s of %s: %w", revisionID, fileID, err)
	}
	return convertToRevision(rev), nil
}

// DeleteRevision permanently deletes a revision of a file
func (c *Client) DeleteRevision(ctx context.Context, fileID, revisionID string) error {
	if fileID == "" || revisionID == "" {
		return fmt.Errorf("fileID and revisionID are required")
	}
	err := c.retry.Do(ctx, func() error {
		return c.service.Revisions.Delete(fileID, revisionID).Context(ctx).Do()
	})
	if err != nil {
		return fmt.Errorf("failed to delete revision %s of %s: %w", revisionID, fileID, err)
	}
	return nil
}

// KeepRevisionForever pins or unpins a revision, exempting it from
// Drive's automatic pruning.
func (c *Client) KeepRevisionForever(ctx context.Context, fileID, revisionID string, keep bool) (*Revision, error) {
	if fileID == "" || revisionID == "" {
		return nil, fmt.Errorf("fileID and revisionID are required")
	}

	update := &drive.Revision{KeepForever: keep}
	if !keep {
		update.ForceSendFields = []string{"KeepForever"}
	}

	rev, err := Retry(ctx, c.retry, func() (*drive.Revision, error) {
		return c.service.Revisions.Update(fileID, revisionID, update).
			Context(ctx).
			Fields("id, mimeType, modifiedTime, size, keepForever, lastModifyingUser").
			Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update revision %s of %s: %w", revisionID, fileID, err)
	}
	return convertToRevision(rev), nil
}

// About returns the storage quota and authenticated user
func (c *Client) About(ctx context.Context) (*Quota, error) {
	about, err := Retry(ctx, c.retry, func() (*drive.About, error) {
		return c.service.About.Get().
			Context(ctx).
			Fields("storageQuota, user").
			Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get quota: %w", err)
	}

	quota := &Quota{}
	if about.StorageQuota != nil {
		quota.Limit = about.StorageQuota.Limit
		quota.Usage = about.StorageQuota.Usage
		quota.UsageInDrive = about.StorageQuota.UsageInDrive
		quota.UsageInTrash = about.StorageQuota.UsageInDriveTrash
	}
	if about.User != nil {
		quota.User = User{
			DisplayName:  about.User.DisplayName,
			EmailAddress: about.User.EmailAddress,
			PhotoLink:    about.User.PhotoLink,
		}
	}
	return quota, nil
}

// StartPageToken returns the token marking the current head of the
// changes feed; pass it to ListChanges or WatchChanges.
func (c *Client) StartPageToken(ctx context.Context) (string, error) {
	token, err := Retry(ctx, c.retry, func() (*drive.StartPageToken, error) {
		return c.service.Changes.GetStartPageToken().Context(ctx).Do()
	})
	if err != nil {
		return "", fmt.Errorf("failed to get start page token: %w", err)
	}
	return token.StartPageToken, nil
}

// ListChanges returns one page of the changes feed starting at pageToken
func (c *Client) ListChanges(ctx context.Context, pageToken string) (*ChangeList, error) {
	if pageToken == "" {
		return nil, fmt.Errorf("page token is required")
	}

	list, err := Retry(ctx, c.retry, func() (*drive.ChangeList, error) {
		return c.service.Changes.List(pageToken).
			Context(ctx).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Fields("nextPageToken, newStartPageToken, changes(fileId, removed, time, file(" + fileFields + "))").
			Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list changes: %w", err)
	}

	result := &ChangeList{
		NextPageToken:     list.NextPageToken,
		NewStartPageToken: list.NewStartPageToken,
	}
	for _, ch := range list.Changes {
		result.Changes = append(result.Changes, convertToChange(ch))
	}
	return result, nil
}

// WatchChanges opens a notification channel delivering the changes
// feed to a webhook URL. The returned Channel carries the IDs needed
// to stop it.
func (c *Client) WatchChanges(ctx context.Context, pageToken, address string, options *WatchOptions) (*Channel, error) {
	if pageToken == "" {
		return nil, fmt.Errorf("page token is required")
	}
	if address == "" {
		return nil, fmt.Errorf("webhook address is required")
	}

	channel := newAPIChannel(address, options)
	created, err := Retry(ctx, c.retry, func() (*drive.Channel, error) {
		return c.service.Changes.Watch(pageToken, channel).Context(ctx).Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to watch changes: %w", err)
	}
	return convertToChannel(created), nil
}

// WatchFile opens a notification channel for a single file
func (c *Client) WatchFile(ctx context.Context, fileID, address string, options *WatchOptions) (*Channel, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}
	if address == "" {
		return nil, fmt.Errorf("webhook address is required")
	}

	channel := newAPIChannel(address, options)
	created, err := Retry(ctx, c.retry, func() (*drive.Channel, error) {
		return c.service.Files.Watch(fileID, channel).
			Context(ctx).
			SupportsAllDrives(true).
			Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to watch file %s: %w", fileID, err)
	}
	return convertToChannel(created), nil
}

// StopChannel stops a notification channel. Both the channel ID and
// the resource ID from the original watch response are required.
func (c *Client) StopChannel(ctx context.Context, channelID, resourceID string) error {
	if channelID == "" || resourceID == "" {
		return fmt.Errorf("channelID and resourceID are required")
	}
	err := c.retry.Do(ctx, func() error {
		return c.service.Channels.Stop(&drive.Channel{
			Id:         channelID,
			ResourceId: resourceID,
		}).Context(ctx).Do()
	})
	if err != nil {
		return fmt.Errorf("failed to stop channel %s: %w", channelID, err)
	}
	return nil
}

// ModifyLabels applies a set of label modifications to a file
func (c *Client) ModifyLabels(ctx context.Context, fileID string, mods []LabelModification) error {
	if fileID == "" {
		return fmt.Errorf("fileID is required")
	}
	if len(mods) == 0 {
		return fmt.Errorf("at least one label modification is required")
	}

	request := &drive.ModifyLabelsRequest{}
	for _, mod := range mods {
		labelMod := &drive.LabelModification{LabelId: mod.LabelID}
		if mod.Remove {
			labelMod.RemoveLabel = true
		} else {
			for fieldID, value := range mod.Fields {
				labelMod.FieldModifications = append(labelMod.FieldModifications, &drive.LabelFieldModification{
					FieldId:       fieldID,
					SetTextValues: []string{value},
				})
			}
		}
		request.LabelModifications = append(request.LabelModifications, labelMod)
	}

	err := c.retry.Do(ctx, func() error {
		_, err := c.service.Files.ModifyLabels(fileID, request).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to modify labels on %s: %w", fileID, err)
	}
	return nil
}

// BatchDelete permanently deletes a set of files concurrently. The
// result map has one entry per file ID; a failed deletion is captured
// in its entry and never aborts the rest of the batch.
//
// Workers call the gateway directly: the coordinator already applies
// the per-item retry budget.
func (c *Client) BatchDelete(ctx context.Context, fileIDs []string) map[string]Result[bool] {
	return Run(ctx, c.batch, Items(fileIDs), func(ctx context.Context, item Item) (bool, error) {
		if err := c.gateway.DeleteFile(ctx, item.Input); err != nil {
			return false, err
		}
		return true, nil
	})
}

// BatchTrash moves a set of files to the trash concurrently
func (c *Client) BatchTrash(ctx context.Context, fileIDs []string) map[string]Result[bool] {
	return Run(ctx, c.batch, Items(fileIDs), func(ctx context.Context, item Item) (bool, error) {
		_, err := c.service.Files.Update(item.Input, &drive.File{Trashed: true}).
			Context(ctx).
			SupportsAllDrives(true).
			Do()
		if err != nil {
			return false, err
		}
		return true, nil
	})
}

// BatchDownload downloads a set of files into dir concurrently. Each
// entry's value is the local path written.
func (c *Client) BatchDownload(ctx context.Context, fileIDs []string, dir string) map[string]Result[string] {
	return Run(ctx, c.batch, Items(fileIDs), func(ctx context.Context, item Item) (string, error) {
		info, err := c.gateway.GetMetadata(ctx, item.Input)
		if err != nil {
			return "", err
		}

		resp, err := c.service.Files.Get(item.Input).
			Context(ctx).
			SupportsAllDrives(true).
			Download()
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()

		local := filepath.Join(dir, info.Name)
		out, err := os.Create(local)
		if err != nil {
			return "", err
		}
		if _, err := io.Copy(out, resp.Body); err != nil {
			out.Close()
			os.Remove(local)
			return "", err
		}
		if err := out.Close(); err != nil {
			return "", err
		}
		return local, nil
	})
}

// BatchUpload uploads a set of local files into the parent folder
// concurrently. Each entry's value is the created file's metadata.
// Paths are reopened on every attempt, so retries replay the full
// content.
func (c *Client) BatchUpload(ctx context.Context, paths []string, parentID string) map[string]Result[*FileInfo] {
	return Run(ctx, c.batch, Items(paths), func(ctx context.Context, item Item) (*FileInfo, error) {
		f, err := os.Open(item.Input)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		mimeType, rest, err := sniffMimeType(f)
		if err != nil {
			return nil, err
		}

		return c.gateway.CreateFile(ctx, parentID, filepath.Base(item.Input), mimeType, rest, nil)
	})
}

// sniffMimeType detects the MIME type of content without losing the
// sniffed bytes; the returned reader replays them ahead of the rest.
func sniffMimeType(content io.Reader) (string, io.Reader, error) {
	buffered := &bytes.Buffer{}
	mime, err := mimetype.DetectReader(io.TeeReader(content, buffered))
	if err != nil {
		return "", nil, err
	}
	return mime.String(), io.MultiReader(buffered, content), nil
}

func newAPIChannel(address string, options *WatchOptions) *drive.Channel {
	channel := &drive.Channel{
		Type:    "web_hook",
		Address: address,
	}
	if options != nil {
		channel.Id = options.ChannelID
		channel.Token = options.Token
		if options.TTL > 0 {
			channel.Expiration = time.Now().Add(options.TTL).UnixMilli()
		}
	}
	if channel.Id == "" {
		channel.Id = uuid.New().String()
	}
	return channel
}

// convertToFileInfo converts a Drive API File to our FileInfo type
func convertToFileInfo(f *drive.File) *FileInfo {
	fileInfo := &FileInfo{
		ID:             f.Id,
		Name:           f.Name,
		MimeType:       f.MimeType,
		Size:           f.Size,
		WebViewLink:    f.WebViewLink,
		WebContentLink: f.WebContentLink,
		Parents:        f.Parents,
		Properties:     f.Properties,
		Shared:         f.Shared,
		Starred:        f.Starred,
		Trashed:        f.Trashed,
	}

	fileInfo.CreatedTime = parseTime(f.CreatedTime)
	fileInfo.ModifiedTime = parseTime(f.ModifiedTime)

	for _, owner := range f.Owners {
		fileInfo.Owners = append(fileInfo.Owners, User{
			DisplayName:  owner.DisplayName,
			EmailAddress: owner.EmailAddress,
			PhotoLink:    owner.PhotoLink,
		})
	}

	return fileInfo
}

// convertToPermission converts a Drive API Permission to our Permission type
func convertToPermission(p *drive.Permission) *Permission {
	return &Permission{
		ID:           p.Id,
		Type:         p.Type,
		Role:         p.Role,
		EmailAddress: p.EmailAddress,
		Domain:       p.Domain,
		DisplayName:  p.DisplayName,
	}
}

// convertToRevision converts a Drive API Revision to our Revision type
func convertToRevision(r *drive.Revision) *Revision {
	rev := &Revision{
		ID:           r.Id,
		MimeType:     r.MimeType,
		ModifiedTime: parseTime(r.ModifiedTime),
		Size:         r.Size,
		KeepForever:  r.KeepForever,
	}
	if r.LastModifyingUser != nil {
		rev.LastModifyingUser = &User{
			DisplayName:  r.LastModifyingUser.DisplayName,
			EmailAddress: r.LastModifyingUser.EmailAddress,
			PhotoLink:    r.LastModifyingUser.PhotoLink,
		}
	}
	return rev
}

// convertToChange converts a Drive API Change to our Change type
func convertToChange(ch *drive.Change) *Change {
	change := &Change{
		FileID:  ch.FileId,
		Removed: ch.Removed,
		Time:    parseTime(ch.Time),
	}
	if ch.File != nil {
		change.File = convertToFileInfo(ch.File)
	}
	return change
}

// convertToChannel converts a Drive API Channel to our Channel type
func convertToChannel(ch *drive.Channel) *Channel {
	channel := &Channel{
		ID:         ch.Id,
		ResourceID: ch.ResourceId,
	}
	if ch.Expiration > 0 {
		channel.Expiration = time.UnixMilli(ch.Expiration)
	}
	return channel
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
