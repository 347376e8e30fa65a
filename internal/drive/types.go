package drive

import "time"

// FolderMimeType is the MIME type for Google Drive folders
const FolderMimeType = "application/vnd.google-apps.folder"

// FileInfo represents metadata about a file or folder in Google Drive
type FileInfo struct {
	// ID is the unique identifier for the file
	ID string `json:"id"`

	// Name is the name of the file
	Name string `json:"name"`

	// MimeType is the MIME type of the file
	MimeType string `json:"mimeType"`

	// Size is the size of the file in bytes (not populated for folders)
	Size int64 `json:"size,omitempty"`

	// CreatedTime is when the file was created
	CreatedTime time.Time `json:"createdTime"`

	// ModifiedTime is when the file was last modified
	ModifiedTime time.Time `json:"modifiedTime"`

	// WebViewLink is a link for opening the file in a relevant Google editor or viewer
	WebViewLink string `json:"webViewLink,omitempty"`

	// WebContentLink is a link for downloading the file content (not available for folders)
	WebContentLink string `json:"webContentLink,omitempty"`

	// Parents are the IDs of the parent folders
	Parents []string `json:"parents,omitempty"`

	// Owners are the owners of the file
	Owners []User `json:"owners,omitempty"`

	// Properties are custom key-value pairs attached to the file
	Properties map[string]string `json:"properties,omitempty"`

	// Shared indicates whether the file is shared
	Shared bool `json:"shared"`

	// Starred indicates whether the user has starred the file
	Starred bool `json:"starred"`

	// Trashed indicates whether the file is in the trash
	Trashed bool `json:"trashed"`
}

// IsFolder reports whether the file is a Drive folder.
func (f *FileInfo) IsFolder() bool {
	return f.MimeType == FolderMimeType
}

// User represents a Google Drive user (owner, permission holder, etc.)
type User struct {
	// DisplayName is the display name of the user
	DisplayName string `json:"displayName"`

	// EmailAddress is the email address of the user
	EmailAddress string `json:"emailAddress"`

	// PhotoLink is a link to the user's profile photo
	PhotoLink string `json:"photoLink,omitempty"`
}

// Permission represents access permissions for a file
type Permission struct {
	// ID is the unique identifier for the permission
	ID string `json:"id"`

	// Type is the type of grantee (user, group, domain, anyone)
	Type string `json:"type"`

	// Role is the role granted by this permission (owner, organizer, fileOrganizer, writer, commenter, reader)
	Role string `json:"role"`

	// EmailAddress is the email address of the user or group (if type is user or group)
	EmailAddress string `json:"emailAddress,omitempty"`

	// Domain is the domain to which this permission refers (if type is domain)
	Domain string `json:"domain,omitempty"`

	// DisplayName is the display name of the user or group
	DisplayName string `json:"displayName,omitempty"`
}

// Revision represents a saved revision of a file
type Revision struct {
	// ID is the unique identifier for the revision
	ID string `json:"id"`

	// MimeType is the MIME type of the revision
	MimeType string `json:"mimeType"`

	// ModifiedTime is when the revision was last modified
	ModifiedTime time.Time `json:"modifiedTime"`

	// Size is the size of the revision in bytes
	Size int64 `json:"size,omitempty"`

	// KeepForever indicates whether the revision is pinned and exempt
	// from Drive's automatic revision pruning
	KeepForever bool `json:"keepForever"`

	// LastModifyingUser is the user who last modified the revision
	LastModifyingUser *User `json:"lastModifyingUser,omitempty"`
}

// Quota represents the storage quota and identity returned by the About endpoint
type Quota struct {
	// Limit is the total storage limit in bytes (0 means unlimited)
	Limit int64 `json:"limit"`

	// Usage is the total storage used in bytes across all services
	Usage int64 `json:"usage"`

	// UsageInDrive is the storage used by Drive content in bytes
	UsageInDrive int64 `json:"usageInDrive"`

	// UsageInTrash is the storage used by trashed content in bytes
	UsageInTrash int64 `json:"usageInTrash"`

	// User is the authenticated user
	User User `json:"user"`
}

// Channel represents an active notification channel delivering change
// events to a webhook URL
type Channel struct {
	// ID is the channel identifier chosen by this client
	ID string `json:"id"`

	// ResourceID is the identifier Drive assigned to the watched resource;
	// required together with ID to stop the channel
	ResourceID string `json:"resourceId"`

	// Expiration is when Drive stops delivering notifications on the channel
	Expiration time.Time `json:"expiration"`
}

// Change represents one entry from the changes feed
type Change struct {
	// FileID is the ID of the changed file
	FileID string `json:"fileId"`

	// Removed indicates the file was removed from the user's view
	// (deleted or access revoked); File is nil in that case
	Removed bool `json:"removed"`

	// Time is when the change occurred
	Time time.Time `json:"time"`

	// File is the current metadata of the changed file, if still visible
	File *FileInfo `json:"file,omitempty"`
}

// ChangeList is one page of the changes feed
type ChangeList struct {
	// Changes are the entries on this page
	Changes []*Change `json:"changes"`

	// NextPageToken fetches the following page; empty on the last page
	NextPageToken string `json:"nextPageToken,omitempty"`

	// NewStartPageToken is the token to use for the next polling cycle,
	// set only once the end of the current feed has been reached
	NewStartPageToken string `json:"newStartPageToken,omitempty"`
}

// ListOptions contains options for listing files
type ListOptions struct {
	// Query is a query for filtering the file results using Google Drive's query language
	// See https://developers.google.com/drive/api/guides/search-files
	// Examples:
	//   "name contains 'report'"
	//   "mimeType='application/pdf'"
	//   "'me' in owners"
	Query string

	// MaxResults is the maximum number of files to return (max: 1000)
	MaxResults int

	// OrderBy specifies the sort order of the result set
	// Examples: "folder,modifiedTime desc,name"
	OrderBy string

	// PageToken is a token for retrieving the next page of results
	PageToken string

	// IncludeTrashed includes trashed files in results
	IncludeTrashed bool

	// Spaces is a comma-separated list of spaces to query (drive, appDataFolder, photos)
	Spaces string
}

// UploadOptions contains options for uploading a file
type UploadOptions struct {
	// ParentFolders are the IDs of parent folders where the file should be placed
	ParentFolders []string

	// Description is a short description of the file
	Description string

	// MimeType is the MIME type of the file (e.g., "application/pdf", "image/png")
	// If not specified, the content is sniffed to detect it
	MimeType string

	// Properties are custom key-value pairs to attach to the file
	Properties map[string]string

	// ModifiedTime allows setting a custom modification time
	ModifiedTime *time.Time
}

// MoveOptions contains options for moving or renaming a file
type MoveOptions struct {
	// NewName is the new name for the file (leave empty to keep current name)
	NewName string

	// AddParents are folder IDs to add as parents
	AddParents []string

	// RemoveParents are folder IDs to remove as parents
	RemoveParents []string
}

// MetadataPatch describes a partial metadata update. Only recognized
// fields can be patched; arbitrary passthrough keys are not accepted.
// Nil pointer fields are left unchanged.
type MetadataPatch struct {
	// Name renames the file
	Name *string

	// Description replaces the file description
	Description *string

	// MimeType changes the declared MIME type
	MimeType *string

	// Starred stars or unstars the file
	Starred *bool

	// Properties sets custom properties; a key with an empty value
	// deletes that property
	Properties map[string]string
}

// IsZero reports whether the patch would change nothing.
func (p *MetadataPatch) IsZero() bool {
	return p == nil ||
		(p.Name == nil && p.Description == nil && p.MimeType == nil &&
			p.Starred == nil && len(p.Properties) == 0)
}

// ShareOptions contains options for sharing a file
type ShareOptions struct {
	// Type is the type of grantee: "user", "group", "domain", or "anyone"
	Type string

	// Role is the role to grant: "owner", "organizer", "fileOrganizer", "writer", "commenter", or "reader"
	Role string

	// EmailAddress is the email address (required if Type is "user" or "group")
	EmailAddress string

	// Domain is the domain name (required if Type is "domain")
	Domain string

	// SendNotificationEmail indicates whether to send a notification email
	SendNotificationEmail bool

	// EmailMessage is a custom message to include in the notification email
	EmailMessage string
}

// WatchOptions contains options for starting a notification channel
type WatchOptions struct {
	// ChannelID identifies the channel; a random UUID is generated when empty
	ChannelID string

	// Token is an opaque value echoed back in the X-Goog-Channel-Token
	// header of every notification, used to validate deliveries
	Token string

	// TTL limits the channel lifetime; Drive applies its own maximum
	TTL time.Duration
}

// LabelModification describes a change to a single label on a file
type LabelModification struct {
	// LabelID is the ID of the label to modify
	LabelID string

	// Remove detaches the label entirely; Fields is ignored when set
	Remove bool

	// Fields maps label field IDs to their new text values
	Fields map[string]string
}
