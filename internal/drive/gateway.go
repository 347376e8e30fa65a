package drive

import (
	"context"
	"fmt"
	"io"
	"strings"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

// Field sets requested on file responses. Asking for a fixed set keeps
// responses small and the FileInfo conversion total.
const (
	fileFields = "id, name, mimeType, size, createdTime, modifiedTime, " +
		"webViewLink, webContentLink, parents, owners, properties, starred, shared, trashed"
	fileListFields = "nextPageToken, files(" + fileFields + ")"
)

// Gateway is the remote Drive capability the resolver and batch
// workers are written against. Implementations must return errors that
// IsTransient can classify, which is the only contract the retry layer
// needs from the transport. The production implementation wraps
// *drive.Service; tests substitute fakes.
type Gateway interface {
	// CreateFile creates a file or folder under parentID. content may
	// be nil for folders and empty files.
	CreateFile(ctx context.Context, parentID, name, mimeType string, content io.Reader, props map[string]string) (*FileInfo, error)

	// GetMetadata fetches metadata for a file ID.
	GetMetadata(ctx context.Context, fileID string) (*FileInfo, error)

	// ListChildren lists non-trashed children of parentID. name and
	// mimeType narrow the listing when non-empty.
	ListChildren(ctx context.Context, parentID, name, mimeType string) ([]*FileInfo, error)

	// DeleteFile permanently deletes a file ID.
	DeleteFile(ctx context.Context, fileID string) error

	// UpdateMetadata applies a partial metadata update.
	UpdateMetadata(ctx context.Context, fileID string, patch *MetadataPatch) (*FileInfo, error)
}

// apiGateway implements Gateway over the Drive v3 service.
type apiGateway struct {
	service *drive.Service
}

var _ Gateway = (*apiGateway)(nil)

func newAPIGateway(service *drive.Service) *apiGateway {
	return &apiGateway{service: service}
}

func (g *apiGateway) CreateFile(ctx context.Context, parentID, name, mimeType string, content io.Reader, props map[string]string) (*FileInfo, error) {
	file := &drive.File{
		Name:       name,
		MimeType:   mimeType,
		Properties: props,
	}
	if parentID != "" {
		file.Parents = []string{parentID}
	}

	call := g.service.Files.Create(file).
		Context(ctx).
		SupportsAllDrives(true).
		Fields(fileFields)
	if content != nil {
		call = call.Media(content, googleapi.ContentType(mimeType))
	}

	created, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create %q in %s: %w", name, parentID, err)
	}
	return convertToFileInfo(created), nil
}

func (g *apiGateway) GetMetadata(ctx context.Context, fileID string) (*FileInfo, error) {
	file, err := g.service.Files.Get(fileID).
		Context(ctx).
		SupportsAllDrives(true).
		Fields(fileFields).
		Do()
	if err != nil {
		if isAPINotFound(err) {
			return nil, fmt.Errorf("file %s: %w", fileID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get file %s: %w", fileID, err)
	}
	return convertToFileInfo(file), nil
}

func (g *apiGateway) ListChildren(ctx context.Context, parentID, name, mimeType string) ([]*FileInfo, error) {
	terms := []string{
		fmt.Sprintf("'%s' in parents", escapeQuery(parentID)),
		"trashed = false",
	}
	if name != "" {
		terms = append(terms, fmt.Sprintf("name = '%s'", escapeQuery(name)))
	}
	if mimeType != "" {
		terms = append(terms, fmt.Sprintf("mimeType = '%s'", escapeQuery(mimeType)))
	}

	var children []*FileInfo
	err := g.service.Files.List().
		Context(ctx).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Q(strings.Join(terms, " and ")).
		Fields(googleapi.Field(fileListFields)).
		Pages(ctx, func(list *drive.FileList) error {
			for _, f := range list.Files {
				children = append(children, convertToFileInfo(f))
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list children of %s: %w", parentID, err)
	}
	return children, nil
}

func (g *apiGateway) DeleteFile(ctx context.Context, fileID string) error {
	err := g.service.Files.Delete(fileID).
		Context(ctx).
		SupportsAllDrives(true).
		Do()
	if err != nil {
		if isAPINotFound(err) {
			return fmt.Errorf("file %s: %w", fileID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete file %s: %w", fileID, err)
	}
	return nil
}

func (g *apiGateway) UpdateMetadata(ctx context.Context, fileID string, patch *MetadataPatch) (*FileInfo, error) {
	update := &drive.File{}
	if patch != nil {
		if patch.Name != nil {
			update.Name = *patch.Name
		}
		if patch.Description != nil {
			update.Description = *patch.Description
			if update.Description == "" {
				update.ForceSendFields = append(update.ForceSendFields, "Description")
			}
		}
		if patch.MimeType != nil {
			update.MimeType = *patch.MimeType
		}
		if patch.Starred != nil {
			update.Starred = *patch.Starred
			if !update.Starred {
				update.ForceSendFields = append(update.ForceSendFields, "Starred")
			}
		}
		if len(patch.Properties) > 0 {
			update.Properties = make(map[string]string, len(patch.Properties))
			for k, v := range patch.Properties {
				update.Properties[k] = v
			}
			update.ForceSendFields = append(update.ForceSendFields, "Properties")
		}
	}

	updated, err := g.service.Files.Update(fileID, update).
		Context(ctx).
		SupportsAllDrives(true).
		Fields(fileFields).
		Do()
	if err != nil {
		if isAPINotFound(err) {
			return nil, fmt.Errorf("file %s: %w", fileID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update file %s: %w", fileID, err)
	}
	return convertToFileInfo(updated), nil
}

// escapeQuery escapes a value for embedding in a Drive query string.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", `\'`)
	return s
}
