package drive

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	drive "google.golang.org/api/drive/v3"
)

func TestConvertToFileInfo(t *testing.T) {
	createdTime := "2024-01-01T10:00:00Z"
	modifiedTime := "2024-01-02T15:30:00Z"

	driveFile := &drive.File{
		Id:             "file123",
		Name:           "report.pdf",
		MimeType:       "application/pdf",
		Size:           1024,
		CreatedTime:    createdTime,
		ModifiedTime:   modifiedTime,
		WebViewLink:    "https://drive.google.com/file/d/file123/view",
		WebContentLink: "https://drive.google.com/uc?id=file123",
		Parents:        []string{"parent1", "parent2"},
		Properties:     map[string]string{"team": "research"},
		Shared:         true,
		Starred:        true,
		Owners: []*drive.User{
			{
				DisplayName:  "Test User",
				EmailAddress: "test@example.com",
				PhotoLink:    "https://example.com/photo.jpg",
			},
		},
	}

	fileInfo := convertToFileInfo(driveFile)

	assert.Equal(t, "file123", fileInfo.ID)
	assert.Equal(t, "report.pdf", fileInfo.Name)
	assert.Equal(t, "application/pdf", fileInfo.MimeType)
	assert.Equal(t, int64(1024), fileInfo.Size)
	assert.Equal(t, []string{"parent1", "parent2"}, fileInfo.Parents)
	assert.Equal(t, map[string]string{"team": "research"}, fileInfo.Properties)
	assert.True(t, fileInfo.Shared)
	assert.True(t, fileInfo.Starred)
	assert.False(t, fileInfo.Trashed)
	assert.False(t, fileInfo.IsFolder())

	expectedCreated, _ := time.Parse(time.RFC3339, createdTime)
	assert.True(t, fileInfo.CreatedTime.Equal(expectedCreated))
	expectedModified, _ := time.Parse(time.RFC3339, modifiedTime)
	assert.True(t, fileInfo.ModifiedTime.Equal(expectedModified))

	require.Len(t, fileInfo.Owners, 1)
	assert.Equal(t, "Test User", fileInfo.Owners[0].DisplayName)
	assert.Equal(t, "test@example.com", fileInfo.Owners[0].EmailAddress)
}

func TestConvertToFileInfoFolder(t *testing.T) {
	fileInfo := convertToFileInfo(&drive.File{
		Id:       "folder1",
		Name:     "Projects",
		MimeType: FolderMimeType,
	})
	assert.True(t, fileInfo.IsFolder())
	assert.True(t, fileInfo.CreatedTime.IsZero(), "missing timestamps stay zero")
}

func TestConvertToPermission(t *testing.T) {
	perm := convertToPermission(&drive.Permission{
		Id:           "perm1",
		Type:         "user",
		Role:         "reader",
		EmailAddress: "reader@example.com",
		DisplayName:  "Reader",
	})
	assert.Equal(t, "perm1", perm.ID)
	assert.Equal(t, "user", perm.Type)
	assert.Equal(t, "reader", perm.Role)
	assert.Equal(t, "reader@example.com", perm.EmailAddress)
}

func TestConvertToRevision(t *testing.T) {
	rev := convertToRevision(&drive.Revision{
		Id:           "rev7",
		MimeType:     "text/plain",
		ModifiedTime: "2024-03-04T05:06:07Z",
		Size:         42,
		KeepForever:  true,
		LastModifyingUser: &drive.User{
			DisplayName:  "Editor",
			EmailAddress: "editor@example.com",
		},
	})
	assert.Equal(t, "rev7", rev.ID)
	assert.Equal(t, int64(42), rev.Size)
	assert.True(t, rev.KeepForever)
	require.NotNil(t, rev.LastModifyingUser)
	assert.Equal(t, "editor@example.com", rev.LastModifyingUser.EmailAddress)
	assert.Equal(t, 2024, rev.ModifiedTime.Year())
}

func TestConvertToChange(t *testing.T) {
	ch := convertToChange(&drive.Change{
		FileId:  "f1",
		Removed: false,
		Time:    "2024-06-01T00:00:00Z",
		File:    &drive.File{Id: "f1", Name: "doc"},
	})
	assert.Equal(t, "f1", ch.FileID)
	require.NotNil(t, ch.File)
	assert.Equal(t, "doc", ch.File.Name)

	removed := convertToChange(&drive.Change{FileId: "f2", Removed: true})
	assert.True(t, removed.Removed)
	assert.Nil(t, removed.File)
}

func TestConvertToChannel(t *testing.T) {
	expiry := time.Now().Add(time.Hour).UnixMilli()
	ch := convertToChannel(&drive.Channel{
		Id:         "chan1",
		ResourceId: "res1",
		Expiration: expiry,
	})
	assert.Equal(t, "chan1", ch.ID)
	assert.Equal(t, "res1", ch.ResourceID)
	assert.Equal(t, time.UnixMilli(expiry), ch.Expiration)

	noExpiry := convertToChannel(&drive.Channel{Id: "chan2"})
	assert.True(t, noExpiry.Expiration.IsZero())
}

func TestNewAPIChannel(t *testing.T) {
	ch := newAPIChannel("https://example.com/hook", nil)
	assert.Equal(t, "web_hook", ch.Type)
	assert.Equal(t, "https://example.com/hook", ch.Address)
	assert.NotEmpty(t, ch.Id, "a channel ID is generated when none is given")

	opts := &WatchOptions{ChannelID: "my-channel", Token: "secret", TTL: time.Hour}
	ch = newAPIChannel("https://example.com/hook", opts)
	assert.Equal(t, "my-channel", ch.Id)
	assert.Equal(t, "secret", ch.Token)
	assert.Greater(t, ch.Expiration, time.Now().UnixMilli())
}

func TestSniffMimeType(t *testing.T) {
	content := "hello, this is plain text content for sniffing"
	mime, rest, err := sniffMimeType(strings.NewReader(content))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(mime, "text/plain"), "got %q", mime)

	// The sniffed bytes are replayed: nothing is lost.
	all, err := io.ReadAll(rest)
	require.NoError(t, err)
	assert.Equal(t, content, string(all))
}

func TestMetadataPatchIsZero(t *testing.T) {
	assert.True(t, (*MetadataPatch)(nil).IsZero())
	assert.True(t, (&MetadataPatch{}).IsZero())

	name := "new"
	assert.False(t, (&MetadataPatch{Name: &name}).IsZero())
	assert.False(t, (&MetadataPatch{Properties: map[string]string{"k": "v"}}).IsZero())
}

func TestEscapeQuery(t *testing.T) {
	assert.Equal(t, `it\'s`, escapeQuery("it's"))
	assert.Equal(t, `a\\b`, escapeQuery(`a\b`))
	assert.Equal(t, "plain", escapeQuery("plain"))
}

func TestParseTime(t *testing.T) {
	assert.True(t, parseTime("").IsZero())
	assert.True(t, parseTime("not a time").IsZero())
	assert.Equal(t, 2024, parseTime("2024-01-01T00:00:00Z").Year())
}
