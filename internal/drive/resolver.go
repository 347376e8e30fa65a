package drive

import (
	"context"
	"strings"

	"github.com/puzpuzpuz/xsync/v4"
)

// RootAlias is Drive's alias for the root folder of My Drive.
const RootAlias = "root"

// Resolver translates slash-delimited paths into Drive file IDs by
// sequential parent-qualified name lookups. Resolution of one path is
// strictly sequential since every step depends on the previous step's
// ID, but distinct resolutions may run concurrently; the folder cache
// is safe for concurrent use.
//
// Drive has no create-if-absent primitive, so two concurrent
// get-or-create calls for the same missing path can both create a
// folder. The cache narrows that window but does not close it; callers
// that need uniqueness must serialize their own mkdir traffic.
type Resolver struct {
	gateway Gateway
	retry   *Retryer

	// cache maps rootID-qualified folder paths to IDs
	cache *xsync.Map[string, string]
}

// NewResolver returns a Resolver using gw through retry.
func NewResolver(gw Gateway, retry *Retryer) *Resolver {
	if retry == nil {
		retry = NewRetryer()
	}
	return &Resolver{
		gateway: gw,
		retry:   retry,
		cache:   xsync.NewMap[string, string](),
	}
}

// SplitPath splits a slash-delimited path into its non-empty segments.
// Leading, trailing and doubled slashes produce no segments.
func SplitPath(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// Resolve walks path starting from rootID and returns the ID of the
// final segment. Intermediate segments must be folders; the last may
// be a file. An empty path (or one made only of slashes) returns
// rootID without any remote call.
//
// With createMissing set, segments without a match are created as
// folders under the current parent. Without it, a missing segment
// yields a NotFoundError naming the segment and the prefix consumed so
// far. A segment matched by more than one child yields an
// AmbiguousPathError and stops resolution at that segment.
func (r *Resolver) Resolve(ctx context.Context, rootID, path string, createMissing bool) (string, error) {
	segments := SplitPath(path)
	if len(segments) == 0 {
		return rootID, nil
	}

	currentID := rootID
	for i, segment := range segments {
		key := r.cacheKey(rootID, segments[:i+1])
		if id, ok := r.cache.Load(key); ok {
			currentID = id
			continue
		}

		// Only the last segment may be a non-folder.
		wantMime := FolderMimeType
		if i == len(segments)-1 {
			wantMime = ""
		}

		children, err := Retry(ctx, r.retry, func() ([]*FileInfo, error) {
			return r.gateway.ListChildren(ctx, currentID, segment, wantMime)
		})
		if err != nil {
			return "", err
		}

		switch {
		case len(children) > 1:
			return "", &AmbiguousPathError{
				Segment:  segment,
				ParentID: currentID,
				Matches:  len(children),
			}

		case len(children) == 1:
			currentID = children[0].ID
			if children[0].IsFolder() {
				r.cache.Store(key, currentID)
			}

		case !createMissing:
			return "", &NotFoundError{
				Segment:  segment,
				Prefix:   strings.Join(segments[:i], "/"),
				ParentID: currentID,
			}

		default:
			parentID := currentID
			created, err := Retry(ctx, r.retry, func() (*FileInfo, error) {
				return r.gateway.CreateFile(ctx, parentID, segment, FolderMimeType, nil, nil)
			})
			if err != nil {
				return "", err
			}
			currentID = created.ID
			r.cache.Store(key, currentID)
		}
	}

	return currentID, nil
}

// Flush drops all cached path lookups, forcing the next resolution to
// hit the gateway again.
func (r *Resolver) Flush() {
	r.cache.Clear()
}

// Invalidate drops cached entries at and below path for rootID. Call
// it after deleting or moving a folder resolved through this Resolver.
func (r *Resolver) Invalidate(rootID, path string) {
	segments := SplitPath(path)
	if len(segments) == 0 {
		return
	}
	prefix := r.cacheKey(rootID, segments)
	r.cache.Range(func(key string, _ string) bool {
		if key == prefix || strings.HasPrefix(key, prefix+"/") {
			r.cache.Delete(key)
		}
		return true
	})
}

func (r *Resolver) cacheKey(rootID string, segments []string) string {
	return rootID + "\x00" + strings.Join(segments, "/")
}
