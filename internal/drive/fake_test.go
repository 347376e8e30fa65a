package drive

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// fakeGateway is an in-memory Gateway used by the resolver, batch and
// client tests. It keeps a flat ID/parent graph like Drive does and
// counts calls so tests can assert on remote traffic.
type fakeGateway struct {
	mu     sync.Mutex
	files  map[string]*FileInfo
	nextID int

	listCalls   int
	createCalls int
	deleteCalls int

	// optional failure hooks
	listErr   func(parentID, name string) error
	createErr func(parentID, name string) error
	deleteErr func(fileID string) error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{files: make(map[string]*FileInfo)}
}

// addFolder seeds a folder and returns its ID.
func (g *fakeGateway) addFolder(parentID, name string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.add(parentID, name, FolderMimeType)
}

// addFile seeds a regular file and returns its ID.
func (g *fakeGateway) addFile(parentID, name, mimeType string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.add(parentID, name, mimeType)
}

func (g *fakeGateway) add(parentID, name, mimeType string) string {
	g.nextID++
	id := fmt.Sprintf("id-%d", g.nextID)
	g.files[id] = &FileInfo{
		ID:       id,
		Name:     name,
		MimeType: mimeType,
		Parents:  []string{parentID},
	}
	return id
}

func (g *fakeGateway) counts() (lists, creates, deletes int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.listCalls, g.createCalls, g.deleteCalls
}

func (g *fakeGateway) CreateFile(ctx context.Context, parentID, name, mimeType string, content io.Reader, props map[string]string) (*FileInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createCalls++
	if g.createErr != nil {
		if err := g.createErr(parentID, name); err != nil {
			return nil, err
		}
	}
	id := g.add(parentID, name, mimeType)
	info := *g.files[id]
	info.Properties = props
	return &info, nil
}

func (g *fakeGateway) GetMetadata(ctx context.Context, fileID string) (*FileInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	f, ok := g.files[fileID]
	if !ok {
		return nil, fmt.Errorf("file %s: %w", fileID, ErrNotFound)
	}
	info := *f
	return &info, nil
}

func (g *fakeGateway) ListChildren(ctx context.Context, parentID, name, mimeType string) ([]*FileInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listCalls++
	if g.listErr != nil {
		if err := g.listErr(parentID, name); err != nil {
			return nil, err
		}
	}

	var children []*FileInfo
	for _, f := range g.files {
		if len(f.Parents) == 0 || f.Parents[0] != parentID {
			continue
		}
		if name != "" && f.Name != name {
			continue
		}
		if mimeType != "" && f.MimeType != mimeType {
			continue
		}
		info := *f
		children = append(children, &info)
	}
	return children, nil
}

func (g *fakeGateway) DeleteFile(ctx context.Context, fileID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleteCalls++
	if g.deleteErr != nil {
		if err := g.deleteErr(fileID); err != nil {
			return err
		}
	}
	if _, ok := g.files[fileID]; !ok {
		return fmt.Errorf("file %s: %w", fileID, ErrNotFound)
	}
	delete(g.files, fileID)
	return nil
}

func (g *fakeGateway) UpdateMetadata(ctx context.Context, fileID string, patch *MetadataPatch) (*FileInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	f, ok := g.files[fileID]
	if !ok {
		return nil, fmt.Errorf("file %s: %w", fileID, ErrNotFound)
	}
	if patch != nil {
		if patch.Name != nil {
			f.Name = *patch.Name
		}
		if patch.MimeType != nil {
			f.MimeType = *patch.MimeType
		}
		if patch.Starred != nil {
			f.Starred = *patch.Starred
		}
	}
	info := *f
	return &info, nil
}

// noSleepRetryer returns a Retryer whose backoff waits are skipped, so
// retry paths run instantly in tests.
func noSleepRetryer(maxRetries int) *Retryer {
	r := NewRetryer()
	r.MaxRetries = maxRetries
	r.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return r
}
