// Package host exposes a layout document on disk as a live layout.
package host

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/hpungsan/nook/internal/layout"
)

// File is a host backed by a JSON layout document. Every call rereads the
// document, and every mutation rewrites it atomically. A missing document
// is an unavailable layout until the first tab is opened.
type File struct {
	path   string
	newID  func() string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewFile returns a host for the document at path. newID supplies ids for
// opened tabs that carry none.
func NewFile(path string, newID func() string, logger *zap.Logger) *File {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &File{path: path, newID: newID, logger: logger}
}

// Path returns the layout document path.
func (f *File) Path() string {
	return f.path
}

// Layout returns a snapshot of the document. Tab removal through the
// returned tree goes back to the file.
func (f *File) Layout(ctx context.Context) (layout.Node, error) {
	f.mu.Lock()
	root, err := f.load()
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return layout.NewTree(root, f.newID).View(f)
}

// Open appends a tab to the document.
func (f *File) Open(ctx context.Context, req layout.OpenRequest) (string, error) {
	return f.mutate(func(t *layout.Tree) (string, error) {
		return t.Open(ctx, req)
	})
}

// OpenURL appends a tab for a reference URL to the document.
func (f *File) OpenURL(ctx context.Context, url string) (string, error) {
	return f.mutate(func(t *layout.Tree) (string, error) {
		return t.OpenURL(ctx, url)
	})
}

// RemoveTab deletes a tab from the document.
func (f *File) RemoveTab(ctx context.Context, id string) error {
	_, err := f.mutate(func(t *layout.Tree) (string, error) {
		return id, t.RemoveTab(ctx, id)
	})
	return err
}

// Root returns the current document, or nil when there is none.
func (f *File) Root() (*layout.Element, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

func (f *File) mutate(fn func(t *layout.Tree) (string, error)) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	root, err := f.load()
	if err != nil {
		return "", err
	}
	tree := layout.NewTree(root, f.newID)
	id, err := fn(tree)
	if err != nil {
		return "", err
	}
	if err := f.save(tree.Root()); err != nil {
		return "", err
	}
	return id, nil
}

func (f *File) load() (*layout.Element, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.logger.Debug("layout document missing", zap.String("path", f.path))
			return nil, nil
		}
		return nil, fmt.Errorf("read layout document: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}

	var root layout.Element
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode layout document %s: %w", f.path, err)
	}
	if root.Instance == "" {
		root.Instance = layout.InstanceLayout
	}
	dropNil(&root)
	return &root, nil
}

// dropNil removes null entries a hand-edited document may carry in
// children arrays.
func dropNil(e *layout.Element) {
	kept := e.Children[:0]
	for _, c := range e.Children {
		if c == nil {
			continue
		}
		dropNil(c)
		kept = append(kept, c)
	}
	e.Children = kept
}

// save writes to a temp file and renames it over the document so readers
// never see a partial write.
func (f *File) save(root *layout.Element) error {
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout document: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("create layout directory: %w", err)
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return fmt.Errorf("generate temp file name: %w", err)
	}
	tempPath := f.path + "." + hex.EncodeToString(randBytes) + ".tmp"

	if err := os.WriteFile(tempPath, append(data, '\n'), 0600); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("write layout document: %w", err)
	}
	if err := os.Rename(tempPath, f.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("replace layout document: %w", err)
	}
	return nil
}
