// Package layout reads, tears down and rebuilds a host's live tab layout.
//
// The host is reached only through the small interfaces below. Every
// capability is optional: a host that cannot provide a layout, remove tabs,
// or open tabs degrades to empty captures and no-op teardowns and replays.
package layout

import (
	"context"
	"errors"

	"github.com/hpungsan/nook/internal/workspace"
)

var (
	// ErrUnavailable is returned by a Provider whose layout API is not ready.
	ErrUnavailable = errors.New("layout: unavailable")

	// ErrUnsupported is returned by an opener that cannot handle a request.
	ErrUnsupported = errors.New("layout: unsupported")
)

// Node is any element of the live layout tree.
type Node interface {
	Children() []Node
}

// Tab is a node that represents one open tab.
type Tab interface {
	Node
	Handle() Handle
}

// TabGroup marks container nodes whose tab descendants are real tabs.
type TabGroup interface {
	Node
	TabGroup()
}

// TabRemover is implemented by the node that can close tabs by id.
type TabRemover interface {
	RemoveTab(ctx context.Context, id string) error
}

// Provider hands out the current layout tree.
type Provider interface {
	Layout(ctx context.Context) (Node, error)
}

// OpenRequest asks a host to open one tab.
type OpenRequest struct {
	ID      string
	Kind    workspace.Kind
	Payload workspace.Payload
	Title   string
	Icon    string
}

// Opener opens a tab from its kind and payload.
type Opener interface {
	Open(ctx context.Context, req OpenRequest) (string, error)
}

// URLOpener opens a tab from a reference URL.
type URLOpener interface {
	OpenURL(ctx context.Context, url string) (string, error)
}

// EditorSession is the editor state a host may attach to a document tab.
type EditorSession struct {
	RootID  string `json:"rootId,omitempty"`
	BlockID string `json:"blockId,omitempty"`
}

// Handle is everything a host exposes about one tab. Hosts fill in
// whichever fields they know; the classifier tolerates any subset.
type Handle struct {
	ID     string
	Title  string
	Icon   string
	Type   string
	URL    string
	Data   map[string]any
	Attrs  map[string]string
	Editor *EditorSession
	DOM    map[string]string
}
