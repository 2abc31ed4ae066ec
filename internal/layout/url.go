package layout

import (
	"net/url"
	"path"
	"strings"

	"github.com/hpungsan/nook/internal/workspace"
)

// Scheme prefixes every reference URL built by BuildURL.
const Scheme = "siyuan://"

type urlPattern struct {
	kind  workspace.Kind
	match func(lower string) bool
}

// urlPatterns are tried in order; the first match decides the kind.
var urlPatterns = []urlPattern{
	{workspace.KindDocument, func(s string) bool {
		return strings.HasPrefix(s, Scheme+"blocks/") || strings.Contains(s, "/blocks/")
	}},
	{workspace.KindSearch, func(s string) bool {
		return strings.HasPrefix(s, Scheme+"search") || strings.Contains(s, "search?")
	}},
	{workspace.KindGraph, func(s string) bool {
		return strings.HasPrefix(s, Scheme+"graph") || strings.Contains(s, "/graph")
	}},
	{workspace.KindOutline, func(s string) bool {
		return strings.HasPrefix(s, Scheme+"outline") || strings.Contains(s, "/outline")
	}},
	{workspace.KindBacklink, func(s string) bool {
		return strings.HasPrefix(s, Scheme+"backlink") || strings.Contains(s, "/backlink")
	}},
	{workspace.KindFile, func(s string) bool {
		return strings.HasPrefix(s, Scheme+"file") || strings.HasPrefix(s, "file://")
	}},
	{workspace.KindAsset, func(s string) bool {
		return strings.HasPrefix(s, Scheme+"asset") || strings.Contains(s, "assets/")
	}},
}

// KindOfURL pattern-matches a reference URL against the known tab kinds.
func KindOfURL(raw string) (workspace.Kind, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}
	for _, p := range urlPatterns {
		if p.match(s) {
			return p.kind, true
		}
	}
	return "", false
}

// ParseURL classifies a reference URL and extracts whatever payload it
// carries. The raw URL is always kept under the "url" key.
func ParseURL(raw string) (workspace.Kind, workspace.Payload, bool) {
	raw = strings.TrimSpace(raw)
	kind, ok := KindOfURL(raw)
	if !ok {
		return "", nil, false
	}

	payload := workspace.Payload{workspace.PayloadURL: raw}
	u, err := url.Parse(raw)
	if err != nil {
		return kind, payload, true
	}

	switch kind {
	case workspace.KindDocument:
		if id := blockID(u); id != "" {
			payload[workspace.PayloadID] = id
		}
	case workspace.KindSearch:
		if k := u.Query().Get("k"); k != "" {
			payload[workspace.PayloadKeyword] = k
		}
	case workspace.KindGraph, workspace.KindOutline, workspace.KindBacklink:
		if id := lastSegment(u); id != "" && id != string(kind) {
			payload[workspace.PayloadID] = id
		}
	case workspace.KindFile, workspace.KindAsset:
		if p := u.Query().Get("path"); p != "" {
			payload[workspace.PayloadPath] = p
		} else if u.Scheme == "file" && u.Path != "" {
			payload[workspace.PayloadPath] = u.Path
		}
	}
	return kind, payload, true
}

// BuildURL reconstructs a reference URL for a descriptor. A stored raw URL
// wins; otherwise the URL is derived from the kind and payload.
func BuildURL(kind workspace.Kind, payload workspace.Payload) (string, bool) {
	if raw := payload.String(workspace.PayloadURL); raw != "" {
		return raw, true
	}

	switch kind {
	case workspace.KindDocument:
		if id := DocumentRef(payload); id != "" {
			return Scheme + "blocks/" + url.PathEscape(id), true
		}
	case workspace.KindSearch:
		if k := payload.String(workspace.PayloadKeyword); k != "" {
			return Scheme + "search?k=" + url.QueryEscape(k), true
		}
	case workspace.KindGraph, workspace.KindOutline, workspace.KindBacklink:
		if id := payload.String(workspace.PayloadID); id != "" {
			return Scheme + string(kind) + "/" + url.PathEscape(id), true
		}
		return Scheme + string(kind), true
	case workspace.KindFile, workspace.KindAsset:
		if p := payload.String(workspace.PayloadPath); p != "" {
			return Scheme + string(kind) + "?path=" + url.QueryEscape(p), true
		}
	}
	return "", false
}

// DocumentRef returns the document reference a payload carries: the "id"
// key, or the block id of a block URL stored under "url".
func DocumentRef(payload workspace.Payload) string {
	if id := payload.String(workspace.PayloadID); id != "" {
		return id
	}
	raw := payload.String(workspace.PayloadURL)
	if raw == "" {
		return ""
	}
	if kind, ok := KindOfURL(raw); !ok || kind != workspace.KindDocument {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return blockID(u)
}

func blockID(u *url.URL) string {
	// siyuan://blocks/<id> parses with Host "blocks" and Path "/<id>".
	if u.Host == "blocks" {
		return strings.Trim(u.Path, "/")
	}
	p := u.Path
	if i := strings.Index(p, "/blocks/"); i >= 0 {
		return strings.Trim(p[i+len("/blocks/"):], "/")
	}
	return ""
}

func lastSegment(u *url.URL) string {
	p := strings.Trim(u.Path, "/")
	if p == "" {
		return u.Host
	}
	return path.Base(p)
}
