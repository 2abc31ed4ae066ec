package layout

import (
	"path/filepath"
	"strings"

	"github.com/hpungsan/nook/internal/workspace"
)

// KindStrategy derives a tab kind from a handle, reporting whether it applied.
type KindStrategy func(h Handle) (workspace.Kind, bool)

// PayloadStrategy derives a tab payload from a handle, reporting whether it applied.
type PayloadStrategy func(h Handle) (workspace.Payload, bool)

// DefaultKindStrategies: explicit type tag, then URL pattern.
// When none applies the kind is custom.
var DefaultKindStrategies = []KindStrategy{
	KindFromType,
	KindFromURL,
}

// DefaultPayloadStrategies: explicit data, then the document reference from
// direct attributes, the editor session, or the DOM, then the raw URL.
var DefaultPayloadStrategies = []PayloadStrategy{
	PayloadFromData,
	PayloadFromAttrs,
	PayloadFromEditor,
	PayloadFromDOM,
	PayloadFromURL,
}

// typeAliases maps host-specific type tags onto kinds.
var typeAliases = map[string]workspace.Kind{
	"editor": workspace.KindDocument,
}

// KindFromType reads the explicit type tag.
func KindFromType(h Handle) (workspace.Kind, bool) {
	tag := strings.ToLower(strings.TrimSpace(h.Type))
	if tag == "" {
		return "", false
	}
	if k, ok := typeAliases[tag]; ok {
		return k, true
	}
	return workspace.ParseKind(tag)
}

// KindFromURL pattern-matches the handle's URL.
func KindFromURL(h Handle) (workspace.Kind, bool) {
	return KindOfURL(h.URL)
}

// PayloadFromData copies an explicit structured payload. An empty but
// present payload is kept as empty.
func PayloadFromData(h Handle) (workspace.Payload, bool) {
	if h.Data == nil {
		return nil, false
	}
	return workspace.Payload(h.Data).Clone(), true
}

// documentAttrs are checked in order on the handle's direct attributes.
var documentAttrs = []string{"rootId", "blockId", "id"}

// PayloadFromAttrs reads a document reference from direct attributes.
func PayloadFromAttrs(h Handle) (workspace.Payload, bool) {
	return firstRef(h.Attrs, documentAttrs)
}

// PayloadFromEditor reads a document reference from the editor session.
func PayloadFromEditor(h Handle) (workspace.Payload, bool) {
	if h.Editor == nil {
		return nil, false
	}
	for _, id := range []string{h.Editor.RootID, h.Editor.BlockID} {
		if id = strings.TrimSpace(id); id != "" {
			return workspace.Payload{workspace.PayloadID: id}, true
		}
	}
	return nil, false
}

// domAttrs are checked in order on the handle's DOM attributes.
var domAttrs = []string{"data-node-id", "data-id"}

// PayloadFromDOM reads a document reference from DOM attributes.
func PayloadFromDOM(h Handle) (workspace.Payload, bool) {
	return firstRef(h.DOM, domAttrs)
}

// PayloadFromURL parses the handle's URL, keeping the raw URL. A bare kind
// URL such as siyuan://graph carries no payload.
func PayloadFromURL(h Handle) (workspace.Payload, bool) {
	raw := strings.TrimSpace(h.URL)
	if raw == "" {
		return nil, false
	}
	if kind, payload, ok := ParseURL(raw); ok {
		if bare, _ := BuildURL(kind, nil); bare == raw {
			return nil, true
		}
		return payload, true
	}
	return workspace.Payload{workspace.PayloadURL: raw}, true
}

func firstRef(attrs map[string]string, keys []string) (workspace.Payload, bool) {
	for _, key := range keys {
		if id := strings.TrimSpace(attrs[key]); id != "" {
			return workspace.Payload{workspace.PayloadID: id}, true
		}
	}
	return nil, false
}

// Classifier turns tab handles into descriptors. The zero value uses the
// default strategy lists.
type Classifier struct {
	Kinds    []KindStrategy
	Payloads []PayloadStrategy
}

// Kind returns the first kind any strategy yields, or custom.
func (c Classifier) Kind(h Handle) workspace.Kind {
	strategies := c.Kinds
	if strategies == nil {
		strategies = DefaultKindStrategies
	}
	for _, s := range strategies {
		if k, ok := s(h); ok {
			return k
		}
	}
	return workspace.KindCustom
}

// Payload returns the first payload any strategy yields, or nil.
func (c Classifier) Payload(h Handle) workspace.Payload {
	strategies := c.Payloads
	if strategies == nil {
		strategies = DefaultPayloadStrategies
	}
	for _, s := range strategies {
		if p, ok := s(h); ok {
			return p
		}
	}
	return nil
}

// Classify builds a descriptor for h. The id is taken from the handle as is.
func (c Classifier) Classify(h Handle) workspace.TabDescriptor {
	kind := c.Kind(h)
	payload := c.Payload(h)
	return workspace.TabDescriptor{
		ID:      h.ID,
		Kind:    kind,
		Payload: payload,
		Title:   Title(h.Title, kind, payload),
		Icon:    h.Icon,
	}
}

// Title returns title when non-blank, else a placeholder derived from the
// kind and payload.
func Title(title string, kind workspace.Kind, payload workspace.Payload) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	switch kind {
	case workspace.KindSearch:
		if k := payload.String(workspace.PayloadKeyword); k != "" {
			return "Search: " + k
		}
	case workspace.KindFile, workspace.KindAsset:
		if p := payload.String(workspace.PayloadPath); p != "" {
			return filepath.Base(p)
		}
	}
	return workspace.PlaceholderTitle(kind)
}
