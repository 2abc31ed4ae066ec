package ops

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hpungsan/nook/internal/config"
	"github.com/hpungsan/nook/internal/errors"
	"github.com/hpungsan/nook/internal/layout"
	"github.com/hpungsan/nook/internal/manager"
	"github.com/hpungsan/nook/internal/workspace"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Deps is what every operation runs against. Each operation loads the
// collection from Store, runs one manager call, and saves on success.
type Deps struct {
	Store  manager.Persistence
	Host   layout.Provider
	Config *config.Config
	Logger *zap.Logger

	// Optional overrides, used by tests.
	Wait  func(time.Duration)
	Now   func() time.Time
	NewID func() string
}

func (d *Deps) key() string {
	if d.Config != nil && strings.TrimSpace(d.Config.StorageKey) != "" {
		return d.Config.StorageKey
	}
	return config.DefaultStorageKey
}

func (d *Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// load builds a manager over the stored collection.
func (d *Deps) load(ctx context.Context) (*manager.Manager, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("load")
	}
	m := manager.New(manager.Options{
		Provider:    d.Host,
		SettleDelay: d.Config.SettleDelay(),
		Wait:        d.Wait,
		Now:         d.Now,
		NewID:       d.NewID,
		Logger:      d.logger(),
	})

	c, _, err := d.Store.Load(ctx, d.key())
	if err != nil {
		return nil, storeError(err)
	}
	m.SetData(c)
	return m, nil
}

// commit saves the manager's collection.
func (d *Deps) commit(ctx context.Context, m *manager.Manager) error {
	if err := d.Store.Save(context.WithoutCancel(ctx), d.key(), m.GetData()); err != nil {
		return storeError(err)
	}
	return nil
}

func storeError(err error) error {
	if _, ok := errors.As(err); ok {
		return err
	}
	return errors.NewInternal(err)
}

// resolve finds a workspace by exact id, then by normalized name.
// A name shared by several workspaces is ambiguous.
func resolve(m *manager.Manager, ref string) (*workspace.Workspace, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.NewInvalidRequest("workspace id or name is required")
	}
	if w := m.GetWorkspace(ref); w != nil {
		return w, nil
	}

	norm := workspace.NormalizeName(ref)
	var matches []workspace.Workspace
	for _, w := range m.GetWorkspaces() {
		if workspace.NormalizeName(w.Name) == norm {
			matches = append(matches, w)
		}
	}
	switch len(matches) {
	case 0:
		return nil, errors.NewNotFound(ref)
	case 1:
		return &matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, w := range matches {
			ids[i] = w.ID
		}
		return nil, errors.NewAmbiguousName(ref, ids)
	}
}

// Summary is a workspace without its tabs.
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TabCount    int    `json:"tab_count"`
	IsCurrent   bool   `json:"is_current"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

func summarize(w workspace.Workspace, currentID string) Summary {
	return Summary{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		TabCount:    len(w.Tabs),
		IsCurrent:   w.ID == currentID,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

// WorkspaceOutput is a full workspace plus whether it is current.
type WorkspaceOutput struct {
	Workspace workspace.Workspace `json:"workspace"`
	IsCurrent bool                `json:"is_current"`
}

func page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return limit, max(offset, 0)
}
