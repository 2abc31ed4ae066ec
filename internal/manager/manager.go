// Package manager owns the workspace collection and runs the switch
// protocol against the live layout.
//
// A Manager is not safe for concurrent use; callers run one operation at a
// time.
package manager

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hpungsan/nook/internal/errors"
	"github.com/hpungsan/nook/internal/layout"
	"github.com/hpungsan/nook/internal/workspace"
)

// Persistence loads and saves the collection under a key.
// Load reports false when nothing is stored under key.
type Persistence interface {
	Load(ctx context.Context, key string) (*workspace.Collection, bool, error)
	Save(ctx context.Context, key string, c *workspace.Collection) error
}

// Options wires a Manager to its host and environment.
type Options struct {
	// Provider reads and tears down the live layout. When it also
	// implements layout.Opener or layout.URLOpener it is used for replay
	// unless Opener or URLOpener is set.
	Provider  layout.Provider
	Opener    layout.Opener
	URLOpener layout.URLOpener

	Classifier  layout.Classifier
	SettleDelay time.Duration
	Wait        func(time.Duration)

	Now    func() time.Time
	NewID  func() string
	Logger *zap.Logger
}

// Manager holds the collection and orchestrates capture, teardown and replay.
type Manager struct {
	data         *workspace.Collection
	introspector *layout.Introspector
	teardown     *layout.Teardown
	replayer     *layout.Replayer
	now          func() time.Time
	newID        func() string
	logger       *zap.Logger
}

// New returns a Manager with an empty collection.
func New(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = workspace.NewID
	}

	opener := opts.Opener
	if opener == nil {
		opener, _ = opts.Provider.(layout.Opener)
	}
	urlOpener := opts.URLOpener
	if urlOpener == nil {
		urlOpener, _ = opts.Provider.(layout.URLOpener)
	}

	return &Manager{
		data: workspace.NewCollection(),
		introspector: &layout.Introspector{
			Provider:   opts.Provider,
			Classifier: opts.Classifier,
			NewID:      newID,
			Logger:     logger,
		},
		teardown: &layout.Teardown{
			Provider:    opts.Provider,
			SettleDelay: opts.SettleDelay,
			Wait:        opts.Wait,
			Logger:      logger,
		},
		replayer: &layout.Replayer{
			Opener:    opener,
			URLOpener: urlOpener,
			Logger:    logger,
		},
		now:    now,
		newID:  newID,
		logger: logger,
	}
}

func (m *Manager) nowMillis() int64 {
	return m.now().UnixMilli()
}

// Create tears down the live layout and adds a new, empty workspace that
// becomes current. The open tabs are not captured.
func (m *Manager) Create(ctx context.Context, name, description string) (*workspace.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewInvalidRequest("name is required")
	}

	m.teardown.Run(ctx)

	now := m.nowMillis()
	w := workspace.Workspace{
		ID:          m.newID(),
		Name:        name,
		Description: description,
		Tabs:        []workspace.TabDescriptor{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.data.Workspaces = append(m.data.Workspaces, w)
	m.data.CurrentWorkspaceID = w.ID

	m.logger.Info("created workspace", zap.String("workspace_id", w.ID), zap.String("name", w.Name))
	out := w.Clone()
	return &out, nil
}

// Update applies the non-nil fields to the workspace with the given id.
func (m *Manager) Update(id string, name, description *string) (*workspace.Workspace, error) {
	w, _ := m.data.Find(id)
	if w == nil {
		return nil, errors.NewNotFound(id)
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, errors.NewInvalidRequest("name cannot be empty")
		}
		w.Name = trimmed
	}
	if description != nil {
		w.Description = *description
	}
	w.Touch(m.nowMillis())

	out := w.Clone()
	return &out, nil
}

// Delete removes the workspace with the given id and reports whether it
// existed. Deleting the current workspace leaves no workspace current.
func (m *Manager) Delete(id string) bool {
	_, idx := m.data.Find(id)
	if idx < 0 {
		return false
	}
	m.data.Workspaces = append(m.data.Workspaces[:idx], m.data.Workspaces[idx+1:]...)
	if m.data.CurrentWorkspaceID == id {
		m.data.CurrentWorkspaceID = ""
	}
	m.logger.Info("deleted workspace", zap.String("workspace_id", id))
	return true
}

// SwitchTo makes id the current workspace. The live tabs are first saved
// into the current workspace, then torn down, then the target's tabs are
// replayed. The pointer moves even when teardown or replay partly fails.
func (m *Manager) SwitchTo(ctx context.Context, id string) (*layout.ReplayReport, error) {
	target, _ := m.data.Find(id)
	if target == nil {
		return nil, errors.NewNotFound(id)
	}

	if current := m.data.Current(); current != nil {
		current.Tabs = m.introspector.Capture(ctx)
		current.Touch(m.nowMillis())
	}

	m.teardown.Run(ctx)
	m.data.CurrentWorkspaceID = id

	report := m.replayer.Replay(ctx, target.Clone().Tabs)

	m.logger.Info("switched workspace",
		zap.String("workspace_id", id),
		zap.Int("opened", report.Opened),
		zap.Int("skipped", len(report.Skipped)))
	return &report, nil
}

// SaveCurrent captures the live layout into the current workspace. It
// reports false when no workspace is current.
func (m *Manager) SaveCurrent(ctx context.Context) bool {
	current := m.data.Current()
	if current == nil {
		return false
	}
	current.Tabs = m.introspector.Capture(ctx)
	current.Touch(m.nowMillis())
	return true
}

// Capture returns the live tabs without storing them.
func (m *Manager) Capture(ctx context.Context) []workspace.TabDescriptor {
	return m.introspector.Capture(ctx)
}

// GetWorkspaces returns copies of all workspaces in insertion order.
func (m *Manager) GetWorkspaces() []workspace.Workspace {
	return m.data.Clone().Workspaces
}

// GetWorkspace returns a copy of the workspace with the given id, or nil.
func (m *Manager) GetWorkspace(id string) *workspace.Workspace {
	w, _ := m.data.Find(id)
	if w == nil {
		return nil
	}
	out := w.Clone()
	return &out
}

// GetCurrentWorkspace returns a copy of the current workspace, or nil.
func (m *Manager) GetCurrentWorkspace() *workspace.Workspace {
	return m.GetWorkspace(m.data.CurrentWorkspaceID)
}

// GetCurrentWorkspaceID returns the current workspace id, or "".
func (m *Manager) GetCurrentWorkspaceID() string {
	return m.data.CurrentWorkspaceID
}

// GetData returns a copy of the whole collection.
func (m *Manager) GetData() *workspace.Collection {
	return m.data.Clone()
}

// SetData replaces the collection with a normalized copy of c and reports
// whether c needed repair. A nil c yields an empty collection.
func (m *Manager) SetData(c *workspace.Collection) bool {
	if c == nil {
		m.data = workspace.NewCollection()
		return true
	}
	data := c.Clone()
	if c.Workspaces == nil {
		data.Workspaces = nil
	}
	repaired := data.Normalize()
	if repaired {
		m.logger.Warn("normalized workspace collection",
			zap.Int("workspaces", len(data.Workspaces)),
			zap.Bool("has_current", data.CurrentWorkspaceID != ""))
	}
	m.data = data
	return repaired
}
