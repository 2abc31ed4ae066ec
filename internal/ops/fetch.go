package ops

import (
	"context"

	"github.com/hpungsan/nook/internal/workspace"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	Ref string // id or name, required
}

// Fetch returns one workspace by id or name.
func Fetch(ctx context.Context, d *Deps, input FetchInput) (*WorkspaceOutput, error) {
	m, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	w, err := resolve(m, input.Ref)
	if err != nil {
		return nil, err
	}
	return &WorkspaceOutput{Workspace: *w, IsCurrent: w.ID == m.GetCurrentWorkspaceID()}, nil
}

// CurrentOutput contains the result of the Current operation.
// Workspace is nil when no workspace is current.
type CurrentOutput struct {
	Workspace *workspace.Workspace `json:"workspace"`
}

// Current returns the current workspace, if any.
func Current(ctx context.Context, d *Deps) (*CurrentOutput, error) {
	m, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	return &CurrentOutput{Workspace: m.GetCurrentWorkspace()}, nil
}
