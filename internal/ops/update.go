package ops

import (
	"context"

	"github.com/hpungsan/nook/internal/errors"
)

// UpdateInput contains parameters for the Update operation.
// Nil fields are left untouched.
type UpdateInput struct {
	Ref         string // id or name, required
	Name        *string
	Description *string
}

// Update renames or redescribes a workspace.
func Update(ctx context.Context, d *Deps, input UpdateInput) (*WorkspaceOutput, error) {
	if input.Name == nil && input.Description == nil {
		return nil, errors.NewInvalidRequest("at least one of name or description is required")
	}

	m, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	target, err := resolve(m, input.Ref)
	if err != nil {
		return nil, err
	}

	w, err := m.Update(target.ID, input.Name, input.Description)
	if err != nil {
		return nil, err
	}
	if err := d.commit(ctx, m); err != nil {
		return nil, err
	}
	return &WorkspaceOutput{Workspace: *w, IsCurrent: w.ID == m.GetCurrentWorkspaceID()}, nil
}
