package ops

import (
	"context"

	"go.uber.org/zap"
)

// CreateInput contains parameters for the Create operation.
type CreateInput struct {
	Name        string // required
	Description string
}

// Create tears down the live layout and adds a new, empty, current workspace.
func Create(ctx context.Context, d *Deps, input CreateInput) (*WorkspaceOutput, error) {
	m, err := d.load(ctx)
	if err != nil {
		return nil, err
	}

	w, err := m.Create(ctx, input.Name, input.Description)
	if err != nil {
		return nil, err
	}
	if err := d.commit(ctx, m); err != nil {
		return nil, err
	}

	d.logger().Debug("workspace stored", zap.String("workspace_id", w.ID))
	return &WorkspaceOutput{Workspace: *w, IsCurrent: true}, nil
}
