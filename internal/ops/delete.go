package ops

import (
	"context"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	Ref string // id or name, required
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	ID         string `json:"id"`
	Deleted    bool   `json:"deleted"`
	WasCurrent bool   `json:"was_current"`
}

// Delete removes a workspace. Deleting the current workspace leaves none
// current; the live layout is not touched.
func Delete(ctx context.Context, d *Deps, input DeleteInput) (*DeleteOutput, error) {
	m, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	target, err := resolve(m, input.Ref)
	if err != nil {
		return nil, err
	}

	wasCurrent := target.ID == m.GetCurrentWorkspaceID()
	deleted := m.Delete(target.ID)
	if deleted {
		if err := d.commit(ctx, m); err != nil {
			return nil, err
		}
	}
	return &DeleteOutput{ID: target.ID, Deleted: deleted, WasCurrent: wasCurrent}, nil
}
