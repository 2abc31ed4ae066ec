package ops

import (
	"context"

	"github.com/hpungsan/nook/internal/layout"
)

// SwitchInput contains parameters for the Switch operation.
type SwitchInput struct {
	Ref string // id or name, required
}

// SwitchOutput contains the result of the Switch operation.
type SwitchOutput struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	PreviousID string              `json:"previous_id,omitempty"`
	Opened     int                 `json:"opened"`
	Skipped    []layout.SkippedTab `json:"skipped"`
}

// Switch saves the live tabs into the current workspace, tears the layout
// down, and reopens the target workspace's tabs. The collection is saved
// even when some tabs could not be closed or reopened.
func Switch(ctx context.Context, d *Deps, input SwitchInput) (*SwitchOutput, error) {
	m, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	target, err := resolve(m, input.Ref)
	if err != nil {
		return nil, err
	}

	previous := m.GetCurrentWorkspaceID()
	report, err := m.SwitchTo(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	if err := d.commit(ctx, m); err != nil {
		return nil, err
	}

	skipped := report.Skipped
	if skipped == nil {
		skipped = []layout.SkippedTab{}
	}
	return &SwitchOutput{
		ID:         target.ID,
		Name:       target.Name,
		PreviousID: previous,
		Opened:     report.Opened,
		Skipped:    skipped,
	}, nil
}
