package ops

import (
	"context"
)

// SaveOutput contains the result of the Save operation.
type SaveOutput struct {
	Saved    bool   `json:"saved"`
	ID       string `json:"id,omitempty"`
	TabCount int    `json:"tab_count"`
}

// Save captures the live layout into the current workspace. With no
// current workspace it saves nothing and reports Saved=false.
func Save(ctx context.Context, d *Deps) (*SaveOutput, error) {
	m, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	if !m.SaveCurrent(ctx) {
		return &SaveOutput{Saved: false}, nil
	}
	if err := d.commit(ctx, m); err != nil {
		return nil, err
	}

	w := m.GetCurrentWorkspace()
	return &SaveOutput{Saved: true, ID: w.ID, TabCount: len(w.Tabs)}, nil
}
