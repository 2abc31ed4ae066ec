package ops

import (
	"context"

	"github.com/hpungsan/nook/internal/workspace"
)

// CaptureOutput contains the result of the Capture operation.
type CaptureOutput struct {
	Tabs  []workspace.TabDescriptor `json:"tabs"`
	Count int                       `json:"count"`
}

// Capture previews the live tabs without storing anything.
func Capture(ctx context.Context, d *Deps) (*CaptureOutput, error) {
	m, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	tabs := m.Capture(ctx)
	return &CaptureOutput{Tabs: tabs, Count: len(tabs)}, nil
}
