package layout

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/hpungsan/nook/internal/workspace"
)

// Introspector captures the live layout as tab descriptors. It never
// mutates the layout.
type Introspector struct {
	Provider   Provider
	Classifier Classifier
	// NewID supplies ids for tabs whose handle has none. Nil leaves them empty.
	NewID  func() string
	Logger *zap.Logger
}

// Capture returns a descriptor for every open tab, in layout order.
// An unavailable layout yields an empty list.
func (in *Introspector) Capture(ctx context.Context) []workspace.TabDescriptor {
	logger := nopIfNil(in.Logger)
	tabs := []workspace.TabDescriptor{}
	if in.Provider == nil {
		return tabs
	}

	root, err := in.Provider.Layout(ctx)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			logger.Debug("layout unavailable, capturing nothing")
		} else {
			logger.Warn("reading layout failed, capturing nothing", zap.Error(err))
		}
		return tabs
	}

	for _, t := range Tabs(root) {
		d := in.Classifier.Classify(t.Handle())
		if d.ID == "" && in.NewID != nil {
			d.ID = in.NewID()
		}
		tabs = append(tabs, d)
	}
	logger.Debug("captured layout", zap.Int("tabs", len(tabs)))
	return tabs
}

func nopIfNil(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
