package layout

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Teardown closes every open tab in the live layout.
type Teardown struct {
	Provider Provider
	// SettleDelay is waited after each removal attempt so the host can settle.
	SettleDelay time.Duration
	// Wait performs the settle wait. Nil means time.Sleep.
	Wait   func(d time.Duration)
	Logger *zap.Logger
}

// Run removes all tabs in reverse layout order and returns how many were
// removed. Failed removals are logged and skipped. Run ignores cancellation
// of ctx so that a teardown, once started, always completes.
func (td *Teardown) Run(ctx context.Context) int {
	ctx = context.WithoutCancel(ctx)
	logger := nopIfNil(td.Logger)
	if td.Provider == nil {
		return 0
	}

	root, err := td.Provider.Layout(ctx)
	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			logger.Warn("reading layout failed, skipping teardown", zap.Error(err))
		}
		return 0
	}

	tabs := Tabs(root)
	ids := make([]string, 0, len(tabs))
	for _, t := range tabs {
		ids = append(ids, t.Handle().ID)
	}

	remover := FindRemover(root)
	if remover == nil {
		if len(ids) > 0 {
			logger.Debug("layout cannot remove tabs, skipping teardown", zap.Int("tabs", len(ids)))
		}
		return 0
	}

	wait := td.Wait
	if wait == nil {
		wait = time.Sleep
	}

	removed := 0
	for i := len(ids) - 1; i >= 0; i-- {
		if err := remover.RemoveTab(ctx, ids[i]); err != nil {
			logger.Warn("removing tab failed", zap.String("tab_id", ids[i]), zap.Error(err))
		} else {
			removed++
		}
		if td.SettleDelay > 0 {
			wait(td.SettleDelay)
		}
	}
	logger.Debug("tore down layout", zap.Int("removed", removed), zap.Int("tabs", len(ids)))
	return removed
}
