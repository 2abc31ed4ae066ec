package layout

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/hpungsan/nook/internal/workspace"
)

// SkippedTab records a descriptor that could not be reopened.
type SkippedTab struct {
	ID     string         `json:"id"`
	Kind   workspace.Kind `json:"kind"`
	Title  string         `json:"title"`
	Reason string         `json:"reason"`
}

// ReplayReport summarizes a replay. It is informational only.
type ReplayReport struct {
	Opened  int          `json:"opened"`
	Skipped []SkippedTab `json:"skipped,omitempty"`
}

// Replayer reopens stored descriptors through whichever open
// capabilities the host provides.
type Replayer struct {
	Opener    Opener
	URLOpener URLOpener
	Logger    *zap.Logger
}

var errNoStrategy = errors.New("no open strategy available")

// Replay opens tabs one at a time, in order. A tab that cannot be opened
// is logged and skipped; the rest still open.
func (r *Replayer) Replay(ctx context.Context, tabs []workspace.TabDescriptor) ReplayReport {
	logger := nopIfNil(r.Logger)
	report := ReplayReport{}

	for _, t := range tabs {
		if err := r.open(ctx, t); err != nil {
			logger.Warn("reopening tab failed",
				zap.String("tab_id", t.ID),
				zap.String("kind", string(t.Kind)),
				zap.Error(err))
			report.Skipped = append(report.Skipped, SkippedTab{
				ID: t.ID, Kind: t.Kind, Title: t.Title, Reason: err.Error(),
			})
			continue
		}
		report.Opened++
	}
	return report
}

func (r *Replayer) open(ctx context.Context, t workspace.TabDescriptor) error {
	if t.Kind == workspace.KindDocument && DocumentRef(t.Payload) == "" {
		return errors.New("document tab has no document reference")
	}

	lastErr := errNoStrategy
	if r.Opener != nil {
		_, err := r.Opener.Open(ctx, OpenRequest{
			ID:      t.ID,
			Kind:    t.Kind,
			Payload: t.Payload.Clone(),
			Title:   t.Title,
			Icon:    t.Icon,
		})
		if err == nil {
			return nil
		}
		lastErr = err
	}

	if r.URLOpener != nil {
		if u, ok := BuildURL(t.Kind, t.Payload); ok {
			_, err := r.URLOpener.OpenURL(ctx, u)
			if err == nil {
				return nil
			}
			lastErr = err
		}
	}
	return lastErr
}
