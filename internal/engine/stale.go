package engine

import (
	"context"
	"time"

	"github.com/cayden0207/ctg-talents/internal/store"
)

// SweepStale notifies HQ about candidates whose last status change predates
// the threshold. Reporting only; it never mutates candidate state.
func (e *Engine) SweepStale(ctx context.Context, threshold time.Duration, limit int) (int, error) {
	cutoff := time.Now().UTC().Add(-threshold)
	stale, err := store.ListStale(ctx, e.DB, cutoff, limit)
	if err != nil {
		return 0, err
	}

	for _, c := range stale {
		if err := e.Dispatch.NotifyHQ(ctx, NotifyStale, map[string]any{
			"candidateId":      c.ID,
			"candidateName":    c.Name,
			"status":           c.Status,
			"lastStatusUpdate": c.LastStatusUpdate,
		}); err != nil {
			return 0, err
		}
	}
	return len(stale), nil
}
