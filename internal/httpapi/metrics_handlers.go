package httpapi

import (
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cayden0207/ctg-talents/internal/domain"
	"github.com/cayden0207/ctg-talents/internal/store"
)

type MetricsHandler struct {
	Deps
}

type funnelEntry struct {
	Status domain.Status `json:"status"`
	Count  int           `json:"count"`
}

type dashboardMetrics struct {
	HeadcountByJv     []store.JvHeadcount `json:"headcountByJv"`
	RecruitmentFunnel []funnelEntry       `json:"recruitmentFunnel"`
	StaleCandidates   []*domain.Candidate `json:"staleCandidates"`
}

// Dashboard aggregates the three HQ views in parallel.
func (h MetricsHandler) Dashboard(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	cfg := h.cfg()
	cutoff := time.Now().UTC().Add(-time.Duration(cfg.Reporting.StaleThresholdDays) * 24 * time.Hour)

	var out dashboardMetrics
	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		byJv, err := store.HeadcountByJV(ctx, h.DB)
		if err != nil {
			return err
		}
		out.HeadcountByJv = byJv
		return nil
	})

	g.Go(func() error {
		funnel := make([]funnelEntry, 0, len(domain.AllStatuses))
		for _, s := range domain.AllStatuses {
			n, err := store.CountByStatus(ctx, h.DB, s)
			if err != nil {
				return err
			}
			funnel = append(funnel, funnelEntry{Status: s, Count: n})
		}
		out.RecruitmentFunnel = funnel
		return nil
	})

	g.Go(func() error {
		stale, err := store.ListStale(ctx, h.DB, cutoff, cfg.Reporting.SweepLimit)
		if err != nil {
			return err
		}
		out.StaleCandidates = stale
		return nil
	})

	if err := g.Wait(); err != nil {
		WriteEngineError(w, r, err)
		return
	}
	if out.HeadcountByJv == nil {
		out.HeadcountByJv = []store.JvHeadcount{}
	}
	if out.StaleCandidates == nil {
		out.StaleCandidates = []*domain.Candidate{}
	}
	writeJSON(w, out)
}
