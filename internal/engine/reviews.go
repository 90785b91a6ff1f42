package engine

import (
	"context"
	"math"
	"time"

	"github.com/cayden0207/ctg-talents/internal/domain"
	"github.com/cayden0207/ctg-talents/internal/store"
)

type ReviewInput struct {
	Rating             int    `json:"rating"`
	Summary            string `json:"summary"`
	NeedHqIntervention bool   `json:"needHqIntervention"`
	ReviewDate         string `json:"reviewDate"`
}

// RecordReview stores the review and recomputes the candidate's rolling
// rating as the rounded mean of every review on file.
func (e *Engine) RecordReview(ctx context.Context, actor domain.Actor, candidateID int64, in ReviewInput) (*domain.PerformanceReview, string, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, "", invalidInputf("rating must be between 1 and 5")
	}

	c, err := e.GetVisibleCandidate(ctx, actor, candidateID)
	if err != nil {
		return nil, "", err
	}

	reviewDate := in.ReviewDate
	if reviewDate == "" {
		reviewDate = time.Now().UTC().Format("2006-01-02")
	}

	review := &domain.PerformanceReview{
		CandidateID:        c.ID,
		ReviewerID:         actor.UserID,
		Rating:             in.Rating,
		Summary:            in.Summary,
		NeedHqIntervention: in.NeedHqIntervention,
		ReviewDate:         reviewDate,
	}
	if err := store.InsertReview(ctx, e.DB, review); err != nil {
		return nil, "", err
	}

	avg, err := store.AvgRating(ctx, e.DB, c.ID)
	if err != nil {
		return nil, "", err
	}
	rounded := int(math.Round(avg))
	if err := store.UpdateCandidatePerformance(ctx, e.DB, c.ID, rounded, in.Summary); err != nil {
		return nil, "", err
	}

	warn := ""
	if in.NeedHqIntervention {
		if err := e.Dispatch.NotifyHQ(ctx, NotifyPerfAlert, map[string]any{
			"candidateId":   c.ID,
			"candidateName": c.Name,
			"rating":        in.Rating,
			"summary":       in.Summary,
		}); err != nil {
			warn = "notify failed: " + err.Error()
		}
	}

	return review, warn, nil
}

// ListReviews returns a candidate's reviews, visibility-gated.
func (e *Engine) ListReviews(ctx context.Context, actor domain.Actor, candidateID int64) ([]domain.PerformanceReview, error) {
	if _, err := e.GetVisibleCandidate(ctx, actor, candidateID); err != nil {
		return nil, err
	}
	return store.ListReviewsForCandidate(ctx, e.DB, candidateID)
}
