package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cayden0207/ctg-talents/internal/domain"
	"github.com/cayden0207/ctg-talents/internal/store"
)

func TestRecordReviewAggregatesRating(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.placedCandidate(t)

	rating := func() int {
		cur, err := store.GetCandidate(ctx, env.db, c.ID)
		require.NoError(t, err)
		require.NotNil(t, cur.PerformanceRating)
		return *cur.PerformanceRating
	}

	for _, r := range []int{4, 5, 3} {
		_, warn, err := env.eng.RecordReview(ctx, env.partner1, c.ID, ReviewInput{
			Rating: r, Summary: "quarterly",
		})
		require.NoError(t, err)
		assert.Empty(t, warn)
	}
	// mean 4.0
	assert.Equal(t, 4, rating())

	// 4+5+3+2 = 14, mean 3.5, rounds half up to 4.
	_, _, err := env.eng.RecordReview(ctx, env.partner1, c.ID, ReviewInput{Rating: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, rating())

	// 14+1 = 15, mean 3.0.
	_, _, err = env.eng.RecordReview(ctx, env.partner1, c.ID, ReviewInput{Rating: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, rating())
}

func TestRecordReviewValidatesRating(t *testing.T) {
	env := newTestEnv(t)
	c := env.placedCandidate(t)

	for _, r := range []int{0, -1, 6} {
		_, _, err := env.eng.RecordReview(context.Background(), env.partner1, c.ID, ReviewInput{Rating: r})
		assert.Equal(t, KindInvalidInput, KindOf(err), "rating %d", r)
	}
}

func TestRecordReviewVisibilityGate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.placedCandidate(t) // placed with jv1

	_, _, err := env.eng.RecordReview(ctx, env.partner2, c.ID, ReviewInput{Rating: 3})
	assert.Equal(t, KindForbidden, KindOf(err))

	// HQ may review anyone.
	_, _, err = env.eng.RecordReview(ctx, env.hq, c.ID, ReviewInput{Rating: 3})
	require.NoError(t, err)
}

func TestRecordReviewEscalatesToHQ(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.placedCandidate(t)

	before := len(env.notifications(t, env.hqUserID))
	review, warn, err := env.eng.RecordReview(ctx, env.partner1, c.ID, ReviewInput{
		Rating:             2,
		Summary:            "missed targets two months running",
		NeedHqIntervention: true,
	})
	require.NoError(t, err)
	assert.Empty(t, warn)
	assert.True(t, review.NeedHqIntervention)
	assert.NotEmpty(t, review.ReviewDate)

	ns := env.notifications(t, env.hqUserID)
	require.Len(t, ns, before+1)
	assert.Equal(t, NotifyPerfAlert, ns[0].Type)
}

func TestListReviews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.placedCandidate(t)

	for _, r := range []int{5, 4} {
		_, _, err := env.eng.RecordReview(ctx, env.partner1, c.ID, ReviewInput{Rating: r})
		require.NoError(t, err)
	}

	reviews, err := env.eng.ListReviews(ctx, env.partner1, c.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)

	_, err = env.eng.ListReviews(ctx, env.partner2, c.ID)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestReviewDoesNotBumpVersion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.placedCandidate(t)

	before, err := store.GetCandidate(ctx, env.db, c.ID)
	require.NoError(t, err)

	_, _, err = env.eng.RecordReview(ctx, env.partner1, c.ID, ReviewInput{Rating: 5})
	require.NoError(t, err)

	// A state write read before the review still commits: performance
	// columns sit outside the version guard.
	markStatus(before, domain.StatusProbation, "")
	require.NoError(t, store.UpdateCandidateState(ctx, env.db, before))
}
