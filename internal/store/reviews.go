package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/cayden0207/ctg-talents/internal/domain"
)

func InsertReview(ctx context.Context, q Querier, r *domain.PerformanceReview) error {
	now := time.Now().UTC()
	need := 0
	if r.NeedHqIntervention {
		need = 1
	}
	res, err := q.ExecContext(ctx, `
INSERT INTO performance_reviews(candidate_id, reviewer_id, rating, summary, need_hq_intervention, review_date, created_at)
VALUES(?,?,?,?,?,?,?);`,
		r.CandidateID, r.ReviewerID, r.Rating, r.Summary, need, r.ReviewDate, now.Format(time.RFC3339))
	if err != nil {
		return err
	}
	r.ID, _ = res.LastInsertId()
	r.CreatedAt = now
	return nil
}

// AvgRating computes the mean across every review the candidate has.
func AvgRating(ctx context.Context, q Querier, candidateID int64) (float64, error) {
	var avg sql.NullFloat64
	err := q.QueryRowContext(ctx,
		`SELECT AVG(rating) FROM performance_reviews WHERE candidate_id = ?;`, candidateID).Scan(&avg)
	if err != nil {
		return 0, err
	}
	return avg.Float64, nil
}

func ListReviewsForCandidate(ctx context.Context, db *sql.DB, candidateID int64) ([]domain.PerformanceReview, error) {
	rows, err := db.QueryContext(ctx, `
SELECT r.id, r.candidate_id, r.reviewer_id, r.rating, r.summary, r.need_hq_intervention,
       r.review_date, r.created_at, u.email
FROM performance_reviews r
JOIN users u ON u.id = r.reviewer_id
WHERE r.candidate_id = ?
ORDER BY r.review_date DESC, r.id DESC;`, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PerformanceReview
	for rows.Next() {
		var (
			r         domain.PerformanceReview
			need      int
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.CandidateID, &r.ReviewerID, &r.Rating, &r.Summary,
			&need, &r.ReviewDate, &createdAt, &r.ReviewerEmail); err != nil {
			return nil, err
		}
		r.NeedHqIntervention = need != 0
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}
