package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/cayden0207/ctg-talents/internal/domain"
)

func InsertComment(ctx context.Context, db *sql.DB, c *domain.Comment) error {
	now := time.Now().UTC()
	res, err := db.ExecContext(ctx, `
INSERT INTO comments(candidate_id, author_id, content, created_at)
VALUES(?,?,?,?);`,
		c.CandidateID, c.AuthorID, c.Content, now.Format(time.RFC3339))
	if err != nil {
		return err
	}
	c.ID, _ = res.LastInsertId()
	c.CreatedAt = now
	return nil
}

func GetComment(ctx context.Context, db *sql.DB, id int64) (*domain.Comment, error) {
	row := db.QueryRowContext(ctx, `
SELECT c.id, c.candidate_id, c.author_id, c.content, c.created_at, u.email, u.name, u.role
FROM comments c
JOIN users u ON u.id = c.author_id
WHERE c.id = ?;`, id)
	return scanComment(row.Scan)
}

func ListCommentsForCandidate(ctx context.Context, db *sql.DB, candidateID int64) ([]domain.Comment, error) {
	rows, err := db.QueryContext(ctx, `
SELECT c.id, c.candidate_id, c.author_id, c.content, c.created_at, u.email, u.name, u.role
FROM comments c
JOIN users u ON u.id = c.author_id
WHERE c.candidate_id = ?
ORDER BY c.created_at ASC, c.id ASC;`, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Comment
	for rows.Next() {
		c, err := scanComment(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func scanComment(scan func(dest ...any) error) (*domain.Comment, error) {
	var (
		c         domain.Comment
		createdAt string
		name      sql.NullString
	)
	if err := scan(&c.ID, &c.CandidateID, &c.AuthorID, &c.Content, &createdAt,
		&c.AuthorEmail, &name, &c.AuthorRole); err != nil {
		return nil, err
	}
	c.AuthorName = name.String
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &c, nil
}
