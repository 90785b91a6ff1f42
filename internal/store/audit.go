package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/cayden0207/ctg-talents/internal/domain"
)

func AppendAudit(ctx context.Context, q Querier, e *domain.AuditEntry) error {
	now := time.Now().UTC()
	res, err := q.ExecContext(ctx, `
INSERT INTO audit_log(actor_id, entity_type, entity_id, action, before, after, created_at)
VALUES(?,?,?,?,?,?,?);`,
		e.ActorID, e.EntityType, e.EntityID, e.Action,
		rawOrNil(e.Before), rawOrNil(e.After), now.Format(time.RFC3339))
	if err != nil {
		return err
	}
	e.ID, _ = res.LastInsertId()
	e.CreatedAt = now
	return nil
}

func ListAuditForCandidate(ctx context.Context, db *sql.DB, candidateID int64, limit int) ([]domain.AuditEntry, error) {
	rows, err := db.QueryContext(ctx, `
SELECT a.id, a.actor_id, a.entity_type, a.entity_id, a.action, a.before, a.after, a.created_at,
       u.email, u.role
FROM audit_log a
JOIN users u ON u.id = a.actor_id
WHERE a.entity_type = 'Candidate' AND a.entity_id = ?
ORDER BY a.created_at DESC, a.id DESC
LIMIT ?;`, candidateID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var (
			e         domain.AuditEntry
			before    sql.NullString
			after     sql.NullString
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.ActorID, &e.EntityType, &e.EntityID, &e.Action,
			&before, &after, &createdAt, &e.ActorEmail, &e.ActorRole); err != nil {
			return nil, err
		}
		if before.Valid {
			e.Before = []byte(before.String)
		}
		if after.Valid {
			e.After = []byte(after.String)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

func rawOrNil(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
