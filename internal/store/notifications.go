package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/cayden0207/ctg-talents/internal/domain"
)

// InsertNotifications creates one row per recipient, all in the same write.
func InsertNotifications(ctx context.Context, q Querier, userIDs []int64, typ string, payload []byte) error {
	if len(userIDs) == 0 {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for _, id := range userIDs {
		if _, err := q.ExecContext(ctx, `
INSERT INTO notifications(user_id, type, payload, created_at)
VALUES(?,?,?,?);`, id, typ, string(payload), now); err != nil {
			return err
		}
	}
	return nil
}

func ListNotifications(ctx context.Context, db *sql.DB, userID int64, unreadOnly bool, limit int) ([]domain.Notification, error) {
	query := `
SELECT id, user_id, type, payload, created_at, read_at
FROM notifications
WHERE user_id = ?`
	if unreadOnly {
		query += ` AND read_at IS NULL`
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?;`

	rows, err := db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var (
			n         domain.Notification
			payload   string
			createdAt string
			readAt    sql.NullString
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &payload, &createdAt, &readAt); err != nil {
			return nil, err
		}
		n.Payload = []byte(payload)
		n.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		if readAt.Valid {
			t, _ := time.Parse(time.RFC3339, readAt.String)
			n.ReadAt = &t
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationRead stamps read_at. Scoped to the owning user so one user
// cannot touch another's inbox.
func MarkNotificationRead(ctx context.Context, db *sql.DB, id, userID int64) error {
	res, err := db.ExecContext(ctx, `
UPDATE notifications SET read_at = ?
WHERE id = ? AND user_id = ? AND read_at IS NULL;`,
		time.Now().UTC().Format(time.RFC3339), id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Already read or not theirs; report which.
		var one int
		err := db.QueryRowContext(ctx,
			`SELECT 1 FROM notifications WHERE id = ? AND user_id = ?;`, id, userID).Scan(&one)
		if err != nil {
			return sql.ErrNoRows
		}
	}
	return nil
}

func CountUnreadNotifications(ctx context.Context, db *sql.DB, userID int64) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND read_at IS NULL;`, userID).Scan(&n)
	return n, err
}
