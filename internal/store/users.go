package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/cayden0207/ctg-talents/internal/domain"
)

func scanUser(scan func(dest ...any) error) (*domain.User, error) {
	var (
		u         domain.User
		jvID      sql.NullInt64
		createdAt string
	)
	if err := scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &jvID, &createdAt); err != nil {
		return nil, err
	}
	if jvID.Valid {
		v := jvID.Int64
		u.JvID = &v
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &u, nil
}

const userCols = `id, email, name, password_hash, role, jv_id, created_at`

func GetUserByEmail(ctx context.Context, q Querier, email string) (*domain.User, error) {
	row := q.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE email = ?;`, email)
	return scanUser(row.Scan)
}

func GetUserByID(ctx context.Context, q Querier, id int64) (*domain.User, error) {
	row := q.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id = ?;`, id)
	return scanUser(row.Scan)
}

func CreateUser(ctx context.Context, db *sql.DB, u *domain.User) error {
	now := time.Now().UTC()
	res, err := db.ExecContext(ctx, `
INSERT INTO users(email, name, password_hash, role, jv_id, created_at)
VALUES(?,?,?,?,?,?);`,
		u.Email, u.Name, u.PasswordHash, u.Role, nullableID(u.JvID), now.Format(time.RFC3339))
	if err != nil {
		return err
	}
	u.ID, _ = res.LastInsertId()
	u.CreatedAt = now
	return nil
}

func UpdateUserProfile(ctx context.Context, db *sql.DB, id int64, name, email string) error {
	res, err := db.ExecContext(ctx, `UPDATE users SET name = ?, email = ? WHERE id = ?;`, name, email, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func UpdateUserPassword(ctx context.Context, db *sql.DB, id int64, hash string) error {
	res, err := db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?;`, hash, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func CountUsersByRole(ctx context.Context, db *sql.DB, role domain.Role) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = ?;`, role).Scan(&n)
	return n, err
}

// UserIDsByRole resolves the HQ recipient set. Looked up fresh on every
// dispatch; membership changes take effect immediately.
func UserIDsByRole(ctx context.Context, q Querier, role domain.Role) ([]int64, error) {
	rows, err := q.QueryContext(ctx, `SELECT id FROM users WHERE role = ?;`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIDs(rows)
}

// UserIDsByJV resolves a JV's partner users.
func UserIDsByJV(ctx context.Context, q Querier, jvID int64) ([]int64, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id FROM users WHERE role = ? AND jv_id = ?;`, domain.RoleJVPartner, jvID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIDs(rows)
}

func collectIDs(rows *sql.Rows) ([]int64, error) {
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func GetJV(ctx context.Context, q Querier, id int64) (*domain.JV, error) {
	var (
		jv        domain.JV
		createdAt string
	)
	row := q.QueryRowContext(ctx, `SELECT id, name, created_at FROM jvs WHERE id = ?;`, id)
	if err := row.Scan(&jv.ID, &jv.Name, &createdAt); err != nil {
		return nil, err
	}
	jv.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &jv, nil
}

// ListJVs returns all JVs for HQ, or just the actor's own for a partner.
func ListJVs(ctx context.Context, db *sql.DB, a domain.Actor) ([]domain.JV, error) {
	query := `SELECT id, name, created_at FROM jvs ORDER BY name;`
	var args []any
	if a.Role != domain.RoleHQAdmin {
		query = `SELECT id, name, created_at FROM jvs WHERE id = ? ORDER BY name;`
		args = append(args, a.JvID)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.JV
	for rows.Next() {
		var (
			jv        domain.JV
			createdAt string
		)
		if err := rows.Scan(&jv.ID, &jv.Name, &createdAt); err != nil {
			return nil, err
		}
		jv.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, jv)
	}
	return out, rows.Err()
}

func CreateJV(ctx context.Context, db *sql.DB, jv *domain.JV) error {
	now := time.Now().UTC()
	res, err := db.ExecContext(ctx, `INSERT INTO jvs(name, created_at) VALUES(?,?);`,
		jv.Name, now.Format(time.RFC3339))
	if err != nil {
		return err
	}
	jv.ID, _ = res.LastInsertId()
	jv.CreatedAt = now
	return nil
}
