package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cayden0207/ctg-talents/internal/domain"
)

type CandidateFilter struct {
	Status Status
	JvID   int64 // HQ-only filter on current placement
	Search string

	// Optional pagination; PageSize 0 means everything.
	Page     int
	PageSize int

	Sort  string // name | email | status | lastStatusUpdate
	Order string // asc | desc
}

// Status aliases domain.Status so filter literals stay short at call sites.
type Status = domain.Status

const candidateCols = `
c.id, c.name, c.email, c.function_role, c.tags, c.interview_notes,
c.status, c.status_note, c.current_jv_id, c.pending_jv_id,
c.expected_start_date, c.performance_rating, c.performance_notes,
c.last_status_update, c.version, c.created_at, c.updated_at,
cj.name, pj.name`

const candidateFrom = `
FROM candidates c
LEFT JOIN jvs cj ON cj.id = c.current_jv_id
LEFT JOIN jvs pj ON pj.id = c.pending_jv_id`

func scanCandidate(scan func(dest ...any) error) (*domain.Candidate, error) {
	var (
		c             domain.Candidate
		tagsJSON      string
		currentJv     sql.NullInt64
		pendingJv     sql.NullInt64
		rating        sql.NullInt64
		lastUpdate    string
		createdAt     string
		updatedAt     string
		currentJvName sql.NullString
		pendingJvName sql.NullString
	)
	err := scan(
		&c.ID, &c.Name, &c.Email, &c.FunctionRole, &tagsJSON, &c.InterviewNotes,
		&c.Status, &c.StatusNote, &currentJv, &pendingJv,
		&c.ExpectedStartDate, &rating, &c.PerformanceNotes,
		&lastUpdate, &c.Version, &createdAt, &updatedAt,
		&currentJvName, &pendingJvName,
	)
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(tagsJSON), &c.Tags)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if currentJv.Valid {
		v := currentJv.Int64
		c.CurrentJvID = &v
	}
	if pendingJv.Valid {
		v := pendingJv.Int64
		c.PendingJvID = &v
	}
	if rating.Valid {
		v := int(rating.Int64)
		c.PerformanceRating = &v
	}
	c.CurrentJvName = currentJvName.String
	c.PendingJvName = pendingJvName.String
	c.LastStatusUpdate, _ = time.Parse(time.RFC3339, lastUpdate)
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &c, nil
}

func GetCandidate(ctx context.Context, q Querier, id int64) (*domain.Candidate, error) {
	row := q.QueryRowContext(ctx, `SELECT `+candidateCols+candidateFrom+` WHERE c.id = ?;`, id)
	return scanCandidate(row.Scan)
}

// GetCandidateInInbox loads a candidate only if it is currently proposed to
// the given JV. Ownership check is part of the query so a wrong JV gets the
// same answer as a missing candidate.
func GetCandidateInInbox(ctx context.Context, q Querier, id, jvID int64) (*domain.Candidate, error) {
	row := q.QueryRowContext(ctx, `
SELECT `+candidateCols+candidateFrom+`
WHERE c.id = ? AND c.pending_jv_id = ? AND c.status = ?;`,
		id, jvID, domain.StatusPendingAcceptance)
	return scanCandidate(row.Scan)
}

// visibilityClause restricts a candidate query to what the actor may see.
func visibilityClause(a domain.Actor, where *[]string, args *[]any) {
	if a.Role == domain.RoleHQAdmin {
		return
	}
	*where = append(*where, `(c.current_jv_id = ? OR (c.pending_jv_id = ? AND c.status = ?))`)
	*args = append(*args, a.JvID, a.JvID, domain.StatusPendingAcceptance)
}

func ListCandidates(ctx context.Context, db *sql.DB, a domain.Actor, f CandidateFilter) ([]*domain.Candidate, int, error) {
	var where []string
	var args []any

	visibilityClause(a, &where, &args)

	if a.Role == domain.RoleHQAdmin && f.JvID != 0 {
		where = append(where, `c.current_jv_id = ?`)
		args = append(args, f.JvID)
	}
	if f.Status != "" {
		where = append(where, `c.status = ?`)
		args = append(args, f.Status)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		where = append(where, `(LOWER(c.name) LIKE ? OR LOWER(c.email) LIKE ? OR LOWER(c.function_role) LIKE ?)`)
		args = append(args, like, like, like)
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	// whitelist sort columns (prevents SQL injection)
	sortCol := map[string]string{
		"name":             "c.name",
		"email":            "c.email",
		"status":           "c.status",
		"lastStatusUpdate": "c.last_status_update",
	}[f.Sort]
	order := "c.updated_at DESC"
	if sortCol != "" {
		dir := "ASC"
		if f.Order == "desc" {
			dir = "DESC"
		}
		order = sortCol + " " + dir
	}

	total := 0
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidates c`+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + candidateCols + candidateFrom + cond + ` ORDER BY ` + order
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	rows, err := db.QueryContext(ctx, query+";", args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*domain.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// ListInbox returns proposals waiting on the JV's decision.
func ListInbox(ctx context.Context, db *sql.DB, jvID int64) ([]*domain.Candidate, error) {
	return listWhere(ctx, db, `c.pending_jv_id = ? AND c.status = ?`, jvID, domain.StatusPendingAcceptance)
}

// ListTeam returns the JV's active headcount (ended statuses excluded).
func ListTeam(ctx context.Context, db *sql.DB, jvID int64) ([]*domain.Candidate, error) {
	return listWhere(ctx, db,
		`c.current_jv_id = ? AND c.status NOT IN (?, ?, ?)`,
		jvID, domain.StatusResigned, domain.StatusTerminated, domain.StatusReturned)
}

// ListStale returns non-ended candidates whose last status change predates
// the cutoff, oldest first.
func ListStale(ctx context.Context, db *sql.DB, cutoff time.Time, limit int) ([]*domain.Candidate, error) {
	rows, err := db.QueryContext(ctx, `
SELECT `+candidateCols+candidateFrom+`
WHERE c.status NOT IN (?, ?, ?) AND c.last_status_update < ?
ORDER BY c.last_status_update ASC
LIMIT ?;`,
		domain.StatusResigned, domain.StatusTerminated, domain.StatusReturned,
		cutoff.UTC().Format(time.RFC3339), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCandidates(rows)
}

func listWhere(ctx context.Context, db *sql.DB, cond string, args ...any) ([]*domain.Candidate, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+candidateCols+candidateFrom+` WHERE `+cond+` ORDER BY c.updated_at DESC;`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCandidates(rows)
}

func collectCandidates(rows *sql.Rows) ([]*domain.Candidate, error) {
	var out []*domain.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func CreateCandidate(ctx context.Context, db *sql.DB, c *domain.Candidate) error {
	now := time.Now().UTC()
	if c.Status == "" {
		c.Status = domain.StatusNew
	}
	c.LastStatusUpdate = now
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Version = 1
	if c.Tags == nil {
		c.Tags = []string{}
	}
	tagsB, _ := json.Marshal(c.Tags)

	res, err := db.ExecContext(ctx, `
INSERT INTO candidates(name, email, function_role, tags, interview_notes, status, status_note,
                       last_status_update, version, created_at, updated_at)
VALUES(?,?,?,?,?,?,?,?,?,?,?);`,
		c.Name, c.Email, c.FunctionRole, string(tagsB), c.InterviewNotes, c.Status, c.StatusNote,
		now.Format(time.RFC3339), c.Version, now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return err
	}
	c.ID, _ = res.LastInsertId()
	return nil
}

// CandidateUpdate carries the descriptive fields HQ may edit directly. Status
// and ownership never go through here; those belong to the lifecycle engine.
type CandidateUpdate struct {
	Name           *string  `json:"name"`
	Email          *string  `json:"email"`
	FunctionRole   *string  `json:"functionRole"`
	Tags           []string `json:"tags"`
	InterviewNotes *string  `json:"interviewNotes"`
}

func UpdateCandidateFields(ctx context.Context, db *sql.DB, id int64, u CandidateUpdate) error {
	var sets []string
	var args []any
	if u.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *u.Name)
	}
	if u.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *u.Email)
	}
	if u.FunctionRole != nil {
		sets = append(sets, "function_role = ?")
		args = append(args, *u.FunctionRole)
	}
	if u.Tags != nil {
		tagsB, _ := json.Marshal(u.Tags)
		sets = append(sets, "tags = ?")
		args = append(args, string(tagsB))
	}
	if u.InterviewNotes != nil {
		sets = append(sets, "interview_notes = ?")
		args = append(args, *u.InterviewNotes)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC().Format(time.RFC3339), id)

	res, err := db.ExecContext(ctx,
		`UPDATE candidates SET `+strings.Join(sets, ", ")+` WHERE id = ?;`, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateCandidateState persists status and ownership in one guarded write.
// The version predicate makes concurrent transitions on the same candidate
// lose cleanly instead of overwriting each other.
func UpdateCandidateState(ctx context.Context, db *sql.DB, c *domain.Candidate) error {
	now := time.Now().UTC()
	res, err := db.ExecContext(ctx, `
UPDATE candidates
SET status = ?, status_note = ?, current_jv_id = ?, pending_jv_id = ?,
    expected_start_date = ?, last_status_update = ?, updated_at = ?,
    version = version + 1
WHERE id = ? AND version = ?;`,
		c.Status, c.StatusNote, nullableID(c.CurrentJvID), nullableID(c.PendingJvID),
		c.ExpectedStartDate, c.LastStatusUpdate.UTC().Format(time.RFC3339), now.Format(time.RFC3339),
		c.ID, c.Version)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStaleWrite
	}
	c.Version++
	c.UpdatedAt = now
	return nil
}

// UpdateCandidatePerformance writes the derived rating fields. It deliberately
// skips the version guard: performance columns are disjoint from status and
// ownership, so a concurrent transition cannot be lost through this path.
func UpdateCandidatePerformance(ctx context.Context, q Querier, id int64, rating int, notes string) error {
	_, err := q.ExecContext(ctx, `
UPDATE candidates SET performance_rating = ?, performance_notes = ?, updated_at = ?
WHERE id = ?;`,
		rating, notes, time.Now().UTC().Format(time.RFC3339), id)
	return err
}

func CountByStatus(ctx context.Context, db *sql.DB, s domain.Status) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidates WHERE status = ?;`, s).Scan(&n)
	return n, err
}

type JvHeadcount struct {
	JvID   int64  `json:"jvId"`
	JvName string `json:"jvName"`
	Count  int    `json:"count"`
}

// HeadcountByJV counts actively placed candidates per JV.
func HeadcountByJV(ctx context.Context, db *sql.DB) ([]JvHeadcount, error) {
	rows, err := db.QueryContext(ctx, `
SELECT c.current_jv_id, j.name, COUNT(*)
FROM candidates c
JOIN jvs j ON j.id = c.current_jv_id
WHERE c.current_jv_id IS NOT NULL AND c.status NOT IN (?, ?, ?)
GROUP BY c.current_jv_id, j.name
ORDER BY j.name;`,
		domain.StatusResigned, domain.StatusTerminated, domain.StatusReturned)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []JvHeadcount
	for rows.Next() {
		var h JvHeadcount
		if err := rows.Scan(&h.JvID, &h.JvName, &h.Count); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func nullableID(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
