package store

import (
	"database/sql"
)

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1: tables ----

	stmts := []string{
		`
CREATE TABLE IF NOT EXISTS jvs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  created_at TEXT NOT NULL
);
`,
		`
CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  jv_id INTEGER REFERENCES jvs(id),
  created_at TEXT NOT NULL
);
`,
		`
CREATE TABLE IF NOT EXISTS candidates (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  email TEXT NOT NULL DEFAULT '',
  function_role TEXT NOT NULL DEFAULT '',
  tags TEXT NOT NULL DEFAULT '[]',
  interview_notes TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'NEW',
  status_note TEXT NOT NULL DEFAULT '',
  current_jv_id INTEGER REFERENCES jvs(id),
  pending_jv_id INTEGER REFERENCES jvs(id),
  expected_start_date TEXT NOT NULL DEFAULT '',
  performance_rating INTEGER,
  performance_notes TEXT NOT NULL DEFAULT '',
  last_status_update TEXT NOT NULL,
  version INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`,
		`
CREATE TABLE IF NOT EXISTS performance_reviews (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  candidate_id INTEGER NOT NULL REFERENCES candidates(id),
  reviewer_id INTEGER NOT NULL REFERENCES users(id),
  rating INTEGER NOT NULL,
  summary TEXT NOT NULL DEFAULT '',
  need_hq_intervention INTEGER NOT NULL DEFAULT 0,
  review_date TEXT NOT NULL,
  created_at TEXT NOT NULL
);
`,
		`
CREATE TABLE IF NOT EXISTS notifications (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL REFERENCES users(id),
  type TEXT NOT NULL,
  payload TEXT NOT NULL DEFAULT '{}',
  created_at TEXT NOT NULL,
  read_at TEXT
);
`,
		`
CREATE TABLE IF NOT EXISTS audit_log (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  actor_id INTEGER NOT NULL REFERENCES users(id),
  entity_type TEXT NOT NULL,
  entity_id INTEGER NOT NULL,
  action TEXT NOT NULL,
  before TEXT,
  after TEXT,
  created_at TEXT NOT NULL
);
`,
		`
CREATE TABLE IF NOT EXISTS comments (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  candidate_id INTEGER NOT NULL REFERENCES candidates(id),
  author_id INTEGER NOT NULL REFERENCES users(id),
  content TEXT NOT NULL,
  created_at TEXT NOT NULL
);
`,

		// ---- Schema v1: indexes ----

		`CREATE INDEX IF NOT EXISTS idx_candidates_status ON candidates(status);`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_current_jv ON candidates(current_jv_id);`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_pending_jv ON candidates(pending_jv_id);`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_last_status_update ON candidates(last_status_update);`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_candidate ON performance_reviews(candidate_id);`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_audit_entity ON audit_log(entity_type, entity_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_comments_candidate ON comments(candidate_id, created_at);`,
	}

	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return err
		}
	}

	// Mark schema v1
	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}
