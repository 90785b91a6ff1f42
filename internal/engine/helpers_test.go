package engine

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cayden0207/ctg-talents/internal/domain"
	"github.com/cayden0207/ctg-talents/internal/events"
	"github.com/cayden0207/ctg-talents/internal/store"
)

// testEnv is a real sqlite database with one HQ admin and two JVs, each with
// one partner user.
type testEnv struct {
	db  *sql.DB
	eng *Engine

	hq       domain.Actor
	partner1 domain.Actor
	partner2 domain.Actor
	jv1, jv2 int64

	hqUserID       int64
	partner1UserID int64
	partner2UserID int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db.Pool))

	ctx := context.Background()

	jv1 := &domain.JV{Name: "TechCorp"}
	jv2 := &domain.JV{Name: "SalesForce"}
	require.NoError(t, store.CreateJV(ctx, db.Pool, jv1))
	require.NoError(t, store.CreateJV(ctx, db.Pool, jv2))

	admin := &domain.User{Email: "admin@hq.test", Name: "Admin", PasswordHash: "x", Role: domain.RoleHQAdmin}
	p1 := &domain.User{Email: "p1@jv1.test", Name: "Partner One", PasswordHash: "x", Role: domain.RoleJVPartner, JvID: &jv1.ID}
	p2 := &domain.User{Email: "p2@jv2.test", Name: "Partner Two", PasswordHash: "x", Role: domain.RoleJVPartner, JvID: &jv2.ID}
	for _, u := range []*domain.User{admin, p1, p2} {
		require.NoError(t, store.CreateUser(ctx, db.Pool, u))
	}

	eng := &Engine{
		DB:       db.Pool,
		Dispatch: &Dispatcher{DB: db.Pool, Hub: events.NewHub()},
	}

	return &testEnv{
		db:             db.Pool,
		eng:            eng,
		hq:             domain.Actor{UserID: admin.ID, Email: admin.Email, Role: domain.RoleHQAdmin},
		partner1:       domain.Actor{UserID: p1.ID, Email: p1.Email, Role: domain.RoleJVPartner, JvID: jv1.ID},
		partner2:       domain.Actor{UserID: p2.ID, Email: p2.Email, Role: domain.RoleJVPartner, JvID: jv2.ID},
		jv1:            jv1.ID,
		jv2:            jv2.ID,
		hqUserID:       admin.ID,
		partner1UserID: p1.ID,
		partner2UserID: p2.ID,
	}
}

// newCandidate inserts a candidate and walks it to the given status through
// the engine so every intermediate transition is legal.
func (env *testEnv) newCandidate(t *testing.T, status domain.Status) *domain.Candidate {
	t.Helper()
	ctx := context.Background()

	res, err := env.eng.CreateCandidate(ctx, env.hq, &domain.Candidate{
		Name:         "Test Candidate",
		Email:        "candidate@test",
		FunctionRole: "Engineer",
	})
	require.NoError(t, err)
	c := res.Candidate

	var path []domain.Status
	switch status {
	case domain.StatusNew:
	case domain.StatusInterviewing:
		path = []domain.Status{domain.StatusInterviewing}
	case domain.StatusReady:
		path = []domain.Status{domain.StatusInterviewing, domain.StatusReady}
	default:
		t.Fatalf("newCandidate cannot reach %s directly", status)
	}
	for _, next := range path {
		res, err = env.eng.ApplyStatusChange(ctx, env.hq, c.ID, next, "")
		require.NoError(t, err)
		c = res.Candidate
	}
	return c
}

// placedCandidate runs the full handoff: READY, proposed to jv1, accepted by
// partner1. Returns the candidate in ONBOARDING.
func (env *testEnv) placedCandidate(t *testing.T) *domain.Candidate {
	t.Helper()
	ctx := context.Background()

	c := env.newCandidate(t, domain.StatusReady)
	_, err := env.eng.Propose(ctx, env.hq, c.ID, env.jv1, "good fit")
	require.NoError(t, err)
	res, err := env.eng.Accept(ctx, env.partner1, c.ID, "2026-10-01")
	require.NoError(t, err)
	return res.Candidate
}

func (env *testEnv) notifications(t *testing.T, userID int64) []domain.Notification {
	t.Helper()
	ns, err := store.ListNotifications(context.Background(), env.db, userID, false, 100)
	require.NoError(t, err)
	return ns
}

// checkPlacementPointers asserts the pointer rules that must hold after every
// committed write: pendingJvId set exactly while PENDING_ACCEPTANCE, and
// currentJvId only while actively placed. Checked on the row as persisted,
// not the in-memory copy.
func (env *testEnv) checkPlacementPointers(t *testing.T, candidateID int64) {
	t.Helper()
	c, err := store.GetCandidate(context.Background(), env.db, candidateID)
	require.NoError(t, err)

	if c.Status == domain.StatusPendingAcceptance {
		assert.NotNil(t, c.PendingJvID, "pendingJvId while %s", c.Status)
	} else {
		assert.Nil(t, c.PendingJvID, "pendingJvId while %s", c.Status)
	}
	if !domain.IsActive(c.Status) {
		assert.Nil(t, c.CurrentJvID, "currentJvId while %s", c.Status)
	}
}

func notificationTypes(ns []domain.Notification) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Type)
	}
	return out
}
