package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cayden0207/ctg-talents/internal/auth"
	"github.com/cayden0207/ctg-talents/internal/config"
	"github.com/cayden0207/ctg-talents/internal/domain"
	"github.com/cayden0207/ctg-talents/internal/engine"
	"github.com/cayden0207/ctg-talents/internal/events"
	"github.com/cayden0207/ctg-talents/internal/store"
)

var testSigningKey = []byte("test-signing-key")

type apiEnv struct {
	srv *httptest.Server

	hqToken string
	jvToken string
	jvID    int64

	hqUser *domain.User
	jvUser *domain.User
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db.Pool))

	ctx := context.Background()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	jv := &domain.JV{Name: "TechCorp"}
	require.NoError(t, store.CreateJV(ctx, db.Pool, jv))

	hqUser := &domain.User{Email: "admin@hq.test", Name: "Admin", PasswordHash: hash, Role: domain.RoleHQAdmin}
	jvUser := &domain.User{Email: "partner@jv.test", Name: "Partner", PasswordHash: hash, Role: domain.RoleJVPartner, JvID: &jv.ID}
	require.NoError(t, store.CreateUser(ctx, db.Pool, hqUser))
	require.NoError(t, store.CreateUser(ctx, db.Pool, jvUser))

	hub := events.NewHub()
	eng := &engine.Engine{DB: db.Pool, Dispatch: &engine.Dispatcher{DB: db.Pool, Hub: hub}}

	cfgVal := &atomic.Value{}
	cfgVal.Store(config.Default())

	deps := Deps{
		DB:         db.Pool,
		Engine:     eng,
		Hub:        hub,
		CfgVal:     cfgVal,
		SigningKey: testSigningKey,
	}

	srv := httptest.NewServer(Chain(NewMux(deps), RequestID, Recover, Cors))
	t.Cleanup(srv.Close)

	hqToken, err := auth.Sign(testSigningKey, hqUser, time.Hour)
	require.NoError(t, err)
	jvToken, err := auth.Sign(testSigningKey, jvUser, time.Hour)
	require.NoError(t, err)

	return &apiEnv{
		srv:     srv,
		hqToken: hqToken,
		jvToken: jvToken,
		jvID:    jv.ID,
		hqUser:  hqUser,
		jvUser:  jvUser,
	}
}

func (env *apiEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, env.srv.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func errCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	return decode[APIError](t, resp).Error.Code
}

func TestLogin(t *testing.T) {
	env := newAPIEnv(t)

	resp := env.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email": "admin@hq.test", "password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}](t, resp)
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, domain.RoleHQAdmin, body.User.Role)
	assert.Empty(t, body.User.PasswordHash)

	// The issued token works.
	resp = env.do(t, http.MethodGet, "/api/me", body.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email": "admin@hq.test", "password": "wrong",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_credentials", errCode(t, resp))

	resp = env.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email": "nobody@test", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	env := newAPIEnv(t)

	resp := env.do(t, http.MethodGet, "/api/candidates", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized", errCode(t, resp))

	resp = env.do(t, http.MethodGet, "/api/candidates", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCandidateLifecycleOverHTTP(t *testing.T) {
	env := newAPIEnv(t)

	// JV partners cannot create candidates.
	resp := env.do(t, http.MethodPost, "/api/candidates", env.jvToken, map[string]any{"name": "X"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/candidates", env.hqToken, map[string]any{
		"name": "Alice Wong", "email": "alice@test", "functionRole": "Sales", "tags": []string{"priority"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	c := decode[domain.Candidate](t, resp)
	assert.Equal(t, domain.StatusNew, c.Status)

	statusPath := fmt.Sprintf("/api/candidates/%d/status", c.ID)
	for _, next := range []domain.Status{domain.StatusInterviewing, domain.StatusReady} {
		resp = env.do(t, http.MethodPost, statusPath, env.hqToken, map[string]any{"nextStatus": next})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	// An illegal edge is a 400 with the transition code.
	resp = env.do(t, http.MethodPost, statusPath, env.hqToken, map[string]any{"nextStatus": domain.StatusConfirmed})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_transition", errCode(t, resp))

	// Allocate to the JV; its inbox picks it up.
	resp = env.do(t, http.MethodPost, fmt.Sprintf("/api/candidates/%d/allocate", c.ID), env.hqToken,
		map[string]any{"targetJvId": env.jvID, "note": "good fit"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pending := decode[domain.Candidate](t, resp)
	assert.Equal(t, domain.StatusPendingAcceptance, pending.Status)

	resp = env.do(t, http.MethodGet, "/api/inbox", env.jvToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	inbox := decode[[]domain.Candidate](t, resp)
	require.Len(t, inbox, 1)
	assert.Equal(t, c.ID, inbox[0].ID)

	// HQ has no inbox.
	resp = env.do(t, http.MethodGet, "/api/inbox", env.hqToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodPost, fmt.Sprintf("/api/inbox/%d/accept", c.ID), env.jvToken,
		map[string]any{"expectedStartDate": "2026-10-01"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	accepted := decode[domain.Candidate](t, resp)
	assert.Equal(t, domain.StatusOnboarding, accepted.Status)
	require.NotNil(t, accepted.CurrentJvID)
	assert.Equal(t, env.jvID, *accepted.CurrentJvID)
	assert.Nil(t, accepted.PendingJvID)

	resp = env.do(t, http.MethodGet, "/api/team", env.jvToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	team := decode[[]domain.Candidate](t, resp)
	require.Len(t, team, 1)

	// A second accept finds nothing pending.
	resp = env.do(t, http.MethodPost, fmt.Sprintf("/api/inbox/%d/accept", c.ID), env.jvToken,
		map[string]any{"expectedStartDate": "2026-10-01"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// HQ got notified of the acceptance.
	resp = env.do(t, http.MethodGet, "/api/notifications", env.hqToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ns := decode[[]domain.Notification](t, resp)
	require.NotEmpty(t, ns)
	assert.Equal(t, "candidate.accepted", ns[0].Type)

	resp = env.do(t, http.MethodPost, fmt.Sprintf("/api/notifications/%d/read", ns[0].ID), env.hqToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStatusRoutesSplitByRole(t *testing.T) {
	env := newAPIEnv(t)

	resp := env.do(t, http.MethodPost, "/api/candidates", env.hqToken, map[string]any{"name": "Placed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	c := decode[domain.Candidate](t, resp)

	for _, next := range []domain.Status{domain.StatusInterviewing, domain.StatusReady} {
		resp = env.do(t, http.MethodPost, fmt.Sprintf("/api/candidates/%d/status", c.ID), env.hqToken,
			map[string]any{"nextStatus": next})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp = env.do(t, http.MethodPost, fmt.Sprintf("/api/candidates/%d/allocate", c.ID), env.hqToken,
		map[string]any{"targetJvId": env.jvID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = env.do(t, http.MethodPost, fmt.Sprintf("/api/inbox/%d/accept", c.ID), env.jvToken,
		map[string]any{"expectedStartDate": "2026-10-01"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The pool status route is HQ-only, even for a change the JV could make
	// on its own candidate through the team route.
	resp = env.do(t, http.MethodPost, fmt.Sprintf("/api/candidates/%d/status", c.ID), env.jvToken,
		map[string]any{"nextStatus": domain.StatusProbation})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "forbidden", errCode(t, resp))

	resp = env.do(t, http.MethodPost, fmt.Sprintf("/api/team/%d/status", c.ID), env.jvToken,
		map[string]any{"nextStatus": domain.StatusProbation})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	moved := decode[domain.Candidate](t, resp)
	assert.Equal(t, domain.StatusProbation, moved.Status)

	// And the team route rejects HQ.
	resp = env.do(t, http.MethodPost, fmt.Sprintf("/api/team/%d/status", c.ID), env.hqToken,
		map[string]any{"nextStatus": domain.StatusConfirmed})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestListCandidatesPaging(t *testing.T) {
	env := newAPIEnv(t)

	for i := 0; i < 3; i++ {
		resp := env.do(t, http.MethodPost, "/api/candidates", env.hqToken, map[string]any{
			"name": fmt.Sprintf("Candidate %d", i),
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp := env.do(t, http.MethodGet, "/api/candidates?page=1&pageSize=2", env.hqToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "3", resp.Header.Get("x-total-count"))
	page := decode[[]domain.Candidate](t, resp)
	assert.Len(t, page, 2)

	// JV sees nothing: no placements, no proposals.
	resp = env.do(t, http.MethodGet, "/api/candidates", env.jvToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]domain.Candidate](t, resp))
}

func TestVisibilityOnDetailRoutes(t *testing.T) {
	env := newAPIEnv(t)

	resp := env.do(t, http.MethodPost, "/api/candidates", env.hqToken, map[string]any{"name": "Hidden"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	c := decode[domain.Candidate](t, resp)

	// Pooled candidate is invisible to the JV on every detail route.
	for _, path := range []string{
		fmt.Sprintf("/api/candidates/%d/audit", c.ID),
		fmt.Sprintf("/api/candidates/%d/reviews", c.ID),
		fmt.Sprintf("/api/candidates/%d/comments", c.ID),
	} {
		resp = env.do(t, http.MethodGet, path, env.jvToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
	}

	resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/candidates/%d/audit", c.ID), env.hqToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entries := decode[[]domain.AuditEntry](t, resp)
	require.Len(t, entries, 1)
	assert.Equal(t, "CREATE", entries[0].Action)
	assert.Equal(t, "admin@hq.test", entries[0].ActorEmail)
}

func TestCommentsRoundTrip(t *testing.T) {
	env := newAPIEnv(t)

	resp := env.do(t, http.MethodPost, "/api/candidates", env.hqToken, map[string]any{"name": "Commented"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	c := decode[domain.Candidate](t, resp)

	path := fmt.Sprintf("/api/candidates/%d/comments", c.ID)
	resp = env.do(t, http.MethodPost, path, env.hqToken, map[string]any{"content": "strong references"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPost, path, env.hqToken, map[string]any{"content": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodGet, path, env.hqToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	comments := decode[[]domain.Comment](t, resp)
	require.Len(t, comments, 1)
	assert.Equal(t, "strong references", comments[0].Content)
	assert.Equal(t, "Admin", comments[0].AuthorName)
}

func TestDashboardIsHQOnly(t *testing.T) {
	env := newAPIEnv(t)

	resp := env.do(t, http.MethodGet, "/api/dashboard/metrics", env.jvToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/dashboard/metrics", env.hqToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	metrics := decode[map[string]json.RawMessage](t, resp)
	assert.Contains(t, metrics, "headcountByJv")
	assert.Contains(t, metrics, "recruitmentFunnel")
	assert.Contains(t, metrics, "staleCandidates")
}

func TestSigningKeyRotationIsDeleteOnly(t *testing.T) {
	env := newAPIEnv(t)

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut} {
		resp := env.do(t, method, "/secrets/signing-key", "", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, method)
	}
}

func TestHealth(t *testing.T) {
	env := newAPIEnv(t)

	resp := env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, true, body["ok"])
}
