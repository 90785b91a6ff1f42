package engine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cayden0207/ctg-talents/internal/domain"
	"github.com/cayden0207/ctg-talents/internal/store"
)

// Engine is the only writer of candidate status and ownership. Everything
// else goes through it or stays read-only.
type Engine struct {
	DB       *sql.DB
	Dispatch *Dispatcher
}

// Result is what a successful mutation hands back to the API layer. Warning
// is set when the state change committed but a side effect was lost.
type Result struct {
	Candidate *domain.Candidate `json:"candidate"`
	Warning   string            `json:"warning,omitempty"`
}

// markStatus is the single write path for status, and the pointer rules live
// here so no caller can violate them: pending_jv_id exists only while the
// proposal is undecided, and current_jv_id never survives into RETURNED or a
// terminal state. Leaving PENDING_ACCEPTANCE by any route kills the proposal.
func markStatus(c *domain.Candidate, next domain.Status, note string) {
	c.Status = next
	c.StatusNote = note
	c.LastStatusUpdate = time.Now().UTC()
	if next != domain.StatusPendingAcceptance {
		c.PendingJvID = nil
	}
	if next == domain.StatusReturned || domain.IsTerminal(next) {
		c.CurrentJvID = nil
	}
}

func snapshot(c *domain.Candidate) *domain.Candidate {
	cp := *c
	return &cp
}

// ApplyStatusChange validates actor authority and graph legality, then
// persists the transition under the candidate's version guard.
func (e *Engine) ApplyStatusChange(ctx context.Context, actor domain.Actor, candidateID int64, next domain.Status, note string) (*Result, error) {
	if !domain.ValidStatus(next) {
		return nil, invalidInputf("unknown status %q", next)
	}

	c, err := store.GetCandidate(ctx, e.DB, candidateID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFoundf("candidate %d not found", candidateID)
	}
	if err != nil {
		return nil, err
	}

	action := ActionStatus
	if actor.Role == domain.RoleJVPartner {
		action = ActionJVStatus
	}
	if err := Authorize(actor, action, c, next); err != nil {
		return nil, err
	}
	if !domain.IsAllowed(c.Status, next) {
		return nil, invalidTransitionf("transition %s -> %s is not allowed", c.Status, next)
	}

	before := snapshot(c)
	markStatus(c, next, note)

	if err := e.commit(ctx, c); err != nil {
		return nil, err
	}

	warn := e.Dispatch.TransitionCommitted(ctx, actor, action, before, c)
	return &Result{Candidate: c, Warning: warn}, nil
}

// CreateCandidate enters a new candidate into the pool with status NEW.
func (e *Engine) CreateCandidate(ctx context.Context, actor domain.Actor, c *domain.Candidate) (*Result, error) {
	if err := Authorize(actor, ActionCreate, nil, ""); err != nil {
		return nil, err
	}
	if c.Name == "" {
		return nil, invalidInputf("name is required")
	}

	c.Status = domain.StatusNew
	c.CurrentJvID = nil
	c.PendingJvID = nil
	if err := store.CreateCandidate(ctx, e.DB, c); err != nil {
		return nil, err
	}

	warn := e.Dispatch.TransitionCommitted(ctx, actor, ActionCreate, nil, c)
	return &Result{Candidate: c, Warning: warn}, nil
}

// UpdateCandidate edits descriptive fields only; status and ownership are
// untouchable through this path.
func (e *Engine) UpdateCandidate(ctx context.Context, actor domain.Actor, candidateID int64, u store.CandidateUpdate) (*Result, error) {
	if err := Authorize(actor, ActionUpdate, nil, ""); err != nil {
		return nil, err
	}

	before, err := store.GetCandidate(ctx, e.DB, candidateID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFoundf("candidate %d not found", candidateID)
	}
	if err != nil {
		return nil, err
	}

	if err := store.UpdateCandidateFields(ctx, e.DB, candidateID, u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("candidate %d not found", candidateID)
		}
		return nil, err
	}

	after, err := store.GetCandidate(ctx, e.DB, candidateID)
	if err != nil {
		return nil, err
	}

	warn := e.Dispatch.TransitionCommitted(ctx, actor, ActionUpdate, before, after)
	return &Result{Candidate: after, Warning: warn}, nil
}

// GetVisibleCandidate loads a candidate and enforces the visibility rule.
func (e *Engine) GetVisibleCandidate(ctx context.Context, actor domain.Actor, candidateID int64) (*domain.Candidate, error) {
	c, err := store.GetCandidate(ctx, e.DB, candidateID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFoundf("candidate %d not found", candidateID)
	}
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionView, c, ""); err != nil {
		return nil, err
	}
	return c, nil
}

func (e *Engine) commit(ctx context.Context, c *domain.Candidate) error {
	err := store.UpdateCandidateState(ctx, e.DB, c)
	if errors.Is(err, store.ErrStaleWrite) {
		return errf(KindConflictRetry, "candidate %d was modified concurrently", c.ID)
	}
	return err
}
