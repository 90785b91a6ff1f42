package engine

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cayden0207/ctg-talents/internal/domain"
	"github.com/cayden0207/ctg-talents/internal/store"
)

// Propose offers a pooled candidate to a JV. The candidate moves to
// PENDING_ACCEPTANCE and stays there until the JV decides or HQ pulls it
// back; only this path ever sets pending_jv_id.
func (e *Engine) Propose(ctx context.Context, actor domain.Actor, candidateID, targetJvID int64, note string) (*Result, error) {
	if err := Authorize(actor, ActionAllocate, nil, ""); err != nil {
		return nil, err
	}
	if targetJvID == 0 {
		return nil, invalidInputf("targetJvId is required")
	}

	c, err := store.GetCandidate(ctx, e.DB, candidateID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFoundf("candidate %d not found", candidateID)
	}
	if err != nil {
		return nil, err
	}

	if _, err := store.GetJV(ctx, e.DB, targetJvID); errors.Is(err, sql.ErrNoRows) {
		return nil, notFoundf("target JV %d not found", targetJvID)
	} else if err != nil {
		return nil, err
	}

	if c.Status != domain.StatusReady && c.Status != domain.StatusReturned {
		return nil, invalidTransitionf("candidate must be READY or RETURNED to allocate, is %s", c.Status)
	}

	before := snapshot(c)
	c.PendingJvID = &targetJvID
	markStatus(c, domain.StatusPendingAcceptance, note)

	if err := e.commit(ctx, c); err != nil {
		return nil, err
	}

	warn := e.Dispatch.TransitionCommitted(ctx, actor, ActionAllocate, before, c)
	return &Result{Candidate: c, Warning: warn}, nil
}

// Accept takes the proposal: the candidate becomes the JV's, onboarding
// starts, and HQ is told. Ownership is checked by query, so a second accept
// or one from the wrong JV comes back NotFound.
func (e *Engine) Accept(ctx context.Context, actor domain.Actor, candidateID int64, expectedStartDate string) (*Result, error) {
	if err := Authorize(actor, ActionAccept, nil, ""); err != nil {
		return nil, err
	}
	if expectedStartDate == "" {
		return nil, invalidInputf("expectedStartDate is required")
	}

	c, err := store.GetCandidateInInbox(ctx, e.DB, candidateID, actor.JvID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFoundf("candidate %d not found in your inbox", candidateID)
	}
	if err != nil {
		return nil, err
	}

	before := snapshot(c)
	jvID := actor.JvID
	c.CurrentJvID = &jvID
	c.ExpectedStartDate = expectedStartDate
	markStatus(c, domain.StatusOnboarding, "Accepted by JV")

	if err := e.commit(ctx, c); err != nil {
		return nil, err
	}

	warn := e.Dispatch.TransitionCommitted(ctx, actor, ActionAccept, before, c)
	return &Result{Candidate: c, Warning: warn}, nil
}

// Reject declines the proposal: the candidate goes back to READY with the
// reason as its status note, and HQ is told.
func (e *Engine) Reject(ctx context.Context, actor domain.Actor, candidateID int64, reason string) (*Result, error) {
	if err := Authorize(actor, ActionReject, nil, ""); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, invalidInputf("rejection reason is required")
	}

	c, err := store.GetCandidateInInbox(ctx, e.DB, candidateID, actor.JvID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFoundf("candidate %d not found in your inbox", candidateID)
	}
	if err != nil {
		return nil, err
	}

	before := snapshot(c)
	markStatus(c, domain.StatusReady, reason)

	if err := e.commit(ctx, c); err != nil {
		return nil, err
	}

	warn := e.Dispatch.TransitionCommitted(ctx, actor, ActionReject, before, c)
	return &Result{Candidate: c, Warning: warn}, nil
}
