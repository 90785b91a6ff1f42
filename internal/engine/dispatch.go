package engine

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"

	"github.com/cayden0207/ctg-talents/internal/domain"
	"github.com/cayden0207/ctg-talents/internal/events"
	"github.com/cayden0207/ctg-talents/internal/store"
)

// Notification types, as consumed by the inbox UI.
const (
	NotifyAllocated  = "candidate.allocated"
	NotifyAccepted   = "candidate.accepted"
	NotifyRejected   = "candidate.rejected"
	NotifyOffboarded = "candidate.offboarded"
	NotifyReturned   = "candidate.returned"
	NotifyPerfAlert  = "performance.alert"
	NotifyStale      = "candidate.stale"
)

// Dispatcher turns a committed transition into its side effects: one audit
// entry, the transition's notifications, and a hub event for live UIs. It
// runs strictly after the primary write; its failures never unwind it.
type Dispatcher struct {
	DB  *sql.DB
	Hub *events.Hub
}

// TransitionCommitted records the audit entry and fans out notifications for
// a transition that already hit the database. The returned warning is empty
// on full success; otherwise it describes the side effects that were lost.
func (d *Dispatcher) TransitionCommitted(ctx context.Context, actor domain.Actor, action Action, before, after *domain.Candidate) string {
	warning := ""
	fail := func(what string, err error) {
		log.Printf("level=warn msg=\"dispatch\" action=%s candidate=%d what=%s err=%v",
			action, after.ID, what, err)
		if warning == "" {
			warning = what + " failed: " + err.Error()
		}
	}

	var beforeRaw, afterRaw json.RawMessage
	if before != nil {
		beforeRaw, _ = json.Marshal(before)
	}
	afterRaw, _ = json.Marshal(after)

	if err := store.AppendAudit(ctx, d.DB, &domain.AuditEntry{
		ActorID:    actor.UserID,
		EntityType: "Candidate",
		EntityID:   after.ID,
		Action:     string(action),
		Before:     beforeRaw,
		After:      afterRaw,
	}); err != nil {
		fail("audit", err)
	}

	if err := d.notify(ctx, actor, action, before, after); err != nil {
		fail("notify", err)
	}

	if d.Hub != nil {
		d.Hub.Publish(events.MakeEvent("", eventType(action), 1, map[string]any{
			"id":     after.ID,
			"status": after.Status,
		}))
	}

	return warning
}

// notify maps the transition onto its recipient set. Membership is looked up
// at dispatch time, never cached.
func (d *Dispatcher) notify(ctx context.Context, actor domain.Actor, action Action, before, c *domain.Candidate) error {
	switch action {
	case ActionAllocate:
		if c.PendingJvID == nil {
			return nil
		}
		return d.NotifyJV(ctx, *c.PendingJvID, NotifyAllocated, map[string]any{
			"candidateId":   c.ID,
			"candidateName": c.Name,
			"note":          c.StatusNote,
		})

	case ActionAccept:
		return d.NotifyHQ(ctx, NotifyAccepted, map[string]any{
			"candidateId":   c.ID,
			"candidateName": c.Name,
			"jvId":          actor.JvID,
		})

	case ActionReject:
		return d.NotifyHQ(ctx, NotifyRejected, map[string]any{
			"candidateId":   c.ID,
			"candidateName": c.Name,
			"reason":        c.StatusNote,
			"jvId":          actor.JvID,
		})
	}

	switch c.Status {
	case domain.StatusResigned, domain.StatusTerminated:
		return d.NotifyHQ(ctx, NotifyOffboarded, map[string]any{
			"candidateId":   c.ID,
			"candidateName": c.Name,
			"status":        c.Status,
			"jvId":          leftJvID(before, actor),
		})
	case domain.StatusReturned:
		return d.NotifyHQ(ctx, NotifyReturned, map[string]any{
			"candidateId":   c.ID,
			"candidateName": c.Name,
			"jvId":          leftJvID(before, actor),
		})
	}
	return nil
}

// leftJvID names the JV the candidate just left. The committed row has the
// pointer cleared already, so it comes from the pre-transition snapshot; the
// actor's own JV covers partner-initiated moves with no prior placement.
func leftJvID(before *domain.Candidate, actor domain.Actor) int64 {
	if before != nil && before.CurrentJvID != nil {
		return *before.CurrentJvID
	}
	return actor.JvID
}

func (d *Dispatcher) NotifyHQ(ctx context.Context, typ string, payload any) error {
	ids, err := store.UserIDsByRole(ctx, d.DB, domain.RoleHQAdmin)
	if err != nil {
		return err
	}
	return d.insert(ctx, ids, typ, payload)
}

func (d *Dispatcher) NotifyJV(ctx context.Context, jvID int64, typ string, payload any) error {
	ids, err := store.UserIDsByJV(ctx, d.DB, jvID)
	if err != nil {
		return err
	}
	return d.insert(ctx, ids, typ, payload)
}

func (d *Dispatcher) insert(ctx context.Context, userIDs []int64, typ string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := store.InsertNotifications(ctx, d.DB, userIDs, typ, b); err != nil {
		return err
	}
	if d.Hub != nil && len(userIDs) > 0 {
		d.Hub.Publish(events.MakeEvent("", events.TypeNotification, 1, map[string]any{
			"type":       typ,
			"recipients": len(userIDs),
		}))
	}
	return nil
}

func eventType(action Action) string {
	switch action {
	case ActionCreate:
		return events.TypeCandidateCreated
	case ActionUpdate:
		return events.TypeCandidateUpdated
	case ActionAllocate:
		return events.TypeCandidateAllocated
	case ActionAccept:
		return events.TypeCandidateAccepted
	case ActionReject:
		return events.TypeCandidateRejected
	}
	return events.TypeStatusChanged
}
