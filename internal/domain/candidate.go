package domain

import "time"

type Status string

const (
	StatusNew               Status = "NEW"
	StatusInterviewing      Status = "INTERVIEWING"
	StatusReady             Status = "READY"
	StatusPendingAcceptance Status = "PENDING_ACCEPTANCE"
	StatusOnboarding        Status = "ONBOARDING"
	StatusProbation         Status = "PROBATION"
	StatusConfirmed         Status = "CONFIRMED"
	StatusPIP               Status = "PIP"
	StatusReturned          Status = "RETURNED"
	StatusResigned          Status = "RESIGNED"
	StatusTerminated        Status = "TERMINATED"
)

type Candidate struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	FunctionRole      string   `json:"functionRole"`
	Tags              []string `json:"tags"`
	InterviewNotes    string   `json:"interviewNotes"`
	Status            Status   `json:"status"`
	StatusNote        string   `json:"statusNote"`
	CurrentJvID       *int64   `json:"currentJvId"`
	PendingJvID       *int64   `json:"pendingJvId"`
	ExpectedStartDate string   `json:"expectedStartDate,omitempty"`
	PerformanceRating *int     `json:"performanceRating"`
	PerformanceNotes  string   `json:"performanceNotes,omitempty"`

	LastStatusUpdate time.Time `json:"lastStatusUpdate"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	// Bumped on every state write; guards concurrent transitions.
	Version int64 `json:"-"`

	// Joined for display, not persisted on the candidate row.
	CurrentJvName string `json:"currentJvName,omitempty"`
	PendingJvName string `json:"pendingJvName,omitempty"`
}

// PlacementKind collapses status plus the two JV pointers into the one
// placement a candidate can be in at a time.
type PlacementKind int

const (
	Pooled PlacementKind = iota // HQ pool, no JV involvement
	Pending
	Placed
	Ended
)

type Placement struct {
	Kind PlacementKind
	JvID int64 // set for Pending and Placed
}

func (c *Candidate) Placement() Placement {
	switch {
	case IsTerminal(c.Status):
		return Placement{Kind: Ended}
	case c.Status == StatusPendingAcceptance && c.PendingJvID != nil:
		return Placement{Kind: Pending, JvID: *c.PendingJvID}
	case IsActive(c.Status) && c.CurrentJvID != nil:
		return Placement{Kind: Placed, JvID: *c.CurrentJvID}
	}
	return Placement{Kind: Pooled}
}

// VisibleTo reports whether an actor may see the candidate at all. HQ sees
// everything; a JV only its own team plus proposals waiting on its decision.
func (c *Candidate) VisibleTo(a Actor) bool {
	if a.Role == RoleHQAdmin {
		return true
	}
	if a.JvID == 0 {
		return false
	}
	if c.CurrentJvID != nil && *c.CurrentJvID == a.JvID {
		return true
	}
	return c.PendingJvID != nil && *c.PendingJvID == a.JvID && c.Status == StatusPendingAcceptance
}
