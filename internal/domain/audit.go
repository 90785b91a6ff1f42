package domain

import (
	"encoding/json"
	"time"
)

// AuditEntry is an append-only record of a committed mutation. Before is nil
// for creations.
type AuditEntry struct {
	ID         int64           `json:"id"`
	ActorID    int64           `json:"actorId"`
	EntityType string          `json:"entityType"`
	EntityID   int64           `json:"entityId"`
	Action     string          `json:"action"`
	Before     json.RawMessage `json:"before"`
	After      json.RawMessage `json:"after"`
	CreatedAt  time.Time       `json:"createdAt"`

	// Joined for display.
	ActorEmail string `json:"actorEmail,omitempty"`
	ActorRole  Role   `json:"actorRole,omitempty"`
}

type Notification struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"userId"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
	ReadAt    *time.Time      `json:"readAt"`
}

type PerformanceReview struct {
	ID                 int64     `json:"id"`
	CandidateID        int64     `json:"candidateId"`
	ReviewerID         int64     `json:"reviewerId"`
	Rating             int       `json:"rating"`
	Summary            string    `json:"summary"`
	NeedHqIntervention bool      `json:"needHqIntervention"`
	ReviewDate         string    `json:"reviewDate"`
	CreatedAt          time.Time `json:"createdAt"`

	ReviewerEmail string `json:"reviewerEmail,omitempty"`
}

type Comment struct {
	ID          int64     `json:"id"`
	CandidateID int64     `json:"candidateId"`
	AuthorID    int64     `json:"authorId"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`

	AuthorEmail string `json:"authorEmail,omitempty"`
	AuthorName  string `json:"authorName,omitempty"`
	AuthorRole  Role   `json:"authorRole,omitempty"`
}
