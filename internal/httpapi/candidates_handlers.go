package httpapi

import (
	"net/http"
	"strconv"

	"github.com/cayden0207/ctg-talents/internal/domain"
	"github.com/cayden0207/ctg-talents/internal/engine"
	"github.com/cayden0207/ctg-talents/internal/store"
)

type CandidatesHandler struct {
	Deps
}

// writeResult sends the mutated candidate. A lost side effect rides along in
// a header so the body shape stays stable for callers.
func writeResult(w http.ResponseWriter, res *engine.Result) {
	if res.Warning != "" {
		w.Header().Set("X-Side-Effect-Warning", res.Warning)
	}
	writeJSON(w, res.Candidate)
}

func (h CandidatesHandler) List(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	q := r.URL.Query()

	f := store.CandidateFilter{
		Status: domain.Status(q.Get("status")),
		Search: q.Get("search"),
		Sort:   q.Get("sortField"),
		Order:  q.Get("sortDir"),
	}
	if v, err := strconv.ParseInt(q.Get("jvId"), 10, 64); err == nil {
		f.JvID = v
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		f.Page = v
	}
	if v, err := strconv.Atoi(q.Get("pageSize")); err == nil {
		f.PageSize = v
	}
	if max := h.cfg().Limits.MaxPageSize; f.PageSize > max {
		f.PageSize = max
	}

	candidates, total, err := store.ListCandidates(r.Context(), h.DB, actor, f)
	if err != nil {
		WriteEngineError(w, r, err)
		return
	}
	if f.PageSize > 0 {
		w.Header().Set("x-total-count", strconv.Itoa(total))
	}
	if candidates == nil {
		candidates = []*domain.Candidate{}
	}
	writeJSON(w, candidates)
}

type createCandidateRequest struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	FunctionRole   string   `json:"functionRole"`
	Tags           []string `json:"tags"`
	InterviewNotes string   `json:"interviewNotes"`
}

func (h CandidatesHandler) Create(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	var req createCandidateRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_input", "invalid JSON body")
		return
	}

	res, err := h.Engine.CreateCandidate(r.Context(), actor, &domain.Candidate{
		Name:           req.Name,
		Email:          req.Email,
		FunctionRole:   req.FunctionRole,
		Tags:           req.Tags,
		InterviewNotes: req.InterviewNotes,
	})
	if err != nil {
		WriteEngineError(w, r, err)
		return
	}
	writeResult(w, res)
}

// Subpath routes everything under /api/candidates/{id}[/...].
func (h CandidatesHandler) Subpath(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	id, action, ok := pathIDAction(r.URL.Path, "/api/candidates/")
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "invalid_input", "invalid candidate id")
		return
	}

	switch {
	case action == "" && r.Method == http.MethodPut:
		h.update(w, r, actor, id)
	case action == "allocate" && r.Method == http.MethodPost:
		h.allocate(w, r, actor, id)
	case action == "status" && r.Method == http.MethodPost:
		h.status(w, r, actor, id)
	case action == "audit" && r.Method == http.MethodGet:
		h.audit(w, r, actor, id)
	case action == "reviews" && r.Method == http.MethodGet:
		h.reviews(w, r, actor, id)
	case action == "comments" && r.Method == http.MethodGet:
		h.listComments(w, r, actor, id)
	case action == "comments" && r.Method == http.MethodPost:
		h.postComment(w, r, actor, id)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h CandidatesHandler) update(w http.ResponseWriter, r *http.Request, actor domain.Actor, id int64) {
	var req store.CandidateUpdate
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_input", "invalid JSON body")
		return
	}
	res, err := h.Engine.UpdateCandidate(r.Context(), actor, id, req)
	if err != nil {
		WriteEngineError(w, r, err)
		return
	}
	writeResult(w, res)
}

type allocateRequest struct {
	TargetJvID int64  `json:"targetJvId"`
	Note       string `json:"note"`
}

func (h CandidatesHandler) allocate(w http.ResponseWriter, r *http.Request, actor domain.Actor, id int64) {
	var req allocateRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_input", "invalid JSON body")
		return
	}
	res, err := h.Engine.Propose(r.Context(), actor, id, req.TargetJvID, req.Note)
	if err != nil {
		WriteEngineError(w, r, err)
		return
	}
	writeResult(w, res)
}

type statusRequest struct {
	NextStatus domain.Status `json:"nextStatus"`
	Note       string        `json:"note"`
}

// status is the HQ status route; JV partners use /api/team/{id}/status.
func (h CandidatesHandler) status(w http.ResponseWriter, r *http.Request, actor domain.Actor, id int64) {
	if actor.Role != domain.RoleHQAdmin {
		WriteError(w, r, http.StatusForbidden, "forbidden", "HQ role required")
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_input", "invalid JSON body")
		return
	}
	res, err := h.Engine.ApplyStatusChange(r.Context(), actor, id, req.NextStatus, req.Note)
	if err != nil {
		WriteEngineError(w, r, err)
		return
	}
	writeResult(w, res)
}

func (h CandidatesHandler) audit(w http.ResponseWriter, r *http.Request, actor domain.Actor, id int64) {
	if _, err := h.Engine.GetVisibleCandidate(r.Context(), actor, id); err != nil {
		WriteEngineError(w, r, err)
		return
	}
	entries, err := store.ListAuditForCandidate(r.Context(), h.DB, id, h.cfg().Limits.AuditTrail)
	if err != nil {
		WriteEngineError(w, r, err)
		return
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	writeJSON(w, entries)
}

func (h CandidatesHandler) reviews(w http.ResponseWriter, r *http.Request, actor domain.Actor, id int64) {
	reviews, err := h.Engine.ListReviews(r.Context(), actor, id)
	if err != nil {
		WriteEngineError(w, r, err)
		return
	}
	if reviews == nil {
		reviews = []domain.PerformanceReview{}
	}
	writeJSON(w, reviews)
}

func (h CandidatesHandler) listComments(w http.ResponseWriter, r *http.Request, actor domain.Actor, id int64) {
	if _, err := h.Engine.GetVisibleCandidate(r.Context(), actor, id); err != nil {
		WriteEngineError(w, r, err)
		return
	}
	comments, err := store.ListCommentsForCandidate(r.Context(), h.DB, id)
	if err != nil {
		WriteEngineError(w, r, err)
		return
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	writeJSON(w, comments)
}

type commentRequest struct {
	Content string `json:"content"`
}

func (h CandidatesHandler) postComment(w http.ResponseWriter, r *http.Request, actor domain.Actor, id int64) {
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil || req.Content == "" {
		WriteError(w, r, http.StatusBadRequest, "invalid_input", "content is required")
		return
	}
	if _, err := h.Engine.GetVisibleCandidate(r.Context(), actor, id); err != nil {
		WriteEngineError(w, r, err)
		return
	}

	comment := &domain.Comment{CandidateID: id, AuthorID: actor.UserID, Content: req.Content}
	if err := store.InsertComment(r.Context(), h.DB, comment); err != nil {
		WriteEngineError(w, r, err)
		return
	}
	full, err := store.GetComment(r.Context(), h.DB, comment.ID)
	if err != nil {
		WriteEngineError(w, r, err)
		return
	}
	writeJSON(w, full)
}
