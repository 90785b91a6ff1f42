package httpapi

import (
	"net/http"

	"github.com/cayden0207/ctg-talents/internal/domain"
	"github.com/cayden0207/ctg-talents/internal/engine"
	"github.com/cayden0207/ctg-talents/internal/store"
)

type TeamHandler struct {
	Deps
}

func (h TeamHandler) List(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	candidates, err := store.ListTeam(r.Context(), h.DB, actor.JvID)
	if err != nil {
		WriteEngineError(w, r, err)
		return
	}
	if candidates == nil {
		candidates = []*domain.Candidate{}
	}
	writeJSON(w, candidates)
}

func (h TeamHandler) Subpath(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	id, action, ok := pathIDAction(r.URL.Path, "/api/team/")
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "invalid_input", "invalid candidate id")
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch action {
	case "status":
		if actor.Role != domain.RoleJVPartner || actor.JvID == 0 {
			WriteError(w, r, http.StatusForbidden, "forbidden", "JV role required")
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

	case "reviews":
		var req engine.ReviewInput
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, r, http.StatusBadRequest, "invalid_input", "invalid JSON body")
			return
		}
		review, warn, err := h.Engine.RecordReview(r.Context(), actor, id, req)
		if err != nil {
			WriteEngineError(w, r, err)
			return
		}
		if warn != "" {
			w.Header().Set("X-Side-Effect-Warning", warn)
		}
		writeJSON(w, review)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
