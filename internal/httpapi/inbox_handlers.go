package httpapi

import (
	"net/http"

	"github.com/cayden0207/ctg-talents/internal/domain"
	"github.com/cayden0207/ctg-talents/internal/store"
)

type InboxHandler struct {
	Deps
}

func (h InboxHandler) List(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	candidates, err := store.ListInbox(r.Context(), h.DB, actor.JvID)
	if err != nil {
		WriteEngineError(w, r, err)
		return
	}
	if candidates == nil {
		candidates = []*domain.Candidate{}
	}
	writeJSON(w, candidates)
}

func (h InboxHandler) Subpath(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	id, action, ok := pathIDAction(r.URL.Path, "/api/inbox/")
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "invalid_input", "invalid candidate id")
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch action {
	case "accept":
		var req struct {
			ExpectedStartDate string `json:"expectedStartDate"`
		}
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, r, http.StatusBadRequest, "invalid_input", "invalid JSON body")
			return
		}
		res, err := h.Engine.Accept(r.Context(), actor, id, req.ExpectedStartDate)
		if err != nil {
			WriteEngineError(w, r, err)
			return
		}
		writeResult(w, res)

	case "reject":
		var req struct {
			Reason string `json:"reason"`
		}
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, r, http.StatusBadRequest, "invalid_input", "invalid JSON body")
			return
		}
		res, err := h.Engine.Reject(r.Context(), actor, id, req.Reason)
		if err != nil {
			WriteEngineError(w, r, err)
			return
		}
		writeResult(w, res)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
