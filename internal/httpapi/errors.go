package httpapi

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/cayden0207/ctg-talents/internal/engine"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// WriteEngineError maps the engine's error taxonomy onto HTTP. Anything
// without a kind is a persistence-layer failure and becomes a 500.
func WriteEngineError(w http.ResponseWriter, r *http.Request, err error) {
	kind := engine.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case engine.KindNotFound:
		status = http.StatusNotFound
	case engine.KindForbidden:
		status = http.StatusForbidden
	case engine.KindInvalidTransition, engine.KindInvalidInput:
		status = http.StatusBadRequest
	case engine.KindConflictRetry:
		status = http.StatusConflict
	case "":
		log.Printf("level=error msg=\"engine\" request_id=%s err=%v", RequestIDFrom(r.Context()), err)
		WriteError(w, r, status, "internal_error", "internal server error")
		return
	}
	WriteError(w, r, status, string(kind), err.Error())
}
