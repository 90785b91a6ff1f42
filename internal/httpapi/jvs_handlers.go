package httpapi

import (
	"net/http"

	"github.com/cayden0207/ctg-talents/internal/domain"
	"github.com/cayden0207/ctg-talents/internal/store"
)

type JVsHandler struct {
	Deps
}

func (h JVsHandler) List(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	jvs, err := store.ListJVs(r.Context(), h.DB, actor)
	if err != nil {
		WriteEngineError(w, r, err)
		return
	}
	if jvs == nil {
		jvs = []domain.JV{}
	}
	writeJSON(w, jvs)
}
