package httpapi

import (
	"net/http"
	"strings"

	"github.com/cayden0207/ctg-talents/internal/auth"
	"github.com/cayden0207/ctg-talents/internal/domain"
)

type authedHandler func(w http.ResponseWriter, r *http.Request, actor domain.Actor)

// withAuth resolves the bearer token into an Actor. EventSource clients can't
// set headers, so a ?token= query parameter is accepted as a fallback.
func (d Deps) withAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			token = strings.TrimPrefix(h, "Bearer ")
		}
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			WriteError(w, r, http.StatusUnauthorized, "unauthorized", "missing token")
			return
		}

		actor, err := auth.Parse(d.SigningKey, token)
		if err != nil {
			WriteError(w, r, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}
		next(w, r, actor)
	}
}

func (d Deps) requireHQ(next authedHandler) http.HandlerFunc {
	return d.withAuth(func(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
		if actor.Role != domain.RoleHQAdmin {
			WriteError(w, r, http.StatusForbidden, "forbidden", "HQ role required")
			return
		}
		next(w, r, actor)
	})
}

func (d Deps) requireJV(next authedHandler) http.HandlerFunc {
	return d.withAuth(func(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
		if actor.Role != domain.RoleJVPartner {
			WriteError(w, r, http.StatusForbidden, "forbidden", "JV role required")
			return
		}
		if actor.JvID == 0 {
			WriteError(w, r, http.StatusBadRequest, "invalid_input", "JV is not linked to your account")
			return
		}
		next(w, r, actor)
	})
}
