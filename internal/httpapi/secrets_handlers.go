package httpapi

import (
	"net"
	"net/http"

	"github.com/cayden0207/ctg-talents/internal/secrets"
)

type SecretsHandler struct{}

// RotateSigningKey drops the stored token signing key; the next start mints a
// fresh one, invalidating every outstanding token. Local-only escape hatch,
// like /db/checkpoint.
func (h SecretsHandler) RotateSigningKey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host != "127.0.0.1" && host != "::1" && host != "localhost" {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if err := secrets.DeleteSigningKey(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
