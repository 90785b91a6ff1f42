package httpapi

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/cayden0207/ctg-talents/internal/domain"
	"github.com/cayden0207/ctg-talents/internal/store"
)

type NotificationsHandler struct {
	Deps
}

func (h NotificationsHandler) List(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	unreadOnly := r.URL.Query().Get("unreadOnly") == "true"
	notifications, err := store.ListNotifications(r.Context(), h.DB, actor.UserID, unreadOnly, h.cfg().Limits.NotificationInbox)
	if err != nil {
		WriteEngineError(w, r, err)
		return
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	writeJSON(w, notifications)
}

func (h NotificationsHandler) Subpath(w http.ResponseWriter, r *http.Request, actor domain.Actor) {
	id, action, ok := pathIDAction(r.URL.Path, "/api/notifications/")
	if !ok || action != "read" || r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	err := store.MarkNotificationRead(r.Context(), h.DB, id, actor.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		WriteError(w, r, http.StatusNotFound, "not_found", "notification not found")
		return
	}
	if err != nil {
		WriteEngineError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true, "id": id})
}
