package httpapi

import "net/http"

func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Auth
	ah := AuthHandler{d}
	mux.HandleFunc("/api/login", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ah.Login,
	}))
	mux.HandleFunc("/api/me", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: d.withAuth(ah.Me),
	}))
	mux.HandleFunc("/api/me/profile", methodMux(map[string]http.HandlerFunc{
		http.MethodPut: d.withAuth(ah.UpdateProfile),
	}))
	mux.HandleFunc("/api/me/password", methodMux(map[string]http.HandlerFunc{
		http.MethodPut: d.withAuth(ah.UpdatePassword),
	}))

	// Candidate pool
	ch := CandidatesHandler{d}
	mux.HandleFunc("/api/candidates", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  d.withAuth(ch.List),
		http.MethodPost: d.requireHQ(ch.Create),
	}))
	mux.HandleFunc("/api/candidates/", d.withAuth(ch.Subpath)) // {id}, {id}/allocate, {id}/status, {id}/audit, {id}/reviews, {id}/comments

	// JV inbox & team
	ih := InboxHandler{d}
	mux.HandleFunc("/api/inbox", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: d.requireJV(ih.List),
	}))
	mux.HandleFunc("/api/inbox/", d.requireJV(ih.Subpath)) // {id}/accept, {id}/reject

	th := TeamHandler{d}
	mux.HandleFunc("/api/team", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: d.requireJV(th.List),
	}))
	mux.HandleFunc("/api/team/", d.withAuth(th.Subpath)) // {id}/status (JV), {id}/reviews (any visible)

	// Notifications
	nh := NotificationsHandler{d}
	mux.HandleFunc("/api/notifications", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: d.withAuth(nh.List),
	}))
	mux.HandleFunc("/api/notifications/", d.withAuth(nh.Subpath)) // {id}/read

	// JV directory
	jh := JVsHandler{d}
	mux.HandleFunc("/api/jvs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: d.withAuth(jh.List),
	}))

	// Dashboard
	mh := MetricsHandler{d}
	mux.HandleFunc("/api/dashboard/metrics", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: d.requireHQ(mh.Dashboard),
	}))

	// Config
	cfgh := ConfigHandler{d}
	mux.HandleFunc("/api/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: d.requireHQ(cfgh.Get),
		http.MethodPut: d.requireHQ(cfgh.Put),
	}))

	// SSE events
	eh := EventsHandler{d}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: d.withAuth(eh.ServeSSE),
	}))

	// Ops
	dbh := DBHandler{DB: d.DB}
	mux.HandleFunc("/db/checkpoint", dbh.Checkpoint)

	sh := SecretsHandler{}
	mux.HandleFunc("/secrets/signing-key", sh.RotateSigningKey)

	hh := HealthHandler{}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	return mux
}
