// Package web serves the bot's HTTP status surface. The bot itself talks to
// Telegram over long polling; this mux only exists so the hosting platform's
// health probe has something to hit.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"homeworkbot/internal/adapters/storage"
	appsession "homeworkbot/internal/application/session"
)

// Pinger is the database surface the health check needs.
type Pinger interface {
	Ping() error
}

// Status is the health endpoint's response body.
type Status struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	SchemaVersion  int    `json:"schema_version"`
	Database       string `json:"database"`
	ActiveSessions int    `json:"active_sessions"`
}

// NewMux wires the status endpoints.
func NewMux(db Pinger, sessions *appsession.Store, version string) http.Handler {
	mux := http.NewServeMux()
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		st := Status{
			Status:         "running",
			Version:        version,
			SchemaVersion:  storage.LatestSchemaVersion(),
			Database:       "ok",
			ActiveSessions: sessions.Len(),
		}
		code := http.StatusOK
		if err := db.Ping(); err != nil {
			slog.Warn("health_db_ping_failed", "error", err.Error())
			st.Status = "degraded"
			st.Database = "unreachable"
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(st)
	}
	mux.HandleFunc("/", handler)
	mux.HandleFunc("/health", handler)
	return mux
}
