package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	appsession "homeworkbot/internal/application/session"
)

type fakePinger struct {
	err error
}

func (p fakePinger) Ping() error { return p.err }

func TestHealth_OK(t *testing.T) {
	mux := NewMux(fakePinger{}, appsession.NewStore(0), "test")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var st Status
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if st.Status != "running" || st.Database != "ok" {
		t.Errorf("body = %+v", st)
	}
}

func TestHealth_DatabaseDown(t *testing.T) {
	mux := NewMux(fakePinger{err: errors.New("locked")}, appsession.NewStore(0), "test")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var st Status
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if st.Database != "unreachable" {
		t.Errorf("database = %q, want unreachable", st.Database)
	}
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	mux := NewMux(fakePinger{}, appsession.NewStore(0), "test")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
