package notifier

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rghosal/cvpilot/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecord() model.HistoryRecord {
	return model.HistoryRecord{
		ID:        "run-1",
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Status:    "done",
	}
}

func TestWebhookFinished_PostsJSON(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, srv.Client(), discardLogger())
	if err := n.Finished(testRecord()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["event"] != "generation.finished" {
		t.Errorf("event = %v, want generation.finished", got["event"])
	}
	if got["run_id"] != "run-1" {
		t.Errorf("run_id = %v, want run-1", got["run_id"])
	}
	if _, ok := got["adapted_cv"]; ok {
		t.Error("payload must not carry generated content")
	}
}

func TestWebhookFinished_ErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, srv.Client(), discardLogger())
	if err := n.Finished(testRecord()); err == nil {
		t.Fatal("expected error on 502 response")
	}
}

func TestWebhookStarted_DoesNotPropagateFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, srv.Client(), discardLogger())
	// Started has no error return; this just must not panic.
	n.Started("run-2")
}
