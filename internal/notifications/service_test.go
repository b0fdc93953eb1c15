package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/florisjonkman/Zobioweb/internal/notifications"
	"github.com/florisjonkman/Zobioweb/internal/testsupport"
)

type captured struct {
	title    string
	message  string
	tags     string
	priority string
}

func newCaptureServer(t *testing.T) (*httptest.Server, *[]captured) {
	t.Helper()
	var requests []captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		requests = append(requests, captured{
			title:    r.Header.Get("Title"),
			message:  string(body),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
		})
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(cfg)
	if err := svc.NotifySubmissionCompleted(context.Background(), "Add", "FJM", 3); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestSubmissionCompletedFormatsMessage(t *testing.T) {
	server, requests := newCaptureServer(t)
	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	svc := notifications.NewService(cfg)

	if err := svc.NotifySubmissionCompleted(context.Background(), "Check-in", "FJM", 5); err != nil {
		t.Fatalf("NotifySubmissionCompleted failed: %v", err)
	}
	if len(*requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(*requests))
	}
	got := (*requests)[0]
	if got.title != "Zobioscan - Submitted" {
		t.Fatalf("unexpected title %q", got.title)
	}
	if got.message != "Check-in complete for FJM: 5 items submitted" {
		t.Fatalf("unexpected message %q", got.message)
	}
	if got.tags != "zobioscan,submit,completed" {
		t.Fatalf("unexpected tags %q", got.tags)
	}
}

func TestSubmissionPartialUsesHighPriority(t *testing.T) {
	server, requests := newCaptureServer(t)
	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	svc := notifications.NewService(cfg)

	if err := svc.NotifySubmissionPartial(context.Background(), "Add", "ABC", 4, 2); err != nil {
		t.Fatalf("NotifySubmissionPartial failed: %v", err)
	}
	got := (*requests)[0]
	if got.priority != "high" {
		t.Fatalf("expected high priority, got %q", got.priority)
	}
	if !strings.Contains(got.message, "4 submitted, 2 failed") {
		t.Fatalf("unexpected message %q", got.message)
	}
}

func TestSubmissionDisabledSkipsDelivery(t *testing.T) {
	server, requests := newCaptureServer(t)
	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	cfg.Notifications.Submission = false
	svc := notifications.NewService(cfg)

	if err := svc.NotifySubmissionCompleted(context.Background(), "Add", "FJM", 1); err != nil {
		t.Fatalf("NotifySubmissionCompleted failed: %v", err)
	}
	if len(*requests) != 0 {
		t.Fatalf("expected no requests, got %d", len(*requests))
	}
}

func TestNotifyErrorIncludesContext(t *testing.T) {
	server, requests := newCaptureServer(t)
	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	svc := notifications.NewService(cfg)

	if err := svc.NotifyError(context.Background(), errors.New("connection refused"), "vault request"); err != nil {
		t.Fatalf("NotifyError failed: %v", err)
	}
	got := (*requests)[0]
	if got.message != "Error with vault request: connection refused" {
		t.Fatalf("unexpected message %q", got.message)
	}
	if got.priority != "high" {
		t.Fatalf("expected high priority, got %q", got.priority)
	}
}

func TestSendSurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic over quota", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	svc := notifications.NewService(cfg)

	err := svc.TestNotification(context.Background())
	if err == nil {
		t.Fatal("expected error from failing server")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status in error, got %v", err)
	}
}
