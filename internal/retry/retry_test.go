package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/rghosal/cvpilot/internal/ai"
	"github.com/rghosal/cvpilot/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockProvider calls a function on each invocation, tracking call count.
type mockProvider struct {
	calls int
	fn    func(attempt int) (string, error)
}

func (m *mockProvider) Complete(_ context.Context, _ ai.TemplateID, _ string) (string, error) {
	m.calls++
	return m.fn(m.calls)
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	mock := &mockProvider{fn: func(_ int) (string, error) {
		return `{"adapted_cv":"ok"}`, nil
	}}

	rp := NewRetryProvider(mock, 2, 10*time.Millisecond, discardLogger())
	got, err := rp.Complete(context.Background(), ai.TemplateAdaptCV, "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"adapted_cv":"ok"}` {
		t.Fatalf("unexpected output: %q", got)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call, got %d", mock.calls)
	}
}

func TestRetry_RetriesOn5xx_SucceedsOnSecondAttempt(t *testing.T) {
	mock := &mockProvider{fn: func(attempt int) (string, error) {
		if attempt == 1 {
			return "", &model.HTTPError{StatusCode: 503, Err: errors.New("service unavailable")}
		}
		return "ok", nil
	}}

	rp := NewRetryProvider(mock, 2, 10*time.Millisecond, discardLogger())
	got, err := rp.Complete(context.Background(), ai.TemplateAdaptCV, "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Fatalf("unexpected output: %q", got)
	}
	if mock.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.calls)
	}
}

func TestRetry_DoesNotRetryOn4xx(t *testing.T) {
	mock := &mockProvider{fn: func(_ int) (string, error) {
		return "", &model.HTTPError{StatusCode: 401, Err: errors.New("bad api key")}
	}}

	rp := NewRetryProvider(mock, 2, 10*time.Millisecond, discardLogger())
	_, err := rp.Complete(context.Background(), ai.TemplateAdaptCV, "prompt")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 401 {
		t.Fatalf("expected HTTPError with status 401, got %v", err)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call (no retry), got %d", mock.calls)
	}
}

func TestRetry_GivesUpAfterMaxRetries(t *testing.T) {
	mock := &mockProvider{fn: func(_ int) (string, error) {
		return "", &model.HTTPError{StatusCode: 500, Err: errors.New("internal error")}
	}}

	rp := NewRetryProvider(mock, 2, 10*time.Millisecond, discardLogger())
	_, err := rp.Complete(context.Background(), ai.TemplateAdaptCV, "prompt")
	if err == nil {
		t.Fatal("expected error after max retries, got nil")
	}
	// 1 initial + 2 retries = 3
	if mock.calls != 3 {
		t.Fatalf("expected 3 calls (1 + 2 retries), got %d", mock.calls)
	}
}

func TestRetry_HonorsRetryAfter(t *testing.T) {
	mock := &mockProvider{fn: func(attempt int) (string, error) {
		if attempt == 1 {
			return "", &model.HTTPError{StatusCode: 429, RetryAfter: 20 * time.Millisecond}
		}
		return "ok", nil
	}}

	rp := NewRetryProvider(mock, 1, time.Hour, discardLogger())
	start := time.Now()
	_, err := rp.Complete(context.Background(), ai.TemplateCoverLetter, "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Retry-After must override the huge base delay.
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("Retry-After not honored, waited %v", elapsed)
	}
}

func TestRetry_RespectsContextCancellation(t *testing.T) {
	mock := &mockProvider{fn: func(_ int) (string, error) {
		return "", &model.HTTPError{StatusCode: 500, Err: errors.New("internal error")}
	}}

	ctx, cancel := context.WithCancel(context.Background())
	// Cancel immediately so the backoff sleep is interrupted.
	cancel()

	rp := NewRetryProvider(mock, 2, time.Second, discardLogger())
	_, err := rp.Complete(ctx, ai.TemplateAdaptCV, "prompt")
	if err == nil {
		t.Fatal("expected error from context cancellation, got nil")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call before cancellation, got %d", mock.calls)
	}
}
