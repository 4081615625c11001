package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rghosal/cvpilot/internal/model"
)

// Ensure WebhookNotifier implements model.Notifier.
var _ model.Notifier = (*WebhookNotifier)(nil)

// WebhookNotifier posts run outcomes to a configured HTTP endpoint as JSON.
type WebhookNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewWebhookNotifier returns a notifier that posts each run outcome via webhook.
func NewWebhookNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// webhookPayload is the wire shape sent to the endpoint. Outputs themselves
// are deliberately excluded; the payload announces the outcome, not the content.
type webhookPayload struct {
	Event     string    `json:"event"`
	RunID     string    `json:"run_id"`
	Status    string    `json:"status,omitempty"`
	ErrorKind string    `json:"error_kind,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Started posts a generation-started event. Failures are logged, not returned;
// a broken webhook must not block the pipeline.
func (n *WebhookNotifier) Started(runID string) {
	if err := n.send(webhookPayload{Event: "generation.started", RunID: runID}); err != nil {
		n.logger.Error("webhook notification failed", "run_id", runID, "error", err)
	}
}

// Finished posts the run outcome.
func (n *WebhookNotifier) Finished(rec model.HistoryRecord) error {
	payload := webhookPayload{
		Event:     "generation.finished",
		RunID:     rec.ID,
		Status:    rec.Status,
		ErrorKind: rec.ErrorKind,
		CreatedAt: rec.CreatedAt,
	}
	if err := n.send(payload); err != nil {
		return fmt.Errorf("webhook notify: %w", err)
	}
	n.logger.Info("webhook notification sent", "run_id", rec.ID, "status", rec.Status)
	return nil
}

func (n *WebhookNotifier) send(payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	resp, err := n.httpClient.Post(n.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}
