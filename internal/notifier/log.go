package notifier

import (
	"log/slog"

	"github.com/rghosal/cvpilot/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes pipeline outcomes to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each run via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Started logs the beginning of a run.
func (n *LogNotifier) Started(runID string) {
	n.logger.Info("generation started", "run_id", runID)
}

// Finished logs the run outcome. Returns nil (stdout logging does not fail).
func (n *LogNotifier) Finished(rec model.HistoryRecord) error {
	args := []any{"run_id", rec.ID, "status", rec.Status}
	if rec.ErrorKind != "" {
		args = append(args, "error_kind", rec.ErrorKind)
	}
	n.logger.Info("generation finished", args...)
	return nil
}
