package model

import "time"

// AdaptationRequest carries the raw inputs for one pipeline run.
// Both fields are plain text; length bounds are enforced by
// ValidateAdaptationRequest before any network call.
type AdaptationRequest struct {
	CV             string
	JobDescription string
}

// AdaptationResult is the output of the CV adaptation stage.
type AdaptationResult struct {
	AdaptedCV string
}

// CoverLetterRequest feeds the adapted CV and the job description into the
// letter stage. Stage one's output is a hard data dependency here.
type CoverLetterRequest struct {
	AdaptedCV      string
	JobDescription string
}

// CoverLetterResult is the final letter after link post-processing.
type CoverLetterResult struct {
	CoverLetter string
}

// ContactLink is one canonical contact entry (portfolio, GitHub, LinkedIn).
// Every configured link is guaranteed present in the final letter exactly once.
type ContactLink struct {
	Label string
	URL   string
}

// HistoryRecord is one persisted pipeline run.
// Failed runs keep whatever stage output existed at failure time so the
// history view can show where things went wrong; the UI itself only renders
// outputs of fully successful runs.
type HistoryRecord struct {
	ID          string
	CreatedAt   time.Time
	CVChars     int
	JDChars     int
	Status      string // "done" or "error"
	ErrorKind   string // empty on success
	AdaptedCV   string
	CoverLetter string
}

// HistoryStore persists pipeline runs.
type HistoryStore interface {
	Record(rec HistoryRecord) error
	List(limit int) ([]HistoryRecord, error)
	Get(id string) (HistoryRecord, error)
	Cleanup(olderThan time.Duration) error
	Close() error
}

// Notifier reports pipeline outcomes to an external sink.
type Notifier interface {
	Started(runID string)
	Finished(rec HistoryRecord) error
}
