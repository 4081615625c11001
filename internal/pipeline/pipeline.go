package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rghosal/cvpilot/internal/model"
)

// Status is the externally observable pipeline state.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusAdapting   Status = "adapting_cv"
	StatusGenerating Status = "generating_letter"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// RunResult carries the outputs of one fully successful run.
type RunResult struct {
	ID          string
	AdaptedCV   string
	CoverLetter string
}

// Pipeline owns the full two-stage run: validate → adapt → generate →
// persist → notify. Stage two has a hard data dependency on stage one, so the
// stages are strictly sequential. There is no partial success: any failure
// aborts the run and surfaces a single PipelineError.
type Pipeline struct {
	adapt    *AdaptStage
	letter   *LetterStage
	store    model.HistoryStore
	notifier model.Notifier
	gate     *Gate
	minChars int
	maxChars int
	logger   *slog.Logger

	// OnStatus, when set, observes every state transition. Called from the
	// goroutine running Run.
	OnStatus func(Status)
}

// New wires a pipeline with all its dependencies.
func New(
	adapt *AdaptStage,
	letter *LetterStage,
	store model.HistoryStore,
	notifier model.Notifier,
	minChars, maxChars int,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		adapt:    adapt,
		letter:   letter,
		store:    store,
		notifier: notifier,
		gate:     NewGate(),
		minChars: minChars,
		maxChars: maxChars,
		logger:   logger,
	}
}

func (p *Pipeline) setStatus(s Status) {
	if p.OnStatus != nil {
		p.OnStatus(s)
	}
}

// Run executes one submission end to end.
func (p *Pipeline) Run(ctx context.Context, req model.AdaptationRequest) (*RunResult, error) {
	p.setStatus(StatusSubmitting)

	// Invalid input blocks the submission before any network call and before
	// the gate: a user fixing their form must not be told the pipeline is busy.
	if fieldErrs := model.ValidateAdaptationRequest(req, p.minChars, p.maxChars); len(fieldErrs) > 0 {
		p.setStatus(StatusIdle)
		return nil, &model.PipelineError{
			Kind: model.KindValidation, Stage: model.StageSubmit, Err: fieldErrs,
		}
	}

	if !p.gate.TryAcquire() {
		return nil, &model.PipelineError{
			Kind: model.KindBusy, Stage: model.StageSubmit,
			Err: model.FieldErrors{{Field: "form", Message: "another generation is already running"}},
		}
	}
	defer p.gate.Release()

	started := time.Now()
	rec := model.HistoryRecord{
		ID:        uuid.New().String(),
		CreatedAt: started,
		CVChars:   len(req.CV),
		JDChars:   len(req.JobDescription),
	}
	p.notifier.Started(rec.ID)

	p.setStatus(StatusAdapting)
	adapted, err := p.adapt.Adapt(ctx, req)
	if err != nil {
		return nil, p.fail(rec, err)
	}
	rec.AdaptedCV = adapted.AdaptedCV

	p.setStatus(StatusGenerating)
	letter, err := p.letter.Generate(ctx, model.CoverLetterRequest{
		AdaptedCV:      adapted.AdaptedCV,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		return nil, p.fail(rec, err)
	}
	rec.CoverLetter = letter.CoverLetter
	rec.Status = "done"

	p.record(rec)
	p.setStatus(StatusDone)

	p.logger.Info("pipeline run complete",
		"run_id", rec.ID,
		"adapted_words", len(strings.Fields(rec.AdaptedCV)),
		"letter_chars", len(rec.CoverLetter),
		"duration", time.Since(started),
	)

	return &RunResult{
		ID:          rec.ID,
		AdaptedCV:   rec.AdaptedCV,
		CoverLetter: rec.CoverLetter,
	}, nil
}

// fail records the aborted run and passes err through unchanged.
func (p *Pipeline) fail(rec model.HistoryRecord, err error) error {
	rec.Status = "error"
	rec.ErrorKind = string(model.KindOf(err))
	p.record(rec)
	p.setStatus(StatusError)
	p.logger.Warn("pipeline run failed", "run_id", rec.ID, "kind", rec.ErrorKind, "error", err)
	return err
}

// record persists and notifies. Neither failure aborts the run itself.
func (p *Pipeline) record(rec model.HistoryRecord) {
	if err := p.store.Record(rec); err != nil {
		p.logger.Error("failed to record run", "run_id", rec.ID, "error", err)
	}
	if err := p.notifier.Finished(rec); err != nil {
		p.logger.Error("failed to notify", "run_id", rec.ID, "error", err)
	}
}
