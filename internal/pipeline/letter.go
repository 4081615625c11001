package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/rghosal/cvpilot/internal/ai"
	"github.com/rghosal/cvpilot/internal/model"
)

// LetterStage generates the cover letter from the adapted CV and appends any
// canonical contact links the model left out.
type LetterStage struct {
	provider ai.Provider
	tmpl     *template.Template
	links    []model.ContactLink
	logger   *slog.Logger
}

// NewLetterStage wires the letter stage with the canonical contact link set.
func NewLetterStage(provider ai.Provider, links []model.ContactLink, logger *slog.Logger) *LetterStage {
	return &LetterStage{
		provider: provider,
		tmpl:     ai.CoverLetterTemplate,
		links:    links,
		logger:   logger,
	}
}

// rawLetter is the JSON shape returned by the LLM (matches coverLetterSchema).
type rawLetter struct {
	CoverLetter string `json:"cover_letter"`
}

// Generate runs the cover-letter prompt and applies deterministic link
// post-processing. Requires a non-empty adapted CV from stage one.
func (s *LetterStage) Generate(ctx context.Context, req model.CoverLetterRequest) (model.CoverLetterResult, error) {
	var promptBuf bytes.Buffer
	err := s.tmpl.Execute(&promptBuf, struct {
		AdaptedCV      string
		JobDescription string
	}{req.AdaptedCV, req.JobDescription})
	if err != nil {
		return model.CoverLetterResult{}, &model.PipelineError{
			Kind: model.KindModel, Stage: model.StageLetter,
			Err: fmt.Errorf("render prompt: %w", err),
		}
	}

	raw, err := s.provider.Complete(ctx, ai.TemplateCoverLetter, promptBuf.String())
	if err != nil {
		return model.CoverLetterResult{}, &model.PipelineError{
			Kind: model.KindModel, Stage: model.StageLetter, Err: err,
		}
	}

	var parsed rawLetter
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return model.CoverLetterResult{}, &model.PipelineError{
			Kind: model.KindSchema, Stage: model.StageLetter,
			Err: fmt.Errorf("unmarshal cover letter: %w", err),
		}
	}
	letter := stripLabel(strings.TrimSpace(parsed.CoverLetter))
	if letter == "" {
		return model.CoverLetterResult{}, &model.PipelineError{
			Kind: model.KindSchema, Stage: model.StageLetter,
			Err: fmt.Errorf("model returned empty cover letter"),
		}
	}

	letter = AppendMissingLinks(letter, s.links)

	s.logger.Debug("cover letter generated", "chars", len(letter))
	return model.CoverLetterResult{CoverLetter: letter}, nil
}

// stripLabel removes a leading "Cover Letter:" label when the model disobeys
// the no-label instruction.
func stripLabel(letter string) string {
	lower := strings.ToLower(letter)
	for _, label := range []string{"cover letter:", "cover letter\n"} {
		if strings.HasPrefix(lower, label) {
			return strings.TrimSpace(letter[len(label):])
		}
	}
	return letter
}

// AppendMissingLinks guarantees every canonical link appears in the letter
// exactly once. Links whose URL substring is already anywhere in the letter
// are left alone; the rest are appended as "Label: URL" lines after a blank
// line. Idempotent.
func AppendMissingLinks(letter string, links []model.ContactLink) string {
	var missing []string
	for _, l := range links {
		if !strings.Contains(letter, l.URL) {
			missing = append(missing, l.Label+": "+l.URL)
		}
	}
	if len(missing) == 0 {
		return letter
	}
	return strings.TrimRight(letter, "\n") + "\n\n" + strings.Join(missing, "\n")
}
