package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"text/template"

	"github.com/rghosal/cvpilot/internal/ai"
	"github.com/rghosal/cvpilot/internal/model"
)

// placeholderPattern matches bracketed placeholder tokens like [Your Website].
// Single-line on purpose: a bracket pair spanning lines is not the
// fill-me-in idiom this guards against.
var placeholderPattern = regexp.MustCompile(`\[[^\[\]\n]+\]`)

// requiredSections must appear as literal substrings of the adapted CV.
var requiredSections = []string{"Contact Information", "Work Experience", "Skills"}

// AdaptStage rewrites a CV against a job description via one model call and
// validates the result. Validation failures are hard: no repair, no retry.
type AdaptStage struct {
	provider ai.Provider
	tmpl     *template.Template
	maxWords int
	logger   *slog.Logger
}

// NewAdaptStage wires the adaptation stage.
func NewAdaptStage(provider ai.Provider, maxWords int, logger *slog.Logger) *AdaptStage {
	return &AdaptStage{
		provider: provider,
		tmpl:     ai.AdaptCVTemplate,
		maxWords: maxWords,
		logger:   logger,
	}
}

// rawAdapted is the JSON shape returned by the LLM (matches adaptedCVSchema).
type rawAdapted struct {
	AdaptedCV string `json:"adapted_cv"`
}

// Adapt runs the adaptation prompt and post-validates the output.
// Input length bounds are the caller's job, not this stage's.
func (s *AdaptStage) Adapt(ctx context.Context, req model.AdaptationRequest) (model.AdaptationResult, error) {
	var promptBuf bytes.Buffer
	err := s.tmpl.Execute(&promptBuf, struct {
		CV             string
		JobDescription string
		MaxWords       int
	}{req.CV, req.JobDescription, s.maxWords})
	if err != nil {
		return model.AdaptationResult{}, &model.PipelineError{
			Kind: model.KindModel, Stage: model.StageAdapt,
			Err: fmt.Errorf("render prompt: %w", err),
		}
	}

	raw, err := s.provider.Complete(ctx, ai.TemplateAdaptCV, promptBuf.String())
	if err != nil {
		return model.AdaptationResult{}, &model.PipelineError{
			Kind: model.KindModel, Stage: model.StageAdapt, Err: err,
		}
	}

	var parsed rawAdapted
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return model.AdaptationResult{}, &model.PipelineError{
			Kind: model.KindSchema, Stage: model.StageAdapt,
			Err: fmt.Errorf("unmarshal adapted CV: %w", err),
		}
	}
	adapted := strings.TrimSpace(parsed.AdaptedCV)
	if adapted == "" {
		return model.AdaptationResult{}, &model.PipelineError{
			Kind: model.KindSchema, Stage: model.StageAdapt,
			Err: fmt.Errorf("model returned empty adapted CV"),
		}
	}

	if err := s.validateAdapted(adapted); err != nil {
		return model.AdaptationResult{}, err
	}

	s.logger.Debug("cv adapted", "words", len(strings.Fields(adapted)))
	return model.AdaptationResult{AdaptedCV: adapted}, nil
}

// validateAdapted applies the post-processing checks, in order: placeholder,
// word limit, required sections.
func (s *AdaptStage) validateAdapted(text string) error {
	if tok := placeholderPattern.FindString(text); tok != "" {
		return &model.PipelineError{
			Kind: model.KindPlaceholder, Stage: model.StageAdapt,
			Err: fmt.Errorf("output contains placeholder token %q", tok),
		}
	}

	if words := len(strings.Fields(text)); words > s.maxWords {
		return &model.PipelineError{
			Kind: model.KindWordLimit, Stage: model.StageAdapt,
			Err: fmt.Errorf("output has %d words, limit is %d", words, s.maxWords),
		}
	}

	for _, section := range requiredSections {
		if !strings.Contains(text, section) {
			return &model.PipelineError{
				Kind: model.KindMissingSection, Stage: model.StageAdapt,
				Err: fmt.Errorf("output is missing required section %q", section),
			}
		}
	}

	return nil
}
