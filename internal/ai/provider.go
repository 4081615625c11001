package ai

import "context"

// TemplateID selects a prompt template together with its declared output schema.
type TemplateID string

const (
	TemplateAdaptCV     TemplateID = "adapted_cv"
	TemplateCoverLetter TemplateID = "cover_letter"
)

// Provider sends a rendered prompt to an LLM and returns the raw JSON
// response conforming to the schema declared for tmpl.
// Used only by the pipeline stages; not exported to the rest of the system.
type Provider interface {
	Complete(ctx context.Context, tmpl TemplateID, prompt string) (string, error)
}
