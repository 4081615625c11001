package ai

import (
	"context"
	"encoding/json"
	"fmt"
)

// NopProvider returns canned, schema-valid outputs without any network call.
// Used by `run --offline` and as a wiring smoke test.
type NopProvider struct{}

// NewNopProvider returns a NopProvider.
func NewNopProvider() *NopProvider {
	return &NopProvider{}
}

const nopAdaptedCV = `Contact Information
Jane Doe, jane@example.com

Work Experience
Example Corp, Software Engineer
- Built sample systems

Skills
Go, SQL`

const nopCoverLetter = `Dear Hiring Team,

This is an offline placeholder letter produced without contacting a model
provider. It exists so the pipeline can be exercised end to end.

Sincerely,
Jane Doe`

// Complete returns the canned output for tmpl.
func (*NopProvider) Complete(_ context.Context, tmpl TemplateID, _ string) (string, error) {
	switch tmpl {
	case TemplateAdaptCV:
		out, _ := json.Marshal(map[string]string{"adapted_cv": nopAdaptedCV})
		return string(out), nil
	case TemplateCoverLetter:
		out, _ := json.Marshal(map[string]string{"cover_letter": nopCoverLetter})
		return string(out), nil
	default:
		return "", fmt.Errorf("unknown template %q", tmpl)
	}
}
