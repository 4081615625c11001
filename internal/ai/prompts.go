package ai

import (
	_ "embed"
	"text/template"
)

//go:embed prompts/adapt_cv.md
var adaptCVPromptRaw string

//go:embed prompts/cover_letter.md
var coverLetterPromptRaw string

// AdaptCVTemplate is the parsed prompt template for the CV adaptation stage.
// Parsed once at package init; reused on every run.
var AdaptCVTemplate = template.Must(template.New("adapt_cv").Parse(adaptCVPromptRaw))

// CoverLetterTemplate is the parsed prompt template for the letter stage.
var CoverLetterTemplate = template.Must(template.New("cover_letter").Parse(coverLetterPromptRaw))
