// Package export renders pipeline outputs for download.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Presentation constants. Not part of any contract; tweak freely.
const (
	pageMarginMM  = 20.0
	lineHeightMM  = 5.5
	titleHeightMM = 8.0
	bodyFontSize  = 11.0
	titleFontSize = 14.0
)

// PDF renders a long text body into an A4 document with a bold title line,
// word-wrapped body and automatic page breaks.
func PDF(title, body string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageMarginMM, pageMarginMM, pageMarginMM)
	doc.SetAutoPageBreak(true, pageMarginMM)
	doc.AddPage()

	// Core fonts are cp1252; translate so accented names survive.
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFont("Helvetica", "B", titleFontSize)
	doc.MultiCell(0, titleHeightMM, tr(title), "", "L", false)
	doc.Ln(lineHeightMM)

	doc.SetFont("Helvetica", "", bodyFontSize)
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			doc.Ln(lineHeightMM)
			continue
		}
		doc.MultiCell(0, lineHeightMM, tr(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
