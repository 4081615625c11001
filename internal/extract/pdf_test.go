package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rghosal/cvpilot/internal/export"
)

// fixture renders a small PDF in memory so the tests need no binary testdata.
func fixture(t *testing.T) []byte {
	t.Helper()
	out, err := export.PDF("Resume", "JaneDoeEngineer\nWorkedOnDistributedSystems")
	if err != nil {
		t.Fatalf("building fixture pdf: %v", err)
	}
	return out
}

func TestTextFromPDF(t *testing.T) {
	text, err := TextFromPDF(fixture(t))
	if err != nil {
		t.Fatalf("TextFromPDF: %v", err)
	}
	for _, want := range []string{"JaneDoeEngineer", "WorkedOnDistributedSystems"} {
		if !strings.Contains(text, want) {
			t.Errorf("extracted text missing %q, got %q", want, text)
		}
	}
}

func TestTextFromPDF_RejectsGarbage(t *testing.T) {
	if _, err := TextFromPDF([]byte("this is not a pdf")); err == nil {
		t.Error("expected an error for non-PDF input")
	}
}

func TestTextFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.pdf")
	if err := os.WriteFile(path, fixture(t), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	text, err := TextFromFile(path)
	if err != nil {
		t.Fatalf("TextFromFile: %v", err)
	}
	if !strings.Contains(text, "JaneDoeEngineer") {
		t.Errorf("extracted text missing marker, got %q", text)
	}
}

func TestTextFromFile_MissingFile(t *testing.T) {
	if _, err := TextFromFile(filepath.Join(t.TempDir(), "absent.pdf")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
