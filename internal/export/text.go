package export

import (
	"fmt"
	"io"
	"strings"
)

// WriteText writes body to w as a plain-text download, guaranteeing a
// trailing newline.
func WriteText(w io.Writer, body string) error {
	if _, err := io.WriteString(w, strings.TrimRight(body, "\n")+"\n"); err != nil {
		return fmt.Errorf("write text export: %w", err)
	}
	return nil
}
