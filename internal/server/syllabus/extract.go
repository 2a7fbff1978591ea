// Package syllabus extracts prompt-ready text from uploaded syllabus files.
package syllabus

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"rsc.io/pdf"
)

// ErrUnsupported marks uploads that are neither PDF nor readable text.
var ErrUnsupported = errors.New("unsupported file type")

// maxPromptChars caps how much syllabus text reaches the model.
const maxPromptChars = 8000

// Text returns the plain text of an uploaded syllabus. PDFs are
// detected by magic bytes or extension and parsed in-process; anything
// else must already be valid UTF-8 text.
func Text(filename string, content []byte) (string, error) {
	if isPDF(filename, content) {
		text, err := pdfText(content)
		if err != nil {
			return "", err
		}
		return clip(text), nil
	}
	if utf8.Valid(content) {
		return clip(string(content)), nil
	}
	return "", ErrUnsupported
}

func isPDF(filename string, content []byte) bool {
	if bytes.HasPrefix(content, []byte("%PDF")) {
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

func pdfText(content []byte) (text string, err error) {
	// rsc.io/pdf panics on malformed input; report it as an error instead.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	doc, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	pages := make([]string, 0, doc.NumPage())
	for i := 1; i <= doc.NumPage(); i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		parts := make([]string, 0, len(page.Content().Text))
		for _, t := range page.Content().Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			parts = append(parts, t.S)
		}
		pages = append(pages, strings.Join(parts, " "))
	}
	return strings.Join(pages, "\n"), nil
}

func clip(s string) string {
	if len(s) <= maxPromptChars {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxPromptChars {
		return s
	}
	return string(runes[:maxPromptChars])
}
