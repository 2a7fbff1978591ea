package syllabus

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTextPassesThroughPlainText(t *testing.T) {
	t.Parallel()

	in := "Week 1: Pointers\nWeek 2: Memory management"
	got, err := Text("outline.txt", []byte(in))
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != in {
		t.Fatalf("got %q, want the input unchanged", got)
	}
}

func TestTextCapsLongInput(t *testing.T) {
	t.Parallel()

	got, err := Text("outline.md", []byte(strings.Repeat("ü", 9000)))
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if n := utf8.RuneCountInString(got); n != 8000 {
		t.Fatalf("rune count = %d, want 8000", n)
	}
	if !utf8.ValidString(got) {
		t.Fatal("cap split a rune")
	}
}

func TestTextRejectsBinaryUploads(t *testing.T) {
	t.Parallel()

	_, err := Text("syllabus.docx", []byte{0xff, 0xfe, 0x00, 0x01})
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
}

func TestTextRoutesPDFsByMagicBytes(t *testing.T) {
	t.Parallel()

	// Valid UTF-8 on purpose: if sniffing failed this would sail through
	// the text branch with no error.
	_, err := Text("upload", []byte("%PDF-1.7 but not actually a document"))
	if err == nil {
		t.Fatal("want a parse error from the pdf branch")
	}
	if errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want a pdf failure, not the unsupported branch", err)
	}
}

func TestTextRoutesPDFsByExtension(t *testing.T) {
	t.Parallel()

	_, err := Text("syllabus.PDF", []byte("plain text wearing the wrong name"))
	if err == nil {
		t.Fatal("want a parse error from the pdf branch")
	}
	if errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want a pdf failure, not the unsupported branch", err)
	}
}
