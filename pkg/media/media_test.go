package media

import (
	"errors"
	"testing"
)

// Minimal valid headers for content sniffing.
var (
	pdfHeader = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
	pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}
	jpgHeader = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
)

func TestDetectMIME_ByExtension(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"scan.pdf", "application/pdf"},
		{"photo.jpg", "image/jpeg"},
		{"photo.JPEG", "image/jpeg"},
		{"page.png", "image/png"},
	}

	for _, c := range cases {
		got, err := DetectMIME(c.name, []byte("irrelevant"))
		if err != nil {
			t.Errorf("DetectMIME(%s) failed: %v", c.name, err)
			continue
		}
		if got != c.want {
			t.Errorf("DetectMIME(%s) = %s, want %s", c.name, got, c.want)
		}
	}
}

func TestDetectMIME_SniffsUnknownExtension(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"document", pdfHeader, "application/pdf"},
		{"file.bin", pngHeader, "image/png"},
		{"upload", jpgHeader, "image/jpeg"},
	}

	for _, c := range cases {
		got, err := DetectMIME(c.name, c.data)
		if err != nil {
			t.Errorf("DetectMIME(%s) failed: %v", c.name, err)
			continue
		}
		if got != c.want {
			t.Errorf("DetectMIME(%s) = %s, want %s", c.name, got, c.want)
		}
	}
}

func TestDetectMIME_Unsupported(t *testing.T) {
	_, err := DetectMIME("notes.docx", []byte("PK\x03\x04 not really a zip"))
	if err == nil {
		t.Fatal("Expected error for unsupported file type")
	}
	if !errors.Is(err, ErrUnsupportedInput) {
		t.Errorf("Expected ErrUnsupportedInput, got %v", err)
	}
}

func TestDetectMIME_TooLarge(t *testing.T) {
	data := make([]byte, MaxFileSize+1)
	_, err := DetectMIME("huge.pdf", data)
	if err == nil {
		t.Fatal("Expected error for oversized file")
	}
	if !errors.Is(err, ErrUnsupportedInput) {
		t.Errorf("Expected ErrUnsupportedInput, got %v", err)
	}
}
