package media

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

// ErrUnsupportedInput marks a file that is neither an image nor a PDF.
var ErrUnsupportedInput = errors.New("unsupported input")

// MaxFileSize is the largest document the bot will download.
// The Telegram bot API refuses downloads above 20MB anyway.
const MaxFileSize = 20 * 1024 * 1024

// Attachment is an incoming document: raw bytes plus the declared MIME
// type. It lives for the duration of one user interaction.
type Attachment struct {
	FileName string
	MimeType string
	Data     []byte
}

// supportedExts maps file extensions to the MIME types accepted by
// Document AI processors.
var supportedExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
}

// DetectMIME determines the MIME type of an uploaded file. Extension
// wins when recognized; otherwise the first 512 bytes are sniffed.
// Anything that is not an image or a PDF is ErrUnsupportedInput.
func DetectMIME(fileName string, data []byte) (string, error) {
	if len(data) > MaxFileSize {
		return "", fmt.Errorf("%w: %s is %.1f MB, limit is %d MB",
			ErrUnsupportedInput, fileName, float64(len(data))/(1024*1024), MaxFileSize/(1024*1024))
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if mimeType, ok := supportedExts[ext]; ok {
		return mimeType, nil
	}

	// No recognized extension, sniff the content
	if len(data) > 0 {
		sniffed := http.DetectContentType(data)
		switch {
		case sniffed == "image/jpeg", sniffed == "image/png":
			return sniffed, nil
		case sniffed == "application/pdf":
			return sniffed, nil
		}
	}

	return "", fmt.Errorf("%w: %s (send an image or a PDF)", ErrUnsupportedInput, fileName)
}
