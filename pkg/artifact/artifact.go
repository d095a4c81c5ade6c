// Package artifact renders extracted or summarized text into the
// deliverable output forms: inline chat messages, plain-text files,
// and Word documents.
package artifact

// Format selects the requested output form.
type Format string

const (
	FormatMessage Format = "message"
	FormatTXT     Format = "txt"
	FormatBoth    Format = "both" // message + TXT file
	FormatDOCX    Format = "docx"
)

// maxMessageLen is Telegram's per-message character limit.
const maxMessageLen = 4096

// Artifact is a generated downloadable file held in memory just long
// enough to be transmitted.
type Artifact struct {
	FileName string
	MimeType string
	Data     []byte
}

// ChunkMessage splits text into chunks that fit a single chat message.
// Concatenating the chunks reproduces the input exactly.
func ChunkMessage(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	for start := 0; start < len(runes); start += maxMessageLen {
		end := start + maxMessageLen
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// BuildTXT wraps text as a UTF-8 plain-text file artifact.
func BuildTXT(text, fileName string) Artifact {
	return Artifact{
		FileName: fileName,
		MimeType: "text/plain",
		Data:     []byte(text),
	}
}
