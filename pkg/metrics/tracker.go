package metrics

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ProcessEvent records a single remote processor call.
type ProcessEvent struct {
	Timestamp   string `json:"ts"`
	ChatID      string `json:"chat"`
	Kind        string `json:"kind"` // "extract" or "summarize"
	MimeType    string `json:"mime,omitempty"`
	InputBytes  int    `json:"in"`
	OutputChars int    `json:"out"`
	DurationMs  int64  `json:"ms"`
	Error       string `json:"error,omitempty"`
}

// Tracker appends processing events to a JSONL file. Recording is
// best-effort and never fails the interaction.
type Tracker struct {
	filePath string
	mu       sync.Mutex
}

// NewTracker creates a tracker that writes to
// workspace/metrics/processing.jsonl.
func NewTracker(workspace string) *Tracker {
	dir := filepath.Join(workspace, "metrics")
	os.MkdirAll(dir, 0755)
	return &Tracker{
		filePath: filepath.Join(dir, "processing.jsonl"),
	}
}

// Record appends a processing event to the JSONL file.
func (t *Tracker) Record(event ProcessEvent) {
	if event.Timestamp == "" {
		event.Timestamp = time.Now().Format(time.RFC3339)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.OpenFile(t.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	f.Write(data)
	f.Write([]byte("\n"))
}
