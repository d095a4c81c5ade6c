package docai

import "errors"

var (
	// ErrRemoteService wraps any Document AI API failure (bad
	// credentials, quota, malformed input, processor unavailable).
	ErrRemoteService = errors.New("document service error")

	// ErrNoText means the call succeeded but produced no usable text.
	ErrNoText = errors.New("no text recognized")
)
