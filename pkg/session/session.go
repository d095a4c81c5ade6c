// Package session tracks the per-chat interaction state machine:
//
//	AwaitingFile → Processing → AwaitingFormatChoice →
//	(AwaitingSummaryChoice) → Delivering → Idle → AwaitingFile
//
// Sessions for different chats are fully independent; nothing here is
// shared across chats beyond the manager map itself.
package session

import (
	"sync"

	"github.com/google/uuid"
)

type State string

const (
	StateAwaitingFile          State = "awaiting_file"
	StateProcessing            State = "processing"
	StateAwaitingFormatChoice  State = "awaiting_format_choice"
	StateAwaitingSummaryChoice State = "awaiting_summary_choice"
	StateDelivering            State = "delivering"
	StateIdle                  State = "idle"
)

type session struct {
	state     State
	texts     map[string]string // key → extraction result
	summaries map[string]string // key → summary
}

// Manager holds all chat sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*session)}
}

func (m *Manager) get(chatID string) *session {
	s, ok := m.sessions[chatID]
	if !ok {
		s = &session{
			state:     StateAwaitingFile,
			texts:     make(map[string]string),
			summaries: make(map[string]string),
		}
		m.sessions[chatID] = s
	}
	return s
}

// StateOf returns the current state for a chat.
func (m *Manager) StateOf(chatID string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(chatID).state
}

// Begin moves a chat into Processing. Returns false when an
// interaction is already in flight (one file at a time per chat).
func (m *Manager) Begin(chatID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.get(chatID)
	if s.state == StateProcessing || s.state == StateDelivering {
		return false
	}
	s.state = StateProcessing
	return true
}

// StoreExtraction saves an extraction result under a fresh short key
// and moves the chat to AwaitingFormatChoice. The key is embedded in
// callback data, so it stays short.
func (m *Manager) StoreExtraction(chatID, text string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := uuid.NewString()[:8]
	s := m.get(chatID)
	s.texts[key] = text
	s.state = StateAwaitingFormatChoice
	return key
}

// Extraction looks up a stored extraction result.
func (m *Manager) Extraction(chatID, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	text, ok := m.get(chatID).texts[key]
	return text, ok
}

// StoreSummary saves a summary under the extraction's key and moves
// the chat to AwaitingSummaryChoice.
func (m *Manager) StoreSummary(chatID, key, summary string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.get(chatID)
	s.summaries[key] = summary
	s.state = StateAwaitingSummaryChoice
}

// Summary looks up a stored summary.
func (m *Manager) Summary(chatID, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	summary, ok := m.get(chatID).summaries[key]
	return summary, ok
}

// SetState forces a state transition (Processing, Delivering).
func (m *Manager) SetState(chatID string, state State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.get(chatID).state = state
}

// Complete ends a delivery: the terminal Idle state immediately resets
// to AwaitingFile. Stored results are kept so the user can request the
// same extraction in another format.
func (m *Manager) Complete(chatID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.get(chatID).state = StateAwaitingFile
}

// Reset aborts an interaction after a failure: state back to
// AwaitingFile and all stored results dropped.
func (m *Manager) Reset(chatID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.get(chatID)
	s.state = StateAwaitingFile
	s.texts = make(map[string]string)
	s.summaries = make(map[string]string)
}
