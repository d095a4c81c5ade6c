package session

import "testing"

func TestManager_InitialState(t *testing.T) {
	m := NewManager()
	if got := m.StateOf("chat1"); got != StateAwaitingFile {
		t.Errorf("Expected AwaitingFile for new chat, got %s", got)
	}
}

func TestManager_BeginBlocksConcurrentInteraction(t *testing.T) {
	m := NewManager()

	if !m.Begin("chat1") {
		t.Fatal("Expected first Begin to succeed")
	}
	if got := m.StateOf("chat1"); got != StateProcessing {
		t.Errorf("Expected Processing, got %s", got)
	}

	if m.Begin("chat1") {
		t.Error("Expected second Begin to fail while Processing")
	}

	// Another chat is unaffected
	if !m.Begin("chat2") {
		t.Error("Expected Begin on a different chat to succeed")
	}
}

func TestManager_ExtractionRoundTrip(t *testing.T) {
	m := NewManager()
	m.Begin("chat1")

	key := m.StoreExtraction("chat1", "Invoice #1024")
	if len(key) != 8 {
		t.Errorf("Expected 8-char key, got %q", key)
	}
	if got := m.StateOf("chat1"); got != StateAwaitingFormatChoice {
		t.Errorf("Expected AwaitingFormatChoice, got %s", got)
	}

	text, ok := m.Extraction("chat1", key)
	if !ok || text != "Invoice #1024" {
		t.Errorf("Extraction lookup = %q, %v", text, ok)
	}

	if _, ok := m.Extraction("chat1", "missing"); ok {
		t.Error("Expected lookup miss for unknown key")
	}
	if _, ok := m.Extraction("chat2", key); ok {
		t.Error("Expected lookup miss from a different chat")
	}
}

func TestManager_SummaryRoundTrip(t *testing.T) {
	m := NewManager()
	key := m.StoreExtraction("chat1", "long text")

	m.StoreSummary("chat1", key, "short")
	if got := m.StateOf("chat1"); got != StateAwaitingSummaryChoice {
		t.Errorf("Expected AwaitingSummaryChoice, got %s", got)
	}

	summary, ok := m.Summary("chat1", key)
	if !ok || summary != "short" {
		t.Errorf("Summary lookup = %q, %v", summary, ok)
	}
}

func TestManager_CompleteKeepsResults(t *testing.T) {
	m := NewManager()
	key := m.StoreExtraction("chat1", "text")

	m.SetState("chat1", StateDelivering)
	m.Complete("chat1")

	if got := m.StateOf("chat1"); got != StateAwaitingFile {
		t.Errorf("Expected AwaitingFile after Complete, got %s", got)
	}
	// Results survive so a second format choice on the same extraction works
	if _, ok := m.Extraction("chat1", key); !ok {
		t.Error("Expected extraction to survive Complete")
	}
	if !m.Begin("chat1") {
		t.Error("Expected new interaction to start after Complete")
	}
}

func TestManager_ResetDropsResults(t *testing.T) {
	m := NewManager()
	key := m.StoreExtraction("chat1", "text")
	m.StoreSummary("chat1", key, "short")

	m.Reset("chat1")

	if got := m.StateOf("chat1"); got != StateAwaitingFile {
		t.Errorf("Expected AwaitingFile after Reset, got %s", got)
	}
	if _, ok := m.Extraction("chat1", key); ok {
		t.Error("Expected extraction to be dropped on Reset")
	}
	if _, ok := m.Summary("chat1", key); ok {
		t.Error("Expected summary to be dropped on Reset")
	}
}
