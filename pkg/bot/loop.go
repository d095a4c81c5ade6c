// Package bot wires the pieces together: inbound chat events drive
// the Document AI clients, the session state machine, and the output
// formatter.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/doclensbot/doclens/pkg/artifact"
	"github.com/doclensbot/doclens/pkg/bus"
	"github.com/doclensbot/doclens/pkg/docai"
	"github.com/doclensbot/doclens/pkg/logger"
	"github.com/doclensbot/doclens/pkg/media"
	"github.com/doclensbot/doclens/pkg/metrics"
	"github.com/doclensbot/doclens/pkg/session"
)

const greeting = "👋 Send me an image or a PDF, and I'll extract the text! You can choose the output format."

// Extractor turns raw document bytes into text.
type Extractor interface {
	Extract(ctx context.Context, content []byte, mimeType string) (string, error)
}

// Summarizer turns extracted text into a shorter text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Loop consumes inbound messages and produces outbound ones. Each
// inbound message is handled in its own goroutine; per-chat isolation
// comes from the session manager.
type Loop struct {
	msgBus     *bus.MessageBus
	extractor  Extractor
	summarizer Summarizer
	sessions   *session.Manager
	tracker    *metrics.Tracker
	running    atomic.Bool
}

func NewLoop(msgBus *bus.MessageBus, extractor Extractor, summarizer Summarizer, tracker *metrics.Tracker) *Loop {
	return &Loop{
		msgBus:     msgBus,
		extractor:  extractor,
		summarizer: summarizer,
		sessions:   session.NewManager(),
		tracker:    tracker,
	}
}

// Run blocks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	l.running.Store(true)
	defer l.running.Store(false)

	logger.InfoCF("bot", "Loop started", nil)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-l.msgBus.InboundChan():
			go l.handleInbound(ctx, msg)
		}
	}
}

func (l *Loop) handleInbound(ctx context.Context, msg bus.InboundMessage) {
	switch msg.Kind {
	case bus.KindFile:
		l.processFile(ctx, msg)
	case bus.KindChoice:
		l.processChoice(ctx, msg)
	case bus.KindMessage:
		l.processText(msg)
	}
}

func (l *Loop) processText(msg bus.InboundMessage) {
	if strings.HasPrefix(msg.Content, "/start") {
		l.reply(msg, greeting)
		return
	}
	if strings.TrimSpace(msg.Content) != "" {
		l.reply(msg, "Send me an image or a PDF to extract its text.")
	}
}

func (l *Loop) processFile(ctx context.Context, msg bus.InboundMessage) {
	if msg.Attachment == nil {
		return
	}

	if !l.sessions.Begin(msg.ChatID) {
		l.reply(msg, "⏳ I'm still working on your previous file, one moment...")
		return
	}

	mimeType, err := media.DetectMIME(msg.Attachment.FileName, msg.Attachment.Data)
	if err != nil {
		l.failSession(msg, err)
		return
	}
	msg.Attachment.MimeType = mimeType

	l.reply(msg, "🔄 Processing file, please wait...")

	logger.InfoCF("bot", "Extracting document", map[string]interface{}{
		"chat_id":   msg.ChatID,
		"file_name": msg.Attachment.FileName,
		"mime_type": mimeType,
		"size":      len(msg.Attachment.Data),
	})

	text, err := l.extract(ctx, msg, mimeType)
	if err != nil {
		l.failSession(msg, err)
		return
	}

	key := l.sessions.StoreExtraction(msg.ChatID, text)
	l.msgBus.PublishOutbound(bus.OutboundMessage{
		Channel: msg.Channel,
		ChatID:  msg.ChatID,
		Content: "📝 Choose an output format:",
		Buttons: formatKeyboard(key),
	})
}

func (l *Loop) extract(ctx context.Context, msg bus.InboundMessage, mimeType string) (string, error) {
	notifier := bus.NewStatusNotifier(30*time.Second, func(elapsed time.Duration) {
		logger.InfoCF("bot", "Still waiting on extraction processor", map[string]interface{}{
			"chat_id":    msg.ChatID,
			"elapsed_ms": elapsed.Milliseconds(),
		})
	})
	defer notifier.Stop()

	start := time.Now()
	text, err := l.extractor.Extract(ctx, msg.Attachment.Data, mimeType)

	event := metrics.ProcessEvent{
		ChatID:     msg.ChatID,
		Kind:       "extract",
		MimeType:   mimeType,
		InputBytes: len(msg.Attachment.Data),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		event.Error = err.Error()
	} else {
		event.OutputChars = len(text)
	}
	l.track(event)

	return text, err
}

func (l *Loop) processChoice(ctx context.Context, msg bus.InboundMessage) {
	option, key, ok := parseChoice(msg.Content)
	if !ok {
		l.reply(msg, "❌ Invalid option.")
		return
	}

	if strings.HasPrefix(option, "summary_") {
		l.deliverSummary(msg, option, key)
		return
	}

	text, found := l.sessions.Extraction(msg.ChatID, key)
	if !found {
		l.reply(msg, "❌ Error retrieving processed text.")
		l.sessions.Reset(msg.ChatID)
		return
	}

	switch option {
	case "output_message":
		l.deliver(msg, "📜 Extracted Text:", text, artifact.FormatMessage, "extracted_text")
	case "output_txt":
		l.deliver(msg, "📜 Extracted Text:", text, artifact.FormatTXT, "extracted_text")
	case "output_both":
		l.deliver(msg, "📜 Extracted Text:", text, artifact.FormatBoth, "extracted_text")
	case "output_docx":
		l.deliver(msg, "📜 Extracted Text:", text, artifact.FormatDOCX, "extracted_text")
	case "output_summarize":
		l.summarize(ctx, msg, key, text)
	default:
		l.reply(msg, "❌ Invalid option.")
	}
}

func (l *Loop) summarize(ctx context.Context, msg bus.InboundMessage, key, text string) {
	l.reply(msg, "🔄 Summarizing document, please wait...")

	start := time.Now()
	summary, err := l.summarizer.Summarize(ctx, text)

	event := metrics.ProcessEvent{
		ChatID:     msg.ChatID,
		Kind:       "summarize",
		InputBytes: len(text),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		event.Error = err.Error()
	} else {
		event.OutputChars = len(summary)
	}
	l.track(event)

	if err != nil {
		l.failSession(msg, err)
		return
	}

	l.sessions.StoreSummary(msg.ChatID, key, summary)
	l.msgBus.PublishOutbound(bus.OutboundMessage{
		Channel: msg.Channel,
		ChatID:  msg.ChatID,
		Content: "📝 Choose an output format for the summary:",
		Buttons: summaryKeyboard(key),
	})
}

func (l *Loop) deliverSummary(msg bus.InboundMessage, option, key string) {
	summary, found := l.sessions.Summary(msg.ChatID, key)
	if !found {
		l.reply(msg, "❌ Error retrieving summary.")
		l.sessions.Reset(msg.ChatID)
		return
	}

	switch option {
	case "summary_message":
		l.deliver(msg, "📝 Document Summary:", summary, artifact.FormatMessage, "document_summary")
	case "summary_txt":
		l.deliver(msg, "📝 Document Summary:", summary, artifact.FormatTXT, "document_summary")
	case "summary_docx":
		l.deliver(msg, "📝 Document Summary:", summary, artifact.FormatDOCX, "document_summary")
	default:
		l.reply(msg, "❌ Invalid option.")
	}
}

// deliver renders text in the requested format and sends it. The text
// itself is never prefixed or truncated: the header goes out as its
// own message so chunk concatenation reproduces the exact content.
func (l *Loop) deliver(msg bus.InboundMessage, header, text string, format artifact.Format, baseName string) {
	l.sessions.SetState(msg.ChatID, session.StateDelivering)
	defer l.sessions.Complete(msg.ChatID)

	if format == artifact.FormatMessage || format == artifact.FormatBoth {
		l.reply(msg, header)
		for _, chunk := range artifact.ChunkMessage(text) {
			l.reply(msg, chunk)
		}
	}

	if format == artifact.FormatTXT || format == artifact.FormatBoth {
		a := artifact.BuildTXT(text, baseName+".txt")
		l.sendDocument(msg, a, "📄 Here is your text file.")
	}

	if format == artifact.FormatDOCX {
		a, err := artifact.BuildDOCX(text, baseName+".docx")
		if err != nil {
			logger.ErrorCF("bot", "Building DOCX failed", map[string]interface{}{
				"chat_id": msg.ChatID,
				"error":   err.Error(),
			})
			l.reply(msg, "❌ An error occurred while preparing the document.")
			return
		}
		l.sendDocument(msg, a, "📜 Here is your text as a Word document.")
	}
}

func (l *Loop) sendDocument(msg bus.InboundMessage, a artifact.Artifact, caption string) {
	l.msgBus.PublishOutbound(bus.OutboundMessage{
		Channel: msg.Channel,
		ChatID:  msg.ChatID,
		Document: &bus.DocumentPayload{
			FileName: a.FileName,
			MimeType: a.MimeType,
			Data:     a.Data,
			Caption:  caption,
		},
	})
}

// failSession reports a client failure to the user and resets the
// session. Nothing is swallowed: every error ends up in the chat.
func (l *Loop) failSession(msg bus.InboundMessage, err error) {
	logger.WarnCF("bot", "Interaction failed", map[string]interface{}{
		"chat_id": msg.ChatID,
		"error":   err.Error(),
	})

	l.reply(msg, userMessage(err))
	l.sessions.Reset(msg.ChatID)
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, media.ErrUnsupportedInput):
		return fmt.Sprintf("❌ %v", err)
	case errors.Is(err, docai.ErrNoText):
		return "❌ No text recognized."
	default:
		return "❌ An error occurred while processing the document. Please try again!"
	}
}

func (l *Loop) reply(msg bus.InboundMessage, content string) {
	l.msgBus.PublishOutbound(bus.OutboundMessage{
		Channel: msg.Channel,
		ChatID:  msg.ChatID,
		Content: content,
	})
}

func (l *Loop) track(event metrics.ProcessEvent) {
	if l.tracker != nil {
		l.tracker.Record(event)
	}
}

func parseChoice(data string) (option, key string, ok bool) {
	parts := strings.SplitN(data, "|", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func formatKeyboard(key string) [][]bus.Button {
	return [][]bus.Button{
		{
			{Label: "📩 Message", Data: "output_message|" + key},
			{Label: "📄 TXT File", Data: "output_txt|" + key},
		},
		{
			{Label: "📄+📩 TXT & Message", Data: "output_both|" + key},
			{Label: "📜 Word File (DOCX)", Data: "output_docx|" + key},
		},
		{
			{Label: "📝 Summarize Document", Data: "output_summarize|" + key},
		},
	}
}

func summaryKeyboard(key string) [][]bus.Button {
	return [][]bus.Button{
		{
			{Label: "📩 Message", Data: "summary_message|" + key},
			{Label: "📄 TXT File", Data: "summary_txt|" + key},
		},
		{
			{Label: "📜 Word File (DOCX)", Data: "summary_docx|" + key},
		},
	}
}
