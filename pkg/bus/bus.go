package bus

import "github.com/doclensbot/doclens/pkg/media"

// Message kinds published by channel adapters.
const (
	KindMessage = "message" // plain text / command
	KindFile    = "file"    // document or photo upload
	KindChoice  = "choice"  // inline button selection
)

// InboundMessage is an event received from a chat channel.
type InboundMessage struct {
	Channel  string
	SenderID string
	ChatID   string
	Kind     string
	Content  string // text, command, or callback data

	// Attachment is set for KindFile.
	Attachment *media.Attachment

	Metadata map[string]string
}

// Button is one inline keyboard button.
type Button struct {
	Label string
	Data  string
}

// DocumentPayload is a file to upload to the chat.
type DocumentPayload struct {
	FileName string
	MimeType string
	Data     []byte
	Caption  string
}

// OutboundMessage is sent back to a chat channel. Content and Document
// may both be set; the channel sends the text first.
type OutboundMessage struct {
	Channel  string
	ChatID   string
	Content  string
	Buttons  [][]Button
	Document *DocumentPayload
}

// MessageBus decouples channel adapters from the bot loop.
type MessageBus struct {
	inbound  chan InboundMessage
	outbound chan OutboundMessage
}

func NewMessageBus() *MessageBus {
	return &MessageBus{
		inbound:  make(chan InboundMessage, 64),
		outbound: make(chan OutboundMessage, 64),
	}
}

func (b *MessageBus) PublishInbound(msg InboundMessage) {
	b.inbound <- msg
}

func (b *MessageBus) PublishOutbound(msg OutboundMessage) {
	b.outbound <- msg
}

func (b *MessageBus) InboundChan() <-chan InboundMessage {
	return b.inbound
}

func (b *MessageBus) OutboundChan() <-chan OutboundMessage {
	return b.outbound
}
