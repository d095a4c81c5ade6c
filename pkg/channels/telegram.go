// Package channels contains chat transport adapters. Only Telegram is
// wired; the bus keeps the seam between transport and orchestration.
package channels

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/doclensbot/doclens/pkg/bus"
	"github.com/doclensbot/doclens/pkg/logger"
	"github.com/doclensbot/doclens/pkg/media"
)

// Name identifies this channel on bus messages.
const Name = "telegram"

// TelegramChannel bridges the Telegram bot API and the message bus:
// inbound updates become InboundMessages, OutboundMessages become
// sends.
type TelegramChannel struct {
	bot    *telego.Bot
	msgBus *bus.MessageBus
}

func NewTelegramChannel(token string, msgBus *bus.MessageBus) (*TelegramChannel, error) {
	bot, err := telego.NewBot(token, telego.WithDefaultLogger(false, true))
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	return &TelegramChannel{bot: bot, msgBus: msgBus}, nil
}

// Run starts long polling and the outbound sender, blocking until ctx
// is cancelled.
func (c *TelegramChannel) Run(ctx context.Context) error {
	updates, err := c.bot.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting long polling: %w", err)
	}

	go c.sendLoop(ctx)

	logger.InfoCF("telegram", "Channel started", nil)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			c.handleUpdate(ctx, update)
		}
	}
}

func (c *TelegramChannel) handleUpdate(ctx context.Context, update telego.Update) {
	switch {
	case update.CallbackQuery != nil:
		c.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		c.handleMessage(ctx, update.Message)
	}
}

func (c *TelegramChannel) handleMessage(ctx context.Context, msg *telego.Message) {
	chatID := strconv.FormatInt(msg.Chat.ID, 10)
	senderID := ""
	if msg.From != nil {
		senderID = strconv.FormatInt(msg.From.ID, 10)
	}

	var fileID, fileName string
	switch {
	case msg.Document != nil:
		fileID = msg.Document.FileID
		fileName = msg.Document.FileName
	case len(msg.Photo) > 0:
		// Last photo size is the largest
		photo := msg.Photo[len(msg.Photo)-1]
		fileID = photo.FileID
		fileName = photo.FileID + ".jpg"
	default:
		c.msgBus.PublishInbound(bus.InboundMessage{
			Channel:  Name,
			SenderID: senderID,
			ChatID:   chatID,
			Kind:     bus.KindMessage,
			Content:  msg.Text,
		})
		return
	}

	data, err := c.downloadFile(ctx, fileID)
	if err != nil {
		logger.ErrorCF("telegram", "File download failed", map[string]interface{}{
			"chat_id": chatID,
			"file_id": fileID,
			"error":   err.Error(),
		})
		c.sendText(ctx, msg.Chat.ID, "❌ Could not download your file. Please try again!")
		return
	}

	c.msgBus.PublishInbound(bus.InboundMessage{
		Channel:  Name,
		SenderID: senderID,
		ChatID:   chatID,
		Kind:     bus.KindFile,
		Attachment: &media.Attachment{
			FileName: fileName,
			Data:     data,
		},
	})
}

func (c *TelegramChannel) handleCallback(ctx context.Context, query *telego.CallbackQuery) {
	// Acknowledge first so the button stops spinning
	if err := c.bot.AnswerCallbackQuery(ctx, &telego.AnswerCallbackQueryParams{
		CallbackQueryID: query.ID,
	}); err != nil {
		logger.WarnCF("telegram", "Answering callback query failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if query.Message == nil {
		return
	}

	c.msgBus.PublishInbound(bus.InboundMessage{
		Channel:  Name,
		SenderID: strconv.FormatInt(query.From.ID, 10),
		ChatID:   strconv.FormatInt(query.Message.GetChat().ID, 10),
		Kind:     bus.KindChoice,
		Content:  query.Data,
	})
}

func (c *TelegramChannel) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	tgFile, err := c.bot.GetFile(ctx, &telego.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	data, err := tu.DownloadFile(c.bot.FileDownloadURL(tgFile.FilePath))
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	return data, nil
}

func (c *TelegramChannel) sendLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.msgBus.OutboundChan():
			c.send(ctx, msg)
		}
	}
}

func (c *TelegramChannel) send(ctx context.Context, msg bus.OutboundMessage) {
	chatID, err := strconv.ParseInt(msg.ChatID, 10, 64)
	if err != nil {
		logger.ErrorCF("telegram", "Invalid chat id on outbound message", map[string]interface{}{
			"chat_id": msg.ChatID,
		})
		return
	}

	if msg.Content != "" {
		params := tu.Message(tu.ID(chatID), msg.Content)
		if markup := inlineKeyboard(msg.Buttons); markup != nil {
			params = params.WithReplyMarkup(markup)
		}
		if _, err := c.bot.SendMessage(ctx, params); err != nil {
			logger.ErrorCF("telegram", "Sending message failed", map[string]interface{}{
				"chat_id": msg.ChatID,
				"error":   err.Error(),
			})
		}
	}

	if msg.Document != nil {
		doc := tu.Document(tu.ID(chatID), tu.FileFromBytes(msg.Document.Data, msg.Document.FileName))
		if msg.Document.Caption != "" {
			doc = doc.WithCaption(msg.Document.Caption)
		}
		if _, err := c.bot.SendDocument(ctx, doc); err != nil {
			logger.ErrorCF("telegram", "Sending document failed", map[string]interface{}{
				"chat_id":   msg.ChatID,
				"file_name": msg.Document.FileName,
				"error":     err.Error(),
			})
		}
	}
}

func (c *TelegramChannel) sendText(ctx context.Context, chatID int64, text string) {
	if _, err := c.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		logger.ErrorCF("telegram", "Sending message failed", map[string]interface{}{
			"chat_id": chatID,
			"error":   err.Error(),
		})
	}
}

func inlineKeyboard(buttons [][]bus.Button) *telego.InlineKeyboardMarkup {
	if len(buttons) == 0 {
		return nil
	}

	rows := make([][]telego.InlineKeyboardButton, 0, len(buttons))
	for _, row := range buttons {
		btns := make([]telego.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			btns = append(btns, tu.InlineKeyboardButton(b.Label).WithCallbackData(b.Data))
		}
		rows = append(rows, btns)
	}
	return &telego.InlineKeyboardMarkup{InlineKeyboard: rows}
}
