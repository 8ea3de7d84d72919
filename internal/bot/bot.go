// Package bot — транспортный слой Telegram: приём обновлений, раскладка
// клавиатур, отправка файлов и нарезка длинных сообщений. Вся логика
// диалога живёт в engine.
package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/engine"
	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/log"
)

// maxMessageLength — предел Telegram на длину одного сообщения с запасом.
const maxMessageLength = 4000

type Bot struct {
	api    *tgbotapi.BotAPI
	engine *engine.Engine
	logger *log.Logger
}

func NewBot(token string, eng *engine.Engine, logger *log.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:    api,
		engine: eng,
		logger: logger.WithComponent("bot"),
	}, nil
}

// Start запускает long polling и обрабатывает обновления до отмены
// контекста. Каждое обновление уходит в свою горутину: порядок внутри
// одного пользователя обеспечивает движок.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot started", "username", b.api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	reply := b.engine.Handle(ctx, engine.Event{
		ExternalUserID: msg.From.ID,
		Text:           msg.Text,
	})
	b.send(msg.Chat.ID, reply)
}

func (b *Bot) send(chatID int64, reply engine.Reply) {
	parts := splitMessage(reply.Text, maxMessageLength)
	for i, part := range parts {
		msg := tgbotapi.NewMessage(chatID, part)
		// Клавиатура только на последней части.
		if i == len(parts)-1 {
			switch {
			case reply.RemoveOptions:
				msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
			case len(reply.Options) > 0:
				msg.ReplyMarkup = optionsKeyboard(reply.Options)
			}
		}
		if _, err := b.api.Send(msg); err != nil {
			b.logger.Error("send message", "chat_id", chatID, "error", err)
			return
		}
	}

	if reply.Attachment != nil {
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
			Name:  reply.Attachment.Name,
			Bytes: reply.Attachment.Data,
		})
		if _, err := b.api.Send(doc); err != nil {
			b.logger.Error("send attachment", "chat_id", chatID, "error", err)
		}
	}
}

// splitMessage режет текст по строкам на части не длиннее limit.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var parts []string
	var current string
	for _, line := range splitLines(text) {
		if len(current)+len(line)+1 > limit && current != "" {
			parts = append(parts, current)
			current = ""
		}
		if current != "" {
			current += "\n"
		}
		current += line
	}
	if current != "" {
		parts = append(parts, current)
	}
	return parts
}

func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i])
			start = i + 1
		}
	}
	return append(lines, text[start:])
}
