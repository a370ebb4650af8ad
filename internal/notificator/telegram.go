package notificator

import (
	"context"

	"github.com/go-telegram/bot"

	"github.com/aurum-app/aurum/pkg/logger"
)

// TelegramNotificator broadcasts price notifications to a configured
// Telegram chat, as a secondary channel next to Web Push.
type TelegramNotificator struct {
	logger *logger.Logger
	bot    *bot.Bot
	chatID string
}

func NewTelegramNotificator(logger *logger.Logger, token, chatID string) (*TelegramNotificator, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, err
	}
	return &TelegramNotificator{
		logger: logger,
		bot:    b,
		chatID: chatID,
	}, nil
}

func (t *TelegramNotificator) Broadcast(ctx context.Context, message string) {
	params := &bot.SendMessageParams{
		ChatID: t.chatID,
		Text:   message,
	}
	_, err := t.bot.SendMessage(ctx, params)
	if err != nil {
		t.logger.Error("Failed to send telegram broadcast: ", err)
	}
}
