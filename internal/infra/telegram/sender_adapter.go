package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"weather-bot/internal/domain/gateway/chat"
	"weather-bot/internal/domain/model"
)

// MessageSender is the part of *tgbotapi.BotAPI used to deliver messages
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// BotSenderAdapter adapts the Bot API client to the domain chat.Sender interface
type BotSenderAdapter struct {
	bot MessageSender
}

var _ chat.Sender = (*BotSenderAdapter)(nil)

func NewBotSenderAdapter(bot MessageSender) *BotSenderAdapter {
	return &BotSenderAdapter{bot: bot}
}

// Send delivers the reply as plain text. The Bot API client takes no context,
// so only an already cancelled ctx stops the call.
func (adapter *BotSenderAdapter) Send(ctx context.Context, reply model.Reply) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	message := tgbotapi.NewMessage(reply.ChatID, reply.Text)
	message.ReplyToMessageID = reply.ReplyToMessageID

	_, err := adapter.bot.Send(message)
	return err
}
