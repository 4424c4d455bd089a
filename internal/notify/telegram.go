package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TelegramNotifier is the push channel: an outbound-only Telegram client
// sending to a single configured chat.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    *zap.Logger
}

func NewTelegramNotifier(token string, chatID int64, log *zap.Logger) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	log.Info("telegram notifier authorized", zap.String("account", api.Self.UserName))
	return &TelegramNotifier{api: api, chatID: chatID, log: log}, nil
}

func (n *TelegramNotifier) Send(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, subject+"\n\n"+body)
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
