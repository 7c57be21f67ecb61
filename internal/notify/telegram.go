package notify

import (
	"encoding/json"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"mariiahub/internal/config"
	"mariiahub/internal/domain"
)

// TelegramSender is the slice of the bot API the notifier needs.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier mirrors alerts into an ops channel. Used by the salon
// staff to see kiosks going offline and sync failures without shell access.
type TelegramNotifier struct {
	sender TelegramSender
	chatID int64
	logger *zerolog.Logger
}

func NewTelegramNotifier(cfg config.TelegramConfig, logger *zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}
	return &TelegramNotifier{sender: bot, chatID: cfg.ChatID, logger: logger}, nil
}

// NewTelegramNotifierWithSender wires a custom sender, used in tests.
func NewTelegramNotifierWithSender(sender TelegramSender, chatID int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{sender: sender, chatID: chatID, logger: logger}
}

func (n *TelegramNotifier) Notify(kind domain.AlertKind, message string, data map[string]interface{}) {
	text := fmt.Sprintf("[%s] %s", strings.ToUpper(string(kind)), message)
	if len(data) > 0 {
		if raw, err := json.Marshal(data); err == nil {
			text += "\n" + string(raw)
		}
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.sender.Send(msg); err != nil {
		n.logger.Error().Err(err).Msg("Telegram alert send failed")
	}
}
