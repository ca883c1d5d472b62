package notify

import (
	"context"
	"fmt"

	"gopkg.in/telebot.v3"

	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/domain/notify"
	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/domain/obligation"
)

// TelebotSender delivers reminders to a fixed operations chat using the
// gopkg.in/telebot.v3 library.
type TelebotSender struct {
	bot    *telebot.Bot
	chatID int64
}

func NewTelebotSender(bot *telebot.Bot, chatID int64) *TelebotSender {
	return &TelebotSender{bot: bot, chatID: chatID}
}

// Send posts one reminder to the operations chat. telebot has no
// context-aware send; the bot client's own timeout applies.
func (s *TelebotSender) Send(_ context.Context, n notify.Notification) error {
	_, err := s.bot.Send(&telebot.Chat{ID: s.chatID}, formatMessage(n), &telebot.SendOptions{})
	if err != nil {
		return fmt.Errorf("telegram send failed: %w", err)
	}
	return nil
}

func formatMessage(n notify.Notification) string {
	if n.Category == obligation.CategoryDataBreach {
		return fmt.Sprintf("[%s] %s / %s: %s — authority deadline %s (%.1fh remaining)",
			n.Tier, n.TenantID, n.Category, n.Title, n.DueAt.Format("2006-01-02 15:04"), n.HoursRemaining)
	}
	return fmt.Sprintf("[%s] %s / %s: %s — due %s",
		n.Tier, n.TenantID, n.Category, n.Title, n.DueAt.Format("2006-01-02"))
}
