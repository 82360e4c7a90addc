// Package notify pushes schedule-change summaries to the managers'
// Telegram chats. Notification failures are logged and never fail the
// operation that triggered them.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/matrix"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Sender delivers a text message to one chat.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// TelegramSender sends through the Bot API.
type TelegramSender struct {
	bot *tgbotapi.BotAPI
}

// NewTelegramSender creates a sender from a bot token.
func NewTelegramSender(token string) (*TelegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &TelegramSender{bot: bot}, nil
}

func (s *TelegramSender) Send(_ context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := s.bot.Send(msg)
	return err
}

// Notifier fans a message out to the manager chats, throttled so a
// burst of commits cannot trip the Bot API limits.
type Notifier struct {
	sender  Sender
	chatIDs []int64
	limiter *rate.Limiter
	logger  *zerolog.Logger
}

// New creates a notifier. A nil sender or empty chat list yields a
// notifier that silently does nothing.
func New(sender Sender, chatIDs []int64, logger *zerolog.Logger) *Notifier {
	return &Notifier{
		sender:  sender,
		chatIDs: chatIDs,
		limiter: rate.NewLimiter(rate.Limit(20), 30),
		logger:  logger,
	}
}

// ScheduleCommitted notifies managers about an applied matrix commit.
func (n *Notifier) ScheduleCommitted(ctx context.Context, teamName string, plan matrix.Plan) {
	if n.sender == nil || len(n.chatIDs) == 0 {
		return
	}
	text := FormatCommitSummary(teamName, plan)
	for _, chatID := range n.chatIDs {
		if err := n.limiter.Wait(ctx); err != nil {
			n.logger.Error().Err(err).Msg("notification rate limiter interrupted")
			return
		}
		if err := n.sender.Send(ctx, chatID, text); err != nil {
			n.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send schedule notification")
		}
	}
}

// FormatCommitSummary renders a commit plan as a short message.
func FormatCommitSummary(teamName string, plan matrix.Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Schedule updated for team %q:\n", teamName)
	if plan.Empty() {
		b.WriteString("no changes")
		return b.String()
	}
	for _, op := range plan.ToAdd {
		fmt.Fprintf(&b, "+ shift %s on %s\n", op.WorkShiftID, op.Days)
	}
	for _, op := range plan.ToUpdate {
		fmt.Fprintf(&b, "~ shift %s now on %s\n", op.WorkShiftID, op.Days)
	}
	for _, op := range plan.ToRemove {
		fmt.Fprintf(&b, "- shift %s\n", op.WorkShiftID)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatDaySummary renders a weekday set for messages.
func FormatDaySummary(days model.WeekdaySet) string {
	if days.IsEmpty() {
		return "no days"
	}
	return days.String()
}
