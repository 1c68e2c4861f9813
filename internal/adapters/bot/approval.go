package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"homeworkbot/internal/application/orchestrators"
	"homeworkbot/internal/domain/approval"
	"homeworkbot/internal/domain/user"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// NotifyAdminRequest delivers an approval prompt with approve/reject buttons
// carrying the request id.
func (b *Bot) NotifyAdminRequest(_ context.Context, adminChatID int64, req approval.Request, requester user.User) error {
	handle := "не указан"
	if requester.Username != "" {
		handle = "@" + requester.Username
	}
	text := fmt.Sprintf(
		"🎓 <b>Запрос на права администратора</b>\n\n👤 %s\n💬 Юзернейм: %s\n🏫 Класс: <b>%s</b>",
		esc(requester.FullName()), esc(handle), esc(req.Class))
	msg := tgbotapi.NewMessage(adminChatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = approvalKeyboard(req.ID)
	_, err := b.api.Send(msg)
	return err
}

// NotifyDecision tells the requester the outcome.
func (b *Bot) NotifyDecision(_ context.Context, userID string, approved bool) error {
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return fmt.Errorf("bad requester id %q: %w", userID, err)
	}
	text := "🎉 <b>Ваш запрос одобрен!</b>\nТеперь вы администратор класса."
	if !approved {
		text = "😔 <b>Ваш запрос отклонён.</b>\nВы остаётесь учеником."
	}
	return b.reply(chatID, text, nil)
}

// requestAdmin starts the moderated promotion flow from the profile.
func (b *Bot) requestAdmin(ctx context.Context, userID string, chatID int64, messageID int) error {
	_, err := orchestrators.ExecuteRequestAdmin(ctx, orchestrators.RequestAdminInput{UserID: userID}, orchestrators.RequestAdminDeps{
		UserStore:     b.users,
		ApprovalStore: b.approvals,
		Notifier:      b,
		AdminChatIDs:  b.cfg.AdminChatIDs,
	})
	switch {
	case errors.Is(err, orchestrators.ErrNotRegistered):
		return b.promptRegister(chatID)
	case errors.Is(err, orchestrators.ErrAlreadyAdmin):
		return b.respond(chatID, messageID, "✅ Вы уже администратор.", tgbotapi.NewInlineKeyboardMarkup(menuRow()))
	case errors.Is(err, orchestrators.ErrRequestPending):
		return b.respond(chatID, messageID, "⏳ Ваш запрос уже на рассмотрении.", tgbotapi.NewInlineKeyboardMarkup(menuRow()))
	case err != nil:
		return fmt.Errorf("request admin: %w", err)
	}
	text := "📨 <b>Запрос отправлен!</b>\n\nАдминистраторы получили уведомление. Вы узнаете о решении здесь."
	return b.respond(chatID, messageID, text, tgbotapi.NewInlineKeyboardMarkup(menuRow()))
}

// isAdminChat reports whether chatID is one of the configured privileged
// recipients.
func (b *Bot) isAdminChat(chatID int64) bool {
	for _, id := range b.cfg.AdminChatIDs {
		if id == chatID {
			return true
		}
	}
	return false
}

// resolveAdminRequest applies a moderator's button press. Decisions are only
// accepted from the configured admin chats, where the prompts were sent.
func (b *Bot) resolveAdminRequest(ctx context.Context, deciderID string, chatID int64, messageID int, requestID string, approve bool) error {
	if !b.isAdminChat(chatID) {
		slog.Warn("admin_decision_from_unknown_chat", "chat", chatID, "request_id", requestID)
		return b.respond(chatID, messageID, "🚫 <b>Доступ запрещён</b>", tgbotapi.NewInlineKeyboardMarkup(menuRow()))
	}
	req, err := orchestrators.ExecuteResolveAdminRequest(ctx, orchestrators.ResolveAdminRequestInput{
		RequestID: requestID,
		Approve:   approve,
		DecidedBy: deciderID,
	}, orchestrators.ResolveAdminRequestDeps{
		UserStore:     b.users,
		ApprovalStore: b.approvals,
		Notifier:      b,
	})
	if errors.Is(err, approval.ErrAlreadyDecided) {
		return b.respond(chatID, messageID, "ℹ️ Этот запрос уже обработан.", tgbotapi.NewInlineKeyboardMarkup(menuRow()))
	}
	if err != nil {
		return fmt.Errorf("resolve admin request: %w", err)
	}
	verdict := "✅ Запрос одобрен."
	if req.Status == approval.StatusRejected {
		verdict = "❌ Запрос отклонён."
	}
	var none tgbotapi.InlineKeyboardMarkup
	return b.respond(chatID, messageID, verdict, none)
}
