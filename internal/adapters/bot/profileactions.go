package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"homeworkbot/internal/application/orchestrators"
	domain "homeworkbot/internal/domain/session"
	"homeworkbot/internal/domain/user"
)

func (b *Bot) keyboardDeps() orchestrators.KeyboardDeps {
	return orchestrators.KeyboardDeps{UserStore: b.users}
}

// showReplyKeyboard re-sends the caller's quick-access reply keyboard.
func (b *Bot) showReplyKeyboard(ctx context.Context, userID string, chatID int64) error {
	u, registered, err := b.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	labels := user.DefaultKeyboard()
	if registered {
		labels = u.ActiveKeyboard()
	}
	return b.reply(chatID, "⌨️ Клавиатура быстрого доступа:", replyKeyboard(labels))
}

func (b *Bot) toggleNotifications(ctx context.Context, userID string, chatID int64, messageID int) error {
	_, err := orchestrators.ExecuteToggleNotifications(ctx, userID, b.keyboardDeps())
	if errors.Is(err, orchestrators.ErrNotRegistered) {
		return b.promptRegister(chatID)
	}
	if err != nil {
		return err
	}
	return b.showProfile(ctx, userID, chatID, messageID)
}

func (b *Bot) toggleKeyboardButton(ctx context.Context, userID string, chatID int64, messageID int, label string) error {
	_, err := orchestrators.ExecuteToggleKeyboardButton(ctx, orchestrators.ToggleKeyboardInput{UserID: userID, Label: label}, b.keyboardDeps())
	switch {
	case errors.Is(err, orchestrators.ErrNotRegistered):
		return b.promptRegister(chatID)
	case errors.Is(err, user.ErrUnknownButton):
		return b.reply(chatID, "❌ Такой кнопки нет в каталоге.", nil)
	case err != nil:
		return err
	}
	return b.showKeyboardConfig(ctx, userID, chatID, messageID)
}

// saveKeyboard applies the persisted selection as the live reply keyboard.
func (b *Bot) saveKeyboard(ctx context.Context, userID string, chatID int64) error {
	u, registered, err := b.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if !registered {
		return b.promptRegister(chatID)
	}
	return b.reply(chatID, "💾 <b>Клавиатура сохранена!</b>", replyKeyboard(u.ActiveKeyboard()))
}

func (b *Bot) resetKeyboard(ctx context.Context, userID string, chatID int64, messageID int) error {
	labels, err := orchestrators.ExecuteResetKeyboard(ctx, userID, b.keyboardDeps())
	if errors.Is(err, orchestrators.ErrNotRegistered) {
		return b.promptRegister(chatID)
	}
	if err != nil {
		return err
	}
	if err := b.reply(chatID, "🔄 <b>Клавиатура сброшена к стандартной.</b>", replyKeyboard(labels)); err != nil {
		return err
	}
	return b.showKeyboardConfig(ctx, userID, chatID, messageID)
}

func (b *Bot) confirmDeleteProfile(chatID int64, messageID int) error {
	text := "🗑️ <b>Удалить профиль?</b>\n\n⚠️ Это действие нельзя отменить. Все ваши настройки будут потеряны."
	return b.respond(chatID, messageID, text, deleteConfirmKeyboard())
}

func (b *Bot) deleteProfile(ctx context.Context, userID string, chatID int64, sess *domain.Session) error {
	err := orchestrators.ExecuteDeleteProfile(ctx, orchestrators.DeleteProfileInput{UserID: userID, ChatID: chatID}, orchestrators.DeleteProfileDeps{
		UserStore: b.users,
		Sessions:  b.sessions,
	})
	if errors.Is(err, orchestrators.ErrNotRegistered) {
		return b.promptRegister(chatID)
	}
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	sess.Reset()
	kb := tgbotapi.NewInlineKeyboardMarkup(row(btn("📝 Зарегистрироваться", cbRegEntry)))
	return b.reply(chatID, "🗑️ <b>Профиль удалён.</b>\nБудем рады видеть вас снова!", markup(kb))
}
