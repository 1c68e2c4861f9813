package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"homeworkbot/internal/application/orchestrators"
	domain "homeworkbot/internal/domain/session"
)

// startUpload arms the schedule-upload flag for the admin's class.
func (b *Bot) startUpload(ctx context.Context, userID string, chatID int64, messageID int, sess *domain.Session) error {
	u, registered, err := b.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if !registered || !u.Role.IsAdmin() {
		return b.reply(chatID, "🚫 Только админы могут загружать расписание.", nil)
	}
	sess.StartUpload(u.Class)
	text := "📤 <b>Загрузка расписания</b>\n\n📷 Отправьте фото расписания.\n\n💡 <i>Совет: сожмите изображение для быстрой загрузки.</i>"
	kb := tgbotapi.NewInlineKeyboardMarkup(row(btn("❌ Отмена", cbMainMenu)))
	return b.respond(chatID, messageID, text, kb)
}

// continueUpload handles the next message while the upload flag is armed.
// Non-photo input re-prompts without disarming; the largest photo variant's
// file id is stored.
func (b *Bot) continueUpload(ctx context.Context, msg *tgbotapi.Message, userID string, chatID int64, sess *domain.Session) error {
	ok, err := b.isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		sess.Reset()
		return nil
	}

	if len(msg.Photo) == 0 {
		return b.reply(chatID, "❌ Отправьте именно фото (не файл и не текст).\n<i>Совет: сожмите изображение перед отправкой для быстрой загрузки</i>", nil)
	}
	largest := msg.Photo[len(msg.Photo)-1]

	if _, err := orchestrators.ExecuteSetSchedulePhoto(ctx, orchestrators.SetSchedulePhotoInput{
		ActorID: userID,
		PhotoID: largest.FileID,
	}, orchestrators.SetSchedulePhotoDeps{UserStore: b.users, HomeworkStore: b.homework}); err != nil {
		if errors.Is(err, orchestrators.ErrNotAdmin) || errors.Is(err, orchestrators.ErrNotRegistered) {
			sess.Reset()
			return nil
		}
		return fmt.Errorf("store schedule photo: %w", err)
	}
	sess.Reset()

	text := "✅ <b>Расписание успешно обновлено!</b>\n\n📅 Теперь ученики вашего класса смогут его просматривать."
	kb := tgbotapi.NewInlineKeyboardMarkup(
		row(btn("👁️ Посмотреть расписание", cbViewSchedule)),
		menuRow(),
	)
	return b.reply(chatID, text, markup(kb))
}
