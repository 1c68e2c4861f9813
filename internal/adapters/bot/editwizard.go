package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"homeworkbot/internal/application/orchestrators"
	"homeworkbot/internal/domain/homework"
	domain "homeworkbot/internal/domain/session"
)

func (b *Bot) editDeps() orchestrators.SaveTaskDeps {
	return orchestrators.SaveTaskDeps{UserStore: b.users, HomeworkStore: b.homework}
}

// enterEditPanel gates the edit panel behind a fresh admin check.
func (b *Bot) enterEditPanel(ctx context.Context, userID string, chatID int64, messageID int) error {
	ok, err := b.isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return b.reply(chatID, "🚫 <b>Доступ запрещён</b>\nЭта команда доступна только администраторам класса.", nil)
	}
	return b.showEditPanel(chatID, messageID)
}

// startEditWizard begins date selection. Admin is re-checked at entry; a
// non-admin with leftover wizard keys gets them cleared, not honored.
func (b *Bot) startEditWizard(ctx context.Context, userID string, chatID int64, messageID int, sess *domain.Session) error {
	ok, err := b.isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		sess.Reset()
		return b.reply(chatID, "🚫 <b>Доступ запрещён</b>\nЭта команда доступна только администраторам класса.", nil)
	}
	sess.StartEdit()
	return b.respond(chatID, messageID, "📅 <b>Выберите день</b>", numberKeyboard(31, 7, prefEditDay, cbMainMenu))
}

func (b *Bot) editChooseDay(chatID int64, messageID int, raw string, sess *domain.Session) error {
	if sess.Flow != domain.FlowEditing || sess.Edit.Step != domain.EditStepDay {
		return b.staleSession(chatID, messageID, "✏️ Редактировать ДЗ", cbEditPanel)
	}
	day, err := strconv.Atoi(raw)
	if err != nil || day < 1 || day > 31 {
		return b.respond(chatID, messageID, "❌ Выберите день кнопкой.", numberKeyboard(31, 7, prefEditDay, cbMainMenu))
	}
	sess.Edit.Day = day
	sess.Edit.Step = domain.EditStepMonth
	return b.respond(chatID, messageID, "📅 <b>Выберите месяц</b>", numberKeyboard(12, 6, prefEditMonth, cbMainMenu))
}

func (b *Bot) editChooseMonth(chatID int64, messageID int, raw string, sess *domain.Session) error {
	if sess.Flow != domain.FlowEditing || sess.Edit.Step != domain.EditStepMonth {
		return b.staleSession(chatID, messageID, "✏️ Редактировать ДЗ", cbEditPanel)
	}
	month, err := strconv.Atoi(raw)
	if err != nil || month < 1 || month > 12 {
		return b.respond(chatID, messageID, "❌ Выберите месяц кнопкой.", numberKeyboard(12, 6, prefEditMonth, cbMainMenu))
	}
	sess.Edit.Month = month
	sess.Edit.Step = domain.EditStepYear
	return b.respond(chatID, messageID, "📅 <b>Выберите год</b>", yearKeyboard(b.now(), prefEditYear, cbMainMenu))
}

// editChooseYear completes the date. An impossible composition (29.02.2023)
// is rejected here, before any repository read, and the step does not advance.
func (b *Bot) editChooseYear(ctx context.Context, userID string, chatID int64, messageID int, raw string, sess *domain.Session) error {
	if sess.Flow != domain.FlowEditing || sess.Edit.Step != domain.EditStepYear {
		return b.staleSession(chatID, messageID, "✏️ Редактировать ДЗ", cbEditPanel)
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return b.respond(chatID, messageID, "❌ Выберите год кнопкой.", yearKeyboard(b.now(), prefEditYear, cbMainMenu))
	}
	if !homework.ValidDate(sess.Edit.Day, sess.Edit.Month, year) {
		text := fmt.Sprintf("❌ <b>Даты %02d.%02d.%d не существует.</b>\nВыберите другой год или начните заново.", sess.Edit.Day, sess.Edit.Month, year)
		return b.respond(chatID, messageID, text, yearKeyboard(b.now(), prefEditYear, cbMainMenu))
	}
	sess.Edit.Year = year
	sess.Edit.Step = domain.EditStepAction
	return b.showEditDateConfirm(ctx, userID, chatID, messageID, sess)
}

// showEditDateConfirm renders the chosen date with its current subjects and
// the add/delete/change-date actions.
func (b *Bot) showEditDateConfirm(ctx context.Context, userID string, chatID int64, messageID int, sess *domain.Session) error {
	if sess.Flow != domain.FlowEditing || sess.Edit.Year == 0 {
		return b.staleSession(chatID, messageID, "✏️ Редактировать ДЗ", cbEditPanel)
	}
	ok, err := b.isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		sess.Reset()
		return b.reply(chatID, "🚫 <b>Доступ запрещён</b>", nil)
	}
	sess.Edit.Step = domain.EditStepAction
	sess.Edit.Subject = ""

	u, _, err := b.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	date := homework.DateKey(sess.Edit.Day, sess.Edit.Month, sess.Edit.Year)
	set, err := b.homework.GetByClass(ctx, u.Class)
	if err != nil {
		return fmt.Errorf("load homework: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "✏️ <b>Редактирование ДЗ</b>\n📅 Дата: <b>%s</b>\n🏫 Класс: <b>%s</b>\n", formatDate(date), esc(u.Class))
	subjects := set.Data.Subjects(date)
	if len(subjects) == 0 {
		sb.WriteString("\n<i>На эту дату заданий пока нет.</i>")
	} else {
		sb.WriteString("\n<b>Текущие задания:</b>\n")
		for _, s := range subjects {
			fmt.Fprintf(&sb, "%s %s: <i>%s</i>\n", subjectIcon(s), esc(s), esc(truncate(set.Data[date][s], weekPreviewLimit)))
		}
	}
	return b.respond(chatID, messageID, sb.String(), editActionKeyboard())
}

func (b *Bot) editChooseAdd(chatID int64, messageID int, sess *domain.Session) error {
	if sess.Flow != domain.FlowEditing || sess.Edit.Year == 0 {
		return b.staleSession(chatID, messageID, "✏️ Редактировать ДЗ", cbEditPanel)
	}
	sess.Edit.Step = domain.EditStepSubject
	text := "📝 <b>Отправьте название предмета текстом.</b>\n💡 <i>Например: Алгебра, Физика, История</i>"
	kb := tgbotapi.NewInlineKeyboardMarkup(row(btn("↩️ Отмена", cbEditConfirm)))
	return b.respond(chatID, messageID, text, kb)
}

func (b *Bot) editChooseDelete(ctx context.Context, userID string, chatID int64, messageID int, sess *domain.Session) error {
	if sess.Flow != domain.FlowEditing || sess.Edit.Year == 0 {
		return b.staleSession(chatID, messageID, "✏️ Редактировать ДЗ", cbEditPanel)
	}
	u, registered, err := b.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if !registered || !u.Role.IsAdmin() {
		sess.Reset()
		return b.reply(chatID, "🚫 <b>Доступ запрещён</b>", nil)
	}
	date := homework.DateKey(sess.Edit.Day, sess.Edit.Month, sess.Edit.Year)
	set, err := b.homework.GetByClass(ctx, u.Class)
	if err != nil {
		return fmt.Errorf("load homework: %w", err)
	}
	subjects := set.Data.Subjects(date)
	if len(subjects) == 0 {
		kb := tgbotapi.NewInlineKeyboardMarkup(row(btn("↩️ Назад", cbEditConfirm)))
		return b.respond(chatID, messageID, "<i>На эту дату нечего удалять.</i>", kb)
	}
	sess.Edit.Step = domain.EditStepDelete
	return b.respond(chatID, messageID, "🗑️ <b>Выберите предмет для удаления</b>", deleteSubjectKeyboard(subjects))
}

func (b *Bot) editDeleteSubject(ctx context.Context, userID string, chatID int64, messageID int, subject string, sess *domain.Session) error {
	if sess.Flow != domain.FlowEditing || sess.Edit.Step != domain.EditStepDelete {
		return b.staleSession(chatID, messageID, "✏️ Редактировать ДЗ", cbEditPanel)
	}
	removed, err := orchestrators.ExecuteDeleteTask(ctx, orchestrators.DeleteTaskInput{
		ActorID: userID,
		Day:     sess.Edit.Day,
		Month:   sess.Edit.Month,
		Year:    sess.Edit.Year,
		Subject: subject,
	}, orchestrators.DeleteTaskDeps{UserStore: b.users, HomeworkStore: b.homework})
	switch {
	case errors.Is(err, orchestrators.ErrNotAdmin), errors.Is(err, orchestrators.ErrNotRegistered):
		sess.Reset()
		return b.reply(chatID, "🚫 <b>Доступ запрещён</b>", nil)
	case err != nil:
		return b.reply(chatID, "❌ Не удалось удалить задание. Попробуйте ещё раз.", nil)
	}
	if !removed {
		return b.showEditDateConfirm(ctx, userID, chatID, messageID, sess)
	}
	if err := b.reply(chatID, fmt.Sprintf("🗑️ <b>%s</b> удалён.", esc(subject)), nil); err != nil {
		return err
	}
	return b.showEditDateConfirm(ctx, userID, chatID, 0, sess)
}

// continueEditText feeds free-text (or media caption) input to the waiting
// edit step. Role loss mid-wizard clears the state silently.
func (b *Bot) continueEditText(ctx context.Context, msg *tgbotapi.Message, userID string, chatID int64, sess *domain.Session) error {
	ok, err := b.isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		sess.Reset()
		return nil
	}

	switch sess.Edit.Step {
	case domain.EditStepSubject:
		if msg.Text == "" {
			return b.reply(chatID, "❌ Отправьте название предмета текстом.\n<i>Например: Алгебра, Физика, История</i>", nil)
		}
		subject := homework.NormalizeSubject(msg.Text)
		sess.Edit.Subject = subject
		sess.Edit.Step = domain.EditStepTask
		text := fmt.Sprintf("%s <b>Предмет: %s</b>\n\n📝 Теперь отправьте домашнее задание:\n• Можно текст\n• Можно фото с подписью\n• Можно файл с описанием\n\n💡 <i>Старайтесь писать понятно и подробно</i>",
			subjectIcon(subject), esc(subject))
		kb := tgbotapi.NewInlineKeyboardMarkup(row(btn("↩️ Отмена", cbEditConfirm)))
		return b.reply(chatID, text, markup(kb))

	case domain.EditStepTask:
		task := msg.Text
		if task == "" {
			task = msg.Caption
		}
		// Empty content on a media message falls back to the placeholder
		// inside the orchestrator.
		result, err := orchestrators.ExecuteSaveTask(ctx, orchestrators.SaveTaskInput{
			ActorID: userID,
			Day:     sess.Edit.Day,
			Month:   sess.Edit.Month,
			Year:    sess.Edit.Year,
			Subject: sess.Edit.Subject,
			Task:    task,
		}, b.editDeps())
		switch {
		case errors.Is(err, orchestrators.ErrNotAdmin), errors.Is(err, orchestrators.ErrNotRegistered):
			sess.Reset()
			return nil
		case errors.Is(err, orchestrators.ErrInvalidDate):
			sess.Reset()
			return b.staleSession(chatID, 0, "✏️ Редактировать ДЗ", cbEditPanel)
		case err != nil:
			return b.reply(chatID, "❌ Не удалось сохранить задание. Попробуйте ещё раз.", nil)
		}
		sess.Edit.Step = domain.EditStepAction
		sess.Edit.Subject = ""
		text := fmt.Sprintf("✅ <b>ДЗ сохранено!</b>\n\n%s <b>%s</b>\n📅 Дата: %s\n🏫 Класс: %s\n\n📋 Задание:\n<i>%s</i>",
			subjectIcon(result.Subject), esc(result.Subject), formatDate(result.Date), esc(result.Class), esc(result.Task))
		return b.reply(chatID, text, markup(editSavedKeyboard()))
	}
	return nil
}
