package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"homeworkbot/internal/application/orchestrators"
	domain "homeworkbot/internal/domain/session"
	"homeworkbot/internal/domain/user"
)

// showRegEntry is the registration entry point. An already-registered caller
// is short-circuited to their existing registration instead of a second run.
func (b *Bot) showRegEntry(ctx context.Context, userID string, chatID int64, messageID int) error {
	u, registered, err := b.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if registered {
		role := "🎒 Ученик"
		if u.Role == user.RoleAdmin {
			role = "🎓 Админ"
		}
		text := fmt.Sprintf("✅ <b>Вы уже зарегистрированы!</b>\n\n🏫 Ваш класс: <b>%s</b>\n🎭 Роль: %s", esc(u.Class), role)
		kb := tgbotapi.NewInlineKeyboardMarkup(
			row(btn("🏠 В главное меню", cbMainMenu)),
			row(btn("👤 Мой профиль", cbShowProfile)),
			row(btn("🔄 Перерегистрироваться", cbDeleteAsk)),
		)
		return b.respond(chatID, messageID, text, kb)
	}

	text := "📋 <b>Регистрация</b>\n\n" +
		"┌ Шаг 1 из 4: <b>Начало</b>\n├ Шаг 2: Выбор роли\n├ Шаг 3: Выбор класса\n└ Шаг 4: Подтверждение\n\n" +
		"⏱️ Это займёт меньше минуты!\n\n<i>👇 Нажмите «Продолжить» чтобы начать</i>"
	return b.respond(chatID, messageID, text, regIntroKeyboard())
}

func (b *Bot) startRegistration(ctx context.Context, userID string, chatID int64, messageID int, sess *domain.Session) error {
	if _, registered, err := b.loadUser(ctx, userID); err != nil {
		return err
	} else if registered {
		return b.showRegEntry(ctx, userID, chatID, messageID)
	}
	sess.StartRegistration()
	text := "🎭 <b>Шаг 2 из 4: Выберите роль</b>\n\n🎒 <b>Ученик</b> — просмотр ДЗ и расписания\n🎓 <b>Администратор</b> — ещё и редактирование ДЗ (требует подтверждения)"
	return b.respond(chatID, messageID, text, regRoleKeyboard())
}

func (b *Bot) regChooseRole(chatID int64, messageID int, role string, sess *domain.Session) error {
	if sess.Flow != domain.FlowRegistering || sess.Reg.Step != domain.RegStepRole {
		return b.staleSession(chatID, messageID, "📝 Зарегистрироваться", cbRegEntry)
	}
	switch role {
	case "student":
		sess.Reg.WantsAdmin = false
	case "admin":
		sess.Reg.WantsAdmin = true
	default:
		return b.respond(chatID, messageID, "❌ Неизвестная роль. Выберите вариант кнопкой.", regRoleKeyboard())
	}
	sess.Reg.Step = domain.RegStepLetter
	text := "🏫 <b>Шаг 3 из 4: Выберите букву класса</b>"
	return b.respond(chatID, messageID, text, regLetterKeyboard())
}

func (b *Bot) regChooseLetter(chatID int64, messageID int, letter string, sess *domain.Session) error {
	if sess.Flow != domain.FlowRegistering || sess.Reg.Step != domain.RegStepLetter {
		return b.staleSession(chatID, messageID, "📝 Зарегистрироваться", cbRegEntry)
	}
	known := false
	for _, l := range user.ClassLetters {
		if l == letter {
			known = true
			break
		}
	}
	if !known {
		return b.respond(chatID, messageID, "❌ Такой буквы нет. Выберите вариант кнопкой.", regLetterKeyboard())
	}
	sess.Reg.Letter = letter
	sess.Reg.Step = domain.RegStepGrade
	text := fmt.Sprintf("🔢 <b>Выберите номер класса</b>\n\nБуква: <b>%s</b>", esc(letter))
	return b.respond(chatID, messageID, text, regGradeKeyboard(b.minGrade(), b.maxGrade()))
}

func (b *Bot) regChooseGrade(ctx context.Context, userID string, chatID int64, messageID int, raw string, sess *domain.Session) error {
	if sess.Flow != domain.FlowRegistering || sess.Reg.Step != domain.RegStepGrade {
		return b.staleSession(chatID, messageID, "📝 Зарегистрироваться", cbRegEntry)
	}
	grade, err := strconv.Atoi(raw)
	if err != nil || grade < b.minGrade() || grade > b.maxGrade() {
		return b.respond(chatID, messageID, "❌ Такого класса нет. Выберите вариант кнопкой.", regGradeKeyboard(b.minGrade(), b.maxGrade()))
	}
	sess.Reg.Grade = grade
	sess.Reg.Step = domain.RegStepConfirm

	role := "🎒 Ученик"
	if sess.Reg.WantsAdmin {
		role = "🎓 Администратор (после подтверждения)"
	}
	text := fmt.Sprintf("📋 <b>Шаг 4 из 4: Подтверждение</b>\n\n🎭 Роль: %s\n🏫 Класс: <b>%s%d</b>\n\n<i>Всё верно?</i>",
		role, esc(sess.Reg.Letter), grade)
	return b.respond(chatID, messageID, text, regConfirmKeyboard())
}

// confirmRegistration creates the user record. The admin path registers as a
// plain user first and then opens the moderated approval flow.
func (b *Bot) confirmRegistration(ctx context.Context, from *tgbotapi.User, userID string, chatID int64, messageID int, sess *domain.Session) error {
	if sess.Flow != domain.FlowRegistering || sess.Reg.Step != domain.RegStepConfirm {
		return b.staleSession(chatID, messageID, "📝 Зарегистрироваться", cbRegEntry)
	}

	input := orchestrators.RegisterUserInput{
		ID:     userID,
		Letter: sess.Reg.Letter,
		Grade:  sess.Reg.Grade,
	}
	if from != nil {
		input.Username = from.UserName
		input.FirstName = from.FirstName
		input.LastName = from.LastName
	}
	wantsAdmin := sess.Reg.WantsAdmin
	u, err := orchestrators.ExecuteRegisterUser(ctx, input, orchestrators.RegisterUserDeps{
		UserStore: b.users,
		MinGrade:  b.minGrade(),
		MaxGrade:  b.maxGrade(),
	})
	if errors.Is(err, orchestrators.ErrAlreadyRegistered) {
		sess.Reset()
		return b.showRegEntry(ctx, userID, chatID, messageID)
	}
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	sess.Reset()

	text := fmt.Sprintf("🎉 <b>Регистрация завершена!</b>\n\n🏫 Ваш класс: <b>%s</b>\n\n<i>Клавиатура быстрого доступа уже включена.</i>", esc(u.Class))
	kb := tgbotapi.NewInlineKeyboardMarkup(
		row(btn("📆 ДЗ на сегодня", cbDay)),
		menuRow(),
	)
	if err := b.respond(chatID, messageID, text, kb); err != nil {
		return err
	}
	if err := b.reply(chatID, "⌨️ Клавиатура быстрого доступа:", replyKeyboard(u.ActiveKeyboard())); err != nil {
		return err
	}

	if wantsAdmin {
		return b.requestAdmin(ctx, userID, chatID, 0)
	}
	return nil
}

func (b *Bot) minGrade() int {
	if b.cfg.MinGrade > 0 {
		return b.cfg.MinGrade
	}
	return user.DefaultMinGrade
}

func (b *Bot) maxGrade() int {
	if b.cfg.MaxGrade > 0 {
		return b.cfg.MaxGrade
	}
	return user.DefaultMaxGrade
}
