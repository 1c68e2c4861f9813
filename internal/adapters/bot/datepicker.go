package bot

import (
	"context"
	"fmt"
	"strconv"

	"homeworkbot/internal/domain/homework"
	domain "homeworkbot/internal/domain/session"
)

// startDatePicker begins the ad-hoc date lookup wizard. Any registered user
// may run it.
func (b *Bot) startDatePicker(ctx context.Context, userID string, chatID int64, messageID int, sess *domain.Session) error {
	if _, registered, err := b.loadUser(ctx, userID); err != nil {
		return err
	} else if !registered {
		return b.promptRegister(chatID)
	}
	sess.StartDatePick()
	return b.respond(chatID, messageID, "🗓️ <b>Выберите день</b>", numberKeyboard(31, 7, prefPickDay, cbMainMenu))
}

func (b *Bot) pickChooseDay(chatID int64, messageID int, raw string, sess *domain.Session) error {
	if sess.Flow != domain.FlowPickingDate || sess.Pick.Step != domain.PickStepDay {
		return b.staleSession(chatID, messageID, "🔍 Выбор дня", cbChoiceDay)
	}
	day, err := strconv.Atoi(raw)
	if err != nil || day < 1 || day > 31 {
		return b.respond(chatID, messageID, "❌ Выберите день кнопкой.", numberKeyboard(31, 7, prefPickDay, cbMainMenu))
	}
	sess.Pick.Day = day
	sess.Pick.Step = domain.PickStepMonth
	return b.respond(chatID, messageID, "🗓️ <b>Выберите месяц</b>", numberKeyboard(12, 6, prefPickMonth, cbMainMenu))
}

func (b *Bot) pickChooseMonth(chatID int64, messageID int, raw string, sess *domain.Session) error {
	if sess.Flow != domain.FlowPickingDate || sess.Pick.Step != domain.PickStepMonth {
		return b.staleSession(chatID, messageID, "🔍 Выбор дня", cbChoiceDay)
	}
	month, err := strconv.Atoi(raw)
	if err != nil || month < 1 || month > 12 {
		return b.respond(chatID, messageID, "❌ Выберите месяц кнопкой.", numberKeyboard(12, 6, prefPickMonth, cbMainMenu))
	}
	sess.Pick.Month = month
	sess.Pick.Step = domain.PickStepYear
	return b.respond(chatID, messageID, "🗓️ <b>Выберите год</b>", yearKeyboard(b.now(), prefPickYear, cbMainMenu))
}

// pickChooseYear completes the date and renders it. 29.02.2023 and friends
// are rejected here without touching the repository.
func (b *Bot) pickChooseYear(ctx context.Context, userID string, chatID int64, messageID int, raw string, sess *domain.Session) error {
	if sess.Flow != domain.FlowPickingDate || sess.Pick.Step != domain.PickStepYear {
		return b.staleSession(chatID, messageID, "🔍 Выбор дня", cbChoiceDay)
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return b.respond(chatID, messageID, "❌ Выберите год кнопкой.", yearKeyboard(b.now(), prefPickYear, cbMainMenu))
	}
	if !homework.ValidDate(sess.Pick.Day, sess.Pick.Month, year) {
		text := fmt.Sprintf("❌ <b>Даты %02d.%02d.%d не существует.</b>\nВыберите другой год или начните заново.", sess.Pick.Day, sess.Pick.Month, year)
		return b.respond(chatID, messageID, text, yearKeyboard(b.now(), prefPickYear, cbMainMenu))
	}
	date := homework.DateKey(sess.Pick.Day, sess.Pick.Month, year)
	sess.Reset()
	return b.showDateView(ctx, userID, chatID, date, messageID)
}
