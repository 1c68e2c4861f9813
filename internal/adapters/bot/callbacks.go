package bot

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	domain "homeworkbot/internal/domain/session"
)

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Telegram requires every callback to be answered or the button spins.
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		slog.Warn("callback_answer_failed", "error", err.Error())
	}
	if cb.From == nil || cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID
	userID := strconv.FormatInt(cb.From.ID, 10)

	sess := b.sessions.Get(chatID)
	if err := b.routeCallback(ctx, cb, userID, chatID, messageID, &sess); err != nil {
		slog.Error("callback_failed", "chat", chatID, "data", cb.Data, "error", err.Error())
		b.reply(chatID, "⚠️ Что-то пошло не так. Попробуйте ещё раз.", nil)
		return
	}
	b.sessions.Commit(chatID, sess)
}

// routeCallback dispatches one structured-choice token. Navigation tokens
// (start, menu) cancel the active wizard outright.
func (b *Bot) routeCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, userID string, chatID int64, messageID int, sess *domain.Session) error {
	data := cb.Data
	switch data {
	case cbStart:
		sess.Reset()
		return b.showStart(ctx, userID, chatID, messageID)
	case cbMainMenu:
		sess.Reset()
		return b.showMainMenu(ctx, userID, chatID, messageID)
	case cbHelp:
		return b.respond(chatID, messageID, renderHelp(), tgbotapi.NewInlineKeyboardMarkup(menuRow()))
	case cbShowProfile:
		return b.showProfile(ctx, userID, chatID, messageID)
	case cbDay:
		return b.showDayView(ctx, userID, chatID, 0, messageID)
	case cbNextDay:
		return b.showDayView(ctx, userID, chatID, 1, messageID)
	case cbWeek:
		return b.showWeekView(ctx, userID, chatID, 0, messageID)
	case cbNextWeek:
		return b.showWeekView(ctx, userID, chatID, 7, messageID)
	case cbChoiceDay, cbAllHomework:
		return b.showChoiceDay(chatID, messageID)
	case cbViewSchedule:
		return b.showSchedule(ctx, userID, chatID)
	case cbConfigure:
		return b.showKeyboardConfig(ctx, userID, chatID, messageID)
	case cbShowKeyboard:
		return b.showReplyKeyboard(ctx, userID, chatID)
	case cbAdminStats:
		return b.showStats(ctx, userID, chatID, messageID)
	case cbUploadSched:
		return b.startUpload(ctx, userID, chatID, messageID, sess)
	case cbEditPanel:
		return b.enterEditPanel(ctx, userID, chatID, messageID)
	case cbEditDateStart:
		return b.startEditWizard(ctx, userID, chatID, messageID, sess)
	case cbEditConfirm:
		return b.showEditDateConfirm(ctx, userID, chatID, messageID, sess)
	case cbEditAdd:
		return b.editChooseAdd(chatID, messageID, sess)
	case cbEditDelete:
		return b.editChooseDelete(ctx, userID, chatID, messageID, sess)
	case cbEditRedate:
		return b.startEditWizard(ctx, userID, chatID, messageID, sess)
	case cbRegEntry:
		return b.showRegEntry(ctx, userID, chatID, messageID)
	case cbRegContinue:
		return b.startRegistration(ctx, userID, chatID, messageID, sess)
	case cbRegConfirm:
		return b.confirmRegistration(ctx, cb.From, userID, chatID, messageID, sess)
	case cbRegRestart:
		return b.startRegistration(ctx, userID, chatID, messageID, sess)
	case cbPickEntry:
		return b.startDatePicker(ctx, userID, chatID, messageID, sess)
	case cbToggleNotify:
		return b.toggleNotifications(ctx, userID, chatID, messageID)
	case cbRequestAdmin:
		return b.requestAdmin(ctx, userID, chatID, messageID)
	case cbSaveKeyboard:
		return b.saveKeyboard(ctx, userID, chatID)
	case cbResetKeyboard:
		return b.resetKeyboard(ctx, userID, chatID, messageID)
	case cbDeleteAsk:
		return b.confirmDeleteProfile(chatID, messageID)
	case cbDeleteYes:
		return b.deleteProfile(ctx, userID, chatID, sess)
	}

	switch {
	case strings.HasPrefix(data, prefRegRole):
		return b.regChooseRole(chatID, messageID, strings.TrimPrefix(data, prefRegRole), sess)
	case strings.HasPrefix(data, prefRegLetter):
		return b.regChooseLetter(chatID, messageID, strings.TrimPrefix(data, prefRegLetter), sess)
	case strings.HasPrefix(data, prefRegGrade):
		return b.regChooseGrade(ctx, userID, chatID, messageID, strings.TrimPrefix(data, prefRegGrade), sess)
	case strings.HasPrefix(data, prefEditDay):
		return b.editChooseDay(chatID, messageID, strings.TrimPrefix(data, prefEditDay), sess)
	case strings.HasPrefix(data, prefEditMonth):
		return b.editChooseMonth(chatID, messageID, strings.TrimPrefix(data, prefEditMonth), sess)
	case strings.HasPrefix(data, prefEditYear):
		return b.editChooseYear(ctx, userID, chatID, messageID, strings.TrimPrefix(data, prefEditYear), sess)
	case strings.HasPrefix(data, prefEditDel):
		return b.editDeleteSubject(ctx, userID, chatID, messageID, strings.TrimPrefix(data, prefEditDel), sess)
	case strings.HasPrefix(data, prefPickDay):
		return b.pickChooseDay(chatID, messageID, strings.TrimPrefix(data, prefPickDay), sess)
	case strings.HasPrefix(data, prefPickMonth):
		return b.pickChooseMonth(chatID, messageID, strings.TrimPrefix(data, prefPickMonth), sess)
	case strings.HasPrefix(data, prefPickYear):
		return b.pickChooseYear(ctx, userID, chatID, messageID, strings.TrimPrefix(data, prefPickYear), sess)
	case strings.HasPrefix(data, prefPickFrom):
		return b.showFromView(ctx, userID, chatID, strings.TrimPrefix(data, prefPickFrom), messageID)
	case strings.HasPrefix(data, prefShowDay):
		return b.showDateView(ctx, userID, chatID, strings.TrimPrefix(data, prefShowDay), messageID)
	case strings.HasPrefix(data, prefToggleKb):
		return b.toggleKeyboardButton(ctx, userID, chatID, messageID, strings.TrimPrefix(data, prefToggleKb))
	case strings.HasPrefix(data, prefApprove):
		return b.resolveAdminRequest(ctx, userID, chatID, messageID, strings.TrimPrefix(data, prefApprove), true)
	case strings.HasPrefix(data, prefReject):
		return b.resolveAdminRequest(ctx, userID, chatID, messageID, strings.TrimPrefix(data, prefReject), false)
	}

	slog.Warn("unknown_callback", "data", data)
	return nil
}

// staleSession is the reply for a wizard button pressed after its session
// state is gone (restart, sweep, or a stale message).
func (b *Bot) staleSession(chatID int64, messageID int, entryLabel, entryToken string) error {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		row(btn(entryLabel, entryToken)),
		menuRow(),
	)
	return b.respond(chatID, messageID, "⏳ <b>Сессия истекла</b>\nНачните заново.", kb)
}
