package bot

import (
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"homeworkbot/internal/domain/homework"
	"homeworkbot/internal/domain/user"
)

// Callback tokens. Prefixed tokens carry a value after the prefix.
const (
	cbMainMenu      = "main_menu"
	cbStart         = "start_bot"
	cbHelp          = "help_and_command"
	cbShowProfile   = "show_profile"
	cbDay           = "cmd_day"
	cbNextDay       = "cmd_next_day"
	cbWeek          = "cmd_week"
	cbNextWeek      = "cmd_next_week"
	cbChoiceDay     = "cmd_choice"
	cbAllHomework   = "cmd_all"
	cbViewSchedule  = "view_schedule"
	cbConfigure     = "cmd_configure"
	cbShowKeyboard  = "show_reply_keyboard"
	cbAdminStats    = "admin_stats"
	cbUploadSched   = "upload_schedule"
	cbEditPanel     = "edit_dz_panel"
	cbRegEntry      = "reg_step1"
	cbRegContinue   = "continue_reg"
	cbRegConfirm    = "reg_confirm"
	cbRegRestart    = "reg_restart"
	cbEditDateStart = "edit_step_day"
	cbEditConfirm   = "edit_confirm_date"
	cbEditAdd       = "edit_action_add"
	cbEditDelete    = "edit_action_delete"
	cbEditRedate    = "edit_action_date"
	cbPickEntry     = "pick_date"
	cbToggleNotify  = "toggle_notifications"
	cbRequestAdmin  = "request_admin"
	cbSaveKeyboard  = "save_keyboard"
	cbResetKeyboard = "reset_keyboard"
	cbDeleteAsk     = "confirm_delete_profile"
	cbDeleteYes     = "delete_profile_yes"

	prefRegRole   = "reg_role_"   // + student|admin
	prefRegLetter = "reg_letter_" // + class letter
	prefRegGrade  = "reg_grade_"  // + grade number
	prefEditDay   = "edit_day_"
	prefEditMonth = "edit_month_"
	prefEditYear  = "edit_year_"
	prefEditDel   = "edit_del_" // + subject name
	prefPickDay   = "pick_day_"
	prefPickMonth = "pick_month_"
	prefPickYear  = "pick_year_"
	prefPickFrom  = "pick_from_" // + ISO date
	prefShowDay   = "show_day_"  // + ISO date
	prefToggleKb  = "toggle_kb_" // + catalog label
	prefApprove   = "approve_"   // + request id
	prefReject    = "reject_"    // + request id
)

func btn(text, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, data)
}

func row(buttons ...tgbotapi.InlineKeyboardButton) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(buttons...)
}

func menuRow() []tgbotapi.InlineKeyboardButton {
	return row(btn("🏠 В меню", cbMainMenu))
}

// replyKeyboard lays the quick-access labels out two per row.
func replyKeyboard(labels []string) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	for i := 0; i < len(labels); i += 2 {
		end := i + 2
		if end > len(labels) {
			end = len(labels)
		}
		var r []tgbotapi.KeyboardButton
		for _, l := range labels[i:end] {
			r = append(r, tgbotapi.NewKeyboardButton(l))
		}
		rows = append(rows, r)
	}
	return tgbotapi.NewReplyKeyboard(rows...)
}

func startKeyboard(registered bool) tgbotapi.InlineKeyboardMarkup {
	if registered {
		return tgbotapi.NewInlineKeyboardMarkup(
			row(btn("📆 Сегодня", cbDay), btn("📅 Завтра", cbNextDay)),
			row(btn("🏠 Главное меню", cbMainMenu)),
			row(btn("👤 Мой профиль", cbShowProfile)),
		)
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("📝 Зарегистрироваться", cbRegEntry)),
		row(btn("❓ Как это работает?", cbHelp)),
	)
}

func mainMenuKeyboard(registered, admin bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		row(btn("📆 Сегодня", cbDay), btn("📅 Завтра", cbNextDay)),
		row(btn("📆 Неделя", cbWeek), btn("⏭️ Другая неделя", cbNextWeek)),
		row(btn("📖 Расписание уроков", cbViewSchedule)),
		row(btn("🔍 Выбор дня", cbChoiceDay), btn("📥 Всё ДЗ", cbAllHomework)),
	}
	if admin {
		rows = append(rows,
			row(btn("📤 Загрузить расписание", cbUploadSched), btn("✏️ Редактировать ДЗ", cbEditPanel)),
			row(btn("📊 Статистика", cbAdminStats)),
		)
	}
	rows = append(rows,
		row(btn("👤 Профиль", cbShowProfile), btn("⚙️ Настройка", cbConfigure)),
		row(btn("⌨️ Открыть клавиатуру", cbShowKeyboard)),
	)
	if !registered {
		rows = append(rows, row(btn("📝 Зарегистрироваться", cbRegEntry)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func regIntroKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("🚀 Продолжить", cbRegContinue)),
		row(btn("❓ Подробнее о боте", cbHelp)),
		row(btn("❌ Отмена", cbStart)),
	)
}

func regRoleKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("🎒 Ученик", prefRegRole+"student")),
		row(btn("🎓 Администратор класса", prefRegRole+"admin")),
		row(btn("❌ Отмена", cbStart)),
	)
}

func regLetterKeyboard() tgbotapi.InlineKeyboardMarkup {
	var r []tgbotapi.InlineKeyboardButton
	for _, l := range user.ClassLetters {
		r = append(r, btn(l, prefRegLetter+l))
	}
	return tgbotapi.NewInlineKeyboardMarkup(r, row(btn("❌ Отмена", cbStart)))
}

func regGradeKeyboard(minGrade, maxGrade int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var r []tgbotapi.InlineKeyboardButton
	for g := minGrade; g <= maxGrade; g++ {
		r = append(r, btn(strconv.Itoa(g), prefRegGrade+strconv.Itoa(g)))
		if len(r) == 4 {
			rows = append(rows, r)
			r = nil
		}
	}
	if len(r) > 0 {
		rows = append(rows, r)
	}
	rows = append(rows, row(btn("❌ Отмена", cbStart)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func regConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("✅ Подтвердить", cbRegConfirm)),
		row(btn("🔄 Заново", cbRegRestart), btn("❌ Отмена", cbStart)),
	)
}

// numberKeyboard renders 1..n choice buttons with the given callback prefix.
func numberKeyboard(n, perRow int, prefix string, cancel string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var r []tgbotapi.InlineKeyboardButton
	for i := 1; i <= n; i++ {
		r = append(r, btn(strconv.Itoa(i), prefix+strconv.Itoa(i)))
		if len(r) == perRow {
			rows = append(rows, r)
			r = nil
		}
	}
	if len(r) > 0 {
		rows = append(rows, r)
	}
	rows = append(rows, row(btn("↩️ Отмена", cancel)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func yearKeyboard(now time.Time, prefix, cancel string) tgbotapi.InlineKeyboardMarkup {
	y := now.Year()
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn(strconv.Itoa(y), prefix+strconv.Itoa(y)), btn(strconv.Itoa(y+1), prefix+strconv.Itoa(y+1))),
		row(btn("↩️ Отмена", cancel)),
	)
}

func editActionKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("➕ Добавить предмет", cbEditAdd)),
		row(btn("🗑️ Удалить предмет", cbEditDelete)),
		row(btn("📅 Другая дата", cbEditRedate)),
		menuRow(),
	)
}

func editSavedKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("➕ Добавить ещё предмет", cbEditAdd)),
		row(btn("📋 Посмотреть ДЗ на эту дату", cbEditConfirm)),
		menuRow(),
	)
}

func deleteSubjectKeyboard(subjects []string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, s := range subjects {
		rows = append(rows, row(btn(subjectIcon(s)+" "+s, prefEditDel+s)))
	}
	rows = append(rows, row(btn("↩️ Назад", cbEditConfirm)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// choiceDayKeyboard offers the next 14 dates as quick buttons, two per row,
// plus the full date-picker wizard for anything else.
func choiceDayKeyboard(now time.Time) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var r []tgbotapi.InlineKeyboardButton
	for i := 0; i < 14; i++ {
		d := now.AddDate(0, 0, i)
		label := fmt.Sprintf("%02d.%02d", d.Day(), int(d.Month()))
		r = append(r, btn(label, prefShowDay+d.Format(homework.DateLayout)))
		if len(r) == 2 {
			rows = append(rows, r)
			r = nil
		}
	}
	rows = append(rows, row(btn("🗓️ Другая дата", cbPickEntry)), menuRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func dateViewKeyboard(date string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("📥 Всё ДЗ с этой даты", prefPickFrom+date)),
		row(btn("🔍 Другой день", cbChoiceDay)),
		menuRow(),
	)
}

func profileKeyboard(u user.User) tgbotapi.InlineKeyboardMarkup {
	notify := "🔔 Уведомления: ✅ Вкл"
	if !u.NotificationsEnabled {
		notify = "🔔 Уведомления: ❌ Выкл"
	}
	rows := [][]tgbotapi.InlineKeyboardButton{
		row(btn(notify, cbToggleNotify)),
	}
	if u.Role != user.RoleAdmin {
		rows = append(rows, row(btn("🎓 Стать админом", cbRequestAdmin)))
	}
	rows = append(rows,
		row(btn("⚙️ Настроить клавиатуру", cbConfigure)),
		menuRow(),
		row(btn("🗑️ Удалить профиль", cbDeleteAsk)),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// keyboardConfigKeyboard lists every catalog label with a selection mark.
func keyboardConfigKeyboard(selected []string) tgbotapi.InlineKeyboardMarkup {
	chosen := make(map[string]bool, len(selected))
	for _, l := range selected {
		chosen[l] = true
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, label := range user.KeyboardCatalog() {
		mark := "⬜"
		if chosen[label] {
			mark = "✅"
		}
		rows = append(rows, row(btn(mark+" "+label, prefToggleKb+label)))
	}
	rows = append(rows,
		row(btn("💾 Сохранить", cbSaveKeyboard), btn("🔄 Сбросить", cbResetKeyboard)),
		menuRow(),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func approvalKeyboard(requestID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("✅ Одобрить", prefApprove+requestID), btn("❌ Отклонить", prefReject+requestID)),
	)
}

func deleteConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("🗑️ Да, удалить", cbDeleteYes)),
		row(btn("↩️ Отмена", cbShowProfile)),
	)
}
