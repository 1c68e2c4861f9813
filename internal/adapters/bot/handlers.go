package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	userStore "homeworkbot/internal/adapters/storage/user"
	"homeworkbot/internal/application/projections"
	"homeworkbot/internal/domain/user"
)

func (b *Bot) viewDeps() projections.DayViewDeps {
	return projections.DayViewDeps{UserStore: b.users, HomeworkStore: b.homework}
}

// loadUser fetches the caller's record; registered is false when absent.
func (b *Bot) loadUser(ctx context.Context, userID string) (user.User, bool, error) {
	u, err := b.users.GetByID(ctx, userID)
	if errors.Is(err, userStore.ErrNotFound) {
		return user.User{}, false, nil
	}
	if err != nil {
		return user.User{}, false, err
	}
	return u, true, nil
}

func (b *Bot) promptRegister(chatID int64) error {
	kb := tgbotapi.NewInlineKeyboardMarkup(row(btn("📝 Зарегистрироваться", cbRegEntry)))
	return b.reply(chatID, "🚫 <b>Вы не зарегистрированы</b>\nИспользуйте кнопку ниже для регистрации.", markup(kb))
}

func (b *Bot) showStart(ctx context.Context, userID string, chatID int64, messageID int) error {
	u, registered, err := b.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	var text string
	if registered {
		name := u.FirstName
		if name == "" {
			name = "друг"
		}
		role := "🎒 Ученик"
		if u.Role == user.RoleAdmin {
			role = "🎓 Админ"
		}
		text = fmt.Sprintf("👋 <b>С возвращением, %s!</b>\n\n🎓 Ваш класс: <b>%s</b>\n📚 Роль: %s\n\n<i>Выберите действие ниже или используйте клавиатуру для быстрого доступа к домашнему заданию.</i>",
			esc(name), esc(u.Class), role)
	} else {
		text = "👋 <b>Добро пожаловать!</b>\n\n📚 Я — <b>бот для домашних заданий</b>, который поможет тебе:\n" +
			"✅ Смотреть ДЗ на сегодня и завтра\n✅ Просматривать задания на неделю вперёд\n" +
			"✅ Получать расписание уроков\n✅ Быстро находить нужную информацию\n\n🚀 <b>Для начала работы зарегистрируйся!</b>"
	}
	return b.respond(chatID, messageID, text, startKeyboard(registered))
}

func (b *Bot) showMainMenu(ctx context.Context, userID string, chatID int64, messageID int) error {
	u, registered, err := b.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	text := "🏠 <b>Главное меню</b>\n\n"
	if registered {
		name := u.FirstName
		if name == "" {
			name = "друг"
		}
		text += fmt.Sprintf("👋 Привет, <b>%s</b>!\n🏫 Класс: <b>%s</b>\n\n<i>Выберите действие:</i>", esc(name), esc(u.Class))
	} else {
		text += "<i>Вы не зарегистрированы. Зарегистрируйтесь для доступа ко всем функциям.</i>"
	}
	return b.respond(chatID, messageID, text, mainMenuKeyboard(registered, u.Role.IsAdmin()))
}

func (b *Bot) showDayView(ctx context.Context, userID string, chatID int64, offset, messageID int) error {
	v, err := projections.QueryDayView(ctx, projections.DayViewQuery{UserID: userID, Offset: offset, Now: b.now()}, b.viewDeps())
	if errors.Is(err, projections.ErrNotRegistered) {
		return b.promptRegister(chatID)
	}
	if err != nil {
		return err
	}
	other := row(btn("📅 Завтра", cbNextDay))
	if offset == 1 {
		other = row(btn("📆 Сегодня", cbDay))
	}
	return b.respond(chatID, messageID, renderDayView(v, offset), tgbotapi.NewInlineKeyboardMarkup(other, menuRow()))
}

func (b *Bot) showWeekView(ctx context.Context, userID string, chatID int64, offset, messageID int) error {
	v, err := projections.QueryWeekView(ctx, projections.WeekViewQuery{UserID: userID, Offset: offset, Now: b.now()}, b.viewDeps())
	if errors.Is(err, projections.ErrNotRegistered) {
		return b.promptRegister(chatID)
	}
	if err != nil {
		return err
	}
	next := offset >= 7
	other := row(btn("⏭️ Следующая неделя", cbNextWeek))
	if next {
		other = row(btn("📆 Эта неделя", cbWeek))
	}
	return b.respond(chatID, messageID, renderWeekView(v, next), tgbotapi.NewInlineKeyboardMarkup(other, menuRow()))
}

func (b *Bot) showDateView(ctx context.Context, userID string, chatID int64, date string, messageID int) error {
	v, err := projections.QueryDateView(ctx, projections.DateViewQuery{UserID: userID, Date: date, Now: b.now()}, b.viewDeps())
	if errors.Is(err, projections.ErrNotRegistered) {
		return b.promptRegister(chatID)
	}
	if err != nil {
		return err
	}
	return b.respond(chatID, messageID, renderDateView(v), dateViewKeyboard(date))
}

func (b *Bot) showFromView(ctx context.Context, userID string, chatID int64, start string, messageID int) error {
	v, err := projections.QueryFromView(ctx, projections.FromViewQuery{UserID: userID, Start: start, Now: b.now()}, b.viewDeps())
	if errors.Is(err, projections.ErrNotRegistered) {
		return b.promptRegister(chatID)
	}
	if err != nil {
		return err
	}
	return b.respond(chatID, messageID, renderFromView(v), tgbotapi.NewInlineKeyboardMarkup(menuRow()))
}

func (b *Bot) showChoiceDay(chatID int64, messageID int) error {
	text := "🔍 <b>Выберите дату</b>\n\n<i>Нажмите на дату, чтобы посмотреть ДЗ:</i>"
	return b.respond(chatID, messageID, text, choiceDayKeyboard(b.now()))
}

func (b *Bot) showSchedule(ctx context.Context, userID string, chatID int64) error {
	u, registered, err := b.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if !registered {
		return b.promptRegister(chatID)
	}
	set, err := b.homework.GetByClass(ctx, u.Class)
	if err != nil {
		return fmt.Errorf("load schedule: %w", err)
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	if u.Role.IsAdmin() {
		label := "📤 Загрузить расписание"
		if set.SchedulePhotoID != "" {
			label = "📤 Обновить расписание"
		}
		rows = append(rows, row(btn(label, cbUploadSched)))
	}
	rows = append(rows, menuRow())
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)

	if set.SchedulePhotoID == "" {
		text := fmt.Sprintf("📖 <b>Расписание уроков</b>\n🏫 Класс: <b>%s</b>\n\n❌ <i>Расписание ещё не загружено.</i>", esc(u.Class))
		return b.reply(chatID, text, markup(kb))
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(set.SchedulePhotoID))
	photo.Caption = fmt.Sprintf("📖 <b>Расписание уроков</b>\n🏫 Класс: <b>%s</b>", esc(u.Class))
	photo.ParseMode = tgbotapi.ModeHTML
	photo.ReplyMarkup = kb
	_, err = b.api.Send(photo)
	return err
}

func (b *Bot) showProfile(ctx context.Context, userID string, chatID int64, messageID int) error {
	u, registered, err := b.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if !registered {
		return b.promptRegister(chatID)
	}
	return b.respond(chatID, messageID, renderProfile(u), profileKeyboard(u))
}

func (b *Bot) showKeyboardConfig(ctx context.Context, userID string, chatID int64, messageID int) error {
	u, registered, err := b.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if !registered {
		return b.promptRegister(chatID)
	}
	text := "⚙️ <b>Настройка клавиатуры</b>\n\nВыберите кнопки, которые хотите видеть на клавиатуре.\nОтмеченные ✅ будут отображаться."
	return b.respond(chatID, messageID, text, keyboardConfigKeyboard(u.CustomKeyboard))
}

func (b *Bot) showStats(ctx context.Context, userID string, chatID int64, messageID int) error {
	s, err := projections.QueryClassStats(ctx, projections.ClassStatsQuery{UserID: userID, Now: b.now()}, projections.ClassStatsDeps{UserStore: b.users})
	switch {
	case errors.Is(err, projections.ErrNotRegistered):
		return b.promptRegister(chatID)
	case errors.Is(err, projections.ErrNotAdmin):
		return b.reply(chatID, "🚫 Эта функция доступна только админам.", nil)
	case err != nil:
		return err
	}
	return b.respond(chatID, messageID, renderStats(s), tgbotapi.NewInlineKeyboardMarkup(menuRow()))
}

func (b *Bot) showEditPanel(chatID int64, messageID int) error {
	text := "✏️ <b>Панель редактирования ДЗ</b>\n\nВыберите дату, чтобы изменить домашнее задание для вашего класса.\n\nВы сможете:\n• Добавить новое задание\n• Удалить существующее\n\n⚠️ Все изменения применяются мгновенно."
	kb := tgbotapi.NewInlineKeyboardMarkup(
		row(btn("▶️ Продолжить", cbEditDateStart)),
		menuRow(),
	)
	return b.respond(chatID, messageID, text, kb)
}
