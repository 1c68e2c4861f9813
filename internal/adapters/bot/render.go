package bot

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"homeworkbot/internal/application/projections"
	"homeworkbot/internal/domain/homework"
	"homeworkbot/internal/domain/user"
)

// weekPreviewLimit is the display-only truncation for week-view task previews.
// Stored content is never mutated.
const weekPreviewLimit = 50

// subjectIcons maps subject names to their emoji. Matching is substring-based
// and case-insensitive so "Алгебра и геометрия" still gets 📐.
var subjectIcons = []struct {
	key  string
	icon string
}{
	{"Алгебра", "📐"},
	{"Геометрия", "📏"},
	{"Математика", "🔢"},
	{"Русский", "📝"},
	{"Литература", "📖"},
	{"Английский", "🇬🇧"},
	{"История", "🏛️"},
	{"Обществознание", "👥"},
	{"География", "🌍"},
	{"Биология", "🧬"},
	{"Физика", "⚡"},
	{"Химия", "🧪"},
	{"Информатика", "💻"},
	{"Физкультура", "🏃"},
	{"ОБЖ", "🛡️"},
	{"Музыка", "🎵"},
	{"ИЗО", "🎨"},
	{"Технология", "🔧"},
}

func subjectIcon(subject string) string {
	lower := strings.ToLower(subject)
	for _, e := range subjectIcons {
		if strings.Contains(lower, strings.ToLower(e.key)) {
			return e.icon
		}
	}
	return "📘"
}

var weekdayNames = [7]string{
	"Воскресенье", "Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота",
}

// formatDate renders an ISO date key as "Понедельник, 02.06". Unparseable
// input is shown as-is rather than dropped.
func formatDate(date string) string {
	t, err := time.Parse(homework.DateLayout, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s, %02d.%02d", weekdayNames[t.Weekday()], t.Day(), int(t.Month()))
}

// truncate cuts s to at most max runes, appending an ellipsis when cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// esc escapes user-provided content for the HTML parse mode.
func esc(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, s)
}

func renderDayView(v projections.DayView, offset int) string {
	header, empty := "📆 ДЗ на сегодня", "🎉 <i>На сегодня заданий нет!</i>"
	if offset == 1 {
		header, empty = "📅 ДЗ на завтра", "🎉 <i>На завтра заданий нет!</i>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>(%s)</b>\n🏫 Класс: <b>%s</b>\n", header, formatDate(v.Date), esc(v.Class))
	if v.IsEmpty() {
		b.WriteString("\n" + empty)
		return b.String()
	}
	for _, t := range v.Tasks {
		fmt.Fprintf(&b, "\n%s <b>%s</b>\n<i>%s</i>\n", subjectIcon(t.Subject), esc(t.Subject), esc(t.Task))
	}
	return b.String()
}

// renderDateView is the day view for an explicitly picked date.
func renderDateView(v projections.DayView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 <b>ДЗ на %s</b>\n🏫 Класс: <b>%s</b>\n", formatDate(v.Date), esc(v.Class))
	if v.IsEmpty() {
		b.WriteString("\n🎉 <i>На эту дату заданий нет!</i>")
		return b.String()
	}
	for _, t := range v.Tasks {
		fmt.Fprintf(&b, "\n%s <b>%s</b>\n<i>%s</i>\n", subjectIcon(t.Subject), esc(t.Subject), esc(t.Task))
	}
	return b.String()
}

func renderWeekView(v projections.WeekView, next bool) string {
	header, empty := "📆 <b>ДЗ на неделю</b>", "🎉 <i>На эту неделю заданий нет!</i>"
	if next {
		header, empty = "⏭️ <b>ДЗ на следующую неделю</b>", "🎉 <i>На следующую неделю заданий нет!</i>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n🏫 Класс: <b>%s</b>\n", header, esc(v.Class))
	if v.IsEmpty() {
		b.WriteString("\n" + empty)
		return b.String()
	}
	for _, day := range v.Days {
		fmt.Fprintf(&b, "\n📅 <b>%s</b>\n", formatDate(day.Date))
		for _, t := range day.Tasks {
			fmt.Fprintf(&b, "  %s %s: <i>%s</i>\n", subjectIcon(t.Subject), esc(t.Subject), esc(truncate(t.Task, weekPreviewLimit)))
		}
	}
	return b.String()
}

func renderFromView(v projections.FromView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📥 <b>Всё ДЗ начиная с %s</b>\n🏫 Класс: <b>%s</b>\n", formatDate(v.Start), esc(v.Class))
	if v.IsEmpty() {
		b.WriteString("\n🎉 <i>Начиная с этой даты заданий нет!</i>")
		return b.String()
	}
	for _, day := range v.Days {
		fmt.Fprintf(&b, "\n📅 <b>%s</b>\n", formatDate(day.Date))
		for _, t := range day.Tasks {
			fmt.Fprintf(&b, "%s <b>%s</b>\n<i>%s</i>\n", subjectIcon(t.Subject), esc(t.Subject), esc(t.Task))
		}
	}
	return b.String()
}

func renderProfile(u user.User) string {
	roleText, roleEmoji := "🎒 Ученик", "📚"
	switch u.Role {
	case user.RoleAdmin:
		roleText, roleEmoji = "🎓 Администратор", "👑"
	case user.RolePendingAdmin:
		roleText = "⏳ Ожидает подтверждения"
	}
	name := u.FullName()
	if name == "" {
		name = "Не указано"
	}
	username := "не указан"
	if u.Username != "" {
		username = "@" + u.Username
	}
	lastActive := "—"
	if !u.Stats.LastActive.IsZero() {
		lastActive = u.Stats.LastActive.Format("02.01.2006")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>Ваш профиль</b>\n\n", roleEmoji)
	fmt.Fprintf(&b, "👤 <b>Имя:</b> %s\n", esc(name))
	fmt.Fprintf(&b, "💬 <b>Юзернейм:</b> %s\n", esc(username))
	fmt.Fprintf(&b, "🎭 <b>Роль:</b> %s\n", roleText)
	fmt.Fprintf(&b, "🏫 <b>Класс:</b> %s\n\n", esc(u.Class))
	fmt.Fprintf(&b, "📊 <b>Статистика:</b>\n├ 📖 Просмотров ДЗ: %d\n└ 🕐 Последняя активность: %s\n\n", u.Stats.HomeworkViews, lastActive)
	fmt.Fprintf(&b, "📅 <b>Дата регистрации:</b> %s", u.RegisteredAt.Format("02.01.2006"))
	return b.String()
}

func renderStats(s projections.ClassStats) string {
	return fmt.Sprintf(
		"📊 <b>Статистика класса %s</b>\n\n👥 Всего пользователей: <b>%d</b>\n👑 Админов: <b>%d</b>\n🟢 Активны сегодня: <b>%d</b>",
		esc(s.Class), s.Total, s.Admins, s.ActiveToday)
}

func renderHelp() string {
	return "❓ <b>Помощь и команды</b>\n\n" +
		"📚 <b>Основные команды:</b>\n" +
		"• /start — Начать работу с ботом\n" +
		"• /reg — Зарегистрироваться\n" +
		"• /menu — Главное меню\n" +
		"• /me — Мой профиль\n" +
		"• /help — Эта справка\n\n" +
		"📆 <b>Просмотр ДЗ:</b>\n" +
		"• /day — ДЗ на сегодня\n" +
		"• /next_day — ДЗ на завтра\n" +
		"• /weekend — ДЗ на неделю\n\n" +
		"🎓 <b>Для админов:</b>\n" +
		"• /edit — Редактировать ДЗ\n" +
		"• /stats — Статистика класса\n\n" +
		"<i>Используйте кнопки клавиатуры для быстрого доступа!</i>"
}
