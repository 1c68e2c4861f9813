package bot

import "strings"

// Command is a normalized command token.
type Command int

const (
	CmdNone Command = iota
	CmdStart
	CmdRegister
	CmdMenu
	CmdHelp
	CmdProfile
	CmdDay
	CmdNextDay
	CmdWeek
	CmdNextWeek
	CmdEdit  // admin
	CmdStats // admin
)

// keywordEntry binds a command to its keyword set. Matching is permissive:
// a keyword anywhere inside the uppercased message triggers the command, so
// "ПОКАЖИ МЕНЮ" still opens the menu. Order matters — the first matching
// entry wins.
type keywordEntry struct {
	cmd      Command
	keywords []string
}

var keywordTable = []keywordEntry{
	{CmdDay, []string{"/DAY", "СЕГОДНЯ"}},
	{CmdNextDay, []string{"/NEXT_DAY", "ЗАВТРА"}},
	{CmdWeek, []string{"/WEEKEND", "НЕДЕЛЯ"}},
	{CmdNextWeek, []string{"/NEXT_WEEK", "ДРУГАЯ НЕДЕЛЯ"}},
	{CmdEdit, []string{"/EDIT", "РЕДАКТИРОВАТЬ", "EDIT"}},
	{CmdStats, []string{"/STATS", "СТАТИСТИКА"}},
	{CmdStart, []string{"/START", "НАЧАТЬ", "СТАРТ", "В НАЧАЛО", "ДОБРО ПОЖАЛОВАТЬ"}},
	{CmdRegister, []string{"/REG", "ЗАРЕГИСТРИРОВАТЬСЯ", "РЕГИСТРАЦИЯ", "РЕГ"}},
	{CmdMenu, []string{"/MENU", "МЕНЮ", "ГЛАВНОЕ МЕНЮ", "В МЕНЮ"}},
	{CmdHelp, []string{"/HELP", "ПОМОЩЬ", "СПРАВКА", "КОМАНДЫ"}},
	{CmdProfile, []string{"/ME", "/PROFILE", "Я", "ПРОФИЛЬ"}},
}

// RequiresAdmin reports whether the command is gated to the admin role. The
// role is re-read from the user store at dispatch time, never from session.
func (c Command) RequiresAdmin() bool {
	return c == CmdEdit || c == CmdStats
}

// Classify maps free text (or a media caption) to a command token.
// Unrecognized text yields CmdNone; the caller falls through silently since
// not every message is a command.
func Classify(text string) Command {
	normalized := strings.ToUpper(strings.TrimSpace(text))
	if normalized == "" {
		return CmdNone
	}
	for _, e := range keywordTable {
		for _, kw := range e.keywords {
			if strings.Contains(normalized, kw) {
				return e.cmd
			}
		}
	}
	return CmdNone
}

// quickLabels maps reply-keyboard labels to their actions. Labels are matched
// by exact equality before any normalization or wizard routing so the buttons
// work in every state.
type quickAction int

const (
	quickNone quickAction = iota
	quickToday
	quickTomorrow
	quickWeek
	quickNextWeek
	quickChoiceDay
	quickAllHomework
	quickSchedule
	quickProfile
	quickConfigure
	quickMenu
)

var quickLabels = map[string]quickAction{
	"📆 Сегодня":        quickToday,
	"📅 Завтра":         quickTomorrow,
	"📆 Неделя":         quickWeek,
	"⏭️ Другая неделя": quickNextWeek,
	"🔍 Выбор дня":      quickChoiceDay,
	"📥 Всё ДЗ":         quickAllHomework,
	"📖 Расписание":     quickSchedule,
	"👤 Профиль":        quickProfile,
	"⚙️ Настройка":     quickConfigure,
	"🏠 Меню":           quickMenu,
}
