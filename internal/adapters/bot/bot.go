package bot

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	approvalStore "homeworkbot/internal/adapters/storage/approval"
	homeworkStore "homeworkbot/internal/adapters/storage/homework"
	userStore "homeworkbot/internal/adapters/storage/user"
	appsession "homeworkbot/internal/application/session"
	domain "homeworkbot/internal/domain/session"
)

// Config carries the transport adapter's settings.
type Config struct {
	AdminChatIDs []int64
	MinGrade     int
	MaxGrade     int
}

// Bot routes Telegram updates through the session store to the wizard engine,
// command handlers and views.
type Bot struct {
	api       Sender
	users     userStore.Store
	homework  homeworkStore.Store
	approvals approvalStore.Store
	sessions  *appsession.Store
	cfg       Config
	now       func() time.Time // swappable for tests
}

// New assembles the transport adapter.
func New(api Sender, users userStore.Store, homework homeworkStore.Store, approvals approvalStore.Store, sessions *appsession.Store, cfg Config) *Bot {
	return &Bot{
		api:       api,
		users:     users,
		homework:  homework,
		approvals: approvals,
		sessions:  sessions,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Run consumes the update channel until ctx is cancelled. Updates are handled
// sequentially, which keeps per-chat session mutation un-interleaved.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, upd)
		}
	}
}

// HandleUpdate dispatches one update. A handler error is logged and skips the
// session commit so corrupt partial wizard state is never persisted; it never
// crashes the process.
func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.CallbackQuery != nil:
		b.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil:
		b.handleMessage(ctx, upd.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	chatID := msg.Chat.ID
	userID := strconv.FormatInt(msg.From.ID, 10)

	sess := b.sessions.Get(chatID)
	err := b.routeMessage(ctx, msg, userID, chatID, &sess)
	if err != nil {
		slog.Error("update_failed", "chat", chatID, "error", err.Error())
		b.reply(chatID, "⚠️ Что-то пошло не так. Попробуйте ещё раз.", nil)
		return
	}
	b.sessions.Commit(chatID, sess)
}

// routeMessage implements the routing order: quick-access labels by exact
// equality, then active-wizard continuation, then the keyword table.
// Unmatched text falls through silently.
func (b *Bot) routeMessage(ctx context.Context, msg *tgbotapi.Message, userID string, chatID int64, sess *domain.Session) error {
	text := msg.Text

	if action, ok := quickLabels[text]; ok {
		return b.dispatchQuick(ctx, action, userID, chatID)
	}

	switch sess.Flow {
	case domain.FlowUploadingSchedule:
		return b.continueUpload(ctx, msg, userID, chatID, sess)
	case domain.FlowEditing:
		if sess.Edit.Step == domain.EditStepSubject || sess.Edit.Step == domain.EditStepTask {
			return b.continueEditText(ctx, msg, userID, chatID, sess)
		}
	}

	if text == "" {
		text = msg.Caption
	}
	return b.dispatchCommand(ctx, Classify(text), userID, chatID, sess)
}

func (b *Bot) dispatchQuick(ctx context.Context, action quickAction, userID string, chatID int64) error {
	switch action {
	case quickToday:
		return b.showDayView(ctx, userID, chatID, 0, 0)
	case quickTomorrow:
		return b.showDayView(ctx, userID, chatID, 1, 0)
	case quickWeek:
		return b.showWeekView(ctx, userID, chatID, 0, 0)
	case quickNextWeek:
		return b.showWeekView(ctx, userID, chatID, 7, 0)
	case quickChoiceDay, quickAllHomework:
		return b.showChoiceDay(chatID, 0)
	case quickSchedule:
		return b.showSchedule(ctx, userID, chatID)
	case quickProfile:
		return b.showProfile(ctx, userID, chatID, 0)
	case quickConfigure:
		return b.showKeyboardConfig(ctx, userID, chatID, 0)
	case quickMenu:
		return b.showMainMenu(ctx, userID, chatID, 0)
	}
	return nil
}

func (b *Bot) dispatchCommand(ctx context.Context, cmd Command, userID string, chatID int64, sess *domain.Session) error {
	if cmd.RequiresAdmin() {
		ok, err := b.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !ok {
			return b.reply(chatID, "🚫 <b>Доступ запрещён</b>\nЭта команда доступна только администраторам класса.", nil)
		}
	}

	switch cmd {
	case CmdStart:
		return b.showStart(ctx, userID, chatID, 0)
	case CmdRegister:
		return b.showRegEntry(ctx, userID, chatID, 0)
	case CmdMenu:
		return b.showMainMenu(ctx, userID, chatID, 0)
	case CmdHelp:
		return b.reply(chatID, renderHelp(), markup(tgbotapi.NewInlineKeyboardMarkup(menuRow())))
	case CmdProfile:
		return b.showProfile(ctx, userID, chatID, 0)
	case CmdDay:
		return b.showDayView(ctx, userID, chatID, 0, 0)
	case CmdNextDay:
		return b.showDayView(ctx, userID, chatID, 1, 0)
	case CmdWeek:
		return b.showWeekView(ctx, userID, chatID, 0, 0)
	case CmdNextWeek:
		return b.showWeekView(ctx, userID, chatID, 7, 0)
	case CmdEdit:
		return b.showEditPanel(chatID, 0)
	case CmdStats:
		return b.showStats(ctx, userID, chatID, 0)
	}
	return nil
}

// isAdmin re-reads the caller's role from storage. Never trusted from session.
func (b *Bot) isAdmin(ctx context.Context, userID string) (bool, error) {
	u, err := b.users.GetByID(ctx, userID)
	if errors.Is(err, userStore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.Role.IsAdmin(), nil
}

// reply sends a new HTML message.
func (b *Bot) reply(chatID int64, text string, replyMarkup any) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = replyMarkup
	_, err := b.api.Send(msg)
	return err
}

// respond edits the callback's origin message in place, falling back to a
// fresh message when the origin cannot be edited (e.g. it was a photo).
func (b *Bot) respond(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	if messageID == 0 {
		return b.reply(chatID, text, markup(keyboard))
	}
	if len(keyboard.InlineKeyboard) == 0 {
		edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
		edit.ParseMode = tgbotapi.ModeHTML
		if _, err := b.api.Send(edit); err != nil {
			return b.reply(chatID, text, nil)
		}
		return nil
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, keyboard)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(edit); err != nil {
		return b.reply(chatID, text, markup(keyboard))
	}
	return nil
}

// markup boxes an inline keyboard for MessageConfig.ReplyMarkup, which takes
// any. A nil any keeps the current reply keyboard untouched.
func markup(kb tgbotapi.InlineKeyboardMarkup) any {
	if len(kb.InlineKeyboard) == 0 {
		return nil
	}
	return kb
}
