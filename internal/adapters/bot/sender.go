// Package bot is the Telegram transport adapter: it routes incoming updates
// to the wizard engine, command handlers and read-side views, and renders
// replies with inline and reply keyboards.
package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the outbound Telegram surface the adapter needs. *tgbotapi.BotAPI
// satisfies it; tests substitute a recording fake.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

var _ Sender = (*tgbotapi.BotAPI)(nil)
