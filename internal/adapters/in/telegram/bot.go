// Package telegram is the chat transport adapter: one bot connection per
// role, long polling in, messages and keyboards out. It translates between
// tgbotapi types and the transport-free conversation events and replies.
package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps one tgbotapi connection and implements the outbound Sender
// contract for its role.
type Bot struct {
	api *tgbotapi.BotAPI
	log *slog.Logger
}

// NewBot connects to the bot API with the given token.
func NewBot(token string, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	log.Info("bot authorized", "account", api.Self.UserName)

	return &Bot{
		api: api,
		log: log.With("component", "bot", "account", api.Self.UserName),
	}, nil
}

// Send delivers text with an optional keyboard to the actor's chat.
func (b *Bot) Send(_ context.Context, to kernel.ActorID, text string, keyboard ports.Keyboard) error {
	msg := tgbotapi.NewMessage(int64(to), text)
	if markup := renderKeyboard(keyboard); markup != nil {
		msg.ReplyMarkup = markup
	}

	_, err := b.api.Send(msg)
	return err
}

// SendLocation delivers a map point to the actor's chat.
func (b *Bot) SendLocation(_ context.Context, to kernel.ActorID, lat, lon float64) error {
	_, err := b.api.Send(tgbotapi.NewLocation(int64(to), lat, lon))
	return err
}

// renderKeyboard maps the transport-free keyboard onto telegram markup.
// A keyboard containing any coded button becomes an inline keyboard; plain
// label keyboards become a resized reply keyboard, where contact and
// location request buttons are supported.
func renderKeyboard(keyboard ports.Keyboard) any {
	if len(keyboard) == 0 {
		return nil
	}

	if hasCallbackButtons(keyboard) {
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(keyboard))
		for _, row := range keyboard {
			buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, btn := range row {
				code := btn.Code
				if code == "" {
					code = btn.Label
				}
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(btn.Label, code))
			}
			rows = append(rows, buttons)
		}
		return tgbotapi.NewInlineKeyboardMarkup(rows...)
	}

	rows := make([][]tgbotapi.KeyboardButton, 0, len(keyboard))
	for _, row := range keyboard {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, btn := range row {
			switch {
			case btn.RequestContact:
				buttons = append(buttons, tgbotapi.NewKeyboardButtonContact(btn.Label))
			case btn.RequestLocation:
				buttons = append(buttons, tgbotapi.NewKeyboardButtonLocation(btn.Label))
			default:
				buttons = append(buttons, tgbotapi.NewKeyboardButton(btn.Label))
			}
		}
		rows = append(rows, buttons)
	}

	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.ResizeKeyboard = true
	return markup
}

func hasCallbackButtons(keyboard ports.Keyboard) bool {
	for _, row := range keyboard {
		for _, btn := range row {
			if btn.Code != "" {
				return true
			}
		}
	}
	return false
}
