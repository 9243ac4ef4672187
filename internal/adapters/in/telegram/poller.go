package telegram

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/conversation"
	"dispatch/internal/core/domain/model/kernel"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const pollTimeoutSeconds = 60

// Poller long-polls one role's bot connection, converts updates into
// conversation events and sends the router's replies back through the same
// connection. Each role runs its own poller; supervision and restarts are
// the caller's concern.
type Poller struct {
	bot    *Bot
	router *conversation.Router
	role   kernel.Role
	log    *slog.Logger
}

// NewPoller creates a poller for the role over the bot connection.
func NewPoller(bot *Bot, router *conversation.Router, role kernel.Role, log *slog.Logger) *Poller {
	return &Poller{
		bot:    bot,
		router: router,
		role:   role,
		log:    log.With("component", "poller", "role", role.String()),
	}
}

// Run polls until the context is cancelled. It returns the context error on
// shutdown and never returns nil while the context is live, so a supervisor
// can restart it on transport failures.
func (p *Poller) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeoutSeconds

	updates := p.bot.api.GetUpdatesChan(cfg)
	p.log.InfoContext(ctx, "poller started")

	err := p.consume(ctx, updates)
	p.bot.api.StopReceivingUpdates()
	p.log.Info("poller stopped")
	return err
}

// consume drains the update channel until it closes or the context ends.
// Each update is dispatched in its own goroutine: one actor's slow turn must
// not stall the rest of the role, and two couriers pressing claim have to
// actually race. Order state is safe under the store's conditional writes;
// the session store is last-write-wins per (actor, role).
func (p *Poller) consume(ctx context.Context, updates <-chan tgbotapi.Update) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return ctx.Err()
			}
			go p.handleUpdate(ctx, update)
		}
	}
}

func (p *Poller) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	event, ok := toEvent(update)
	if !ok {
		return
	}

	if update.CallbackQuery != nil {
		// Ack the button press so the client stops its spinner, regardless
		// of how dispatch goes.
		if _, err := p.bot.api.Request(tgbotapi.NewCallback(update.CallbackQuery.ID, "")); err != nil {
			p.log.WarnContext(ctx, "callback ack failed", "error", err)
		}
	}

	replies := p.router.Dispatch(ctx, p.role, event)
	for _, reply := range replies {
		if err := p.sendReply(ctx, event.ActorID, reply); err != nil {
			p.log.ErrorContext(ctx, "reply send failed",
				"actor", event.ActorID.String(), "error", err)
		}
	}
}

func (p *Poller) sendReply(ctx context.Context, to kernel.ActorID, reply conversation.Reply) error {
	if reply.Location != nil {
		return p.bot.SendLocation(ctx, to, reply.Location.Lat, reply.Location.Lon)
	}
	return p.bot.Send(ctx, to, reply.Text, reply.Keyboard)
}

// toEvent strips transport detail off an update. Updates that carry neither
// a message nor a callback are dropped.
func toEvent(update tgbotapi.Update) (conversation.Event, bool) {
	if cq := update.CallbackQuery; cq != nil {
		if cq.Message == nil {
			return conversation.Event{}, false
		}
		return conversation.Event{
			ActorID:  kernel.ActorID(cq.Message.Chat.ID),
			Callback: cq.Data,
		}, true
	}

	msg := update.Message
	if msg == nil {
		return conversation.Event{}, false
	}

	event := conversation.Event{
		ActorID: kernel.ActorID(msg.Chat.ID),
		Text:    msg.Text,
	}
	if msg.Contact != nil {
		event.Contact = &conversation.Contact{Phone: msg.Contact.PhoneNumber}
	}
	if msg.Location != nil {
		event.Location = &conversation.Point{
			Lat: msg.Location.Latitude,
			Lon: msg.Location.Longitude,
		}
	}

	return event, true
}
