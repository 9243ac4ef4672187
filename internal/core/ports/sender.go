package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// Button is one pressable element of a keyboard. A non-empty Code makes it a
// callback button delivering that code back as a callback event; otherwise
// the label is sent back as plain text.
type Button struct {
	Label string
	Code  string

	// RequestContact asks the transport to render a contact-sharing button
	// where supported.
	RequestContact bool

	// RequestLocation asks the transport to render a location-sharing
	// button where supported.
	RequestLocation bool
}

// Keyboard is a grid of buttons rendered under an outgoing message.
type Keyboard [][]Button

// Row is a convenience constructor for a one-row keyboard fragment.
func Row(buttons ...Button) []Button {
	return buttons
}

// Sender is the outbound half of the chat transport. Implementations are
// per-role: each role's messages leave through that role's bot connection.
type Sender interface {
	// Send delivers text with an optional keyboard to the actor's chat.
	Send(ctx context.Context, to kernel.ActorID, text string, keyboard Keyboard) error

	// SendLocation delivers a map point to the actor's chat.
	SendLocation(ctx context.Context, to kernel.ActorID, lat, lon float64) error
}
