// Package gateway defines the contract between the escrow core and the
// messaging transport. The core only ever sees these types; the concrete
// platform client lives in internal/infrastructure.
package gateway

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_messenger.go -package=mocks . Messenger

import (
	"context"
	"fmt"
)

// Button is one inline action attached to an outbound message.
type Button struct {
	Label string
	Token string
}

// MessageRef identifies a message on the platform, both for editing outbound
// messages and for relaying inbound ones.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Messenger pushes messages to participants. Implementations must return
// *DeliveryError when a recipient is unreachable so callers can treat the
// failure as non-fatal.
type Messenger interface {
	Send(ctx context.Context, recipientID int64, text string, buttons [][]Button) (MessageRef, error)
	Edit(ctx context.Context, ref MessageRef, text string, buttons [][]Button) error
	// ForwardRaw relays an arbitrary inbound message (text, file, image)
	// verbatim to another recipient.
	ForwardRaw(ctx context.Context, from MessageRef, toRecipientID int64) error
}

// DeliveryError wraps a transport failure for a single recipient.
type DeliveryError struct {
	RecipientID int64
	Err         error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %d failed: %v", e.RecipientID, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Command is an inbound slash command.
type Command struct {
	Name     string
	Args     string
	SenderID int64
	Sender   string
	Ref      MessageRef
}

// TextMessage is an inbound free-form message. ForwardedSenderID is non-zero
// when the message was forwarded from another platform identity;
// ForwardedSender carries that identity's display name.
type TextMessage struct {
	Text              string
	SenderID          int64
	Sender            string
	ForwardedSenderID int64
	ForwardedSender   string
	Ref               MessageRef
}

// ButtonAction is an inbound press of an inline button.
type ButtonAction struct {
	Token    string
	SenderID int64
	Sender   string
	Ref      MessageRef
}

// Handler consumes classified inbound events. The transport adapter drives
// it from its update loop.
type Handler interface {
	HandleCommand(ctx context.Context, cmd Command)
	HandleText(ctx context.Context, msg TextMessage)
	HandleButton(ctx context.Context, act ButtonAction)
}
