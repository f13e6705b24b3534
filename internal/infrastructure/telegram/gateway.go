// Package telegram adapts the Telegram Bot API to the gateway contract. It
// is the only package that knows the platform; the core sees gateway types.
package telegram

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/escrowkeeper/escrowkeeper/internal/gateway"
)

// Gateway implements gateway.Messenger over a long-polling Telegram bot.
type Gateway struct {
	bot    *tgbotapi.BotAPI
	logger zerolog.Logger
}

func New(token string, logger zerolog.Logger) (*Gateway, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Gateway{
		bot:    bot,
		logger: logger.With().Str("service", "telegram").Logger(),
	}, nil
}

func (g *Gateway) Send(ctx context.Context, recipientID int64, text string, buttons [][]gateway.Button) (gateway.MessageRef, error) {
	if err := ctx.Err(); err != nil {
		return gateway.MessageRef{}, err
	}
	msg := tgbotapi.NewMessage(recipientID, text)
	if markup := toMarkup(buttons); markup != nil {
		msg.ReplyMarkup = *markup
	}
	sent, err := g.bot.Send(msg)
	if err != nil {
		return gateway.MessageRef{}, &gateway.DeliveryError{RecipientID: recipientID, Err: err}
	}
	return gateway.MessageRef{ChatID: sent.Chat.ID, MessageID: sent.MessageID}, nil
}

func (g *Gateway) Edit(ctx context.Context, ref gateway.MessageRef, text string, buttons [][]gateway.Button) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var err error
	if markup := toMarkup(buttons); markup != nil {
		_, err = g.bot.Send(tgbotapi.NewEditMessageTextAndMarkup(ref.ChatID, ref.MessageID, text, *markup))
	} else {
		_, err = g.bot.Send(tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text))
	}
	if err != nil {
		return &gateway.DeliveryError{RecipientID: ref.ChatID, Err: err}
	}
	return nil
}

func (g *Gateway) ForwardRaw(ctx context.Context, from gateway.MessageRef, toRecipientID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Copy rather than forward so the relayed message carries no
	// "forwarded from" header pointing at the seller.
	if _, err := g.bot.CopyMessage(tgbotapi.NewCopyMessage(toRecipientID, from.ChatID, from.MessageID)); err != nil {
		return &gateway.DeliveryError{RecipientID: toRecipientID, Err: err}
	}
	return nil
}

// Run polls Telegram for updates and feeds them to the handler until the
// context is cancelled. Each update is handled synchronously; Telegram
// queues the rest.
func (g *Gateway) Run(ctx context.Context, handler gateway.Handler) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := g.bot.GetUpdatesChan(cfg)
	g.logger.Info().Str("bot", g.bot.Self.UserName).Msg("update polling started")

	for {
		select {
		case <-ctx.Done():
			g.bot.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			g.route(ctx, handler, update)
		}
	}
}

func (g *Gateway) route(ctx context.Context, handler gateway.Handler, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		cq := update.CallbackQuery
		if cq.Message == nil || cq.From == nil {
			return
		}
		// Acknowledge the press so the client stops its spinner.
		if _, err := g.bot.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			g.logger.Warn().Err(err).Msg("callback ack failed")
		}
		handler.HandleButton(ctx, gateway.ButtonAction{
			Token:    cq.Data,
			SenderID: cq.From.ID,
			Sender:   displayName(cq.From),
			Ref: gateway.MessageRef{
				ChatID:    cq.Message.Chat.ID,
				MessageID: cq.Message.MessageID,
			},
		})
	case update.Message != nil:
		msg := update.Message
		if msg.From == nil {
			return
		}
		ref := gateway.MessageRef{ChatID: msg.Chat.ID, MessageID: msg.MessageID}
		if msg.IsCommand() {
			handler.HandleCommand(ctx, gateway.Command{
				Name:     msg.Command(),
				Args:     msg.CommandArguments(),
				SenderID: msg.From.ID,
				Sender:   displayName(msg.From),
				Ref:      ref,
			})
			return
		}
		text := gateway.TextMessage{
			Text:     msg.Text,
			SenderID: msg.From.ID,
			Sender:   displayName(msg.From),
			Ref:      ref,
		}
		if msg.ForwardFrom != nil {
			text.ForwardedSenderID = msg.ForwardFrom.ID
			text.ForwardedSender = displayName(msg.ForwardFrom)
		}
		handler.HandleText(ctx, text)
	}
}

func toMarkup(buttons [][]gateway.Button) *tgbotapi.InlineKeyboardMarkup {
	if len(buttons) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, row := range buttons {
		r := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			r = append(r, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Token))
		}
		rows = append(rows, r)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func displayName(u *tgbotapi.User) string {
	switch {
	case u.UserName != "":
		return "@" + u.UserName
	case u.FirstName != "":
		return u.FirstName
	default:
		return strconv.FormatInt(u.ID, 10)
	}
}
