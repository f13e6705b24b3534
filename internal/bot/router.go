// Package bot classifies inbound gateway events and routes them to the
// creation-session engine or the deal lifecycle engine, rendering the
// replies and inline keyboards the parties see.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/escrowkeeper/escrowkeeper/internal/application/lifecycle"
	"github.com/escrowkeeper/escrowkeeper/internal/application/notify"
	"github.com/escrowkeeper/escrowkeeper/internal/application/session"
	"github.com/escrowkeeper/escrowkeeper/internal/domain/deal"
	"github.com/escrowkeeper/escrowkeeper/internal/domain/participant"
	"github.com/escrowkeeper/escrowkeeper/internal/gateway"
)

// Router implements gateway.Handler.
type Router struct {
	sessions     *session.Engine
	lifecycle    *lifecycle.Service
	dispatcher   *notify.Dispatcher
	participants participant.Repository
	messenger    gateway.Messenger
	paymentInfo  string
	logger       zerolog.Logger
}

func NewRouter(
	sessions *session.Engine,
	lifecycleSvc *lifecycle.Service,
	dispatcher *notify.Dispatcher,
	participants participant.Repository,
	messenger gateway.Messenger,
	paymentInfo string,
	logger zerolog.Logger,
) *Router {
	return &Router{
		sessions:     sessions,
		lifecycle:    lifecycleSvc,
		dispatcher:   dispatcher,
		participants: participants,
		messenger:    messenger,
		paymentInfo:  paymentInfo,
		logger:       logger.With().Str("service", "router").Logger(),
	}
}

var buttonEvents = map[gateway.ActionKind]deal.Event{
	gateway.ActionSellerAccept:   deal.EventSellerAccept,
	gateway.ActionSellerReject:   deal.EventSellerReject,
	gateway.ActionBuyerPaid:      deal.EventBuyerPaid,
	gateway.ActionBuyerCancel:    deal.EventBuyerCancel,
	gateway.ActionSellerSent:     deal.EventSellerDelivered,
	gateway.ActionBuyerOK:        deal.EventBuyerConfirm,
	gateway.ActionBuyerDispute:   deal.EventBuyerDispute,
	gateway.ActionResolveBuyer:   deal.EventResolveBuyer,
	gateway.ActionResolveSeller:  deal.EventResolveSeller,
	gateway.ActionResolvePartial: deal.EventResolvePartial,
}

// HandleCommand handles inbound slash commands.
func (r *Router) HandleCommand(ctx context.Context, cmd gateway.Command) {
	r.upsert(ctx, cmd.SenderID, cmd.Sender)

	switch cmd.Name {
	case "start":
		r.reply(ctx, cmd.SenderID, welcomeText, mainMenuKB())
	case "help":
		r.reply(ctx, cmd.SenderID, helpText, nil)
	case "mydeals":
		deals, err := r.lifecycle.DealsFor(ctx, cmd.SenderID, 20)
		if err != nil {
			r.logger.Error().Err(err).Int64("sender_id", cmd.SenderID).Msg("list deals failed")
			return
		}
		r.reply(ctx, cmd.SenderID, r.formatDealList(deals), nil)
	case "deal":
		id, err := strconv.ParseInt(strings.TrimSpace(cmd.Args), 10, 64)
		if err != nil {
			r.reply(ctx, cmd.SenderID, "Usage: /deal 123", nil)
			return
		}
		d, err := r.lifecycle.Get(ctx, id)
		if errors.Is(err, deal.ErrNotFound) {
			r.reply(ctx, cmd.SenderID, "Deal not found.", nil)
			return
		}
		if err != nil {
			r.logger.Error().Err(err).Int64("deal_id", id).Msg("load deal failed")
			return
		}
		r.reply(ctx, cmd.SenderID, r.formatDeal(ctx, d), nil)
	case "admin":
		if !r.lifecycle.IsArbiter(cmd.SenderID) {
			return
		}
		r.reply(ctx, cmd.SenderID, adminPanelText, nil)
	case "disputes":
		if !r.lifecycle.IsArbiter(cmd.SenderID) {
			return
		}
		deals, err := r.lifecycle.Disputes(ctx)
		if err != nil {
			r.logger.Error().Err(err).Msg("list disputes failed")
			return
		}
		r.reply(ctx, cmd.SenderID, r.formatDisputeList(ctx, deals), nil)
	case "cancel":
		r.sessions.Abort(cmd.SenderID)
		r.reply(ctx, cmd.SenderID, "Current operation cancelled.", mainMenuKB())
	default:
		r.reply(ctx, cmd.SenderID, fallbackText, nil)
	}
}

// HandleText handles inbound free-form messages. A message from an initiator
// with an open creation session advances that session; otherwise it may
// trigger the delivery heuristic for a seller with a paid deal awaiting
// delivery; otherwise the sender gets a usage hint.
func (r *Router) HandleText(ctx context.Context, msg gateway.TextMessage) {
	r.upsert(ctx, msg.SenderID, msg.Sender)
	if msg.ForwardedSenderID != 0 {
		r.upsert(ctx, msg.ForwardedSenderID, msg.ForwardedSender)
	}

	if _, ok := r.sessions.Get(msg.SenderID); ok {
		r.advanceSession(ctx, msg)
		return
	}

	res, err := r.lifecycle.DeliverLatest(ctx, msg.SenderID)
	if err != nil {
		r.logger.Error().Err(err).Int64("sender_id", msg.SenderID).Msg("delivery heuristic failed")
		return
	}
	if res == nil {
		r.reply(ctx, msg.SenderID, fallbackText, nil)
		return
	}

	// The message itself is the delivery: relay it to the buyer verbatim,
	// then run the usual post-transition notifications.
	r.reply(ctx, msg.SenderID, fmt.Sprintf(
		"Your message was forwarded to the buyer for deal #%d.\nAwaiting the buyer's confirmation.", res.Deal.ID),
		mainMenuKB())
	if err := r.messenger.ForwardRaw(ctx, msg.Ref, res.Deal.BuyerID); err != nil {
		r.logger.Warn().Err(err).Int64("buyer_id", res.Deal.BuyerID).Msg("delivery relay failed")
	}
	r.dispatcher.Dispatch(ctx, r.noticesFor(ctx, res))
}

// HandleButton handles inline button presses.
func (r *Router) HandleButton(ctx context.Context, act gateway.ButtonAction) {
	r.upsert(ctx, act.SenderID, act.Sender)

	action, err := gateway.ParseAction(act.Token)
	if err != nil {
		r.logger.Warn().Str("token", act.Token).Int64("sender_id", act.SenderID).Msg("unknown button token")
		return
	}

	switch action.Kind {
	case gateway.ActionMenuNewDeal:
		r.sessions.Start(act.SenderID)
		r.edit(ctx, act.Ref, promptSellerText, nil)
	case gateway.ActionMenuMyDeals:
		deals, err := r.lifecycle.DealsFor(ctx, act.SenderID, 20)
		if err != nil {
			r.logger.Error().Err(err).Int64("sender_id", act.SenderID).Msg("list deals failed")
			return
		}
		r.edit(ctx, act.Ref, r.formatDealList(deals), mainMenuKB())
	case gateway.ActionNewDealConfirm:
		r.confirmNewDeal(ctx, act)
	case gateway.ActionNewDealAbort:
		if !r.sessions.Abort(act.SenderID) {
			r.edit(ctx, act.Ref, "No deal creation in progress.", mainMenuKB())
			return
		}
		r.edit(ctx, act.Ref, "Deal creation cancelled.", mainMenuKB())
	default:
		r.applyButtonTransition(ctx, act, action)
	}
}

func (r *Router) advanceSession(ctx context.Context, msg gateway.TextMessage) {
	s, err := r.sessions.Advance(msg.SenderID, session.Input{
		Text:              msg.Text,
		ForwardedSenderID: msg.ForwardedSenderID,
	})
	if errors.Is(err, deal.ErrValidation) {
		r.reply(ctx, msg.SenderID, rePrompt(s.Step), nil)
		return
	}
	if err != nil {
		r.logger.Error().Err(err).Int64("sender_id", msg.SenderID).Msg("session advance failed")
		return
	}

	switch s.Step {
	case session.StepAmount:
		r.reply(ctx, msg.SenderID, promptAmountText, nil)
	case session.StepDescription:
		r.reply(ctx, msg.SenderID, promptDescriptionText, nil)
	case session.StepConfirm:
		r.reply(ctx, msg.SenderID, r.formatDraftSummary(ctx, msg.SenderID, s), confirmNewDealKB())
	}
}

func (r *Router) confirmNewDeal(ctx context.Context, act gateway.ButtonAction) {
	draft, err := r.sessions.Confirm(act.SenderID)
	if errors.Is(err, session.ErrNoSession) {
		r.edit(ctx, act.Ref, "No deal creation in progress.", mainMenuKB())
		return
	}

	d, err := r.lifecycle.Create(ctx, act.SenderID, draft.SellerID, draft.Amount, draft.Description)
	if errors.Is(err, deal.ErrValidation) {
		r.edit(ctx, act.Ref, "The deal details are incomplete. Please start over.", mainMenuKB())
		return
	}
	if err != nil {
		r.logger.Error().Err(err).Int64("buyer_id", act.SenderID).Msg("create deal failed")
		r.edit(ctx, act.Ref, "Could not create the deal. Please try again.", mainMenuKB())
		return
	}

	r.edit(ctx, act.Ref, fmt.Sprintf(
		"✅ Deal #%d created!\n\nThe seller has been asked to confirm the terms.\nStatus: %s",
		d.ID, statusName(d.Status)), mainMenuKB())

	r.dispatcher.Dispatch(ctx, []notify.Notice{{
		RecipientID: d.SellerID,
		Text: fmt.Sprintf("🤝 You have been invited to an escrow deal.\n\n%s\n\n"+
			"If you agree with the terms, confirm your participation:", r.formatDeal(ctx, d)),
		Buttons: sellerConfirmKB(d.ID),
	}})
}

func (r *Router) applyButtonTransition(ctx context.Context, act gateway.ButtonAction, action gateway.Action) {
	event, ok := buttonEvents[action.Kind]
	if !ok {
		return
	}
	res, err := r.lifecycle.Apply(ctx, action.DealID, act.SenderID, event)
	if err != nil {
		r.reply(ctx, act.SenderID, rejectionText(err), nil)
		return
	}
	r.edit(ctx, act.Ref, r.actorText(res), mainMenuKB())
	r.dispatcher.Dispatch(ctx, r.noticesFor(ctx, res))
}

// actorText is the acknowledgement shown to the party that triggered the
// transition, replacing the message whose button was pressed.
func (r *Router) actorText(res *lifecycle.Result) string {
	id := res.Deal.ID
	switch res.Transition.Event {
	case deal.EventSellerAccept:
		return fmt.Sprintf("You confirmed your participation in deal #%d.\nAwaiting payment from the buyer.", id)
	case deal.EventSellerReject:
		return fmt.Sprintf("You declined deal #%d.", id)
	case deal.EventBuyerPaid:
		return fmt.Sprintf("You marked deal #%d as paid.\nAwaiting delivery from the seller.", id)
	case deal.EventBuyerCancel:
		return fmt.Sprintf("Deal #%d cancelled before payment.", id)
	case deal.EventSellerDelivered:
		return fmt.Sprintf("You marked the goods as delivered for deal #%d.\nAwaiting the buyer's confirmation.", id)
	case deal.EventBuyerConfirm:
		return fmt.Sprintf("You confirmed that deal #%d completed successfully.\n\n"+
			"The escrow holder will transfer the funds to the seller manually.", id)
	case deal.EventBuyerDispute:
		return fmt.Sprintf("You opened a dispute on deal #%d.\n\nThe arbiters will review it and decide.", id)
	case deal.EventResolveBuyer, deal.EventResolveSeller, deal.EventResolvePartial:
		return fmt.Sprintf("You decided deal #%d.\n\n%s.\nRemember to make the payouts manually.",
			id, resolutionPhrase(res.Transition.Event))
	default:
		return fmt.Sprintf("Deal #%d updated.", id)
	}
}

// noticesFor renders the per-recipient notifications of a committed
// transition. Recipients are matched back to their role on the deal; any
// recipient that is neither the buyer nor the seller is an arbiter.
func (r *Router) noticesFor(ctx context.Context, res *lifecycle.Result) []notify.Notice {
	d := res.Deal
	notices := make([]notify.Notice, 0, len(res.Recipients))
	for _, recipient := range res.Recipients {
		n := notify.Notice{RecipientID: recipient}
		switch res.Transition.Event {
		case deal.EventSellerAccept:
			n.Text = fmt.Sprintf("✅ The seller confirmed deal #%d!\n\n%s\n\n"+
				"Now pay to the escrow holder:\n\n%s", d.ID, r.formatDeal(ctx, d), r.paymentInfo)
			n.Buttons = buyerPaymentKB(d.ID)
		case deal.EventSellerReject:
			n.Text = fmt.Sprintf("❌ The seller declined deal #%d.\nThe deal is closed.", d.ID)
		case deal.EventBuyerPaid:
			n.Text = fmt.Sprintf("💸 The buyer paid for deal #%d.\n\n%s\n\n"+
				"Deliver the goods to the buyer where you normally talk, then either "+
				"forward that message to this chat or press the button below:",
				d.ID, r.formatDeal(ctx, d))
			n.Buttons = sellerDeliveryKB(d.ID)
		case deal.EventBuyerCancel:
			n.Text = fmt.Sprintf("❌ The buyer cancelled deal #%d before payment.", d.ID)
		case deal.EventSellerDelivered:
			n.Text = fmt.Sprintf("📦 The seller reports the goods delivered for deal #%d.\n\n%s\n\n"+
				"Confirm the outcome of the deal:", d.ID, r.formatDeal(ctx, d))
			n.Buttons = buyerConfirmKB(d.ID)
		case deal.EventBuyerConfirm:
			if recipient == d.SellerID {
				n.Text = fmt.Sprintf("✅ The buyer confirmed that deal #%d completed successfully.\n"+
					"The escrow holder will transfer your funds per the service terms.", d.ID)
			} else {
				n.Text = fmt.Sprintf("✅ Deal #%d completed successfully.\n"+
					"Remember to transfer the funds to the seller.", d.ID)
			}
		case deal.EventBuyerDispute:
			if recipient == d.SellerID {
				n.Text = fmt.Sprintf("⚠️ The buyer opened a dispute on deal #%d.\nAwaiting the arbiter's decision.", d.ID)
			} else {
				n.Text = fmt.Sprintf("⚠️ DISPUTE opened on deal #%d.\n\n%s\n\nMake a decision:",
					d.ID, r.formatDeal(ctx, d))
				n.Buttons = arbiterDisputeKB(d.ID)
			}
		case deal.EventResolveBuyer, deal.EventResolveSeller, deal.EventResolvePartial:
			n.Text = fmt.Sprintf("⚖️ A decision was made on deal #%d:\n%s.\n\n"+
				"The escrow holder will transfer the funds manually.",
				d.ID, resolutionPhrase(res.Transition.Event))
		default:
			n.Text = fmt.Sprintf("Deal #%d is now: %s.", d.ID, statusName(d.Status))
		}
		notices = append(notices, n)
	}
	return notices
}

func resolutionPhrase(event deal.Event) string {
	switch event {
	case deal.EventResolveBuyer:
		return "Dispute resolved in favor of the buyer"
	case deal.EventResolveSeller:
		return "Dispute resolved in favor of the seller"
	default:
		return "Dispute resolved with a partial refund"
	}
}

func rejectionText(err error) string {
	switch {
	case errors.Is(err, deal.ErrNotFound):
		return "Deal not found."
	case errors.Is(err, deal.ErrUnauthorized):
		return "You are not allowed to do that in this deal."
	case errors.Is(err, deal.ErrInvalidState):
		return "This deal has already been handled."
	default:
		return "Something went wrong. Please try again."
	}
}

func (r *Router) upsert(ctx context.Context, id int64, displayName string) {
	if id == 0 {
		return
	}
	p := &participant.Participant{ID: id, DisplayName: displayName, IsArbiter: r.lifecycle.IsArbiter(id)}
	if err := r.participants.Upsert(ctx, p); err != nil {
		r.logger.Warn().Err(err).Int64("participant_id", id).Msg("participant upsert failed")
	}
}

func (r *Router) reply(ctx context.Context, recipientID int64, text string, buttons [][]gateway.Button) {
	if _, err := r.messenger.Send(ctx, recipientID, text, buttons); err != nil {
		r.logger.Warn().Err(err).Int64("recipient_id", recipientID).Msg("reply failed")
	}
}

func (r *Router) edit(ctx context.Context, ref gateway.MessageRef, text string, buttons [][]gateway.Button) {
	if err := r.messenger.Edit(ctx, ref, text, buttons); err != nil {
		r.logger.Warn().Err(err).Int64("chat_id", ref.ChatID).Msg("edit failed")
	}
}
