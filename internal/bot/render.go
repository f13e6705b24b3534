package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/escrowkeeper/escrowkeeper/internal/application/session"
	"github.com/escrowkeeper/escrowkeeper/internal/domain/deal"
)

var statusNames = map[deal.Status]string{
	deal.StatusAwaitSellerConfirm: "Awaiting seller confirmation",
	deal.StatusAwaitPayment:       "Awaiting payment",
	deal.StatusPaidWaitDelivery:   "Paid, awaiting delivery",
	deal.StatusWaitBuyerConfirm:   "Awaiting buyer confirmation",
	deal.StatusCompleted:          "Completed successfully",
	deal.StatusDispute:            "DISPUTE",
	deal.StatusResolvedBuyer:      "Dispute resolved in favor of the buyer",
	deal.StatusResolvedSeller:     "Dispute resolved in favor of the seller",
	deal.StatusResolvedPartial:    "Dispute resolved with a partial refund",
	deal.StatusRejectedBySeller:   "Rejected by the seller",
	deal.StatusCancelled:          "Cancelled",
}

func statusName(s deal.Status) string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return string(s)
}

const welcomeText = "Hi! I am an escrow bot 🤝\n\n" +
	"I help buyers and sellers run safe deals. Funds go to the escrow " +
	"holder and are transferred manually to the right party once the deal " +
	"completes.\n\nPick an action:"

const helpText = "ℹ️ How it works\n\n" +
	"1. The buyer creates a deal through the bot.\n" +
	"2. The seller confirms the terms.\n" +
	"3. The buyer pays to the escrow holder.\n" +
	"4. The seller delivers the goods or service.\n" +
	"5. The buyer confirms receipt or opens a dispute.\n" +
	"6. Disputes are decided by an arbiter.\n\n" +
	"Commands:\n" +
	"/start — main menu\n" +
	"/help — this message\n" +
	"/mydeals — your deals\n" +
	"/deal DEAL_ID — deal details\n" +
	"/cancel — abort the current operation"

const adminPanelText = "👮 Arbiter panel\n\n" +
	"Available functions:\n" +
	"• Review disputed deals\n" +
	"• Resolve disputes\n\n" +
	"Commands:\n" +
	"/disputes — all deals in DISPUTE"

const promptSellerText = "🆕 New deal.\n\nStep 1/3.\n" +
	"Forward any message from the seller here, or type their numeric id, " +
	"so the bot can reach them."

const promptAmountText = "Step 2/3.\n" +
	"Enter the deal amount (a number, period or comma allowed, e.g. 1500 or 199.99)."

const promptDescriptionText = "Step 3/3.\n" +
	"Describe the goods or service: what is being sold, key terms, deadlines."

const rePromptSellerText = "Could not identify the seller 🤔\n" +
	"Please forward one of their messages here or send their numeric id."

const rePromptAmountText = "That amount does not parse. " +
	"Enter a positive number, e.g. 1500 or 199.99."

const rePromptDescriptionText = "Please describe the goods or service as text."

const fallbackText = "Use /start to open the menu or /help for instructions."

const sessionHintText = "I did not understand that. " +
	"To abort the current deal creation, send /cancel."

// displayName resolves a participant id to a human-readable handle, falling
// back to the raw id for identities the bot has never seen.
func (r *Router) displayName(ctx context.Context, id int64) string {
	p, err := r.participants.GetByID(ctx, id)
	if err != nil || p == nil || p.DisplayName == "" {
		return fmt.Sprintf("%d", id)
	}
	return p.DisplayName
}

func (r *Router) formatDeal(ctx context.Context, d *deal.Deal) string {
	return fmt.Sprintf(
		"🧾 Deal #%d\n"+
			"👤 Buyer: %s\n"+
			"💼 Seller: %s\n"+
			"💰 Amount: %s\n"+
			"📦 Description: %s\n\n"+
			"📌 Status: %s\n"+
			"🕒 Created: %s\n"+
			"🔄 Updated: %s",
		d.ID,
		r.displayName(ctx, d.BuyerID),
		r.displayName(ctx, d.SellerID),
		d.Amount.StringFixed(2),
		d.Description,
		statusName(d.Status),
		d.CreatedAt.Format(time.RFC3339),
		d.UpdatedAt.Format(time.RFC3339),
	)
}

func (r *Router) formatDealList(deals []*deal.Deal) string {
	if len(deals) == 0 {
		return "You have no deals yet."
	}
	lines := []string{"📜 Your latest deals:"}
	for _, d := range deals {
		lines = append(lines, fmt.Sprintf("• #%d — %s — %s — %s",
			d.ID, d.Amount.StringFixed(2), statusName(d.Status), d.CreatedAt.Format("2006-01-02")))
	}
	lines = append(lines, "", "Details: /deal DEAL_ID")
	return strings.Join(lines, "\n")
}

func (r *Router) formatDisputeList(ctx context.Context, deals []*deal.Deal) string {
	if len(deals) == 0 {
		return "No disputed deals."
	}
	lines := []string{"⚠️ Disputed deals:"}
	for _, d := range deals {
		lines = append(lines, fmt.Sprintf("• #%d — %s (%s vs %s) — %s",
			d.ID, d.Amount.StringFixed(2),
			r.displayName(ctx, d.BuyerID), r.displayName(ctx, d.SellerID),
			d.CreatedAt.Format("2006-01-02")))
	}
	return strings.Join(lines, "\n")
}

func (r *Router) formatDraftSummary(ctx context.Context, ownerID int64, s session.Session) string {
	return fmt.Sprintf(
		"Check the deal details:\n\n"+
			"👤 You (buyer): %s\n"+
			"💼 Seller: %d\n"+
			"💰 Amount: %s\n"+
			"📦 Description: %s\n\n"+
			"If everything is correct, confirm the deal.",
		r.displayName(ctx, ownerID), s.SellerID, s.Amount.StringFixed(2), s.Description)
}

// rePrompt returns the step-specific validation message for a session whose
// input was rejected.
func rePrompt(step session.Step) string {
	switch step {
	case session.StepSeller:
		return rePromptSellerText
	case session.StepAmount:
		return rePromptAmountText
	case session.StepDescription:
		return rePromptDescriptionText
	default:
		return sessionHintText
	}
}
