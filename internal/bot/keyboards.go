package bot

import "github.com/escrowkeeper/escrowkeeper/internal/gateway"

func button(label string, kind gateway.ActionKind, dealID int64) gateway.Button {
	return gateway.Button{Label: label, Token: gateway.Action{Kind: kind, DealID: dealID}.Token()}
}

func mainMenuKB() [][]gateway.Button {
	return [][]gateway.Button{
		{button("🆕 Create a deal", gateway.ActionMenuNewDeal, 0)},
		{button("📜 My deals", gateway.ActionMenuMyDeals, 0)},
	}
}

func confirmNewDealKB() [][]gateway.Button {
	return [][]gateway.Button{{
		button("✅ Confirm", gateway.ActionNewDealConfirm, 0),
		button("❌ Cancel", gateway.ActionNewDealAbort, 0),
	}}
}

func sellerConfirmKB(dealID int64) [][]gateway.Button {
	return [][]gateway.Button{{
		button("✅ Accept", gateway.ActionSellerAccept, dealID),
		button("❌ Decline", gateway.ActionSellerReject, dealID),
	}}
}

func buyerPaymentKB(dealID int64) [][]gateway.Button {
	return [][]gateway.Button{
		{button("💸 I have paid", gateway.ActionBuyerPaid, dealID)},
		{button("❌ Cancel the deal", gateway.ActionBuyerCancel, dealID)},
	}
}

func sellerDeliveryKB(dealID int64) [][]gateway.Button {
	return [][]gateway.Button{{button("📦 Goods sent", gateway.ActionSellerSent, dealID)}}
}

func buyerConfirmKB(dealID int64) [][]gateway.Button {
	return [][]gateway.Button{{
		button("✅ All good", gateway.ActionBuyerOK, dealID),
		button("⚠️ There is a problem", gateway.ActionBuyerDispute, dealID),
	}}
}

func arbiterDisputeKB(dealID int64) [][]gateway.Button {
	return [][]gateway.Button{
		{
			button("👤 In favor of the buyer", gateway.ActionResolveBuyer, dealID),
			button("🧑‍💻 In favor of the seller", gateway.ActionResolveSeller, dealID),
		},
		{button("⚖️ Partial refund", gateway.ActionResolvePartial, dealID)},
	}
}
