package gateway

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ActionKind tags a decoded button action.
type ActionKind string

const (
	ActionMenuNewDeal    ActionKind = "menu_new_deal"
	ActionMenuMyDeals    ActionKind = "menu_my_deals"
	ActionNewDealConfirm ActionKind = "new_deal_confirm"
	ActionNewDealAbort   ActionKind = "new_deal_abort"
	ActionSellerAccept   ActionKind = "seller_accept"
	ActionSellerReject   ActionKind = "seller_reject"
	ActionBuyerPaid      ActionKind = "buyer_paid"
	ActionBuyerCancel    ActionKind = "buyer_cancel"
	ActionSellerSent     ActionKind = "seller_sent"
	ActionBuyerOK        ActionKind = "buyer_ok"
	ActionBuyerDispute   ActionKind = "buyer_dispute"
	ActionResolveBuyer   ActionKind = "resolve_buyer"
	ActionResolveSeller  ActionKind = "resolve_seller"
	ActionResolvePartial ActionKind = "resolve_partial"
)

// ErrUnknownAction is returned for tokens that do not decode to a known kind.
var ErrUnknownAction = errors.New("unknown action token")

// Action is a button action decoded once at the transport boundary. DealID
// is zero for menu and session actions that do not address a deal.
type Action struct {
	Kind   ActionKind
	DealID int64
}

var dealActions = map[ActionKind]bool{
	ActionSellerAccept:   true,
	ActionSellerReject:   true,
	ActionBuyerPaid:      true,
	ActionBuyerCancel:    true,
	ActionSellerSent:     true,
	ActionBuyerOK:        true,
	ActionBuyerDispute:   true,
	ActionResolveBuyer:   true,
	ActionResolveSeller:  true,
	ActionResolvePartial: true,
}

var menuActions = map[ActionKind]bool{
	ActionMenuNewDeal:    true,
	ActionMenuMyDeals:    true,
	ActionNewDealConfirm: true,
	ActionNewDealAbort:   true,
}

// Token encodes an action for an inline button.
func (a Action) Token() string {
	if dealActions[a.Kind] {
		return fmt.Sprintf("%s:%d", a.Kind, a.DealID)
	}
	return string(a.Kind)
}

// ParseAction decodes a button token. Deal-scoped kinds require a positive
// deal id suffix; menu kinds must be bare.
func ParseAction(token string) (Action, error) {
	kind, rest, found := strings.Cut(token, ":")
	k := ActionKind(kind)
	switch {
	case menuActions[k]:
		if found {
			return Action{}, ErrUnknownAction
		}
		return Action{Kind: k}, nil
	case dealActions[k]:
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || id <= 0 {
			return Action{}, ErrUnknownAction
		}
		return Action{Kind: k, DealID: id}, nil
	default:
		return Action{}, ErrUnknownAction
	}
}
