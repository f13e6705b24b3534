package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionTokenRoundTrip(t *testing.T) {
	cases := []Action{
		{Kind: ActionMenuNewDeal},
		{Kind: ActionMenuMyDeals},
		{Kind: ActionNewDealConfirm},
		{Kind: ActionNewDealAbort},
		{Kind: ActionSellerAccept, DealID: 7},
		{Kind: ActionSellerReject, DealID: 7},
		{Kind: ActionBuyerPaid, DealID: 42},
		{Kind: ActionBuyerCancel, DealID: 42},
		{Kind: ActionSellerSent, DealID: 1},
		{Kind: ActionBuyerOK, DealID: 9001},
		{Kind: ActionBuyerDispute, DealID: 9001},
		{Kind: ActionResolveBuyer, DealID: 3},
		{Kind: ActionResolveSeller, DealID: 3},
		{Kind: ActionResolvePartial, DealID: 3},
	}
	for _, want := range cases {
		got, err := ParseAction(want.Token())
		require.NoError(t, err, "token %q", want.Token())
		assert.Equal(t, want, got)
	}
}

func TestParseActionRejectsMalformedTokens(t *testing.T) {
	bad := []string{
		"",
		"launch_missiles",
		"seller_accept",      // deal action without id
		"seller_accept:",     // empty id
		"seller_accept:abc",  // non-numeric id
		"seller_accept:0",    // ids start at 1
		"seller_accept:-4",   // negative id
		"menu_new_deal:5",    // menu kinds are bare
		"new_deal_confirm:1", // session kinds are bare
	}
	for _, token := range bad {
		_, err := ParseAction(token)
		assert.ErrorIs(t, err, ErrUnknownAction, "token %q", token)
	}
}
