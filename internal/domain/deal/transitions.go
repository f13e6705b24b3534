package deal

// Event names a lifecycle transition trigger.
type Event string

const (
	EventSellerAccept    Event = "seller_accept"
	EventSellerReject    Event = "seller_reject"
	EventBuyerPaid       Event = "buyer_paid"
	EventBuyerCancel     Event = "buyer_cancel"
	EventSellerDelivered Event = "seller_delivered"
	EventBuyerConfirm    Event = "buyer_confirm"
	EventBuyerDispute    Event = "buyer_dispute"
	EventResolveBuyer    Event = "resolve_buyer"
	EventResolveSeller   Event = "resolve_seller"
	EventResolvePartial  Event = "resolve_partial"
)

// Transition is one row of the fixed lifecycle graph. Action is the audit
// log template, formatted with the acting party's id. Notify lists the roles
// informed after the transition commits.
type Transition struct {
	From   Status
	Event  Event
	Actor  Role
	To     Status
	Notify []Role
	Action string
}

var transitions = []Transition{
	{
		From: StatusAwaitSellerConfirm, Event: EventSellerAccept, Actor: RoleSeller,
		To: StatusAwaitPayment, Notify: []Role{RoleBuyer},
		Action: "seller %d accepted the deal",
	},
	{
		From: StatusAwaitSellerConfirm, Event: EventSellerReject, Actor: RoleSeller,
		To: StatusRejectedBySeller, Notify: []Role{RoleBuyer},
		Action: "seller %d rejected the deal",
	},
	{
		From: StatusAwaitPayment, Event: EventBuyerPaid, Actor: RoleBuyer,
		To: StatusPaidWaitDelivery, Notify: []Role{RoleSeller},
		Action: "buyer %d reported payment",
	},
	{
		From: StatusAwaitPayment, Event: EventBuyerCancel, Actor: RoleBuyer,
		To: StatusCancelled, Notify: []Role{RoleSeller},
		Action: "buyer %d cancelled the deal before payment",
	},
	{
		From: StatusPaidWaitDelivery, Event: EventSellerDelivered, Actor: RoleSeller,
		To: StatusWaitBuyerConfirm, Notify: []Role{RoleBuyer},
		Action: "seller %d marked the goods as delivered",
	},
	{
		From: StatusWaitBuyerConfirm, Event: EventBuyerConfirm, Actor: RoleBuyer,
		To: StatusCompleted, Notify: []Role{RoleSeller, RoleArbiter},
		Action: "buyer %d confirmed successful completion",
	},
	{
		From: StatusWaitBuyerConfirm, Event: EventBuyerDispute, Actor: RoleBuyer,
		To: StatusDispute, Notify: []Role{RoleSeller, RoleArbiter},
		Action: "buyer %d opened a dispute",
	},
	{
		From: StatusDispute, Event: EventResolveBuyer, Actor: RoleArbiter,
		To: StatusResolvedBuyer, Notify: []Role{RoleBuyer, RoleSeller},
		Action: "arbiter %d resolved the dispute in favor of the buyer",
	},
	{
		From: StatusDispute, Event: EventResolveSeller, Actor: RoleArbiter,
		To: StatusResolvedSeller, Notify: []Role{RoleBuyer, RoleSeller},
		Action: "arbiter %d resolved the dispute in favor of the seller",
	},
	{
		From: StatusDispute, Event: EventResolvePartial, Actor: RoleArbiter,
		To: StatusResolvedPartial, Notify: []Role{RoleBuyer, RoleSeller},
		Action: "arbiter %d resolved the dispute with a partial refund",
	},
}

// Lookup returns the transition row for (from, event).
func Lookup(from Status, event Event) (Transition, bool) {
	for _, t := range transitions {
		if t.From == from && t.Event == event {
			return t, true
		}
	}
	return Transition{}, false
}

// Transitions returns a copy of the full transition table.
func Transitions() []Transition {
	out := make([]Transition, len(transitions))
	copy(out, transitions)
	return out
}
