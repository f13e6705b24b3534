package audit

import "time"

// Entry is one append-only audit log record. Exactly one entry is written
// per committed deal transition, creation included; ordering by id
// reconstructs the full history of a deal.
type Entry struct {
	ID        int64     `json:"id"`
	DealID    int64     `json:"dealId"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"createdAt"`
}
