package participant

// Participant is a known messaging-platform identity. The id is assigned by
// the platform and globally unique; rows are created or refreshed on first
// contact and never deleted.
type Participant struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"displayName"`
	IsArbiter   bool   `json:"isArbiter"`
}
