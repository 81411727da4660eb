package domain

import "time"

// Request statuses. A request starts pending and moves at most once to
// approved or rejected.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Request struct {
	ID                string     `db:"id" json:"id"`
	ItemID            string     `db:"item_id" json:"item_id"`
	RequesterID       string     `db:"requester_id" json:"requester_id"`
	QuantityRequested int64      `db:"quantity_requested" json:"quantity_requested"`
	Status            string     `db:"status" json:"status"`
	RequestDate       time.Time  `db:"request_date" json:"request_date"`
	ApprovedDate      *time.Time `db:"approved_date" json:"approved_date,omitempty"`
	Department        string     `db:"department" json:"department"`
	Reason            string     `db:"reason" json:"reason"`

	// Join-derived display fields, not stored on the requests row.
	ItemName      string `db:"item_name" json:"item_name,omitempty"`
	RequesterName string `db:"requester_name" json:"requester_name,omitempty"`
}

// Terminal reports whether the request has already been decided.
func (r *Request) Terminal() bool {
	return r.Status == StatusApproved || r.Status == StatusRejected
}

// ValidStatus reports whether s is a known request status.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}
