package domain

import "time"

type EmailType string

const (
	EmailTypeInvoice EmailType = "invoice"
	EmailTypeReceipt EmailType = "receipt"
)

func (t EmailType) Valid() bool {
	return t == EmailTypeInvoice || t == EmailTypeReceipt
}

type OutboxStatus string

const (
	OutboxStatusPending OutboxStatus = "pending"
	OutboxStatusSent    OutboxStatus = "sent"
	OutboxStatusDead    OutboxStatus = "dead"
)

// EmailOutboxEntry records a booking email whose first delivery failed.
type EmailOutboxEntry struct {
	ID            int64        `json:"id"`
	BookingID     string       `json:"booking_id"`
	Type          EmailType    `json:"type"`
	Attempts      int          `json:"attempts"`
	LastError     string       `json:"last_error"`
	Status        OutboxStatus `json:"status"`
	NextAttemptOn time.Time    `json:"next_attempt_on"`
	CreatedOn     time.Time    `json:"created_on"`
	UpdatedOn     time.Time    `json:"updated_on"`
}
