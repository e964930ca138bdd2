package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking status values.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCanceled  = "canceled"
)

// Payment status values.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Attachment is a document the client attached to a booking. Storage of the
// file itself is handled elsewhere; only the reference is kept.
type Attachment struct {
	Name string `bson:"name" json:"name"`
	URL  string `bson:"url" json:"url"`
}

// TransactionMeta records the gateway outcome for a booking's payment.
type TransactionMeta struct {
	TransactionID string    `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	OrderID       string    `bson:"order_id,omitempty" json:"order_id,omitempty"`
	ErrorCode     string    `bson:"error_code,omitempty" json:"error_code,omitempty"`
	ReceivedAt    time.Time `bson:"received_at" json:"received_at"`
}

// Booking represents a reservation of one contiguous time range with one expert.
type Booking struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID      string             `bson:"client_id" json:"client_id"`
	ExpertID      string             `bson:"expert_id" json:"expert_id"`
	Date          string             `bson:"date" json:"date"`             // "YYYY-MM-DD"
	StartTime     string             `bson:"start_time" json:"start_time"` // "HH:MM"
	EndTime       string             `bson:"end_time" json:"end_time"`     // "HH:MM"
	Price         float64            `bson:"price" json:"price"`
	Status        string             `bson:"status" json:"status"`
	PaymentStatus string             `bson:"payment_status" json:"payment_status"`
	PaymentMethod string             `bson:"payment_method,omitempty" json:"payment_method,omitempty"`
	Note          string             `bson:"note,omitempty" json:"note,omitempty"`
	Attachments   []Attachment       `bson:"attachments,omitempty" json:"attachments,omitempty"`
	Payment       *TransactionMeta   `bson:"payment,omitempty" json:"payment,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
	CompletedAt   *time.Time         `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// IsActive reports whether the booking still occupies its time slot.
func (b *Booking) IsActive() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// IsTerminalStatus reports whether a status admits no further transitions.
func IsTerminalStatus(status string) bool {
	return status == BookingCompleted || status == BookingCanceled
}
