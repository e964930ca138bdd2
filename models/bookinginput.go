package models

// CreateBookingInput is the payload for creating a booking.
type CreateBookingInput struct {
	ExpertID      string       `json:"expertId" binding:"required"`
	Date          string       `json:"date" binding:"required"`      // "YYYY-MM-DD"
	StartTime     string       `json:"startTime" binding:"required"` // "HH:MM"
	EndTime       string       `json:"endTime" binding:"required"`   // "HH:MM"
	PaymentMethod string       `json:"paymentMethod"`
	Note          string       `json:"note"`
	Attachments   []Attachment `json:"attachments"`
}

// Listing status buckets.
const (
	BucketUpcoming  = "upcoming"
	BucketCompleted = "completed"
	BucketCanceled  = "canceled"
)

// BookingListFilter narrows a booking listing.
type BookingListFilter struct {
	Bucket string `json:"bucket,omitempty"` // upcoming | completed | canceled, empty = all
	Date   string `json:"date,omitempty"`   // "YYYY-MM-DD"
	Search string `json:"search,omitempty"` // free-text match against the note
}

// BookingPage is one cursor-paginated page of bookings. NextCursor is nil
// when the listing is exhausted.
type BookingPage struct {
	Items      []Booking `json:"items"`
	NextCursor *string   `json:"nextCursor"`
}
