package models

// PaymentRequest asks the gateway adapter to prepare a payment for a booking.
type PaymentRequest struct {
	BookingID string  `json:"bookingId"`
	ClientID  string  `json:"clientId"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
}

// PaymentCallback is one logical gateway delivery (synchronous return
// redirect or asynchronous IPN) translated into neutral terms. OrderID
// encodes the booking id as its prefix.
type PaymentCallback struct {
	OrderID       string `json:"orderId"`
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId,omitempty"`
	ErrorCode     string `json:"errorCode,omitempty"`
}
