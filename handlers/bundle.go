package handlers

// HandlerBundle groups all endpoint handlers into one struct so route
// registration takes a single dependency.
type HandlerBundle struct {
	Schedule     *ScheduleHandler
	Availability *AvailabilityHandler
	Bookings     *BookingHandler
	Payments     *PaymentHandler
}
