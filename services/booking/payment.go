package booking

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"consultbook/config"
	expertRepo "consultbook/database/repository/expert"
	"consultbook/models"
	"consultbook/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"go.uber.org/zap"
)

// PaymentService bridges the gateway and the booking state machine. It
// issues checkout sessions for pending bookings and translates gateway
// callbacks into ConfirmPayment / FailPayment calls.
type PaymentService interface {
	CreatePayment(ctx context.Context, clientID, bookingID string) (*PaymentSession, error)
	HandleCallback(ctx context.Context, cb models.PaymentCallback) (*models.Booking, error)
}

// PaymentSession is a prepared gateway checkout for one booking.
type PaymentSession struct {
	BookingID   string  `json:"bookingId"`
	OrderID     string  `json:"orderId"`
	CheckoutURL string  `json:"checkoutUrl"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
}

type DefaultPaymentService struct {
	Bookings   BookingService
	ExpertRepo expertRepo.ExpertRepository
}

// CreatePayment opens a checkout session for a pending booking. The order id
// carries the booking id as its prefix so callbacks can be routed without a
// lookup table; the timestamp suffix keeps retried sessions distinct.
func (svc *DefaultPaymentService) CreatePayment(ctx context.Context, clientID, bookingID string) (*PaymentSession, error) {
	booking, err := svc.Bookings.Get(ctx, clientID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingPending || booking.PaymentStatus != models.PaymentPending {
		return nil, utils.NewInvalidStateError("booking is not awaiting payment")
	}

	currency := "usd"
	expert, err := svc.ExpertRepo.GetByID(ctx, booking.ExpertID)
	if err != nil {
		return nil, err
	}
	if expert != nil && expert.Currency != "" {
		currency = strings.ToLower(expert.Currency)
	}

	orderID := fmt.Sprintf("%s-%d", booking.ID.Hex(), time.Now().Unix())
	amountCents := int64(math.Round(booking.Price * 100))

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(orderID),
		SuccessURL:        stripe.String(config.AppConfig.PaymentSuccessURL + "?orderId=" + orderID),
		CancelURL:         stripe.String(config.AppConfig.PaymentCancelURL + "?orderId=" + orderID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(amountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Consultation %s %s-%s", booking.Date, booking.StartTime, booking.EndTime)),
					},
				},
			},
		},
	}

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	utils.GetLogger().Info("payment session created",
		zap.String("bookingID", bookingID),
		zap.String("orderID", orderID))
	return &PaymentSession{
		BookingID:   bookingID,
		OrderID:     orderID,
		CheckoutURL: sess.URL,
		Amount:      booking.Price,
		Currency:    currency,
	}, nil
}

// HandleCallback applies one gateway delivery. The synchronous return
// redirect and the asynchronous IPN carry the same order id, so whichever
// arrives second becomes a no-op inside the lifecycle manager.
func (svc *DefaultPaymentService) HandleCallback(ctx context.Context, cb models.PaymentCallback) (*models.Booking, error) {
	bookingID, err := ParseOrderID(cb.OrderID)
	if err != nil {
		return nil, err
	}

	if cb.Success {
		meta := models.TransactionMeta{
			TransactionID: cb.TransactionID,
			OrderID:       cb.OrderID,
			ReceivedAt:    time.Now().UTC(),
		}
		return svc.Bookings.ConfirmPayment(ctx, bookingID, meta)
	}

	code := cb.ErrorCode
	if code == "" {
		code = "payment_failed"
	}
	return svc.Bookings.FailPayment(ctx, bookingID, code)
}

// ParseOrderID extracts the booking id from an order id of the form
// "{bookingId}-{timestamp}". Split on the first dash: booking ids are hex
// and never contain one, while nothing is assumed about the suffix.
func ParseOrderID(orderID string) (string, error) {
	bookingID, _, found := strings.Cut(orderID, "-")
	if !found || bookingID == "" {
		return "", utils.NewValidationError("malformed order id")
	}
	return bookingID, nil
}
