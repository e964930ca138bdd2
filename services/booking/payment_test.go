package booking

import (
	"context"
	"testing"

	"consultbook/models"
	"consultbook/utils"
)

func TestParseOrderID(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"66f1a2b3c4d5e6f7a8b9c0d1-1757000000", "66f1a2b3c4d5e6f7a8b9c0d1", false},
		// Everything after the first dash belongs to the suffix.
		{"66f1a2b3c4d5e6f7a8b9c0d1-175-700", "66f1a2b3c4d5e6f7a8b9c0d1", false},
		{"no-dash-prefix", "no", false},
		{"-1757000000", "", true},
		{"nodash", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParseOrderID(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseOrderID(%q): expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseOrderID(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseOrderID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHandleCallback(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	payments := &DefaultPaymentService{Bookings: e.svc, ExpertRepo: e.experts}

	b, err := e.svc.Create(ctx, "cli1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	orderID := b.ID.Hex() + "-1757000000"

	confirmed, err := payments.HandleCallback(ctx, models.PaymentCallback{
		OrderID:       orderID,
		Success:       true,
		TransactionID: "tx1",
	})
	if err != nil {
		t.Fatalf("HandleCallback: %v", err)
	}
	if confirmed.Status != models.BookingConfirmed {
		t.Errorf("status = %s, want confirmed", confirmed.Status)
	}

	// Same delivery again (return redirect then IPN): no-op success.
	if _, err := payments.HandleCallback(ctx, models.PaymentCallback{
		OrderID: orderID, Success: true, TransactionID: "tx1",
	}); err != nil {
		t.Errorf("duplicate callback: %v", err)
	}

	if _, err := payments.HandleCallback(ctx, models.PaymentCallback{OrderID: "garbage"}); utils.CodeOf(err) != utils.CodeValidation {
		t.Errorf("malformed order id: got %v, want validation error", err)
	}
}

func TestHandleCallbackFailure(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	payments := &DefaultPaymentService{Bookings: e.svc, ExpertRepo: e.experts}

	b, err := e.svc.Create(ctx, "cli1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	failed, err := payments.HandleCallback(ctx, models.PaymentCallback{
		OrderID:   b.ID.Hex() + "-1757000000",
		Success:   false,
		ErrorCode: "card_declined",
	})
	if err != nil {
		t.Fatalf("HandleCallback: %v", err)
	}
	if failed.Status != models.BookingCanceled || failed.PaymentStatus != models.PaymentFailed {
		t.Errorf("failed booking = %s/%s, want canceled/failed", failed.Status, failed.PaymentStatus)
	}
}
