package booking

import (
	"context"
	"testing"

	"consultbook/models"
	"consultbook/utils"
)

func TestConfirmPaymentIdempotent(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	b, err := e.svc.Create(ctx, "cli1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	meta := models.TransactionMeta{TransactionID: "tx1", OrderID: b.ID.Hex() + "-1757000000"}
	confirmed, err := e.svc.ConfirmPayment(ctx, b.ID.Hex(), meta)
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if confirmed.Status != models.BookingConfirmed || confirmed.PaymentStatus != models.PaymentCompleted {
		t.Errorf("confirmed booking = %s/%s", confirmed.Status, confirmed.PaymentStatus)
	}
	if confirmed.Payment == nil || confirmed.Payment.TransactionID != "tx1" {
		t.Errorf("payment meta not recorded: %+v", confirmed.Payment)
	}

	// IPN arriving after the return redirect: success, no state change, no
	// counter movement.
	again, err := e.svc.ConfirmPayment(ctx, b.ID.Hex(), meta)
	if err != nil {
		t.Fatalf("duplicate ConfirmPayment: %v", err)
	}
	if again.Status != models.BookingConfirmed {
		t.Errorf("duplicate confirm changed status to %s", again.Status)
	}

	c := e.stats.counters[statsKey("cli1", models.RoleClient)]
	if c.Total != 1 || c.Upcoming != 1 {
		t.Errorf("counter after duplicate confirm = %+v, want total=1 upcoming=1", c)
	}
}

func TestConfirmPaymentAfterCancel(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	b, err := e.svc.Create(ctx, "cli1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := e.svc.Cancel(ctx, "cli1", b.ID.Hex()); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	_, err = e.svc.ConfirmPayment(ctx, b.ID.Hex(), models.TransactionMeta{TransactionID: "tx1"})
	if utils.CodeOf(err) != utils.CodeInvalidState {
		t.Errorf("confirm after cancel: got %v, want invalid state error", err)
	}
}

func TestConfirmPaymentAfterCompletion(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	b, err := e.svc.Create(ctx, "cli1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := e.svc.ConfirmPayment(ctx, b.ID.Hex(), models.TransactionMeta{TransactionID: "tx1"}); err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if _, err := e.svc.Complete(ctx, "exp1", b.ID.Hex()); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	// A straggling confirmation for an already-completed booking is still a
	// duplicate delivery, not an error.
	got, err := e.svc.ConfirmPayment(ctx, b.ID.Hex(), models.TransactionMeta{TransactionID: "tx1"})
	if err != nil {
		t.Fatalf("late ConfirmPayment: %v", err)
	}
	if got.Status != models.BookingCompleted {
		t.Errorf("late confirm changed status to %s", got.Status)
	}
}

func TestFailPayment(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	b, err := e.svc.Create(ctx, "cli1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	failed, err := e.svc.FailPayment(ctx, b.ID.Hex(), "card_declined")
	if err != nil {
		t.Fatalf("FailPayment: %v", err)
	}
	if failed.Status != models.BookingCanceled || failed.PaymentStatus != models.PaymentFailed {
		t.Errorf("failed booking = %s/%s, want canceled/failed", failed.Status, failed.PaymentStatus)
	}
	if failed.Payment == nil || failed.Payment.ErrorCode != "card_declined" {
		t.Errorf("error code not recorded: %+v", failed.Payment)
	}

	// Duplicate failure delivery is a no-op success.
	if _, err := e.svc.FailPayment(ctx, b.ID.Hex(), "card_declined"); err != nil {
		t.Errorf("duplicate FailPayment: %v", err)
	}

	c := e.stats.counters[statsKey("cli1", models.RoleClient)]
	if c.Total != 1 || c.Canceled != 1 || c.Upcoming != 0 {
		t.Errorf("counter after failure = %+v, want total=1 canceled=1", c)
	}
}

func TestFailPaymentAfterConfirmation(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	b, err := e.svc.Create(ctx, "cli1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := e.svc.ConfirmPayment(ctx, b.ID.Hex(), models.TransactionMeta{TransactionID: "tx1"}); err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}

	_, err = e.svc.FailPayment(ctx, b.ID.Hex(), "payment_timeout")
	if utils.CodeOf(err) != utils.CodeInvalidState {
		t.Errorf("fail after confirm: got %v, want invalid state error", err)
	}

	// The confirmed booking must be untouched.
	current, err := e.svc.Get(ctx, "cli1", b.ID.Hex())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if current.Status != models.BookingConfirmed {
		t.Errorf("status after rejected failure = %s, want confirmed", current.Status)
	}
}
