package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	bookingRepo "consultbook/database/repository/booking"
	"consultbook/models"
	"consultbook/services/schedule"
	"consultbook/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeBookingStore is an in-memory BookingRepository with real CAS semantics.
type fakeBookingStore struct {
	bookings map[primitive.ObjectID]*models.Booking
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: make(map[primitive.ObjectID]*models.Booking)}
}

func (f *fakeBookingStore) Insert(ctx context.Context, b *models.Booking) error {
	for _, other := range f.bookings {
		if other.ExpertID == b.ExpertID && other.Date == b.Date && other.IsActive() &&
			other.StartTime == b.StartTime && other.EndTime == b.EndTime {
			return utils.NewConflictError("this time slot is no longer available")
		}
	}
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeBookingStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingStore) TransitionStatus(ctx context.Context, id primitive.ObjectID, from []string, update bookingRepo.StatusUpdate) (bool, error) {
	b, ok := f.bookings[id]
	if !ok {
		return false, nil
	}
	matched := false
	for _, s := range from {
		if b.Status == s {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	b.Status = update.Status
	if update.PaymentStatus != "" {
		b.PaymentStatus = update.PaymentStatus
	}
	if update.Payment != nil {
		b.Payment = update.Payment
	}
	if update.CompletedAt != nil {
		b.CompletedAt = update.CompletedAt
	}
	b.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (f *fakeBookingStore) FindConflicting(ctx context.Context, expertID, date, startTime, endTime string) (*models.Booking, error) {
	for _, b := range f.bookings {
		if b.ExpertID == expertID && b.Date == date && b.IsActive() &&
			schedule.Overlaps(b.StartTime, b.EndTime, startTime, endTime) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingStore) GetNonCanceledByExpertAndDate(ctx context.Context, expertID, date string) ([]models.Booking, error) {
	return nil, nil
}

func (f *fakeBookingStore) GetNonCanceledInRange(ctx context.Context, expertID, startDate, endDate string) ([]models.Booking, error) {
	return nil, nil
}

func (f *fakeBookingStore) List(ctx context.Context, actorID, role string, filter models.BookingListFilter, cursor string, limit int) (*models.BookingPage, error) {
	page := &models.BookingPage{Items: []models.Booking{}}
	for _, b := range f.bookings {
		if (role == models.RoleClient && b.ClientID == actorID) ||
			(role == models.RoleExpert && b.ExpertID == actorID) {
			page.Items = append(page.Items, *b)
		}
	}
	return page, nil
}

func (f *fakeBookingStore) CountByActor(ctx context.Context, actorID, role string) (*models.StatsCounter, error) {
	counter := &models.StatsCounter{ActorID: actorID, Role: role, UpdatedAt: time.Now().UTC()}
	for _, b := range f.bookings {
		if role == models.RoleClient && b.ClientID != actorID {
			continue
		}
		if role == models.RoleExpert && b.ExpertID != actorID {
			continue
		}
		counter.Total++
		switch b.Status {
		case models.BookingPending, models.BookingConfirmed:
			counter.Upcoming++
		case models.BookingCompleted:
			counter.Completed++
		case models.BookingCanceled:
			counter.Canceled++
		}
	}
	return counter, nil
}

func (f *fakeBookingStore) FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.Status == models.BookingPending && b.CreatedAt.Before(cutoff) {
			out = append(out, *b)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeBookingStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeBookingStore) EnsureIndexes() error { return nil }

// fakeStatsStore is an in-memory StatsRepository.
type fakeStatsStore struct {
	counters map[string]*models.StatsCounter
}

func newFakeStatsStore() *fakeStatsStore {
	return &fakeStatsStore{counters: make(map[string]*models.StatsCounter)}
}

func statsKey(actorID, role string) string { return actorID + "/" + role }

func (f *fakeStatsStore) Find(ctx context.Context, actorID, role string) (*models.StatsCounter, error) {
	c, ok := f.counters[statsKey(actorID, role)]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStatsStore) Init(ctx context.Context, counter *models.StatsCounter) error {
	key := statsKey(counter.ActorID, counter.Role)
	if _, exists := f.counters[key]; exists {
		return nil
	}
	cp := *counter
	f.counters[key] = &cp
	return nil
}

func (f *fakeStatsStore) ApplyDelta(ctx context.Context, actorID, role string, delta models.StatsDelta) error {
	c, ok := f.counters[statsKey(actorID, role)]
	if !ok {
		return utils.NewTransientStoreError("counter missing", nil)
	}
	c.Upcoming += delta.Upcoming
	c.Completed += delta.Completed
	c.Canceled += delta.Canceled
	c.Total += delta.Total
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeStatsStore) EnsureIndexes() error { return nil }

// fakeExpertStore serves experts and clients from memory.
type fakeExpertStore struct {
	experts map[string]*models.Expert
	clients map[string]*models.Client
}

func (f *fakeExpertStore) GetByID(ctx context.Context, id string) (*models.Expert, error) {
	return f.experts[id], nil
}

func (f *fakeExpertStore) GetClientByID(ctx context.Context, id string) (*models.Client, error) {
	return f.clients[id], nil
}

type env struct {
	svc     *DefaultBookingService
	store   *fakeBookingStore
	stats   *fakeStatsStore
	experts *fakeExpertStore
}

func newEnv() *env {
	store := newFakeBookingStore()
	stats := newFakeStatsStore()
	experts := &fakeExpertStore{
		experts: map[string]*models.Expert{
			"exp1": {ID: "exp1", HourlyRate: 80, Currency: "USD"},
		},
		clients: map[string]*models.Client{
			"cli1": {ID: "cli1"},
		},
	}
	return &env{
		svc: &DefaultBookingService{
			Repo:       store,
			StatsRepo:  stats,
			ExpertRepo: experts,
		},
		store:   store,
		stats:   stats,
		experts: experts,
	}
}

func validInput() models.CreateBookingInput {
	return models.CreateBookingInput{
		ExpertID:  "exp1",
		Date:      "2026-09-07",
		StartTime: "09:00",
		EndTime:   "10:30",
	}
}

func TestCreateBooking(t *testing.T) {
	e := newEnv()

	b, err := e.svc.Create(context.Background(), "cli1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.Status != models.BookingPending || b.PaymentStatus != models.PaymentPending {
		t.Errorf("new booking status = %s/%s, want pending/pending", b.Status, b.PaymentStatus)
	}
	// 1.5h at 80/h
	if b.Price != 120 {
		t.Errorf("price = %v, want 120", b.Price)
	}

	for _, key := range []string{statsKey("cli1", models.RoleClient), statsKey("exp1", models.RoleExpert)} {
		c := e.stats.counters[key]
		if c == nil {
			t.Fatalf("counter %s not initialized", key)
		}
		if c.Total != 1 || c.Upcoming != 1 {
			t.Errorf("counter %s = %+v, want total=1 upcoming=1", key, c)
		}
	}
}

func TestCreateBookingValidation(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	bad := validInput()
	bad.Date = "07/09/2026"
	if _, err := e.svc.Create(ctx, "cli1", bad); utils.CodeOf(err) != utils.CodeValidation {
		t.Errorf("bad date: got %v, want validation error", err)
	}

	bad = validInput()
	bad.StartTime = "10:30"
	bad.EndTime = "09:00"
	if _, err := e.svc.Create(ctx, "cli1", bad); utils.CodeOf(err) != utils.CodeValidation {
		t.Errorf("inverted slot: got %v, want validation error", err)
	}

	bad = validInput()
	bad.ExpertID = "ghost"
	if _, err := e.svc.Create(ctx, "cli1", bad); utils.CodeOf(err) != utils.CodeNotFound {
		t.Errorf("unknown expert: got %v, want not found error", err)
	}
}

func TestCreateBookingConflict(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	if _, err := e.svc.Create(ctx, "cli1", validInput()); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	overlapping := validInput()
	overlapping.StartTime = "10:00"
	overlapping.EndTime = "11:00"
	if _, err := e.svc.Create(ctx, "cli2", overlapping); utils.CodeOf(err) != utils.CodeConflict {
		t.Errorf("overlapping booking: got %v, want conflict error", err)
	}

	// Conflict must not move any counter.
	if c := e.stats.counters[statsKey("exp1", models.RoleExpert)]; c.Total != 1 {
		t.Errorf("expert total after rejected conflict = %d, want 1", c.Total)
	}

	adjacent := validInput()
	adjacent.StartTime = "10:30"
	adjacent.EndTime = "11:30"
	if _, err := e.svc.Create(ctx, "cli2", adjacent); err != nil {
		t.Errorf("adjacent booking rejected: %v", err)
	}
}

func TestCancelBooking(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	b, err := e.svc.Create(ctx, "cli1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := e.svc.Cancel(ctx, "cli2", b.ID.Hex()); utils.CodeOf(err) != utils.CodeNotOwner {
		t.Errorf("foreign cancel: got %v, want not owner error", err)
	}

	canceled, err := e.svc.Cancel(ctx, "cli1", b.ID.Hex())
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if canceled.Status != models.BookingCanceled {
		t.Errorf("status = %s, want canceled", canceled.Status)
	}

	if _, err := e.svc.Cancel(ctx, "cli1", b.ID.Hex()); utils.CodeOf(err) != utils.CodeInvalidState {
		t.Errorf("double cancel: got %v, want invalid state error", err)
	}

	c := e.stats.counters[statsKey("cli1", models.RoleClient)]
	if c.Total != 1 || c.Upcoming != 0 || c.Canceled != 1 {
		t.Errorf("client counter = %+v, want total=1 upcoming=0 canceled=1", c)
	}
}

func TestCompleteBooking(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	b, err := e.svc.Create(ctx, "cli1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Pending bookings cannot be completed.
	if _, err := e.svc.Complete(ctx, "exp1", b.ID.Hex()); utils.CodeOf(err) != utils.CodeInvalidState {
		t.Errorf("completing pending: got %v, want invalid state error", err)
	}

	if _, err := e.svc.ConfirmPayment(ctx, b.ID.Hex(), models.TransactionMeta{TransactionID: "tx1"}); err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}

	if _, err := e.svc.Complete(ctx, "exp2", b.ID.Hex()); utils.CodeOf(err) != utils.CodeNotOwner {
		t.Errorf("foreign complete: got %v, want not owner error", err)
	}

	done, err := e.svc.Complete(ctx, "exp1", b.ID.Hex())
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if done.Status != models.BookingCompleted || done.CompletedAt == nil {
		t.Errorf("completed booking = %+v", done)
	}

	c := e.stats.counters[statsKey("exp1", models.RoleExpert)]
	if c.Total != 1 || c.Upcoming != 0 || c.Completed != 1 {
		t.Errorf("expert counter = %+v, want total=1 upcoming=0 completed=1", c)
	}
}

func TestGetBookingVisibility(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	b, err := e.svc.Create(ctx, "cli1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := e.svc.Get(ctx, "cli1", b.ID.Hex()); err != nil {
		t.Errorf("client read: %v", err)
	}
	if _, err := e.svc.Get(ctx, "exp1", b.ID.Hex()); err != nil {
		t.Errorf("expert read: %v", err)
	}
	if _, err := e.svc.Get(ctx, "stranger", b.ID.Hex()); utils.CodeOf(err) != utils.CodeNotOwner {
		t.Errorf("stranger read: got %v, want not owner error", err)
	}
	if _, err := e.svc.Get(ctx, "cli1", "not-a-hex-id"); utils.CodeOf(err) != utils.CodeValidation {
		t.Errorf("malformed id: got %v, want validation error", err)
	}
	if _, err := e.svc.Get(ctx, "cli1", primitive.NewObjectID().Hex()); utils.CodeOf(err) != utils.CodeNotFound {
		t.Errorf("unknown id: got %v, want not found error", err)
	}
}

func TestStatsLazyInit(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	// Seed bookings directly, simulating history predating the counters.
	for _, status := range []string{models.BookingConfirmed, models.BookingCompleted, models.BookingCanceled} {
		id := primitive.NewObjectID()
		e.store.bookings[id] = &models.Booking{
			ID: id, ClientID: "cli1", ExpertID: "exp1", Status: status,
		}
	}

	c, err := e.svc.Stats(ctx, "cli1", models.RoleClient)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if c.Total != 3 || c.Upcoming != 1 || c.Completed != 1 || c.Canceled != 1 {
		t.Errorf("recounted stats = %+v", c)
	}

	if _, err := e.svc.Stats(ctx, "cli1", "admin"); utils.CodeOf(err) != utils.CodeValidation {
		t.Errorf("bad role: got %v, want validation error", err)
	}
}

func TestLifecycleCounterConservation(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	first, err := e.svc.Create(ctx, "cli1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second := validInput()
	second.StartTime = "14:00"
	second.EndTime = "15:00"
	b2, err := e.svc.Create(ctx, "cli1", second)
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}

	if _, err := e.svc.ConfirmPayment(ctx, first.ID.Hex(), models.TransactionMeta{TransactionID: "tx1"}); err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if _, err := e.svc.Complete(ctx, "exp1", first.ID.Hex()); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if _, err := e.svc.Cancel(ctx, "cli1", b2.ID.Hex()); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	for _, key := range []string{statsKey("cli1", models.RoleClient), statsKey("exp1", models.RoleExpert)} {
		c := e.stats.counters[key]
		if c.Total != 2 || c.Upcoming != 0 || c.Completed != 1 || c.Canceled != 1 {
			t.Errorf("counter %s = %+v, want total=2 completed=1 canceled=1", key, c)
		}
		if c.Total != c.Upcoming+c.Completed+c.Canceled {
			t.Errorf("counter %s violates total invariant: %+v", key, c)
		}
	}
}

func TestTerminalStatesAdmitNoTransitions(t *testing.T) {
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

	if _, err := e.svc.Cancel(ctx, "cli1", b.ID.Hex()); utils.CodeOf(err) != utils.CodeInvalidState {
		t.Errorf("cancel of completed: got %v, want invalid state error", err)
	}
	if _, err := e.svc.Complete(ctx, "exp1", b.ID.Hex()); utils.CodeOf(err) != utils.CodeInvalidState {
		t.Errorf("double complete: got %v, want invalid state error", err)
	}
	if _, err := e.svc.FailPayment(ctx, b.ID.Hex(), "late"); utils.CodeOf(err) != utils.CodeInvalidState {
		t.Errorf("failPayment of completed: got %v, want invalid state error", err)
	}
}

func TestTransitionSurfacesLostRace(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	b, err := e.svc.Create(ctx, "cli1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Stale copy claiming the booking is still pending while the store has
	// moved it on, the shape a lost CAS takes.
	stale := *b
	e.store.bookings[b.ID].Status = models.BookingCanceled

	_, err = e.svc.transition(ctx, &stale,
		[]string{models.BookingPending},
		statusUpdate(models.BookingConfirmed, models.PaymentCompleted, nil, nil))
	if !errors.Is(err, errStateChanged) {
		t.Errorf("got %v, want errStateChanged", err)
	}
}
