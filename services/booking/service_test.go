package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"jetset/models"
)

type stubCatalog struct {
	prices map[string]models.Money
}

func (c *stubCatalog) Lookup(activity models.Activity, model string, durationMin int) (models.Money, bool) {
	p, ok := c.prices[fmt.Sprintf("%s|%s|%d", activity, model, durationMin)]
	return p, ok
}

func (c *stubCatalog) Location() models.Location {
	return models.Location{
		Name:    "Jetset Desert Camp",
		MapLink: "https://maps.app.goo.gl/dekGjkZmZPwDjG6F8",
	}
}

type fakeArchive struct {
	mu      sync.Mutex
	created []models.Booking
}

func (f *fakeArchive) Create(ctx context.Context, b models.Booking) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, b)
	return b.ID, nil
}

func (f *fakeArchive) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.created {
		if f.created[i].ID == id {
			b := f.created[i]
			return &b, nil
		}
	}
	return nil, errors.New("booking not found")
}

func (f *fakeArchive) GetByUserID(ctx context.Context, userID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.created {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeArchive) SetReminderSent(ctx context.Context, id string) error { return nil }
func (f *fakeArchive) DeleteByID(ctx context.Context, id string) error      { return nil }

func (f *fakeArchive) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

type fakeScheduler struct {
	mu        sync.Mutex
	scheduled []models.Booking
}

func (f *fakeScheduler) ScheduleTourReminder(b models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled = append(f.scheduled, b)
	return nil
}

func (f *fakeScheduler) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.scheduled)
}

func newTestService(t *testing.T) (*DefaultBookingService, *fakeArchive, *fakeScheduler) {
	t.Helper()
	store := NewDraftStore(time.Hour)
	t.Cleanup(store.Close)
	catalog := &stubCatalog{prices: map[string]models.Money{
		"quad|Yamaha Raptor 700cc|120": 300,
		"buggy|2-seater|60":            600,
		"desert_safari_shared||240":    150,
	}}
	archive := &fakeArchive{}
	scheduler := &fakeScheduler{}
	svc, err := NewDefaultBookingService(store, catalog, archive, scheduler)
	if err != nil {
		t.Fatalf("new booking service: %v", err)
	}
	return svc, archive, scheduler
}

// fillQuadDraft drives a draft to completeness: two Raptor quads, 2 hours,
// pickup, card. With base 300 that prices at 998.
func fillQuadDraft(t *testing.T, svc *DefaultBookingService, userID string) {
	t.Helper()
	if _, err := svc.GetOrCreate(userID); err != nil {
		t.Fatalf("get or create: %v", err)
	}
	steps := []struct {
		field models.Field
		value string
	}{
		{models.FieldActivity, "quad"},
		{models.FieldVehicleModel, "raptor"},
		{models.FieldQuantity, "2"},
		{models.FieldDuration, "2h"},
		{models.FieldDateTime, "2026-08-22 14:00"},
		{models.FieldPickup, "yes"},
		{models.FieldPaymentMethod, "card"},
		{models.FieldCustomerName, "Ali Hassan"},
	}
	for _, s := range steps {
		if _, err := svc.Update(userID, s.field, s.value); err != nil {
			t.Fatalf("update %s=%q: %v", s.field, s.value, err)
		}
	}
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService(t)

	first, err := svc.GetOrCreate("u1")
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := svc.Update("u1", models.FieldActivity, "buggy"); err != nil {
		t.Fatalf("update: %v", err)
	}
	second, err := svc.GetOrCreate("u1")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("draft identity changed between calls: %s vs %s", first.ID, second.ID)
	}
	if second.Activity != models.ActivityBuggy {
		t.Fatalf("field state lost between calls: activity = %q", second.Activity)
	}

	other, err := svc.GetOrCreate("u2")
	if err != nil {
		t.Fatalf("other user: %v", err)
	}
	if other.ID == first.ID {
		t.Fatalf("two users share a draft")
	}
}

func TestUpdateWithoutDraft(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Update("ghost", models.FieldActivity, "quad")
	var serr *StateError
	if !errors.As(err, &serr) || serr.Kind != KindNoActiveDraft {
		t.Fatalf("expected no_active_draft, got %v", err)
	}
}

func TestRejectedUpdateMutatesNothing(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.GetOrCreate("u1"); err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if _, err := svc.Update("u1", models.FieldActivity, "buggy"); err != nil {
		t.Fatalf("set activity: %v", err)
	}

	_, err := svc.Update("u1", models.FieldQuantity, "lots")
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Kind != KindInvalidValue {
		t.Fatalf("expected invalid_value, got %v", err)
	}

	draft, err := svc.GetOrCreate("u1")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if draft.Quantity != 0 {
		t.Fatalf("rejected update mutated quantity to %d", draft.Quantity)
	}
	if draft.LastChange == nil || draft.LastChange.Field != models.FieldActivity {
		t.Fatalf("rejected update touched the change record: %+v", draft.LastChange)
	}
}

func TestSeatDescriptorNeverSetsQuantity(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.GetOrCreate("u1"); err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if _, err := svc.Update("u1", models.FieldActivity, "buggy"); err != nil {
		t.Fatalf("set activity: %v", err)
	}

	_, err := svc.Update("u1", models.FieldQuantity, "2-seater")
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Kind != KindSeatConfusion {
		t.Fatalf("expected seat_quantity_confusion, got %v", err)
	}
	draft, _ := svc.GetOrCreate("u1")
	if draft.Quantity != 0 {
		t.Fatalf("seat descriptor leaked into quantity: %d", draft.Quantity)
	}

	// The same token is a valid vehicle model, and a plain number is a valid
	// quantity regardless of the model picked.
	if _, err := svc.Update("u1", models.FieldVehicleModel, "2-seater"); err != nil {
		t.Fatalf("set model: %v", err)
	}
	if _, err := svc.Update("u1", models.FieldQuantity, "3"); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	draft, _ = svc.GetOrCreate("u1")
	if draft.VehicleModel != "2-seater" || draft.Quantity != 3 {
		t.Fatalf("got model %q quantity %d, want 2-seater and 3", draft.VehicleModel, draft.Quantity)
	}
}

func TestUpdateReportsChangeAndNextField(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.GetOrCreate("u1"); err != nil {
		t.Fatalf("get or create: %v", err)
	}

	res, err := svc.Update("u1", models.FieldActivity, "quad bike")
	if err != nil {
		t.Fatalf("set activity: %v", err)
	}
	if res.Change.Field != models.FieldActivity || res.Change.Previous != "" || res.Change.Current != "quad" {
		t.Fatalf("change record: %+v", res.Change)
	}
	if res.NextMissing != models.FieldVehicleModel || res.Complete {
		t.Fatalf("next missing = %q complete=%v, want vehicle_model", res.NextMissing, res.Complete)
	}

	res, err = svc.Update("u1", models.FieldVehicleModel, "cobra")
	if err != nil {
		t.Fatalf("set model: %v", err)
	}
	if res.Change.Current != "Aon Cobra 400cc" {
		t.Fatalf("model not normalized in change record: %q", res.Change.Current)
	}

	res, err = svc.Update("u1", models.FieldVehicleModel, "raptor")
	if err != nil {
		t.Fatalf("switch model: %v", err)
	}
	if res.Change.Previous != "Aon Cobra 400cc" || res.Change.Current != "Yamaha Raptor 700cc" {
		t.Fatalf("previous value lost: %+v", res.Change)
	}
}

func TestUpdateCompleteDraftReportsNoMissingField(t *testing.T) {
	svc, _, _ := newTestService(t)
	fillQuadDraft(t, svc, "u1")

	res, err := svc.Update("u1", models.FieldQuantity, "2")
	if err != nil {
		t.Fatalf("re-set quantity: %v", err)
	}
	if !res.Complete || res.NextMissing != "" {
		t.Fatalf("complete draft still asks for %q", res.NextMissing)
	}
}

func TestComputePriceIncompleteDraft(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.GetOrCreate("u1"); err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if _, err := svc.Update("u1", models.FieldActivity, "quad"); err != nil {
		t.Fatalf("set activity: %v", err)
	}

	_, err := svc.ComputePrice("u1")
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Kind != KindIncomplete {
		t.Fatalf("expected incomplete, got %v", err)
	}
	if verr.Missing != models.FieldVehicleModel {
		t.Fatalf("missing = %q, want vehicle_model", verr.Missing)
	}
}

func TestComputePriceAndConfirm(t *testing.T) {
	svc, archive, scheduler := newTestService(t)
	fillQuadDraft(t, svc, "u1")

	bd, err := svc.ComputePrice("u1")
	if err != nil {
		t.Fatalf("compute price: %v", err)
	}
	if bd.Subtotal != 600 || bd.PickupFee != 350 || bd.VAT != 48 || bd.Total != 998 {
		t.Fatalf("breakdown = %+v, want 600/350/48/998", bd)
	}

	conf, err := svc.Confirm("u1")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if conf.Total != 998 {
		t.Fatalf("confirmation total = %d, want 998", conf.Total)
	}
	if conf.CustomerName != "Ali Hassan" {
		t.Fatalf("confirmation name = %q", conf.CustomerName)
	}
	if conf.Location.Name != "Jetset Desert Camp" {
		t.Fatalf("confirmation location = %q", conf.Location.Name)
	}
	if conf.QuantityUnit != "quads" || conf.Quantity != 2 {
		t.Fatalf("confirmation quantity = %d %s", conf.Quantity, conf.QuantityUnit)
	}
	if strings.Contains(conf.DateTime, "T") || strings.Contains(conf.DateTime, "Z") {
		t.Fatalf("confirmation datetime not in display form: %q", conf.DateTime)
	}

	if archive.count() != 1 {
		t.Fatalf("archived %d bookings, want 1", archive.count())
	}
	if scheduler.count() != 1 {
		t.Fatalf("scheduled %d reminders, want 1", scheduler.count())
	}
	archived, err := archive.GetByID(context.Background(), conf.BookingID)
	if err != nil {
		t.Fatalf("archived booking missing: %v", err)
	}
	if archived.Price.Total != 998 || !archived.Pickup || archived.ReminderSent {
		t.Fatalf("archived booking wrong: %+v", archived)
	}
}

func TestConfirmRequiresFreshPrice(t *testing.T) {
	svc, archive, _ := newTestService(t)
	fillQuadDraft(t, svc, "u1")

	// Never priced.
	_, err := svc.Confirm("u1")
	var serr *StateError
	if !errors.As(err, &serr) || serr.Kind != KindNotPriced {
		t.Fatalf("expected not_priced, got %v", err)
	}

	if _, err := svc.ComputePrice("u1"); err != nil {
		t.Fatalf("compute price: %v", err)
	}

	// An edit to the same value still invalidates the quote.
	if _, err := svc.Update("u1", models.FieldQuantity, "2"); err != nil {
		t.Fatalf("re-set quantity: %v", err)
	}
	_, err = svc.Confirm("u1")
	if !errors.As(err, &serr) || serr.Kind != KindNotPriced {
		t.Fatalf("expected not_priced after edit, got %v", err)
	}
	if archive.count() != 0 {
		t.Fatalf("rejected confirm archived a booking")
	}

	// Re-pricing restores confirmability.
	if _, err := svc.ComputePrice("u1"); err != nil {
		t.Fatalf("re-price: %v", err)
	}
	if _, err := svc.Confirm("u1"); err != nil {
		t.Fatalf("confirm after re-price: %v", err)
	}
}

func TestEditRevertsPricedStatus(t *testing.T) {
	svc, _, _ := newTestService(t)
	fillQuadDraft(t, svc, "u1")

	if _, err := svc.ComputePrice("u1"); err != nil {
		t.Fatalf("compute price: %v", err)
	}
	snap, err := svc.Describe("u1")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if snap.Status != models.StatusPriced || snap.Price == nil {
		t.Fatalf("expected priced snapshot, got %+v", snap)
	}

	if _, err := svc.Update("u1", models.FieldPickup, "no"); err != nil {
		t.Fatalf("edit pickup: %v", err)
	}
	snap, err = svc.Describe("u1")
	if err != nil {
		t.Fatalf("describe after edit: %v", err)
	}
	if snap.Status != models.StatusCollecting || snap.Price != nil {
		t.Fatalf("edit kept stale price: status=%s price=%v", snap.Status, snap.Price)
	}
}

func TestOperationsAfterConfirm(t *testing.T) {
	svc, _, _ := newTestService(t)
	fillQuadDraft(t, svc, "u1")
	if _, err := svc.ComputePrice("u1"); err != nil {
		t.Fatalf("compute price: %v", err)
	}
	confirmed, err := svc.Confirm("u1")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}

	var serr *StateError
	if _, err := svc.Update("u1", models.FieldQuantity, "3"); !errors.As(err, &serr) || serr.Kind != KindAlreadyConfirmed {
		t.Fatalf("update after confirm: %v", err)
	}
	if _, err := svc.Confirm("u1"); !errors.As(err, &serr) || serr.Kind != KindAlreadyConfirmed {
		t.Fatalf("double confirm: %v", err)
	}
	if err := svc.Cancel("u1"); !errors.As(err, &serr) || serr.Kind != KindAlreadyConfirmed {
		t.Fatalf("cancel after confirm: %v", err)
	}

	// A new booking starts clean.
	fresh, err := svc.GetOrCreate("u1")
	if err != nil {
		t.Fatalf("get or create after confirm: %v", err)
	}
	if fresh.ID == confirmed.BookingID {
		t.Fatalf("confirmed draft reused")
	}
	if fresh.Activity != "" || fresh.Status != models.StatusCollecting {
		t.Fatalf("new draft not empty: %+v", fresh)
	}
}

func TestCancelAbandonsDraft(t *testing.T) {
	svc, _, _ := newTestService(t)
	fillQuadDraft(t, svc, "u1")

	if err := svc.Cancel("u1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	var serr *StateError
	if _, err := svc.Update("u1", models.FieldQuantity, "3"); !errors.As(err, &serr) || serr.Kind != KindNoActiveDraft {
		t.Fatalf("update after cancel: %v", err)
	}
	if _, err := svc.Describe("u1"); !errors.As(err, &serr) || serr.Kind != KindNoActiveDraft {
		t.Fatalf("describe after cancel: %v", err)
	}
	if err := svc.Cancel("u1"); !errors.As(err, &serr) || serr.Kind != KindNoActiveDraft {
		t.Fatalf("double cancel: %v", err)
	}
}

func TestNeedsPricingFallback(t *testing.T) {
	svc, _, _ := newTestService(t)
	fillQuadDraft(t, svc, "u1")

	// Price the draft for a duration the catalog does not carry.
	if _, err := svc.Update("u1", models.FieldDuration, "1h"); err != nil {
		t.Fatalf("set duration: %v", err)
	}
	_, err := svc.ComputePrice("u1")
	var np *NeedsPricing
	if !errors.As(err, &np) {
		t.Fatalf("expected a needs-pricing signal, got %v", err)
	}
	if np.Activity != models.ActivityQuad || np.VehicleModel != "Yamaha Raptor 700cc" || np.DurationMin != 60 {
		t.Fatalf("signal fields wrong: %+v", np)
	}

	// The externally fetched base completes the round.
	bd, err := svc.ComputePriceWithBase("u1", 250)
	if err != nil {
		t.Fatalf("resupply: %v", err)
	}
	// 500 + 350 = 850, VAT 42.50 -> 43, total 893.
	if bd.Subtotal != 500 || bd.VAT != 43 || bd.Total != 893 {
		t.Fatalf("breakdown = %+v, want 500/350/43/893", bd)
	}
	if _, err := svc.Confirm("u1"); err != nil {
		t.Fatalf("confirm after resupply: %v", err)
	}
}

func TestComputePriceWithBadBase(t *testing.T) {
	svc, _, _ := newTestService(t)
	fillQuadDraft(t, svc, "u1")

	_, err := svc.ComputePriceWithBase("u1", 0)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Kind != KindInvalidValue {
		t.Fatalf("expected invalid_value for zero base, got %v", err)
	}
}

func TestActivitySwitchClearsDependentFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.GetOrCreate("u1"); err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if _, err := svc.Update("u1", models.FieldActivity, "buggy"); err != nil {
		t.Fatalf("set activity: %v", err)
	}
	if _, err := svc.Update("u1", models.FieldVehicleModel, "2-seater"); err != nil {
		t.Fatalf("set model: %v", err)
	}
	if _, err := svc.Update("u1", models.FieldQuantity, "12"); err != nil {
		t.Fatalf("set quantity: %v", err)
	}

	// Buggy model does not fit quads; it must be re-asked.
	res, err := svc.Update("u1", models.FieldActivity, "quad")
	if err != nil {
		t.Fatalf("switch to quad: %v", err)
	}
	if res.Draft.VehicleModel != "" {
		t.Fatalf("stale model survived switch: %q", res.Draft.VehicleModel)
	}
	if res.NextMissing != models.FieldVehicleModel {
		t.Fatalf("next missing = %q, want vehicle_model", res.NextMissing)
	}
	if res.Draft.Quantity != 12 {
		t.Fatalf("quantity should survive switch to an uncapped activity, got %d", res.Draft.Quantity)
	}

	// 12 passengers exceed the shared-safari cap; quantity must be re-asked.
	res, err = svc.Update("u1", models.FieldActivity, "shared safari")
	if err != nil {
		t.Fatalf("switch to safari: %v", err)
	}
	if res.Draft.Quantity != 0 {
		t.Fatalf("over-cap quantity survived switch: %d", res.Draft.Quantity)
	}
	if res.Draft.VehicleModel != "" {
		t.Fatalf("safari draft carries a vehicle model: %q", res.Draft.VehicleModel)
	}
	if res.NextMissing != models.FieldQuantity {
		t.Fatalf("next missing = %q, want quantity", res.NextMissing)
	}
}

func TestSafariModeRefinesActivity(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.GetOrCreate("u1"); err != nil {
		t.Fatalf("get or create: %v", err)
	}

	res, err := svc.Update("u1", models.FieldActivity, "desert safari")
	if err != nil {
		t.Fatalf("set activity: %v", err)
	}
	if res.NextMissing != models.FieldSafariMode {
		t.Fatalf("next missing = %q, want safari_mode", res.NextMissing)
	}

	res, err = svc.Update("u1", models.FieldSafariMode, "shared")
	if err != nil {
		t.Fatalf("set mode: %v", err)
	}
	if res.Draft.Activity != models.ActivitySafariShared {
		t.Fatalf("activity = %q, want desert_safari_shared", res.Draft.Activity)
	}
	if res.NextMissing != models.FieldQuantity {
		t.Fatalf("next missing = %q, want quantity", res.NextMissing)
	}

	var verr *ValidationError
	if _, err := svc.Update("u1", models.FieldQuantity, "11"); !errors.As(err, &verr) || verr.Kind != KindOutOfRange {
		t.Fatalf("11 passengers should exceed the cap, got %v", err)
	}
	if _, err := svc.Update("u1", models.FieldQuantity, "10"); err != nil {
		t.Fatalf("10 passengers rejected: %v", err)
	}
}

func TestHoursViolationViaUpdate(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.GetOrCreate("u1"); err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if _, err := svc.Update("u1", models.FieldActivity, "private safari"); err != nil {
		t.Fatalf("set activity: %v", err)
	}
	if _, err := svc.Update("u1", models.FieldQuantity, "2"); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if _, err := svc.Update("u1", models.FieldDuration, "5h"); err != nil {
		t.Fatalf("set duration: %v", err)
	}

	// 14:00 + 5h ends exactly at close.
	if _, err := svc.Update("u1", models.FieldDateTime, "2026-08-22 14:00"); err != nil {
		t.Fatalf("edge start rejected: %v", err)
	}

	// 14:30 + 5h would run past close; the draft keeps the prior start.
	_, err := svc.Update("u1", models.FieldDateTime, "2026-08-22 14:30")
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Kind != KindHours || verr.Bound != "19:00" {
		t.Fatalf("expected hours_violation at 19:00, got %v", err)
	}
	draft, _ := svc.GetOrCreate("u1")
	if draft.Start.Hour() != 14 || draft.Start.Minute() != 0 {
		t.Fatalf("rejected start leaked into the draft: %v", draft.Start)
	}

	// Stretching the duration past close is rejected the same way.
	_, err = svc.Update("u1", models.FieldDuration, "5.5h")
	if !errors.As(err, &verr) || verr.Kind != KindHours {
		t.Fatalf("expected hours_violation stretching duration, got %v", err)
	}
}

func TestDescribeUsesDisplayForms(t *testing.T) {
	svc, _, _ := newTestService(t)
	fillQuadDraft(t, svc, "u1")

	snap, err := svc.Describe("u1")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if snap.Activity != "Quad Bike" {
		t.Fatalf("activity label = %q", snap.Activity)
	}
	if snap.DateTime != "Saturday, 22 Aug 2026 at 2:00 PM" {
		t.Fatalf("datetime = %q, want display form", snap.DateTime)
	}
	if snap.Duration != "2 hours" {
		t.Fatalf("duration = %q, want \"2 hours\"", snap.Duration)
	}
	if !snap.PickupSet || !snap.Pickup {
		t.Fatalf("pickup flags = set:%v val:%v", snap.PickupSet, snap.Pickup)
	}
	if snap.QuantityUnit != "quads" {
		t.Fatalf("quantity unit = %q", snap.QuantityUnit)
	}
	if snap.Location.MapLink == "" {
		t.Fatalf("location map link missing")
	}
}

func TestDraftCopiesAreDetached(t *testing.T) {
	svc, _, _ := newTestService(t)
	fillQuadDraft(t, svc, "u1")

	draft, err := svc.GetOrCreate("u1")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	draft.Quantity = 99
	*draft.Pickup = false

	reread, _ := svc.GetOrCreate("u1")
	if reread.Quantity != 2 || !*reread.Pickup {
		t.Fatalf("caller mutation reached the stored draft: %+v", reread)
	}
}

func TestSameUserOperationsSerialize(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.GetOrCreate("u1"); err != nil {
		t.Fatalf("get or create: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				svc.Update("u1", models.FieldActivity, "buggy")
				svc.Update("u1", models.FieldQuantity, "3")
				svc.Describe("u1")
			}
		}()
	}
	wg.Wait()

	draft, err := svc.GetOrCreate("u1")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if draft.Activity != models.ActivityBuggy || draft.Quantity != 3 {
		t.Fatalf("draft torn by concurrent writes: %+v", draft)
	}
}

func TestUsersProceedIndependently(t *testing.T) {
	svc, archive, _ := newTestService(t)

	const users = 16
	var wg sync.WaitGroup
	errCh := make(chan error, users)
	for i := 0; i < users; i++ {
		userID := fmt.Sprintf("user-%d", i)
		wg.Add(1)
		go func(uid string) {
			defer wg.Done()
			if _, err := svc.GetOrCreate(uid); err != nil {
				errCh <- fmt.Errorf("%s get: %w", uid, err)
				return
			}
			steps := []struct {
				field models.Field
				value string
			}{
				{models.FieldActivity, "quad"},
				{models.FieldVehicleModel, "raptor"},
				{models.FieldQuantity, "2"},
				{models.FieldDuration, "2h"},
				{models.FieldDateTime, "2026-08-22 14:00"},
				{models.FieldPickup, "yes"},
				{models.FieldPaymentMethod, "card"},
				{models.FieldCustomerName, "Guest " + uid},
			}
			for _, s := range steps {
				if _, err := svc.Update(uid, s.field, s.value); err != nil {
					errCh <- fmt.Errorf("%s update %s: %w", uid, s.field, err)
					return
				}
			}
			if _, err := svc.ComputePrice(uid); err != nil {
				errCh <- fmt.Errorf("%s price: %w", uid, err)
				return
			}
			conf, err := svc.Confirm(uid)
			if err != nil {
				errCh <- fmt.Errorf("%s confirm: %w", uid, err)
				return
			}
			if conf.Total != 998 {
				errCh <- fmt.Errorf("%s total = %d", uid, conf.Total)
			}
		}(userID)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Error(err)
	}
	if archive.count() != users {
		t.Fatalf("archived %d bookings, want %d", archive.count(), users)
	}
}
