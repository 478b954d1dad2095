package assistant

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"jetset/models"
	"jetset/services/booking"
	"jetset/services/catalog"
)

// scriptedExtractor replays prepared extractions instead of calling the model.
type scriptedExtractor struct {
	queue []*Extraction
}

func (s *scriptedExtractor) Extract(_ context.Context, _ []models.Turn, _ string) (*Extraction, error) {
	if len(s.queue) == 0 {
		return &Extraction{Intent: IntentChat}, nil
	}
	ex := s.queue[0]
	s.queue = s.queue[1:]
	return ex, nil
}

type memStub struct {
	turns map[string][]models.Turn
}

func (m *memStub) History(_ context.Context, userID string) ([]models.Turn, error) {
	return m.turns[userID], nil
}

func (m *memStub) Append(_ context.Context, userID string, turns ...models.Turn) error {
	m.turns[userID] = append(m.turns[userID], turns...)
	return nil
}

func (m *memStub) Clear(_ context.Context, userID string) error {
	delete(m.turns, userID)
	return nil
}

// fixedClock pins "now" so relative dates resolve deterministically; the
// grammar itself is the production one.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) NowLocal() time.Time { return c.now }

func (c fixedClock) ResolveRelative(expression string, reference time.Time) (time.Time, error) {
	return DubaiClock{}.ResolveRelative(expression, reference)
}

// emptyTariffs is a catalog with no listed prices, forcing the
// knowledge-base fallback on every quote.
type emptyTariffs struct{}

func (emptyTariffs) Lookup(models.Activity, string, int) (models.Money, bool) {
	return 0, false
}

func (emptyTariffs) Location() models.Location {
	return models.Location{Name: "Jetset Desert Camp", MapLink: "https://maps.example/jetset"}
}

type kbStub struct {
	prices map[string]models.Money
}

func kbKey(activity models.Activity, model string, durationMin int) string {
	return fmt.Sprintf("%s|%s|%d", activity, model, durationMin)
}

func (s kbStub) LookupPrice(_ context.Context, activity models.Activity, model string, durationMin int) (models.Money, error) {
	if p, ok := s.prices[kbKey(activity, model, durationMin)]; ok {
		return p, nil
	}
	return 0, catalog.ErrPriceNotFound
}

func (s kbStub) Packages(context.Context) ([]models.TourPackage, error) { return nil, nil }
func (s kbStub) FAQ() []models.FAQEntry                                 { return nil }
func (s kbStub) About() models.AboutInfo                                { return models.AboutInfo{Name: "Jetset Dubai"} }
func (s kbStub) Location() models.Location {
	return models.Location{Name: "Jetset Desert Camp", MapLink: "https://maps.example/jetset"}
}

func newTestAssistant(t *testing.T, ex IntentExtractor, kb catalog.KnowledgeBaseService) (*DefaultAssistantService, *memStub) {
	t.Helper()
	store := booking.NewDraftStore(time.Hour)
	t.Cleanup(store.Close)
	bookSvc, err := booking.NewDefaultBookingService(store, emptyTariffs{}, nil, nil)
	if err != nil {
		t.Fatalf("NewDefaultBookingService: %v", err)
	}
	mem := &memStub{turns: map[string][]models.Turn{}}
	clk := fixedClock{now: time.Date(2026, 8, 21, 10, 0, 0, 0, booking.OperatingTZ())}
	return NewDefaultAssistantService(ex, mem, clk, bookSvc, kb), mem
}

func TestProcessMessageGreetingAndMemory(t *testing.T) {
	svc, mem := newTestAssistant(t,
		&scriptedExtractor{queue: []*Extraction{{Intent: IntentGreeting}}},
		kbStub{})

	resp, err := svc.ProcessMessage(context.Background(), models.ChatRequest{UserID: "u1", Text: "hi there"})
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if resp.Reply != greetingText {
		t.Errorf("reply = %q, want greeting", resp.Reply)
	}
	turns := mem.turns["u1"]
	if len(turns) != 2 || turns[0].Role != "user" || turns[1].Role != "assistant" {
		t.Fatalf("memory got %+v, want one user and one assistant turn", turns)
	}
}

func TestProcessMessageEmptyText(t *testing.T) {
	svc, mem := newTestAssistant(t, &scriptedExtractor{}, kbStub{})

	resp, err := svc.ProcessMessage(context.Background(), models.ChatRequest{UserID: "u1", Text: "   "})
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if resp.Reply != emptyText {
		t.Errorf("reply = %q, want the empty-message nudge", resp.Reply)
	}
	if len(mem.turns["u1"]) != 0 {
		t.Error("blank input should not be remembered")
	}
}

func TestBookingAsksSingleNextField(t *testing.T) {
	svc, _ := newTestAssistant(t,
		&scriptedExtractor{queue: []*Extraction{{
			Intent:  IntentBook,
			Updates: []models.FieldUpdate{{Field: models.FieldActivity, Value: "quad"}},
		}}},
		kbStub{})

	resp, err := svc.ProcessMessage(context.Background(), models.ChatRequest{UserID: "u1", Text: "I want a quad"})
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if resp.Ask != models.FieldVehicleModel {
		t.Errorf("asking = %q, want vehicle_model", resp.Ask)
	}
	if resp.Draft == nil || resp.Draft.Activity != models.ActivityQuad.Label() {
		t.Errorf("draft snapshot = %+v, want quad activity", resp.Draft)
	}
}

func TestSeatDescriptorReroutesToBuggyModel(t *testing.T) {
	svc, _ := newTestAssistant(t,
		&scriptedExtractor{queue: []*Extraction{{
			Intent: IntentBook,
			Updates: []models.FieldUpdate{
				{Field: models.FieldActivity, Value: "buggy"},
				{Field: models.FieldQuantity, Value: "2-seater"},
			},
		}}},
		kbStub{})

	resp, err := svc.ProcessMessage(context.Background(), models.ChatRequest{UserID: "u1", Text: "a 2-seater buggy"})
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if resp.Draft == nil || resp.Draft.VehicleModel != "2-seater" {
		t.Fatalf("draft = %+v, want the seat descriptor filed as the model", resp.Draft)
	}
	if resp.Ask != models.FieldQuantity {
		t.Errorf("asking = %q, want quantity next", resp.Ask)
	}
}

func TestSeatDescriptorStaysQuantityForQuads(t *testing.T) {
	svc, _ := newTestAssistant(t,
		&scriptedExtractor{queue: []*Extraction{{
			Intent: IntentBook,
			Updates: []models.FieldUpdate{
				{Field: models.FieldActivity, Value: "quad"},
				{Field: models.FieldVehicleModel, Value: "raptor"},
				{Field: models.FieldQuantity, Value: "2-seater"},
			},
		}}},
		kbStub{})

	resp, err := svc.ProcessMessage(context.Background(), models.ChatRequest{UserID: "u1", Text: "two seater quad"})
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if resp.Ask != models.FieldQuantity {
		t.Errorf("asking = %q, want quantity re-asked", resp.Ask)
	}
	if !strings.Contains(resp.Reply, "not a quantity") {
		t.Errorf("reply = %q, want the seat/quantity mixup explained", resp.Reply)
	}
}

func TestKnowledgeBasePricesUnlistedCombinationAndConfirm(t *testing.T) {
	kb := kbStub{prices: map[string]models.Money{
		kbKey(models.ActivityQuad, "Yamaha Raptor 700cc", 120): 250,
	}}
	svc, _ := newTestAssistant(t,
		&scriptedExtractor{queue: []*Extraction{
			{
				Intent: IntentBook,
				Updates: []models.FieldUpdate{
					{Field: models.FieldActivity, Value: "quad"},
					{Field: models.FieldVehicleModel, Value: "raptor"},
					{Field: models.FieldQuantity, Value: "2"},
					{Field: models.FieldDuration, Value: "2 hours"},
					{Field: models.FieldPickup, Value: "no"},
					{Field: models.FieldPaymentMethod, Value: "cash"},
					{Field: models.FieldCustomerName, Value: "Lena"},
				},
				DateExpression: "tomorrow at 4pm",
			},
			{Intent: IntentConfirm},
		}},
		kb)

	resp, err := svc.ProcessMessage(context.Background(), models.ChatRequest{UserID: "u1", Text: "book it all"})
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if resp.Intent != IntentPrice {
		t.Fatalf("intent = %q, want a quote; reply: %q", resp.Intent, resp.Reply)
	}
	if resp.Draft == nil || resp.Draft.Price == nil {
		t.Fatalf("quote carried no price breakdown: %+v", resp.Draft)
	}
	// 250 per quad × 2, no pickup, cash carries no VAT.
	if got := resp.Draft.Price.Total; got != 500 {
		t.Errorf("total = %v, want 500 AED", got)
	}
	if resp.Draft.Status != models.StatusPriced {
		t.Errorf("status = %q, want priced", resp.Draft.Status)
	}

	conf, err := svc.ProcessMessage(context.Background(), models.ChatRequest{UserID: "u1", Text: "confirm"})
	if err != nil {
		t.Fatalf("ProcessMessage(confirm): %v", err)
	}
	if !strings.Contains(conf.Reply, "Booking confirmed") {
		t.Errorf("confirm reply = %q", conf.Reply)
	}
}

func TestPriceWithoutActiveDraft(t *testing.T) {
	svc, _ := newTestAssistant(t,
		&scriptedExtractor{queue: []*Extraction{{Intent: IntentPrice}}},
		kbStub{})

	resp, err := svc.ProcessMessage(context.Background(), models.ChatRequest{UserID: "u1", Text: "how much"})
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if !strings.Contains(resp.Reply, "booking in progress") {
		t.Errorf("reply = %q, want the no-draft explanation", resp.Reply)
	}
}
