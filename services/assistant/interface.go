package assistant

import (
	"context"
	"time"

	"jetset/models"
	"jetset/services/booking"
	"jetset/services/catalog"
)

// Intents the language-understanding step can emit.
const (
	IntentGreeting = "greeting"
	IntentHelp     = "help"
	IntentBook     = "book"
	IntentPrice    = "price"
	IntentConfirm  = "confirm"
	IntentCancel   = "cancel"
	IntentSummary  = "summary"
	IntentPackages = "packages"
	IntentLocation = "location"
	IntentFAQ      = "faq"
	IntentAbout    = "about"
	IntentChat     = "chat"
)

// Extraction is what the language-understanding step pulls out of one user
// message: an intent, zero or more field updates, and the raw relative date
// expression when the user gave one instead of an absolute date.
type Extraction struct {
	Intent         string               `json:"intent"`
	Updates        []models.FieldUpdate `json:"updates,omitempty"`
	DateExpression string               `json:"date_expression,omitempty"`
}

// IntentExtractor turns a user message plus recent history into an Extraction.
type IntentExtractor interface {
	Extract(ctx context.Context, history []models.Turn, message string) (*Extraction, error)
}

// ConversationMemory keeps the rolling window of turns per user.
type ConversationMemory interface {
	History(ctx context.Context, userID string) ([]models.Turn, error)
	Append(ctx context.Context, userID string, turns ...models.Turn) error
	Clear(ctx context.Context, userID string) error
}

// Clock supplies venue-local time and resolves relative date expressions
// before they reach the booking core.
type Clock interface {
	NowLocal() time.Time
	ResolveRelative(expression string, reference time.Time) (time.Time, error)
}

// AssistantService is the conversational surface over the booking core.
type AssistantService interface {
	ProcessMessage(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
}

// DefaultAssistantService wires the extractor, memory, clock, booking core
// and knowledge base into one message loop.
type DefaultAssistantService struct {
	extractor IntentExtractor
	memory    ConversationMemory
	clock     Clock
	bookSvc   booking.BookingService
	kb        catalog.KnowledgeBaseService
}

func NewDefaultAssistantService(
	extractor IntentExtractor,
	memory ConversationMemory,
	clock Clock,
	bookSvc booking.BookingService,
	kb catalog.KnowledgeBaseService,
) *DefaultAssistantService {
	return &DefaultAssistantService{
		extractor: extractor,
		memory:    memory,
		clock:     clock,
		bookSvc:   bookSvc,
		kb:        kb,
	}
}
