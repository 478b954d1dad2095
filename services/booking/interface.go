package booking

import (
	"fmt"

	recordsRepo "jetset/database/repository/records"
	"jetset/models"
)

// Catalog supplies per-unit base prices for complete field sets and the fixed
// meeting point. Implementations must not block; the slow knowledge-base path
// runs outside the state machine and feeds back in via ComputePriceWithBase.
type Catalog interface {
	Lookup(activity models.Activity, vehicleModel string, durationMin int) (models.Money, bool)
	Location() models.Location
}

// ReminderScheduler queues a pre-tour reminder for a confirmed booking.
type ReminderScheduler interface {
	ScheduleTourReminder(b models.Booking) error
}

// BookingService drives one draft per user through collection, pricing and
// confirmation. It is the only mutation surface for drafts.
type BookingService interface {
	GetOrCreate(userID string) (*models.BookingDraft, error)
	Update(userID string, field models.Field, value string) (*UpdateResult, error)
	ComputePrice(userID string) (*models.PriceBreakdown, error)
	ComputePriceWithBase(userID string, base models.Money) (*models.PriceBreakdown, error)
	Confirm(userID string) (*models.Confirmation, error)
	Cancel(userID string) error
	Describe(userID string) (*models.DraftSnapshot, error)
}

// UpdateResult reports an accepted edit and the single next field to request.
type UpdateResult struct {
	Draft       *models.BookingDraft `json:"draft"`
	Change      models.FieldChange   `json:"change"`
	NextMissing models.Field         `json:"next_missing,omitempty"` // empty when the draft is complete
	Complete    bool                 `json:"complete"`
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Store     *DraftStore
	Catalog   Catalog
	Archive   recordsRepo.BookingRecordRepository // nil skips archiving
	Reminders ReminderScheduler                   // nil skips reminders
}

func NewDefaultBookingService(
	store *DraftStore,
	catalog Catalog,
	archive recordsRepo.BookingRecordRepository,
	reminders ReminderScheduler,
) (*DefaultBookingService, error) {
	if store == nil || catalog == nil {
		return nil, fmt.Errorf("booking service initialization error: one or more dependencies are nil")
	}
	return &DefaultBookingService{
		Store:     store,
		Catalog:   catalog,
		Archive:   archive,
		Reminders: reminders,
	}, nil
}
