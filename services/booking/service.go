package booking

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"jetset/models"
	"jetset/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GetOrCreate returns the user's active draft, creating an empty one when
// none exists. Repeated calls without an intervening confirm or cancel return
// the same draft.
func (s *DefaultBookingService) GetOrCreate(userID string) (*models.BookingDraft, error) {
	if userID == "" {
		return nil, NewValidationError(KindInvalidValue, "", "user id is empty")
	}
	sess := s.Store.acquire(userID, true)
	defer sess.mu.Unlock()
	sess.lastSeen = time.Now()

	if sess.draft == nil || isTerminal(sess.draft.Status) {
		now := time.Now()
		sess.draft = &models.BookingDraft{
			ID:        uuid.New().String(),
			UserID:    userID,
			Status:    models.StatusCollecting,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	return cloneDraft(sess.draft), nil
}

// Update applies a single validated field edit. A rejected value mutates
// nothing; an accepted one clears any computed price and drops the draft back
// to collecting.
func (s *DefaultBookingService) Update(userID string, field models.Field, value string) (*UpdateResult, error) {
	sess := s.Store.acquire(userID, false)
	if sess == nil {
		return nil, NewStateError(KindNoActiveDraft, "no active booking draft for this user")
	}
	defer sess.mu.Unlock()
	sess.lastSeen = time.Now()

	draft := sess.draft
	if draft == nil {
		return nil, NewStateError(KindNoActiveDraft, "no active booking draft for this user")
	}
	if draft.Status == models.StatusConfirmed {
		return nil, NewStateError(KindAlreadyConfirmed, "booking already confirmed; start a new draft to make changes")
	}

	prev := fieldValue(draft, field)

	switch field {
	case models.FieldActivity:
		act, err := ParseActivity(value)
		if err != nil {
			return nil, err
		}
		applyActivity(draft, act)
	case models.FieldSafariMode:
		act, err := ParseSafariMode(draft.Activity, value)
		if err != nil {
			return nil, err
		}
		draft.Activity = act
	case models.FieldVehicleModel:
		m, err := NormalizeVehicleModel(draft.Activity, value)
		if err != nil {
			return nil, err
		}
		draft.VehicleModel = m
	case models.FieldQuantity:
		n, err := ParseQuantity(draft.Activity, value)
		if err != nil {
			return nil, err
		}
		draft.Quantity = n
	case models.FieldDuration:
		d, err := ParseDuration(value)
		if err != nil {
			return nil, err
		}
		if !draft.Start.IsZero() {
			if err := CheckOperatingHours(draft.Start, d); err != nil {
				return nil, err
			}
		}
		draft.DurationMin = d
	case models.FieldDateTime:
		t, err := ParseDateTime(value)
		if err != nil {
			return nil, err
		}
		if err := CheckOperatingHours(t, draft.DurationMin); err != nil {
			return nil, err
		}
		draft.Start = t
	case models.FieldPickup:
		b, err := ParsePickup(value)
		if err != nil {
			return nil, err
		}
		draft.Pickup = &b
	case models.FieldPaymentMethod:
		pm, err := ParsePaymentMethod(value)
		if err != nil {
			return nil, err
		}
		draft.PaymentMethod = pm
	case models.FieldCustomerName:
		name, err := ParseCustomerName(value)
		if err != nil {
			return nil, err
		}
		draft.CustomerName = name
	default:
		return nil, NewValidationError(KindInvalidValue, field, fmt.Sprintf("unknown field %q", string(field)))
	}

	// Every accepted edit invalidates pricing, even a re-set to the same
	// value; confirmation requires a quote newer than the latest edit.
	draft.Price = nil
	if draft.Status == models.StatusPriced {
		draft.Status = models.StatusCollecting
	}
	change := models.FieldChange{Field: field, Previous: prev, Current: fieldValue(draft, field)}
	draft.LastChange = &change
	draft.UpdatedAt = time.Now()

	next, more := NextMissingField(draft)
	return &UpdateResult{
		Draft:       cloneDraft(draft),
		Change:      change,
		NextMissing: next,
		Complete:    !more,
	}, nil
}

// ComputePrice prices the draft from the catalog. A combination the catalog
// does not carry yields a NeedsPricing signal; the caller fetches a base
// price externally and retries through ComputePriceWithBase.
func (s *DefaultBookingService) ComputePrice(userID string) (*models.PriceBreakdown, error) {
	return s.computePrice(userID, 0, false)
}

// ComputePriceWithBase completes a pricing round with an externally supplied
// per-unit base price.
func (s *DefaultBookingService) ComputePriceWithBase(userID string, base models.Money) (*models.PriceBreakdown, error) {
	if base <= 0 {
		return nil, NewValidationError(KindInvalidValue, "", "base price must be positive")
	}
	return s.computePrice(userID, base, true)
}

func (s *DefaultBookingService) computePrice(userID string, base models.Money, haveBase bool) (*models.PriceBreakdown, error) {
	sess := s.Store.acquire(userID, false)
	if sess == nil {
		return nil, NewStateError(KindNoActiveDraft, "no active booking draft for this user")
	}
	defer sess.mu.Unlock()
	sess.lastSeen = time.Now()

	draft := sess.draft
	if draft == nil {
		return nil, NewStateError(KindNoActiveDraft, "no active booking draft for this user")
	}
	if draft.Status == models.StatusConfirmed {
		return nil, NewStateError(KindAlreadyConfirmed, "booking already confirmed")
	}
	if missing, more := NextMissingField(draft); more {
		return nil, &ValidationError{
			Kind:    KindIncomplete,
			Field:   missing,
			Missing: missing,
			Message: fmt.Sprintf("booking needs %s before pricing", string(missing)),
		}
	}

	if !haveBase {
		if s.Catalog == nil {
			return nil, &NeedsPricing{Activity: draft.Activity, VehicleModel: draft.VehicleModel, DurationMin: draft.DurationMin}
		}
		b, ok := s.Catalog.Lookup(draft.Activity, draft.VehicleModel, draft.DurationMin)
		if !ok {
			return nil, &NeedsPricing{Activity: draft.Activity, VehicleModel: draft.VehicleModel, DurationMin: draft.DurationMin}
		}
		base = b
	}

	bd := ComputeBreakdown(draft, base)
	draft.Price = &bd
	draft.Status = models.StatusPriced
	draft.UpdatedAt = time.Now()

	out := bd
	return &out, nil
}

// Confirm commits a freshly priced draft. The confirmed booking is archived
// and its pre-tour reminder scheduled outside the session lock.
func (s *DefaultBookingService) Confirm(userID string) (*models.Confirmation, error) {
	sess := s.Store.acquire(userID, false)
	if sess == nil {
		return nil, NewStateError(KindNoActiveDraft, "no active booking draft for this user")
	}
	sess.lastSeen = time.Now()

	draft := sess.draft
	if draft == nil {
		sess.mu.Unlock()
		return nil, NewStateError(KindNoActiveDraft, "no active booking draft for this user")
	}
	if draft.Status == models.StatusConfirmed {
		sess.mu.Unlock()
		return nil, NewStateError(KindAlreadyConfirmed, "booking already confirmed")
	}
	if draft.Status != models.StatusPriced || draft.Price == nil {
		sess.mu.Unlock()
		return nil, NewStateError(KindNotPriced, "price the booking before confirming; details changed since the last quote")
	}

	draft.Status = models.StatusConfirmed
	draft.UpdatedAt = time.Now()

	pickup := draft.Pickup != nil && *draft.Pickup
	record := models.Booking{
		ID:            draft.ID,
		UserID:        draft.UserID,
		CustomerName:  draft.CustomerName,
		Activity:      draft.Activity,
		VehicleModel:  draft.VehicleModel,
		Quantity:      draft.Quantity,
		DurationMin:   draft.DurationMin,
		Start:         draft.Start,
		Pickup:        pickup,
		PaymentMethod: draft.PaymentMethod,
		Price:         *draft.Price,
		CreatedAt:     time.Now(),
	}
	conf := buildConfirmation(draft, s.location())
	sess.mu.Unlock()

	// Archive and reminder are I/O; they run after the lock is released so a
	// slow backend never stalls this user's next operation. The confirmed
	// draft stays in the store until the user starts a new one or the
	// session expires.
	logger := utils.GetLogger()
	if s.Archive != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := s.Archive.Create(ctx, record); err != nil {
			logger.Error("failed to archive confirmed booking",
				zap.String("bookingID", record.ID), zap.Error(err))
		}
	}
	if s.Reminders != nil {
		if err := s.Reminders.ScheduleTourReminder(record); err != nil {
			logger.Error("failed to schedule tour reminder",
				zap.String("bookingID", record.ID), zap.Error(err))
		}
	}
	logger.Info("booking confirmed",
		zap.String("bookingID", record.ID), zap.String("userID", userID))
	return conf, nil
}

// Cancel abandons the active draft.
func (s *DefaultBookingService) Cancel(userID string) error {
	sess := s.Store.acquire(userID, false)
	if sess == nil {
		return NewStateError(KindNoActiveDraft, "no active booking draft for this user")
	}
	sess.lastSeen = time.Now()

	draft := sess.draft
	if draft == nil {
		sess.mu.Unlock()
		return NewStateError(KindNoActiveDraft, "no active booking draft for this user")
	}
	if draft.Status == models.StatusConfirmed {
		sess.mu.Unlock()
		return NewStateError(KindAlreadyConfirmed, "booking already confirmed; it can no longer be cancelled here")
	}
	draft.Status = models.StatusCancelled
	draft.UpdatedAt = time.Now()
	sess.mu.Unlock()

	s.Store.remove(userID)
	return nil
}

// Describe returns a read-only snapshot of the draft with date, duration and
// prices already in display form.
func (s *DefaultBookingService) Describe(userID string) (*models.DraftSnapshot, error) {
	sess := s.Store.acquire(userID, false)
	if sess == nil {
		return nil, NewStateError(KindNoActiveDraft, "no active booking draft for this user")
	}
	defer sess.mu.Unlock()
	sess.lastSeen = time.Now()

	if sess.draft == nil {
		return nil, NewStateError(KindNoActiveDraft, "no active booking draft for this user")
	}
	return snapshot(sess.draft, s.location()), nil
}

func (s *DefaultBookingService) location() models.Location {
	if s.Catalog == nil {
		return models.Location{}
	}
	return s.Catalog.Location()
}

func isTerminal(st models.DraftStatus) bool {
	return st == models.StatusConfirmed || st == models.StatusCancelled
}

// applyActivity sets a new activity and re-validates the fields that depend
// on it; values no longer legal are cleared and will be asked again.
func applyActivity(draft *models.BookingDraft, act models.Activity) {
	if draft.Activity == act {
		return
	}
	draft.Activity = act
	if !act.NeedsVehicleModel() {
		draft.VehicleModel = ""
	} else if draft.VehicleModel != "" && !ModelAllowed(act, draft.VehicleModel) {
		draft.VehicleModel = ""
	}
	if limit := QuantityCap(act); limit > 0 && draft.Quantity > limit {
		draft.Quantity = 0
	}
}

// fieldValue renders the current value of a field in display form, "" when
// unset. Used for "you changed X from A to B" echoes.
func fieldValue(d *models.BookingDraft, f models.Field) string {
	switch f {
	case models.FieldActivity:
		return string(d.Activity)
	case models.FieldSafariMode:
		return d.Activity.SafariMode()
	case models.FieldVehicleModel:
		return d.VehicleModel
	case models.FieldQuantity:
		if d.Quantity == 0 {
			return ""
		}
		return strconv.Itoa(d.Quantity)
	case models.FieldDuration:
		if d.DurationMin == 0 {
			return ""
		}
		return FormatDuration(d.DurationMin)
	case models.FieldDateTime:
		if d.Start.IsZero() {
			return ""
		}
		return FormatDateTime(d.Start)
	case models.FieldPickup:
		if d.Pickup == nil {
			return ""
		}
		if *d.Pickup {
			return "yes"
		}
		return "no"
	case models.FieldPaymentMethod:
		return d.PaymentMethod
	case models.FieldCustomerName:
		return d.CustomerName
	}
	return ""
}

func cloneDraft(d *models.BookingDraft) *models.BookingDraft {
	out := *d
	if d.Price != nil {
		p := *d.Price
		out.Price = &p
	}
	if d.Pickup != nil {
		b := *d.Pickup
		out.Pickup = &b
	}
	if d.LastChange != nil {
		c := *d.LastChange
		out.LastChange = &c
	}
	return &out
}

func snapshot(d *models.BookingDraft, loc models.Location) *models.DraftSnapshot {
	snap := &models.DraftSnapshot{
		CustomerName:  d.CustomerName,
		VehicleModel:  d.VehicleModel,
		Quantity:      d.Quantity,
		PaymentMethod: d.PaymentMethod,
		Status:        d.Status,
		Location:      loc,
	}
	if d.Activity != "" {
		snap.Activity = d.Activity.Label()
		snap.QuantityUnit = d.Activity.UnitNoun()
		snap.SafariMode = d.Activity.SafariMode()
	}
	if d.DurationMin > 0 {
		snap.Duration = FormatDuration(d.DurationMin)
	}
	if !d.Start.IsZero() {
		snap.DateTime = FormatDateTime(d.Start)
	}
	if d.Pickup != nil {
		snap.PickupSet = true
		snap.Pickup = *d.Pickup
	}
	if d.Price != nil {
		p := *d.Price
		snap.Price = &p
	}
	return snap
}

func buildConfirmation(d *models.BookingDraft, loc models.Location) *models.Confirmation {
	price := *d.Price
	return &models.Confirmation{
		BookingID:    d.ID,
		CustomerName: d.CustomerName,
		Activity:     d.Activity.Label(),
		VehicleModel: d.VehicleModel,
		Quantity:     d.Quantity,
		QuantityUnit: d.Activity.UnitNoun(),
		DateTime:     FormatDateTime(d.Start),
		Total:        d.Price.Total,
		Price:        &price,
		Location:     loc,
	}
}

// FormatDuration renders minutes as spoken text, e.g. "2 hours 30 minutes".
func FormatDuration(min int) string {
	h, m := min/60, min%60
	switch {
	case h == 0:
		return fmt.Sprintf("%d minutes", m)
	case m == 0 && h == 1:
		return "1 hour"
	case m == 0:
		return fmt.Sprintf("%d hours", h)
	case h == 1:
		return fmt.Sprintf("1 hour %d minutes", m)
	}
	return fmt.Sprintf("%d hours %d minutes", h, m)
}

// FormatDateTime renders a tour start in Dubai local display form; ISO forms
// never reach the user.
func FormatDateTime(t time.Time) string {
	return t.In(dubaiTZ).Format("Monday, 2 Jan 2006 at 3:04 PM")
}
