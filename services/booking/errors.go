package booking

import (
	"fmt"

	"jetset/models"
)

// Validation error kinds.
const (
	KindIncomplete    = "incomplete"
	KindInvalidValue  = "invalid_value"
	KindOutOfRange    = "out_of_range"
	KindHours         = "hours_violation"
	KindSeatConfusion = "seat_quantity_confusion"
)

// ValidationError reports a rejected field value or an incomplete draft.
// A rejected update leaves the draft untouched.
type ValidationError struct {
	Kind    string       `json:"kind"`
	Field   models.Field `json:"field,omitempty"`
	Message string       `json:"message"`
	Missing models.Field `json:"missing,omitempty"` // set when Kind == incomplete
	Bound   string       `json:"bound,omitempty"`   // set when Kind == hours_violation, "09:00" or "19:00"
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewValidationError(kind string, field models.Field, msg string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Message: msg}
}

// State error kinds.
const (
	KindNotPriced        = "not_priced"
	KindAlreadyConfirmed = "already_confirmed"
	KindNoActiveDraft    = "no_active_draft"
)

// StateError reports an operation rejected by draft lifecycle rules.
type StateError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewStateError(kind, msg string) *StateError {
	return &StateError{Kind: kind, Message: msg}
}

// NeedsPricing signals that the catalog has no base price for the draft's
// combination and the caller must fetch one externally, then resupply it via
// ComputePriceWithBase. It travels as an error value but is a control signal,
// not a failure.
type NeedsPricing struct {
	Activity     models.Activity `json:"activity"`
	VehicleModel string          `json:"vehicle_model,omitempty"`
	DurationMin  int             `json:"duration_min"`
}

func (e *NeedsPricing) Error() string {
	return fmt.Sprintf("needs_external_lookup: no cached price for %s %s %dmin",
		e.Activity, e.VehicleModel, e.DurationMin)
}
