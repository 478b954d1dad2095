package models

import (
	"fmt"
	"time"
)

// Activity identifies what is being booked.
type Activity string

const (
	ActivityBuggy         Activity = "buggy"
	ActivityQuad          Activity = "quad"
	ActivityDesertSafari  Activity = "desert_safari" // safari with the shared/private mode still unanswered
	ActivitySafariShared  Activity = "desert_safari_shared"
	ActivitySafariPrivate Activity = "desert_safari_private"
)

// IsSafari reports whether the activity is a desert safari in any mode.
func (a Activity) IsSafari() bool {
	return a == ActivityDesertSafari || a == ActivitySafariShared || a == ActivitySafariPrivate
}

// NeedsVehicleModel reports whether the activity requires a vehicle model choice.
func (a Activity) NeedsVehicleModel() bool {
	return a == ActivityBuggy || a == ActivityQuad
}

// SafariMode returns "shared" or "private", or "" when not a safari or not chosen yet.
func (a Activity) SafariMode() string {
	switch a {
	case ActivitySafariShared:
		return "shared"
	case ActivitySafariPrivate:
		return "private"
	}
	return ""
}

// UnitNoun returns what quantity counts for this activity.
func (a Activity) UnitNoun() string {
	switch a {
	case ActivityBuggy:
		return "buggies"
	case ActivityQuad:
		return "quads"
	case ActivitySafariShared:
		return "passengers"
	case ActivitySafariPrivate:
		return "cars"
	}
	return "units"
}

// Label returns the customer-facing activity name.
func (a Activity) Label() string {
	switch a {
	case ActivityBuggy:
		return "Dune Buggy"
	case ActivityQuad:
		return "Quad Bike"
	case ActivityDesertSafari:
		return "Desert Safari"
	case ActivitySafariShared:
		return "Desert Safari (Shared)"
	case ActivitySafariPrivate:
		return "Desert Safari (Private)"
	}
	return string(a)
}

// DraftStatus is the lifecycle state of a booking draft.
type DraftStatus string

const (
	StatusCollecting DraftStatus = "collecting"
	StatusPriced     DraftStatus = "priced"
	StatusConfirmed  DraftStatus = "confirmed"
	StatusCancelled  DraftStatus = "cancelled"
)

// Field names a single slot of a booking draft.
type Field string

const (
	FieldActivity      Field = "activity"
	FieldVehicleModel  Field = "vehicle_model"
	FieldSafariMode    Field = "safari_mode"
	FieldQuantity      Field = "quantity"
	FieldDuration      Field = "duration"
	FieldDateTime      Field = "date_time"
	FieldPickup        Field = "pickup"
	FieldPaymentMethod Field = "payment_method"
	FieldCustomerName  Field = "customer_name"
)

// Payment methods accepted at the camp.
const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentCrypto = "crypto"
)

// Money is a monetary amount in whole AED. Tariffs are quoted in whole
// dirhams and VAT is rounded half-up to the dirham, so no sub-dirham
// representation is carried.
type Money int64

func (m Money) String() string {
	return fmt.Sprintf("%d AED", int64(m))
}

// PriceBreakdown is the computed cost of a draft.
type PriceBreakdown struct {
	Base      Money `bson:"base" json:"base"`             // per-unit base price
	Subtotal  Money `bson:"subtotal" json:"subtotal"`     // base × quantity
	PickupFee Money `bson:"pickup_fee" json:"pickup_fee"` // 0 when no pickup
	VAT       Money `bson:"vat" json:"vat"`               // card payments only
	Total     Money `bson:"total" json:"total"`
}

// FieldChange records the most recent accepted edit on a draft.
type FieldChange struct {
	Field    Field  `json:"field"`
	Previous string `json:"previous"` // "" when the field was empty before
	Current  string `json:"current"`
}

// BookingDraft is one user's in-progress booking. One active draft per user.
type BookingDraft struct {
	ID            string          `bson:"id" json:"id"`
	UserID        string          `bson:"user_id" json:"user_id"`
	CustomerName  string          `bson:"customer_name,omitempty" json:"customer_name,omitempty"`
	Activity      Activity        `bson:"activity,omitempty" json:"activity,omitempty"`
	VehicleModel  string          `bson:"vehicle_model,omitempty" json:"vehicle_model,omitempty"`
	Quantity      int             `bson:"quantity,omitempty" json:"quantity,omitempty"` // vehicles, passengers or cars depending on activity
	DurationMin   int             `bson:"duration_min,omitempty" json:"duration_min,omitempty"`
	Start         time.Time       `bson:"start,omitempty" json:"start,omitempty"` // absolute, Dubai local
	Pickup        *bool           `bson:"pickup,omitempty" json:"pickup,omitempty"`
	PaymentMethod string          `bson:"payment_method,omitempty" json:"payment_method,omitempty"`
	Price         *PriceBreakdown `bson:"price,omitempty" json:"price,omitempty"` // cleared on any edit
	Status        DraftStatus     `bson:"status" json:"status"`
	LastChange    *FieldChange    `bson:"last_change,omitempty" json:"last_change,omitempty"`
	CreatedAt     time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `bson:"updated_at" json:"updated_at"`
}

// DraftSnapshot is the read-only rendering view of a draft. Date and duration
// are already in display form; no machine formats leak to callers.
type DraftSnapshot struct {
	CustomerName  string          `json:"customer_name,omitempty"`
	Activity      string          `json:"activity,omitempty"` // display label
	VehicleModel  string          `json:"vehicle_model,omitempty"`
	SafariMode    string          `json:"safari_mode,omitempty"`
	Quantity      int             `json:"quantity,omitempty"`
	QuantityUnit  string          `json:"quantity_unit,omitempty"`
	Duration      string          `json:"duration,omitempty"`  // e.g. "2 hours"
	DateTime      string          `json:"date_time,omitempty"` // e.g. "Friday, 22 Aug 2026 at 2:00 PM"
	PickupSet     bool            `json:"pickup_set"`
	Pickup        bool            `json:"pickup"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Price         *PriceBreakdown `json:"price,omitempty"`
	Status        DraftStatus     `json:"status"`
	Location      Location        `json:"location"`
}

// Confirmation echoes a committed booking for the caller to render.
type Confirmation struct {
	BookingID    string          `json:"booking_id"`
	CustomerName string          `json:"customer_name"`
	Activity     string          `json:"activity"` // display label
	VehicleModel string          `json:"vehicle_model,omitempty"`
	Quantity     int             `json:"quantity"`
	QuantityUnit string          `json:"quantity_unit"`
	DateTime     string          `json:"date_time"` // display form
	Total        Money           `json:"total"`
	Price        *PriceBreakdown `json:"price"`
	Location     Location        `json:"location"`
}

// Booking is a confirmed booking as archived in Mongo.
type Booking struct {
	ID            string         `bson:"id" json:"id"`                         // booking reference (UUID)
	UserID        string         `bson:"user_id" json:"user_id"`               // chat identity that booked
	CustomerName  string         `bson:"customer_name" json:"customer_name"`   // name given during the dialogue
	Activity      Activity       `bson:"activity" json:"activity"`             // final activity incl. safari mode
	VehicleModel  string         `bson:"vehicle_model,omitempty" json:"vehicle_model,omitempty"`
	Quantity      int            `bson:"quantity" json:"quantity"`             // unit semantics per activity
	DurationMin   int            `bson:"duration_min" json:"duration_min"`     // tour length in minutes
	Start         time.Time      `bson:"start" json:"start"`                   // tour start, Dubai local
	Pickup        bool           `bson:"pickup" json:"pickup"`                 // hotel pickup requested
	PaymentMethod string         `bson:"payment_method" json:"payment_method"` // settled at the venue
	Price         PriceBreakdown `bson:"price" json:"price"`
	ReminderSent  bool           `bson:"reminder_sent" json:"reminder_sent"`
	CreatedAt     time.Time      `bson:"created_at" json:"created_at"`
}
