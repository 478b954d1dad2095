// File: services/assistant/render.go
// All user-facing wording lives here; the services below it only move data.
package assistant

import (
	"fmt"
	"strings"
	"time"

	"jetset/models"
	"jetset/services/booking"
)

const (
	greetingText = "Hi! I'm Jetset Dubai's assistant. I can help you with packages, prices, and bookings. What would you like to do?"
	helpText     = "You can ask about Desert Safari / Quad / Buggy packages, pricing, pickup, location, rules, or say you want to book and I'll guide you."
	emptyText    = "I didn't catch that. Please type your message."
	fallbackText = "Sorry, I couldn't work that out. Could you rephrase?"
)

func fieldLabel(f models.Field) string {
	switch f {
	case models.FieldActivity:
		return "activity"
	case models.FieldVehicleModel:
		return "vehicle model"
	case models.FieldSafariMode:
		return "safari type"
	case models.FieldQuantity:
		return "quantity"
	case models.FieldDuration:
		return "duration"
	case models.FieldDateTime:
		return "date and time"
	case models.FieldPickup:
		return "pickup"
	case models.FieldPaymentMethod:
		return "payment method"
	case models.FieldCustomerName:
		return "name"
	}
	return string(f)
}

// askFor phrases the single next question for a missing field.
func askFor(field models.Field, activity models.Activity) string {
	switch field {
	case models.FieldActivity:
		return "What would you like to book: a dune buggy, a quad bike, or a desert safari?"
	case models.FieldSafariMode:
		return "Would you like a shared safari (you join a group, priced per passenger) or a private one (your own car, priced per car)?"
	case models.FieldVehicleModel:
		if activity == models.ActivityQuad {
			return "Which quad would you like: Aon Cobra 400cc, Polaris Sportsman 570cc or Yamaha Raptor 700cc?"
		}
		return "Which buggy model would you like: 2-seater or 4-seater?"
	case models.FieldQuantity:
		return fmt.Sprintf("How many %s will it be?", activity.UnitNoun())
	case models.FieldDuration:
		return "How long should the tour run? For example 1 hour or 2 hours."
	case models.FieldDateTime:
		return "When should the tour start? We run daily 9:00 AM to 7:00 PM Dubai time; something like \"tomorrow at 4pm\" works."
	case models.FieldPickup:
		return "Would you like hotel pickup and drop-off? It adds a flat 350 AED."
	case models.FieldPaymentMethod:
		return "How would you like to pay at the venue: cash, card or crypto (BTC/ETH)? Card payments carry 5% VAT."
	case models.FieldCustomerName:
		return "What name should the booking be under?"
	}
	return fmt.Sprintf("Could you give me the %s?", fieldLabel(field))
}

// renderChange acknowledges an accepted edit, echoing the previous value when
// the user replaced one.
func renderChange(change models.FieldChange) string {
	if change.Previous == "" {
		return fmt.Sprintf("Noted, %s: %s.", fieldLabel(change.Field), change.Current)
	}
	return fmt.Sprintf("Changed the %s from %s to %s.", fieldLabel(change.Field), change.Previous, change.Current)
}

func renderDateEcho(t time.Time) string {
	return fmt.Sprintf("I've taken that as %s.", booking.FormatDateTime(t))
}

// renderBreakdown presents a computed price and asks for the go-ahead.
func renderBreakdown(snap *models.DraftSnapshot) string {
	if snap == nil || snap.Price == nil {
		return fallbackText
	}
	p := snap.Price

	var sb strings.Builder
	sb.WriteString("Here is your price:\n")
	what := snap.Activity
	if snap.VehicleModel != "" {
		what = snap.VehicleModel
	}
	fmt.Fprintf(&sb, "- %d x %s, %s: %d AED\n", snap.Quantity, what, snap.Duration, p.Subtotal)
	if p.PickupFee > 0 {
		fmt.Fprintf(&sb, "- Hotel pickup and drop-off: %d AED\n", p.PickupFee)
	}
	if p.VAT > 0 {
		fmt.Fprintf(&sb, "- VAT 5%% (card payment): %d AED\n", p.VAT)
	}
	fmt.Fprintf(&sb, "Total: %d AED, payable at the venue.\n", p.Total)
	sb.WriteString("Shall I confirm the booking?")
	return sb.String()
}

// renderSummary lists what the draft holds so far.
func renderSummary(snap *models.DraftSnapshot) string {
	var sb strings.Builder
	sb.WriteString("Here is your booking so far:\n")
	if snap.CustomerName != "" {
		fmt.Fprintf(&sb, "- Name: %s\n", snap.CustomerName)
	}
	if snap.Activity != "" {
		fmt.Fprintf(&sb, "- Activity: %s\n", snap.Activity)
	}
	if snap.VehicleModel != "" {
		fmt.Fprintf(&sb, "- Model: %s\n", snap.VehicleModel)
	}
	if snap.Quantity > 0 {
		fmt.Fprintf(&sb, "- Quantity: %d %s\n", snap.Quantity, snap.QuantityUnit)
	}
	if snap.Duration != "" {
		fmt.Fprintf(&sb, "- Duration: %s\n", snap.Duration)
	}
	if snap.DateTime != "" {
		fmt.Fprintf(&sb, "- Date and time: %s\n", snap.DateTime)
	}
	if snap.PickupSet {
		if snap.Pickup {
			sb.WriteString("- Pickup: yes (350 AED)\n")
		} else {
			sb.WriteString("- Pickup: no\n")
		}
	}
	if snap.PaymentMethod != "" {
		fmt.Fprintf(&sb, "- Payment: %s\n", snap.PaymentMethod)
	}
	if snap.Price != nil {
		fmt.Fprintf(&sb, "- Total: %d AED\n", snap.Price.Total)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// renderConfirmation is the final message after a successful confirm. It
// repeats the customer name and the meeting point, as every confirmation must.
func renderConfirmation(conf *models.Confirmation) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Booking confirmed, %s!\n", conf.CustomerName)
	what := conf.Activity
	if conf.VehicleModel != "" {
		what = fmt.Sprintf("%s (%s)", conf.Activity, conf.VehicleModel)
	}
	fmt.Fprintf(&sb, "%d %s, %s on %s.\n", conf.Quantity, conf.QuantityUnit, what, conf.DateTime)
	fmt.Fprintf(&sb, "Total: %d AED, payable at the venue.\n", conf.Total)
	fmt.Fprintf(&sb, "We meet at %s: %s\n", conf.Location.Name, conf.Location.MapLink)
	fmt.Fprintf(&sb, "Your reference is %s. Thank you for booking with Jetset Dubai!", conf.BookingID)
	return sb.String()
}

func renderPackages(pkgs []models.TourPackage) string {
	if len(pkgs) == 0 {
		return "I couldn't load the package list right now. Tell me what you'd like to book and I'll quote it directly."
	}
	var sb strings.Builder
	sb.WriteString("Our packages:\n")
	for _, p := range pkgs {
		what := p.Activity.Label()
		if p.VehicleModel != "" {
			what = fmt.Sprintf("%s %s", what, p.VehicleModel)
		}
		fmt.Fprintf(&sb, "- %s, %s: %d AED per %s\n",
			what, booking.FormatDuration(p.DurationMin), p.Price, unitSingular(p.Activity))
	}
	sb.WriteString("Say the word and I'll start a booking.")
	return sb.String()
}

func unitSingular(a models.Activity) string {
	switch a {
	case models.ActivitySafariShared:
		return "passenger"
	case models.ActivitySafariPrivate:
		return "car"
	}
	return "vehicle"
}

func renderLocation(loc models.Location) string {
	return fmt.Sprintf("All tours depart from %s. Map: %s\nHotel pickup and drop-off is available for a flat 350 AED.", loc.Name, loc.MapLink)
}

func renderFAQ(faq []models.FAQEntry) string {
	var sb strings.Builder
	for i, entry := range faq {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s\n%s\n", entry.Question, entry.Answer)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderAbout(about models.AboutInfo) string {
	return fmt.Sprintf("%s: %s\nHours: %s\n%s\n%s\nAccepted currencies: %s.",
		about.Name, about.Description, about.OpeningHours, about.PaymentNotes,
		about.PickupFeeNote, strings.Join(about.Currencies, ", "))
}

// renderValidationError explains a rejection and re-asks the field.
func renderValidationError(verr *booking.ValidationError, activity models.Activity) string {
	msg := verr.Message
	if msg == "" {
		msg = "that value doesn't work"
	}
	out := capitalize(msg) + "."
	if verr.Field != "" {
		out += " " + askFor(verr.Field, activity)
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
