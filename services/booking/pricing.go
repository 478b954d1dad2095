package booking

import (
	"jetset/models"
)

// PickupFee is the flat hotel pickup & drop-off charge.
const PickupFee = models.Money(350)

// VATPercent applies to card payments only.
const VATPercent = 5

// VATOn returns VATPercent of the amount, rounded half-up to the dirham.
func VATOn(amount models.Money) models.Money {
	return models.Money((int64(amount)*VATPercent + 50) / 100)
}

// Subtotal is the per-unit base price times quantity. Pricing is always per
// vehicle, per passenger or per car; never per seat.
func Subtotal(base models.Money, quantity int) models.Money {
	return base * models.Money(quantity)
}

// ComputeBreakdown derives the full price of a complete draft from a unit
// base price.
func ComputeBreakdown(draft *models.BookingDraft, base models.Money) models.PriceBreakdown {
	subtotal := Subtotal(base, draft.Quantity)
	fee := models.Money(0)
	if draft.Pickup != nil && *draft.Pickup {
		fee = PickupFee
	}
	vat := models.Money(0)
	if draft.PaymentMethod == models.PaymentCard {
		vat = VATOn(subtotal + fee)
	}
	return models.PriceBreakdown{
		Base:      base,
		Subtotal:  subtotal,
		PickupFee: fee,
		VAT:       vat,
		Total:     subtotal + fee + vat,
	}
}
