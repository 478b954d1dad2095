package booking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"jetset/models"
)

// Operating window, minutes from midnight Dubai time.
const (
	openMinute  = 9 * 60  // 09:00
	closeMinute = 19 * 60 // 19:00
)

// Quantity cap for desert safaris (shared passengers, private cars).
const safariQuantityCap = 10

// Longest bookable duration; bounded by the operating window.
const maxDurationMin = closeMinute - openMinute

var buggyModels = []string{"2-seater", "4-seater"}

var quadModels = []string{
	"Aon Cobra 400cc",
	"Polaris Sportsman 570cc",
	"Yamaha Raptor 700cc",
}

// dubaiTZ is the operating timezone. Dubai does not observe DST; a fixed
// +4 offset matches year-round when tzdata is unavailable.
var dubaiTZ = loadDubaiTZ()

func loadDubaiTZ() *time.Location {
	loc, err := time.LoadLocation("Asia/Dubai")
	if err != nil {
		return time.FixedZone("GST", 4*60*60)
	}
	return loc
}

// OperatingTZ returns the timezone all tour times are interpreted in.
func OperatingTZ() *time.Location {
	return dubaiTZ
}

// AllowedModels returns the vehicle models valid for the activity.
func AllowedModels(activity models.Activity) []string {
	switch activity {
	case models.ActivityBuggy:
		return buggyModels
	case models.ActivityQuad:
		return quadModels
	}
	return nil
}

// ModelAllowed reports whether model is a valid choice for the activity.
func ModelAllowed(activity models.Activity, model string) bool {
	for _, m := range AllowedModels(activity) {
		if m == model {
			return true
		}
	}
	return false
}

// QuantityCap returns the maximum quantity for the activity, 0 when uncapped.
func QuantityCap(activity models.Activity) int {
	if activity.IsSafari() {
		return safariQuantityCap
	}
	return 0
}

var seatDescriptorRe = regexp.MustCompile(`(?i)^\s*(\d+|one|two|three|four|five|six)\s*[- ]?\s*seat(?:er)?s?\s*$`)

// LooksLikeSeatDescriptor reports whether the value names a seat count, e.g.
// "2-seater" or "two seater". Callers use it to route such input to the
// vehicle model field instead of quantity.
func LooksLikeSeatDescriptor(value string) bool {
	return seatDescriptorRe.MatchString(value)
}

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// ParseActivity interprets a free-form activity value. A bare "desert safari"
// is accepted with the shared/private mode left open.
func ParseActivity(value string) (models.Activity, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.ReplaceAll(v, "_", " ")
	switch {
	case v == "":
		return "", NewValidationError(KindInvalidValue, models.FieldActivity, "activity is empty")
	case strings.Contains(v, "buggy") || strings.Contains(v, "buggies"):
		return models.ActivityBuggy, nil
	case strings.Contains(v, "quad") || strings.Contains(v, "atv"):
		return models.ActivityQuad, nil
	case strings.Contains(v, "safari"):
		switch {
		case strings.Contains(v, "shared") || strings.Contains(v, "group") || strings.Contains(v, "join"):
			return models.ActivitySafariShared, nil
		case strings.Contains(v, "private") || strings.Contains(v, "vip") || strings.Contains(v, "exclusive"):
			return models.ActivitySafariPrivate, nil
		}
		return models.ActivityDesertSafari, nil
	}
	return "", NewValidationError(KindInvalidValue, models.FieldActivity,
		fmt.Sprintf("unknown activity %q; offered activities are buggy, quad and desert safari", value))
}

// ParseSafariMode resolves the shared/private choice for a safari draft and
// returns the refined activity value.
func ParseSafariMode(current models.Activity, value string) (models.Activity, error) {
	if !current.IsSafari() {
		return "", NewValidationError(KindInvalidValue, models.FieldSafariMode,
			"safari mode only applies to desert safaris")
	}
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case strings.Contains(v, "shared") || strings.Contains(v, "group") || strings.Contains(v, "join"):
		return models.ActivitySafariShared, nil
	case strings.Contains(v, "private") || strings.Contains(v, "vip") || strings.Contains(v, "exclusive"):
		return models.ActivitySafariPrivate, nil
	}
	return "", NewValidationError(KindInvalidValue, models.FieldSafariMode,
		fmt.Sprintf("safari mode %q not recognized; it is either shared or private", value))
}

// NormalizeVehicleModel maps a free-form model value onto the activity's
// allowed set.
func NormalizeVehicleModel(activity models.Activity, value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch activity {
	case models.ActivityBuggy:
		if m := seatDescriptorRe.FindStringSubmatch(value); m != nil {
			n, ok := numberWords[strings.ToLower(m[1])]
			if !ok {
				n, _ = strconv.Atoi(m[1])
			}
			switch n {
			case 2:
				return "2-seater", nil
			case 4:
				return "4-seater", nil
			}
			return "", NewValidationError(KindInvalidValue, models.FieldVehicleModel,
				fmt.Sprintf("buggies come as 2-seater or 4-seater, not %d-seater", n))
		}
		return "", NewValidationError(KindInvalidValue, models.FieldVehicleModel,
			fmt.Sprintf("unknown buggy model %q; choose 2-seater or 4-seater", value))
	case models.ActivityQuad:
		if LooksLikeSeatDescriptor(value) {
			return "", NewValidationError(KindInvalidValue, models.FieldVehicleModel,
				"seater options apply to buggies only; quads are picked by model")
		}
		switch {
		case strings.Contains(v, "cobra") || strings.Contains(v, "aon"):
			return "Aon Cobra 400cc", nil
		case strings.Contains(v, "polaris") || strings.Contains(v, "sportsman"):
			return "Polaris Sportsman 570cc", nil
		case strings.Contains(v, "raptor") || strings.Contains(v, "yamaha"):
			return "Yamaha Raptor 700cc", nil
		}
		return "", NewValidationError(KindInvalidValue, models.FieldVehicleModel,
			fmt.Sprintf("unknown quad model %q; choose Aon Cobra 400cc, Polaris Sportsman 570cc or Yamaha Raptor 700cc", value))
	case "":
		return "", NewValidationError(KindIncomplete, models.FieldVehicleModel,
			"pick an activity before choosing a vehicle model")
	}
	return "", NewValidationError(KindInvalidValue, models.FieldVehicleModel,
		"desert safaris have no vehicle model; only shared or private mode")
}

// ParseQuantity validates a quantity value for the activity. Seat descriptors
// are rejected so they can be rerouted to the vehicle model field.
func ParseQuantity(activity models.Activity, value string) (int, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if LooksLikeSeatDescriptor(v) {
		return 0, &ValidationError{
			Kind:    KindSeatConfusion,
			Field:   models.FieldQuantity,
			Message: fmt.Sprintf("%q names a buggy model, not a quantity; quantity counts %s", value, activity.UnitNoun()),
		}
	}
	n, ok := numberWords[v]
	if !ok {
		var err error
		n, err = strconv.Atoi(v)
		if err != nil {
			return 0, NewValidationError(KindInvalidValue, models.FieldQuantity,
				fmt.Sprintf("quantity %q is not a whole number", value))
		}
	}
	if n < 1 {
		return 0, NewValidationError(KindOutOfRange, models.FieldQuantity, "quantity must be at least 1")
	}
	if limit := QuantityCap(activity); limit > 0 && n > limit {
		return 0, NewValidationError(KindOutOfRange, models.FieldQuantity,
			fmt.Sprintf("at most %d %s per safari booking", limit, activity.UnitNoun()))
	}
	return n, nil
}

var durationRe = regexp.MustCompile(`(?i)^\s*(?:(\d+(?:\.5)?)\s*h(?:ours?|rs?)?)?\s*(?:(\d+)\s*m(?:in(?:utes?)?)?)?\s*$`)

// ParseDuration reads values like "2h", "2 hours", "90m" or "1h30m" into
// minutes. Durations run in half-hour steps.
func ParseDuration(value string) (int, error) {
	m := durationRe.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil || (m[1] == "" && m[2] == "") {
		return 0, NewValidationError(KindInvalidValue, models.FieldDuration,
			fmt.Sprintf("duration %q not understood; say something like 2 hours or 90 minutes", value))
	}
	total := 0
	if m[1] != "" {
		h, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, NewValidationError(KindInvalidValue, models.FieldDuration,
				fmt.Sprintf("duration %q not understood", value))
		}
		total += int(h * 60)
	}
	if m[2] != "" {
		mins, err := strconv.Atoi(m[2])
		if err != nil {
			return 0, NewValidationError(KindInvalidValue, models.FieldDuration,
				fmt.Sprintf("duration %q not understood", value))
		}
		total += mins
	}
	if total < 30 || total%30 != 0 {
		return 0, NewValidationError(KindInvalidValue, models.FieldDuration,
			"tours run in half-hour steps, 30 minutes minimum")
	}
	if total > maxDurationMin {
		return 0, NewValidationError(KindOutOfRange, models.FieldDuration,
			fmt.Sprintf("the longest tour window is %d hours", maxDurationMin/60))
	}
	return total, nil
}

// ParseDateTime reads an absolute tour start. Relative expressions are
// resolved by the caller before this point; accepted forms are RFC3339 or
// "2006-01-02 15:04" interpreted as Dubai local time.
func ParseDateTime(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.In(dubaiTZ), nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", v, dubaiTZ); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", v, dubaiTZ); err == nil {
		return t, nil
	}
	return time.Time{}, NewValidationError(KindInvalidValue, models.FieldDateTime,
		fmt.Sprintf("date/time %q not understood", value))
}

// CheckOperatingHours rejects starts outside the 09:00–19:00 Dubai window.
// durationMin may be 0 when the duration is not known yet; a tour ending
// exactly at close is valid.
func CheckOperatingHours(start time.Time, durationMin int) error {
	local := start.In(dubaiTZ)
	startMin := local.Hour()*60 + local.Minute()
	if startMin < openMinute {
		return &ValidationError{
			Kind:    KindHours,
			Field:   models.FieldDateTime,
			Message: "tours start no earlier than 9:00 AM Dubai time",
			Bound:   "09:00",
		}
	}
	if startMin >= closeMinute {
		return &ValidationError{
			Kind:    KindHours,
			Field:   models.FieldDateTime,
			Message: "tours must finish by 7:00 PM Dubai time",
			Bound:   "19:00",
		}
	}
	if durationMin > 0 && startMin+durationMin > closeMinute {
		return &ValidationError{
			Kind:    KindHours,
			Field:   models.FieldDateTime,
			Message: "this start time would run past 7:00 PM Dubai time; an earlier start is needed",
			Bound:   "19:00",
		}
	}
	return nil
}

// ParsePickup reads a yes/no pickup answer.
func ParsePickup(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "true", "1", "pickup", "with pickup":
		return true, nil
	case "no", "n", "false", "0", "none", "no pickup", "without pickup":
		return false, nil
	}
	return false, NewValidationError(KindInvalidValue, models.FieldPickup,
		fmt.Sprintf("pickup answer %q not understood; yes or no", value))
}

// ParsePaymentMethod reads one of the accepted payment methods.
func ParsePaymentMethod(value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case v == models.PaymentCash:
		return models.PaymentCash, nil
	case v == models.PaymentCard || strings.Contains(v, "card") || v == "visa" || v == "mastercard":
		return models.PaymentCard, nil
	case strings.Contains(v, "crypto") || v == "btc" || v == "eth" || v == "bitcoin" || v == "ethereum":
		return models.PaymentCrypto, nil
	}
	return "", NewValidationError(KindInvalidValue, models.FieldPaymentMethod,
		fmt.Sprintf("payment method %q not accepted; cash, card or crypto", value))
}

// ParseCustomerName validates the name the booking is held under.
func ParseCustomerName(value string) (string, error) {
	name := strings.TrimSpace(value)
	if name == "" {
		return "", NewValidationError(KindInvalidValue, models.FieldCustomerName, "customer name is empty")
	}
	if len(name) > 80 {
		return "", NewValidationError(KindInvalidValue, models.FieldCustomerName, "customer name is too long")
	}
	return name, nil
}

// NextMissingField returns the single next field to ask for, in the fixed
// priority order: activity, model/mode, quantity, duration, date/time,
// pickup, payment method, customer name. ok is false when the draft is
// complete.
func NextMissingField(draft *models.BookingDraft) (models.Field, bool) {
	if draft.Activity == "" {
		return models.FieldActivity, true
	}
	if draft.Activity == models.ActivityDesertSafari {
		return models.FieldSafariMode, true
	}
	if draft.Activity.NeedsVehicleModel() && draft.VehicleModel == "" {
		return models.FieldVehicleModel, true
	}
	if draft.Quantity == 0 {
		return models.FieldQuantity, true
	}
	if draft.DurationMin == 0 {
		return models.FieldDuration, true
	}
	if draft.Start.IsZero() {
		return models.FieldDateTime, true
	}
	if draft.Pickup == nil {
		return models.FieldPickup, true
	}
	if draft.PaymentMethod == "" {
		return models.FieldPaymentMethod, true
	}
	if draft.CustomerName == "" {
		return models.FieldCustomerName, true
	}
	return "", false
}
