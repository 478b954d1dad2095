package assistant

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"jetset/services/booking"
)

// DubaiClock resolves times against the venue timezone.
type DubaiClock struct{}

func (DubaiClock) NowLocal() time.Time {
	return time.Now().In(booking.OperatingTZ())
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

var (
	inDaysRe = regexp.MustCompile(`in\s+(\d+)\s+days?`)
	clockRe  = regexp.MustCompile(`\b(\d{1,2})(?:[:.](\d{2}))?\s*(am|pm)?\b`)
)

// ResolveRelative turns expressions like "tomorrow at 4pm" or "friday 16:30"
// into an absolute venue-local time. Both a day reference and a time of day
// must be present; a missing piece is an error so the dialogue can ask for it.
func (DubaiClock) ResolveRelative(expression string, reference time.Time) (time.Time, error) {
	expr := strings.ToLower(strings.TrimSpace(expression))
	if expr == "" {
		return time.Time{}, fmt.Errorf("empty date expression")
	}
	ref := reference.In(booking.OperatingTZ())

	daysAhead := -1
	fromWeekday := false
	rest := expr
	switch {
	case strings.Contains(rest, "day after tomorrow"):
		daysAhead = 2
		rest = strings.ReplaceAll(rest, "day after tomorrow", " ")
	case strings.Contains(rest, "tomorrow"):
		daysAhead = 1
		rest = strings.ReplaceAll(rest, "tomorrow", " ")
	case strings.Contains(rest, "today"):
		daysAhead = 0
		rest = strings.ReplaceAll(rest, "today", " ")
	}
	if daysAhead < 0 {
		for name, wd := range weekdayNames {
			if strings.Contains(rest, name) {
				daysAhead = int((wd - ref.Weekday() + 7) % 7)
				fromWeekday = true
				if daysAhead == 0 && strings.Contains(rest, "next") {
					daysAhead = 7
				}
				rest = strings.ReplaceAll(rest, name, " ")
				break
			}
		}
	}
	if daysAhead < 0 {
		if m := inDaysRe.FindStringSubmatch(rest); m != nil {
			n, _ := strconv.Atoi(m[1])
			daysAhead = n
			rest = strings.Replace(rest, m[0], " ", 1)
		}
	}
	if daysAhead < 0 {
		return time.Time{}, fmt.Errorf("no day reference in %q", expression)
	}

	hour, minute := -1, 0
	if strings.Contains(rest, "noon") || strings.Contains(rest, "midday") {
		hour = 12
	} else if m := clockRe.FindStringSubmatch(rest); m != nil {
		hour, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		switch m[3] {
		case "pm":
			if hour < 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}
	}
	if hour < 0 {
		return time.Time{}, fmt.Errorf("no time of day in %q", expression)
	}
	if hour > 23 || minute > 59 {
		return time.Time{}, fmt.Errorf("unreadable time of day in %q", expression)
	}

	day := ref.AddDate(0, 0, daysAhead)
	resolved := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, booking.OperatingTZ())
	// A bare weekday naming today rolls to next week once the slot has passed.
	if fromWeekday && daysAhead == 0 && !resolved.After(ref) {
		resolved = resolved.AddDate(0, 0, 7)
	}
	return resolved, nil
}
