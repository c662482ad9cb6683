package services

import (
	"fmt"
	"log"
	"time"

	"github.com/teambition/rrule-go"

	"petpal/model"
)

const dateLayout = "2006-01-02"

// Open-ended series are capped so expansion always terminates and the
// calendar projection stays bounded.
const maxOpenEndedOccurrences = 50

var recurrenceRules = map[string]struct {
	freq     rrule.Frequency
	interval int
}{
	"daily":    {rrule.DAILY, 1},
	"weekly":   {rrule.WEEKLY, 1},
	"biweekly": {rrule.WEEKLY, 2},
	"monthly":  {rrule.MONTHLY, 1},
	"yearly":   {rrule.YEARLY, 1},
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsRecurring reports whether the event represents a series rather than a
// one-off entry.
func IsRecurring(ev model.Event) bool {
	return ev.Recurrence != "" && ev.Recurrence != "none"
}

// ExpandEvent turns an event's recurrence descriptor into the ascending list
// of concrete occurrence dates (YYYY-MM-DD), honoring the end date bound
// (inclusive), the open-ended occurrence cap, and the exception list.
//
// Expansion never fails: an event with an unparseable anchor date expands to
// nothing, so one malformed document cannot break projection of the rest.
func ExpandEvent(ev model.Event) []string {
	start, ok := parseDate(ev.Date)
	if !ok {
		log.Printf("recurrence: event %s has invalid date %q, skipping", ev.EventID, ev.Date)
		return nil
	}

	if !IsRecurring(ev) {
		return []string{ev.Date}
	}

	r, ok := recurrenceRules[ev.Recurrence]
	if !ok {
		log.Printf("recurrence: event %s has unknown recurrence %q, treating as one-off", ev.EventID, ev.Recurrence)
		return []string{ev.Date}
	}

	opt := rrule.ROption{
		Freq:     r.freq,
		Interval: r.interval,
		Dtstart:  start,
	}
	if until, ok := parseDate(ev.EndDate); ok {
		opt.Until = until
	} else {
		opt.Count = maxOpenEndedOccurrences
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		log.Printf("recurrence: event %s: building rule failed: %v", ev.EventID, err)
		return nil
	}

	excluded := make(map[string]bool, len(ev.Exceptions))
	for _, ex := range ev.Exceptions {
		excluded[ex] = true
	}

	var dates []string
	for _, occ := range rule.All() {
		d := occ.Format(dateLayout)
		if !excluded[d] {
			dates = append(dates, d)
		}
	}
	return dates
}

// FormatEventTime renders a wall-clock time in 12-hour notation,
// e.g. {0,0} -> "12:00 AM", {13,5} -> "1:05 PM".
func FormatEventTime(t model.EventTime) string {
	suffix := "AM"
	if t.Hours >= 12 {
		suffix = "PM"
	}
	h := t.Hours % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, t.Minutes, suffix)
}
