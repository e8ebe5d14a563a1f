package utils

import (
	"time"
)

// Recurrence kinds accepted by ExpandSchedule.
const (
	RecurrenceOneTime  = "one-time"
	RecurrenceDaily    = "daily"
	RecurrenceWeekly   = "weekly"
	RecurrenceMonthly  = "monthly"
	RecurrenceWeekends = "weekends"
)

// ExpandSchedule materializes a recurring schedule into the concrete
// occurrence timestamps from the departure date through endDate inclusive.
// Each emitted timestamp keeps the departure's time of day. An end date
// before the departure yields an empty sequence.
//
//   - daily:    every calendar day in range
//   - weekly:   days whose weekday is in daysOfWeek
//   - monthly:  the departure's day-of-month each month; months without
//     that day (e.g. the 31st in February) are skipped, not clamped
//   - weekends: every Saturday and Sunday in range
//   - one-time: the departure itself, when it falls inside the range
func ExpandSchedule(departure time.Time, kind string, daysOfWeek []time.Weekday, endDate time.Time) []time.Time {
	dates := []time.Time{}

	end := EndOfDay(endDate.In(departure.Location()))
	if end.Before(departure) {
		return dates
	}

	if kind == "" || kind == RecurrenceOneTime {
		return append(dates, departure)
	}

	weekdays := make(map[time.Weekday]bool, len(daysOfWeek))
	for _, day := range daysOfWeek {
		weekdays[day] = true
	}

	for current := departure; !current.After(end); current = current.AddDate(0, 0, 1) {
		switch kind {
		case RecurrenceDaily:
			dates = append(dates, current)
		case RecurrenceWeekly:
			if weekdays[current.Weekday()] {
				dates = append(dates, current)
			}
		case RecurrenceWeekends:
			if current.Weekday() == time.Saturday || current.Weekday() == time.Sunday {
				dates = append(dates, current)
			}
		case RecurrenceMonthly:
			if current.Day() == departure.Day() {
				dates = append(dates, current)
			}
		}
	}

	return dates
}
