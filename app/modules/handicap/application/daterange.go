package handicapservice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/en"
)

var (
	relativeSpanPattern = regexp.MustCompile(`^(?:last|past)\s+(\d+)\s+(day|week|month|year)s?$`)
	agoSpanPattern      = regexp.MustCompile(`^(\d+)\s+(day|week|month|year)s?\s+ago$`)
	calendarPattern     = regexp.MustCompile(`^(this|last)\s+(week|month|year)$`)
)

// DateRange is an inclusive time window. A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// ParseDateRange turns a phrase such as "last 30 days", "this month", "last year" or
// anything the when parser understands ("last friday", "2 weeks ago") into a range ending now.
func ParseDateRange(text string, now time.Time) (DateRange, error) {
	text = strings.ToLower(strings.Join(strings.Fields(text), " "))
	if text == "" || text == "all" || text == "all time" {
		return DateRange{}, nil
	}

	if text == "today" {
		return DateRange{From: startOfDay(now), To: now}, nil
	}
	if m := relativeSpanPattern.FindStringSubmatch(text); m != nil {
		return spanBack(m[1], m[2], now)
	}
	if m := agoSpanPattern.FindStringSubmatch(text); m != nil {
		return spanBack(m[1], m[2], now)
	}
	if m := calendarPattern.FindStringSubmatch(text); m != nil {
		start := startOfPeriod(m[2], now)
		if m[1] == "this" {
			return DateRange{From: start, To: now}, nil
		}
		prev := shiftPeriod(m[2], start, -1)
		return DateRange{From: prev, To: start.Add(-time.Nanosecond)}, nil
	}

	w := when.New(nil)
	w.Add(en.All...)

	r, err := w.Parse(text, now)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
	}
	if r == nil {
		return DateRange{}, fmt.Errorf("%w: could not understand %q", ErrInvalidDateRange, text)
	}
	from := startOfDay(r.Time)
	if from.After(now) {
		return DateRange{}, fmt.Errorf("%w: %q is in the future", ErrInvalidDateRange, text)
	}
	return DateRange{From: from, To: now}, nil
}

func spanBack(count, unit string, now time.Time) (DateRange, error) {
	n, err := strconv.Atoi(count)
	if err != nil || n <= 0 {
		return DateRange{}, fmt.Errorf("%w: invalid count %q", ErrInvalidDateRange, count)
	}
	return DateRange{From: shiftPeriod(unit, now, -n), To: now}, nil
}

func shiftPeriod(unit string, t time.Time, n int) time.Time {
	switch unit {
	case "day":
		return t.AddDate(0, 0, n)
	case "week":
		return t.AddDate(0, 0, 7*n)
	case "month":
		return t.AddDate(0, n, 0)
	default:
		return t.AddDate(n, 0, 0)
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// startOfPeriod returns the start of the calendar week (Monday), month or year containing t.
func startOfPeriod(unit string, t time.Time) time.Time {
	day := startOfDay(t)
	switch unit {
	case "week":
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case "month":
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	}
}
