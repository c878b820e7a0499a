package form

import (
	"fmt"
	"strings"

	"github.com/smarttransit/schedule-admin/internal/models"
)

// IsWeekday reports whether day is one of Mon..Sun
func IsWeekday(day string) bool {
	for _, d := range models.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// HasDay reports whether days contains day
func HasDay(days []string, day string) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

// FormatDays renders a day set for display: "-" when empty, "Daily" for all seven
func FormatDays(days []string) string {
	if len(days) == 0 {
		return "-"
	}
	if len(days) == len(models.Weekdays) {
		return "Daily"
	}
	return strings.Join(days, ", ")
}

// toggle returns a new slice with day removed if present or appended if absent
func toggle(days []string, day string) []string {
	if HasDay(days, day) {
		out := make([]string, 0, len(days)-1)
		for _, d := range days {
			if d != day {
				out = append(out, d)
			}
		}
		return out
	}

	out := make([]string, len(days), len(days)+1)
	copy(out, days)
	return append(out, day)
}

// normalizeDays validates tokens and drops duplicates, keeping first occurrence order
func normalizeDays(days []string) ([]string, error) {
	out := make([]string, 0, len(days))
	for _, day := range days {
		if !IsWeekday(day) {
			return nil, fmt.Errorf("%q: %w", day, ErrUnknownDay)
		}
		if !HasDay(out, day) {
			out = append(out, day)
		}
	}
	return out, nil
}
