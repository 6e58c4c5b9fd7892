package meetings

import (
	"strings"
	"time"

	"lanyard/errs"
	"lanyard/models"
)

// Slot tokens look like "2025-09-15T10:00/30m": an ISO 8601 local
// datetime, a slash, and a duration with a minute suffix.

const slotTimeLayout = "2006-01-02T15:04"

// ParseSlot splits a slot token into its start time and duration.
func ParseSlot(slot string) (time.Time, time.Duration, error) {
	datePart, durPart, found := strings.Cut(slot, "/")
	if !found {
		return time.Time{}, 0, errs.Validation("slot", "missing duration: "+slot)
	}
	start, err := time.Parse(slotTimeLayout, datePart)
	if err != nil {
		return time.Time{}, 0, errs.Validation("slot", "bad datetime: "+slot)
	}
	dur, err := time.ParseDuration(durPart)
	if err != nil || dur <= 0 {
		return time.Time{}, 0, errs.Validation("slot", "bad duration: "+slot)
	}
	return start, dur, nil
}

// SlotDay returns the calendar day of a slot token ("2025-09-15").
func SlotDay(slot string) string {
	if idx := strings.Index(slot, "T"); idx > 0 {
		return slot[:idx]
	}
	return slot
}

// slotAllowed checks a slot token against declared availability. No
// declared availability at all means fully available; once any is
// declared, the slot's day must list the exact token.
func slotAllowed(avail []models.AvailabilitySlot, slot string) bool {
	if len(avail) == 0 {
		return true
	}
	day := SlotDay(slot)
	for _, a := range avail {
		if a.Date != day {
			continue
		}
		for _, s := range a.Slots {
			if s == slot {
				return true
			}
		}
	}
	return false
}

// IntersectAvailability keeps the requested slots both sides can make,
// preserving request order.
func IntersectAvailability(slots []string, availA, availB []models.AvailabilitySlot) []string {
	var out []string
	for _, slot := range slots {
		if slotAllowed(availA, slot) && slotAllowed(availB, slot) {
			out = append(out, slot)
		}
	}
	return out
}
