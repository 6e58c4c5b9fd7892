package meetings

import (
	"fmt"
	"strings"
	"time"

	"lanyard/models"
)

const icsTimeLayout = "20060102T150405"

// ExportToICS renders scheduled meetings as one calendar document.
// displayNames maps actor ids to names; unknown ids fall back to the
// raw id. Pure: no store or network access.
func ExportToICS(meetings []models.Meeting, displayNames map[string]string) (string, error) {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//lanyard//meeting-scheduler//EN\r\n")
	b.WriteString("CALSCALE:GREGORIAN\r\n")
	b.WriteString("METHOD:PUBLISH\r\n")

	stamp := time.Now().UTC().Format(icsTimeLayout) + "Z"
	for _, m := range meetings {
		if m.Status != models.MeetingScheduled {
			continue
		}
		start, dur, err := ParseSlot(m.ChosenSlot)
		if err != nil {
			return "", err
		}
		end := start.Add(dur)

		fromName := nameFor(displayNames, m.FromActorID)
		toName := nameFor(displayNames, m.ToActorID)

		b.WriteString("BEGIN:VEVENT\r\n")
		fmt.Fprintf(&b, "UID:%s@lanyard\r\n", m.ID)
		fmt.Fprintf(&b, "DTSTAMP:%s\r\n", stamp)
		// slot times are event-local, so no UTC marker
		fmt.Fprintf(&b, "DTSTART:%s\r\n", start.Format(icsTimeLayout))
		fmt.Fprintf(&b, "DTEND:%s\r\n", end.Format(icsTimeLayout))
		fmt.Fprintf(&b, "SUMMARY:%s\r\n", escapeICS("Meeting: "+fromName+" / "+toName))
		if m.Notes != "" {
			fmt.Fprintf(&b, "DESCRIPTION:%s\r\n", escapeICS(m.Notes))
		}
		b.WriteString("STATUS:CONFIRMED\r\n")
		b.WriteString("END:VEVENT\r\n")
	}

	b.WriteString("END:VCALENDAR\r\n")
	return b.String(), nil
}

func nameFor(names map[string]string, actorID string) string {
	if n, ok := names[actorID]; ok && n != "" {
		return n
	}
	return actorID
}

func escapeICS(s string) string {
	r := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n")
	return r.Replace(s)
}
