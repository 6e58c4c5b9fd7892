// Package notify is the fire-and-forget meeting notification seam.
// Actual delivery (email, push) lives outside this service.
package notify

import (
	"log"

	"lanyard/models"
)

type Sender interface {
	Notify(m *models.Meeting)
}

// LogSender just records the notification; the default wiring until a
// delivery backend is attached.
type LogSender struct{}

func (LogSender) Notify(m *models.Meeting) {
	log.Printf("[notify] meeting %s (%s -> %s) is %s", m.ID, m.FromActorID, m.ToActorID, m.Status)
}
