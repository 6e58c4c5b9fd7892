package ingest

import (
	"time"

	"lanyard/models"
)

// BuildActor projects an attendee into its public directory entry. The
// caller must have checked matchmaking consent; an Actor must never be
// materialized without it.
func BuildActor(a *models.Attendee) *models.Actor {
	actor := &models.Actor{
		ID:           a.ID,
		ActorType:    models.ActorTypeAttendee,
		Categories:   DeriveCategories(a.Role, a.Interests),
		Platforms:    a.Platforms,
		Markets:      a.Markets,
		Capabilities: a.Capabilities,
		Needs:        a.Needs,
		Tags:         a.Tags,
		Role:         a.Role,
		UpdatedAt:    time.Now().UTC(),
	}
	if a.Consent.ShowPublicCard {
		actor.DisplayName = a.FullName
	} else {
		actor.DisplayName = redactedName(a.ID)
		actor.PiiRef = a.ID
	}
	return actor
}

// redactedName derives a stable placeholder from the record id so
// hidden cards stay distinguishable without leaking the real name.
func redactedName(id string) string {
	tail := id
	if len(tail) > 6 {
		tail = tail[len(tail)-6:]
	}
	return "Attendee " + tail
}
