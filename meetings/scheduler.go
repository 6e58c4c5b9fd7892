// Package meetings owns the meeting lifecycle (request, accept,
// decline), the auto-pack batch scheduler, and the ICS export.
package meetings

import (
	"context"
	"time"

	"lanyard/db"
	"lanyard/errs"
	"lanyard/match"
	"lanyard/models"
	"lanyard/notify"

	"github.com/google/uuid"
)

type Scheduler struct {
	Meetings  db.MeetingStore
	Attendees db.AttendeeStore
	Actors    db.ActorStore
	Scores    match.Provider
	Notifier  notify.Sender
}

func NewScheduler(meetings db.MeetingStore, attendees db.AttendeeStore, actors db.ActorStore, scores match.Provider, notifier notify.Sender) *Scheduler {
	if notifier == nil {
		notifier = notify.LogSender{}
	}
	return &Scheduler{Meetings: meetings, Attendees: attendees, Actors: actors, Scores: scores, Notifier: notifier}
}

// resolveParty checks the actor exists, enforces matchmaking consent
// for attendee-backed actors, and returns the declared availability
// (nil for non-attendee kinds, which are always fully available).
func (s *Scheduler) resolveParty(ctx context.Context, actorID string) ([]models.AvailabilitySlot, error) {
	attendee, err := s.Attendees.Get(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if attendee != nil {
		if !attendee.Consent.Matchmaking {
			return nil, &errs.ConsentError{ActorID: actorID}
		}
		return attendee.Preferences.Availability, nil
	}
	actor, err := s.Actors.Get(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, errs.NotFound("actor", actorID)
	}
	return nil, nil
}

// RequestMeeting opens a meeting negotiation. At most one active
// meeting may exist per unordered actor pair.
func (s *Scheduler) RequestMeeting(ctx context.Context, fromActorID, toActorID string, slots []string, message string) (*models.Meeting, error) {
	availFrom, err := s.resolveParty(ctx, fromActorID)
	if err != nil {
		return nil, err
	}
	availTo, err := s.resolveParty(ctx, toActorID)
	if err != nil {
		return nil, err
	}

	if active, err := s.Meetings.FindActiveForPair(ctx, fromActorID, toActorID); err != nil {
		return nil, err
	} else if active != nil {
		return nil, &errs.DuplicateMeetingError{MeetingID: active.ID}
	}

	overlapping := IntersectAvailability(slots, availFrom, availTo)
	if len(overlapping) == 0 {
		return nil, &errs.NoAvailabilityError{}
	}

	now := time.Now().UTC()
	m := &models.Meeting{
		ID:             "meet_" + uuid.NewString(),
		FromActorID:    fromActorID,
		ToActorID:      toActorID,
		RequestedSlots: overlapping,
		Status:         models.MeetingRequested,
		Notes:          message,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Meetings.Put(ctx, m); err != nil {
		return nil, err
	}
	s.Notifier.Notify(m)
	return m, nil
}

// AcceptMeeting moves requested -> scheduled with the chosen slot. The
// slot must be one of the requested set. Scheduling a meeting is what
// marks the slot occupied for both actors: later auto-pack runs seed
// their occupancy from scheduled meetings.
func (s *Scheduler) AcceptMeeting(ctx context.Context, meetingID, chosenSlot string) (*models.Meeting, error) {
	m, err := s.Meetings.Get(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errs.NotFound("meeting", meetingID)
	}
	if m.Status != models.MeetingRequested {
		return nil, &errs.InvalidStateTransitionError{MeetingID: meetingID, Msg: "cannot accept from status " + m.Status}
	}
	found := false
	for _, slot := range m.RequestedSlots {
		if slot == chosenSlot {
			found = true
			break
		}
	}
	if !found {
		return nil, &errs.InvalidStateTransitionError{MeetingID: meetingID, Msg: "slot not among requested: " + chosenSlot}
	}

	m.Status = models.MeetingScheduled
	m.ChosenSlot = chosenSlot
	m.UpdatedAt = time.Now().UTC()
	if err := s.Meetings.Put(ctx, m); err != nil {
		return nil, err
	}
	s.Notifier.Notify(m)
	return m, nil
}

// DeclineMeeting moves requested -> declined and records the reason.
func (s *Scheduler) DeclineMeeting(ctx context.Context, meetingID, reason string) (*models.Meeting, error) {
	m, err := s.Meetings.Get(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errs.NotFound("meeting", meetingID)
	}
	if m.Status != models.MeetingRequested {
		return nil, &errs.InvalidStateTransitionError{MeetingID: meetingID, Msg: "cannot decline from status " + m.Status}
	}

	m.Status = models.MeetingDeclined
	if reason != "" {
		if m.Notes != "" {
			m.Notes += "\n"
		}
		m.Notes += "declined: " + reason
	}
	m.UpdatedAt = time.Now().UTC()
	if err := s.Meetings.Put(ctx, m); err != nil {
		return nil, err
	}
	s.Notifier.Notify(m)
	return m, nil
}

// GetMeetingsForActor lists an actor's meetings, optionally filtered by
// status.
func (s *Scheduler) GetMeetingsForActor(ctx context.Context, actorID, status string) ([]models.Meeting, error) {
	return s.Meetings.FindForActor(ctx, actorID, status)
}
