package meetings

import (
	"context"
	"errors"
	"testing"

	"lanyard/db"
	"lanyard/errs"
	"lanyard/match"
	"lanyard/models"
	"lanyard/notify"
)

func newTestScheduler(scores match.StaticScores) (*Scheduler, *db.MemAttendees, *db.MemMeetings) {
	attendees := db.NewMemAttendees()
	meetingStore := db.NewMemMeetings()
	s := NewScheduler(meetingStore, attendees, db.NewMemActors(), scores, notify.LogSender{})
	return s, attendees, meetingStore
}

func seedParty(t *testing.T, store *db.MemAttendees, id string, avail []models.AvailabilitySlot) {
	t.Helper()
	err := store.Put(context.Background(), &models.Attendee{
		ID:       id,
		Email:    id + "@example.com",
		FullName: "Party " + id,
		Consent:  models.Consent{Matchmaking: true},
		Preferences: models.Preferences{
			Availability: avail,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
}

var slots = []string{
	"2025-09-15T10:00/30m",
	"2025-09-15T11:00/30m",
	"2025-09-15T14:00/30m",
}

func TestRequestMeetingNoAvailabilityDeclaredKeepsAllSlots(t *testing.T) {
	s, attendees, _ := newTestScheduler(nil)
	seedParty(t, attendees, "att_a", nil)
	seedParty(t, attendees, "att_b", nil)

	m, err := s.RequestMeeting(context.Background(), "att_a", "att_b", slots, "hi")
	if err != nil {
		t.Fatal(err)
	}
	if len(m.RequestedSlots) != len(slots) {
		t.Fatalf("permissive default violated: %v", m.RequestedSlots)
	}
	if m.Status != models.MeetingRequested {
		t.Fatalf("status %q", m.Status)
	}
}

func TestRequestMeetingIntersectsAvailability(t *testing.T) {
	s, attendees, _ := newTestScheduler(nil)
	seedParty(t, attendees, "att_a", []models.AvailabilitySlot{
		{Date: "2025-09-15", Slots: []string{slots[0], slots[1]}},
	})
	seedParty(t, attendees, "att_b", []models.AvailabilitySlot{
		{Date: "2025-09-15", Slots: []string{slots[1], slots[2]}},
	})

	m, err := s.RequestMeeting(context.Background(), "att_a", "att_b", slots, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(m.RequestedSlots) != 1 || m.RequestedSlots[0] != slots[1] {
		t.Fatalf("expected only the shared slot, got %v", m.RequestedSlots)
	}
}

func TestRequestMeetingEmptyIntersectionFails(t *testing.T) {
	s, attendees, _ := newTestScheduler(nil)
	seedParty(t, attendees, "att_a", []models.AvailabilitySlot{
		{Date: "2025-09-15", Slots: []string{slots[0]}},
	})
	seedParty(t, attendees, "att_b", []models.AvailabilitySlot{
		{Date: "2025-09-15", Slots: []string{slots[2]}},
	})

	_, err := s.RequestMeeting(context.Background(), "att_a", "att_b", slots, "")
	var na *errs.NoAvailabilityError
	if !errors.As(err, &na) {
		t.Fatalf("expected NoAvailabilityError, got %v", err)
	}
}

func TestRequestMeetingDuplicatePairFailsBothDirections(t *testing.T) {
	s, attendees, _ := newTestScheduler(nil)
	seedParty(t, attendees, "att_a", nil)
	seedParty(t, attendees, "att_b", nil)

	if _, err := s.RequestMeeting(context.Background(), "att_a", "att_b", slots, ""); err != nil {
		t.Fatal(err)
	}

	var dup *errs.DuplicateMeetingError
	if _, err := s.RequestMeeting(context.Background(), "att_a", "att_b", slots, ""); !errors.As(err, &dup) {
		t.Fatalf("same direction: expected DuplicateMeetingError, got %v", err)
	}
	if _, err := s.RequestMeeting(context.Background(), "att_b", "att_a", slots, ""); !errors.As(err, &dup) {
		t.Fatalf("reverse direction: expected DuplicateMeetingError, got %v", err)
	}
}

func TestRequestMeetingConsentRequired(t *testing.T) {
	s, attendees, _ := newTestScheduler(nil)
	seedParty(t, attendees, "att_a", nil)
	if err := attendees.Put(context.Background(), &models.Attendee{
		ID: "att_b", Email: "b@example.com", FullName: "B",
	}); err != nil {
		t.Fatal(err)
	}

	_, err := s.RequestMeeting(context.Background(), "att_a", "att_b", slots, "")
	var ce *errs.ConsentError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConsentError, got %v", err)
	}
}

func TestAcceptMeetingLifecycle(t *testing.T) {
	s, attendees, _ := newTestScheduler(nil)
	seedParty(t, attendees, "att_a", nil)
	seedParty(t, attendees, "att_b", nil)

	m, err := s.RequestMeeting(context.Background(), "att_a", "att_b", slots, "")
	if err != nil {
		t.Fatal(err)
	}

	var ist *errs.InvalidStateTransitionError
	if _, err := s.AcceptMeeting(context.Background(), m.ID, "2025-09-16T09:00/30m"); !errors.As(err, &ist) {
		t.Fatalf("foreign slot accepted: %v", err)
	}

	accepted, err := s.AcceptMeeting(context.Background(), m.ID, slots[0])
	if err != nil {
		t.Fatal(err)
	}
	if accepted.Status != models.MeetingScheduled || accepted.ChosenSlot != slots[0] {
		t.Fatalf("bad accept result: %+v", accepted)
	}

	if _, err := s.AcceptMeeting(context.Background(), m.ID, slots[0]); !errors.As(err, &ist) {
		t.Fatalf("second accept must fail: %v", err)
	}
	if _, err := s.DeclineMeeting(context.Background(), m.ID, "late"); !errors.As(err, &ist) {
		t.Fatalf("decline after accept must fail: %v", err)
	}
}

func TestDeclineMeetingRecordsReason(t *testing.T) {
	s, attendees, meetingStore := newTestScheduler(nil)
	seedParty(t, attendees, "att_a", nil)
	seedParty(t, attendees, "att_b", nil)

	m, err := s.RequestMeeting(context.Background(), "att_a", "att_b", slots, "please?")
	if err != nil {
		t.Fatal(err)
	}
	declined, err := s.DeclineMeeting(context.Background(), m.ID, "schedule full")
	if err != nil {
		t.Fatal(err)
	}
	if declined.Status != models.MeetingDeclined {
		t.Fatalf("status %q", declined.Status)
	}

	stored, _ := meetingStore.Get(context.Background(), m.ID)
	if stored.Notes == "please?" {
		t.Fatalf("reason not appended: %q", stored.Notes)
	}

	// a declined meeting frees the pair for a new request
	if _, err := s.RequestMeeting(context.Background(), "att_b", "att_a", slots, ""); err != nil {
		t.Fatalf("pair should be free after decline: %v", err)
	}
}

func TestGetMeetingsForActorStatusFilter(t *testing.T) {
	s, attendees, _ := newTestScheduler(nil)
	seedParty(t, attendees, "att_a", nil)
	seedParty(t, attendees, "att_b", nil)
	seedParty(t, attendees, "att_c", nil)

	m1, err := s.RequestMeeting(context.Background(), "att_a", "att_b", slots, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.RequestMeeting(context.Background(), "att_a", "att_c", slots, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AcceptMeeting(context.Background(), m1.ID, slots[0]); err != nil {
		t.Fatal(err)
	}

	all, _ := s.GetMeetingsForActor(context.Background(), "att_a", "")
	if len(all) != 2 {
		t.Fatalf("want 2 meetings, got %d", len(all))
	}
	scheduled, _ := s.GetMeetingsForActor(context.Background(), "att_a", models.MeetingScheduled)
	if len(scheduled) != 1 || scheduled[0].ID != m1.ID {
		t.Fatalf("status filter broken: %+v", scheduled)
	}
}
