package meetings

import (
	"context"
	"testing"

	"lanyard/match"
	"lanyard/models"
)

const day = "2025-09-15"

func TestAutoPackSumsToTotal(t *testing.T) {
	scores := match.StaticScores{}
	s, attendees, _ := newTestScheduler(scores)
	for _, id := range []string{"att_a", "att_b", "att_c", "att_d"} {
		seedParty(t, attendees, id, nil)
	}

	mustRequest(t, s, "att_a", "att_b", slots)
	mustRequest(t, s, "att_c", "att_d", slots)

	result, err := s.AutoPackMeetings(context.Background(), day)
	if err != nil {
		t.Fatal(err)
	}
	if result.Scheduled+result.Conflicts != result.TotalRequests {
		t.Fatalf("scheduled+conflicts != total: %+v", result)
	}
	if result.TotalRequests != 2 || result.Scheduled != 2 {
		t.Fatalf("disjoint pairs should both schedule: %+v", result)
	}
}

func TestAutoPackHigherScoreWinsContestedSlot(t *testing.T) {
	contested := []string{"2025-09-15T10:00/30m"}
	scores := match.StaticScores{
		match.PairKey("att_a", "att_b"): 0.2,
		match.PairKey("att_a", "att_c"): 0.9,
	}
	s, attendees, meetingStore := newTestScheduler(scores)
	for _, id := range []string{"att_a", "att_b", "att_c"} {
		seedParty(t, attendees, id, nil)
	}

	low := mustRequest(t, s, "att_a", "att_b", contested)
	high := mustRequest(t, s, "att_a", "att_c", contested)

	result, err := s.AutoPackMeetings(context.Background(), day)
	if err != nil {
		t.Fatal(err)
	}
	if result.Scheduled != 1 || result.Conflicts != 1 || result.TotalRequests != 2 {
		t.Fatalf("got %+v", result)
	}

	winner, _ := meetingStore.Get(context.Background(), high.ID)
	loser, _ := meetingStore.Get(context.Background(), low.ID)
	if winner.Status != models.MeetingScheduled || winner.ChosenSlot != contested[0] {
		t.Fatalf("high-score meeting not scheduled: %+v", winner)
	}
	if loser.Status != models.MeetingRequested {
		t.Fatalf("conflicting meeting must stay requested: %+v", loser)
	}
}

func TestAutoPackFallsThroughToLaterSlot(t *testing.T) {
	scores := match.StaticScores{
		match.PairKey("att_a", "att_b"): 0.9,
		match.PairKey("att_a", "att_c"): 0.2,
	}
	s, attendees, meetingStore := newTestScheduler(scores)
	for _, id := range []string{"att_a", "att_b", "att_c"} {
		seedParty(t, attendees, id, nil)
	}

	mustRequest(t, s, "att_a", "att_b", []string{slots[0]})
	second := mustRequest(t, s, "att_a", "att_c", []string{slots[0], slots[1]})

	result, err := s.AutoPackMeetings(context.Background(), day)
	if err != nil {
		t.Fatal(err)
	}
	if result.Scheduled != 2 {
		t.Fatalf("second meeting should take its later slot: %+v", result)
	}
	m, _ := meetingStore.Get(context.Background(), second.ID)
	if m.ChosenSlot != slots[1] {
		t.Fatalf("expected fallback slot %s, got %s", slots[1], m.ChosenSlot)
	}
}

func TestAutoPackNoActorDoubleBookedOnDay(t *testing.T) {
	scores := match.StaticScores{}
	s, attendees, meetingStore := newTestScheduler(scores)
	for _, id := range []string{"att_a", "att_b", "att_c", "att_d"} {
		seedParty(t, attendees, id, nil)
	}
	mustRequest(t, s, "att_a", "att_b", slots)
	mustRequest(t, s, "att_a", "att_c", slots)
	mustRequest(t, s, "att_a", "att_d", slots)

	if _, err := s.AutoPackMeetings(context.Background(), day); err != nil {
		t.Fatal(err)
	}

	scheduled, _ := meetingStore.FindByStatus(context.Background(), models.MeetingScheduled)
	taken := map[string]map[string]bool{}
	for _, m := range scheduled {
		for _, actor := range []string{m.FromActorID, m.ToActorID} {
			if taken[actor] == nil {
				taken[actor] = map[string]bool{}
			}
			if taken[actor][m.ChosenSlot] {
				t.Fatalf("actor %s double-booked at %s", actor, m.ChosenSlot)
			}
			taken[actor][m.ChosenSlot] = true
		}
	}
}

func TestAutoPackRespectsPriorScheduledMeetings(t *testing.T) {
	scores := match.StaticScores{}
	s, attendees, meetingStore := newTestScheduler(scores)
	for _, id := range []string{"att_a", "att_b", "att_c"} {
		seedParty(t, attendees, id, nil)
	}

	first := mustRequest(t, s, "att_a", "att_b", []string{slots[0]})
	if _, err := s.AcceptMeeting(context.Background(), first.ID, slots[0]); err != nil {
		t.Fatal(err)
	}

	// a second pack run must see slot 0 as taken for att_a
	second := mustRequest(t, s, "att_a", "att_c", []string{slots[0], slots[1]})
	if _, err := s.AutoPackMeetings(context.Background(), day); err != nil {
		t.Fatal(err)
	}
	m, _ := meetingStore.Get(context.Background(), second.ID)
	if m.ChosenSlot != slots[1] {
		t.Fatalf("occupancy not seeded from scheduled meetings: %+v", m)
	}
}

func TestAutoPackIgnoresOtherDays(t *testing.T) {
	scores := match.StaticScores{}
	s, attendees, _ := newTestScheduler(scores)
	seedParty(t, attendees, "att_a", nil)
	seedParty(t, attendees, "att_b", nil)

	mustRequest(t, s, "att_a", "att_b", []string{"2025-09-16T10:00/30m"})

	result, err := s.AutoPackMeetings(context.Background(), day)
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalRequests != 0 {
		t.Fatalf("other-day meeting counted: %+v", result)
	}
}

func mustRequest(t *testing.T, s *Scheduler, from, to string, slots []string) *models.Meeting {
	t.Helper()
	m, err := s.RequestMeeting(context.Background(), from, to, slots, "")
	if err != nil {
		t.Fatal(err)
	}
	return m
}
