package meetings

import (
	"context"
	"log"
	"sort"

	"lanyard/models"
)

// AutoPackResult summarizes one packing run. Every candidate ends up
// either scheduled or a conflict.
type AutoPackResult struct {
	Scheduled     int `json:"scheduled"`
	Conflicts     int `json:"conflicts"`
	TotalRequests int `json:"totalRequests"`
}

// AutoPackMeetings greedily schedules the day's pending requests,
// highest match score first (ties keep arrival order). Single pass, not
// globally optimal: high-score pairs win slots even when a different
// assignment would schedule more meetings overall. Occupancy is local
// to one invocation, seeded from already scheduled meetings; callers
// must not run two packs for the same day concurrently.
func (s *Scheduler) AutoPackMeetings(ctx context.Context, day string) (*AutoPackResult, error) {
	requested, err := s.Meetings.FindByStatus(ctx, models.MeetingRequested)
	if err != nil {
		return nil, err
	}

	var candidates []models.Meeting
	for _, m := range requested {
		if len(daySlots(m.RequestedSlots, day)) > 0 {
			candidates = append(candidates, m)
		}
	}

	scores := make(map[string]float64, len(candidates))
	for _, m := range candidates {
		score, err := s.Scores.Score(ctx, m.FromActorID, m.ToActorID)
		if err != nil {
			// missing or unreadable score defaults to 0
			score = 0
		}
		scores[m.ID] = score
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return scores[candidates[i].ID] > scores[candidates[j].ID]
	})

	occupied, err := s.seedOccupancy(ctx, day)
	if err != nil {
		return nil, err
	}

	result := &AutoPackResult{TotalRequests: len(candidates)}
	for _, m := range candidates {
		slot := firstFreeSlot(daySlots(m.RequestedSlots, day), m.FromActorID, m.ToActorID, occupied)
		if slot == "" {
			result.Conflicts++
			continue
		}
		if _, err := s.AcceptMeeting(ctx, m.ID, slot); err != nil {
			log.Printf("[autopack] accept %s at %s failed: %v", m.ID, slot, err)
			result.Conflicts++
			continue
		}
		markOccupied(occupied, m.FromActorID, slot)
		markOccupied(occupied, m.ToActorID, slot)
		result.Scheduled++
	}
	return result, nil
}

// seedOccupancy loads the slots already taken by scheduled meetings on
// the day, so sequential packing runs stay conflict-free.
func (s *Scheduler) seedOccupancy(ctx context.Context, day string) (map[string]map[string]bool, error) {
	scheduled, err := s.Meetings.FindByStatus(ctx, models.MeetingScheduled)
	if err != nil {
		return nil, err
	}
	occupied := make(map[string]map[string]bool)
	for _, m := range scheduled {
		if SlotDay(m.ChosenSlot) != day {
			continue
		}
		markOccupied(occupied, m.FromActorID, m.ChosenSlot)
		markOccupied(occupied, m.ToActorID, m.ChosenSlot)
	}
	return occupied, nil
}

func daySlots(slots []string, day string) []string {
	var out []string
	for _, slot := range slots {
		if SlotDay(slot) == day {
			out = append(out, slot)
		}
	}
	return out
}

// firstFreeSlot scans the candidate slots in their given order and
// returns the first one free for both actors, or "".
func firstFreeSlot(slots []string, actorA, actorB string, occupied map[string]map[string]bool) string {
	for _, slot := range slots {
		if occupied[actorA][slot] || occupied[actorB][slot] {
			continue
		}
		return slot
	}
	return ""
}

func markOccupied(occupied map[string]map[string]bool, actorID, slot string) {
	if occupied[actorID] == nil {
		occupied[actorID] = make(map[string]bool)
	}
	occupied[actorID][slot] = true
}
