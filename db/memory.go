package db

import (
	"context"
	"sync"

	"lanyard/models"
)

// In-memory store implementations. Used by the service tests and usable
// for local runs without a mongod.

type MemAttendees struct {
	mu   sync.Mutex
	byID map[string]*models.Attendee
}

func NewMemAttendees() *MemAttendees {
	return &MemAttendees{byID: make(map[string]*models.Attendee)}
}

func (s *MemAttendees) Get(_ context.Context, id string) (*models.Attendee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.byID[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (s *MemAttendees) find(match func(*models.Attendee) bool) (*models.Attendee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.byID {
		if match(a) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemAttendees) FindByEmail(_ context.Context, email string) (*models.Attendee, error) {
	if email == "" {
		return nil, nil
	}
	return s.find(func(a *models.Attendee) bool { return a.Email == email })
}

func (s *MemAttendees) FindByBadgeID(_ context.Context, badgeID string) (*models.Attendee, error) {
	if badgeID == "" {
		return nil, nil
	}
	return s.find(func(a *models.Attendee) bool { return a.Source.BadgeID == badgeID })
}

func (s *MemAttendees) FindByQRToken(_ context.Context, token string) (*models.Attendee, error) {
	if token == "" {
		return nil, nil
	}
	return s.find(func(a *models.Attendee) bool { return a.Source.QRToken == token })
}

func (s *MemAttendees) Put(_ context.Context, a *models.Attendee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.byID[a.ID] = &cp
	return nil
}

func (s *MemAttendees) IncrScanCounts(_ context.Context, fromID, toID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.byID[fromID]; ok {
		a.ScansGiven++
	}
	if a, ok := s.byID[toID]; ok {
		a.ScansReceived++
	}
	return nil
}

type MemActors struct {
	mu   sync.Mutex
	byID map[string]*models.Actor
}

func NewMemActors() *MemActors { return &MemActors{byID: make(map[string]*models.Actor)} }

func (s *MemActors) Get(_ context.Context, id string) (*models.Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.byID[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (s *MemActors) Put(_ context.Context, a *models.Actor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.byID[a.ID] = &cp
	return nil
}

func (s *MemActors) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	return nil
}

func (s *MemActors) List(_ context.Context) ([]models.Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Actor, 0, len(s.byID))
	for _, a := range s.byID {
		out = append(out, *a)
	}
	return out, nil
}

type MemScans struct {
	mu    sync.Mutex
	Scans []models.BadgeScan
}

func NewMemScans() *MemScans { return &MemScans{} }

func (s *MemScans) Insert(_ context.Context, scan *models.BadgeScan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Scans = append(s.Scans, *scan)
	return nil
}

func (s *MemScans) Delete(_ context.Context, scanID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sc := range s.Scans {
		if sc.ScanID == scanID {
			s.Scans = append(s.Scans[:i], s.Scans[i+1:]...)
			return nil
		}
	}
	return nil
}

type MemMeetings struct {
	mu    sync.Mutex
	byID  map[string]*models.Meeting
	order []string // insertion order, for deterministic listing
}

func NewMemMeetings() *MemMeetings { return &MemMeetings{byID: make(map[string]*models.Meeting)} }

func (s *MemMeetings) Get(_ context.Context, id string) (*models.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.byID[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (s *MemMeetings) Put(_ context.Context, m *models.Meeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[m.ID]; !ok {
		s.order = append(s.order, m.ID)
	}
	cp := *m
	s.byID[m.ID] = &cp
	return nil
}

func (s *MemMeetings) FindActiveForPair(_ context.Context, actorA, actorB string) (*models.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		m := s.byID[id]
		if !m.Active() {
			continue
		}
		if (m.FromActorID == actorA && m.ToActorID == actorB) ||
			(m.FromActorID == actorB && m.ToActorID == actorA) {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemMeetings) FindByStatus(_ context.Context, status string) ([]models.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Meeting
	for _, id := range s.order {
		if m := s.byID[id]; m.Status == status {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *MemMeetings) FindForActor(_ context.Context, actorID, status string) ([]models.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Meeting
	for _, id := range s.order {
		m := s.byID[id]
		if m.FromActorID != actorID && m.ToActorID != actorID {
			continue
		}
		if status != "" && m.Status != status {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

type MemUploads struct {
	mu   sync.Mutex
	byID map[string]*models.UploadReport
}

func NewMemUploads() *MemUploads { return &MemUploads{byID: make(map[string]*models.UploadReport)} }

func (s *MemUploads) PutReport(_ context.Context, r *models.UploadReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.byID[r.UploadID] = &cp
	return nil
}

func (s *MemUploads) GetReport(_ context.Context, uploadID string) (*models.UploadReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.byID[uploadID]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}
