package scan

import (
	"context"
	"errors"
	"testing"
	"time"

	"lanyard/db"
	"lanyard/errs"
	"lanyard/models"
	"lanyard/mq"
)

type recordingQueue struct {
	pairs [][2]string
	fail  bool
}

func (q *recordingQueue) EnqueuePairRecompute(_ context.Context, a, b string) error {
	if q.fail {
		return errors.New("redis down")
	}
	q.pairs = append(q.pairs, [2]string{a, b})
	return nil
}

func seedAttendee(t *testing.T, store *db.MemAttendees, id, badgeID string, consenting bool) {
	t.Helper()
	err := store.Put(context.Background(), &models.Attendee{
		ID:       id,
		Email:    id + "@example.com",
		FullName: "Attendee " + id,
		Consent:  models.Consent{Matchmaking: consenting},
		Source:   models.Source{BadgeID: badgeID},
	})
	if err != nil {
		t.Fatal(err)
	}
}

func newTestProcessor(t *testing.T) (*Processor, *db.MemAttendees, *db.MemScans, *recordingQueue) {
	t.Helper()
	attendees := db.NewMemAttendees()
	scans := db.NewMemScans()
	queue := &recordingQueue{}
	p := NewProcessor(attendees, db.NewMemActors(), scans, queue)
	return p, attendees, scans, queue
}

func TestProcessScanHappyPath(t *testing.T) {
	p, attendees, scans, queue := newTestProcessor(t)
	seedAttendee(t, attendees, "att_a", "bdg_a", true)
	seedAttendee(t, attendees, "att_b", "bdg_b", true)

	scan, err := p.ProcessScan(context.Background(), "bdg_a", "bdg_b", map[string]string{"location": "hall A"})
	if err != nil {
		t.Fatal(err)
	}
	if scan.FromActorID != "att_a" || scan.ToActorID != "att_b" {
		t.Fatalf("badge ids not resolved: %+v", scan)
	}
	if len(scans.Scans) != 1 {
		t.Fatalf("scan not persisted: %d", len(scans.Scans))
	}
	if time.Since(scan.Timestamp) > time.Minute {
		t.Fatalf("stale timestamp %v", scan.Timestamp)
	}

	from, _ := attendees.Get(context.Background(), "att_a")
	to, _ := attendees.Get(context.Background(), "att_b")
	if from.ScansGiven != 1 || from.ScansReceived != 0 {
		t.Fatalf("from counters wrong: %+v", from)
	}
	if to.ScansReceived != 1 || to.ScansGiven != 0 {
		t.Fatalf("to counters wrong: %+v", to)
	}
	if len(queue.pairs) != 1 {
		t.Fatal("recompute not enqueued")
	}
}

func TestProcessScanConsentBlocksEverything(t *testing.T) {
	p, attendees, scans, queue := newTestProcessor(t)
	seedAttendee(t, attendees, "att_a", "bdg_a", true)
	seedAttendee(t, attendees, "att_b", "bdg_b", false)

	_, err := p.ProcessScan(context.Background(), "bdg_a", "bdg_b", nil)
	var ce *errs.ConsentError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConsentError, got %v", err)
	}

	if len(scans.Scans) != 0 {
		t.Fatal("scan recorded despite missing consent")
	}
	from, _ := attendees.Get(context.Background(), "att_a")
	to, _ := attendees.Get(context.Background(), "att_b")
	if from.ScansGiven != 0 || to.ScansReceived != 0 {
		t.Fatal("counters moved despite missing consent")
	}
	if len(queue.pairs) != 0 {
		t.Fatal("recompute enqueued despite missing consent")
	}
}

func TestProcessScanUnresolvableIdentifier(t *testing.T) {
	p, attendees, _, _ := newTestProcessor(t)
	seedAttendee(t, attendees, "att_a", "bdg_a", true)

	_, err := p.ProcessScan(context.Background(), "bdg_a", "nobody", nil)
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestProcessScanDirectActorID(t *testing.T) {
	p, attendees, _, _ := newTestProcessor(t)
	seedAttendee(t, attendees, "att_a", "bdg_a", true)
	seedAttendee(t, attendees, "att_b", "", true)

	scan, err := p.ProcessScan(context.Background(), "att_a", "att_b", nil)
	if err != nil {
		t.Fatal(err)
	}
	if scan.ToActorID != "att_b" {
		t.Fatalf("direct id not accepted: %+v", scan)
	}
}

func TestProcessScanCompanyActorAlwaysConsents(t *testing.T) {
	attendees := db.NewMemAttendees()
	actors := db.NewMemActors()
	scans := db.NewMemScans()
	p := NewProcessor(attendees, actors, scans, &recordingQueue{})

	seedAttendee(t, attendees, "att_a", "bdg_a", true)
	if err := actors.Put(context.Background(), &models.Actor{
		ID: "cmp_1", ActorType: models.ActorTypeCompany, DisplayName: "Acme",
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := p.ProcessScan(context.Background(), "bdg_a", "cmp_1", nil); err != nil {
		t.Fatalf("company actor should always consent: %v", err)
	}
}

// failingCounters simulates an aborted counter transaction after the
// scan row has already been inserted.
type failingCounters struct {
	*db.MemAttendees
}

func (f *failingCounters) IncrScanCounts(context.Context, string, string) error {
	return errors.New("transaction aborted")
}

func TestCounterFailureRollsBackScan(t *testing.T) {
	attendees := db.NewMemAttendees()
	scans := db.NewMemScans()
	p := NewProcessor(&failingCounters{attendees}, db.NewMemActors(), scans, mq.NopQueue{})
	seedAttendee(t, attendees, "att_a", "bdg_a", true)
	seedAttendee(t, attendees, "att_b", "bdg_b", true)

	if _, err := p.ProcessScan(context.Background(), "bdg_a", "bdg_b", nil); err == nil {
		t.Fatal("expected the counter failure to surface")
	}
	if len(scans.Scans) != 0 {
		t.Fatalf("%d scan(s) persisted despite failed counter increment", len(scans.Scans))
	}

	from, _ := attendees.Get(context.Background(), "att_a")
	if from.ScansGiven != 0 {
		t.Fatalf("counter moved despite aborted transaction: %+v", from)
	}
}

func TestRecomputeFailureDoesNotFailScan(t *testing.T) {
	p, attendees, scans, queue := newTestProcessor(t)
	queue.fail = true
	seedAttendee(t, attendees, "att_a", "bdg_a", true)
	seedAttendee(t, attendees, "att_b", "bdg_b", true)

	if _, err := p.ProcessScan(context.Background(), "bdg_a", "bdg_b", nil); err != nil {
		t.Fatalf("queue failure must not surface: %v", err)
	}
	if len(scans.Scans) != 1 {
		t.Fatal("scan lost")
	}
}
