// Package scan records badge-scan introductions between actors, with
// mutual consent as a hard precondition.
package scan

import (
	"context"
	"log"
	"time"

	"lanyard/db"
	"lanyard/errs"
	"lanyard/models"

	"github.com/google/uuid"
)

// RecomputeQueue is the fire-and-forget match-score recompute
// collaborator; its failures never fail a scan.
type RecomputeQueue interface {
	EnqueuePairRecompute(ctx context.Context, actorA, actorB string) error
}

// Feed receives successfully recorded scans for live broadcast.
type Feed interface {
	BroadcastScan(s *models.BadgeScan)
}

type Processor struct {
	Attendees db.AttendeeStore
	Actors    db.ActorStore
	Scans     db.ScanStore
	Queue     RecomputeQueue
	Feed      Feed // optional
}

func NewProcessor(attendees db.AttendeeStore, actors db.ActorStore, scans db.ScanStore, queue RecomputeQueue) *Processor {
	return &Processor{Attendees: attendees, Actors: actors, Scans: scans, Queue: queue}
}

// resolveActorID maps a free-form identifier to an actor id: badge id
// first, then QR token, then direct actor/attendee id.
func (p *Processor) resolveActorID(ctx context.Context, ident string) (string, error) {
	if a, err := p.Attendees.FindByBadgeID(ctx, ident); err != nil {
		return "", err
	} else if a != nil {
		return a.ID, nil
	}
	if a, err := p.Attendees.FindByQRToken(ctx, ident); err != nil {
		return "", err
	} else if a != nil {
		return a.ID, nil
	}
	if a, err := p.Attendees.Get(ctx, ident); err != nil {
		return "", err
	} else if a != nil {
		return a.ID, nil
	}
	if actor, err := p.Actors.Get(ctx, ident); err != nil {
		return "", err
	} else if actor != nil {
		return actor.ID, nil
	}
	return "", errs.NotFound("actor", ident)
}

// checkConsent enforces the matchmaking gate. Attendee-backed actors
// need consent.matchmaking; other actor kinds always consent.
func (p *Processor) checkConsent(ctx context.Context, actorID string) error {
	attendee, err := p.Attendees.Get(ctx, actorID)
	if err != nil {
		return err
	}
	if attendee == nil {
		return nil
	}
	if !attendee.Consent.Matchmaking {
		return &errs.ConsentError{ActorID: actorID}
	}
	return nil
}

// ProcessScan resolves both identifiers, enforces consent on both
// sides, records the scan, and bumps both counters together. The
// recompute enqueue and feed broadcast are best-effort.
func (p *Processor) ProcessScan(ctx context.Context, fromIdent, toIdent string, scanCtx map[string]string) (*models.BadgeScan, error) {
	fromID, err := p.resolveActorID(ctx, fromIdent)
	if err != nil {
		return nil, err
	}
	toID, err := p.resolveActorID(ctx, toIdent)
	if err != nil {
		return nil, err
	}

	if err := p.checkConsent(ctx, fromID); err != nil {
		return nil, err
	}
	if err := p.checkConsent(ctx, toID); err != nil {
		return nil, err
	}

	scan := &models.BadgeScan{
		ScanID:      "scan_" + uuid.NewString(),
		FromActorID: fromID,
		ToActorID:   toID,
		Context:     scanCtx,
		Timestamp:   time.Now().UTC(),
	}
	if err := p.Scans.Insert(ctx, scan); err != nil {
		return nil, err
	}
	if err := p.Attendees.IncrScanCounts(ctx, fromID, toID); err != nil {
		// the scan row and the counters move together; roll the row back
		// so a failed increment never leaves a half-recorded scan
		if derr := p.Scans.Delete(ctx, scan.ScanID); derr != nil {
			log.Printf("[scan] rollback of %s failed: %v", scan.ScanID, derr)
		}
		return nil, err
	}

	if p.Queue != nil {
		if err := p.Queue.EnqueuePairRecompute(ctx, fromID, toID); err != nil {
			log.Printf("[scan] recompute enqueue for %s/%s failed: %v", fromID, toID, err)
		}
	}
	if p.Feed != nil {
		p.Feed.BroadcastScan(scan)
	}
	return scan, nil
}
