package db

import (
	"context"

	"lanyard/models"
)

// The store interfaces below are the only persistence surface the
// ingest, scan, and meeting services see. Lookups that can legitimately
// miss return (nil, nil); errors are reserved for store failures.

type AttendeeStore interface {
	Get(ctx context.Context, id string) (*models.Attendee, error)
	FindByEmail(ctx context.Context, email string) (*models.Attendee, error)
	FindByBadgeID(ctx context.Context, badgeID string) (*models.Attendee, error)
	FindByQRToken(ctx context.Context, token string) (*models.Attendee, error)
	// Put upserts by id.
	Put(ctx context.Context, a *models.Attendee) error
	// IncrScanCounts bumps scansGiven on from and scansReceived on to.
	// Both increments commit together or neither does. Ids without an
	// attendee record (company actors) are skipped.
	IncrScanCounts(ctx context.Context, fromID, toID string) error
}

type ActorStore interface {
	Get(ctx context.Context, id string) (*models.Actor, error)
	Put(ctx context.Context, a *models.Actor) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Actor, error)
}

type ScanStore interface {
	Insert(ctx context.Context, s *models.BadgeScan) error
	// Delete removes a scan by id. Only used to roll the row back when
	// the paired counter increment fails after the insert.
	Delete(ctx context.Context, scanID string) error
}

type MeetingStore interface {
	Get(ctx context.Context, id string) (*models.Meeting, error)
	Put(ctx context.Context, m *models.Meeting) error
	// FindActiveForPair matches the unordered pair in both directions.
	FindActiveForPair(ctx context.Context, actorA, actorB string) (*models.Meeting, error)
	FindByStatus(ctx context.Context, status string) ([]models.Meeting, error)
	// FindForActor returns meetings where the actor is on either side,
	// optionally filtered by status ("" = all).
	FindForActor(ctx context.Context, actorID, status string) ([]models.Meeting, error)
}

type UploadStore interface {
	PutReport(ctx context.Context, r *models.UploadReport) error
	GetReport(ctx context.Context, uploadID string) (*models.UploadReport, error)
}

type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Insert(ctx context.Context, u *models.User) error
}
