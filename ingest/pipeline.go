// Package ingest turns raw roster uploads into validated, deduplicated
// attendee records and their consent-gated public actor projections.
package ingest

import (
	"context"
	"fmt"
	"log"
	"time"

	"lanyard/db"
	"lanyard/models"
	"lanyard/schema"
	"lanyard/utils"

	"github.com/google/uuid"
)

const (
	MergeReplace = "replace"
	MergeMerge   = "merge"
	MergeSkip    = "skip"
)

// Config controls one upload run. MergeStrategy must be one of the
// Merge* constants; empty defaults to merge.
type Config struct {
	Mapping        map[string]string `json:"mapping"`
	DryRun         bool              `json:"dryRun"`
	SkipDuplicates bool              `json:"skipDuplicates"`
	MergeStrategy  string            `json:"mergeStrategy"`
}

func (c *Config) validate() error {
	switch c.MergeStrategy {
	case "":
		c.MergeStrategy = MergeMerge
	case MergeReplace, MergeMerge, MergeSkip:
	default:
		return fmt.Errorf("unknown mergeStrategy %q", c.MergeStrategy)
	}
	return nil
}

// Pipeline is constructed with its stores and parser; it holds no
// ambient state.
type Pipeline struct {
	Attendees db.AttendeeStore
	Actors    db.ActorStore
	Uploads   db.UploadStore
	Parser    RowParser
}

func NewPipeline(attendees db.AttendeeStore, actors db.ActorStore, uploads db.UploadStore, parser RowParser) *Pipeline {
	if parser == nil {
		parser = CSVParser{}
	}
	return &Pipeline{Attendees: attendees, Actors: actors, Uploads: uploads, Parser: parser}
}

// ProcessUpload parses the buffer, validates and dedups every row, and
// persists attendees plus their actor projections. A malformed row never
// aborts the batch; only an unreadable file or unsupported format does.
// Dry runs perform the same validation and dedup lookups but write
// nothing, the audit report included.
func (p *Pipeline) ProcessUpload(ctx context.Context, buf []byte, format string, cfg Config) (*models.UploadReport, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	rows, err := p.Parser.Parse(buf, format)
	if err != nil {
		return nil, err
	}

	report := &models.UploadReport{
		UploadID:  "upl_" + uuid.NewString(),
		DryRun:    cfg.DryRun,
		CreatedAt: time.Now().UTC(),
	}

	// batch-local dedup keys, so dry runs see the duplicates a real run
	// would have persisted by the time the later row arrives
	seenEmails := make(map[string]bool)
	seenBadges := make(map[string]bool)

	for i, raw := range rows {
		mapped := ApplyMapping(raw, cfg.Mapping)
		incoming, err := schema.Validate(mapped)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, models.RowError{Row: i + 1, Error: err.Error()})
			continue
		}

		existing, err := p.lookupExisting(ctx, incoming)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, models.RowError{Row: i + 1, Error: err.Error()})
			continue
		}
		inBatchDup := seenEmails[incoming.Email] ||
			(incoming.Source.BadgeID != "" && seenBadges[incoming.Source.BadgeID])

		seenEmails[incoming.Email] = true
		if incoming.Source.BadgeID != "" {
			seenBadges[incoming.Source.BadgeID] = true
		}

		isDup := existing != nil || inBatchDup
		if isDup && (cfg.SkipDuplicates || cfg.MergeStrategy == MergeSkip) {
			report.Skipped++
			continue
		}

		var resolved *models.Attendee
		switch {
		case existing == nil:
			resolved = incoming
		case cfg.MergeStrategy == MergeReplace:
			resolved = replaceRecord(existing, incoming)
		default:
			resolved = mergeRecord(existing, incoming, mapped)
		}
		resolved.Source.ImportID = report.UploadID

		if cfg.DryRun {
			report.Success++
			continue
		}

		if err := p.Attendees.Put(ctx, resolved); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, models.RowError{Row: i + 1, Error: err.Error()})
			continue
		}
		if err := p.materialize(ctx, resolved); err != nil {
			// the attendee row landed; surface the projection failure
			// without failing the row
			log.Printf("[ingest] actor projection for %s failed: %v", resolved.ID, err)
		}
		report.Success++
	}

	if !cfg.DryRun {
		if err := p.Uploads.PutReport(ctx, report); err != nil {
			log.Printf("[ingest] audit report %s not persisted: %v", report.UploadID, err)
		}
	}
	return report, nil
}

// lookupExisting resolves a duplicate by email first, then badge id.
func (p *Pipeline) lookupExisting(ctx context.Context, incoming *models.Attendee) (*models.Attendee, error) {
	existing, err := p.Attendees.FindByEmail(ctx, incoming.Email)
	if err != nil || existing != nil {
		return existing, err
	}
	if incoming.Source.BadgeID != "" {
		return p.Attendees.FindByBadgeID(ctx, incoming.Source.BadgeID)
	}
	return nil, nil
}

// materialize keeps the directory in sync with consent: project when
// matchmaking consent holds, delete the projection when it was revoked.
func (p *Pipeline) materialize(ctx context.Context, a *models.Attendee) error {
	if a.Consent.Matchmaking {
		return p.Actors.Put(ctx, BuildActor(a))
	}
	return p.Actors.Delete(ctx, a.ID)
}

// replaceRecord discards prior content except scan counters, id, and
// creation time.
func replaceRecord(existing, incoming *models.Attendee) *models.Attendee {
	out := *incoming
	out.ID = existing.ID
	out.CreatedAt = existing.CreatedAt
	out.ScansGiven = existing.ScansGiven
	out.ScansReceived = existing.ScansReceived
	out.UpdatedAt = time.Now().UTC()
	return &out
}

// mergeRecord unions list fields and deep-merges scalars, preserving
// scan counters. Consent flags only move when the row carried them.
func mergeRecord(existing, incoming *models.Attendee, mapped map[string]any) *models.Attendee {
	out := *existing

	out.Role = utils.UnionTags(existing.Role, incoming.Role)
	out.Interests = utils.UnionTags(existing.Interests, incoming.Interests)
	out.Capabilities = utils.UnionTags(existing.Capabilities, incoming.Capabilities)
	out.Needs = utils.UnionTags(existing.Needs, incoming.Needs)
	out.Platforms = utils.UnionTags(existing.Platforms, incoming.Platforms)
	out.Markets = utils.UnionTags(existing.Markets, incoming.Markets)
	out.Tags = utils.UnionTags(existing.Tags, incoming.Tags)
	out.Links = utils.UnionTags(existing.Links, incoming.Links)
	out.Preferences.Durations = utils.UnionTags(existing.Preferences.Durations, incoming.Preferences.Durations)
	out.Preferences.Locations = utils.UnionTags(existing.Preferences.Locations, incoming.Preferences.Locations)

	if len(incoming.Preferences.Availability) > 0 {
		out.Preferences.Availability = incoming.Preferences.Availability
	}
	if incoming.FullName != "" {
		out.FullName = incoming.FullName
	}
	if incoming.Organization != "" {
		out.Organization = incoming.Organization
	}
	if incoming.Title != "" {
		out.Title = incoming.Title
	}
	if incoming.Bio != "" {
		out.Bio = incoming.Bio
	}
	if incoming.Source.BadgeID != "" {
		out.Source.BadgeID = incoming.Source.BadgeID
	}
	if incoming.Source.QRToken != "" {
		out.Source.QRToken = incoming.Source.QRToken
	}

	if hasConsentField(mapped, "marketing") {
		out.Consent.Marketing = incoming.Consent.Marketing
	}
	if hasConsentField(mapped, "matchmaking") {
		out.Consent.Matchmaking = incoming.Consent.Matchmaking
	}
	if hasConsentField(mapped, "showPublicCard") {
		out.Consent.ShowPublicCard = incoming.Consent.ShowPublicCard
	}

	out.UpdatedAt = time.Now().UTC()
	return &out
}
