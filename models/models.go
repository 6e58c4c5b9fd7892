package models

import "time"

// Consent flags are independent booleans and default to false. An import
// may only set them through explicit fields in the incoming row.
type Consent struct {
	Marketing      bool `json:"marketing" bson:"marketing"`
	Matchmaking    bool `json:"matchmaking" bson:"matchmaking"`
	ShowPublicCard bool `json:"showPublicCard" bson:"showPublicCard"`
}

// AvailabilitySlot declares the slot tokens an attendee is free for on one
// calendar day. No declared availability at all means "fully available".
type AvailabilitySlot struct {
	Date  string   `json:"date" bson:"date"`
	Slots []string `json:"slots" bson:"slots"`
}

type Preferences struct {
	Durations    []string           `json:"durations,omitempty" bson:"durations,omitempty"`
	Locations    []string           `json:"locations,omitempty" bson:"locations,omitempty"`
	Availability []AvailabilitySlot `json:"availability,omitempty" bson:"availability,omitempty"`
}

// Source records where an attendee record came from.
type Source struct {
	ImportID string `json:"importId,omitempty" bson:"importId,omitempty"`
	BadgeID  string `json:"badgeId,omitempty" bson:"badgeId,omitempty"`
	QRToken  string `json:"qrToken,omitempty" bson:"qrToken,omitempty"`
}

// Attendee is the private registrant record. Email is the primary dedup
// key once set; scan counters never decrease.
type Attendee struct {
	ID            string      `json:"id" bson:"id"`
	Email         string      `json:"email" bson:"email"`
	FullName      string      `json:"fullName" bson:"fullName"`
	Organization  string      `json:"organization,omitempty" bson:"organization,omitempty"`
	Title         string      `json:"title,omitempty" bson:"title,omitempty"`
	Role          []string    `json:"role,omitempty" bson:"role,omitempty"`
	Interests     []string    `json:"interests,omitempty" bson:"interests,omitempty"`
	Capabilities  []string    `json:"capabilities,omitempty" bson:"capabilities,omitempty"`
	Needs         []string    `json:"needs,omitempty" bson:"needs,omitempty"`
	Platforms     []string    `json:"platforms,omitempty" bson:"platforms,omitempty"`
	Markets       []string    `json:"markets,omitempty" bson:"markets,omitempty"`
	Tags          []string    `json:"tags,omitempty" bson:"tags,omitempty"`
	Bio           string      `json:"bio,omitempty" bson:"bio,omitempty"`
	Links         []string    `json:"links,omitempty" bson:"links,omitempty"`
	Consent       Consent     `json:"consent" bson:"consent"`
	Preferences   Preferences `json:"preferences" bson:"preferences"`
	Source        Source      `json:"source" bson:"source"`
	ScansGiven    int64       `json:"scansGiven" bson:"scansGiven"`
	ScansReceived int64       `json:"scansReceived" bson:"scansReceived"`
	CreatedAt     time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt" bson:"updatedAt"`
}

const (
	ActorTypeAttendee = "attendee"
	ActorTypeCompany  = "company"
)

// Actor is the public, privacy-filtered projection used by the
// matchmaking directory. One must never exist for an attendee whose
// matchmaking consent is false.
type Actor struct {
	ID           string    `json:"id" bson:"id"`
	ActorType    string    `json:"actorType" bson:"actorType"`
	DisplayName  string    `json:"displayName" bson:"displayName"`
	Categories   []string  `json:"categories,omitempty" bson:"categories,omitempty"`
	Platforms    []string  `json:"platforms,omitempty" bson:"platforms,omitempty"`
	Markets      []string  `json:"markets,omitempty" bson:"markets,omitempty"`
	Capabilities []string  `json:"capabilities,omitempty" bson:"capabilities,omitempty"`
	Needs        []string  `json:"needs,omitempty" bson:"needs,omitempty"`
	Tags         []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	Role         []string  `json:"role,omitempty" bson:"role,omitempty"`
	PiiRef       string    `json:"piiRef,omitempty" bson:"piiRef,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// BadgeScan is an append-only fact; a row only disappears when the call
// that recorded it fails partway and rolls back.
type BadgeScan struct {
	ScanID      string            `json:"scanId" bson:"scanId"`
	FromActorID string            `json:"fromActorId" bson:"fromActorId"`
	ToActorID   string            `json:"toActorId" bson:"toActorId"`
	Context     map[string]string `json:"context,omitempty" bson:"context,omitempty"`
	Timestamp   time.Time         `json:"timestamp" bson:"timestamp"`
}

const (
	MeetingRequested = "requested"
	MeetingScheduled = "scheduled"
	MeetingDeclined  = "declined"
)

// Meeting is the negotiation between two actors. ChosenSlot is set iff
// status is scheduled, and must be one of RequestedSlots.
type Meeting struct {
	ID             string    `json:"id" bson:"id"`
	FromActorID    string    `json:"fromActorId" bson:"fromActorId"`
	ToActorID      string    `json:"toActorId" bson:"toActorId"`
	RequestedSlots []string  `json:"requestedSlots" bson:"requestedSlots"`
	Status         string    `json:"status" bson:"status"`
	ChosenSlot     string    `json:"chosenSlot,omitempty" bson:"chosenSlot,omitempty"`
	Notes          string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Active reports whether the meeting still occupies its actor pair.
func (m *Meeting) Active() bool {
	return m.Status == MeetingRequested || m.Status == MeetingScheduled
}

// RowError ties a failed upload row to its error message.
type RowError struct {
	Row   int    `json:"row" bson:"row"`
	Error string `json:"error" bson:"error"`
}

// UploadReport is the audit record persisted for every ProcessUpload
// call, keyed by upload id.
type UploadReport struct {
	UploadID  string     `json:"uploadId" bson:"uploadId"`
	DryRun    bool       `json:"dryRun" bson:"dryRun"`
	Success   int        `json:"success" bson:"success"`
	Failed    int        `json:"failed" bson:"failed"`
	Skipped   int        `json:"skipped" bson:"skipped"`
	Errors    []RowError `json:"errors,omitempty" bson:"errors,omitempty"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
}

// User is an organizer account for the admin API.
type User struct {
	UserID    string    `json:"userId" bson:"userid"`
	Username  string    `json:"username" bson:"username"`
	Password  string    `json:"-" bson:"password"`
	Role      []string  `json:"role" bson:"role"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
