package errs

import (
	"fmt"
	"net/http"
)

// ValidationError marks a malformed input row or field. Batch callers
// collect these per row instead of aborting.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func Validation(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }

// NotFoundError is an unresolvable actor/attendee/meeting reference.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found: %s", e.Kind, e.ID) }

func NotFound(kind, id string) error { return &NotFoundError{Kind: kind, ID: id} }

// ConsentError means a consent precondition failed; the whole call fails
// with no partial state change.
type ConsentError struct {
	ActorID string
}

func (e *ConsentError) Error() string {
	return fmt.Sprintf("actor %s has not consented to matchmaking", e.ActorID)
}

// DuplicateMeetingError: an active meeting already exists for the pair.
type DuplicateMeetingError struct {
	MeetingID string
}

func (e *DuplicateMeetingError) Error() string {
	return fmt.Sprintf("active meeting already exists for this pair: %s", e.MeetingID)
}

// NoAvailabilityError: requested slots do not intersect both actors'
// availability.
type NoAvailabilityError struct{}

func (e *NoAvailabilityError) Error() string {
	return "no overlapping availability for requested slots"
}

// InvalidStateTransitionError: accept/decline on a non-requested meeting,
// or a chosen slot outside the requested set.
type InvalidStateTransitionError struct {
	MeetingID string
	Msg       string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("meeting %s: %s", e.MeetingID, e.Msg)
}

// UnsupportedFormatError: no decoder recognized a scanner payload, or an
// upload declared a format we cannot parse.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string { return "unsupported format: " + e.Format }

// HTTPStatus maps taxonomy errors to response codes at the transport
// edge. Unknown errors are internal.
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ValidationError, *UnsupportedFormatError:
		return http.StatusBadRequest
	case *NotFoundError:
		return http.StatusNotFound
	case *ConsentError:
		return http.StatusForbidden
	case *DuplicateMeetingError, *InvalidStateTransitionError:
		return http.StatusConflict
	case *NoAvailabilityError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
