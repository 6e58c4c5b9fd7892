// Package schema turns raw mapped upload rows into typed Attendee
// records. Validation is pure: no I/O, and identical input yields
// identical output except for generated ids and timestamps.
package schema

import (
	"encoding/json"
	"net/mail"
	"strings"
	"time"

	"lanyard/errs"
	"lanyard/models"
	"lanyard/utils"

	"github.com/google/uuid"
)

// ListDelimiter joins multi-value fields in spreadsheet cells.
const ListDelimiter = "|"

var truthyTokens = map[string]bool{
	"true": true, "yes": true, "y": true, "1": true, "x": true, "on": true,
}

// ParseBoolToken interprets the boolean-like tokens that show up in
// spreadsheet consent columns. Anything unrecognized is false.
func ParseBoolToken(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return truthyTokens[strings.ToLower(strings.TrimSpace(t))]
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return false
	}
}

// NormalizeList accepts a native list or a single delimiter-joined
// string and returns a trimmed, deduplicated slice with empty tokens
// dropped.
func NormalizeList(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		return utils.SplitTags(strings.Join(t, ListDelimiter), ListDelimiter)
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			if s, ok := p.(string); ok {
				parts = append(parts, s)
			}
		}
		return utils.SplitTags(strings.Join(parts, ListDelimiter), ListDelimiter)
	case string:
		return utils.SplitTags(t, ListDelimiter)
	default:
		return nil
	}
}

func stringField(row map[string]any, key string) string {
	if v, ok := row[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func subObject(row map[string]any, key string) map[string]any {
	if v, ok := row[key]; ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return nil
}

// parseAvailability coerces the availability block. A malformed block
// degrades to nil ("fully available") rather than failing the row.
func parseAvailability(v any) []models.AvailabilitySlot {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		var slots []models.AvailabilitySlot
		if err := json.Unmarshal([]byte(t), &slots); err != nil {
			return nil
		}
		return slots
	case []models.AvailabilitySlot:
		return t
	case []any:
		data, err := json.Marshal(t)
		if err != nil {
			return nil
		}
		var slots []models.AvailabilitySlot
		if err := json.Unmarshal(data, &slots); err != nil {
			return nil
		}
		return slots
	default:
		return nil
	}
}

// Validate coerces a raw mapped row into an Attendee or fails with a
// ValidationError naming the offending field.
func Validate(row map[string]any) (*models.Attendee, error) {
	email := stringField(row, "email")
	if email == "" {
		return nil, errs.Validation("email", "required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errs.Validation("email", "not a valid address")
	}

	fullName := stringField(row, "fullName")
	if fullName == "" {
		return nil, errs.Validation("fullName", "required")
	}

	id := stringField(row, "id")
	if id == "" {
		id = "att_" + uuid.NewString()
	}

	now := time.Now().UTC()
	a := &models.Attendee{
		ID:           id,
		Email:        email,
		FullName:     fullName,
		Organization: stringField(row, "organization"),
		Title:        stringField(row, "title"),
		Role:         NormalizeList(row["role"]),
		Interests:    NormalizeList(row["interests"]),
		Capabilities: NormalizeList(row["capabilities"]),
		Needs:        NormalizeList(row["needs"]),
		Platforms:    NormalizeList(row["platforms"]),
		Markets:      NormalizeList(row["markets"]),
		Tags:         NormalizeList(row["tags"]),
		Bio:          stringField(row, "bio"),
		Links:        NormalizeList(row["links"]),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if consent := subObject(row, "consent"); consent != nil {
		a.Consent = models.Consent{
			Marketing:      ParseBoolToken(consent["marketing"]),
			Matchmaking:    ParseBoolToken(consent["matchmaking"]),
			ShowPublicCard: ParseBoolToken(consent["showPublicCard"]),
		}
	}

	if prefs := subObject(row, "preferences"); prefs != nil {
		a.Preferences = models.Preferences{
			Durations:    NormalizeList(prefs["durations"]),
			Locations:    NormalizeList(prefs["locations"]),
			Availability: parseAvailability(prefs["availability"]),
		}
	}

	if src := subObject(row, "source"); src != nil {
		a.Source.BadgeID = stringField(src, "badgeId")
		a.Source.QRToken = stringField(src, "qrToken")
	}

	return a, nil
}
