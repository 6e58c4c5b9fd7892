package scan

import (
	"encoding/json"
	"strings"

	"lanyard/badge"
	"lanyard/errs"
)

// Payload is the canonical shape every vendor decoder resolves to.
type Payload struct {
	BadgeID   string `json:"badgeId"`
	ScannerID string `json:"scannerId"`
	Location  string `json:"location"`
}

// Scanner vendors ship different payload shapes. Decoders are tried in
// priority order; the first match wins.
type decoder func(raw string) (*Payload, bool)

var decoders = []decoder{
	decodeSignedQR,
	decodeFlatJSON,
	decodeNestedJSON,
}

// DecodePayload resolves a raw scanner payload to the canonical shape
// or fails with UnsupportedFormatError.
func DecodePayload(raw string) (*Payload, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, &errs.UnsupportedFormatError{Format: "empty"}
	}
	for _, dec := range decoders {
		if p, ok := dec(raw); ok {
			return p, nil
		}
	}
	return nil, &errs.UnsupportedFormatError{Format: truncate(raw, 32)}
}

// Our own badges: HMAC-signed pipe payload from the badge package.
func decodeSignedQR(raw string) (*Payload, bool) {
	badgeID, _, err := badge.VerifyQRPayload(raw)
	if err != nil {
		return nil, false
	}
	return &Payload{BadgeID: badgeID}, true
}

// Vendor shape A: {"badge_id": "...", "scanner_id": "...", "location": "..."}
func decodeFlatJSON(raw string) (*Payload, bool) {
	var v struct {
		BadgeID   string `json:"badge_id"`
		ScannerID string `json:"scanner_id"`
		Location  string `json:"location"`
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil || v.BadgeID == "" {
		return nil, false
	}
	return &Payload{BadgeID: v.BadgeID, ScannerID: v.ScannerID, Location: v.Location}, true
}

// Vendor shape B: {"data": {"badge": "...", "device": "..."}, "loc": "..."}
func decodeNestedJSON(raw string) (*Payload, bool) {
	var v struct {
		Data struct {
			Badge  string `json:"badge"`
			Device string `json:"device"`
		} `json:"data"`
		Loc string `json:"loc"`
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil || v.Data.Badge == "" {
		return nil, false
	}
	return &Payload{BadgeID: v.Data.Badge, ScannerID: v.Data.Device, Location: v.Loc}, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
