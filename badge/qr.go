// Package badge issues and verifies the HMAC-signed QR payloads printed
// on physical attendee badges.
package badge

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"lanyard/globals"
)

// Signed payload layout: badgeID|attendeeID|timestamp|HMAC
func GenerateQRPayload(badgeID, attendeeID string) string {
	timestamp := time.Now().Unix()
	data := fmt.Sprintf("%s|%s|%d", badgeID, attendeeID, timestamp)

	h := hmac.New(sha256.New, globals.BadgeHMACSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))

	return fmt.Sprintf("%s|%s", data, sig)
}

// VerifyQRPayload checks the signature and returns the badge and
// attendee ids. Badge QR codes do not expire during an event, so unlike
// entry tickets there is no timestamp drift window.
func VerifyQRPayload(payload string) (badgeID, attendeeID string, err error) {
	parts := strings.Split(payload, "|")
	if len(parts) != 4 {
		return "", "", errors.New("invalid QR format")
	}

	badgeID = parts[0]
	attendeeID = parts[1]
	timestampStr := parts[2]
	signature := parts[3]

	data := fmt.Sprintf("%s|%s|%s", badgeID, attendeeID, timestampStr)
	h := hmac.New(sha256.New, globals.BadgeHMACSecret)
	h.Write([]byte(data))
	expectedSig := base64.StdEncoding.EncodeToString(h.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expectedSig)) {
		return "", "", errors.New("invalid signature")
	}

	return badgeID, attendeeID, nil
}
