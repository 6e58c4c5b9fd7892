package badge

import "testing"

func TestQRPayloadRoundTrip(t *testing.T) {
	payload := GenerateQRPayload("bdg_42", "att_abc")
	badgeID, attendeeID, err := VerifyQRPayload(payload)
	if err != nil {
		t.Fatal(err)
	}
	if badgeID != "bdg_42" || attendeeID != "att_abc" {
		t.Fatalf("got %q/%q", badgeID, attendeeID)
	}
}

func TestQRPayloadTamperDetected(t *testing.T) {
	payload := GenerateQRPayload("bdg_42", "att_abc")
	tampered := "bdg_43" + payload[6:]
	if _, _, err := VerifyQRPayload(tampered); err == nil {
		t.Fatal("tampered payload verified")
	}
}

func TestQRPayloadBadShape(t *testing.T) {
	if _, _, err := VerifyQRPayload("just|three|parts"); err == nil {
		t.Fatal("short payload verified")
	}
}
