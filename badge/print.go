package badge

import (
	"bytes"
	"fmt"
	"log"
	"net/http"

	"lanyard/db"
	"lanyard/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// Printer renders printable badge PDFs for attendees.
type Printer struct {
	Attendees db.AttendeeStore
}

func NewPrinter(attendees db.AttendeeStore) *Printer {
	return &Printer{Attendees: attendees}
}

// HandlePrintBadge serves GET /attendees/:id/badge as a PDF with the
// attendee's name, organization, and signed QR code.
func (p *Printer) HandlePrintBadge(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	attendeeID := ps.ByName("id")

	attendee, err := p.Attendees.Get(r.Context(), attendeeID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if attendee == nil {
		utils.RespondWithError(w, http.StatusNotFound, "attendee not found")
		return
	}

	badgeID := attendee.Source.BadgeID
	if badgeID == "" {
		// badge-less registrations still get a scannable code
		badgeID = "bdg_" + utils.GenerateRandomDigitString(10)
	}
	qrPayload := GenerateQRPayload(badgeID, attendee.ID)

	qrPNG, err := qrcode.Encode(qrPayload, qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A6", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, attendee.FullName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, attendee.Organization, "", 1, "C", false, 0, "")
	if attendee.Title != "" {
		pdf.CellFormat(0, 8, attendee.Title, "", 1, "C", false, 0, "")
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("badge-qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("badge-qr", 35, 55, 35, 35, false, opts, 0, "")

	pdf.SetY(95)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 5, badgeID, "", 1, "C", false, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		log.Printf("[badge] PDF render failed for %s: %v", attendeeID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to render badge")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=badge-%s.pdf", badgeID))
	if _, err := w.Write(out.Bytes()); err != nil {
		log.Printf("[badge] write failed: %v", err)
	}
}
