package scan

import (
	"encoding/json"
	"net/http"

	"lanyard/errs"
	"lanyard/utils"

	"github.com/julienschmidt/httprouter"
)

type scanRequest struct {
	From    string            `json:"from"`
	To      string            `json:"to"`
	Payload string            `json:"payload"` // raw scanner payload, alternative to from
	Context map[string]string `json:"context"`
}

// HandleScan processes a badge scan. "from" may be given directly or as
// a raw vendor payload in "payload"; "to" is the scanned party.
func (p *Processor) HandleScan(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	from := req.From
	if from == "" && req.Payload != "" {
		decoded, err := DecodePayload(req.Payload)
		if err != nil {
			utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
			return
		}
		from = decoded.BadgeID
		if req.Context == nil {
			req.Context = map[string]string{}
		}
		if decoded.ScannerID != "" {
			req.Context["scannerId"] = decoded.ScannerID
		}
		if decoded.Location != "" {
			req.Context["location"] = decoded.Location
		}
	}
	if from == "" || req.To == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing from/to identifiers")
		return
	}

	scan, err := p.ProcessScan(r.Context(), from, req.To, req.Context)
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "scan": scan})
}
