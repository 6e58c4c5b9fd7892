package ingest

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"lanyard/errs"
	"lanyard/utils"

	"github.com/julienschmidt/httprouter"
)

// HandleUpload accepts a multipart roster upload. Fields: "file" (the
// spreadsheet), "format" (csv), and optional "config" (JSON Config).
func (p *Pipeline) HandleUpload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(20 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	buf, err := io.ReadAll(file)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "unreadable file")
		return
	}

	format := r.FormValue("format")
	if format == "" {
		// fall back to the filename extension
		if idx := strings.LastIndex(header.Filename, "."); idx >= 0 {
			format = header.Filename[idx+1:]
		}
	}

	var cfg Config
	if raw := r.FormValue("config"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid config JSON")
			return
		}
	}

	report, err := p.ProcessUpload(r.Context(), buf, format, cfg)
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "report": report})
}

// HandleGetReport returns the persisted audit report for an upload.
func (p *Pipeline) HandleGetReport(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	report, err := p.Uploads.GetReport(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if report == nil {
		utils.RespondWithError(w, http.StatusNotFound, "upload not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "report": report})
}

// HandleDirectory lists the public, consent-filtered actor directory.
func (p *Pipeline) HandleDirectory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actors, err := p.Actors.List(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "actors": actors})
}
