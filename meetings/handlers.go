package meetings

import (
	"context"
	"encoding/json"
	"net/http"

	"lanyard/errs"
	"lanyard/models"
	"lanyard/utils"

	"github.com/julienschmidt/httprouter"
)

type requestBody struct {
	From    string   `json:"from"`
	To      string   `json:"to"`
	Slots   []string `json:"slots"`
	Message string   `json:"message"`
}

func (s *Scheduler) HandleRequestMeeting(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body requestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.From == "" || body.To == "" || len(body.Slots) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "from, to and slots are required")
		return
	}

	m, err := s.RequestMeeting(r.Context(), body.From, body.To, body.Slots, body.Message)
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"ok": true, "meeting": m})
}

func (s *Scheduler) HandleAcceptMeeting(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Slot string `json:"slot"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Slot == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "slot is required")
		return
	}

	m, err := s.AcceptMeeting(r.Context(), ps.ByName("id"), body.Slot)
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "meeting": m})
}

func (s *Scheduler) HandleDeclineMeeting(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Reason string `json:"reason"`
	}
	// reason is optional; ignore a missing body
	_ = json.NewDecoder(r.Body).Decode(&body)

	m, err := s.DeclineMeeting(r.Context(), ps.ByName("id"), body.Reason)
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "meeting": m})
}

func (s *Scheduler) HandleAutoPack(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Day string `json:"day"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Day == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "day is required (YYYY-MM-DD)")
		return
	}

	// one pack per day at a time; concurrent packs over the same day
	// can double-assign slots, so callers serialize
	result, err := s.AutoPackMeetings(r.Context(), body.Day)
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "result": result})
}

func (s *Scheduler) HandleMeetingsForActor(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	list, err := s.GetMeetingsForActor(r.Context(), ps.ByName("id"), r.URL.Query().Get("status"))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if list == nil {
		list = []models.Meeting{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "meetings": list})
}

// HandleExportICS streams an actor's scheduled meetings as a calendar.
func (s *Scheduler) HandleExportICS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actorID := ps.ByName("id")
	list, err := s.GetMeetingsForActor(r.Context(), actorID, models.MeetingScheduled)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	names := s.displayNames(r.Context(), list)
	ics, err := ExportToICS(list, names)
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=meetings.ics")
	_, _ = w.Write([]byte(ics))
}

// displayNames resolves actor display names for the export summary.
func (s *Scheduler) displayNames(ctx context.Context, list []models.Meeting) map[string]string {
	names := make(map[string]string)
	for _, m := range list {
		for _, id := range []string{m.FromActorID, m.ToActorID} {
			if _, done := names[id]; done {
				continue
			}
			if actor, err := s.Actors.Get(ctx, id); err == nil && actor != nil {
				names[id] = actor.DisplayName
			}
		}
	}
	return names
}
