package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"evcal/internal/event"
)

type EventHandler struct {
	Svc *event.Service
	Loc *time.Location
	Log *zap.Logger
	Now func() time.Time
}

type eventReq struct {
	Title            string  `json:"title"`
	Description      *string `json:"description"`
	StartDate        string  `json:"startDate"`
	EndDate          string  `json:"endDate"`
	IsRecurring      bool    `json:"isRecurring"`
	Frequency        *string `json:"frequency"`
	DaysOfWeek       []int   `json:"daysOfWeek"`
	RecurringEndDate *string `json:"recurringEndDate"`
	Category         *string `json:"category"`
}

func (h *EventHandler) decode(w http.ResponseWriter, r *http.Request) (event.Input, bool) {
	var req eventReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return event.Input{}, false
	}

	in := event.Input{
		Title:       req.Title,
		Description: req.Description,
		IsRecurring: req.IsRecurring,
		Frequency:   req.Frequency,
		DaysOfWeek:  req.DaysOfWeek,
		Category:    req.Category,
	}

	var err error
	if in.StartDate, err = parseTime(req.StartDate, h.Loc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return in, false
	}
	if in.EndDate, err = parseTime(req.EndDate, h.Loc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return in, false
	}
	if req.RecurringEndDate != nil {
		if in.RecurringEndDate, err = parseTime(*req.RecurringEndDate, h.Loc); err != nil {
			writeError(w, http.StatusBadRequest, "invalid recurringEndDate")
			return in, false
		}
	}
	return in, true
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	var q event.Query
	from, err := parseTime(qs.Get("startDate"), h.Loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return
	}
	to, err := parseTime(qs.Get("endDate"), h.Loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return
	}
	if from != nil && to != nil {
		q.From, q.To = from, to
	}

	events, err := h.Svc.List(r.Context(), q)
	if err != nil {
		writeServiceError(w, h.Log, err, "Failed to fetch events")
		return
	}

	when := event.When(strings.ToLower(strings.TrimSpace(qs.Get("when"))))
	if when != event.WhenUpcoming && when != event.WhenPast {
		when = event.WhenAll
	}
	category := strings.TrimSpace(qs.Get("category"))
	if category == "all" {
		category = ""
	}
	f := event.ListFilter{
		Search:   qs.Get("q"),
		Category: category,
		When:     when,
	}
	writeJSON(w, http.StatusOK, f.Apply(events, h.now()))
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	e, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, h.Log, err, "Failed to create event")
		return
	}
	h.Log.Info("event created", zap.Uint64("id", e.ID), zap.Bool("recurring", e.IsRecurring))
	writeJSON(w, http.StatusCreated, e)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	e, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.Log, err, "Failed to fetch event")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	e, err := h.Svc.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, h.Log, err, "Failed to update event")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.Log, err, "Failed to delete event")
		return
	}
	h.Log.Info("event deleted", zap.Uint64("id", id))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Event deleted successfully"})
}

// Day lists the events shown on one calendar day (?date=YYYY-MM-DD).
func (h *EventHandler) Day(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("date"))
	if raw == "" {
		raw = h.now().In(h.Loc).Format("2006-01-02")
	}
	day, err := time.ParseInLocation("2006-01-02", raw, h.Loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date (YYYY-MM-DD)")
		return
	}

	dayEnd := day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	events, err := h.Svc.List(r.Context(), event.Query{From: &day, To: &dayEnd})
	if err != nil {
		writeServiceError(w, h.Log, err, "Failed to fetch events")
		return
	}
	writeJSON(w, http.StatusOK, event.EventsOnDay(events, day))
}

func (h *EventHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
