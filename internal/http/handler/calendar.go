package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"evcal/internal/calendar"
	"evcal/internal/event"
)

type CalendarHandler struct {
	Svc        *event.Service
	Categories *event.Categories
	Loc        *time.Location
	Log        *zap.Logger
}

type cellEvent struct {
	event.Event
	DisplayColor string `json:"displayColor"`
}

type cell struct {
	calendar.Day
	Events []cellEvent `json:"events"`
}

type monthResp struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Days  []cell `json:"days"`
}

// Month serves /api/calendar/{year}/{month}, month 1..12.
func (h *CalendarHandler) Month(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 || year > 9999 {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "invalid month (1-12)")
		return
	}

	grid := calendar.MonthGrid(year, month-1, h.Loc)
	from := grid[0].Date
	to := grid[len(grid)-1].Date.AddDate(0, 0, 1).Add(-time.Nanosecond)

	events, err := h.Svc.List(r.Context(), event.Query{From: &from, To: &to})
	if err != nil {
		writeServiceError(w, h.Log, err, "Failed to fetch events")
		return
	}

	resp := monthResp{Year: year, Month: month, Days: make([]cell, 0, len(grid))}
	for _, d := range grid {
		c := cell{Day: d, Events: make([]cellEvent, 0)}
		for _, e := range event.EventsOnDay(events, d.Date) {
			c.Events = append(c.Events, cellEvent{Event: e, DisplayColor: h.Categories.DisplayColor(&e)})
		}
		resp.Days = append(resp.Days, c)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CalendarHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Categories.List())
}
