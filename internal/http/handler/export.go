package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"evcal/internal/event"
	"evcal/internal/ics"
)

const maxImportBytes = 2 << 20

type ExportHandler struct {
	Svc      *event.Service
	Exporter *ics.Exporter
	Log      *zap.Logger
	Now      func() time.Time
}

// Export serves an .ics download. ?ids=1,2 limits it to those events;
// ids that do not parse are ignored.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	var q event.Query
	for _, part := range strings.Split(r.URL.Query().Get("ids"), ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil || id == 0 {
			continue
		}
		q.IDs = append(q.IDs, id)
	}

	events, err := h.Svc.List(r.Context(), q)
	if err != nil {
		writeServiceError(w, h.Log, err, "Failed to export events")
		return
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	w.Header().Set("Content-Type", ics.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ics.Filename(now())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(h.Exporter.Export(events)))
}

type importResp struct {
	Created []uint64            `json:"created"`
	Skipped []ics.Skipped       `json:"skipped"`
	Notes   map[string][]string `json:"notes,omitempty"`
}

// Import creates one event per VEVENT in the request body. Events that
// fail to map or validate are reported and do not stop the rest.
func (h *ExportHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	parsed, skipped, err := ics.Parse(r.Body)
	if err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			writeError(w, http.StatusRequestEntityTooLarge, "calendar too large")
		case errors.Is(err, ics.ErrEmptyDocument):
			writeError(w, http.StatusBadRequest, "empty calendar")
		default:
			writeError(w, http.StatusBadRequest, "invalid calendar")
		}
		return
	}

	resp := importResp{Created: make([]uint64, 0), Skipped: make([]ics.Skipped, 0)}
	resp.Skipped = append(resp.Skipped, skipped...)
	for _, p := range parsed {
		e, err := h.Svc.Create(r.Context(), p.Input)
		if err != nil {
			var verr *event.ValidationError
			if !errors.As(err, &verr) {
				writeServiceError(w, h.Log, err, "Failed to import events")
				return
			}
			resp.Skipped = append(resp.Skipped, ics.Skipped{UID: p.UID, Error: verr.Msg})
			continue
		}
		resp.Created = append(resp.Created, e.ID)
		if len(p.Notes) > 0 {
			if resp.Notes == nil {
				resp.Notes = map[string][]string{}
			}
			resp.Notes[p.UID] = p.Notes
		}
	}

	h.Log.Info("calendar imported",
		zap.Int("created", len(resp.Created)),
		zap.Int("skipped", len(resp.Skipped)),
	)
	writeJSON(w, http.StatusOK, resp)
}
