package restserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/chrissnell/natalchart/internal/storage"
	"github.com/chrissnell/natalchart/pkg/chart"
	"github.com/chrissnell/natalchart/pkg/responseformat"
	"github.com/chrissnell/natalchart/pkg/timescale"
)

const maxRequestBytes = 64 << 10

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
	now        func() time.Time
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
		now:        time.Now,
	}
}

// ComputeChart handles POST /chart. The body is a UT BirthMoment.
func (h *Handlers) ComputeChart(w http.ResponseWriter, req *http.Request) {
	logger := h.controller.logger

	var birth timescale.BirthMoment
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&birth); err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, "invalid request body: "+err.Error(), "")
		return
	}

	nc, err := h.controller.deps.Assembler.Compute(birth)
	if err != nil {
		var rangeErr *timescale.InputRangeError
		switch {
		case errors.As(err, &rangeErr):
			h.formatter.WriteError(w, req, http.StatusBadRequest, rangeErr.Error(), rangeErr.Field)
			return
		case errors.Is(err, chart.ErrNoValidPositions) && nc != nil:
			// Fall through: the failure chart is still returned
		default:
			logger.Errorw("chart computation failed", "error", err)
			h.formatter.WriteError(w, req, http.StatusInternalServerError, "chart computation failed", "")
			return
		}
	}

	view := nc.View()

	if store := h.controller.deps.Store; store != nil && nc.Status != chart.StatusFailure {
		rec, err := storage.NewRecord(view, h.now())
		if err == nil {
			err = store.Save(req.Context(), rec)
		}
		if err != nil {
			logger.Warnw("could not archive chart", "chart_id", view.ID, "error", err)
		} else {
			w.Header().Set("Location", "/chart/"+view.ID)
		}
	}

	status := http.StatusOK
	if nc.Status == chart.StatusFailure {
		status = http.StatusUnprocessableEntity
	}
	if err := h.formatter.WriteResponse(w, req, status, view); err != nil {
		logger.Errorw("error encoding chart response", "error", err)
	}
}

// GetChart handles GET /chart/{id}
func (h *Handlers) GetChart(w http.ResponseWriter, req *http.Request) {
	store := h.controller.deps.Store
	if store == nil {
		h.formatter.WriteError(w, req, http.StatusNotFound, "chart archive is not configured", "")
		return
	}

	id := mux.Vars(req)["id"]
	rec, err := store.Get(req.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		h.formatter.WriteError(w, req, http.StatusNotFound, "chart "+id+" not found", "")
		return
	}
	if err != nil {
		h.controller.logger.Errorw("error fetching chart", "chart_id", id, "error", err)
		h.formatter.WriteError(w, req, http.StatusInternalServerError, "error fetching chart", "")
		return
	}

	wrapper := &responseformat.JSONWrapper{ArchivedAt: rec.ArchivedAt.Format(time.RFC3339)}
	if err := h.formatter.WriteRawJSON(w, req, rec.View, wrapper); err != nil {
		h.controller.logger.Errorw("error writing archived chart", "chart_id", id, "error", err)
	}
}

// ListCharts handles GET /charts?limit=N
func (h *Handlers) ListCharts(w http.ResponseWriter, req *http.Request) {
	store := h.controller.deps.Store
	if store == nil {
		h.formatter.WriteError(w, req, http.StatusNotFound, "chart archive is not configured", "")
		return
	}

	limit := 0
	if l := req.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			h.formatter.WriteError(w, req, http.StatusBadRequest, "limit must be a positive integer", "limit")
			return
		}
		limit = n
	}

	records, err := store.Recent(req.Context(), limit)
	if err != nil {
		h.controller.logger.Errorw("error listing charts", "error", err)
		h.formatter.WriteError(w, req, http.StatusInternalServerError, "error listing charts", "")
		return
	}

	summaries := make([]ChartSummary, len(records))
	for i, rec := range records {
		summaries[i] = summaryOf(rec)
	}
	if err := h.formatter.WriteResponse(w, req, http.StatusOK, summaries); err != nil {
		h.controller.logger.Errorw("error encoding chart list response", "error", err)
	}
}

// GetEphemeris handles GET /ephemeris
func (h *Handlers) GetEphemeris(w http.ResponseWriter, req *http.Request) {
	sel := h.controller.deps.Selection
	info := EphemerisInfo{
		PrecisionMode: sel.Mode().String(),
		HouseSystem:   string(sel.HouseSystem()),
		Windows:       sel.Windows(),
	}
	if sel.Fallback != nil {
		info.Fallback = sel.Fallback.Mode().String()
	}
	if err := h.formatter.WriteResponse(w, req, http.StatusOK, info); err != nil {
		h.controller.logger.Errorw("error encoding ephemeris response", "error", err)
	}
}

// GetHealth handles GET /healthz. An unhealthy archive degrades the status
// but chart computation keeps working.
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	resp := HealthResponse{
		Status:        "ok",
		PrecisionMode: h.controller.deps.Assembler.Mode().String(),
	}
	if hm := h.controller.deps.Health; hm != nil {
		resp.Storage = hm.All()
		for _, s := range resp.Storage {
			if s.Status != "healthy" {
				resp.Status = "degraded"
			}
		}
	}
	if err := h.formatter.WriteResponse(w, req, http.StatusOK, resp); err != nil {
		h.controller.logger.Errorw("error encoding health response", "error", err)
	}
}
