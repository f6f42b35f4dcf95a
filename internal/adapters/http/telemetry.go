package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hearthgrid/smarthouse/internal/application"
)

const (
	defaultReadingsLimit = 100
	maxReadingsLimit     = 1000
)

type TelemetryHandler struct {
	service *application.TelemetryService
}

func NewTelemetryHandler(service *application.TelemetryService) *TelemetryHandler {
	return &TelemetryHandler{service: service}
}

func NewTelemetryRouter(handler *TelemetryHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ok") })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ready") })

	r.Route("/v1", func(r chi.Router) {
		r.Route("/devices/{device_id}/readings", func(r chi.Router) {
			r.Get("/", handler.getReadings)
			r.Get("/latest", handler.getLatestReadings)
		})
	})
	return r
}

func (h *TelemetryHandler) getReadings(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceIDParam(w, r)
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit", defaultReadingsLimit, 1, maxReadingsLimit)
	if !ok {
		return
	}
	offset, ok := queryInt(w, r, "offset", 0, 0, 1<<30)
	if !ok {
		return
	}
	readings, err := h.service.Readings(r.Context(), id, limit)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	out := application.ToReadingResponses(readings)
	writeSuccess(w, http.StatusOK, application.ReadingsPage{
		DeviceID: id,
		Readings: out,
		Total:    len(out),
		Limit:    limit,
		Offset:   offset,
	})
}

func (h *TelemetryHandler) getLatestReadings(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceIDParam(w, r)
	if !ok {
		return
	}
	readings, err := h.service.LatestReadings(r.Context(), id)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, application.LatestReadings{
		DeviceID: id,
		Readings: application.ToReadingResponses(readings),
	})
}

func queryInt(w http.ResponseWriter, r *http.Request, name string, fallback, min, max int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid "+name)
		return 0, false
	}
	return v, true
}
