package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hearthgrid/smarthouse/internal/application"
)

type TemperatureHandler struct {
	service *application.TemperatureService
}

func NewTemperatureHandler(service *application.TemperatureService) *TemperatureHandler {
	return &TemperatureHandler{service: service}
}

func NewTemperatureRouter(handler *TemperatureHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ok") })

	r.Get("/temperature", handler.byLocation)
	r.Get("/temperature/{sensor_id}", handler.bySensor)
	return r
}

func (h *TemperatureHandler) byLocation(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "location is required")
		return
	}
	reading := h.service.ByLocation(location)
	writeSuccess(w, http.StatusOK, application.ToTemperatureResponse(reading))
}

func (h *TemperatureHandler) bySensor(w http.ResponseWriter, r *http.Request) {
	sensorID := chi.URLParam(r, "sensor_id")
	reading := h.service.BySensor(sensorID)
	writeSuccess(w, http.StatusOK, application.ToTemperatureResponse(reading))
}
