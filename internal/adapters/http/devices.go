package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hearthgrid/smarthouse/internal/application"
	"github.com/hearthgrid/smarthouse/internal/domain"
)

type DeviceHandler struct {
	service *application.DeviceService
}

func NewDeviceHandler(service *application.DeviceService) *DeviceHandler {
	return &DeviceHandler{service: service}
}

func NewDeviceRouter(handler *DeviceHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ok") })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ready") })

	r.Route("/v1", func(r chi.Router) {
		r.Route("/devices", func(r chi.Router) {
			r.Get("/", handler.listDevices)
			r.Post("/", handler.createDevice)
			r.Get("/{device_id}", handler.getDevice)
			r.Put("/{device_id}", handler.updateDevice)
			r.Delete("/{device_id}", handler.deleteDevice)
		})
	})
	return r
}

func (h *DeviceHandler) listDevices(w http.ResponseWriter, r *http.Request) {
	filter := domain.DeviceFilter{
		Type:     r.URL.Query().Get("type"),
		Location: r.URL.Query().Get("location"),
	}
	devices, err := h.service.List(r.Context(), filter)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	out := make([]application.DeviceResponse, 0, len(devices))
	for _, device := range devices {
		out = append(out, application.ToDeviceResponse(device))
	}
	writeSuccess(w, http.StatusOK, out)
}

func (h *DeviceHandler) createDevice(w http.ResponseWriter, r *http.Request) {
	var req application.CreateDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	device, err := h.service.Create(r.Context(), req.ToNewDevice())
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, application.ToDeviceResponse(device))
}

func (h *DeviceHandler) getDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceIDParam(w, r)
	if !ok {
		return
	}
	device, err := h.service.Get(r.Context(), id)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, application.ToDeviceResponse(device))
}

func (h *DeviceHandler) updateDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceIDParam(w, r)
	if !ok {
		return
	}
	var req application.UpdateDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	device, err := h.service.Update(r.Context(), id, req.ToChanges())
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, application.ToDeviceResponse(device))
}

func (h *DeviceHandler) deleteDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceIDParam(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "Device deleted successfully")
}

func deviceIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "device_id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid device id")
		return 0, false
	}
	return id, true
}
