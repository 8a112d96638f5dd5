package handler

import (
	"net/http"

	"cleanbook/internal/bookings/service"
	apperrors "cleanbook/pkg/errors"
	httputil "cleanbook/pkg/http"
	"cleanbook/pkg/logger"
	"cleanbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingResponse struct {
	Success bool           `json:"success"`
	Booking *model.Booking `json:"booking"`
}

type LookupResponse struct {
	Booking *model.Booking `json:"booking"`
}

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	booking, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, BookingResponse{Success: true, Booking: booking}); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByNumber(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	number := r.URL.Query().Get("booking_number")
	if number == "" {
		h.writeError(w, "GetByNumber", apperrors.InvalidInput("Query parameter 'booking_number' is required"))
		return
	}

	booking, err := h.service.GetByNumber(r.Context(), number)
	if err != nil {
		h.writeError(w, "GetByNumber", err)
		return
	}
	if booking == nil {
		h.writeError(w, "GetByNumber", apperrors.NotFound("Booking"))
		return
	}

	if err := httputil.WriteSuccess(w, LookupResponse{Booking: booking}); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByNumber", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.Cancel(r.Context(), ps.ByName("booking_number"))
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, BookingResponse{Success: true, Booking: booking}); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.StatusUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	booking, err := h.service.UpdateStatus(r.Context(), ps.ByName("booking_number"), &update)
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	if err := httputil.WriteSuccess(w, BookingResponse{Success: true, Booking: booking}); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/bookings", h.Create)
	router.GET("/api/bookings", h.GetByNumber)
	router.POST("/api/bookings/:booking_number/cancel", h.Cancel)
	router.PATCH("/api/bookings/:booking_number/status", h.UpdateStatus)
}
